package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

func TestLoginCmd_Use(t *testing.T) {
	assert.Equal(t, "login [username]", loginCmd.Use)
	assert.Contains(t, loginCmd.Long, "both portal mirrors")
}

func TestLoginCmd_Connected(t *testing.T) {
	env := setupCLITest(t, domain.Credential{Username: "alice", Password: "p1"})
	env.login.result = domain.Connected

	out, _, code := run(t, "", "login", "alice")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "alice: Connected")
	assert.Contains(t, out, "primary")
	assert.Contains(t, out, "200")
	assert.Equal(t, []string{"alice"}, env.login.attempted)
}

func TestLoginCmd_NotConnected(t *testing.T) {
	env := setupCLITest(t, domain.Credential{Username: "alice", Password: "p1"})
	env.login.result = domain.NotConnected

	out, errOut, code := run(t, "", "login", "alice")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, out, "alice: Not Connected")
	assert.Empty(t, errOut)
}

func TestLoginCmd_UnknownUser(t *testing.T) {
	env := setupCLITest(t)

	_, errOut, code := run(t, "", "login", "ghost")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "ghost")
	assert.Empty(t, env.login.attempted)
}

func TestLoginCmd_JSON(t *testing.T) {
	env := setupCLITest(t, domain.Credential{Username: "alice", Password: "p1"})
	env.login.result = domain.Connected

	out, _, code := run(t, "", "login", "alice", "--json")
	require.Equal(t, ExitOK, code)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "alice", report["username"])
	assert.Equal(t, "Connected", report["result"])
	outcomes, ok := report["outcomes"].([]any)
	require.True(t, ok)
	require.Len(t, outcomes, 2)
	assert.NotContains(t, out, "p1")
}

func TestLoginCmd_NoArgSingleCredential(t *testing.T) {
	env := setupCLITest(t, domain.Credential{Username: "alice", Password: "p1"})
	env.login.result = domain.Connected

	_, _, code := run(t, "", "login")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"alice"}, env.login.attempted)
}

func TestLoginCmd_NoArgNoCredentials(t *testing.T) {
	setupCLITest(t)

	_, errOut, code := run(t, "", "login")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "no credentials stored")
}

func TestLoginCmd_NoArgNotTerminal(t *testing.T) {
	env := setupCLITest(t,
		domain.Credential{Username: "alice", Password: "p1"},
		domain.Credential{Username: "bob", Password: "p2"},
	)

	_, errOut, code := run(t, "", "login")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "pass a username")
	assert.Empty(t, env.login.attempted)
}

func TestLoginCmd_Picker(t *testing.T) {
	env := setupCLITest(t,
		domain.Credential{Username: "alice", Password: "p1"},
		domain.Credential{Username: "bob", Password: "p2"},
	)
	env.login.result = domain.Connected
	isTerminal = func(*cobra.Command) bool { return true }
	var offered []domain.Credential
	pickCredential = func(_ *cobra.Command, creds []domain.Credential) (*domain.Credential, error) {
		offered = creds
		return &creds[1], nil
	}

	_, _, code := run(t, "", "login")

	assert.Equal(t, ExitOK, code)
	assert.Len(t, offered, 2)
	assert.Equal(t, []string{"bob"}, env.login.attempted)
}

func TestLoginCmd_PickerCancelled(t *testing.T) {
	env := setupCLITest(t,
		domain.Credential{Username: "alice", Password: "p1"},
		domain.Credential{Username: "bob", Password: "p2"},
	)
	isTerminal = func(*cobra.Command) bool { return true }
	pickCredential = func(*cobra.Command, []domain.Credential) (*domain.Credential, error) {
		return nil, nil
	}

	out, _, code := run(t, "", "login")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, env.login.attempted)
}

func TestLoginCmd_PickerError(t *testing.T) {
	setupCLITest(t,
		domain.Credential{Username: "alice", Password: "p1"},
		domain.Credential{Username: "bob", Password: "p2"},
	)
	isTerminal = func(*cobra.Command) bool { return true }
	pickCredential = func(*cobra.Command, []domain.Credential) (*domain.Credential, error) {
		return nil, errors.New("no tty")
	}

	_, errOut, code := run(t, "", "login")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "no tty")
}

func TestLoginCmd_ServiceNotConfigured(t *testing.T) {
	setupCLITest(t)
	SetServices(nil, nil, nil)

	_, errOut, code := run(t, "", "login", "alice")

	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "login service not configured")
}

func TestRenderResult(t *testing.T) {
	assert.Contains(t, renderResult(domain.Connected), "Connected")
	assert.Contains(t, renderResult(domain.NotConnected), "Not Connected")
	assert.NotContains(t, renderResult(domain.Connected), "Not")
}
