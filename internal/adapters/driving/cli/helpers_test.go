package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/portal-login/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/services"
)

// mockLoginService implements driving.LoginService for testing.
type mockLoginService struct {
	mu        sync.Mutex
	result    domain.LoginResult
	attempted []string
	creds     *services.CredentialService
}

func (m *mockLoginService) Attempt(_ context.Context, cred domain.Credential) domain.LoginReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempted = append(m.attempted, cred.Username)

	status := 404
	if m.result == domain.Connected {
		status = 200
	}
	return domain.LoginReport{
		AttemptID: "attempt-1",
		Username:  cred.Username,
		Result:    m.result,
		Outcomes: []domain.MirrorOutcome{
			{Mirror: "primary", StatusCode: status},
			{Mirror: "secondary", StatusCode: 404},
		},
	}
}

func (m *mockLoginService) AttemptByUsername(ctx context.Context, username string) (domain.LoginReport, error) {
	cred, err := m.creds.Get(ctx, username)
	if err != nil {
		return domain.LoginReport{}, err
	}
	return m.Attempt(ctx, *cred), nil
}

type testEnv struct {
	creds    *services.CredentialService
	store    *memory.CredentialStore
	settings *services.SettingsService
	login    *mockLoginService
}

// setupCLITest installs services backed by in-memory stores and restores
// the previous globals on cleanup.
func setupCLITest(t *testing.T, seed ...domain.Credential) *testEnv {
	t.Helper()

	store := memory.NewCredentialStore(seed...)
	env := &testEnv{
		store:    store,
		creds:    services.NewCredentialService(store),
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}
	env.login = &mockLoginService{creds: env.creds}

	oldCreds, oldLogin, oldSettings := credentialService, loginService, settingsService
	oldBootstrap, oldTerminal, oldPick := bootstrap, isTerminal, pickCredential
	SetServices(env.creds, env.login, env.settings)
	bootstrap = nil
	isTerminal = func(*cobra.Command) bool { return false }

	t.Cleanup(func() {
		SetServices(oldCreds, oldLogin, oldSettings)
		bootstrap, isTerminal, pickCredential = oldBootstrap, oldTerminal, oldPick
	})
	return env
}

// resetFlags restores every flag to its default so values do not leak
// between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns stdout, stderr and
// the exit code.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	resetFlags(rootCmd)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code := Execute(context.Background())
	return stdout.String(), stderr.String(), code
}
