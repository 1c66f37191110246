package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	setupCLITest(t)
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, _, code := run(t, "", "version")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "portal version test-version-1.0.0")
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	setupCLITest(t)
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	SetVersion("")
	out, _, code := run(t, "", "version")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "portal version dev")
}

func TestVersionCmd_SkipsBootstrap(t *testing.T) {
	setupCLITest(t)
	called := false
	SetBootstrap(func(_ context.Context, _ Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	_, _, code := run(t, "", "version")

	assert.Equal(t, ExitOK, code)
	assert.False(t, called)
}
