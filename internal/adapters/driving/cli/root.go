// Package cli provides the cobra command tree for the portal binary.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driving"
	"github.com/custodia-labs/portal-login/internal/logger"
)

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Tests replace them with mocks.
var (
	credentialService driving.CredentialService
	loginService      driving.LoginService
	settingsService   driving.SettingsService
)

// Options are the global flag values handed to the Bootstrap function.
type Options struct {
	ConfigDir string
	Store     string
	Verbose   bool
}

// Services is what a Bootstrap function builds.
type Services struct {
	Credentials driving.CredentialService
	Login       driving.LoginService
	Settings    driving.SettingsService

	// Close releases backend resources. May be nil.
	Close func() error

	// Warnings are printed to stderr before the command runs.
	Warnings []string
}

// Bootstrap wires services once global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	opts      Options
	bootstrap Bootstrap
	closer    func() error
)

// skipBootstrap marks commands that need no services.
const skipBootstrap = "skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Log in to the campus captive portal",
	Long: `portal stores captive-portal credentials locally and logs in by
sending the login request to both portal mirrors.

The login succeeds if either mirror answers with HTTP 200.`,
	Args:              usageArgs(cobra.NoArgs),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print request and storage details to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.portal, or $PORTAL_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&opts.Store, "store", "", "credential storage backend: file, sqlite or memory")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(creds driving.CredentialService, login driving.LoginService, settings driving.SettingsService) {
	credentialService = creds
	loginService = login
	settingsService = settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if bootstrap == nil || cmd.Annotations[skipBootstrap] != "" {
		return nil
	}
	if opts.Store != "" && !domain.StorageBackend(opts.Store).IsValid() {
		return usageErrorf("unknown storage backend %q", opts.Store)
	}

	svc, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return err
	}
	for _, w := range svc.Warnings {
		cmd.PrintErrln("Warning:", w)
	}
	SetServices(svc.Credentials, svc.Login, svc.Settings)
	closer = svc.Close
	return nil
}

func teardown() error {
	if closer == nil {
		return nil
	}
	err := closer()
	closer = nil
	return err
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil && !errors.Is(err, errNotConnected) {
		rootCmd.PrintErrln("Error:", err)
	}
	return ExitCode(err)
}

// errNotConnected signals a completed login that no mirror accepted.
// The verdict is already printed, so Execute only sets the exit code.
var errNotConnected = errors.New("not connected")

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs turns positional argument failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var uerr *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errNotConnected):
		return ExitError
	case errors.As(err, &uerr),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrUnsupportedBackend):
		return ExitUsage
	default:
		return ExitError
	}
}
