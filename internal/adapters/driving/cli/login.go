package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portal-login/internal/adapters/driving/tui/picker"
	"github.com/custodia-labs/portal-login/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/portal-login/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in with a stored credential",
	Long: `Send the login request for a stored credential to both portal mirrors.

Without a username, an interactive picker opens when running in a
terminal. If only one credential is stored it is used directly.

Exits 0 when connected and 1 otherwise.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runLogin,
}

var loginJSON bool

// pickCredential shows the interactive picker. Replaced in tests.
var pickCredential = func(cmd *cobra.Command, creds []domain.Credential) (*domain.Credential, error) {
	return picker.Run(creds, cmd.InOrStdin(), cmd.OutOrStdout())
}

func init() {
	loginCmd.Flags().BoolVar(&loginJSON, "json", false, "print the full login report as JSON")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if loginService == nil {
		return errors.New("login service not configured")
	}

	var report domain.LoginReport
	if len(args) == 1 {
		r, err := loginService.AttemptByUsername(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return usageErrorf("no credential stored for %q", args[0])
		}
		if err != nil {
			return err
		}
		report = r
	} else {
		cred, err := chooseCredential(cmd)
		if err != nil {
			return err
		}
		if cred == nil {
			cmd.Println("Cancelled.")
			return nil
		}
		report = loginService.Attempt(cmd.Context(), *cred)
	}

	if err := printReport(cmd, report); err != nil {
		return err
	}
	if report.Result != domain.Connected {
		return errNotConnected
	}
	return nil
}

func chooseCredential(cmd *cobra.Command) (*domain.Credential, error) {
	if err := requireCredentials(); err != nil {
		return nil, err
	}

	creds := credentialService.LoadAll(cmd.Context())
	switch {
	case len(creds) == 0:
		return nil, usageErrorf("no credentials stored; add one with 'portal add <username>'")
	case len(creds) == 1:
		return &creds[0], nil
	case !isTerminal(cmd):
		return nil, usageErrorf("%d credentials stored; pass a username", len(creds))
	}

	return pickCredential(cmd, creds)
}

func printReport(cmd *cobra.Command, report domain.LoginReport) error {
	if loginJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return nil
	}

	cmd.Printf("%s: %s\n", report.Username, renderResult(report.Result))
	for _, o := range report.Outcomes {
		cmd.Printf("  %-10s %s (%s)\n", o.Mirror, o.String(), o.Elapsed.Round(time.Millisecond))
	}
	return nil
}

// renderResult colours the verdict. lipgloss drops the colour when stdout
// is not a terminal.
func renderResult(result domain.LoginResult) string {
	theme := styles.DefaultStyles()
	if result == domain.Connected {
		return theme.Success.Render(result.String())
	}
	return theme.Error.Render(result.String())
}
