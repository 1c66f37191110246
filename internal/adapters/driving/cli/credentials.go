package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

var addCmd = &cobra.Command{
	Use:   "add <username> [password]",
	Short: "Store a new credential",
	Long: `Store a new portal credential.

If the password is omitted it is read from the terminal without echo.`,
	Args: usageArgs(cobra.RangeArgs(1, 2)),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <username>",
	Short: "Change a stored credential",
	Long: `Change the username, the password, or both for a stored credential.

With neither flag set, the new password is read from the terminal.`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runEdit,
}

var removeCmd = &cobra.Command{
	Use:     "remove <username>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored credential",
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE:    runRemove,
}

var (
	listShowPasswords bool
	editUsername      string
	editPassword      string
)

func init() {
	listCmd.Flags().BoolVar(&listShowPasswords, "show-passwords", false, "print passwords next to usernames")
	editCmd.Flags().StringVar(&editUsername, "username", "", "new username")
	editCmd.Flags().StringVar(&editPassword, "password", "", "new password")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
}

func requireCredentials() error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	cred := domain.Credential{Username: args[0]}
	if len(args) == 2 {
		cred.Password = args[1]
	} else {
		cmd.Print("Password: ")
		cred.Password = readPassword(cmd)
		cmd.Println()
	}

	if err := credentialService.Add(cmd.Context(), cred); err != nil {
		return fmt.Errorf("failed to add %q: %w", cred.Username, err)
	}

	cmd.Printf("Added %s\n", cred.Username)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	creds := credentialService.LoadAll(cmd.Context())
	if len(creds) == 0 {
		cmd.Println("No credentials stored. Add one with 'portal add <username>'.")
		return nil
	}

	for _, c := range creds {
		if listShowPasswords {
			cmd.Printf("%s\t%s\n", c.Username, c.Password)
		} else {
			cmd.Println(c.Username)
		}
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	current, err := lookup(cmd, args[0])
	if err != nil {
		return err
	}

	updated := *current
	usernameSet := cmd.Flags().Changed("username")
	passwordSet := cmd.Flags().Changed("password")
	if usernameSet {
		updated.Username = editUsername
	}
	if passwordSet {
		updated.Password = editPassword
	}
	if !usernameSet && !passwordSet {
		cmd.Print("New password: ")
		updated.Password = readPassword(cmd)
		cmd.Println()
	}

	if err := credentialService.Replace(cmd.Context(), current.Username, updated); err != nil {
		return fmt.Errorf("failed to update %q: %w", current.Username, err)
	}

	if updated.Username != current.Username {
		cmd.Printf("Updated %s (now %s)\n", current.Username, updated.Username)
	} else {
		cmd.Printf("Updated %s\n", updated.Username)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := requireCredentials(); err != nil {
		return err
	}

	if _, err := lookup(cmd, args[0]); err != nil {
		return err
	}

	if err := credentialService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove %q: %w", args[0], err)
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}

// lookup fetches a stored credential, reporting an unknown username as a
// usage error.
func lookup(cmd *cobra.Command, username string) (*domain.Credential, error) {
	cred, err := credentialService.Get(cmd.Context(), username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, usageErrorf("no credential stored for %q", username)
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}
