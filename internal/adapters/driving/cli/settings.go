package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the portal mirrors, request timeout and storage backend.

Use 'settings set <key> <value>' to change a single setting.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

Available keys:
  primary    - primary mirror base URL (e.g. http://logout.ui.ac.ir)
  secondary  - secondary mirror base URL
  timeout    - per-request timeout, a duration (8s) or whole seconds (8)
  parallel   - send both requests at once: true or false
  storage    - credential backend: ` + domain.StorageBackendNames(),
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Portal]")
	cmd.Printf("  Primary URL: %s\n", settings.PrimaryURL)
	cmd.Printf("  Secondary URL: %s\n", settings.SecondaryURL)
	cmd.Printf("  Timeout: %s\n", settings.Timeout)
	cmd.Printf("  Parallel: %s\n", yesNo(settings.Parallel))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage)
	if opts.Store != "" && opts.Store != settings.Storage.String() {
		cmd.Printf("  Override: %s (--store)\n", opts.Store)
	}
	cmd.Println()

	if path := settingsService.ConfigPath(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := strings.ToLower(args[0]), strings.TrimSpace(args[1])

	var err error
	switch key {
	case "primary":
		err = settingsService.SetPrimaryURL(value)
	case "secondary":
		err = settingsService.SetSecondaryURL(value)
	case "timeout":
		d, perr := parseTimeout(value)
		if perr != nil {
			return usageErrorf("invalid timeout %q: use a duration like 8s or whole seconds, at most %s", value, domain.MaxTimeout)
		}
		err = settingsService.SetTimeout(d)
	case "parallel":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return usageErrorf("invalid parallel value %q: use true or false", value)
		}
		err = settingsService.SetParallel(b)
	case "storage":
		backend := domain.StorageBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return usageErrorf("invalid storage %q: use one of %s", value, domain.StorageBackendNames())
		}
		err = settingsService.SetStorage(backend)
	default:
		return usageErrorf("unknown setting %q (keys: primary, secondary, timeout, parallel, storage)", args[0])
	}

	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to: %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Save(settingsService.GetDefaults()); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func parseTimeout(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if secs, aerr := strconv.Atoi(value); aerr == nil {
		if secs > int(domain.MaxTimeout/time.Second) {
			return 0, fmt.Errorf("%d seconds exceeds %s", secs, domain.MaxTimeout)
		}
		d, err = time.Duration(secs)*time.Second, nil
	}
	if err != nil {
		return 0, err
	}
	return d, domain.ValidateTimeout(d)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
