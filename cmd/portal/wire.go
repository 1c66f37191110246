package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/custodia-labs/portal-login/internal/adapters/driven/config/file"
	"github.com/custodia-labs/portal-login/internal/adapters/driven/portal"
	credfile "github.com/custodia-labs/portal-login/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/portal-login/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portal-login/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/portal-login/internal/adapters/driving/cli"
	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
	"github.com/custodia-labs/portal-login/internal/core/services"
	"github.com/custodia-labs/portal-login/internal/logger"
)

// EnvConfigDir overrides the default config directory.
const EnvConfigDir = "PORTAL_CONFIG_DIR"

// wire builds the services for one command invocation.
func wire(_ context.Context, opts cli.Options) (*cli.Services, error) {
	dir, err := configDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("config dir: %s", dir)

	var warnings []string
	configStore, err := configfile.NewConfigStore(dir)
	switch {
	case errors.Is(err, configfile.ErrCorrupt):
		logger.Warn("%v", err)
		warnings = append(warnings, fmt.Sprintf(
			"%s could not be read, using default settings. Run 'portal settings reset' to rewrite it.",
			configStore.Path()))
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	backend := settings.Storage
	if opts.Store != "" {
		backend = domain.StorageBackend(opts.Store)
	}

	store, closeStore, err := openCredentialStore(backend, dir)
	if err != nil {
		return nil, err
	}
	credentialService := services.NewCredentialService(store)

	prober := portal.NewProber(portal.Config{Timeout: settings.Timeout})
	loginService := services.NewLoginService(prober, credentialService, settings)

	return &cli.Services{
		Credentials: credentialService,
		Login:       loginService,
		Settings:    settingsService,
		Close:       closeStore,
		Warnings:    warnings,
	}, nil
}

// configDir resolves the flag, then the environment, then ~/.portal.
func configDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	return configfile.DefaultDir()
}

func openCredentialStore(backend domain.StorageBackend, dir string) (driven.CredentialStore, func() error, error) {
	logger.Debug("credential backend: %s", backend)

	switch backend {
	case domain.StorageFile:
		store, err := credfile.NewCredentialStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening credentials file: %w", err)
		}
		return store, nil, nil

	case domain.StorageSQLite:
		db, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening credentials database: %w", err)
		}
		return db.CredentialStore(), db.Close, nil

	case domain.StorageMemory:
		return memory.NewCredentialStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, backend)
	}
}
