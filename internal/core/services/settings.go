package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
	"github.com/custodia-labs/portal-login/internal/core/ports/driving"
	"github.com/custodia-labs/portal-login/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyPrimaryURL   = "portal.primary_url"
	keySecondaryURL = "portal.secondary_url"
	keyTimeout      = "portal.timeout"
	keyParallel     = "portal.parallel"
	keyStorage      = "storage.backend"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Unset or unusable values fall back to their defaults individually.
func (s *SettingsService) Get() (domain.PortalSettings, error) {
	defaults := domain.DefaultPortalSettings()
	if s.configStore == nil {
		return defaults, nil
	}

	return domain.PortalSettings{
		PrimaryURL:   s.getURL(keyPrimaryURL, defaults.PrimaryURL),
		SecondaryURL: s.getURL(keySecondaryURL, defaults.SecondaryURL),
		Timeout:      s.getDuration(keyTimeout, defaults.Timeout),
		Parallel:     s.getBool(keyParallel, defaults.Parallel),
		Storage:      s.getStorage(defaults.Storage),
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.PortalSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyPrimaryURL, settings.PrimaryURL); err != nil {
		return fmt.Errorf("save primary url: %w", err)
	}
	if err := s.configStore.Set(keySecondaryURL, settings.SecondaryURL); err != nil {
		return fmt.Errorf("save secondary url: %w", err)
	}
	if err := s.configStore.Set(keyTimeout, settings.Timeout.String()); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if err := s.configStore.Set(keyParallel, settings.Parallel); err != nil {
		return fmt.Errorf("save parallel: %w", err)
	}
	if err := s.configStore.Set(keyStorage, settings.Storage.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	return nil
}

// SetPrimaryURL updates the primary mirror base URL.
func (s *SettingsService) SetPrimaryURL(raw string) error {
	return s.setURL(keyPrimaryURL, raw)
}

// SetSecondaryURL updates the secondary mirror base URL.
func (s *SettingsService) SetSecondaryURL(raw string) error {
	return s.setURL(keySecondaryURL, raw)
}

// SetTimeout updates the per-request timeout.
func (s *SettingsService) SetTimeout(d time.Duration) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := domain.ValidateTimeout(d); err != nil {
		return err
	}
	return s.configStore.Set(keyTimeout, d.String())
}

// SetParallel toggles concurrent mirror requests.
func (s *SettingsService) SetParallel(parallel bool) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	return s.configStore.Set(keyParallel, parallel)
}

// SetStorage selects the credential storage backend.
func (s *SettingsService) SetStorage(backend domain.StorageBackend) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if !backend.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, backend)
	}
	return s.configStore.Set(keyStorage, backend.String())
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.PortalSettings {
	return domain.DefaultPortalSettings()
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

func (s *SettingsService) setURL(key, raw string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := domain.ValidateBaseURL(raw); err != nil {
		return err
	}
	return s.configStore.Set(key, raw)
}

func (s *SettingsService) getURL(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	if err := domain.ValidateBaseURL(val); err != nil {
		logger.Warn("ignoring %s: %v", key, err)
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		// Bare integers are read as seconds.
		if secs := s.configStore.GetInt(key); secs > 0 && secs <= int(domain.MaxTimeout/time.Second) {
			return time.Duration(secs) * time.Second
		}
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || domain.ValidateTimeout(d) != nil {
		logger.Warn("ignoring %s=%q", key, val)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStorage(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorage)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
