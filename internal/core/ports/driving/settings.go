package driving

import (
	"time"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults per field.
	Get() (domain.PortalSettings, error)

	// Save persists all settings.
	Save(settings domain.PortalSettings) error

	// SetPrimaryURL updates the primary mirror base URL.
	SetPrimaryURL(raw string) error

	// SetSecondaryURL updates the secondary mirror base URL.
	SetSecondaryURL(raw string) error

	// SetTimeout updates the per-request timeout.
	SetTimeout(d time.Duration) error

	// SetParallel toggles concurrent mirror requests.
	SetParallel(parallel bool) error

	// SetStorage selects the credential storage backend.
	SetStorage(backend domain.StorageBackend) error

	// GetDefaults returns default settings.
	GetDefaults() domain.PortalSettings

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
