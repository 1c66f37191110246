package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// StorageBackend selects where credentials are persisted.
type StorageBackend string

const (
	// StorageFile keeps credentials in a TOML file (default).
	StorageFile StorageBackend = "file"
	// StorageSQLite keeps credentials in a SQLite database.
	StorageSQLite StorageBackend = "sqlite"
	// StorageMemory keeps credentials for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// AllStorageBackends returns every supported backend.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageFile, StorageSQLite, StorageMemory}
}

// IsValid returns true if the backend is supported.
func (b StorageBackend) IsValid() bool {
	return slices.Contains(AllStorageBackends(), b)
}

// StorageBackendNames lists the supported backends for help and error text.
func StorageBackendNames() string {
	names := make([]string, 0, len(AllStorageBackends()))
	for _, b := range AllStorageBackends() {
		names = append(names, b.String())
	}
	return strings.Join(names, ", ")
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Default portal settings.
const (
	DefaultPrimaryURL   = "http://logout.ui.ac.ir"
	DefaultSecondaryURL = "http://logout2.ui.ac.ir"
	DefaultTimeout      = 8 * time.Second
	DefaultParallel     = true

	// MaxTimeout caps the per-request timeout.
	MaxTimeout = 24 * time.Hour
)

// PortalSettings configures the login mirrors and credential storage.
type PortalSettings struct {
	// PrimaryURL is the base URL of the first login mirror.
	PrimaryURL string
	// SecondaryURL is the base URL of the second login mirror.
	SecondaryURL string
	// Timeout bounds each login request, connect through response headers.
	Timeout time.Duration
	// Parallel issues both requests at once instead of one after another.
	Parallel bool
	// Storage selects the credential backend.
	Storage StorageBackend
}

// DefaultPortalSettings returns the settings used when nothing is configured.
func DefaultPortalSettings() PortalSettings {
	return PortalSettings{
		PrimaryURL:   DefaultPrimaryURL,
		SecondaryURL: DefaultSecondaryURL,
		Timeout:      DefaultTimeout,
		Parallel:     DefaultParallel,
		Storage:      StorageFile,
	}
}

// Mirrors returns the login mirrors in probe order.
func (s PortalSettings) Mirrors() []Mirror {
	return []Mirror{
		{Name: "primary", BaseURL: s.PrimaryURL},
		{Name: "secondary", BaseURL: s.SecondaryURL},
	}
}

// Validate checks that the settings are usable.
func (s PortalSettings) Validate() error {
	for _, m := range s.Mirrors() {
		if err := ValidateBaseURL(m.BaseURL); err != nil {
			return fmt.Errorf("%s mirror: %w", m.Name, err)
		}
	}
	if err := ValidateTimeout(s.Timeout); err != nil {
		return err
	}
	if !s.Storage.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedBackend, s.Storage)
	}
	return nil
}

// ValidateTimeout checks that d is positive and at most MaxTimeout.
func ValidateTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	if d > MaxTimeout {
		return fmt.Errorf("%w: timeout must be at most %s", ErrInvalidInput, MaxTimeout)
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL with a host.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidInput, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidInput, raw)
	}
	return nil
}
