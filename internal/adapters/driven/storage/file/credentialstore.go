package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

const (
	// FileName is the credentials file inside the data directory.
	FileName = "credentials.toml"
	// Namespace is the top-level table holding the credential entry.
	Namespace = "WiFiCredentials"
	// EntryKey is the key under Namespace holding the records.
	EntryKey = "credentials"
)

type record struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type namespace struct {
	Credentials []record `toml:"credentials"`
}

type document struct {
	WiFiCredentials namespace `toml:"WiFiCredentials"`
}

// CredentialStore persists credentials to a TOML file.
// Writes go through a temporary file and rename, so a crash mid-write
// leaves the previous snapshot in place.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store at dir/credentials.toml, creating dir
// if needed. The file itself is created on first Store.
func NewCredentialStore(dir string) (*CredentialStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &CredentialStore{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the credentials file path.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads every credential in file order.
func (s *CredentialStore) Load(ctx context.Context) ([]domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Credential{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return creds, nil
}

// Store overwrites the file with creds.
func (s *CredentialStore) Store(ctx context.Context, creds []domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := document{WiFiCredentials: namespace{Credentials: make([]record, 0, len(creds))}}
	for _, c := range creds {
		doc.WiFiCredentials.Credentials = append(doc.WiFiCredentials.Credentials, record(c))
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return os.Chmod(s.path, 0600)
}

// decode accepts both record entries and legacy "username|password"
// strings, in any mix.
func decode(data []byte) ([]domain.Credential, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	creds := []domain.Credential{}
	nsVal, ok := raw[Namespace]
	if !ok {
		return creds, nil
	}
	ns, ok := nsVal.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected table, got %T", Namespace, nsVal)
	}
	entryVal, ok := ns[EntryKey]
	if !ok {
		return creds, nil
	}
	entries, ok := entryVal.([]any)
	if !ok {
		return nil, fmt.Errorf("%s.%s: expected array, got %T", Namespace, EntryKey, entryVal)
	}

	for i, e := range entries {
		c, err := decodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("%s.%s[%d]: %w", Namespace, EntryKey, i, err)
		}
		creds = append(creds, c)
	}
	return creds, nil
}

func decodeEntry(e any) (domain.Credential, error) {
	switch v := e.(type) {
	case string:
		return domain.ParseToken(v)
	case map[string]any:
		username, uok := v["username"].(string)
		password, pok := v["password"].(string)
		if !uok || !pok {
			return domain.Credential{}, fmt.Errorf("%w: username and password must be strings", domain.ErrMalformedToken)
		}
		return domain.Credential{Username: username, Password: password}, nil
	default:
		return domain.Credential{}, fmt.Errorf("%w: unexpected %T", domain.ErrMalformedToken, e)
	}
}
