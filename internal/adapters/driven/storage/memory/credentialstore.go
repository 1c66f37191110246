package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
// Snapshots are copied on the way in and out so callers cannot alias the
// stored slice.
type CredentialStore struct {
	mu    sync.RWMutex
	creds []domain.Credential
}

// NewCredentialStore creates a credential store seeded with creds.
func NewCredentialStore(creds ...domain.Credential) *CredentialStore {
	return &CredentialStore{
		creds: slices.Clone(creds),
	}
}

// Load returns a copy of the stored credentials.
func (s *CredentialStore) Load(_ context.Context) ([]domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Credential, len(s.creds))
	copy(out, s.creds)
	return out, nil
}

// Store replaces the stored credentials with a copy of creds.
func (s *CredentialStore) Store(_ context.Context, creds []domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = slices.Clone(creds)
	return nil
}
