package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
	"github.com/custodia-labs/portal-login/internal/core/ports/driving"
	"github.com/custodia-labs/portal-login/internal/logger"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// CredentialService manages stored portal credentials.
// Mutations are serialised so that concurrent callers cannot interleave
// their read-modify-write cycles.
type CredentialService struct {
	mu    sync.Mutex
	store driven.CredentialStore
}

// NewCredentialService creates a new credential service.
func NewCredentialService(store driven.CredentialStore) *CredentialService {
	return &CredentialService{
		store: store,
	}
}

// LoadAll returns every stored credential in insertion order.
func (s *CredentialService) LoadAll(ctx context.Context) []domain.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(ctx)
}

// Get returns the first credential with the given username.
func (s *CredentialService) Get(ctx context.Context, username string) (*domain.Credential, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	creds := s.LoadAll(ctx)
	idx := domain.IndexOf(creds, username)
	if idx < 0 {
		return nil, fmt.Errorf("credential %q: %w", username, domain.ErrNotFound)
	}
	c := creds[idx]
	return &c, nil
}

// Add appends a credential and persists the full collection.
func (s *CredentialService) Add(ctx context.Context, cred domain.Credential) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := cred.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.snapshot(ctx)
	if domain.IndexOf(creds, cred.Username) >= 0 {
		return fmt.Errorf("credential %q: %w", cred.Username, domain.ErrAlreadyExists)
	}

	logger.Debug("adding credential %q (%d stored)", cred.Username, len(creds))
	return s.persist(ctx, append(creds, cred))
}

// Replace substitutes the first credential whose username is oldUsername.
func (s *CredentialService) Replace(ctx context.Context, oldUsername string, cred domain.Credential) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := cred.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.snapshot(ctx)
	idx := domain.IndexOf(creds, oldUsername)
	if idx < 0 {
		logger.Debug("replace: no credential %q, nothing to do", oldUsername)
		return nil
	}
	if cred.Username != oldUsername && domain.IndexOf(creds, cred.Username) >= 0 {
		return fmt.Errorf("credential %q: %w", cred.Username, domain.ErrAlreadyExists)
	}

	creds[idx] = cred
	logger.Debug("replacing credential %q at position %d", oldUsername, idx)
	return s.persist(ctx, creds)
}

// Remove deletes every credential with the given username.
func (s *CredentialService) Remove(ctx context.Context, username string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.snapshot(ctx)
	kept := slices.DeleteFunc(slices.Clone(creds), func(c domain.Credential) bool {
		return c.Username == username
	})
	if len(kept) == len(creds) {
		logger.Debug("remove: no credential %q, nothing to do", username)
		return nil
	}

	logger.Debug("removing %d credential(s) for %q", len(creds)-len(kept), username)
	return s.persist(ctx, kept)
}

// snapshot reads the stored collection (caller must hold lock).
// Read failures are logged and treated as an empty store.
func (s *CredentialService) snapshot(ctx context.Context) []domain.Credential {
	if s.store == nil {
		return []domain.Credential{}
	}
	creds, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn("reading credentials failed, treating store as empty: %v", err)
		return []domain.Credential{}
	}
	if creds == nil {
		return []domain.Credential{}
	}
	return creds
}

// persist writes the full collection (caller must hold lock).
func (s *CredentialService) persist(ctx context.Context, creds []domain.Credential) error {
	if err := s.store.Store(ctx, creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}
