package driven

import (
	"context"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// CredentialStore persists the whole credential collection as one snapshot.
// Callers read the full list, modify it, and write it back; there is no
// incremental update.
type CredentialStore interface {
	// Load returns every stored credential in insertion order.
	// An absent store yields an empty slice and a nil error.
	Load(ctx context.Context) ([]domain.Credential, error)

	// Store replaces the stored collection with creds.
	Store(ctx context.Context, creds []domain.Credential) error
}
