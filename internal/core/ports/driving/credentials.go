package driving

import (
	"context"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// CredentialService manages the stored portal credentials.
// Every mutation is a full read-modify-write of the stored collection.
type CredentialService interface {
	// LoadAll returns every stored credential in insertion order.
	// Read failures degrade to an empty slice.
	LoadAll(ctx context.Context) []domain.Credential

	// Get returns the credential for username, or domain.ErrNotFound.
	Get(ctx context.Context, username string) (*domain.Credential, error)

	// Add appends a credential. Duplicate usernames return domain.ErrAlreadyExists.
	Add(ctx context.Context, cred domain.Credential) error

	// Replace substitutes the first credential whose username is oldUsername.
	// A missing oldUsername is a no-op.
	Replace(ctx context.Context, oldUsername string, cred domain.Credential) error

	// Remove deletes every credential with the given username.
	// A missing username is a no-op.
	Remove(ctx context.Context, username string) error
}
