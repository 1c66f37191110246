package driving

import (
	"context"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// LoginService authenticates a credential against the portal mirrors.
type LoginService interface {
	// Attempt probes both mirrors and aggregates the outcomes.
	// It never fails; unreachable mirrors surface in the report.
	Attempt(ctx context.Context, cred domain.Credential) domain.LoginReport

	// AttemptByUsername looks up a stored credential and attempts it.
	// Returns domain.ErrNotFound if no credential has that username.
	AttemptByUsername(ctx context.Context, username string) (domain.LoginReport, error)
}
