package driven

import (
	"context"

	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// PortalProber issues a single login request against one mirror.
// Transport failures are reported in the outcome's Err field, never as a
// separate error, so a failed mirror simply does not count as a success.
type PortalProber interface {
	Probe(ctx context.Context, mirror domain.Mirror, cred domain.Credential) domain.MirrorOutcome
}
