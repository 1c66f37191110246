package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
	"github.com/custodia-labs/portal-login/internal/core/ports/driving"
	"github.com/custodia-labs/portal-login/internal/logger"
)

// Ensure LoginService implements the interface.
var _ driving.LoginService = (*LoginService)(nil)

// LoginService authenticates credentials against the portal mirrors.
type LoginService struct {
	prober      driven.PortalProber
	credentials driving.CredentialService
	mirrors     []domain.Mirror
	parallel    bool
}

// NewLoginService creates a login service probing the mirrors in settings.
// credentials may be nil if AttemptByUsername is not needed.
func NewLoginService(
	prober driven.PortalProber,
	credentials driving.CredentialService,
	settings domain.PortalSettings,
) *LoginService {
	return &LoginService{
		prober:      prober,
		credentials: credentials,
		mirrors:     settings.Mirrors(),
		parallel:    settings.Parallel,
	}
}

// Attempt probes every mirror once and reports Connected if any of them
// answered with HTTP 200. Both mirrors are always probed.
func (s *LoginService) Attempt(ctx context.Context, cred domain.Credential) domain.LoginReport {
	report := domain.LoginReport{
		AttemptID: uuid.NewString(),
		Username:  cred.Username,
		Result:    domain.NotConnected,
		Outcomes:  make([]domain.MirrorOutcome, len(s.mirrors)),
	}

	logger.Section("Login " + report.AttemptID)
	logger.Debug("user=%s mirrors=%d parallel=%v", cred.Username, len(s.mirrors), s.parallel)

	if s.prober == nil {
		for i, m := range s.mirrors {
			report.Outcomes[i] = domain.MirrorOutcome{Mirror: m.Name, Err: domain.ErrNotImplemented}
		}
		return report
	}

	if s.parallel {
		s.probeParallel(ctx, cred, report.Outcomes)
	} else {
		s.probeSequential(ctx, cred, report.Outcomes)
	}

	for _, o := range report.Outcomes {
		logger.Debug("%s -> %s (%s)", o.Mirror, o.String(), o.Elapsed)
	}

	report.Result = domain.Aggregate(report.Outcomes)
	logger.Info("login %s for %s: %s", report.AttemptID, cred.Username, report.Result)
	return report
}

// AttemptByUsername looks up a stored credential and attempts it.
func (s *LoginService) AttemptByUsername(ctx context.Context, username string) (domain.LoginReport, error) {
	if s.credentials == nil {
		return domain.LoginReport{}, domain.ErrNotImplemented
	}

	cred, err := s.credentials.Get(ctx, username)
	if err != nil {
		return domain.LoginReport{}, fmt.Errorf("lookup credential: %w", err)
	}
	return s.Attempt(ctx, *cred), nil
}

func (s *LoginService) probeSequential(ctx context.Context, cred domain.Credential, out []domain.MirrorOutcome) {
	for i, m := range s.mirrors {
		out[i] = s.probe(ctx, m, cred)
	}
}

// probeParallel runs one goroutine per mirror. Outcomes never carry a Go
// error, so the group only provides the join; one failing mirror does not
// cancel the other.
func (s *LoginService) probeParallel(ctx context.Context, cred domain.Credential, out []domain.MirrorOutcome) {
	var g errgroup.Group
	for i, m := range s.mirrors {
		g.Go(func() error {
			out[i] = s.probe(ctx, m, cred)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *LoginService) probe(ctx context.Context, m domain.Mirror, cred domain.Credential) domain.MirrorOutcome {
	o := s.prober.Probe(ctx, m, cred)
	if o.Mirror == "" {
		o.Mirror = m.Name
	}
	return o
}
