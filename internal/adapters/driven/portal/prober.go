// Package portal provides the HTTP adapter that talks to the captive portal
// login endpoints.
package portal

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
)

// Ensure Prober implements the interface.
var _ driven.PortalProber = (*Prober)(nil)

// Default configuration values.
const (
	DefaultTimeout     = domain.DefaultTimeout
	DefaultDialTimeout = 5 * time.Second
	LoginPath          = "/login"
)

// Config holds configuration for the portal prober.
type Config struct {
	// Timeout bounds a whole request, response headers included (default: 8s).
	Timeout time.Duration

	// DialTimeout bounds TCP connection setup (default: 5s, capped at Timeout).
	DialTimeout time.Duration

	// Transport overrides the HTTP transport. Used by tests.
	Transport http.RoundTripper
}

// Prober issues portal login requests over HTTP.
type Prober struct {
	client *http.Client
}

// NewProber creates a new portal prober.
func NewProber(cfg Config) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.DialTimeout > cfg.Timeout {
		cfg.DialTimeout = cfg.Timeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: cfg.DialTimeout,
			}).DialContext,
			TLSHandshakeTimeout: cfg.DialTimeout,
			DisableKeepAlives:   true,
		}
	}

	return &Prober{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			// The portal answers 200 on success. A redirect is not a login.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// LoginURL builds the login request URL for base. Parameters keep the
// portal's expected order: dst, popup, username, password.
func LoginURL(base string, cred domain.Credential) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString(LoginPath)
	b.WriteString("?dst=&popup=true&username=")
	b.WriteString(url.QueryEscape(cred.Username))
	b.WriteString("&password=")
	b.WriteString(url.QueryEscape(cred.Password))
	return b.String()
}

// Probe sends one login GET to mirror and reports the status code.
// Transport failures are returned in the outcome, never as an error.
func (p *Prober) Probe(ctx context.Context, mirror domain.Mirror, cred domain.Credential) domain.MirrorOutcome {
	outcome := domain.MirrorOutcome{Mirror: mirror.Name}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, LoginURL(mirror.BaseURL, cred), http.NoBody)
	if err != nil {
		// Strip the URL so the password never reaches a log line.
		outcome.Err = fmt.Errorf("create request: invalid mirror URL %q", mirror.BaseURL)
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	resp, err := p.client.Do(req)
	if err != nil {
		outcome.Err = fmt.Errorf("send request: %w", redact(err))
		outcome.Elapsed = time.Since(start)
		return outcome
	}
	defer resp.Body.Close()

	// Draining lets the transport reuse or cleanly close the connection.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	outcome.StatusCode = resp.StatusCode
	outcome.Elapsed = time.Since(start)
	return outcome
}

// redact drops the request URL, which carries the password, from
// transport errors.
func redact(err error) error {
	if uerr, ok := err.(*url.Error); ok {
		return uerr.Err
	}
	return err
}
