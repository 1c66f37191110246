package domain

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// LoginResult is the aggregated verdict of a login attempt.
type LoginResult int

const (
	// NotConnected means no mirror accepted the credential.
	NotConnected LoginResult = iota
	// Connected means at least one mirror answered with HTTP 200.
	Connected
)

// String returns the human-readable verdict.
func (r LoginResult) String() string {
	if r == Connected {
		return "Connected"
	}
	return "Not Connected"
}

// MarshalText implements encoding.TextMarshaler.
func (r LoginResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Mirror is one of the mirrored authentication hosts.
type Mirror struct {
	// Name identifies the mirror in reports ("primary", "secondary").
	Name string
	// BaseURL is scheme and host, e.g. "http://logout.ui.ac.ir".
	BaseURL string
}

// MirrorOutcome is the raw result of one login request.
// Exactly one of StatusCode or Err is meaningful.
type MirrorOutcome struct {
	Mirror     string
	StatusCode int
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the mirror accepted the login.
func (o MirrorOutcome) OK() bool {
	return o.Err == nil && o.StatusCode == http.StatusOK
}

// String returns the status code, or an "Error: ..." marker when the
// request never produced a response.
func (o MirrorOutcome) String() string {
	if o.Err != nil {
		return "Error: " + o.Err.Error()
	}
	return strconv.Itoa(o.StatusCode)
}

// Error returns the failure message, or "" when a response was received.
func (o MirrorOutcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// MarshalJSON includes the failure message, which error values cannot carry.
func (o MirrorOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mirror     string `json:"mirror"`
		StatusCode int    `json:"status_code,omitempty"`
		Error      string `json:"error,omitempty"`
		ElapsedMS  int64  `json:"elapsed_ms"`
		OK         bool   `json:"ok"`
	}{
		Mirror:     o.Mirror,
		StatusCode: o.StatusCode,
		Error:      o.Error(),
		ElapsedMS:  o.Elapsed.Milliseconds(),
		OK:         o.OK(),
	})
}

// LoginReport is the outcome of a single login attempt across all mirrors.
type LoginReport struct {
	// AttemptID correlates log lines for one attempt.
	AttemptID string `json:"attempt_id"`
	// Username is the account used. The password is never reported.
	Username string `json:"username"`
	// Result is the OR-aggregate over Outcomes.
	Result LoginResult `json:"result"`
	// Outcomes are ordered primary first, then secondary.
	Outcomes []MirrorOutcome `json:"outcomes"`
}

// Aggregate returns Connected if any outcome is OK.
func Aggregate(outcomes []MirrorOutcome) LoginResult {
	for _, o := range outcomes {
		if o.OK() {
			return Connected
		}
	}
	return NotConnected
}
