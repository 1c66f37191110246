package domain

import (
	"fmt"
	"strings"
)

// TokenDelimiter separates username and password in the legacy token form.
const TokenDelimiter = "|"

// Credential is a username/password pair used to authenticate against the
// captive portal. Username is the identifier within a store.
type Credential struct {
	// Username is the portal account name. Unique within a store.
	Username string `json:"username" toml:"username"`
	// Password is stored as given. It is never logged.
	Password string `json:"password" toml:"password"`
}

// Validate reports whether the credential can be stored.
// Username and password must be non-empty.
func (c Credential) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}

// ParseToken decodes a legacy "username|password" token.
// Only the first delimiter splits the token; everything after it belongs
// to the password.
func ParseToken(token string) (Credential, error) {
	username, password, ok := strings.Cut(token, TokenDelimiter)
	if !ok {
		return Credential{}, fmt.Errorf("%w: missing %q delimiter", ErrMalformedToken, TokenDelimiter)
	}
	return Credential{Username: username, Password: password}, nil
}

// IndexOf returns the index of the first credential with the given
// username, or -1 if none matches.
func IndexOf(creds []Credential, username string) int {
	for i, c := range creds {
		if c.Username == username {
			return i
		}
	}
	return -1
}
