// Package auth derives the authentication context from the credential
// store and drives the two-step OTP login flow.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tub-bank/portal-client-go/internal/port"
)

// Context is a pure derivation over the credential store. It holds no
// state of its own and recomputes on every call: logout mutates the store
// out-of-band from any in-flight command, so memoizing here would lie.
type Context struct {
	creds port.CredentialStore
}

// NewContext wires the auth context to a credential store.
func NewContext(creds port.CredentialStore) *Context {
	return &Context{creds: creds}
}

// IsAuthenticated reports whether a usable token is stored. It gates the
// dashboard and branches the nav chrome.
func (c *Context) IsAuthenticated() bool {
	return len(c.Headers()) > 0
}

// Headers returns the authorization header set for outgoing requests.
// A stored token whose JWT exp claim has already passed counts as absent:
// the server is the verifier, this only pre-filters obviously dead tokens.
func (c *Context) Headers() map[string]string {
	headers := c.creds.AuthHeaders()
	raw, ok := headers["Authorization"]
	if !ok {
		return headers
	}
	if tokenExpired(strings.TrimPrefix(raw, "Bearer ")) {
		return map[string]string{}
	}
	return headers
}

// CustomerID returns the stored canonical customer id, or "".
func (c *Context) CustomerID() string {
	return c.creds.CustomerID()
}

// tokenExpired is best-effort: opaque (non-JWT) tokens and JWTs without an
// exp claim are assumed live.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
