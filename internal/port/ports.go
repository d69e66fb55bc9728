// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the controllers
// from concrete storage and transport implementations.
package port

import (
	"context"

	"github.com/tub-bank/portal-client-go/internal/domain"
)

// CredentialStore is the durable identity store. It survives process
// restarts and new terminals; it is cleared only by logout.
type CredentialStore interface {
	// Save writes token, refresh token and customer id as one transaction:
	// a reader never observes a token without its owning customer id.
	Save(accessToken, refreshToken, customerID string) error

	// AuthHeaders returns {"Authorization": "Bearer <token>"} when a token
	// exists, else an empty map. Absence is a normal state, not an error.
	AuthHeaders() map[string]string

	// CustomerID returns the stored customer id, or "" when absent.
	CustomerID() string

	// Get and Put expose individual keys for auxiliary state
	// (pending login id, theme preference).
	Get(key string) string
	Put(key, value string) error

	// Clear removes all stored fields. Used only by logout.
	Clear() error
}

// SessionStore is the terminal-scoped session id store. Two terminals of
// the same user must never observe each other's id.
type SessionStore interface {
	Get() string
	Set(id string) error
	Clear() error
}

// PortalAPI is the typed surface of the portal backend that the
// controllers depend on. Implemented by the request gateway.
type PortalAPI interface {
	LoginStart(ctx context.Context, identifier string) (*domain.LoginStartResponse, error)
	LoginVerify(ctx context.Context, customerID int64, otp string) (*domain.LoginVerifyResponse, error)
	SessionCreate(ctx context.Context) (*domain.SessionCreateResponse, error)
	Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error)
	Profile(ctx context.Context) (*domain.Profile, error)
	Accounts(ctx context.Context) ([]domain.Account, error)
	Balance(ctx context.Context) (*domain.Balance, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
