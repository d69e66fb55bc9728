package domain

import "fmt"

// Error types for consistent error handling across the portal client.

// ErrExternalService indicates a transport-level failure talking to the
// portal backend (network unreachable, non-2xx status, malformed body).
// Callers degrade rather than escalate: a failed session create falls back
// to a provisional id, a failed reconciliation keeps the previous id.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrRejected indicates an application-level rejection: the server answered
// but said success=false. Message carries the server's wording when present.
type ErrRejected struct {
	Operation string
	Message   string
}

func (e *ErrRejected) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected: %s", e.Operation)
}

// ErrUnauthorized indicates a missing or expired credential. The dashboard
// uses it to redirect to the login flow.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrNoPendingLogin indicates OTP verification was attempted with no prior
// login start and no stored pending id. No network call is made.
type ErrNoPendingLogin struct{}

func (e *ErrNoPendingLogin) Error() string {
	return "please start the login process first"
}

// ErrValidation indicates bad input caught before any network call.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
