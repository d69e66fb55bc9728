package domain

// Storage keys. The durable store owns the first three (plus Theme); the
// terminal-scoped store owns SessionID. Logout clears all four.
const (
	KeyAuthToken    = "authToken"
	KeyRefreshToken = "refreshToken"
	KeyCustomerID   = "customerId"
	KeySessionID    = "sessionId"
	KeyTheme        = "theme"
	KeyPendingID    = "pendingCustomerId"
)

// Credential is the durable identity record. An access token is only ever
// stored together with its owning customer id.
type Credential struct {
	AccessToken  string
	RefreshToken string
	CustomerID   string
}

// PendingLogin tracks a login attempt between OTP request and verification.
// It lives in memory and is mirrored durably so an interrupted process can
// still verify.
type PendingLogin struct {
	CustomerID int64
}

// SessionState describes how the current chat session id was obtained.
type SessionState int

const (
	// SessionUninitialized means no id has been established for this terminal.
	SessionUninitialized SessionState = iota
	// SessionLocalReused means a previously stored id was reused as-is.
	SessionLocalReused
	// SessionServerConfirmed means the id came from the server; it never
	// reverts to provisional within the same terminal lifetime.
	SessionServerConfirmed
	// SessionProvisional means the id is a locally generated placeholder,
	// in use because the server could not allocate one.
	SessionProvisional
)

func (s SessionState) String() string {
	switch s {
	case SessionLocalReused:
		return "local_reused"
	case SessionServerConfirmed:
		return "server_confirmed"
	case SessionProvisional:
		return "provisional"
	default:
		return "uninitialized"
	}
}

// ChatSession is the tab-scoped chat identity.
type ChatSession struct {
	SessionID   string
	Provisional bool
}
