// Package domain holds the types shared across the portal client:
// the backend API contract, session/credential state, and error types.
package domain

// ============================================================
// Auth — Request / Response types (matches the portal API contract)
// ============================================================

// LoginStartRequest is the body for POST /api/auth/login/start.
type LoginStartRequest struct {
	Identifier string `json:"identifier"`
}

// LoginStartResponse is returned by login start. On success the server has
// allocated a pending customer id and dispatched an OTP out of band.
type LoginStartResponse struct {
	Success    bool   `json:"success"`
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message,omitempty"`
}

// LoginVerifyRequest is the body for POST /api/auth/login/verify.
type LoginVerifyRequest struct {
	CustomerID int64  `json:"customer_id"`
	OTPCode    string `json:"otp_code"`
}

// LoginVerifyResponse is returned by OTP verification.
type LoginVerifyResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ============================================================
// Chat
// ============================================================

// SessionCreateResponse is returned by POST /api/chat/session.
type SessionCreateResponse struct {
	SessionID string `json:"session_id"`
}

// ChatRequest is the body for POST /api/chat. SessionID and CustomerID are
// omitted when unknown; the server allocates or infers as needed.
type ChatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Lang       string `json:"lang"`
}

// ChatResponse is the assistant's reply. A non-empty SessionID is the
// authoritative session id and supersedes whatever the client holds.
type ChatResponse struct {
	BotResponse string `json:"bot_response"`
	SessionID   string `json:"session_id,omitempty"`
	Lang        string `json:"lang,omitempty"`
}

// ============================================================
// Dashboard
// ============================================================

// Profile is returned by GET /api/user/profile.
type Profile struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// Account is a single entry of GET /api/user/accounts.
type Account struct {
	AccountNumber string  `json:"account_number"`
	Type          string  `json:"type"`
	Balance       float64 `json:"balance"`
}

// AccountList wraps the accounts payload.
type AccountList struct {
	Accounts []Account `json:"accounts"`
}

// Balance is returned by GET /api/user/balance.
type Balance struct {
	Balance float64 `json:"balance"`
}
