package controller

import (
	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/port"
)

// Chrome covers the page-chrome behaviors: auth-aware navigation, theme
// preference and logout.
type Chrome struct {
	gate    AuthGate
	creds   port.CredentialStore
	session port.SessionStore
	logger  *zap.Logger
}

// NewChrome creates the chrome controller.
func NewChrome(gate AuthGate, creds port.CredentialStore, session port.SessionStore, logger *zap.Logger) *Chrome {
	return &Chrome{gate: gate, creds: creds, session: session, logger: logger}
}

// NavLink is one navigation action offered to the user.
type NavLink struct {
	Label  string
	Target string
}

// NavState returns the nav actions for the current auth state: Login and
// Register for visitors, Dashboard and Logout once a token is stored.
func (c *Chrome) NavState() []NavLink {
	if c.gate.IsAuthenticated() {
		return []NavLink{
			{Label: "Dashboard", Target: "dashboard"},
			{Label: "Logout", Target: "logout"},
		}
	}
	return []NavLink{
		{Label: "Login", Target: "login"},
		{Label: "Register", Target: "register"},
	}
}

// Logout clears the durable credentials and the terminal's chat session.
// Both clears are attempted regardless of individual failures so a partial
// error cannot leave a usable token behind a cleared session.
func (c *Chrome) Logout() error {
	credErr := c.creds.Clear()
	sessErr := c.session.Clear()

	if credErr != nil {
		return credErr
	}
	if sessErr != nil {
		return sessErr
	}

	c.logger.Info("logged out")
	return nil
}

// Theme returns the persisted theme preference, defaulting to light.
func (c *Chrome) Theme() string {
	if theme := c.creds.Get(domain.KeyTheme); theme != "" {
		return theme
	}
	return "light"
}

// ToggleTheme flips the persisted preference and returns the new value.
func (c *Chrome) ToggleTheme() (string, error) {
	next := "dark"
	if c.Theme() == "dark" {
		next = "light"
	}
	if err := c.creds.Put(domain.KeyTheme, next); err != nil {
		return "", err
	}
	return next, nil
}
