package controller_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/controller"
)

func TestNavStateFollowsAuth(t *testing.T) {
	gate := &staticGate{}
	c := controller.NewChrome(gate, newMemCreds(), &memSessions{}, zap.NewNop())

	links := c.NavState()
	if len(links) != 2 || links[0].Target != "login" || links[1].Target != "register" {
		t.Errorf("unexpected visitor nav: %+v", links)
	}

	gate.authed = true
	links = c.NavState()
	if len(links) != 2 || links[0].Target != "dashboard" || links[1].Target != "logout" {
		t.Errorf("unexpected authenticated nav: %+v", links)
	}
}

func TestLogoutClearsBothStores(t *testing.T) {
	creds := newMemCreds()
	creds.Save("tok", "ref", "42")
	sessions := &memSessions{id: "srv-123"}

	c := controller.NewChrome(&staticGate{authed: true}, creds, sessions, zap.NewNop())
	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if creds.CustomerID() != "" {
		t.Error("expected credentials cleared")
	}
	if sessions.Get() != "" {
		t.Error("expected session cleared")
	}
}

func TestLogoutClearsSessionEvenWhenCredsFail(t *testing.T) {
	sessions := &memSessions{id: "srv-123"}
	c := controller.NewChrome(&staticGate{}, &failingCreds{}, sessions, zap.NewNop())

	if err := c.Logout(); err == nil {
		t.Fatal("expected the credential error surfaced")
	}
	if sessions.Get() != "" {
		t.Error("session must be cleared despite the credential failure")
	}
}

func TestThemeDefaultsAndToggles(t *testing.T) {
	creds := newMemCreds()
	c := controller.NewChrome(&staticGate{}, creds, &memSessions{}, zap.NewNop())

	if got := c.Theme(); got != "light" {
		t.Errorf("expected default 'light', got %q", got)
	}

	next, err := c.ToggleTheme()
	if err != nil {
		t.Fatal(err)
	}
	if next != "dark" || c.Theme() != "dark" {
		t.Errorf("expected toggle to 'dark', got %q", next)
	}

	next, _ = c.ToggleTheme()
	if next != "light" {
		t.Errorf("expected toggle back to 'light', got %q", next)
	}
}

// failingCreds fails every write, for the partial-logout path.
type failingCreds struct {
	memCreds
}

func (f *failingCreds) Clear() error { return errors.New("disk full") }
