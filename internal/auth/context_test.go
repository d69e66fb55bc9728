package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tub-bank/portal-client-go/internal/auth"
	"github.com/tub-bank/portal-client-go/internal/domain"
)

// memCreds is an in-memory CredentialStore for tests.
type memCreds struct {
	data map[string]string
}

func newMemCreds() *memCreds {
	return &memCreds{data: map[string]string{}}
}

func (m *memCreds) Save(accessToken, refreshToken, customerID string) error {
	if accessToken != "" && customerID == "" {
		return &domain.ErrValidation{Field: "customerId", Message: "missing"}
	}
	m.data[domain.KeyAuthToken] = accessToken
	m.data[domain.KeyRefreshToken] = refreshToken
	m.data[domain.KeyCustomerID] = customerID
	delete(m.data, domain.KeyPendingID)
	return nil
}

func (m *memCreds) AuthHeaders() map[string]string {
	headers := map[string]string{}
	if tok := m.data[domain.KeyAuthToken]; tok != "" {
		headers["Authorization"] = "Bearer " + tok
	}
	return headers
}

func (m *memCreds) CustomerID() string { return m.data[domain.KeyCustomerID] }
func (m *memCreds) Get(key string) string { return m.data[key] }

func (m *memCreds) Put(key, value string) error {
	if value == "" {
		delete(m.data, key)
	} else {
		m.data[key] = value
	}
	return nil
}

func (m *memCreds) Clear() error {
	m.data = map[string]string{}
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// --- Tests ---

func TestHeadersEmptyWithoutToken(t *testing.T) {
	ctx := auth.NewContext(newMemCreds())

	if ctx.IsAuthenticated() {
		t.Error("empty store must not be authenticated")
	}
	if len(ctx.Headers()) != 0 {
		t.Error("expected no headers")
	}
}

func TestHeadersWithOpaqueToken(t *testing.T) {
	creds := newMemCreds()
	if err := creds.Save("tok_abc", "", "42"); err != nil {
		t.Fatal(err)
	}
	ctx := auth.NewContext(creds)

	if !ctx.IsAuthenticated() {
		t.Error("opaque token must count as authenticated")
	}
	if got := ctx.Headers()["Authorization"]; got != "Bearer tok_abc" {
		t.Errorf("expected bearer header, got %q", got)
	}
	if got := ctx.CustomerID(); got != "42" {
		t.Errorf("expected customer id '42', got %q", got)
	}
}

func TestExpiredJWTCountsAsAbsent(t *testing.T) {
	creds := newMemCreds()
	if err := creds.Save(signedToken(t, time.Now().Add(-time.Hour)), "", "42"); err != nil {
		t.Fatal(err)
	}
	ctx := auth.NewContext(creds)

	if ctx.IsAuthenticated() {
		t.Error("expired token must not be authenticated")
	}
	if len(ctx.Headers()) != 0 {
		t.Error("expired token must yield no headers")
	}
}

func TestLiveJWTCountsAsPresent(t *testing.T) {
	creds := newMemCreds()
	if err := creds.Save(signedToken(t, time.Now().Add(time.Hour)), "", "42"); err != nil {
		t.Fatal(err)
	}
	ctx := auth.NewContext(creds)

	if !ctx.IsAuthenticated() {
		t.Error("live token must be authenticated")
	}
}

func TestDerivationIsNotMemoized(t *testing.T) {
	creds := newMemCreds()
	if err := creds.Save("tok_abc", "", "42"); err != nil {
		t.Fatal(err)
	}
	ctx := auth.NewContext(creds)

	if !ctx.IsAuthenticated() {
		t.Fatal("expected authenticated before clear")
	}

	// Logout mutates the store out-of-band from the context.
	if err := creds.Clear(); err != nil {
		t.Fatal(err)
	}
	if ctx.IsAuthenticated() {
		t.Error("context must observe out-of-band logout")
	}
}
