package controller_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/controller"
	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/infra/cache"
	"github.com/tub-bank/portal-client-go/internal/infra/observability"
	"github.com/tub-bank/portal-client-go/internal/port"
)

// --- Mocks ---

type dashAPI struct {
	profile     *domain.Profile
	profileErr  error
	accounts    []domain.Account
	accountsErr error
	balance     *domain.Balance
	balanceErr  error

	profileCalls int
}

func (f *dashAPI) Profile(context.Context) (*domain.Profile, error) {
	f.profileCalls++
	return f.profile, f.profileErr
}
func (f *dashAPI) Accounts(context.Context) ([]domain.Account, error) {
	return f.accounts, f.accountsErr
}
func (f *dashAPI) Balance(context.Context) (*domain.Balance, error) {
	return f.balance, f.balanceErr
}
func (f *dashAPI) LoginStart(context.Context, string) (*domain.LoginStartResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *dashAPI) LoginVerify(context.Context, int64, string) (*domain.LoginVerifyResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *dashAPI) SessionCreate(context.Context) (*domain.SessionCreateResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *dashAPI) Chat(context.Context, *domain.ChatRequest) (*domain.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

type staticGate struct {
	authed bool
}

func (g *staticGate) IsAuthenticated() bool { return g.authed }

type memCreds struct {
	data map[string]string
}

func newMemCreds() *memCreds { return &memCreds{data: map[string]string{}} }

func (m *memCreds) Save(token, refresh, customerID string) error {
	m.data[domain.KeyAuthToken] = token
	m.data[domain.KeyRefreshToken] = refresh
	m.data[domain.KeyCustomerID] = customerID
	return nil
}
func (m *memCreds) AuthHeaders() map[string]string      { return nil }
func (m *memCreds) CustomerID() string                  { return m.data[domain.KeyCustomerID] }
func (m *memCreds) Get(key string) string               { return m.data[key] }
func (m *memCreds) Put(key, value string) error         { m.data[key] = value; return nil }
func (m *memCreds) Clear() error                        { m.data = map[string]string{}; return nil }

var _ port.CredentialStore = (*memCreds)(nil)

func newDashboard(api *dashAPI, gate *staticGate, creds *memCreds) *controller.Dashboard {
	return controller.NewDashboard(
		api, gate, creds,
		cache.New[*domain.Profile](time.Minute),
		observability.NewMetrics(), zap.NewNop(),
	)
}

// --- Tests ---

func TestLoadRequiresAuthentication(t *testing.T) {
	d := newDashboard(&dashAPI{}, &staticGate{authed: false}, newMemCreds())

	_, err := d.Load(context.Background())
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoadRendersAllSections(t *testing.T) {
	api := &dashAPI{
		profile: &domain.Profile{CustomerID: 42, Name: "Asha Rao"},
		accounts: []domain.Account{
			{AccountNumber: "123456789012", Type: "savings", Balance: 1234567.89},
		},
		balance: &domain.Balance{Balance: 1234567.89},
	}
	creds := newMemCreds()
	d := newDashboard(api, &staticGate{authed: true}, creds)

	view, err := d.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if view.UserName != "Asha Rao" {
		t.Errorf("unexpected user name %q", view.UserName)
	}
	if view.TotalBalance != "₹12,34,567.89" {
		t.Errorf("unexpected total balance %q", view.TotalBalance)
	}
	if len(view.Accounts) != 1 {
		t.Fatalf("expected one account row, got %d", len(view.Accounts))
	}
	if view.Accounts[0].MaskedNumber != "****9012" {
		t.Errorf("unexpected masked number %q", view.Accounts[0].MaskedNumber)
	}
	if creds.Get(domain.KeyCustomerID) != "42" {
		t.Errorf("expected stored customer id refreshed, got %q", creds.Get(domain.KeyCustomerID))
	}
}

func TestLoadDegradesPerSection(t *testing.T) {
	api := &dashAPI{
		profileErr:  errors.New("profile down"),
		accountsErr: errors.New("accounts down"),
		balance:     &domain.Balance{Balance: 500},
	}
	d := newDashboard(api, &staticGate{authed: true}, newMemCreds())

	view, err := d.Load(context.Background())
	if err != nil {
		t.Fatalf("partial failure must not fail the load: %v", err)
	}

	if view.UserName != "" {
		t.Errorf("expected empty user name, got %q", view.UserName)
	}
	if !view.AccountsErr {
		t.Error("expected AccountsErr set")
	}
	if view.TotalBalance != "₹500.00" {
		t.Errorf("balance section must still render, got %q", view.TotalBalance)
	}
}

func TestLoadCachesProfile(t *testing.T) {
	api := &dashAPI{
		profile: &domain.Profile{CustomerID: 42, Name: "Asha Rao"},
		balance: &domain.Balance{Balance: 0},
	}
	d := newDashboard(api, &staticGate{authed: true}, newMemCreds())

	if _, err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if api.profileCalls != 1 {
		t.Errorf("expected one profile fetch, got %d", api.profileCalls)
	}
}

func TestMaskAccountNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456789012", "****9012"},
		{"9012", "****9012"},
		{"12", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := controller.MaskAccountNumber(tt.in); got != tt.want {
			t.Errorf("MaskAccountNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{5, "₹5.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{100000, "₹1,00,000.00"},
		{1234567.89, "₹12,34,567.89"},
		{987654321.5, "₹98,76,54,321.50"},
		{-1234.56, "-₹1,234.56"},
	}
	for _, tt := range tests {
		if got := controller.FormatINR(tt.in); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
