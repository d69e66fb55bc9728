package controller

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/infra/observability"
	"github.com/tub-bank/portal-client-go/internal/port"
)

// AuthGate is the slice of the auth context the dashboard needs.
type AuthGate interface {
	IsAuthenticated() bool
}

// Dashboard loads the authenticated account overview.
type Dashboard struct {
	api     port.PortalAPI
	gate    AuthGate
	creds   port.CredentialStore
	cache   port.Cache[*domain.Profile]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewDashboard creates the dashboard controller.
func NewDashboard(
	api port.PortalAPI,
	gate AuthGate,
	creds port.CredentialStore,
	cache port.Cache[*domain.Profile],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Dashboard {
	return &Dashboard{api: api, gate: gate, creds: creds, cache: cache, metrics: metrics, logger: logger}
}

// View is the rendered dashboard data. Sections degrade independently:
// a failed accounts fetch must not blank out the balance.
type View struct {
	UserName     string
	Accounts     []AccountView
	AccountsErr  bool
	TotalBalance string
}

// AccountView is one masked, formatted account row.
type AccountView struct {
	MaskedNumber string
	Type         string
	Balance      string
}

// Load gates on authentication, then fetches profile, accounts and balance
// concurrently. Only the missing credential is an error for the caller —
// everything else renders with per-section fallbacks.
func (d *Dashboard) Load(ctx context.Context) (*View, error) {
	if !d.gate.IsAuthenticated() {
		return nil, &domain.ErrUnauthorized{Message: "please log in to view the dashboard"}
	}

	view := &View{TotalBalance: FormatINR(0)}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := d.profile(gCtx)
		if err != nil {
			d.logger.Warn("load profile", zap.Error(err))
			return nil
		}
		view.UserName = profile.Name
		// The profile is the canonical owner of the customer id; refresh
		// the stored copy the way the original page did.
		if profile.CustomerID != 0 {
			if err := d.creds.Put(domain.KeyCustomerID, fmt.Sprintf("%d", profile.CustomerID)); err != nil {
				d.logger.Warn("refresh stored customer id", zap.Error(err))
			}
		}
		return nil
	})

	g.Go(func() error {
		accounts, err := d.api.Accounts(gCtx)
		if err != nil {
			d.logger.Warn("load accounts", zap.Error(err))
			view.AccountsErr = true
			return nil
		}
		for _, a := range accounts {
			view.Accounts = append(view.Accounts, AccountView{
				MaskedNumber: MaskAccountNumber(a.AccountNumber),
				Type:         a.Type,
				Balance:      FormatINR(a.Balance),
			})
		}
		return nil
	})

	g.Go(func() error {
		balance, err := d.api.Balance(gCtx)
		if err != nil {
			d.logger.Warn("load balance", zap.Error(err))
			return nil
		}
		view.TotalBalance = FormatINR(balance.Balance)
		return nil
	})

	// Goroutines never return errors; Wait only orders completion.
	_ = g.Wait()
	return view, nil
}

func (d *Dashboard) profile(ctx context.Context) (*domain.Profile, error) {
	const cacheKey = "profile"
	if cached, ok := d.cache.Get(cacheKey); ok {
		d.metrics.IncrCacheHit(cacheKey)
		return cached, nil
	}
	d.metrics.IncrCacheMiss(cacheKey)

	profile, err := d.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cacheKey, profile)
	return profile, nil
}

// MaskAccountNumber hides all but the last four digits.
func MaskAccountNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}

// FormatINR renders an amount with the rupee sign and Indian digit
// grouping: the last three integer digits form one group, every group
// before that has two (12,34,567.89).
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		groups = append(groups, intPart[len(intPart)-3:])
	} else {
		groups = []string{intPart}
	}

	out := "₹" + strings.Join(groups, ",") + "." + fracPart
	if negative {
		return "-" + out
	}
	return out
}
