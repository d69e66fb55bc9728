package auth

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/port"
)

// LoginFlow drives the two-step OTP login: Start allocates a pending
// customer id on the server and triggers OTP delivery; Verify exchanges
// the OTP for tokens and commits them to the credential store.
//
// The pending id is kept in memory for the attempt and mirrored in the
// durable store, so an interrupted process can still verify.
type LoginFlow struct {
	api     port.PortalAPI
	creds   port.CredentialStore
	logger  *zap.Logger
	pending *domain.PendingLogin
}

// NewLoginFlow creates the login flow with its dependencies injected.
func NewLoginFlow(api port.PortalAPI, creds port.CredentialStore, logger *zap.Logger) *LoginFlow {
	return &LoginFlow{api: api, creds: creds, logger: logger}
}

// Start submits the identifier. On success the server has sent an OTP out
// of band and the pending customer id is recorded; on any failure prior
// state is left untouched.
func (f *LoginFlow) Start(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return &domain.ErrValidation{Field: "identifier", Message: "identifier is required"}
	}

	resp, err := f.api.LoginStart(ctx, identifier)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &domain.ErrRejected{Operation: "login start", Message: resp.Message}
	}

	f.pending = &domain.PendingLogin{CustomerID: resp.CustomerID}
	if err := f.creds.Put(domain.KeyPendingID, strconv.FormatInt(resp.CustomerID, 10)); err != nil {
		// The in-memory pending id still carries this attempt; only the
		// crash-recovery mirror is missing.
		f.logger.Warn("persist pending login id", zap.Error(err))
	}

	f.logger.Info("login started",
		zap.Int64("customer_id", resp.CustomerID),
	)
	return nil
}

// Verify submits the OTP for the pending login. With no prior Start and no
// stored pending id it short-circuits before any network call.
func (f *LoginFlow) Verify(ctx context.Context, otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return &domain.ErrValidation{Field: "otp", Message: "OTP code is required"}
	}

	customerID, ok := f.pendingCustomerID()
	if !ok {
		return &domain.ErrNoPendingLogin{}
	}

	resp, err := f.api.LoginVerify(ctx, customerID, otp)
	if err != nil {
		return err
	}
	if !resp.Success || resp.AccessToken == "" {
		return &domain.ErrRejected{Operation: "otp verify", Message: resp.Reason}
	}

	cid := strconv.FormatInt(customerID, 10)
	if err := f.creds.Save(resp.AccessToken, resp.RefreshToken, cid); err != nil {
		return err
	}
	f.pending = nil

	f.logger.Info("login verified", zap.String("customer_id", cid))
	return nil
}

// pendingCustomerID resolves the id of the attempt: memory first, then the
// durable mirror left by a previous process.
func (f *LoginFlow) pendingCustomerID() (int64, bool) {
	if f.pending != nil {
		return f.pending.CustomerID, true
	}
	stored := f.creds.Get(domain.KeyPendingID)
	if stored == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(stored, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
