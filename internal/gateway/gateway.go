// Package gateway is the typed client for the portal backend. It owns the
// convention every outgoing call follows: auth headers when present, JSON
// content type, a shared cookie jar so server-set cookies are honored, a
// request id, and — for chat — the session id in both body and header.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/config"
	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/infra/observability"
	"github.com/tub-bank/portal-client-go/internal/infra/resilience"
)

var tracer = otel.Tracer("gateway")

// AuthHeaders supplies the authorization header set for each call.
// Recomputed per request, never cached: logout may clear credentials
// between two calls of the same process.
type AuthHeaders interface {
	Headers() map[string]string
}

// Client calls the portal backend with retry, circuit breaker and tracing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authz      AuthHeaders
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates the gateway. The cookie jar is deliberate: the session
// endpoints may set cookies, and the browser original sent every request
// with credentials included.
func NewClient(cfg *config.Config, authz AuthHeaders, metrics *observability.Metrics, logger *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Jar:     jar,
		},
		baseURL: cfg.PortalAPIURL,
		authz:   authz,
		cb:      resilience.NewCircuitBreaker("portal-api"),
		cfg: resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// LoginStart submits the identifier and triggers OTP delivery.
func (c *Client) LoginStart(ctx context.Context, identifier string) (*domain.LoginStartResponse, error) {
	var resp domain.LoginStartResponse
	req := &domain.LoginStartRequest{Identifier: identifier}
	if err := c.do(ctx, "login_start", http.MethodPost, "/api/auth/login/start", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginVerify exchanges the OTP for tokens.
func (c *Client) LoginVerify(ctx context.Context, customerID int64, otp string) (*domain.LoginVerifyResponse, error) {
	var resp domain.LoginVerifyResponse
	req := &domain.LoginVerifyRequest{CustomerID: customerID, OTPCode: otp}
	if err := c.do(ctx, "login_verify", http.MethodPost, "/api/auth/login/verify", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionCreate asks the server to allocate a chat session id. Auth
// headers ride along when present; anonymous visitors may chat too.
func (c *Client) SessionCreate(ctx context.Context) (*domain.SessionCreateResponse, error) {
	var resp domain.SessionCreateResponse
	if err := c.do(ctx, "session_create", http.MethodPost, "/api/chat/session", struct{}{}, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat sends one message. The session id travels in the body and in the
// X-Session-Id header, supporting a server that reads either.
func (c *Client) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	var extra map[string]string
	if req.SessionID != "" {
		extra = map[string]string{"X-Session-Id": req.SessionID}
	}

	var resp domain.ChatResponse
	if err := c.do(ctx, "chat", http.MethodPost, "/api/chat", req, &resp, extra); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the logged-in user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var resp domain.Profile
	if err := c.do(ctx, "profile", http.MethodGet, "/api/user/profile", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Accounts fetches the logged-in user's account list.
func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	var resp domain.AccountList
	if err := c.do(ctx, "accounts", http.MethodGet, "/api/user/accounts", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// Balance fetches the logged-in user's total balance.
func (c *Client) Balance(ctx context.Context) (*domain.Balance, error) {
	var resp domain.Balance
	if err := c.do(ctx, "balance", http.MethodGet, "/api/user/balance", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do runs one call through the circuit breaker and retry loop.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any, extra map[string]string) error {
	ctx, span := tracer.Start(ctx, "Gateway."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.path", path))

	start := time.Now()

	// A 401/403 is a definitive answer, not a fault: it must neither be
	// retried nor trip the breaker.
	var unauth *domain.ErrUnauthorized
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.attempt(ctx, method, path, body, out, extra)
			if errors.As(err, &unauth) {
				return nil
			}
			return err
		})
	})
	if err == nil && unauth != nil {
		err = unauth
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordRequest(operation, status, time.Since(start))

	if err != nil {
		c.metrics.IncrExternalError(operation)
		c.logger.Debug("portal call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		if unauth != nil {
			return unauth
		}
		return &domain.ErrExternalService{Service: operation, Err: err}
	}
	return nil
}

// attempt performs a single HTTP exchange.
func (c *Client) attempt(ctx context.Context, method, path string, body, out any, extra map[string]string) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	for k, v := range c.authz.Headers() {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &domain.ErrUnauthorized{}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("portal API returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
