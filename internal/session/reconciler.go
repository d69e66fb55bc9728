// Package session implements chat session establishment and reconciliation.
//
// A terminal gets exactly one chat session id, resolved in order of
// preference: reuse the id already stored for this terminal, ask the server
// for one, or synthesize a provisional placeholder. Whenever the server
// later names a differing id, the server wins and local state is rewritten.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/infra/observability"
	"github.com/tub-bank/portal-client-go/internal/port"
)

var tracer = otel.Tracer("session")

// ProvisionalPrefix marks locally generated placeholder ids. Server ids
// never carry it, so the two are distinguishable at a glance.
const ProvisionalPrefix = "temp-"

// Reconciler owns the session id for one terminal scope.
type Reconciler struct {
	store   port.SessionStore
	api     port.PortalAPI
	metrics *observability.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	current domain.ChatSession
	state   domain.SessionState
}

// NewReconciler creates a reconciler over the given store and API.
func NewReconciler(store port.SessionStore, api port.PortalAPI, metrics *observability.Metrics, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		api:     api,
		metrics: metrics,
		logger:  logger,
		state:   domain.SessionUninitialized,
	}
}

// EnsureSession establishes the session id for this terminal. It is called
// once at chat startup and always succeeds: creation failures degrade to a
// provisional id instead of blocking the chat.
//
// A stored id is reused unconditionally — the server is not re-contacted
// just to validate it.
func (r *Reconciler) EnsureSession(ctx context.Context) domain.ChatSession {
	ctx, span := tracer.Start(ctx, "Reconciler.EnsureSession")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if stored := r.store.Get(); stored != "" {
		r.current = domain.ChatSession{
			SessionID:   stored,
			Provisional: strings.HasPrefix(stored, ProvisionalPrefix),
		}
		r.state = domain.SessionLocalReused
		r.logger.Debug("session reused", zap.String("session_id", stored))
		return r.current
	}

	resp, err := r.api.SessionCreate(ctx)
	if err == nil && resp.SessionID != "" {
		r.adopt(resp.SessionID, domain.SessionServerConfirmed)
		r.logger.Debug("session created", zap.String("session_id", resp.SessionID))
		return r.current
	}

	// Degraded mode: the tab still needs *something* to send.
	id := newProvisionalID()
	r.adopt(id, domain.SessionProvisional)
	r.metrics.IncrSessionFallback()
	r.logger.Warn("session create failed, using provisional id",
		zap.String("session_id", id),
		zap.Error(err),
	)
	return r.current
}

// Reconcile applies a server-supplied session id from a message exchange.
// A differing id overwrites local state immediately — the server is
// authoritative once it speaks — upgrading a provisional or stale id
// without disruption. An equal or empty id is a no-op, so reconciliation
// is idempotent.
func (r *Reconciler) Reconcile(serverID string) {
	if serverID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if serverID == r.current.SessionID {
		if r.state != domain.SessionServerConfirmed {
			// The server echoed the id we hold: it is confirmed now, and
			// never reverts within this terminal lifetime.
			r.state = domain.SessionServerConfirmed
			r.current.Provisional = false
		}
		return
	}

	r.logger.Debug("session id reconciled from server",
		zap.String("old", r.current.SessionID),
		zap.String("new", serverID),
	)
	r.adopt(serverID, domain.SessionServerConfirmed)
}

// Current returns the session id as last established. Before EnsureSession
// it falls through to the store, mirroring the original widget re-reading
// tab storage on every send.
func (r *Reconciler) Current() domain.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.SessionID == "" {
		if stored := r.store.Get(); stored != "" {
			r.current = domain.ChatSession{
				SessionID:   stored,
				Provisional: strings.HasPrefix(stored, ProvisionalPrefix),
			}
			r.state = domain.SessionLocalReused
		}
	}
	return r.current
}

// State reports how the current id was obtained.
func (r *Reconciler) State() domain.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// adopt sets the in-memory id and persists it. Persistence failures are
// non-fatal: the in-memory id still serves this process, only the next
// run loses the reuse.
func (r *Reconciler) adopt(id string, state domain.SessionState) {
	r.current = domain.ChatSession{
		SessionID:   id,
		Provisional: state == domain.SessionProvisional,
	}
	r.state = state
	if err := r.store.Set(id); err != nil {
		r.logger.Warn("persist session id", zap.Error(err))
	}
}

// newProvisionalID synthesizes a placeholder id. The random suffix keeps
// two terminals started in the same millisecond from colliding; the result
// stays all-digits after the prefix.
func newProvisionalID() string {
	return fmt.Sprintf("%s%d%04d", ProvisionalPrefix, time.Now().UnixMilli(), rand.Intn(10000))
}
