// Package controller holds the thin UI-facing controllers: chat, login,
// dashboard and page chrome. They drive the stores, reconciler and gateway;
// rendering belongs to the caller.
package controller

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/port"
	"github.com/tub-bank/portal-client-go/internal/session"
)

// fallbackReply is shown when the server answers without a usable message.
const fallbackReply = "I couldn't process that right now."

// Identity exposes the slice of the auth context the chat needs: the
// customer id for payload personalization. The chat session itself is
// independent of login — anonymous visitors chat too.
type Identity interface {
	CustomerID() string
}

// Chat is the chat-widget controller: it establishes the session, attaches
// it to every send, and folds server reconciliation back into local state.
type Chat struct {
	api        port.PortalAPI
	reconciler *session.Reconciler
	identity   Identity
	logger     *zap.Logger

	mu      sync.Mutex
	lang    string
	started bool
}

// NewChat creates the chat controller. lang is the initial chat language.
func NewChat(api port.PortalAPI, reconciler *session.Reconciler, identity Identity, lang string, logger *zap.Logger) *Chat {
	return &Chat{
		api:        api,
		reconciler: reconciler,
		identity:   identity,
		lang:       lang,
		logger:     logger,
	}
}

// Start establishes the session id for this terminal. Safe to call more
// than once; only the first call can touch the network.
func (c *Chat) Start(ctx context.Context) domain.ChatSession {
	c.mu.Lock()
	started := c.started
	c.started = true
	c.mu.Unlock()

	if started {
		return c.reconciler.Current()
	}
	return c.reconciler.EnsureSession(ctx)
}

// Send delivers one message and returns the assistant's reply.
//
// The response may carry an authoritative session id or a language switch;
// both are applied before returning. A transport failure keeps all local
// state as-is, so the same message can simply be sent again.
func (c *Chat) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &domain.ErrValidation{Field: "message", Message: "message is empty"}
	}

	c.Start(ctx)

	req := &domain.ChatRequest{
		Message:    message,
		SessionID:  c.reconciler.Current().SessionID,
		CustomerID: c.identity.CustomerID(),
		Lang:       c.Lang(),
	}

	resp, err := c.api.Chat(ctx, req)
	if err != nil {
		return "", err
	}

	c.reconciler.Reconcile(resp.SessionID)

	if resp.Lang != "" && resp.Lang != c.Lang() {
		c.setLang(resp.Lang)
		c.logger.Debug("chat language switched", zap.String("lang", resp.Lang))
	}

	if resp.BotResponse == "" {
		return fallbackReply, nil
	}
	return resp.BotResponse, nil
}

// Session returns the current session identity and how it was obtained.
func (c *Chat) Session() (domain.ChatSession, domain.SessionState) {
	return c.reconciler.Current(), c.reconciler.State()
}

// Lang returns the active chat language.
func (c *Chat) Lang() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Chat) setLang(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
}
