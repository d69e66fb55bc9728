// Command tub is the terminal client for the TUB banking portal: OTP
// login, the chat assistant, and the account dashboard.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tub-bank/portal-client-go/internal/auth"
	"github.com/tub-bank/portal-client-go/internal/config"
	"github.com/tub-bank/portal-client-go/internal/controller"
	"github.com/tub-bank/portal-client-go/internal/domain"
	"github.com/tub-bank/portal-client-go/internal/gateway"
	"github.com/tub-bank/portal-client-go/internal/infra/cache"
	"github.com/tub-bank/portal-client-go/internal/infra/observability"
	"github.com/tub-bank/portal-client-go/internal/session"
	"github.com/tub-bank/portal-client-go/internal/store/credfile"
	"github.com/tub-bank/portal-client-go/internal/store/scratch"
)

// app bundles the wired components the commands share.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *observability.Metrics
	authCtx   *auth.Context
	login     *auth.LoginFlow
	chat      *controller.Chat
	dashboard *controller.Dashboard
	chrome    *controller.Chrome
}

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "tub-portal-client")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Stores ---
	creds, err := credfile.New(cfg.StateDir)
	if err != nil {
		logger.Fatal("failed to open credential store", zap.Error(err))
	}
	sessionStore := scratch.New()

	// --- Auth context + gateway ---
	authCtx := auth.NewContext(creds)
	api := gateway.NewClient(cfg, authCtx, metrics, logger)

	// --- Session reconciliation ---
	reconciler := session.NewReconciler(sessionStore, api, metrics, logger)

	// --- Controllers ---
	profileCache := cache.New[*domain.Profile](cfg.CacheTTL)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		authCtx:   authCtx,
		login:     auth.NewLoginFlow(api, creds, logger),
		chat:      controller.NewChat(api, reconciler, authCtx, cfg.Lang, logger),
		dashboard: controller.NewDashboard(api, authCtx, creds, profileCache, metrics, logger),
		chrome:    controller.NewChrome(authCtx, creds, sessionStore, logger),
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}
