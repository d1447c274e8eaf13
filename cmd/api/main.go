package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/possystem/docs/swagger"
	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/httpx"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/pkg/storage"
	"github.com/ghuser/possystem/pkg/telemetry"
	"github.com/ghuser/possystem/pkg/workflows"
	catalogApi "github.com/ghuser/possystem/services/catalog/application/api"
	dashboardApi "github.com/ghuser/possystem/services/dashboard/application/api"
	identityApi "github.com/ghuser/possystem/services/identity/application/api"
	inventoryApi "github.com/ghuser/possystem/services/inventory/application/api"
	orderApi "github.com/ghuser/possystem/services/order/application/api"
)

// @title						POS System API
// @version					1.0
// @description				Point-of-sale backend: inventory, catalog, order placement and dashboard.
// @license.name				MIT
// @license.url				https://opensource.org/licenses/MIT
// @host						localhost:8080
// @BasePath					/api
// @schemes					http https
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err == nil {
		err = config.ValidateForProduction(cfg)
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Prices and quantities are sent as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg)
	if err := run(ctx, cfg, log); err != nil {
		log.Error("api exited", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck
	if err := eventBus.StartForwarder(ctx); err != nil {
		return fmt.Errorf("event forwarder: %w", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ServiceName),
		SessionStore: auth.NewSessionStore(
			redisClient.Client(),
			[]byte(cfg.SessionAuthKey),
			[]byte(cfg.SessionEncryptionKey),
			cfg.Environment == config.EnvProduction,
			cfg.JWTTTL,
		),
	}

	// Without Temporal, failed compensations wait in the reconciliation
	// journal for posctl.
	if cfg.TemporalHostPort != "" {
		tc, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Warn("temporal unavailable, stock restores need manual reconciliation", "error", err)
		} else {
			defer tc.Close()
			a.TemporalClient = tc
		}
	}

	checks := []httpx.HealthCheck{
		{Name: "database", Pinger: pool},
		{Name: "redis", Pinger: redisClient},
		{Name: "event_bus", Pinger: eventBus},
		{Name: "object_storage"},
	}
	if store, err := storage.NewObjectStore(ctx, cfg); err != nil {
		log.Warn("object storage unavailable, product image uploads disabled", "error", err)
	} else {
		a.ObjectStore = store
		checks[3].Pinger = store
	}

	opts := httpx.RouterOptionsFromConfig(cfg)
	opts.Recovery = logger.Recovery(log)
	opts.Sentry = telemetry.SentryMiddleware()
	opts.Tracing = otelhttp.NewMiddleware(cfg.ServiceName)
	opts.Logging = logger.Middleware(log)
	r := httpx.NewRouter(opts)

	r.Get("/health", httpx.HealthHandler(checks...))
	r.Handle("/metrics", metricsHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, a)
	})

	return serve(ctx, httpx.NewServer(cfg.HTTPAddr, r, cfg.HTTPRequestTimeout), cfg, log)
}

// serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests.
func serve(ctx context.Context, srv *http.Server, cfg *config.Config, log logger.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// registerRoutes mounts every context under /api. Only login is public.
func registerRoutes(r chi.Router, a *app.Application) {
	requireAuth := auth.RequireAuth(a.SessionStore, a.Tokens, a.Logger)

	identityApi.AuthRoutes(r, a, requireAuth)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		inventoryApi.InventoryRoutes(r, a)
		catalogApi.CatalogRoutes(r, a)
		orderApi.OrderRoutes(r, a)
		dashboardApi.DashboardRoutes(r, a)
	})
}
