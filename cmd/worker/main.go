package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/worker"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/pkg/telemetry"
	"github.com/ghuser/possystem/pkg/workflows"
	dashboardsvcs "github.com/ghuser/possystem/services/dashboard/application/services"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	invworkflows "github.com/ghuser/possystem/services/inventory/application/workflows"
	invevents "github.com/ghuser/possystem/services/inventory/domain/events"
	invpostgres "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres"
	orderevents "github.com/ghuser/possystem/services/order/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = config.ValidateForProduction(cfg)
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg).With("process", "worker")
	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		stop()
		os.Exit(1)
	}
}

// run consumes domain events and, when Temporal is configured, executes
// stock-restore workflows until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
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

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck

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
	}

	if cfg.TemporalHostPort != "" {
		tc, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("temporal: %w", err)
		}
		defer tc.Close()
		a.TemporalClient = tc

		w, err := startRestoreWorker(a)
		if err != nil {
			return fmt.Errorf("temporal worker: %w", err)
		}
		defer w.Stop()
	}

	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("subscribers: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// startRestoreWorker runs the stock-restore workflow and its activities on
// the configured task queue.
func startRestoreWorker(a *app.Application) (worker.Worker, error) {
	inventory := invservices.New(a)
	w := a.TemporalClient.NewWorker()
	w.RegisterWorkflow(invworkflows.StockRestoreWorkflow)
	w.RegisterActivity(&invworkflows.RestoreActivities{Restorer: inventory.Reconciliation})
	if err := w.Start(); err != nil {
		return nil, err
	}
	a.Logger.Info("temporal worker started", "task_queue", a.TemporalClient.TaskQueue)
	return w, nil
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	stats := dashboardsvcs.New(a).Stats
	materials := invpostgres.NewRawMaterialRepository(a.Db, a.EventBus)

	handlers := map[string]events.Handler{
		orderevents.TopicOrderPlaced: handleOrderPlaced(stats, materials, a.Logger),
		invevents.TopicStockAdjusted: handleStockAdjusted(stats, a.Logger),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "event dropped", "topic", topic, "permanent", events.IsPermanent(err), "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}
