package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/pkg/storage"
	"github.com/ghuser/possystem/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Passed to every XRoutes function and services.New during startup.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "order placed", "order_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	// TemporalClient is nil when Temporal is disabled; stock restores then
	// wait for manual reconciliation.
	TemporalClient *workflows.TemporalClient
	// ObjectStore is nil when image uploads are not configured.
	ObjectStore  *storage.ObjectStore
	Tokens       *auth.TokenManager
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}
