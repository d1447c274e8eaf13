package services

import (
	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/services/dashboard/infrastructure/persistence/postgres"
)

const cacheNamespace = "dashboard"

// Services is the application-layer service container for this bounded context.
type Services struct {
	Stats *StatsService
}

// New wires the dashboard. Without Redis the stats are computed on every call.
func New(a *app.Application) *Services {
	var c Cache
	if a.Redis != nil {
		c = cache.NewJSONCache(a.Redis, cacheNamespace, a.Config.DashboardCacheTTL)
	}
	return &Services{
		Stats: NewStatsService(postgres.NewStatsReader(a.Db), c, a.Logger),
	}
}
