package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/services/dashboard/domain/models"
)

// StatsReader runs the aggregate queries behind the dashboard.
type StatsReader interface {
	Summary(ctx context.Context) (totalSales decimal.Decimal, totalOrders int64, err error)
	LowStockCount(ctx context.Context) (int64, error)
	LowStockMaterials(ctx context.Context, limit int) ([]models.LowStockMaterial, error)
	TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error)
	// DailySales returns revenue per UTC day since the given day, keyed by
	// "2006-01-02". Days without orders are absent.
	DailySales(ctx context.Context, since time.Time) (map[string]decimal.Decimal, error)
	// OrderTypeCounts is keyed by the stored order type, e.g. "IN_STORE".
	OrderTypeCounts(ctx context.Context) (map[string]int64, error)
	RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error)
}
