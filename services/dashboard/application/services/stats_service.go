package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/services/dashboard/domain/models"
	"github.com/ghuser/possystem/services/dashboard/domain/repositories"
	ordermodels "github.com/ghuser/possystem/services/order/domain/models"
)

const (
	statsKey        = "stats"
	lowStockLimit   = 5
	topProductLimit = 5
	recentLimit     = 10
	historyDays     = 7
)

// Cache is the read-model cache in front of the stats queries.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context) error
}

// StatsService assembles dashboard stats, serving them from the cache when
// possible. Cache failures are logged and fall through to the database.
type StatsService struct {
	reader repositories.StatsReader
	cache  Cache
	log    logger.Logger
	now    func() time.Time
}

// NewStatsService wires the service. cache may be nil.
func NewStatsService(reader repositories.StatsReader, c Cache, log logger.Logger) *StatsService {
	return &StatsService{reader: reader, cache: c, log: log, now: time.Now}
}

func (s *StatsService) Stats(ctx context.Context) (*models.Stats, error) {
	if s.cache != nil {
		var cached models.Stats
		err := s.cache.Get(ctx, statsKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WarnContext(ctx, "dashboard cache read failed", "error", err)
		}
	}

	stats, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, statsKey, stats); err != nil {
			s.log.WarnContext(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached stats.
func (s *StatsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *StatsService) build(ctx context.Context) (*models.Stats, error) {
	now := s.now().UTC()
	st := &models.Stats{GeneratedAt: now}

	var err error
	if st.Summary.TotalSales, st.Summary.TotalOrders, err = s.reader.Summary(ctx); err != nil {
		return nil, err
	}
	if st.Summary.LowStockCount, err = s.reader.LowStockCount(ctx); err != nil {
		return nil, err
	}
	if st.LowStockMaterials, err = s.reader.LowStockMaterials(ctx, lowStockLimit); err != nil {
		return nil, err
	}
	if st.TopProducts, err = s.reader.TopProducts(ctx, topProductLimit); err != nil {
		return nil, err
	}
	if st.RecentOrders, err = s.reader.RecentOrders(ctx, recentLimit); err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(historyDays - 1))
	daily, err := s.reader.DailySales(ctx, first)
	if err != nil {
		return nil, err
	}
	st.SalesHistory = fillSalesHistory(first, historyDays, daily)

	counts, err := s.reader.OrderTypeCounts(ctx)
	if err != nil {
		return nil, err
	}
	st.OrderTypes = fillOrderTypes(counts)

	if st.LowStockMaterials == nil {
		st.LowStockMaterials = []models.LowStockMaterial{}
	}
	if st.TopProducts == nil {
		st.TopProducts = []models.TopProduct{}
	}
	if st.RecentOrders == nil {
		st.RecentOrders = []models.RecentOrder{}
	}
	return st, nil
}

// fillSalesHistory returns one entry per day from first, oldest first, with
// zero for days without sales.
func fillSalesHistory(first time.Time, days int, daily map[string]decimal.Decimal) []models.DailySales {
	out := make([]models.DailySales, days)
	for i := range days {
		day := first.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		out[i] = models.DailySales{Date: key, Label: day.Format("Jan 02"), Sales: daily[key]}
	}
	return out
}

// fillOrderTypes returns every order type in display order, zero when absent.
func fillOrderTypes(counts map[string]int64) []models.OrderTypeCount {
	out := make([]models.OrderTypeCount, len(ordermodels.OrderTypes))
	for i, t := range ordermodels.OrderTypes {
		out[i] = models.OrderTypeCount{Name: t.Label(), Value: counts[string(t)]}
	}
	return out
}

var _ Cache = (*cache.JSONCache)(nil)
