package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/cache"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/services/dashboard/domain/models"
)

type fakeReader struct {
	calls    int
	since    time.Time
	daily    map[string]decimal.Decimal
	types    map[string]int64
	lowCount int64
	low      []models.LowStockMaterial
	err      error
}

func (f *fakeReader) Summary(context.Context) (decimal.Decimal, int64, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, 0, f.err
	}
	return decimal.RequireFromString("125.50"), 4, nil
}

func (f *fakeReader) LowStockCount(context.Context) (int64, error) { return f.lowCount, nil }

func (f *fakeReader) LowStockMaterials(_ context.Context, limit int) ([]models.LowStockMaterial, error) {
	if len(f.low) > limit {
		return f.low[:limit], nil
	}
	return f.low, nil
}

func (f *fakeReader) TopProducts(context.Context, int) ([]models.TopProduct, error) { return nil, nil }

func (f *fakeReader) DailySales(_ context.Context, since time.Time) (map[string]decimal.Decimal, error) {
	f.since = since
	return f.daily, nil
}

func (f *fakeReader) OrderTypeCounts(context.Context) (map[string]int64, error) { return f.types, nil }

func (f *fakeReader) RecentOrders(context.Context, int) ([]models.RecentOrder, error) {
	return nil, nil
}

type fakeCache struct {
	entries map[string][]byte
	getErr  error
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.entries = map[string][]byte{}
	return nil
}

func fixedClock() time.Time { return time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC) }

func newStats(reader *fakeReader, c Cache) *StatsService {
	svc := NewStatsService(reader, c, logger.Discard())
	svc.now = fixedClock
	return svc
}

func TestStats_SalesHistoryZeroFilled(t *testing.T) {
	reader := &fakeReader{daily: map[string]decimal.Decimal{
		"2024-03-05": decimal.NewFromInt(40),
		"2024-03-10": decimal.RequireFromString("12.5"),
	}}
	stats, err := newStats(reader, nil).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), reader.since)
	require.Len(t, stats.SalesHistory, 7)
	assert.Equal(t, "2024-03-04", stats.SalesHistory[0].Date)
	assert.Equal(t, "Mar 04", stats.SalesHistory[0].Label)
	assert.True(t, stats.SalesHistory[0].Sales.IsZero())
	assert.True(t, stats.SalesHistory[1].Sales.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "2024-03-10", stats.SalesHistory[6].Date)
	assert.True(t, stats.SalesHistory[6].Sales.Equal(decimal.RequireFromString("12.5")))
}

func TestStats_OrderTypesAlwaysPresent(t *testing.T) {
	reader := &fakeReader{types: map[string]int64{"PICKUP": 3}}
	stats, err := newStats(reader, nil).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.OrderTypeCount{
		{Name: "IN STORE", Value: 0},
		{Name: "PICKUP", Value: 3},
		{Name: "SHIPPING", Value: 0},
	}, stats.OrderTypes)
}

func TestStats_SummaryAndLowStock(t *testing.T) {
	low := make([]models.LowStockMaterial, 7)
	for i := range low {
		low[i] = models.LowStockMaterial{ID: uuid.New(), Name: "m"}
	}
	reader := &fakeReader{low: low, lowCount: 7}
	stats, err := newStats(reader, nil).Stats(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.Summary.TotalSales.Equal(decimal.RequireFromString("125.50")))
	assert.Equal(t, int64(4), stats.Summary.TotalOrders)
	assert.Equal(t, int64(7), stats.Summary.LowStockCount)
	assert.Len(t, stats.LowStockMaterials, 5)
	assert.NotNil(t, stats.TopProducts)
	assert.NotNil(t, stats.RecentOrders)
	assert.Equal(t, fixedClock(), stats.GeneratedAt)
}

func TestStats_ServedFromCacheUntilInvalidated(t *testing.T) {
	reader := &fakeReader{}
	c := newFakeCache()
	svc := newStats(reader, c)
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)
	cached, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, int64(4), cached.Summary.TotalOrders)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestStats_CacheErrorFallsThrough(t *testing.T) {
	reader := &fakeReader{}
	c := newFakeCache()
	c.getErr = errors.New("redis down")

	stats, err := newStats(reader, c).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Summary.TotalOrders)
	assert.Equal(t, 1, reader.calls)
}

func TestStats_ReaderErrorNotCached(t *testing.T) {
	reader := &fakeReader{err: errors.New("db down")}
	c := newFakeCache()

	_, err := newStats(reader, c).Stats(context.Background())
	require.Error(t, err)
	assert.Empty(t, c.entries)
}

func TestStats_InvalidateWithoutCache(t *testing.T) {
	assert.NoError(t, newStats(&fakeReader{}, nil).Invalidate(context.Background()))
}
