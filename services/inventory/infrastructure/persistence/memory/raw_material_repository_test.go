package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
)

func seed(t *testing.T, repo *RawMaterialRepository, name string, stock int64) *models.RawMaterial {
	t.Helper()
	m, err := models.NewRawMaterial(name, models.UnitGram, decimal.NewFromInt(stock), decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), m))
	return m
}

func TestSave_DuplicateName(t *testing.T) {
	repo := NewRawMaterialRepository()
	seed(t, repo, "Flour", 100)

	dup, err := models.NewRawMaterial("Flour", models.UnitGram, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(context.Background(), dup), invdomain.ErrMaterialAlreadyExists)
}

func TestConditionalDecrement(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 100)

	remaining, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(100), models.ReasonOrder, "a1")
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	_, err = repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(1), models.ReasonOrder, "a2")
	var insufficient *invdomain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Flour", insufficient.Name)
	assert.True(t, insufficient.Available.IsZero())

	_, err = repo.ConditionalDecrement(ctx, uuid.New(), decimal.NewFromInt(1), models.ReasonOrder, "a3")
	assert.ErrorIs(t, err, invdomain.ErrMaterialNotFound)
}

func TestConditionalDecrement_ReplayIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 100)

	_, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(30), models.ReasonOrder, "attempt")
	require.NoError(t, err)
	remaining, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(30), models.ReasonOrder, "attempt")
	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromInt(70)))
}

func TestIncrement_IdempotentForCompensation(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 10)

	_, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonOrder, "attempt")
	require.NoError(t, err)

	applied, err := repo.Increment(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonCompensation, "attempt")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.Increment(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonCompensation, "attempt")
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(10)))
}

func TestIncrement_CompensationWithoutOrderMovement(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 10)

	applied, err := repo.Increment(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonCompensation, "attempt")
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(10)))

	// A decrement arriving after its release must not take stock.
	_, err = repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonOrder, "attempt")
	assert.ErrorIs(t, err, invdomain.ErrReservationReleased)

	got, err = repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(10)))
}

func TestIncrement_AdjustmentNeedsNoOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 10)

	applied, err := repo.Increment(ctx, flour.ID, decimal.NewFromInt(5), models.ReasonAdjustment, "op-1")
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(15)))
}

func TestConditionalDecrement_ConcurrentNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 100)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(7), models.ReasonOrder, uuid.NewString()); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, successes)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(2)))
}

func TestSetStock_JournalsSetMovement(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 100)

	previous, err := repo.SetStock(ctx, flour.ID, decimal.NewFromInt(40), "op-1")
	require.NoError(t, err)
	assert.True(t, previous.Equal(decimal.NewFromInt(100)))

	moves, err := repo.Movements(ctx, flour.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, models.ReasonSet, moves[0].Reason)
	assert.True(t, moves[0].Delta.Equal(decimal.NewFromInt(-60)))

	_, err = repo.SetStock(ctx, uuid.New(), decimal.Zero, "op-2")
	assert.ErrorIs(t, err, invdomain.ErrMaterialNotFound)
}

func TestUpdate_LeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	repo := NewRawMaterialRepository()
	flour := seed(t, repo, "Flour", 100)

	stale := *flour
	_, err := repo.ConditionalDecrement(ctx, flour.ID, decimal.NewFromInt(20), models.ReasonOrder, "attempt")
	require.NoError(t, err)

	stale.Name = "Wheat flour"
	require.NoError(t, repo.Update(ctx, &stale))
	assert.True(t, stale.StockQty.Equal(decimal.NewFromInt(80)))

	got, err := repo.GetByID(ctx, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wheat flour", got.Name)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(80)))

	moves, err := repo.Movements(ctx, flour.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, models.ReasonOrder, moves[0].Reason)
}

func TestLowStock_SortedByStock(t *testing.T) {
	repo := NewRawMaterialRepository()
	seed(t, repo, "Sugar", 8)
	seed(t, repo, "Yeast", 2)
	seed(t, repo, "Flour", 100)

	low, err := repo.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Yeast", low[0].Name)
	assert.Equal(t, "Sugar", low[1].Name)
}
