package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
	"github.com/ghuser/possystem/services/inventory/infrastructure/persistence/memory"
)

type stubUsage map[uuid.UUID][]invdomain.DependentProduct

func (s stubUsage) ActiveProductsUsing(_ context.Context, id uuid.UUID) ([]invdomain.DependentProduct, error) {
	return s[id], nil
}

func newMaterialService(t *testing.T, usage stubUsage) (*MaterialService, *models.RawMaterial) {
	t.Helper()
	svc := NewMaterialService(memory.NewRawMaterialRepository(), usage)
	flour, err := svc.Create(context.Background(), CreateMaterialInput{
		Name:        "Flour",
		Unit:        "g",
		StockQty:    decimal.NewFromInt(100),
		MinAlertQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return svc, flour
}

func TestMaterialService_CreateInvalidUnit(t *testing.T) {
	svc := NewMaterialService(memory.NewRawMaterialRepository(), stubUsage{})
	_, err := svc.Create(context.Background(), CreateMaterialInput{Name: "Milk", Unit: "litre"})
	assert.ErrorIs(t, err, invdomain.ErrInvalidMaterial)
}

func TestMaterialService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	svc, flour := newMaterialService(t, stubUsage{})

	got, err := svc.AdjustStock(ctx, flour.ID, decimal.NewFromInt(-40))
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(60)))

	got, err = svc.AdjustStock(ctx, flour.ID, decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(75)))

	_, err = svc.AdjustStock(ctx, flour.ID, decimal.NewFromInt(-76))
	assert.ErrorIs(t, err, invdomain.ErrInsufficientStock)

	got, err = svc.Get(ctx, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQty.Equal(decimal.NewFromInt(75)), "rejected adjustment must not change stock")

	moves, err := svc.Movements(ctx, flour.ID, 0)
	require.NoError(t, err)
	assert.Len(t, moves, 2)
}

func TestMaterialService_UpdateZeroStockWarning(t *testing.T) {
	ctx := context.Background()
	bread := invdomain.DependentProduct{ID: uuid.New(), Name: "Bread"}
	usage := stubUsage{}
	svc, flour := newMaterialService(t, usage)
	usage[flour.ID] = []invdomain.DependentProduct{bread}

	zero := decimal.Zero
	res, err := svc.Update(ctx, flour.ID, UpdateMaterialInput{StockQty: &zero})
	require.NoError(t, err)
	assert.True(t, res.ZeroStockWarning)
	assert.Equal(t, []invdomain.DependentProduct{bread}, res.AffectedProducts)
	assert.True(t, res.Material.StockQty.IsZero())

	name := "Wheat"
	res, err = svc.Update(ctx, flour.ID, UpdateMaterialInput{Name: &name})
	require.NoError(t, err)
	assert.False(t, res.ZeroStockWarning)
	assert.Equal(t, "Wheat", res.Material.Name)
}

// racingRepo runs an order decrement after the service has read the
// material and before it writes the update.
type racingRepo struct {
	*memory.RawMaterialRepository
	race func()
}

func (r *racingRepo) Update(ctx context.Context, m *models.RawMaterial) error {
	if r.race != nil {
		r.race()
		r.race = nil
	}
	return r.RawMaterialRepository.Update(ctx, m)
}

func TestMaterialService_UpdateKeepsConcurrentDecrement(t *testing.T) {
	ctx := context.Background()
	twenty := decimal.NewFromInt(20)

	tests := []struct {
		name      string
		input     func() UpdateMaterialInput
		wantStock int64
		wantMoves []models.MovementReason
	}{
		{
			name: "rename",
			input: func() UpdateMaterialInput {
				name := "Wheat flour"
				return UpdateMaterialInput{Name: &name}
			},
			wantStock: 80,
			wantMoves: []models.MovementReason{models.ReasonOrder},
		},
		{
			name: "alert threshold",
			input: func() UpdateMaterialInput {
				alert := decimal.NewFromInt(25)
				return UpdateMaterialInput{MinAlertQty: &alert}
			},
			wantStock: 80,
			wantMoves: []models.MovementReason{models.ReasonOrder},
		},
		{
			name: "absolute stock",
			input: func() UpdateMaterialInput {
				stock := decimal.NewFromInt(50)
				return UpdateMaterialInput{StockQty: &stock}
			},
			wantStock: 50,
			wantMoves: []models.MovementReason{models.ReasonSet, models.ReasonOrder},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &racingRepo{RawMaterialRepository: memory.NewRawMaterialRepository()}
			svc := NewMaterialService(repo, stubUsage{})
			flour, err := svc.Create(ctx, CreateMaterialInput{
				Name:        "Flour",
				Unit:        "g",
				StockQty:    decimal.NewFromInt(100),
				MinAlertQty: decimal.NewFromInt(10),
			})
			require.NoError(t, err)
			repo.race = func() {
				_, err := repo.ConditionalDecrement(ctx, flour.ID, twenty, models.ReasonOrder, uuid.NewString())
				require.NoError(t, err)
			}

			res, err := svc.Update(ctx, flour.ID, tt.input())
			require.NoError(t, err)
			assert.True(t, res.Material.StockQty.Equal(decimal.NewFromInt(tt.wantStock)), "result stock %s", res.Material.StockQty)

			got, err := svc.Get(ctx, flour.ID)
			require.NoError(t, err)
			assert.True(t, got.StockQty.Equal(decimal.NewFromInt(tt.wantStock)), "stored stock %s", got.StockQty)

			moves, err := svc.Movements(ctx, flour.ID, 0)
			require.NoError(t, err)
			reasons := make([]models.MovementReason, len(moves))
			for i, mv := range moves {
				reasons[i] = mv.Reason
			}
			assert.Equal(t, tt.wantMoves, reasons)
		})
	}
}

func TestMaterialService_UpdateRejectsNegativeStock(t *testing.T) {
	svc, flour := newMaterialService(t, stubUsage{})
	neg := decimal.NewFromInt(-1)
	_, err := svc.Update(context.Background(), flour.ID, UpdateMaterialInput{StockQty: &neg})
	assert.ErrorIs(t, err, invdomain.ErrInvalidMaterial)
}

func TestMaterialService_DeleteBlockedByActiveProduct(t *testing.T) {
	ctx := context.Background()
	usage := stubUsage{}
	svc, flour := newMaterialService(t, usage)
	usage[flour.ID] = []invdomain.DependentProduct{{ID: uuid.New(), Name: "Bread"}}

	err := svc.Delete(ctx, flour.ID)
	var inUse *invdomain.MaterialInUseError
	require.ErrorAs(t, err, &inUse)
	assert.ErrorIs(t, err, invdomain.ErrMaterialInUse)
	assert.Len(t, inUse.Products, 1)

	delete(usage, flour.ID)
	require.NoError(t, svc.Delete(ctx, flour.ID))
	_, err = svc.Get(ctx, flour.ID)
	assert.ErrorIs(t, err, invdomain.ErrMaterialNotFound)
}
