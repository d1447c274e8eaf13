package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/logger"
	catalogsvcs "github.com/ghuser/possystem/services/catalog/application/services"
	catalogmemory "github.com/ghuser/possystem/services/catalog/infrastructure/persistence/memory"
	identitysvcs "github.com/ghuser/possystem/services/identity/application/services"
	identitymemory "github.com/ghuser/possystem/services/identity/infrastructure/persistence/memory"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	invmemory "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/memory"
	ordersvcs "github.com/ghuser/possystem/services/order/application/services"
	ordermemory "github.com/ghuser/possystem/services/order/infrastructure/persistence/memory"
)

type seedFixture struct {
	seeder    *seeder
	materials *invmemory.RawMaterialRepository
	orders    *ordermemory.OrderRepository
	users     *identitysvcs.AuthService
	out       *bytes.Buffer
}

func newSeedFixture() *seedFixture {
	materials := invmemory.NewRawMaterialRepository()
	products := catalogmemory.NewProductRepository()
	orders := ordermemory.NewOrderRepository()
	users := identitysvcs.NewAuthService(identitymemory.NewUserRepository(),
		auth.NewTokenManager("seed-test-secret-0123456789abcdef", time.Hour, "posctl"))
	recon := invservices.NewReconciliationService(invmemory.NewReconciliationRepository(), materials, nil, nil, logger.Discard())

	out := &bytes.Buffer{}
	return &seedFixture{
		seeder: &seeder{
			materials:  invservices.NewMaterialService(materials, nil),
			categories: catalogsvcs.NewCategoryService(catalogmemory.NewCategoryRepository()),
			products:   catalogsvcs.NewProductService(products, catalogsvcs.NewInventoryStockReader(materials), nil),
			users:      users,
			placement: ordersvcs.NewPlacementService(
				ordersvcs.NewCatalogProducts(products),
				ordersvcs.NewInventoryStock(materials),
				orders,
				ordersvcs.NewInventoryReconciler(recon),
				logger.Discard(),
				1,
			),
			out: out,
			rng: rand.New(rand.NewPCG(1, 2)),
		},
		materials: materials,
		orders:    orders,
		users:     users,
		out:       out,
	}
}

func TestSeed_PopulatesEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	f := newSeedFixture()

	res, err := f.seeder.run(ctx, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Users)
	assert.Equal(t, 5, res.Materials)
	assert.Equal(t, 6, res.Categories)
	assert.Equal(t, 18, res.Products)
	assert.Equal(t, 20, res.Orders)
	assert.Zero(t, res.FailedOrders)

	placed, total, err := f.orders.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, placed, 20)
	assert.EqualValues(t, 20, total)

	all, err := f.materials.List(ctx)
	require.NoError(t, err)
	consumed := decimal.Zero
	for _, m := range all {
		if m.Name == "Material Alpha" {
			consumed = decimal.NewFromInt(100000).Sub(m.StockQty)
			assert.Equal(t, invmodels.UnitGram, m.Unit)
		}
		if m.Name == "Material Beta" {
			assert.Equal(t, invmodels.UnitPiece, m.Unit)
		}
	}
	assert.True(t, consumed.IsPositive(), "orders should draw down stock")

	login, err := f.users.Login(ctx, "staff@pos.com", "staff123")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	assert.Contains(t, f.out.String(), "orders: 20 placed, 0 failed")
}

func TestSeed_RefusesNonEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	f := newSeedFixture()
	m, err := invmodels.NewRawMaterial("Sugar", invmodels.UnitGram, decimal.NewFromInt(1), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, f.materials.Save(ctx, m))

	_, err = f.seeder.run(ctx, 0)
	assert.ErrorIs(t, err, errAlreadySeeded)
}

func TestSeed_WithoutOrders(t *testing.T) {
	f := newSeedFixture()
	f.seeder.placement = nil

	res, err := f.seeder.run(context.Background(), 20)
	require.NoError(t, err)
	assert.Zero(t, res.Orders)
	assert.NotContains(t, f.out.String(), "orders:")
}

func TestRandomOrder(t *testing.T) {
	f := newSeedFixture()
	products := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	operator := uuid.New()

	for range 10 {
		cmd := f.seeder.randomOrder(operator, products)
		_, err := cmd.Validate()
		require.NoError(t, err)
		assert.Len(t, cmd.Items, 3)
		seen := map[uuid.UUID]bool{}
		for _, it := range cmd.Items {
			assert.False(t, seen[it.ProductID], "products must be distinct")
			seen[it.ProductID] = true
			assert.True(t, it.Quantity == 1 || it.Quantity == 2)
		}
	}
}
