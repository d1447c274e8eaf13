package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/infrastructure/persistence/memory"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	invmemory "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/memory"
)

type fakeImages struct {
	uploads int
	err     error
}

func (f *fakeImages) UploadImage(_ context.Context, folder, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	_, _ = io.Copy(io.Discard, r)
	return "https://cdn.test/" + folder + "/img.png", nil
}

type catalogFixture struct {
	svc       *ProductService
	materials *invmemory.RawMaterialRepository
	images    *fakeImages
	flour     *invmodels.RawMaterial
	yeast     *invmodels.RawMaterial
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	ctx := context.Background()
	materials := invmemory.NewRawMaterialRepository()

	flour, err := invmodels.NewRawMaterial("Flour", invmodels.UnitGram, decimal.NewFromInt(1000), decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, materials.Save(ctx, flour))
	yeast, err := invmodels.NewRawMaterial("Yeast", invmodels.UnitGram, decimal.NewFromInt(30), decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, materials.Save(ctx, yeast))

	images := &fakeImages{}
	return &catalogFixture{
		svc:       NewProductService(memory.NewProductRepository(), NewInventoryStockReader(materials), images),
		materials: materials,
		images:    images,
		flour:     flour,
		yeast:     yeast,
	}
}

func (f *catalogFixture) bread(t *testing.T) *ProductView {
	t.Helper()
	v, err := f.svc.Create(context.Background(), CreateProductInput{
		Name:     "Bread",
		Price:    decimal.NewFromInt(25000),
		Category: "bakery",
		Recipe: []RecipeLine{
			{MaterialID: f.flour.ID.String(), Quantity: decimal.NewFromInt(300)},
			{MaterialID: f.yeast.ID.String(), Quantity: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)
	return v
}

func TestProductService_CreateComputesAvailability(t *testing.T) {
	f := newCatalogFixture(t)
	v := f.bread(t)

	assert.True(t, v.IsActive, "products are active by default")
	assert.Len(t, v.Recipe, 2)
	// min(1000/300, 30/7) = min(3, 4)
	assert.Equal(t, int64(3), v.Availability)
}

func TestProductService_CreateDropsEmptyRecipeLines(t *testing.T) {
	f := newCatalogFixture(t)
	v, err := f.svc.Create(context.Background(), CreateProductInput{
		Name:     "Tea",
		Price:    decimal.NewFromInt(5000),
		Category: "drinks",
		Recipe: []RecipeLine{
			{MaterialID: "", Quantity: decimal.NewFromInt(3)},
			{MaterialID: f.flour.ID.String(), Quantity: decimal.Zero},
			{MaterialID: f.yeast.ID.String(), Quantity: decimal.NewFromInt(-1)},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, v.Recipe)
	assert.Equal(t, int64(0), v.Availability, "a product without recipe is not sellable")
}

func TestProductService_CreateUnknownMaterial(t *testing.T) {
	f := newCatalogFixture(t)
	ghost := uuid.New()
	_, err := f.svc.Create(context.Background(), CreateProductInput{
		Name:     "Cake",
		Price:    decimal.NewFromInt(1000),
		Category: "bakery",
		Recipe:   []RecipeLine{{MaterialID: ghost.String(), Quantity: decimal.NewFromInt(1)}},
	})

	require.ErrorIs(t, err, catalogdomain.ErrUnknownMaterial)
	var unknown *catalogdomain.UnknownMaterialsError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []uuid.UUID{ghost}, unknown.IDs)
}

func TestProductService_CreateInvalid(t *testing.T) {
	f := newCatalogFixture(t)
	tests := []struct {
		name string
		in   CreateProductInput
	}{
		{"missing name", CreateProductInput{Price: decimal.NewFromInt(1), Category: "x"}},
		{"negative price", CreateProductInput{Name: "A", Price: decimal.NewFromInt(-1), Category: "x"}},
		{"missing category", CreateProductInput{Name: "A", Price: decimal.NewFromInt(1)}},
		{"bad material id", CreateProductInput{Name: "A", Price: decimal.NewFromInt(1), Category: "x",
			Recipe: []RecipeLine{{MaterialID: "nope", Quantity: decimal.NewFromInt(1)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, catalogdomain.ErrInvalidProduct)
		})
	}
}

func TestProductService_CreateDuplicateName(t *testing.T) {
	f := newCatalogFixture(t)
	f.bread(t)
	_, err := f.svc.Create(context.Background(), CreateProductInput{
		Name: "Bread", Price: decimal.NewFromInt(1), Category: "bakery",
	})
	assert.ErrorIs(t, err, catalogdomain.ErrProductAlreadyExists)
}

func TestProductService_CreateWithImage(t *testing.T) {
	f := newCatalogFixture(t)
	v, err := f.svc.Create(context.Background(), CreateProductInput{
		Name: "Bun", Price: decimal.NewFromInt(1), Category: "bakery",
		Image: &ImageUpload{ContentType: "image/png", Body: bytes.NewReader([]byte{0x89, 'P', 'N', 'G'})},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/products/img.png", v.ImageURL)
	assert.Equal(t, 1, f.images.uploads)
}

func TestProductService_ImageWithoutStore(t *testing.T) {
	f := newCatalogFixture(t)
	svc := NewProductService(memory.NewProductRepository(), NewInventoryStockReader(f.materials), nil)
	_, err := svc.Create(context.Background(), CreateProductInput{
		Name: "Bun", Price: decimal.NewFromInt(1), Category: "bakery",
		Image: &ImageUpload{ContentType: "image/png", Body: bytes.NewReader(nil)},
	})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidProduct)
}

func TestProductService_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	v := f.bread(t)

	price := decimal.NewFromInt(27000)
	inactive := false
	got, err := f.svc.Update(ctx, v.ID, UpdateProductInput{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price))
	assert.False(t, got.IsActive)
	assert.Equal(t, "Bread", got.Name, "untouched fields are kept")
	assert.Len(t, got.Recipe, 2, "recipe is kept when not provided")

	recipe := []RecipeLine{{MaterialID: f.yeast.ID.String(), Quantity: decimal.NewFromInt(10)}}
	got, err = f.svc.Update(ctx, v.ID, UpdateProductInput{Recipe: &recipe})
	require.NoError(t, err)
	require.Len(t, got.Recipe, 1)
	assert.Equal(t, f.yeast.ID, got.Recipe[0].MaterialID)
	assert.Equal(t, int64(3), got.Availability)

	empty := []RecipeLine{}
	got, err = f.svc.Update(ctx, v.ID, UpdateProductInput{Recipe: &empty})
	require.NoError(t, err)
	assert.Empty(t, got.Recipe)
}

func TestProductService_UpdateNotFound(t *testing.T) {
	f := newCatalogFixture(t)
	name := "X"
	_, err := f.svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestProductService_ListReflectsStock(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	v := f.bread(t)

	_, err := f.materials.ConditionalDecrement(ctx, f.flour.ID, decimal.NewFromInt(800), invmodels.ReasonAdjustment, "")
	require.NoError(t, err)

	list, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, v.ID, list[0].ID)
	assert.Equal(t, int64(0), list[0].Availability, "200g flour no longer covers one loaf")

	list, err = f.svc.List(ctx, "drinks")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductService_DeactivateByMaterial(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	v := f.bread(t)

	using, err := f.svc.FindByMaterial(ctx, f.flour.ID)
	require.NoError(t, err)
	require.Len(t, using, 1)

	n, err := f.svc.DeactivateByMaterial(ctx, f.flour.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := f.svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	using, err = f.svc.FindByMaterial(ctx, f.flour.ID)
	require.NoError(t, err)
	assert.Empty(t, using)
}

func TestProductService_ResolveAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	v := f.bread(t)
	missing := uuid.New()

	got, err := f.svc.ResolveProducts(ctx, []uuid.UUID{v.ID, missing})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, v.ID)

	require.NoError(t, f.svc.Delete(ctx, v.ID))
	_, err = f.svc.Get(ctx, v.ID)
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestProductService_CreateMergesRepeatedMaterials(t *testing.T) {
	f := newCatalogFixture(t)
	v, err := f.svc.Create(context.Background(), CreateProductInput{
		Name:     "Baguette",
		Price:    decimal.NewFromInt(30000),
		Category: "bakery",
		Recipe: []RecipeLine{
			{MaterialID: f.flour.ID.String(), Quantity: decimal.NewFromInt(200)},
			{MaterialID: f.flour.ID.String(), Quantity: decimal.NewFromInt(150)},
		},
	})
	require.NoError(t, err)
	require.Len(t, v.Recipe, 1)
	assert.True(t, v.Recipe[0].Quantity.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, int64(2), v.Availability)
}
