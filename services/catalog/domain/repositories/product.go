package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/services/catalog/domain/models"
)

// ProductFilter narrows List results. Empty fields match everything.
type ProductFilter struct {
	Category string
}

// ProductRepository is the persistence interface for products and their recipes.
// Products are returned with their recipe lines in order.
type ProductRepository interface {
	// Save inserts a product and its recipe. Returns ErrProductAlreadyExists on a name clash.
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// GetByIDs resolves many products in one round trip. Missing ids are absent from the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)

	// List returns products ordered by name.
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, error)

	// Update rewrites the product row and replaces its recipe.
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindActiveByMaterial returns active products whose recipe uses materialID.
	FindActiveByMaterial(ctx context.Context, materialID uuid.UUID) ([]*models.Product, error)

	// DeactivateByMaterial marks every product using materialID inactive and
	// returns how many rows changed.
	DeactivateByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}

// CategoryRepository is the persistence interface for categories.
type CategoryRepository interface {
	Save(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// List returns categories ordered by name, only active ones when activeOnly.
	List(ctx context.Context, activeOnly bool) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
