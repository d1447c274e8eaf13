package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/possystem/pkg/database"
	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
	"github.com/ghuser/possystem/services/catalog/domain/repositories"
	"github.com/ghuser/possystem/services/catalog/infrastructure/persistence/postgres/db"
)

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
// Recipe lines live in product_recipe_items and are loaded in one extra query
// per call, never per product.
type ProductRepository struct {
	db *database.Database
}

func NewProductRepository(database *database.Database) *ProductRepository {
	return &ProductRepository{db: database}
}

// Save inserts the product and its recipe in one transaction.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertProduct(ctx, db.InsertProductParams{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			ImageUrl:  p.ImageURL,
			IsActive:  p.IsActive,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}); err != nil {
			if isUniqueViolation(err) {
				return catalogdomain.ErrProductAlreadyExists
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return insertRecipe(ctx, q, p)
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	q := db.New(r.db.DB())
	row, err := q.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	products, err := withRecipes(ctx, q, []db.Product{row})
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := db.New(r.db.DB())
	rows, err := q.ListProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	products, err := withRecipes(ctx, q, rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]*models.Product, error) {
	q := db.New(r.db.DB())
	rows, err := q.ListProducts(ctx, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return withRecipes(ctx, q, rows)
}

// Update rewrites the product and replaces its recipe lines.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		n, err := q.UpdateProduct(ctx, db.UpdateProductParams{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Category:  p.Category,
			ImageUrl:  p.ImageURL,
			IsActive:  p.IsActive,
			UpdatedAt: p.UpdatedAt,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return catalogdomain.ErrProductAlreadyExists
			}
			return fmt.Errorf("update product: %w", err)
		}
		if n == 0 {
			return catalogdomain.ErrProductNotFound
		}
		if err := q.DeleteRecipeItems(ctx, p.ID); err != nil {
			return fmt.Errorf("clear recipe: %w", err)
		}
		return insertRecipe(ctx, q, p)
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.DB()).DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return catalogdomain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindActiveByMaterial(ctx context.Context, materialID uuid.UUID) ([]*models.Product, error) {
	q := db.New(r.db.DB())
	rows, err := q.ListActiveProductsByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("list products by material: %w", err)
	}
	return withRecipes(ctx, q, rows)
}

func (r *ProductRepository) DeactivateByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	n, err := db.New(r.db.DB()).DeactivateProductsByMaterial(ctx, materialID)
	if err != nil {
		return 0, fmt.Errorf("deactivate products: %w", err)
	}
	return n, nil
}

func insertRecipe(ctx context.Context, q *db.Queries, p *models.Product) error {
	for i, item := range p.Recipe {
		if err := q.InsertRecipeItem(ctx, db.InsertRecipeItemParams{
			ProductID:     p.ID,
			Position:      int32(i),
			RawMaterialID: item.MaterialID,
			Quantity:      item.Quantity,
		}); err != nil {
			return fmt.Errorf("insert recipe item %d: %w", i, err)
		}
	}
	return nil
}

// withRecipes maps rows to products and attaches their recipes, preserving row order.
func withRecipes(ctx context.Context, q *db.Queries, rows []db.Product) ([]*models.Product, error) {
	out := make([]*models.Product, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i, row := range rows {
		p := rowToProduct(row)
		out[i] = p
		ids[i] = p.ID
		byID[p.ID] = p
	}

	items, err := q.ListRecipeItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list recipe items: %w", err)
	}
	for _, item := range items {
		if p, ok := byID[item.ProductID]; ok {
			p.Recipe = append(p.Recipe, models.RecipeItem{MaterialID: item.RawMaterialID, Quantity: item.Quantity})
		}
	}
	return out, nil
}

func rowToProduct(row db.Product) *models.Product {
	return &models.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     row.Price,
		Category:  row.Category,
		ImageURL:  row.ImageUrl,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
