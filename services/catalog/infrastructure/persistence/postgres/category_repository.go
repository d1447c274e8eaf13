package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/database"
	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
	"github.com/ghuser/possystem/services/catalog/infrastructure/persistence/postgres/db"
)

// CategoryRepository implements repositories.CategoryRepository against PostgreSQL.
type CategoryRepository struct {
	db *database.Database
}

func NewCategoryRepository(database *database.Database) *CategoryRepository {
	return &CategoryRepository{db: database}
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	if err := db.New(r.db.DB()).InsertCategory(ctx, db.InsertCategoryParams{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}); err != nil {
		if isUniqueViolation(err) {
			return catalogdomain.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row, err := db.New(r.db.DB()).GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return rowToCategory(row), nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	rows, err := db.New(r.db.DB()).ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*models.Category, len(rows))
	for i, row := range rows {
		out[i] = rowToCategory(row)
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	n, err := db.New(r.db.DB()).UpdateCategory(ctx, db.UpdateCategoryParams{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return catalogdomain.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return catalogdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.DB()).DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return catalogdomain.ErrCategoryNotFound
	}
	return nil
}

func rowToCategory(row db.Category) *models.Category {
	return &models.Category{
		ID:        row.ID,
		Name:      row.Name,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
