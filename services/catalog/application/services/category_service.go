package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
	"github.com/ghuser/possystem/services/catalog/domain/repositories"
)

// CategoryService manages product categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, name string, isActive *bool) (*models.Category, error) {
	active := true
	if isActive != nil {
		active = *isActive
	}
	c, err := models.NewCategory(name, active)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidCategory, err)
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	cs, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cs, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, name *string, isActive *bool) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if name != nil {
		c.Name = strings.TrimSpace(*name)
	}
	if isActive != nil {
		c.IsActive = *isActive
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidCategory, err)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
