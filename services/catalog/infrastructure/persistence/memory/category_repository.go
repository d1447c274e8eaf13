package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]models.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[uuid.UUID]models.Category)}
}

func (r *CategoryRepository) Save(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(c.Name, c.ID) {
		return catalogdomain.ErrCategoryAlreadyExists
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, catalogdomain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CategoryRepository) List(_ context.Context, activeOnly bool) ([]*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return catalogdomain.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return catalogdomain.ErrCategoryAlreadyExists
	}
	r.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return catalogdomain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *CategoryRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
