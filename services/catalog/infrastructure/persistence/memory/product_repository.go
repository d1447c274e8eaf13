// Package memory provides in-process catalog repositories for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
	"github.com/ghuser/possystem/services/catalog/domain/repositories"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]models.Product)}
}

func (r *ProductRepository) Save(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(p.Name, p.ID) {
		return catalogdomain.ErrProductAlreadyExists
	}
	r.products[p.ID] = clone(p)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	cp := clone(&p)
	return &cp, nil
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cp := clone(&p)
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *ProductRepository) List(_ context.Context, filter repositories.ProductFilter) ([]*models.Product, error) {
	return r.collect(func(p *models.Product) bool {
		return filter.Category == "" || p.Category == filter.Category
	}), nil
}

func (r *ProductRepository) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return catalogdomain.ErrProductNotFound
	}
	if r.nameTaken(p.Name, p.ID) {
		return catalogdomain.ErrProductAlreadyExists
	}
	r.products[p.ID] = clone(p)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return catalogdomain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) FindActiveByMaterial(_ context.Context, materialID uuid.UUID) ([]*models.Product, error) {
	return r.collect(func(p *models.Product) bool {
		return p.IsActive && p.Uses(materialID)
	}), nil
}

func (r *ProductRepository) DeactivateByMaterial(_ context.Context, materialID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.products {
		if p.IsActive && p.Uses(materialID) {
			p.IsActive = false
			p.UpdatedAt = time.Now().UTC()
			r.products[id] = p
			n++
		}
	}
	return n, nil
}

func (r *ProductRepository) collect(keep func(*models.Product) bool) []*models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(&p) {
			cp := clone(&p)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ProductRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, p := range r.products {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

// clone copies the recipe slice so callers cannot mutate stored state.
func clone(p *models.Product) models.Product {
	cp := *p
	cp.Recipe = append([]models.RecipeItem(nil), p.Recipe...)
	return cp
}
