// Package memory provides mutex-guarded in-process implementations of the
// inventory repositories used by the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
)

type movementKey struct {
	reference  string
	materialID uuid.UUID
	reason     models.MovementReason
}

// RawMaterialRepository keeps materials and their movement ledger in maps.
// Every method holds the lock for its whole body, so a conditional decrement
// is as indivisible as the guarded UPDATE of the postgres implementation.
type RawMaterialRepository struct {
	mu        sync.RWMutex
	materials map[uuid.UUID]models.RawMaterial
	movements []models.StockMovement
	applied   map[movementKey]struct{}
}

func NewRawMaterialRepository() *RawMaterialRepository {
	return &RawMaterialRepository{
		materials: make(map[uuid.UUID]models.RawMaterial),
		applied:   make(map[movementKey]struct{}),
	}
}

func (r *RawMaterialRepository) Save(_ context.Context, m *models.RawMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(m.Name, m.ID) {
		return invdomain.ErrMaterialAlreadyExists
	}
	if _, ok := r.materials[m.ID]; ok {
		return invdomain.ErrMaterialAlreadyExists
	}
	r.materials[m.ID] = *m
	return nil
}

func (r *RawMaterialRepository) GetByID(_ context.Context, id uuid.UUID) (*models.RawMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, invdomain.ErrMaterialNotFound
	}
	return &m, nil
}

func (r *RawMaterialRepository) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.RawMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]*models.RawMaterial, len(ids))
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			cp := m
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *RawMaterialRepository) List(_ context.Context) ([]*models.RawMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.snapshot(func(models.RawMaterial) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RawMaterialRepository) LowStock(_ context.Context) ([]*models.RawMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.snapshot(func(m models.RawMaterial) bool { return m.IsLowStock() })
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].StockQty.Cmp(out[j].StockQty); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Update writes the attributes of m and leaves stock alone; m.StockQty is
// refreshed with the stored value.
func (r *RawMaterialRepository) Update(_ context.Context, m *models.RawMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.materials[m.ID]
	if !ok {
		return invdomain.ErrMaterialNotFound
	}
	if r.nameTaken(m.Name, m.ID) {
		return invdomain.ErrMaterialAlreadyExists
	}
	m.StockQty = current.StockQty
	r.materials[m.ID] = *m
	return nil
}

func (r *RawMaterialRepository) SetStock(_ context.Context, id uuid.UUID, qty decimal.Decimal, reference string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return decimal.Zero, invdomain.ErrMaterialNotFound
	}
	previous := m.StockQty
	if delta := qty.Sub(previous); !delta.IsZero() {
		m.StockQty = qty
		m.UpdatedAt = time.Now().UTC()
		r.materials[id] = m
		r.journal(id, delta, models.ReasonSet, reference)
	}
	return previous, nil
}

func (r *RawMaterialRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[id]; !ok {
		return invdomain.ErrMaterialNotFound
	}
	delete(r.materials, id)
	return nil
}

func (r *RawMaterialRepository) ConditionalDecrement(_ context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return decimal.Zero, invdomain.ErrMaterialNotFound
	}
	key := movementKey{reference: reference, materialID: id, reason: reason}
	if _, done := r.applied[key]; done && idempotent(reason) {
		return m.StockQty, nil
	}
	if reason == models.ReasonOrder && r.journaled(reference, id, models.ReasonCompensation) {
		return decimal.Zero, invdomain.ErrReservationReleased
	}
	if m.StockQty.LessThan(amount) {
		return decimal.Zero, &invdomain.InsufficientStockError{
			MaterialID: id,
			Name:       m.Name,
			Required:   amount,
			Available:  m.StockQty,
		}
	}
	m.StockQty = m.StockQty.Sub(amount)
	m.UpdatedAt = time.Now().UTC()
	r.materials[id] = m
	r.journal(id, amount.Neg(), reason, reference)
	return m.StockQty, nil
}

func (r *RawMaterialRepository) Increment(_ context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return false, invdomain.ErrMaterialNotFound
	}
	key := movementKey{reference: reference, materialID: id, reason: reason}
	if _, done := r.applied[key]; done && idempotent(reason) {
		return false, nil
	}
	if reason == models.ReasonCompensation && !r.journaled(reference, id, models.ReasonOrder) {
		r.journal(id, decimal.Zero, reason, reference)
		return false, nil
	}
	m.StockQty = m.StockQty.Add(amount)
	m.UpdatedAt = time.Now().UTC()
	r.materials[id] = m
	r.journal(id, amount, reason, reference)
	return true, nil
}

func (r *RawMaterialRepository) Movements(_ context.Context, id uuid.UUID, limit int) ([]*models.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].MaterialID == id {
			mv := r.movements[i]
			out = append(out, &mv)
		}
	}
	return out, nil
}

// journal must be called with the write lock held.
func (r *RawMaterialRepository) journal(id uuid.UUID, delta decimal.Decimal, reason models.MovementReason, reference string) {
	r.movements = append(r.movements, models.StockMovement{
		ID:         uuid.New(),
		MaterialID: id,
		Delta:      delta,
		Reason:     reason,
		Reference:  reference,
		CreatedAt:  time.Now().UTC(),
	})
	if idempotent(reason) {
		r.applied[movementKey{reference: reference, materialID: id, reason: reason}] = struct{}{}
	}
}

func (r *RawMaterialRepository) journaled(reference string, id uuid.UUID, reason models.MovementReason) bool {
	_, ok := r.applied[movementKey{reference: reference, materialID: id, reason: reason}]
	return ok
}

func (r *RawMaterialRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, m := range r.materials {
		if id != except && m.Name == name {
			return true
		}
	}
	return false
}

func (r *RawMaterialRepository) snapshot(keep func(models.RawMaterial) bool) []*models.RawMaterial {
	out := make([]*models.RawMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		if keep(m) {
			cp := m
			out = append(out, &cp)
		}
	}
	return out
}

// idempotent mirrors the partial unique index on stock_movements.
func idempotent(reason models.MovementReason) bool {
	return reason == models.ReasonOrder || reason == models.ReasonCompensation
}
