package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
)

type attemptMaterial struct {
	attemptID  uuid.UUID
	materialID uuid.UUID
}

type ReconciliationRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]models.Reconciliation
	keys    map[attemptMaterial]uuid.UUID
}

func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{
		entries: make(map[uuid.UUID]models.Reconciliation),
		keys:    make(map[attemptMaterial]uuid.UUID),
	}
}

func (r *ReconciliationRepository) Save(_ context.Context, entries []*models.Reconciliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		k := attemptMaterial{attemptID: e.AttemptID, materialID: e.MaterialID}
		if _, exists := r.keys[k]; exists {
			continue
		}
		r.keys[k] = e.ID
		r.entries[e.ID] = *e
	}
	return nil
}

func (r *ReconciliationRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Reconciliation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, invdomain.ErrReconciliationNotFound
	}
	return &e, nil
}

func (r *ReconciliationRepository) ListOpen(_ context.Context) ([]*models.Reconciliation, error) {
	return r.listOpen(func(models.Reconciliation) bool { return true }), nil
}

func (r *ReconciliationRepository) ListOpenByAttempt(_ context.Context, attemptID uuid.UUID) ([]*models.Reconciliation, error) {
	return r.listOpen(func(e models.Reconciliation) bool { return e.AttemptID == attemptID }), nil
}

func (r *ReconciliationRepository) MarkResolved(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Status == models.ReconciliationResolved {
		return nil
	}
	now := time.Now().UTC()
	e.Status = models.ReconciliationResolved
	e.ResolvedAt = &now
	r.entries[id] = e
	return nil
}

func (r *ReconciliationRepository) listOpen(keep func(models.Reconciliation) bool) []*models.Reconciliation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Reconciliation
	for _, e := range r.entries {
		if e.Status == models.ReconciliationOpen && keep(e) {
			cp := e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
