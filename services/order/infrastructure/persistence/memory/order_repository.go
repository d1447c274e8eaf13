// Package memory provides an in-process order repository for tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	orderdomain "github.com/ghuser/possystem/services/order/domain"
	"github.com/ghuser/possystem/services/order/domain/events"
	"github.com/ghuser/possystem/services/order/domain/models"
)

// ErrInjected is returned by Save while FailSaves is positive.
var ErrInjected = errors.New("injected save failure")

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]models.Order
	events []events.OrderPlacedEvent

	// FailSaves makes the next n calls to Save fail with ErrInjected.
	FailSaves int
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uuid.UUID]models.Order)}
}

func (r *OrderRepository) Save(_ context.Context, o *models.Order, evt events.OrderPlacedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaves > 0 {
		r.FailSaves--
		return ErrInjected
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	r.orders[o.ID] = cp
	r.events = append(r.events, evt)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, orderdomain.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepository) List(_ context.Context, limit, offset int) ([]*models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, &o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Order{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

// Events returns the order.placed events recorded so far.
func (r *OrderRepository) Events() []events.OrderPlacedEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]events.OrderPlacedEvent(nil), r.events...)
}

// Count returns the number of stored orders.
func (r *OrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
