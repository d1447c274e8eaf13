package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/services/order/domain/events"
	"github.com/ghuser/possystem/services/order/domain/models"
)

// OrderRepository stores immutable orders.
type OrderRepository interface {
	// Save persists the order and publishes evt in the same transaction.
	Save(ctx context.Context, o *models.Order, evt events.OrderPlacedEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// List returns orders newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Order, int64, error)
}
