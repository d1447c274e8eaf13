package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/database"
	"github.com/ghuser/possystem/pkg/events"
	orderdomain "github.com/ghuser/possystem/services/order/domain"
	domainevents "github.com/ghuser/possystem/services/order/domain/events"
	"github.com/ghuser/possystem/services/order/domain/models"
	"github.com/ghuser/possystem/services/order/infrastructure/persistence/postgres/db"
)

// OrderRepository implements repositories.OrderRepository against PostgreSQL.
type OrderRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewOrderRepository returns a repository backed by the given pool. bus may be
// nil, in which case no order.placed event is written.
func NewOrderRepository(database *database.Database, bus *events.EventBus) *OrderRepository {
	return &OrderRepository{db: database, bus: bus}
}

// Save writes the order, its lines and the outbox event in one transaction.
func (r *OrderRepository) Save(ctx context.Context, o *models.Order, evt domainevents.OrderPlacedEvent) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            o.ID,
			TotalAmount:   o.TotalAmount,
			ProcessedBy:   o.ProcessedBy,
			Type:          string(o.Type),
			Status:        string(o.Status),
			PaymentMethod: o.PaymentMethod,
			CreatedAt:     o.CreatedAt,
		}); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i, item := range o.Items {
			if err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:     o.ID,
				Position:    int32(i),
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    int32(item.Quantity),
				PriceAtSale: item.PriceAtSale,
			}); err != nil {
				return fmt.Errorf("insert order item %d: %w", i, err)
			}
		}

		if r.bus == nil {
			return nil
		}
		msg, err := events.NewJSONMessage(evt.EventID, evt.Version, evt)
		if err != nil {
			return fmt.Errorf("marshal order placed event: %w", err)
		}
		if err := r.bus.PublishInTx(ctx, tx, domainevents.TopicOrderPlaced, msg); err != nil {
			return fmt.Errorf("publish order placed event: %w", err)
		}
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	q := db.New(r.db.DB())
	row, err := q.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	orders, err := r.withItems(ctx, q, []db.Order{row})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, int64, error) {
	q := db.New(r.db.DB())
	total, err := q.CountOrders(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := q.ListOrders(ctx, db.ListOrdersParams{Limit: int32(limit), Offset: int32(offset)})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	orders, err := r.withItems(ctx, q, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// withItems loads the lines of all rows in one query.
func (r *OrderRepository) withItems(ctx context.Context, q *db.Queries, rows []db.Order) ([]*models.Order, error) {
	out := make([]*models.Order, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	byID := make(map[uuid.UUID]*models.Order, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		o := &models.Order{
			ID:            row.ID,
			TotalAmount:   row.TotalAmount,
			ProcessedBy:   row.ProcessedBy,
			Type:          models.OrderType(row.Type),
			Status:        models.Status(row.Status),
			PaymentMethod: row.PaymentMethod,
			CreatedAt:     row.CreatedAt,
		}
		out[i] = o
		byID[row.ID] = o
		ids[i] = row.ID
	}

	items, err := q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, it := range items {
		o := byID[it.OrderID]
		o.Items = append(o.Items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    int(it.Quantity),
			PriceAtSale: it.PriceAtSale,
		})
	}
	return out, nil
}
