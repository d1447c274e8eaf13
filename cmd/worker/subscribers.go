package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/logger"
	invevents "github.com/ghuser/possystem/services/inventory/domain/events"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	orderevents "github.com/ghuser/possystem/services/order/domain/events"
)

// statsInvalidator drops the cached dashboard stats.
type statsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// materialLookup loads current stock for low-stock checks.
type materialLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*invmodels.RawMaterial, error)
}

// handleOrderPlaced refreshes the dashboard and warns about every consumed
// material that is now at or below its alert level.
func handleOrderPlaced(stats statsInvalidator, materials materialLookup, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[orderevents.OrderPlacedEvent](msg)
		if err != nil {
			return err
		}

		invalidate(ctx, stats, log, "order_id", evt.OrderID)

		ids := make([]uuid.UUID, len(evt.Consumed))
		for i, c := range evt.Consumed {
			ids[i] = c.MaterialID
		}
		current, err := materials.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load consumed materials: %w", err)
		}
		for _, id := range ids {
			m, ok := current[id]
			if !ok || !m.IsLowStock() {
				continue
			}
			log.WarnContext(ctx, "low stock alert",
				"material_id", m.ID,
				"material", m.Name,
				"stock_qty", m.StockQty.String(),
				"min_alert_qty", m.MinAlertQty.String(),
				"order_id", evt.OrderID,
			)
		}
		return nil
	}
}

// handleStockAdjusted refreshes the dashboard after a manual stock change.
func handleStockAdjusted(stats statsInvalidator, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[invevents.StockAdjustedEvent](msg)
		if err != nil {
			return err
		}
		invalidate(ctx, stats, log, "material_id", evt.MaterialID)
		if evt.LowStock {
			log.WarnContext(ctx, "low stock alert",
				"material_id", evt.MaterialID,
				"material", evt.Name,
				"stock_qty", evt.StockQty.String(),
			)
		}
		return nil
	}
}

// invalidate is best-effort: a stale dashboard expires with its TTL.
func invalidate(ctx context.Context, stats statsInvalidator, log logger.Logger, key string, id uuid.UUID) {
	if stats == nil {
		return
	}
	if err := stats.Invalidate(ctx); err != nil {
		log.WarnContext(ctx, "dashboard cache invalidation failed", key, id, "error", err)
	}
}
