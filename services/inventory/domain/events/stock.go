package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicStockAdjusted is published after an operator adjusts or sets stock.
const TopicStockAdjusted = "inventory.stock_adjusted"

// StockAdjustedEvent is published after a management stock change.
type StockAdjustedEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Version    int             `json:"version"`
	MaterialID uuid.UUID       `json:"material_id"`
	Name       string          `json:"name"`
	Delta      decimal.Decimal `json:"delta"`
	StockQty   decimal.Decimal `json:"stock_qty"`
	LowStock   bool            `json:"low_stock"`
	OccurredAt time.Time       `json:"occurred_at"`
}
