package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicOrderPlaced is published in the same transaction that stores an order.
const TopicOrderPlaced = "order.placed"

// OrderPlacedEvent carries the order summary and the stock it consumed so
// consumers can refresh dashboards and raise low-stock alerts.
type OrderPlacedEvent struct {
	EventID     uuid.UUID          `json:"event_id"`
	Version     int                `json:"version"`
	OrderID     uuid.UUID          `json:"order_id"`
	ProcessedBy uuid.UUID          `json:"processed_by"`
	Type        string             `json:"type"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Consumed    []MaterialConsumed `json:"consumed"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type MaterialConsumed struct {
	MaterialID uuid.UUID       `json:"material_id"`
	Amount     decimal.Decimal `json:"amount"`
}
