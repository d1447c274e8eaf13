package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxPaymentMethodLength = 32

// MaxLineQuantity bounds the quantity of a single order line.
const MaxLineQuantity = 100000

// OrderType is the fulfilment channel of an order.
type OrderType string

const (
	TypeInStore  OrderType = "IN_STORE"
	TypePickup   OrderType = "PICKUP"
	TypeShipping OrderType = "SHIPPING"
)

// OrderTypes lists every order type in display order.
var OrderTypes = []OrderType{TypeInStore, TypePickup, TypeShipping}

// ParseOrderType accepts a known type; the empty string means in-store.
func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return TypeInStore, nil
	case TypeInStore, TypePickup, TypeShipping:
		return t, nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

// Label is the human-readable name, e.g. "IN STORE".
func (t OrderType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusCompleted Status = "Completed"
)

// OrderItem is one order line. ProductName and PriceAtSale are snapshots
// taken when the order was validated.
type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	PriceAtSale decimal.Decimal
}

// Subtotal is PriceAtSale × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is an immutable record of a sale.
type Order struct {
	ID            uuid.UUID
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	ProcessedBy   uuid.UUID
	Type          OrderType
	Status        Status
	PaymentMethod string
	CreatedAt     time.Time
}

// NewOrder builds a completed order and derives its total from the lines.
func NewOrder(id, processedBy uuid.UUID, typ OrderType, paymentMethod string, items []OrderItem) *Order {
	o := &Order{
		ID:            id,
		Items:         items,
		ProcessedBy:   processedBy,
		Type:          typ,
		Status:        StatusCompleted,
		PaymentMethod: strings.TrimSpace(paymentMethod),
		CreatedAt:     time.Now().UTC(),
	}
	o.TotalAmount = o.computeTotal()
	return o
}

func (o *Order) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalMatchesItems reports whether TotalAmount equals the sum of line subtotals.
func (o *Order) TotalMatchesItems() bool {
	return o.TotalAmount.Equal(o.computeTotal())
}

// PlaceOrderLine is one requested (product, quantity) pair.
type PlaceOrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderCommand is a checkout request from an operator.
type PlaceOrderCommand struct {
	OperatorID    uuid.UUID
	Type          string
	PaymentMethod string
	Items         []PlaceOrderLine
}

// Validate checks the command shape and returns the parsed order type.
func (c PlaceOrderCommand) Validate() (OrderType, error) {
	if c.OperatorID == uuid.Nil {
		return "", fmt.Errorf("operator is required")
	}
	typ, err := ParseOrderType(c.Type)
	if err != nil {
		return "", err
	}
	pm := strings.TrimSpace(c.PaymentMethod)
	if pm == "" {
		return "", fmt.Errorf("payment method is required")
	}
	if len(pm) > maxPaymentMethodLength {
		return "", fmt.Errorf("payment method must not exceed %d characters", maxPaymentMethodLength)
	}
	if len(c.Items) == 0 {
		return "", fmt.Errorf("order must contain at least one item")
	}
	for i, line := range c.Items {
		if line.ProductID == uuid.Nil {
			return "", fmt.Errorf("items[%d]: product is required", i)
		}
		if line.Quantity < 1 {
			return "", fmt.Errorf("items[%d]: quantity must be at least 1", i)
		}
		if line.Quantity > MaxLineQuantity {
			return "", fmt.Errorf("items[%d]: quantity must not exceed %d", i, MaxLineQuantity)
		}
	}
	return typ, nil
}
