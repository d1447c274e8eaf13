package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stats is the dashboard read model.
type Stats struct {
	Summary           Summary            `json:"summary"`
	LowStockMaterials []LowStockMaterial `json:"lowStockMaterials"`
	TopProducts       []TopProduct       `json:"topProducts"`
	SalesHistory      []DailySales       `json:"salesHistory"`
	OrderTypes        []OrderTypeCount   `json:"pieData"`
	RecentOrders      []RecentOrder      `json:"recentOrders"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

type Summary struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalOrders   int64           `json:"totalOrders"`
	LowStockCount int64           `json:"lowStockCount"`
}

type LowStockMaterial struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	StockQty    decimal.Decimal `json:"stockQty"`
	MinAlertQty decimal.Decimal `json:"minAlertQty"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image,omitempty"`
	TotalQty  int64     `json:"totalQty"`
}

// DailySales is the revenue of one UTC day. Label is formatted "Jan 02".
type DailySales struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Sales decimal.Decimal `json:"sales"`
}

// OrderTypeCount is a pie slice. Name is the display label, e.g. "IN STORE".
type OrderTypeCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type RecentOrder struct {
	ID              uuid.UUID       `json:"id"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	ProcessedByName string          `json:"processedBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}
