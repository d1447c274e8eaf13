package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/domain/models"
)

// RawMaterialResponse is the wire form of a raw material.
type RawMaterialResponse struct {
	ID          uuid.UUID       `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string          `json:"name"        example:"Flour"`
	Unit        string          `json:"unit"        example:"g"`
	StockQty    decimal.Decimal `json:"stockQty"    swaggertype:"number" example:"1000"`
	MinAlertQty decimal.Decimal `json:"minAlertQty" swaggertype:"number" example:"200"`
	IsLowStock  bool            `json:"isLowStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
} // @name RawMaterialResponse

// UpdateRawMaterialResponse adds the zero-stock warning to an update.
type UpdateRawMaterialResponse struct {
	RawMaterialResponse
	ZeroStockWarning bool                         `json:"zeroStockWarning"`
	AffectedProducts []invdomain.DependentProduct `json:"affectedProducts,omitempty"`
} // @name UpdateRawMaterialResponse

// StockMovementResponse is one ledger entry.
type StockMovementResponse struct {
	ID        uuid.UUID       `json:"id"`
	Delta     decimal.Decimal `json:"delta"     swaggertype:"number"`
	Reason    string          `json:"reason"    example:"order"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"createdAt"`
} // @name StockMovementResponse

// ReconciliationResponse is one journaled compensation.
type ReconciliationResponse struct {
	ID         uuid.UUID       `json:"id"`
	AttemptID  uuid.UUID       `json:"attemptId"`
	MaterialID uuid.UUID       `json:"materialId"`
	Amount     decimal.Decimal `json:"amount"     swaggertype:"number"`
	Cause      string          `json:"cause"`
	Status     string          `json:"status"     example:"open"`
	CreatedAt  time.Time       `json:"createdAt"`
	ResolvedAt *time.Time      `json:"resolvedAt,omitempty"`
} // @name ReconciliationResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error   string `json:"error" example:"raw material not found"`
	Kind    string `json:"kind"  example:"not_found"`
	Details any    `json:"details,omitempty"`
} // @name ErrorResponse

func toMaterial(m *models.RawMaterial) RawMaterialResponse {
	return RawMaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Unit:        m.Unit.String(),
		StockQty:    m.StockQty,
		MinAlertQty: m.MinAlertQty,
		IsLowStock:  m.IsLowStock(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMaterials(ms []*models.RawMaterial) []RawMaterialResponse {
	out := make([]RawMaterialResponse, len(ms))
	for i, m := range ms {
		out[i] = toMaterial(m)
	}
	return out
}

func toReconciliation(e *models.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ID:         e.ID,
		AttemptID:  e.AttemptID,
		MaterialID: e.MaterialID,
		Amount:     e.Amount,
		Cause:      e.Cause,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		ResolvedAt: e.ResolvedAt,
	}
}
