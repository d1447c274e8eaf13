package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	pkgvalidator "github.com/ghuser/possystem/pkg/validator"
	appsvcs "github.com/ghuser/possystem/services/inventory/application/services"
)

// CreateRawMaterialRequest is the request body for POST /raw-materials.
type CreateRawMaterialRequest struct {
	Name        string          `json:"name"        validate:"required,max=25"     example:"Flour"`
	Unit        string          `json:"unit"        validate:"required,oneof=g ml pcs" example:"g"`
	StockQty    decimal.Decimal `json:"stockQty"    validate:"gte=0"               swaggertype:"number" example:"1000"`
	MinAlertQty decimal.Decimal `json:"minAlertQty" validate:"gte=0"               swaggertype:"number" example:"200"`
} // @name CreateRawMaterialRequest

// UpdateRawMaterialRequest is a partial update; omitted fields are unchanged.
type UpdateRawMaterialRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,max=25"`
	Unit        *string          `json:"unit,omitempty"        validate:"omitempty,oneof=g ml pcs"`
	StockQty    *decimal.Decimal `json:"stockQty,omitempty"    swaggertype:"number"`
	MinAlertQty *decimal.Decimal `json:"minAlertQty,omitempty" swaggertype:"number"`
} // @name UpdateRawMaterialRequest

// AdjustStockRequest is a relative stock change. Negative deltas fail with
// 409 when stock would go below zero.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" swaggertype:"number" example:"-250"`
} // @name AdjustStockRequest

// RawMaterialHandler serves /raw-materials.
type RawMaterialHandler struct {
	svc *appsvcs.Services
}

func NewRawMaterialHandler(svc *appsvcs.Services) *RawMaterialHandler {
	return &RawMaterialHandler{svc: svc}
}

// Create adds a raw material.
//
//	@Summary	Create raw material
//	@Tags		raw-materials
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRawMaterialRequest	true	"Raw material"
//	@Success	201		{object}	RawMaterialResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/raw-materials [post]
func (h *RawMaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateRawMaterialRequest](w, r)
	if !ok {
		return
	}
	m, err := h.svc.Material.Create(r.Context(), appsvcs.CreateMaterialInput{
		Name:        req.Name,
		Unit:        req.Unit,
		StockQty:    req.StockQty,
		MinAlertQty: req.MinAlertQty,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toMaterial(m))
}

// List returns all raw materials sorted by name.
//
//	@Summary	List raw materials
//	@Tags		raw-materials
//	@Produce	json
//	@Success	200	{array}	RawMaterialResponse
//	@Router		/raw-materials [get]
func (h *RawMaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	ms, err := h.svc.Material.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMaterials(ms))
}

// LowStock returns materials at or below their alert level.
//
//	@Summary	List low-stock raw materials
//	@Tags		raw-materials
//	@Produce	json
//	@Success	200	{array}	RawMaterialResponse
//	@Router		/raw-materials/low-stock [get]
func (h *RawMaterialHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ms, err := h.svc.Material.LowStock(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMaterials(ms))
}

// Get returns one raw material.
//
//	@Summary	Get raw material
//	@Tags		raw-materials
//	@Produce	json
//	@Param		id	path		string	true	"Raw material id"
//	@Success	200	{object}	RawMaterialResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/raw-materials/{id} [get]
func (h *RawMaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	m, err := h.svc.Material.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMaterial(m))
}

// Update applies a partial update. stockQty is absolute.
//
//	@Summary	Update raw material
//	@Tags		raw-materials
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Raw material id"
//	@Param		request	body		UpdateRawMaterialRequest	true	"Fields to change"
//	@Success	200		{object}	UpdateRawMaterialResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/raw-materials/{id} [patch]
func (h *RawMaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateRawMaterialRequest](w, r)
	if !ok {
		return
	}
	res, err := h.svc.Material.Update(r.Context(), id, appsvcs.UpdateMaterialInput{
		Name:        req.Name,
		Unit:        req.Unit,
		StockQty:    req.StockQty,
		MinAlertQty: req.MinAlertQty,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, UpdateRawMaterialResponse{
		RawMaterialResponse: toMaterial(res.Material),
		ZeroStockWarning:    res.ZeroStockWarning,
		AffectedProducts:    res.AffectedProducts,
	})
}

// AdjustStock applies a relative delta to stock.
//
//	@Summary	Adjust stock
//	@Tags		raw-materials
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Raw material id"
//	@Param		request	body		AdjustStockRequest	true	"Delta"
//	@Success	200		{object}	RawMaterialResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/raw-materials/{id}/stock [patch]
func (h *RawMaterialHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AdjustStockRequest](w, r)
	if !ok {
		return
	}
	m, err := h.svc.Material.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMaterial(m))
}

// Delete removes a raw material not used by any active product.
//
//	@Summary	Delete raw material
//	@Tags		raw-materials
//	@Param		id	path	string	true	"Raw material id"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/raw-materials/{id} [delete]
func (h *RawMaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	if err := h.svc.Material.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Movements returns the latest ledger entries of a material.
//
//	@Summary	List stock movements
//	@Tags		raw-materials
//	@Produce	json
//	@Param		id		path	string	true	"Raw material id"
//	@Param		limit	query	int		false	"Max entries (default 50)"
//	@Success	200		{array}	StockMovementResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/raw-materials/{id}/movements [get]
func (h *RawMaterialHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	mvs, err := h.svc.Material.Movements(r.Context(), id, httpx.IntQuery(r, "limit", 0))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]StockMovementResponse, len(mvs))
	for i, mv := range mvs {
		out[i] = StockMovementResponse{
			ID:        mv.ID,
			Delta:     mv.Delta,
			Reason:    string(mv.Reason),
			Reference: mv.Reference,
			CreatedAt: mv.CreatedAt,
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}
