package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/auth"
	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	"github.com/ghuser/possystem/pkg/telemetry"
	pkgvalidator "github.com/ghuser/possystem/pkg/validator"
	appsvcs "github.com/ghuser/possystem/services/order/application/services"
	"github.com/ghuser/possystem/services/order/domain/models"
)

// OrderLineRequest is one requested product. The same product may appear on
// several lines.
type OrderLineRequest struct {
	Product  string `json:"product"  validate:"required,uuid"       example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=100000" example:"2"`
} // @name OrderLineRequest

// PlaceOrderRequest is the request body for POST /orders.
type PlaceOrderRequest struct {
	Items         []OrderLineRequest `json:"items"         validate:"required,min=1,dive"`
	Type          string             `json:"type"          validate:"omitempty,oneof=IN_STORE PICKUP SHIPPING" example:"IN_STORE"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,max=32"                         example:"Credit Card"`
} // @name PlaceOrderRequest

type OrderItemResponse struct {
	Product     uuid.UUID       `json:"product"`
	ProductName string          `json:"productName" example:"Small Pizza"`
	Quantity    int             `json:"quantity"    example:"2"`
	PriceAtSale decimal.Decimal `json:"priceAtSale" swaggertype:"number" example:"12.5"`
	Subtotal    decimal.Decimal `json:"subtotal"    swaggertype:"number" example:"25"`
} // @name OrderItemResponse

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"   swaggertype:"number" example:"25"`
	ProcessedBy   uuid.UUID           `json:"processedBy"`
	Type          string              `json:"type"          example:"IN_STORE"`
	Status        string              `json:"status"        example:"Completed"`
	PaymentMethod string              `json:"paymentMethod" example:"Credit Card"`
	CreatedAt     time.Time           `json:"createdAt"`
} // @name OrderResponse

type OrderPageResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"  example:"42"`
	Limit  int             `json:"limit"  example:"20"`
	Offset int             `json:"offset" example:"0"`
} // @name OrderPageResponse

// ErrorResponse is returned on all error responses. For stock failures
// details names the material with its required and available amounts.
type ErrorResponse struct {
	Error   string `json:"error" example:"insufficient stock for Flour: required 120, available 100"`
	Kind    string `json:"kind"  example:"insufficient_stock"`
	Details any    `json:"details,omitempty"`
} // @name ErrorResponse

// OrderHandler serves /orders.
type OrderHandler struct {
	svc *appsvcs.Services
}

func NewOrderHandler(svc *appsvcs.Services) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Place validates, reserves stock for and records an order. Either every
// material is decremented and the order is stored, or nothing changes.
//
//	@Summary		Place order
//	@Description	Checks aggregate stock for all lines, reserves it and records the order
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PlaceOrderRequest	true	"Order"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/orders [post]
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	operator, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONErrorKind(w, http.StatusUnauthorized, errhttp.KindUnauthorized, "authentication required", nil)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[PlaceOrderRequest](w, r)
	if !ok {
		return
	}

	cmd := models.PlaceOrderCommand{
		OperatorID:    operator,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]models.PlaceOrderLine, len(req.Items)),
	}
	for i, l := range req.Items {
		cmd.Items[i] = models.PlaceOrderLine{ProductID: uuid.MustParse(l.Product), Quantity: l.Quantity}
	}

	order, err := h.svc.Placement.PlaceOrder(r.Context(), cmd)
	if err != nil {
		if errhttp.Status(err) >= http.StatusInternalServerError {
			telemetry.CaptureError(r.Context(), err)
		}
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOrder(order))
}

// List returns orders newest first.
//
//	@Summary	List orders
//	@Tags		orders
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (default 20, max 100)"
//	@Param		offset	query		int	false	"Offset"
//	@Success	200		{object}	OrderPageResponse
//	@Router		/orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Order.List(r.Context(), httpx.IntQuery(r, "limit", 0), httpx.IntQuery(r, "offset", 0))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := OrderPageResponse{
		Orders: make([]OrderResponse, len(page.Orders)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i, o := range page.Orders {
		out.Orders[i] = toOrder(o)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get returns one order.
//
//	@Summary	Get order
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"Order id"
//	@Success	200	{object}	OrderResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	o, err := h.svc.Order.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrder(o))
}

func toOrder(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			Product:     it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			PriceAtSale: it.PriceAtSale,
			Subtotal:    it.Subtotal(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		Items:         items,
		TotalAmount:   o.TotalAmount,
		ProcessedBy:   o.ProcessedBy,
		Type:          string(o.Type),
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}
