package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	pkgvalidator "github.com/ghuser/possystem/pkg/validator"
	appsvcs "github.com/ghuser/possystem/services/catalog/application/services"
)

// CreateProductRequest is the body of POST /products, sent as JSON or as
// multipart/form-data with an "image" file and "recipe" as a JSON string.
type CreateProductRequest struct {
	Name     string              `json:"name"     validate:"required,max=25" example:"Small Pizza"`
	Price    decimal.Decimal     `json:"price"    validate:"gte=0"           swaggertype:"number" example:"12.5"`
	Category string              `json:"category" validate:"required,max=10" example:"Pizza"`
	Recipe   []RecipeLineRequest `json:"recipe"`
	IsActive *bool               `json:"isActive,omitempty"`
} // @name CreateProductRequest

// UpdateProductRequest is a partial update. A present recipe replaces the
// whole recipe.
type UpdateProductRequest struct {
	Name     *string              `json:"name,omitempty"     validate:"omitempty,max=25"`
	Price    *decimal.Decimal     `json:"price,omitempty"    swaggertype:"number"`
	Category *string              `json:"category,omitempty" validate:"omitempty,max=10"`
	Recipe   *[]RecipeLineRequest `json:"recipe,omitempty"`
	IsActive *bool                `json:"isActive,omitempty"`
} // @name UpdateProductRequest

// ProductHandler serves /products.
type ProductHandler struct {
	svc *appsvcs.Services
}

func NewProductHandler(svc *appsvcs.Services) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create adds a product.
//
//	@Summary	Create product
//	@Tags		products
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		request	body		CreateProductRequest	true	"Product"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, closer, err := decodeProduct[CreateProductRequest](r)
	if err != nil {
		httpx.WriteBodyError(w, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	if !pkgvalidator.ValidateStruct(w, req) {
		return
	}
	v, err := h.svc.Product.Create(r.Context(), appsvcs.CreateProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Recipe:   toRecipeLines(req.Recipe),
		IsActive: req.IsActive,
		Image:    image,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProductView(v))
}

// List returns products with availability, optionally filtered by category.
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		category	query	string	false	"Category filter"
//	@Success	200			{array}	ProductResponse
//	@Router		/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Product.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]ProductResponse, len(views))
	for i, v := range views {
		out[i] = toProductView(v)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get returns one product with availability.
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	v, err := h.svc.Product.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductView(v))
}

// Update applies a partial update.
//
//	@Summary	Update product
//	@Tags		products
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		id		path		string					true	"Product id"
//	@Param		request	body		UpdateProductRequest	true	"Fields to change"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/products/{id} [patch]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	req, image, closer, err := decodeProduct[UpdateProductRequest](r)
	if err != nil {
		httpx.WriteBodyError(w, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	if !pkgvalidator.ValidateStruct(w, req) {
		return
	}
	in := appsvcs.UpdateProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		IsActive: req.IsActive,
		Image:    image,
	}
	if req.Recipe != nil {
		lines := toRecipeLines(*req.Recipe)
		in.Recipe = &lines
	}
	v, err := h.svc.Product.Update(r.Context(), id, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductView(v))
}

// Delete removes a product. Past orders keep their captured name and price.
//
//	@Summary	Delete product
//	@Tags		products
//	@Param		id	path	string	true	"Product id"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	if err := h.svc.Product.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByMaterial lists the active products whose recipe uses a material.
//
//	@Summary	Products using a raw material
//	@Tags		products
//	@Produce	json
//	@Param		materialId	path	string	true	"Raw material id"
//	@Success	200			{array}	ProductResponse
//	@Router		/products/by-material/{materialId} [get]
func (h *ProductHandler) ByMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "materialId")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	products, err := h.svc.Product.FindByMaterial(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProduct(p)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// DeactivateByMaterial takes every product using a material off sale.
//
//	@Summary	Deactivate products using a raw material
//	@Tags		products
//	@Produce	json
//	@Param		materialId	path		string	true	"Raw material id"
//	@Success	200			{object}	DeactivateResponse
//	@Router		/products/deactivate-by-material/{materialId} [patch]
func (h *ProductHandler) DeactivateByMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "materialId")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	n, err := h.svc.Product.DeactivateByMaterial(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, DeactivateResponse{Deactivated: n})
}
