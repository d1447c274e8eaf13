package handlers

import (
	"net/http"

	"github.com/ghuser/possystem/pkg/errhttp"
	"github.com/ghuser/possystem/pkg/httpx"
	pkgvalidator "github.com/ghuser/possystem/pkg/validator"
	appsvcs "github.com/ghuser/possystem/services/catalog/application/services"
)

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,max=10" example:"Pizza"`
	IsActive *bool  `json:"isActive,omitempty"`
} // @name CreateCategoryRequest

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=10"`
	IsActive *bool   `json:"isActive,omitempty"`
} // @name UpdateCategoryRequest

// CategoryHandler serves /categories.
type CategoryHandler struct {
	svc *appsvcs.Services
}

func NewCategoryHandler(svc *appsvcs.Services) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Create adds a category.
//
//	@Summary	Create category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateCategoryRequest	true	"Category"
//	@Success	201		{object}	CategoryResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateCategoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Category.Create(r.Context(), req.Name, req.IsActive)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategory(c))
}

// List returns categories; ?active=true keeps only active ones.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Param		active	query	bool	false	"Only active categories"
//	@Success	200		{array}	CategoryResponse
//	@Router		/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.Category.List(r.Context(), httpx.BoolQuery(r, "active"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = toCategory(c)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get returns one category.
//
//	@Summary	Get category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category id"
//	@Success	200	{object}	CategoryResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	c, err := h.svc.Category.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategory(c))
}

// Update renames a category or toggles it.
//
//	@Summary	Update category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Category id"
//	@Param		request	body		UpdateCategoryRequest	true	"Fields to change"
//	@Success	200		{object}	CategoryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{id} [patch]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateCategoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Category.Update(r.Context(), id, req.Name, req.IsActive)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategory(c))
}

// Delete removes a category.
//
//	@Summary	Delete category
//	@Tags		categories
//	@Param		id	path	string	true	"Category id"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		errhttp.BadRequest(w, err.Error())
		return
	}
	if err := h.svc.Category.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
