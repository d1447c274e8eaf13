package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsvcs "github.com/ghuser/possystem/services/catalog/application/services"
	"github.com/ghuser/possystem/services/catalog/domain/models"
)

// RecipeLineRequest is one submitted recipe line. Lines with an empty
// rawMaterial or a non-positive quantity are ignored.
type RecipeLineRequest struct {
	RawMaterial string          `json:"rawMaterial" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity    decimal.Decimal `json:"quantity"    swaggertype:"number" example:"200"`
} // @name RecipeLineRequest

type RecipeLineResponse struct {
	RawMaterial uuid.UUID       `json:"rawMaterial"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"number"`
} // @name RecipeLineResponse

// ProductResponse is a product with availability from live stock.
type ProductResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"         example:"Small Pizza"`
	Price        decimal.Decimal      `json:"price"        swaggertype:"number" example:"12.5"`
	Category     string               `json:"category"     example:"Pizza"`
	Image        string               `json:"image,omitempty"`
	Recipe       []RecipeLineResponse `json:"recipe"`
	IsActive     bool                 `json:"isActive"`
	Availability *int64               `json:"availability,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
} // @name ProductResponse

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"     example:"Pizza"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
} // @name CategoryResponse

// DeactivateResponse reports how many products were taken off sale.
type DeactivateResponse struct {
	Deactivated int64 `json:"deactivated" example:"3"`
} // @name DeactivateResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error   string `json:"error" example:"product not found"`
	Kind    string `json:"kind"  example:"not_found"`
	Details any    `json:"details,omitempty"`
} // @name ErrorResponse

func toProduct(p *models.Product) ProductResponse {
	recipe := make([]RecipeLineResponse, len(p.Recipe))
	for i, item := range p.Recipe {
		recipe[i] = RecipeLineResponse{RawMaterial: item.MaterialID, Quantity: item.Quantity}
	}
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.ImageURL,
		Recipe:    recipe,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductView(v *appsvcs.ProductView) ProductResponse {
	out := toProduct(v.Product)
	availability := v.Availability
	out.Availability = &availability
	return out
}

func toRecipeLines(in []RecipeLineRequest) []appsvcs.RecipeLine {
	out := make([]appsvcs.RecipeLine, len(in))
	for i, l := range in {
		out[i] = appsvcs.RecipeLine{MaterialID: l.RawMaterial, Quantity: l.Quantity}
	}
	return out
}

func toCategory(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
