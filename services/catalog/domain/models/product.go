package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength = 25
	maxCategoryLength    = 10
)

var (
	// MaxPrice bounds product prices.
	MaxPrice = decimal.NewFromInt(9999999999)
	// MinRecipeQuantity and MaxRecipeQuantity bound one recipe line.
	MinRecipeQuantity = decimal.RequireFromString("0.01")
	MaxRecipeQuantity = decimal.NewFromInt(9999)
)

// RecipeItem is one bill-of-materials line: how much of a raw material one
// unit of the product consumes.
type RecipeItem struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
}

// Product is a sellable item. It owns its recipe; availability is derived
// from live stock and never stored.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	Category  string
	ImageURL  string
	Recipe    []RecipeItem
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct returns a validated product with a generated id.
func NewProduct(name string, price decimal.Decimal, category, imageURL string, recipe []RecipeItem, active bool) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Price:     price,
		Category:  strings.TrimSpace(category),
		ImageURL:  imageURL,
		Recipe:    recipe,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > maxProductNameLength {
		return fmt.Errorf("name must not exceed %d characters", maxProductNameLength)
	}
	if p.Price.IsNegative() || p.Price.GreaterThan(MaxPrice) {
		return fmt.Errorf("price must be between 0 and %s", MaxPrice)
	}
	if p.Category == "" {
		return fmt.Errorf("category is required")
	}
	if len(p.Category) > maxCategoryLength {
		return fmt.Errorf("category must not exceed %d characters", maxCategoryLength)
	}
	for i, item := range p.Recipe {
		if item.MaterialID == uuid.Nil {
			return fmt.Errorf("recipe[%d]: raw material is required", i)
		}
		if item.Quantity.LessThan(MinRecipeQuantity) || item.Quantity.GreaterThan(MaxRecipeQuantity) {
			return fmt.Errorf("recipe[%d]: quantity must be between %s and %s", i, MinRecipeQuantity, MaxRecipeQuantity)
		}
	}
	return nil
}

// MaterialIDs returns the distinct materials of the recipe in line order.
func (p *Product) MaterialIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.Recipe))
	ids := make([]uuid.UUID, 0, len(p.Recipe))
	for _, item := range p.Recipe {
		if _, ok := seen[item.MaterialID]; ok {
			continue
		}
		seen[item.MaterialID] = struct{}{}
		ids = append(ids, item.MaterialID)
	}
	return ids
}

// Uses reports whether the recipe references materialID.
func (p *Product) Uses(materialID uuid.UUID) bool {
	for _, item := range p.Recipe {
		if item.MaterialID == materialID {
			return true
		}
	}
	return false
}
