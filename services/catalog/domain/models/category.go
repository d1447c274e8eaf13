package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is a product grouping label shown on the POS screen.
type Category struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(name string, active bool) (*Category, error) {
	now := time.Now().UTC()
	c := &Category{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Name) > maxCategoryLength {
		return fmt.Errorf("name must not exceed %d characters", maxCategoryLength)
	}
	return nil
}
