package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrInvalidProduct       = errors.New("invalid product")

	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrInvalidCategory       = errors.New("invalid category")

	// ErrUnknownMaterial indicates a recipe references raw materials that do not exist.
	ErrUnknownMaterial = errors.New("raw materials not found")
)

// UnknownMaterialsError lists the recipe material ids that did not resolve.
type UnknownMaterialsError struct {
	IDs []uuid.UUID
}

func (e *UnknownMaterialsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("raw materials not found: %s", strings.Join(ids, ", "))
}

func (e *UnknownMaterialsError) Unwrap() error { return ErrUnknownMaterial }
