package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrMaterialNotFound indicates the requested raw material does not exist.
	ErrMaterialNotFound = errors.New("raw material not found")

	// ErrMaterialAlreadyExists indicates a raw material with the same name exists.
	ErrMaterialAlreadyExists = errors.New("raw material already exists")

	// ErrInvalidMaterial indicates the raw material violates domain constraints.
	ErrInvalidMaterial = errors.New("invalid raw material")

	// ErrInsufficientStock indicates a decrement would drive stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMaterialInUse indicates an active product's recipe still references the material.
	ErrMaterialInUse = errors.New("raw material is used by active products")

	// ErrReservationReleased indicates an order decrement arrived after its
	// attempt was already compensated for that material.
	ErrReservationReleased = errors.New("reservation already released")

	// ErrReconciliationNotFound indicates the reconciliation entry does not exist.
	ErrReconciliationNotFound = errors.New("reconciliation not found")
)

// InsufficientStockError names the material that could not cover a decrement.
type InsufficientStockError struct {
	MaterialID uuid.UUID
	Name       string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %s, available %s",
		e.Name, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// MaterialInUseError lists the active products blocking a delete.
type MaterialInUseError struct {
	MaterialID uuid.UUID
	Products   []DependentProduct
}

func (e *MaterialInUseError) Error() string {
	return fmt.Sprintf("raw material %s is used by %d active product(s)", e.MaterialID, len(e.Products))
}

func (e *MaterialInUseError) Unwrap() error { return ErrMaterialInUse }

// DependentProduct is an active product whose recipe uses a material.
type DependentProduct struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
