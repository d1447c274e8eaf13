package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order placement. Use errors.Is() to check these.
var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not active")
	ErrMaterialNotFound  = errors.New("raw material not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConcurrencyConflict indicates a reservation lost a race after the
	// stock check passed. The attempt left no stock change behind.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrPersistenceFailure indicates the order could not be written after
	// stock was reserved.
	ErrPersistenceFailure = errors.New("persistence failure")
)

type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

type ProductInactiveError struct {
	ProductID uuid.UUID
	Name      string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %q is not active", e.Name)
}

func (e *ProductInactiveError) Unwrap() error { return ErrProductInactive }

type MaterialNotFoundError struct {
	MaterialID uuid.UUID
}

func (e *MaterialNotFoundError) Error() string {
	return fmt.Sprintf("raw material not found: %s", e.MaterialID)
}

func (e *MaterialNotFoundError) Unwrap() error { return ErrMaterialNotFound }

// InsufficientStockError names the material whose aggregate requirement
// exceeds its stock. For a product without a recipe, ProductID is set and
// Name is the product name.
type InsufficientStockError struct {
	MaterialID uuid.UUID
	ProductID  uuid.UUID
	Name       string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %s, available %s",
		e.Name, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConcurrencyConflictError reports the material whose conditional decrement
// failed although the preceding stock check passed.
type ConcurrencyConflictError struct {
	MaterialID uuid.UUID
	Name       string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrency conflict on %s: required %s, available %s",
		e.Name, e.Required.String(), e.Available.String())
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConcurrencyConflict }

// AsShortage converts an exhausted conflict into the shortage it amounts to.
func (e *ConcurrencyConflictError) AsShortage() *InsufficientStockError {
	return &InsufficientStockError{
		MaterialID: e.MaterialID,
		Name:       e.Name,
		Required:   e.Required,
		Available:  e.Available,
	}
}

// PersistenceFailureError reports a failed commit. CompensationErr is set
// when the reserved stock could not be fully restored; the attempt is then
// pending reconciliation.
type PersistenceFailureError struct {
	AttemptID       uuid.UUID
	Cause           error
	CompensationErr error
}

func (e *PersistenceFailureError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("persistence failure for attempt %s: %v; stock restore failed: %v",
			e.AttemptID, e.Cause, e.CompensationErr)
	}
	return fmt.Sprintf("persistence failure for attempt %s: %v", e.AttemptID, e.Cause)
}

func (e *PersistenceFailureError) Unwrap() []error {
	errs := []error{ErrPersistenceFailure, e.Cause}
	if e.CompensationErr != nil {
		errs = append(errs, e.CompensationErr)
	}
	return errs
}
