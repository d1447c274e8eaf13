package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"product not found", &ProductNotFoundError{ProductID: uuid.New()}, ErrProductNotFound},
		{"product inactive", &ProductInactiveError{Name: "Bread"}, ErrProductInactive},
		{"material not found", &MaterialNotFoundError{MaterialID: uuid.New()}, ErrMaterialNotFound},
		{"insufficient stock", &InsufficientStockError{Name: "Flour", Required: decimal.NewFromInt(20)}, ErrInsufficientStock},
		{"conflict", &ConcurrencyConflictError{Name: "Flour"}, ErrConcurrencyConflict},
		{"wrapped insufficient stock", fmt.Errorf("place order: %w", &InsufficientStockError{Name: "Flour"}), ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Fatalf("expected %v to match %v", tt.err, tt.target)
			}
		})
	}
}

func TestPersistenceFailureError(t *testing.T) {
	cause := errors.New("connection reset")
	restore := errors.New("restore flour: timeout")

	plain := &PersistenceFailureError{AttemptID: uuid.New(), Cause: cause}
	if !errors.Is(plain, ErrPersistenceFailure) || !errors.Is(plain, cause) {
		t.Fatal("expected sentinel and cause to match")
	}
	if errors.Is(plain, restore) {
		t.Fatal("unexpected compensation error match")
	}

	both := &PersistenceFailureError{AttemptID: uuid.New(), Cause: cause, CompensationErr: restore}
	if !errors.Is(both, restore) {
		t.Fatal("expected compensation error to match")
	}
}

func TestConcurrencyConflictAsShortage(t *testing.T) {
	id := uuid.New()
	c := &ConcurrencyConflictError{MaterialID: id, Name: "Flour", Required: decimal.NewFromInt(20), Available: decimal.NewFromInt(5)}
	s := c.AsShortage()
	if !errors.Is(s, ErrInsufficientStock) || errors.Is(s, ErrConcurrencyConflict) {
		t.Fatal("expected a plain shortage")
	}
	if s.MaterialID != id || !s.Available.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected detail: %+v", s)
	}
}
