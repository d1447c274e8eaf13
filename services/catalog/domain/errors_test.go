package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestUnknownMaterialsError(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	err := fmt.Errorf("create product: %w", &UnknownMaterialsError{IDs: []uuid.UUID{a, b}})

	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatal("expected errors.Is to match ErrUnknownMaterial")
	}
	var target *UnknownMaterialsError
	if !errors.As(err, &target) || len(target.IDs) != 2 {
		t.Fatalf("expected errors.As to recover both ids, got %v", target)
	}
	want := "raw materials not found: " + a.String() + ", " + b.String()
	if target.Error() != want {
		t.Errorf("unexpected message %q", target.Error())
	}
}

func TestSentinelsDistinct(t *testing.T) {
	sentinels := []error{
		ErrProductNotFound, ErrProductAlreadyExists, ErrInvalidProduct,
		ErrCategoryNotFound, ErrCategoryAlreadyExists, ErrInvalidCategory, ErrUnknownMaterial,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
