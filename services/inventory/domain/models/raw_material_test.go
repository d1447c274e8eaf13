package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewRawMaterial(t *testing.T) {
	t.Run("valid material gets id and trimmed name", func(t *testing.T) {
		m, err := NewRawMaterial("  Flour ", UnitGram, decimal.NewFromInt(100), decimal.NewFromInt(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID == uuid.Nil {
			t.Fatal("expected non-zero id")
		}
		if m.Name != "Flour" {
			t.Fatalf("expected trimmed name, got %q", m.Name)
		}
		if m.CreatedAt.IsZero() || !m.CreatedAt.Equal(m.UpdatedAt) {
			t.Fatal("expected CreatedAt == UpdatedAt on creation")
		}
	})

	tests := []struct {
		name  string
		mName string
		unit  Unit
		stock decimal.Decimal
		alert decimal.Decimal
	}{
		{"empty name", " ", UnitGram, decimal.Zero, decimal.Zero},
		{"long name", strings.Repeat("x", 26), UnitGram, decimal.Zero, decimal.Zero},
		{"bad unit", "Milk", Unit("l"), decimal.Zero, decimal.Zero},
		{"negative stock", "Milk", UnitMilliliter, decimal.NewFromInt(-1), decimal.Zero},
		{"stock too large", "Milk", UnitMilliliter, decimal.NewFromInt(10000000), decimal.Zero},
		{"negative alert", "Milk", UnitMilliliter, decimal.Zero, decimal.NewFromInt(-5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRawMaterial(tt.mName, tt.unit, tt.stock, tt.alert); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		stock, alert int64
		want         bool
	}{
		{5, 10, true},
		{10, 10, true},
		{11, 10, false},
		{0, 0, true},
	}
	for _, tt := range tests {
		m := &RawMaterial{StockQty: decimal.NewFromInt(tt.stock), MinAlertQty: decimal.NewFromInt(tt.alert)}
		if got := m.IsLowStock(); got != tt.want {
			t.Errorf("stock=%d alert=%d: expected %v, got %v", tt.stock, tt.alert, tt.want, got)
		}
	}
}

func TestParseUnit(t *testing.T) {
	for _, s := range []string{"g", "ml", "pcs"} {
		if _, err := ParseUnit(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParseUnit("kg"); err == nil {
		t.Error("expected error for kg")
	}
}
