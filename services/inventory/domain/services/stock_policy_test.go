package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/services/inventory/domain/models"
)

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name    string
		current string
		delta   string
		want    string
		ok      bool
	}{
		{"restock", "10", "5.5", "15.5", true},
		{"consume to zero", "10", "-10", "0", true},
		{"below zero rejected", "10", "-10.001", "10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ApplyDelta(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.delta))
			if ok != tt.ok || !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected (%s, %v), got (%s, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestZeroingWarning(t *testing.T) {
	m := &models.RawMaterial{StockQty: decimal.NewFromInt(4)}
	if !ZeroingWarning(m, decimal.Zero, 2) {
		t.Error("expected warning when zeroing stock used by products")
	}
	if ZeroingWarning(m, decimal.Zero, 0) {
		t.Error("expected no warning without dependents")
	}
	if ZeroingWarning(m, decimal.NewFromInt(1), 2) {
		t.Error("expected no warning for non-zero stock")
	}
	if ZeroingWarning(&models.RawMaterial{StockQty: decimal.Zero}, decimal.Zero, 2) {
		t.Error("expected no warning when stock was already zero")
	}
}
