package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ghuser/possystem/pkg/httpx"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSON(rr, http.StatusCreated, map[string]any{"id": "o-1", "total": 12.5})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"id":"o-1","total":12.5}`, rr.Body.String())
}

func TestJSONErrorKind(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		kind    string
		msg     string
		details any
		want    string
	}{
		{
			name:   "without details",
			status: http.StatusNotFound,
			kind:   "not_found",
			msg:    "product not found",
			want:   `{"error":"product not found","kind":"not_found"}`,
		},
		{
			name:    "with details",
			status:  http.StatusConflict,
			kind:    "insufficient_stock",
			msg:     "insufficient stock for Flour",
			details: map[string]any{"name": "Flour", "available": decimal.NewFromInt(100)},
			want:    `{"error":"insufficient stock for Flour","kind":"insufficient_stock","details":{"name":"Flour","available":"100"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httpx.JSONErrorKind(rr, tt.status, tt.kind, tt.msg, tt.details)
			assert.Equal(t, tt.status, rr.Code)
			assert.JSONEq(t, tt.want, rr.Body.String())
		})
	}
}
