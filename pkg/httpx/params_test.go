package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/httpx"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUUIDParam(t *testing.T) {
	id := uuid.New()
	r := withParam(httptest.NewRequest(http.MethodGet, "/", http.NoBody), "id", id.String())
	got, err := httpx.UUIDParam(r, "id")
	if err != nil || got != id {
		t.Fatalf("got %v, %v", got, err)
	}

	r = withParam(httptest.NewRequest(http.MethodGet, "/", http.NoBody), "id", "nope")
	if _, err := httpx.UUIDParam(r, "id"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=x&active=true&off=0", http.NoBody)
	if got := httpx.IntQuery(r, "limit", 10); got != 25 {
		t.Errorf("limit: got %d", got)
	}
	if got := httpx.IntQuery(r, "bad", 10); got != 10 {
		t.Errorf("bad: got %d", got)
	}
	if got := httpx.IntQuery(r, "missing", 7); got != 7 {
		t.Errorf("missing: got %d", got)
	}
	if !httpx.BoolQuery(r, "active") || httpx.BoolQuery(r, "off") {
		t.Error("bool query mismatch")
	}
}
