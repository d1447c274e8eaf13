package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RequestRecord(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/api/orders", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders", http.NoBody))

	entry := lastEntry(t, &buf)
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/orders", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, 12, entry["bytes"])
	assert.Contains(t, entry, "request_id")
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/orders", http.StatusCreated, "INFO"},
		{"/api/orders", http.StatusConflict, "WARN"},
		{"/api/orders", http.StatusInternalServerError, "ERROR"},
		{"/health", http.StatusOK, "DEBUG"},
		{"/health", http.StatusServiceUnavailable, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, tt.path, http.NoBody))
			assert.Equal(t, tt.want, lastEntry(t, &buf)["level"])
		})
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil recipe")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", http.NoBody))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error","kind":"internal"}`, rr.Body.String())
	entry := lastEntry(t, &buf)
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "nil recipe", entry["panic"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	h := Recovery(Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	})
}
