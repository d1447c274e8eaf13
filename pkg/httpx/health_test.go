package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/httpx"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func serveHealth(t *testing.T, checks ...httpx.HealthCheck) (*httptest.ResponseRecorder, httpx.HealthReport) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var report httpx.HealthReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	return rr, report
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     []httpx.HealthCheck
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "all up",
			checks:     []httpx.HealthCheck{{"database", up}, {"redis", up}, {"event_bus", up}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"database": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name:       "database down",
			checks:     []httpx.HealthCheck{{"database", down}, {"redis", up}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantChecks: map[string]string{"database": "unreachable", "redis": "ok"},
		},
		{
			name:       "object storage disabled",
			checks:     []httpx.HealthCheck{{"database", up}, {"object_storage", nil}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"database": "ok", "object_storage": "disabled"},
		},
		{
			name:       "object storage down",
			checks:     []httpx.HealthCheck{{"database", up}, {"object_storage", down}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantChecks: map[string]string{"database": "ok", "object_storage": "unreachable"},
		},
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, report := serveHealth(t, tt.checks...)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantChecks, report.Checks)
			assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		})
	}
}

func TestProbe_HungDependencyTimesOut(t *testing.T) {
	hung := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	report := httpx.Probe(ctx, []httpx.HealthCheck{{"redis", hung}, {"database", up}})
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "unreachable", report.Checks["redis"])
	assert.Equal(t, "ok", report.Checks["database"])
}
