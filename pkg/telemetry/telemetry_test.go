package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/possystem/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
		OtelEndpoint:   "", // disabled
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesPrometheusFormat(t *testing.T) {
	_, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traceparent among propagator fields, got %v", fields)
	}
}

func TestSampler(t *testing.T) {
	if got := sampler(1).Description(); !strings.Contains(got, "AlwaysOnSampler") {
		t.Errorf("ratio 1: got %q", got)
	}
	if got := sampler(0.25).Description(); !strings.Contains(got, "TraceIDRatioBased{0.25}") {
		t.Errorf("ratio 0.25: got %q", got)
	}
	if got := sampler(-1).Description(); !strings.Contains(got, "TraceIDRatioBased{0}") {
		t.Errorf("negative ratio: got %q", got)
	}
}

func TestSetup_MetricsExposeApplicationCounters(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	c, err := otel.Meter("test").Int64Counter("pos_test_events_total")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	c.Add(context.Background(), 2)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))
	if !strings.Contains(rr.Body.String(), "pos_test_events_total") {
		t.Fatalf("counter missing from scrape:\n%s", rr.Body.String())
	}
}

func TestScrub_DropsCredentials(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		Headers: map[string]string{"Authorization": "Bearer abc", "Cookie": "pos_session=x", "Accept": "application/json"},
		Cookies: "pos_session=x",
	}}
	got := scrub(event)
	if _, ok := got.Request.Headers["Authorization"]; ok {
		t.Error("authorization header kept")
	}
	if _, ok := got.Request.Headers["Cookie"]; ok {
		t.Error("cookie header kept")
	}
	if got.Request.Headers["Accept"] != "application/json" || got.Request.Cookies != "" {
		t.Errorf("unexpected request after scrub: %+v", got.Request)
	}
	if scrub(&sentry.Event{}) == nil {
		t.Error("events without a request must pass through")
	}
}

func TestCaptureError_WithoutClient(t *testing.T) {
	CaptureError(context.Background(), errors.New("boom"))
}

func TestSetupSentry_EmptyDSNIsNoop(t *testing.T) {
	if err := SetupSentry(baseConfig()); err != nil {
		t.Fatalf("expected nil for empty DSN, got %v", err)
	}
}
