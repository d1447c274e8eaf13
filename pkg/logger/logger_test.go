package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ghuser/possystem/pkg/config"
)

func newTestLogger(buf *bytes.Buffer) Logger {
	return NewWithWriter(&config.Config{LogLevel: "debug", ServiceName: "pos-test", Environment: "testing"}, buf)
}

func setupTracer(t *testing.T) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
}

// lastEntry decodes the last JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &m), "log line: %s", lines[len(lines)-1])
	return m
}

func TestTraceIDs(t *testing.T) {
	setupTracer(t)
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	log.InfoContext(context.Background(), "no span")
	entry := lastEntry(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.Equal(t, "pos-test", entry["service"])
	assert.Equal(t, "testing", entry["env"])

	ctx, parent := otel.Tracer("test").Start(context.Background(), "place-order")
	log.InfoContext(ctx, "parent")
	parentEntry := lastEntry(t, &buf)

	ctx, child := otel.Tracer("test").Start(ctx, "reserve-stock")
	log.ErrorContext(ctx, "reserve failed", "error", errors.New("boom"), "material_id", "m-1")
	childEntry := lastEntry(t, &buf)
	child.End()
	parent.End()

	assert.Equal(t, parentEntry["trace_id"], childEntry["trace_id"])
	assert.NotEqual(t, parentEntry["span_id"], childEntry["span_id"])
	assert.Equal(t, "boom", childEntry["error"])
	assert.Equal(t, "m-1", childEntry["material_id"])
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	ctx := WithAttrs(context.Background(), "operator_id", "u-1")
	ctx = WithAttrs(ctx, "order_attempt", "a-9")
	log.WarnContext(ctx, "stock low")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "u-1", entry["operator_id"])
	assert.Equal(t, "a-9", entry["order_attempt"])

	log.InfoContext(context.Background(), "plain")
	assert.NotContains(t, lastEntry(t, &buf), "operator_id")
}

func TestWith_KeepsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf).With("component", "placement")

	log.InfoContext(WithAttrs(context.Background(), "operator_id", "u-2"), "placed")
	entry := lastEntry(t, &buf)
	assert.Equal(t, "placement", entry["component"])
	assert.Equal(t, "u-2", entry["operator_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{LogLevel: "warn"}, &buf)
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{LogFormat: "text"}, &buf)
	log.Info("order placed", "order_id", "o-1")
	assert.Contains(t, buf.String(), `msg="order placed" order_id=o-1`)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.ErrorContext(context.Background(), "dropped")
	require.NotNil(t, log.ToSlog())
	assert.False(t, log.ToSlog().Enabled(context.Background(), slog.LevelError))
}
