package httpx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/httpx"
)

func TestRouterOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Environment:        config.EnvProduction,
		CORSAllowedOrigins: "https://pos.example.com",
		HTTPRateLimit:      50,
		HTTPRequestTimeout: 5 * time.Second,
		HTTPMaxBodyBytes:   1024,
	}
	opts := httpx.RouterOptionsFromConfig(cfg)
	assert.False(t, opts.Development)
	assert.Equal(t, "https://pos.example.com", opts.CORSAllowedOrigins)
	assert.Equal(t, 50, opts.RateLimit)
	assert.Equal(t, 5*time.Second, opts.RequestTimeout)
	assert.EqualValues(t, 1024, opts.MaxBodyBytes)
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	r := httpx.NewRouter(httpx.RouterOptions{CORSAllowedOrigins: "*"})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestNewRouter_NotFoundIsJSON(t *testing.T) {
	r := httpx.NewRouter(httpx.RouterOptions{})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"route not found","kind":"not_found"}`, rr.Body.String())
}

func TestNewRouter_RateLimit(t *testing.T) {
	r := httpx.NewRouter(httpx.RouterOptions{RateLimit: 2})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.RemoteAddr = "10.0.0.7:4242"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestNewRouter_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	r := httpx.NewRouter(httpx.RouterOptions{
		Recovery: mark("recovery"),
		Tracing:  mark("tracing"),
		Logging:  mark("logging"),
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	assert.Equal(t, []string{"recovery", "tracing", "logging"}, order)
}

func TestCORS_CredentialsOnlyWithExplicitOrigins(t *testing.T) {
	tests := []struct {
		origins   string
		wantCreds string
	}{
		{"https://pos.example.com, https://admin.example.com", "true"},
		{"*", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.origins, func(t *testing.T) {
			h := httpx.CORSMiddleware(tt.origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/api/products", http.NoBody)
			req.Header.Set("Origin", "https://pos.example.com")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, rr.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"within limit", `{"name":"Flour"}`, http.StatusOK},
		{"over limit", `{"name":"` + strings.Repeat("x", 64) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.RequestBodyLimit(32)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var v map[string]string
				if err := httpx.DecodeJSON(r, &v); err != nil {
					httpx.WriteBodyError(w, err)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	var v map[string]any
	err := httpx.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad")), &v)
	require.ErrorIs(t, err, httpx.ErrInvalidBody)

	err = httpx.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", http.NoBody), &v)
	require.ErrorIs(t, err, httpx.ErrInvalidBody)
	assert.Contains(t, err.Error(), "empty body")

	assert.Equal(t, err, httpx.BodyError(err))
	assert.ErrorIs(t, httpx.BodyError(io.ErrUnexpectedEOF), httpx.ErrInvalidBody)
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := httpx.NewServer(":0", http.NotFoundHandler(), 10*time.Second)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Positive(t, srv.ReadHeaderTimeout)

	srv = httpx.NewServer(":0", http.NotFoundHandler(), 0)
	assert.Equal(t, 35*time.Second, srv.WriteTimeout)
}
