package httpx

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/ghuser/possystem/pkg/config"
)

// Middleware is the chi middleware shape.
type Middleware = func(http.Handler) http.Handler

// RouterOptions configures NewRouter. Nil middlewares are skipped.
type RouterOptions struct {
	Development bool
	// CORSAllowedOrigins is comma separated; "*" allows any origin without credentials.
	CORSAllowedOrigins string
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit      int
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	Recovery Middleware
	Sentry   Middleware
	Tracing  Middleware
	Logging  Middleware
}

// RouterOptionsFromConfig fills the settings part of RouterOptions.
func RouterOptionsFromConfig(cfg *config.Config) RouterOptions {
	return RouterOptions{
		Development:        cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          cfg.HTTPRateLimit,
		RequestTimeout:     cfg.HTTPRequestTimeout,
		MaxBodyBytes:       cfg.HTTPMaxBodyBytes,
	}
}

// NewRouter returns a chi.Mux with the standard stack, outermost first:
// recovery, sentry, request id, tracing, request log, real ip, rate limit,
// CORS, body limit, timeout and security headers.
func NewRouter(opts RouterOptions) *chi.Mux {
	stack := []Middleware{
		opts.Recovery,
		opts.Sentry,
		middleware.RequestID,
		opts.Tracing,
		opts.Logging,
		middleware.RealIP,
	}
	if opts.RateLimit > 0 {
		stack = append(stack, httprate.Limit(
			opts.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))
	}
	stack = append(stack, CORSMiddleware(opts.CORSAllowedOrigins))
	if opts.MaxBodyBytes > 0 {
		stack = append(stack, RequestBodyLimit(opts.MaxBodyBytes))
	}
	if opts.RequestTimeout > 0 {
		stack = append(stack, middleware.Timeout(opts.RequestTimeout))
	}
	stack = append(stack, securityHeaders(opts.Development).Handler)

	r := chi.NewRouter()
	for _, mw := range stack {
		if mw != nil {
			r.Use(mw)
		}
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		JSONErrorKind(w, http.StatusNotFound, "not_found", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		JSONErrorKind(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})
	return r
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	JSONErrorKind(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
}

// The swagger UI needs inline scripts and styles; everything else is same-origin only.
func securityHeaders(development bool) *secure.Secure {
	return secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=()",
		IsDevelopment:         development,
	})
}

// CORSMiddleware allows the listed origins. Credentials (the session cookie)
// are only allowed when the list has no wildcard.
func CORSMiddleware(allowedOrigins string) Middleware {
	origins := parseOrigins(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps request bodies. Reads past the limit fail with
// *http.MaxBytesError, which DecodeJSON reports as 413.
func RequestBodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer wraps handler in an *http.Server. The write timeout leaves room
// past the handler timeout so timed-out requests still get their 504.
func NewServer(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
