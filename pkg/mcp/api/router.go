package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/api/handlers"
	"github.com/marmos91/shortcut-mcp/pkg/metrics"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//
// The request timeout applies to POST and DELETE only. GET opens the SSE
// event stream, which stays up for the lifetime of the session and must
// not be cut by a per-request deadline.
//
// Routes:
//   - GET /health - Liveness probe
//   - POST /mcp - JSON-RPC requests (bootstrap or session continuation)
//   - GET /mcp - SSE event stream open or resume
//   - DELETE /mcp - Explicit session termination
func NewRouter(mcp *handlers.MCPHandler, health *handlers.HealthHandler, cfg Config, httpMetrics *metrics.HTTPMetrics) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(httpMetrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", health.Liveness)

	r.Route("/mcp", func(r chi.Router) {
		r.With(middleware.Timeout(cfg.RequestTimeout), bodyLimit(cfg.MaxBodySize)).
			Post("/", mcp.ServeHTTP)
		r.With(middleware.Timeout(cfg.RequestTimeout)).
			Delete("/", mcp.ServeHTTP)
		r.Get("/", mcp.ServeHTTP)
	})

	return r
}

// bodyLimit caps the request body at maxBytes. Oversized bodies surface as
// read errors inside the handler, which reports them as malformed requests.
// A zero limit disables the cap.
func bodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger is a custom middleware that logs requests using the internal
// logger and records them in the HTTP metrics.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck requests are logged at DEBUG level to reduce noise
//
// For GET the recorded duration spans the whole event stream, since the
// request only completes when the stream ends.
func requestLogger(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			logger.Debug("request started",
				logger.RequestID(requestID),
				logger.Verb(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			httpMetrics.Record(r.Method, ww.Status(), duration.Seconds())

			logArgs := []any{
				logger.RequestID(requestID),
				logger.Verb(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(ww.Status()),
				logger.Bytes(ww.BytesWritten()),
				"duration", duration.String(),
			}

			// Log healthcheck requests at DEBUG to avoid polluting logs
			if r.URL.Path == "/health" {
				logger.Debug("request completed", logArgs...)
			} else {
				logger.Info("request completed", logArgs...)
			}
		})
	}
}
