// Package api provides the HTTP server fronting the MCP session layer.
//
// The server owns the listener, the chi router, and the request dispatcher.
// Session state, transports, and tool execution live in the packages it
// composes; this package only wires them together behind /mcp.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/api/handlers"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/session"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/transport"
	"github.com/marmos91/shortcut-mcp/pkg/metrics"
)

// Server provides the MCP streamable HTTP endpoint.
//
// Endpoints:
//   - GET /health: Liveness probe
//   - POST /mcp: JSON-RPC requests (bootstrap or session continuation)
//   - GET /mcp: SSE event stream open or resume
//   - DELETE /mcp: Explicit session termination
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	registry     *session.Registry
	config       Config
	shutdownOnce sync.Once
}

// transportFactory adapts the concrete transport factory to the dispatcher's
// factory contract, which hands out transports behind the session interface.
type transportFactory struct {
	factory *transport.Factory
}

func (a transportFactory) New(onEstablished func(string), onClosed func()) session.Transport {
	return a.factory.New(onEstablished, onClosed)
}

// NewServer creates a new MCP HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving
// requests.
//
// Parameters:
//   - config: Server configuration (port, timeouts, body cap)
//   - registry: Session registry shared with the sweeper
//   - validator: Upstream credential validator used during bootstrap
//   - factory: Transport factory minting one transport per session
//   - httpMetrics: HTTP metrics recorder (may be nil)
//
// Returns a configured but not yet started Server.
func NewServer(config Config, registry *session.Registry, validator handlers.CredentialValidator, factory *transport.Factory, httpMetrics *metrics.HTTPMetrics) *Server {
	config.applyDefaults()

	mcp := handlers.NewMCPHandler(registry, validator, transportFactory{factory: factory})
	health := handlers.NewHealthHandler(registry)
	router := NewRouter(mcp, health, config, httpMetrics)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		IdleTimeout:       config.IdleTimeout,
		// No WriteTimeout: it would sever long-lived SSE streams.
	}

	return &Server{
		server:   server,
		registry: registry,
		config:   config,
	}
}

// Start starts the MCP HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and
// returns.
//
// Parameters:
//   - ctx: Controls the server lifecycle. Cancellation triggers graceful shutdown.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening",
			logger.ListenAddr(s.server.Addr),
			logger.Endpoint(fmt.Sprintf("http://localhost:%d/mcp", s.config.Port)),
		)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("MCP server shutdown signal received")
		// Create new context with timeout for graceful shutdown
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("MCP server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the MCP server.
//
// All live sessions are closed before the listener shuts down, so open SSE
// streams end instead of pinning Shutdown until its deadline.
//
// Stop is safe to call multiple times and safe to call concurrently with
// Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("MCP server shutdown initiated")

		if err := s.registry.CloseAll(); err != nil {
			logger.Warn("session shutdown errors", logger.Err(err))
		}

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("MCP server shutdown error: %w", err)
			logger.Error("MCP server shutdown error", logger.Err(err))
		} else {
			logger.Info("MCP server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}
