package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/internal/logger"
	"github.com/marmos91/shortcut-mcp/internal/telemetry"
	"github.com/marmos91/shortcut-mcp/pkg/config"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/api"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/api/handlers"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/session"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/transport"
	"github.com/marmos91/shortcut-mcp/pkg/metrics"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
	"github.com/marmos91/shortcut-mcp/pkg/toolset"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Shortcut MCP server.

The server exposes the MCP streamable HTTP endpoint at /mcp and a health
probe at /health. Clients authenticate each new session with a Shortcut
workspace token sent as a Bearer Authorization header (or the
X-Shortcut-Api-Token header).

The server runs in the foreground until interrupted. Use a process
supervisor or container runtime for daemonization.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/shortcut-mcp/config.yaml.

Examples:
  # Start with default config
  shortcut-mcp serve

  # Start with custom config file
  shortcut-mcp serve --config /etc/shortcut-mcp/config.yaml

  # Start with environment variable overrides
  SHORTCUTMCP_LOGGING_LEVEL=DEBUG shortcut-mcp serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "shortcut-mcp",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "shortcut-mcp",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	fmt.Println("Shortcut MCP - Model Context Protocol server for Shortcut")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", logger.Endpoint(cfg.Telemetry.Endpoint), "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", logger.Endpoint(cfg.Telemetry.Profiling.Endpoint), "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Initialize metrics (if enabled)
	var (
		promReg          *prometheus.Registry
		sessionMetrics   *session.Metrics
		transportMetrics *transport.Metrics
		httpMetrics      *metrics.HTTPMetrics
	)
	if cfg.Metrics.Enabled {
		promReg = prometheus.NewRegistry()
		sessionMetrics = session.NewMetrics(promReg)
		transportMetrics = transport.NewMetrics(promReg)
		httpMetrics = metrics.NewHTTPMetrics(promReg)
	}

	// Session registry with background idle sweeper
	registry := session.NewRegistry(session.Config{
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
		Metrics:       sessionMetrics,
	})
	registry.StartSweeper(ctx)
	logger.Info("Session registry initialized",
		"idle_timeout", cfg.Session.IdleTimeout.String(),
		"sweep_interval", cfg.Session.SweepInterval.String(),
	)

	// Upstream Shortcut API client. The rate limiter is shared by every
	// session; per-session tokens are bound per request.
	client := shortcut.New(cfg.Shortcut.APIURL).
		WithTimeout(cfg.Shortcut.Timeout).
		WithRateLimit(cfg.Shortcut.RateLimitPerMinute)
	if cfg.Metrics.Enabled {
		client = client.WithRoundTripper(metrics.InstrumentUpstream(promReg, http.DefaultTransport))
	}
	logger.Info("Shortcut API client initialized",
		"api_url", cfg.Shortcut.APIURL,
		"rate_limit_per_minute", cfg.Shortcut.RateLimitPerMinute,
	)

	// Bootstrap credentials are validated against the live API
	tokenValidator := shortcut.NewTokenValidator(client)
	validator := handlers.ValidatorFunc(func(ctx context.Context, credential string) error {
		_, err := tokenValidator.Validate(ctx, credential)
		return err
	})

	// Tool registry with the full Shortcut toolset
	toolRegistry := tools.NewRegistry()
	if err := toolset.Register(toolRegistry, client); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	logger.Info("Toolset registered", logger.Count(toolRegistry.Len()))

	// Protocol engine and per-session transport factory
	engine := transport.NewEngine(toolRegistry, transport.EngineConfig{
		ServerInfo: transport.Implementation{
			Name:    "shortcut-mcp",
			Version: Version,
		},
		Instructions: serverInstructions,
		Metrics:      transportMetrics,
	})
	factory := transport.NewFactory(engine, transport.Config{
		EventBufferSize:   cfg.Session.EventBufferSize,
		HeartbeatInterval: cfg.Session.HeartbeatInterval,
	})

	// MCP HTTP server
	apiServer := api.NewServer(api.Config{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxBodySize:       int64(cfg.Server.MaxBodySize),
		ShutdownTimeout:   cfg.ShutdownTimeout,
	}, registry, validator, factory, httpMetrics)

	// Start servers in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, promReg)
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("metrics server error", logger.Err(err))
			}
		}()
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for server to shut down gracefully
		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", logger.Err(err))
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", logger.Err(err))
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// serverInstructions is surfaced to clients during the initialize handshake.
const serverInstructions = `Tools operate on the Shortcut workspace of the API token that opened
this session. Stories, epics, iterations, objectives, and workflows are
addressed by their numeric public IDs; members and teams by UUID. Search
tools accept Shortcut search syntax in the "query" field alongside the
structured filters.`
