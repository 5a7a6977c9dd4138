package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfigTemplate is the commented configuration written by InitConfig.
// Values mirror GetDefaultConfig so a generated file loads without edits.
const sampleConfigTemplate = `# shortcut-mcp Configuration File
#
# This file configures the Shortcut MCP server. All values shown are
# defaults; uncomment and edit as needed. Every setting can also be
# overridden with a SHORTCUTMCP_* environment variable, for example
# SHORTCUTMCP_LOGGING_LEVEL=DEBUG.

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: "INFO"
  # Output format: text (human-readable) or json (for log aggregation)
  format: "text"
  # Where to write logs: stdout, stderr, or a file path
  output: "stdout"

server:
  # Listen address (empty means all interfaces)
  host: ""
  # HTTP port for the /mcp endpoint
  port: 3000
  # Bound on reading request headers
  read_header_timeout: "10s"
  # Keep-alive timeout for idle connections
  idle_timeout: "120s"
  # Bound on POST request handling (SSE streams are exempt)
  request_timeout: "60s"
  # Maximum accepted POST body size
  max_body_size: "4Mi"

session:
  # Sessions idle longer than this are terminated by the sweeper
  idle_timeout: "30m"
  # How often the sweeper scans for expired sessions
  sweep_interval: "60s"
  # Outbound SSE events retained per session for Last-Event-ID resumption
  event_buffer_size: 256
  # SSE keep-alive comment interval (0 disables)
  heartbeat_interval: "30s"

shortcut:
  # Shortcut REST API base URL
  api_url: "https://api.app.shortcut.com/api/v3"
  # Workspace API token used by local CLI commands only.
  # The MCP server uses per-request tokens supplied by clients.
  # api_token: ""
  # Bound on each upstream API request
  timeout: "30s"
  # Outbound request cap (Shortcut enforces 200/minute per token)
  rate_limit_per_minute: 200

# Maximum time to wait for graceful shutdown
shutdown_timeout: "30s"

metrics:
  # Prometheus metrics server (disabled by default)
  enabled: false
  # port: 9090

telemetry:
  # OpenTelemetry distributed tracing (disabled by default)
  enabled: false
  # endpoint: "localhost:4317"
  # insecure: true
  # sample_rate: 1.0
  profiling:
    # Pyroscope continuous profiling (disabled by default)
    enabled: false
    # endpoint: "http://localhost:4040"
`

// InitConfig creates a sample configuration file at the default location.
//
// Returns the path of the created file. Fails if a config file already
// exists unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a sample configuration file at the given path.
//
// Fails if the file already exists unless force is true. Parent directories
// are created as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may later hold an API token
	if err := os.WriteFile(path, []byte(sampleConfigTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
