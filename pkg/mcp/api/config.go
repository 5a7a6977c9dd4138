package api

import "time"

// Config configures the MCP HTTP server.
type Config struct {
	// Host is the listen address. Empty means all interfaces.
	Host string

	// Port is the HTTP port for the MCP endpoint.
	// Default: 3000
	Port int

	// ReadHeaderTimeout bounds how long the server waits for request
	// headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// IdleTimeout is the keep-alive timeout for idle connections.
	// Default: 120s
	IdleTimeout time.Duration

	// RequestTimeout bounds POST and DELETE handling. GET is exempt
	// because the SSE stream must outlive any request timeout.
	// Default: 60s
	RequestTimeout time.Duration

	// MaxBodySize caps accepted POST bodies in bytes. Zero means no cap.
	MaxBodySize int64

	// ShutdownTimeout bounds graceful shutdown when Start's context is
	// cancelled.
	// Default: 30s
	ShutdownTimeout time.Duration
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}
