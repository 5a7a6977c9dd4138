package config

import (
	"testing"
	"time"

	"github.com/marmos91/shortcut-mcp/internal/bytesize"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_Server(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Expected default server port %d, got %d", DefaultServerPort, cfg.Server.Port)
	}
	if cfg.Server.ReadHeaderTimeout != 10*time.Second {
		t.Errorf("Expected default read header timeout 10s, got %v", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Server.IdleTimeout != 120*time.Second {
		t.Errorf("Expected default idle timeout 120s, got %v", cfg.Server.IdleTimeout)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Expected default request timeout 60s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodySize != 4*bytesize.MiB {
		t.Errorf("Expected default max body size 4Mi, got %v", cfg.Server.MaxBodySize)
	}
}

func TestApplyDefaults_Session(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Session.IdleTimeout != DefaultSessionIdleTimeout {
		t.Errorf("Expected default session idle timeout %v, got %v", DefaultSessionIdleTimeout, cfg.Session.IdleTimeout)
	}
	if cfg.Session.SweepInterval != DefaultSweepInterval {
		t.Errorf("Expected default sweep interval %v, got %v", DefaultSweepInterval, cfg.Session.SweepInterval)
	}
	if cfg.Session.EventBufferSize != DefaultEventBufferSize {
		t.Errorf("Expected default event buffer size %d, got %d", DefaultEventBufferSize, cfg.Session.EventBufferSize)
	}
	if cfg.Session.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Errorf("Expected default heartbeat interval %v, got %v", DefaultHeartbeatInterval, cfg.Session.HeartbeatInterval)
	}
}

func TestApplyDefaults_Shortcut(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Shortcut.APIURL != DefaultShortcutAPIURL {
		t.Errorf("Expected default API URL %q, got %q", DefaultShortcutAPIURL, cfg.Shortcut.APIURL)
	}
	if cfg.Shortcut.Timeout != DefaultShortcutTimeout {
		t.Errorf("Expected default Shortcut timeout %v, got %v", DefaultShortcutTimeout, cfg.Shortcut.Timeout)
	}
	if cfg.Shortcut.RateLimitPerMinute != DefaultShortcutRateLimit {
		t.Errorf("Expected default rate limit %d, got %d", DefaultShortcutRateLimit, cfg.Shortcut.RateLimitPerMinute)
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	// Metrics stay off by default and no port is assigned while disabled.
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}
	if cfg.Metrics.Port != 0 {
		t.Errorf("Expected no metrics port while disabled, got %d", cfg.Metrics.Port)
	}

	enabled := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(enabled)
	if enabled.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Expected default metrics port %d, got %d", DefaultMetricsPort, enabled.Metrics.Port)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Expected default shutdown timeout %v, got %v", DefaultShutdownTimeout, cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/shortcut-mcp.log",
		},
		ShutdownTimeout: 60 * time.Second,
		Server: ServerConfig{
			Port: 8080,
		},
		Session: SessionConfig{
			IdleTimeout: 5 * time.Minute,
		},
		Shortcut: ShortcutConfig{
			APIURL: "https://shortcut.internal/api/v3",
		},
	}

	ApplyDefaults(cfg)

	// Verify explicit values were preserved
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/shortcut-mcp.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 60*time.Second {
		t.Errorf("Expected explicit timeout 60s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected explicit server port 8080 to be preserved, got %d", cfg.Server.Port)
	}
	if cfg.Session.IdleTimeout != 5*time.Minute {
		t.Errorf("Expected explicit session idle timeout to be preserved, got %v", cfg.Session.IdleTimeout)
	}
	if cfg.Shortcut.APIURL != "https://shortcut.internal/api/v3" {
		t.Errorf("Expected explicit API URL to be preserved, got %q", cfg.Shortcut.APIURL)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	// The default config should pass validation
	err := Validate(cfg)
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	// Check all required sections are present
	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.Server.Port == 0 {
		t.Error("Default config missing server port")
	}
	if cfg.Session.IdleTimeout == 0 {
		t.Error("Default config missing session idle timeout")
	}
	if cfg.Shortcut.APIURL == "" {
		t.Error("Default config missing Shortcut API URL")
	}
}
