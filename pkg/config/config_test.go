package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write minimal config
	configContent := `
logging:
  level: "INFO"

server:
  port: 3000
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("Expected default session idle_timeout 30m, got %v", cfg.Session.IdleTimeout)
	}
	if cfg.Session.SweepInterval != 60*time.Second {
		t.Errorf("Expected default sweep_interval 60s, got %v", cfg.Session.SweepInterval)
	}
	if cfg.Shortcut.APIURL != "https://api.app.shortcut.com/api/v3" {
		t.Errorf("Expected default Shortcut API URL, got %q", cfg.Shortcut.APIURL)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config.
	// This allows users to run the server without a config file for quick testing.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}

	// Verify default config is returned
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}

	// Verify default server port
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default server port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Write invalid YAML
	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Should return error
	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "WARN"
format = "json"

[server]
port = 3000

[session]
idle_timeout = "10m"
sweep_interval = "30s"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Session.IdleTimeout != 10*time.Minute {
		t.Errorf("Expected session idle_timeout 10m, got %v", cfg.Session.IdleTimeout)
	}
}

func TestLoad_DurationAndSizeParsing(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 3000
  request_timeout: "45s"
  max_body_size: "2Mi"

session:
  idle_timeout: "15m"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.RequestTimeout != 45*time.Second {
		t.Errorf("Expected request_timeout 45s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodySize != 2*1024*1024 {
		t.Errorf("Expected max_body_size 2Mi, got %d", cfg.Server.MaxBodySize)
	}
	if cfg.Session.IdleTimeout != 15*time.Minute {
		t.Errorf("Expected idle_timeout 15m, got %v", cfg.Session.IdleTimeout)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	// Verify all defaults are set
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default server port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Shortcut.RateLimitPerMinute != 200 {
		t.Errorf("Expected default rate limit 200, got %d", cfg.Shortcut.RateLimitPerMinute)
	}
	if cfg.Session.EventBufferSize != 256 {
		t.Errorf("Expected default event buffer size 256, got %d", cfg.Session.EventBufferSize)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	if filepath.Base(dir) != "shortcut-mcp" {
		t.Errorf("Expected directory name 'shortcut-mcp', got %q", filepath.Base(dir))
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	_ = os.Setenv("SHORTCUTMCP_LOGGING_LEVEL", "ERROR")
	_ = os.Setenv("SHORTCUTMCP_SERVER_PORT", "4000")
	defer func() {
		_ = os.Unsetenv("SHORTCUTMCP_LOGGING_LEVEL")
		_ = os.Unsetenv("SHORTCUTMCP_SERVER_PORT")
	}()

	// Create minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

server:
  port: 3000
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify environment variables override config file
	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Expected port 4000 from env var, got %d", cfg.Server.Port)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Server.Port = 3210
	cfg.Shortcut.APIToken = "test-token"

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	// File must be owner-only: it can contain an API token
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat saved config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Server.Port != 3210 {
		t.Errorf("Expected port 3210 after round trip, got %d", loaded.Server.Port)
	}
	if loaded.Shortcut.APIToken != "test-token" {
		t.Errorf("Expected token to survive round trip, got %q", loaded.Shortcut.APIToken)
	}
}
