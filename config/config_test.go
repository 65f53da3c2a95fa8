package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.App.Name != "sigbus" {
		t.Errorf("expected app name 'sigbus', got %s", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got %s", cfg.App.Environment)
	}
	if cfg.App.InstanceID == "" {
		t.Error("expected a generated instance id")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected log format 'json', got %s", cfg.Log.Format)
	}

	if !cfg.Metrics.Enabled {
		t.Error("expected metrics.enabled to be true")
	}
	if cfg.Metrics.Port != 9091 {
		t.Errorf("expected metrics port 9091, got %d", cfg.Metrics.Port)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected metrics path '/metrics', got %s", cfg.Metrics.Path)
	}

	if !cfg.Dispatch.DefaultWeak {
		t.Error("expected dispatch.default_weak to be true")
	}
	if cfg.Dispatch.DebugLogging {
		t.Error("expected dispatch.debug_logging to be false")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}

	cfg.App.Environment = "nonsense"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for bad environment")
	}
	if _, ok := err.(ValidationErrors); !ok {
		t.Errorf("expected detailed ValidationErrors, got %T", err)
	}

	cfg = DefaultConfig()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for bad log level")
	}

	cfg = DefaultConfig()
	cfg.Metrics.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for out-of-range port")
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  name: billing
  environment: production
log:
  level: debug
dispatch:
  debug_logging: true
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Name != "billing" {
		t.Errorf("expected app name 'billing', got %s", cfg.App.Name)
	}
	if cfg.App.Environment != "production" {
		t.Errorf("expected environment 'production', got %s", cfg.App.Environment)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
	if !cfg.Dispatch.DebugLogging {
		t.Error("expected dispatch.debug_logging true")
	}
	// Untouched sections keep their defaults.
	if cfg.Log.Format != "json" {
		t.Errorf("expected default log format 'json', got %s", cfg.Log.Format)
	}
	if cfg.Metrics.Port != 9091 {
		t.Errorf("expected default metrics port 9091, got %d", cfg.Metrics.Port)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("expected error for unsupported config format")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SIGBUS_LOG_LEVEL", "error")
	t.Setenv("SIGBUS_METRICS_PORT", "9191")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override file, got log level %s", cfg.Log.Level)
	}
	if cfg.Metrics.Port != 9191 {
		t.Errorf("expected env metrics port 9191, got %d", cfg.Metrics.Port)
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("SIGBUS_LOG_LEVEL", "warn")

	cfg, err := Load("", map[string]interface{}{
		"log.level": "debug",
		"app.name":  "override-app",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected caller overrides to win, got log level %s", cfg.Log.Level)
	}
	if cfg.App.Name != "override-app" {
		t.Errorf("expected app name 'override-app', got %s", cfg.App.Name)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	_, err := Load("", map[string]interface{}{
		"log.format": "xml",
	})
	if err == nil {
		t.Fatal("expected validation failure for xml log format")
	}
}
