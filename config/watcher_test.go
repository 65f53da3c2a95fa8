package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, path, level string) {
	t.Helper()
	content := "app:\n  name: watch-test\nlog:\n  level: " + level + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_RequiresPath(t *testing.T) {
	if _, err := NewWatcher("", NewLoader()); err == nil {
		t.Error("expected error for empty config path")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, "info")

	w, err := NewWatcher(path, NewLoader(), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	reloaded := make(chan *Config, 4)
	w.OnChange(func(cfg *Config) {
		reloaded <- cfg
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	// Give the watcher a moment to register the file.
	deadline := time.Now().Add(5 * time.Second)
	for !w.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !w.IsRunning() {
		t.Fatal("watcher never started")
	}

	writeConfigFile(t, path, "debug")

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("expected reloaded log level 'debug', got %s", cfg.Log.Level)
		}
	case <-ctx.Done():
		t.Fatal("reload callback never fired")
	}
}

func TestWatcher_StopTerminatesWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, "info")

	w, err := NewWatcher(path, NewLoader())
	if err != nil {
		t.Fatal(err)
	}
	if w.ConfigPath() != path {
		t.Errorf("expected config path %s, got %s", path, w.ConfigPath())
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(context.Background())
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !w.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not terminate after Stop")
	}
}

func TestExtractHotReloadable(t *testing.T) {
	cfg := DefaultConfig()
	hot := ExtractHotReloadable(cfg)
	if hot.LogLevel != "info" || !hot.MetricsEnabled || hot.MetricsPort != 9091 {
		t.Errorf("unexpected hot-reloadable snapshot: %+v", hot)
	}

	other := hot
	if hot.Changed(other) {
		t.Error("identical snapshots must not report change")
	}
	other.LogLevel = "debug"
	if !hot.Changed(other) {
		t.Error("differing snapshots must report change")
	}
}
