package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("CLIPD_CONFIG_DIR", filepath.Join(base, "config"))
	t.Setenv("CLIPD_DATA_DIR", filepath.Join(base, "data"))
	t.Setenv("CLIPD_LISTEN_ADDR", "")
	t.Setenv("CLIPD_POLLING_INTERVAL_MS", "")
	t.Setenv("CLIPD_LOG_LEVEL", "")
	return base
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	base := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != DefaultConfig().ListenAddr {
		t.Errorf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
	if cfg.PollInterval() != 400*time.Millisecond {
		t.Errorf("PollInterval = %v, want 400ms", cfg.PollInterval())
	}

	// The default file and data layout must exist afterwards.
	if _, err := os.Stat(filepath.Join(base, "config", "config.yaml")); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
	for _, dir := range []string{"data", filepath.Join("data", "images"), filepath.Join("data", "logs")} {
		if _, err := os.Stat(filepath.Join(base, dir)); err != nil {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
	if cfg.SystemPaths.DBFile != filepath.Join(base, "data", "clipboard.db") {
		t.Errorf("DBFile = %q", cfg.SystemPaths.DBFile)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	base := isolate(t)
	path := filepath.Join(base, "config", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	raw := "listen_addr: 127.0.0.1:9999\npolling_interval_ms: 250\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CLIPD_LISTEN_ADDR", "127.0.0.1:7777")
	t.Setenv("CLIPD_POLLING_INTERVAL_MS", "100")
	t.Setenv("CLIPD_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:7777" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval())
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestBadYAMLIsAnError(t *testing.T) {
	base := isolate(t)
	path := filepath.Join(base, "config", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("listen_addr: [not: valid"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(""); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestPollIntervalGuardsNonPositive(t *testing.T) {
	cfg := &Config{PollingIntervalMs: 0}
	if cfg.PollInterval() != 400*time.Millisecond {
		t.Errorf("zero interval = %v, want 400ms fallback", cfg.PollInterval())
	}
	cfg.PollingIntervalMs = -5
	if cfg.PollInterval() != 400*time.Millisecond {
		t.Errorf("negative interval = %v, want 400ms fallback", cfg.PollInterval())
	}
}
