package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Canvas.Width != 960 || cfg.History.Capacity != 50 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapweaver.toml")
	content := `
[canvas]
width = 1280

[interact]
debounce_ms = 300

[cache]
backend = "redis"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Canvas.Width != 1280 {
		t.Errorf("canvas width = %v, want 1280", cfg.Canvas.Width)
	}
	// Unset fields keep their defaults.
	if cfg.Canvas.Height != 640 {
		t.Errorf("canvas height = %v, want default 640", cfg.Canvas.Height)
	}
	if got := cfg.Interact.Debounce(); got != 300*time.Millisecond {
		t.Errorf("debounce = %v, want 300ms", got)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("canvas = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config accepted")
	}
}
