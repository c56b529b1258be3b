package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 8080
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
provider:
  base_url: http://localhost:9999
model:
  path: config/model.yaml
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.Range != "2y" {
		t.Fatalf("default range = %q, want 2y", cfg.Provider.Range)
	}
	if cfg.Provider.Interval != "1d" {
		t.Fatalf("default interval = %q, want 1d", cfg.Provider.Interval)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("default cache ttl = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Model.MedianWindow != 252 {
		t.Fatalf("default median window = %d, want 252", cfg.Model.MedianWindow)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Fatalf("default metrics path = %q, want /metrics", cfg.Metrics.Path)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics should stay disabled unless configured")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	if _, err := Load(writeTemp(t, "environment: test\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "http://override:1234")
	t.Setenv("REDIS_ADDR", "redis-host:6380")

	cfg, err := LoadWithEnv(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.BaseURL != "http://override:1234" {
		t.Fatalf("base url = %q", cfg.Provider.BaseURL)
	}
	if !cfg.Cache.Redis.Enabled || cfg.Cache.Redis.Host != "redis-host" || cfg.Cache.Redis.Port != 6380 {
		t.Fatalf("redis override not applied: %+v", cfg.Cache.Redis)
	}
}
