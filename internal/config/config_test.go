package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
upstream:
  base_url: "http://catalog:5000/api/v1"
  page_size: 50
snapshot:
  freshness_window: 10m
recommend:
  strategy: tiered
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.BaseURL != "http://catalog:5000/api/v1" {
		t.Errorf("unexpected base url: %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", cfg.Upstream.PageSize)
	}
	if cfg.Snapshot.FreshnessWindow != 10*time.Minute {
		t.Errorf("expected 10m window, got %s", cfg.Snapshot.FreshnessWindow)
	}
	if cfg.Recommend.Strategy != "tiered" {
		t.Errorf("expected tiered strategy, got %s", cfg.Recommend.Strategy)
	}
	// Untouched sections keep their defaults.
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected default max_results 20, got %d", cfg.Search.MaxResults)
	}
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "http://env-host:5000/api/v1")
	t.Setenv("REDIS_PASSWORD", "s3cret")

	path := writeConfig(t, `
upstream:
  base_url: "${CATALOG_BASE_URL}"
redis:
  password: "${REDIS_PASSWORD}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://env-host:5000/api/v1" {
		t.Errorf("env var not expanded: %s", cfg.Upstream.BaseURL)
	}
	if cfg.Redis.Password != "s3cret" {
		t.Errorf("env var not expanded: %s", cfg.Redis.Password)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"empty base url", func(c *Config) { c.Upstream.BaseURL = "" }},
		{"zero page size", func(c *Config) { c.Upstream.PageSize = 0 }},
		{"zero freshness window", func(c *Config) { c.Snapshot.FreshnessWindow = 0 }},
		{"unknown strategy", func(c *Config) { c.Recommend.Strategy = "random" }},
		{"zero recommendation limit", func(c *Config) { c.Recommend.MaxRelated = 0 }},
		{"zero search limit", func(c *Config) { c.Search.MaxResults = 0 }},
		{"category outweighs name", func(c *Config) { c.Search.PhraseInCategory = c.Search.PhraseInName + 1 }},
		{"description outweighs category", func(c *Config) { c.Search.PhraseInDesc = c.Search.PhraseInCategory + 1 }},
		{"per-word outweighs phrase", func(c *Config) { c.Search.WordInName = c.Search.PhraseInName }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
