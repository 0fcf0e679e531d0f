package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "API_PORT", "MONGO_DB", "REDIS_ADDR", "STATS_CACHE_TTL", "RABBIT_ENABLED", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.MongoDB != "alcahub" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.RedisAddr)
	}
	if !cfg.RabbitEnabled {
		t.Fatal("rabbit should be enabled by default")
	}
	if cfg.StatsCacheTTL != 30*time.Second {
		t.Fatalf("ttl=%v", cfg.StatsCacheTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("level=%v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_PORT", "9999")
	t.Setenv("RABBIT_ENABLED", "false")
	t.Setenv("STATS_CACHE_TTL", "2m")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Fatalf("port=%s", cfg.Port)
	}
	if cfg.RabbitEnabled {
		t.Fatal("rabbit should be disabled")
	}
	if cfg.StatsCacheTTL != 2*time.Minute {
		t.Fatalf("ttl=%v", cfg.StatsCacheTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("level=%v", cfg.LogLevel)
	}
}

func TestLoadWSConfig_Origins(t *testing.T) {
	t.Setenv("WS_ALLOWED_ORIGINS", "https://alcahub.com.br, http://localhost:5173 ,")
	c := LoadWSConfig()
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("origins=%#v", c.AllowedOrigins)
	}
}
