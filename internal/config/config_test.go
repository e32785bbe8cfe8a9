package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BEDROCK_MODEL_ID", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("expected default idle timeout, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.SessionSweepInterval != 5*time.Minute {
		t.Fatalf("expected default sweep interval, got %s", cfg.SessionSweepInterval)
	}
	if cfg.RateLimitBurst != 10 {
		t.Fatalf("expected default rate limit burst, got %d", cfg.RateLimitBurst)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins by default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("WIDGET_SHARED_SECRET", "s3cret")
	t.Setenv("SESSION_IDLE_TIMEOUT", "45m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "90s")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("USE_MEMORY_STORES", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.WidgetSharedSecret != "s3cret" {
		t.Fatalf("expected widget secret override, got %s", cfg.WidgetSharedSecret)
	}
	if cfg.SessionIdleTimeout != 45*time.Minute {
		t.Fatalf("expected idle timeout override, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.SessionSweepInterval != 90*time.Second {
		t.Fatalf("expected sweep interval override, got %s", cfg.SessionSweepInterval)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected rate limit override, got %f", cfg.RateLimitRPS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected CORS origins parsed, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.UseMemoryStores {
		t.Fatalf("expected memory stores enabled")
	}
}
