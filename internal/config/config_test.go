package config

import (
	"testing"
	"time"
)

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("REQUIRE_SESSION_AUTH", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("OTP_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionSecret == "" {
		t.Fatalf("expected a development session secret")
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("unexpected ttls: session=%s otp=%s", cfg.SessionTTL, cfg.OTPTTL)
	}
	if cfg.RequireSessionAuth {
		t.Fatalf("session auth must be off by default")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/ilumina")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing SESSION_SECRET error")
	}

	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REQUIRE_SESSION_AUTH", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 2*time.Hour || !cfg.RequireSessionAuth {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
