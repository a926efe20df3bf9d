package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected default shutdown timeout 5s, got %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected default CORS origins [*], got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "7")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.MaxOpenConns != 7 {
		t.Errorf("expected 7, got %d", cfg.MaxOpenConns)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()

	if cfg.MaxOpenConns != 50 {
		t.Errorf("expected fallback 50, got %d", cfg.MaxOpenConns)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected fallback 5s, got %s", cfg.ShutdownTimeout)
	}
}
