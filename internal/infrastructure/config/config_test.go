package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Backend != BackendMongo || cfg.TokenStore != TokenStoreMongo {
		t.Fatalf("expected mongo defaults, got %s/%s", cfg.Backend, cfg.TokenStore)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access token TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RememberMeTTL != 336*time.Hour {
		t.Fatalf("expected 336h remember-me TTL, got %v", cfg.RememberMeTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND", "memory")
	t.Setenv("TOKEN_STORE", "redis")
	t.Setenv("REMEMBER_ME_TTL", "24h")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.Backend != BackendMemory || cfg.TokenStore != TokenStoreRedis {
		t.Fatalf("expected memory/redis, got %s/%s", cfg.Backend, cfg.TokenStore)
	}
	if cfg.RememberMeTTL != 24*time.Hour {
		t.Fatalf("expected 24h remember-me TTL, got %v", cfg.RememberMeTTL)
	}
}

func TestLoad_MemoryBackendForcesMemoryTokens(t *testing.T) {
	t.Setenv("BACKEND", "memory")
	t.Setenv("TOKEN_STORE", "mongo")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TokenStore != TokenStoreMemory {
		t.Fatalf("expected memory token store fallback, got %q", cfg.TokenStore)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("BACKEND", "postgres")
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoad_RejectsUnknownTokenStore(t *testing.T) {
	t.Setenv("TOKEN_STORE", "dynamo")
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown token store")
	}
}
