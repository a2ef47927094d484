package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.JWT.TTL != time.Hour || cfg.JWT.BcryptCost != 10 {
		t.Fatalf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if cfg.JWT.Issuer != "http://localhost" || cfg.JWT.Audience != "http://localhost" {
		t.Fatalf("unexpected issuer/audience: %+v", cfg.JWT)
	}
	if !cfg.MigrateOnStart || cfg.ShutdownTimeout != 10*time.Second || cfg.AuditWorkers != 4 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.AllowOrigins)
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" {
		t.Fatal("mongo and redis must be disabled by default")
	}
	if cfg.Postgres.MaxOpenConns != 10 || cfg.Postgres.MaxIdleConns != 5 {
		t.Fatalf("unexpected pool defaults: %+v", cfg.Postgres)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                "production",
		"JWT_SECRET":         strongSecret,
		"JWT_TTL":            "15m",
		"CORS_ALLOW_ORIGINS": "https://a.example,https://b.example",
		"MONGO_URI":          "mongodb://mongo:27017",
		"REDIS_ADDR":         "redis:6379",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Fatal("expected production environment")
	}
	if cfg.JWT.TTL != 15*time.Minute {
		t.Fatalf("expected 15m ttl, got %v", cfg.JWT.TTL)
	}
	if len(cfg.AllowOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.AllowOrigins)
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET is required") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoadFrom_ShortSecretOutsideDevelopment(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Fatalf("expected short secret error, got %v", err)
	}
}

func TestValidate_BcryptCostRange(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  strongSecret,
		"BCRYPT_COST": "3",
	}))
	if err == nil || !strings.Contains(err.Error(), "BCRYPT_COST") {
		t.Fatalf("expected bcrypt cost error, got %v", err)
	}
}
