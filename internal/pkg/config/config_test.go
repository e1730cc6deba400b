package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Backend != BackendMemory || cfg.Scan.Guard != GuardMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Store.AuditRetention != 100 || cfg.Scan.GuardTTL != 10*time.Minute || cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("unexpected numeric defaults %+v", cfg)
	}
	if cfg.Location().String() != "America/Fortaleza" {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("development should get a fallback secret")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_BACKEND":   "mongo",
		"SCAN_GUARD":      "redis",
		"SCAN_WORKERS":    "8",
		"TIMEZONE":        "UTC",
		"ENV":             "production",
		"JWT_SECRET":      "s3cret",
		"AUDIT_RETENTION": "500",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Store.Backend != BackendMongo || cfg.Scan.Guard != GuardRedis || cfg.Scan.Workers != 8 {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if cfg.Store.AuditRetention != 500 || cfg.Location() != time.UTC {
		t.Fatalf("overrides not applied %+v", cfg)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"backend":         {"STORE_BACKEND": "sqlite"},
		"guard":           {"SCAN_GUARD": "etcd"},
		"identification":  {"IDENTIFICATION_MODE": "face"},
		"timezone":        {"TIMEZONE": "Mars/Olympus"},
		"secret required": {"ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
