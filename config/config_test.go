package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "8000" {
		t.Errorf("AppPort = %q, want 8000", cfg.AppPort)
	}
	if cfg.PetitionsDBName != "petitions" || cfg.HomelabDBName != "homelab" {
		t.Errorf("unexpected schema names %q/%q", cfg.PetitionsDBName, cfg.HomelabDBName)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.RateLimitPerMinute)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `{
  "app": {"AppPort": "9000", "RateLimitPerMinute": 30, "AllowedOrigins": ["http://a.test"]},
  "database": {"DBHost": "db.internal", "PetitionsDBName": "pet"},
  "redis": {"RedisEnabled": true, "RedisPort": 6380, "CacheTTLSeconds": 60},
  "log": {"Level": "debug"}
}`)

	t.Setenv("APP_PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://b.test, http://c.test ,")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "9100" {
		t.Errorf("env should win over file: AppPort = %q", cfg.AppPort)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Errorf("RateLimitPerMinute = %d, want 30", cfg.RateLimitPerMinute)
	}
	if cfg.DBHost != "db.internal" || cfg.PetitionsDBName != "pet" {
		t.Errorf("database section not applied: %+v", cfg)
	}
	if !cfg.RedisEnabled || cfg.RedisPort != 6380 || cfg.RedisDB != 2 {
		t.Errorf("redis settings not applied: enabled=%v port=%d db=%d", cfg.RedisEnabled, cfg.RedisPort, cfg.RedisDB)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("CacheTTL = %s, want 1m", cfg.CacheTTL())
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://c.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load(writeConfig(t, "{not json")); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoad_InvalidIntEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for non-numeric RATE_LIMIT_PER_MINUTE")
	}
}

func TestDSN(t *testing.T) {
	cfg := AppConfig{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3307"}

	got := DSN(cfg, "", "petitions")
	want := "u:p@tcp(h:3307)/petitions?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	if got := DSN(cfg, "custom-uri", "petitions"); got != "custom-uri" {
		t.Errorf("explicit URI should win, got %q", got)
	}
}
