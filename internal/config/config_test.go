package config

import (
	"strings"
	"testing"
	"time"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("ROSTER", "alice,bob,carol")
	t.Setenv("ALLOWLIST", "alice@example.com:alice,bob@example.com:bob")
}

func TestLoad_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %s, want default 8080", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("cache ttl = %s, want 30s", cfg.CacheTTL)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Errorf("session ttl = %s, want 720h", cfg.SessionTTL)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Error("database and redis urls should default to empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("DATABASE_URL", "postgres://localhost/wagers")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Port)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("cache ttl = %s, want 2m", cfg.CacheTTL)
	}
	if cfg.DatabaseURL != "postgres://localhost/wagers" {
		t.Errorf("database url = %s", cfg.DatabaseURL)
	}
}

func TestLoad_RosterOrderPreserved(t *testing.T) {
	setValidEnv(t)
	t.Setenv("ROSTER", "carol, alice ,bob")
	t.Setenv("ALLOWLIST", "carol@example.com:carol")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"carol", "alice", "bob"}
	for i, name := range want {
		if cfg.Roster[i] != name {
			t.Errorf("roster[%d] = %s, want %s", i, cfg.Roster[i], name)
		}
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing SESSION_SECRET")
	}
}

func TestParseRoster_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"one name", "alice"},
		{"duplicate", "alice,bob,alice"},
		{"only separators", " , , "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseRoster(tt.raw); err == nil {
				t.Errorf("parseRoster(%q) should fail", tt.raw)
			}
		})
	}
}

func TestParseAllowlist(t *testing.T) {
	roster := []string{"alice", "bob"}

	allowlist, err := parseAllowlist("Alice@Example.COM:alice, bob@example.com:bob", roster)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// Emails normalize to lowercase.
	if allowlist["alice@example.com"] != "alice" {
		t.Errorf("allowlist = %v, want normalized email keys", allowlist)
	}
	if len(allowlist) != 2 {
		t.Errorf("expected 2 entries, got %d", len(allowlist))
	}
}

func TestParseAllowlist_Errors(t *testing.T) {
	roster := []string{"alice", "bob"}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "required"},
		{"no colon", "alice@example.com", "malformed"},
		{"off-roster name", "eve@example.com:eve", "not on the roster"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAllowlist(tt.raw, roster)
			if err == nil {
				t.Fatalf("parseAllowlist(%q) should fail", tt.raw)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
