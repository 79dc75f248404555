// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
//
// The participant roster and the email→name allow-list are injected here as
// configuration: the engine never infers membership from wager data.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port string

	// PostgreSQL connection string. Empty → in-memory store.
	DatabaseURL string

	// Redis cache. Empty → no cache layer.
	RedisURL string
	CacheTTL time.Duration

	// Session signing secret and token lifetime.
	SessionSecret string
	SessionTTL    time.Duration

	// Roster is the fixed, ordered set of participant names.
	Roster []string

	// Allowlist maps login emails to roster names.
	Allowlist map[string]string
}

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("SESSION_TTL", "720h")

	cfg := &Config{
		Port:          v.GetString("PORT"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		RedisURL:      v.GetString("REDIS_URL"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
	}

	roster, err := parseRoster(v.GetString("ROSTER"))
	if err != nil {
		return nil, err
	}
	cfg.Roster = roster

	allowlist, err := parseAllowlist(v.GetString("ALLOWLIST"), roster)
	if err != nil {
		return nil, err
	}
	cfg.Allowlist = allowlist

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET is required")
	}

	return cfg, nil
}

// parseRoster splits a comma-separated ordered list of participant names.
// At least two participants are needed for any wager to exist.
func parseRoster(raw string) ([]string, error) {
	var roster []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("config: duplicate roster name %q", name)
		}
		seen[name] = true
		roster = append(roster, name)
	}
	if len(roster) < 2 {
		return nil, fmt.Errorf("config: ROSTER needs at least two names, got %d", len(roster))
	}
	return roster, nil
}

// parseAllowlist parses "email:Name,email:Name" pairs and checks every name
// against the roster.
func parseAllowlist(raw string, roster []string) (map[string]string, error) {
	onRoster := make(map[string]bool, len(roster))
	for _, name := range roster {
		onRoster[name] = true
	}

	allowlist := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, name, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("config: malformed ALLOWLIST entry %q (want email:Name)", pair)
		}
		email = strings.ToLower(strings.TrimSpace(email))
		name = strings.TrimSpace(name)
		if !onRoster[name] {
			return nil, fmt.Errorf("config: ALLOWLIST name %q is not on the roster", name)
		}
		allowlist[email] = name
	}
	if len(allowlist) == 0 {
		return nil, fmt.Errorf("config: ALLOWLIST is required")
	}
	return allowlist, nil
}
