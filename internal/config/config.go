// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"ATELIER_DB_PATH" envDefault:"./data/atelier.db"`
	SessionSecret string `env:"ATELIER_SESSION_SECRET,required"`
	ServerHost    string `env:"ATELIER_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ATELIER_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ATELIER_ENV" envDefault:"development"`
	SiteURL       string `env:"ATELIER_SITE_URL" envDefault:"http://localhost:8080"` // Public base URL, no trailing slash
	LogLevel      string `env:"ATELIER_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"ATELIER_LOG_FORMAT" envDefault:"pretty"` // pretty or text
	UploadsDir    string `env:"ATELIER_UPLOADS_DIR" envDefault:"./uploads"`
	CacheBackend  string `env:"ATELIER_CACHE_BACKEND" envDefault:"memory"` // memory or redis
	RedisURL      string `env:"ATELIER_REDIS_URL"`                         // required for the redis backend
	GeoIPDBPath   string `env:"ATELIER_GEOIP_DB"`                          // GeoLite2-Country .mmdb; empty disables lookups

	// AdminEmails is the comma-separated allow-list of emails that may
	// use the admin panel. Matching is exact and case-sensitive.
	AdminEmails []string `env:"ATELIER_ADMIN_EMAILS" envSeparator:","`

	// Seeding configuration
	DoSeed bool `env:"ATELIER_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ATELIER_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ATELIER_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ATELIER_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	// An empty allow-list means nobody can reach the admin panel.
	// That is a valid way to run the public site, but worth a warning.
	cfg.AdminEmails = cleanEmails(cfg.AdminEmails)
	if len(cfg.AdminEmails) == 0 {
		slog.Warn("ATELIER_ADMIN_EMAILS is empty; no account will have admin access")
	}

	return cfg, nil
}

// cleanEmails trims whitespace and drops empty entries.
func cleanEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
