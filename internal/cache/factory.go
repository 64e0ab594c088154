// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Config selects and configures the cache backend.
type Config struct {
	// Backend is "memory" or "redis".
	Backend string

	// RedisURL is the Redis connection URL (redis backend only).
	RedisURL string

	// Prefix is the key prefix (redis backend only).
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// CleanupInterval is the expired-entry sweep interval (memory backend only).
	CleanupInterval time.Duration
}

// DefaultConfig returns the memory backend with a one-hour TTL.
func DefaultConfig() Config {
	return Config{
		Backend:         "memory",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache for the given configuration.
func New(cfg Config) (Cacher, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      cfg.DefaultTTL,
			CleanupInterval: cfg.CleanupInterval,
		}), nil
	case "redis":
		return NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
