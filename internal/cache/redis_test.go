// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless ATELIER_TEST_REDIS_URL points at a
// reachable Redis instance.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("ATELIER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: ATELIER_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCacheBasic(t *testing.T) {
	url := skipIfNoRedis(t)

	c, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCacheFromURL: %v", err)
	}
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	_ = c.Clear(ctx)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(deleted) error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCacheClear(t *testing.T) {
	url := skipIfNoRedis(t)

	c, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCacheFromURL: %v", err)
	}
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if has, _ := c.Has(ctx, "a"); has {
		t.Error("key survived Clear")
	}
}

func TestRedisCacheRequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("NewRedisCache without URL should fail")
	}
}
