// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/seo"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

const sitemapKey = "sitemap"

// SitemapCache serves the sitemap XML for the public site, regenerating
// it from the store when the cached copy expires or is invalidated.
type SitemapCache struct {
	cache   Cacher
	queries *store.Queries
	siteURL string
	ttl     time.Duration
}

// NewSitemapCache creates a sitemap cache. TTL defaults to one hour.
func NewSitemapCache(backend Cacher, queries *store.Queries, siteURL string, ttl time.Duration) *SitemapCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &SitemapCache{
		cache:   backend,
		queries: queries,
		siteURL: siteURL,
		ttl:     ttl,
	}
}

// Get returns the sitemap XML, generating and caching it on a miss.
func (c *SitemapCache) Get(ctx context.Context) ([]byte, error) {
	if xml, err := c.cache.Get(ctx, sitemapKey); err == nil {
		return xml, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	return c.regenerate(ctx)
}

// Invalidate drops the cached sitemap so the next request regenerates it.
// Called after session create, update and delete.
func (c *SitemapCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, sitemapKey)
}

func (c *SitemapCache) regenerate(ctx context.Context) ([]byte, error) {
	sessions, err := c.queries.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := c.queries.ListSessionCategories(ctx)
	if err != nil {
		return nil, err
	}

	xml, err := seo.GenerateSitemap(c.siteURL, sessions, categories)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, sitemapKey, xml, c.ttl); err != nil {
		return nil, err
	}

	return xml, nil
}
