// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/atelier-sesje/atelier-go/internal/cache"
	"github.com/atelier-sesje/atelier-go/internal/seo"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	sitemap *cache.SitemapCache
	robots  []byte
}

// NewSEOHandler creates the SEO handler. robots.txt content is fixed at
// startup; disallowAll blocks crawlers entirely for non-production
// deployments.
func NewSEOHandler(sitemap *cache.SitemapCache, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		sitemap: sitemap,
		robots:  []byte(seo.GenerateRobots(siteURL, disallowAll)),
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	xml, err := h.sitemap.Get(r.Context())
	if err != nil {
		slog.Error("generating sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(xml)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(h.robots)
}
