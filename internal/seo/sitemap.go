// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo generates sitemap.xml and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"net/url"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds sitemap XML for the portfolio site.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder. siteURL is the public base URL
// without a trailing slash.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddStaticPages adds the homepage and the fixed public pages.
func (b *SitemapBuilder) AddStaticPages() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/sesje", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
		SitemapURL{Loc: b.siteURL + "/o-mnie", ChangeFreq: ChangeFreqMonthly, Priority: "0.5"},
		SitemapURL{Loc: b.siteURL + "/kontakt", ChangeFreq: ChangeFreqMonthly, Priority: "0.5"},
	)
}

// AddSession adds a session detail page to the sitemap.
func (b *SitemapBuilder) AddSession(s model.Session) {
	u := SitemapURL{
		Loc:        b.siteURL + "/sesje/" + url.PathEscape(s.ID),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !s.UpdatedAt.IsZero() {
		u.LastMod = s.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// AddSessions adds multiple session detail pages.
func (b *SitemapBuilder) AddSessions(sessions []model.Session) {
	for _, s := range sessions {
		b.AddSession(s)
	}
}

// AddCategory adds a category-filtered listing page.
func (b *SitemapBuilder) AddCategory(category string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/sesje?kategoria=" + url.QueryEscape(category),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	})
}

// AddCategories adds multiple category listing pages.
func (b *SitemapBuilder) AddCategories(categories []string) {
	for _, c := range categories {
		b.AddCategory(c)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the full sitemap for the site: fixed pages,
// category listings and every session detail page.
func GenerateSitemap(siteURL string, sessions []model.Session, categories []string) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddStaticPages()
	builder.AddCategories(categories)
	builder.AddSessions(sessions)
	return builder.Build()
}
