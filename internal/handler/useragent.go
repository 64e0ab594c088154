// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mileusna/useragent"

	"github.com/atelier-sesje/atelier-go/internal/geoip"
)

// countryOf resolves the country code for an IP, tolerating a nil lookup.
func countryOf(g *geoip.Lookup, ip string) string {
	if g == nil {
		return ""
	}
	return g.LookupCountry(ip)
}

// clientDevice summarizes the request's User-Agent as "browser/os/device"
// for event metadata. Unknown parts are reported as "unknown".
func clientDevice(r *http.Request) string {
	ua := useragent.Parse(r.UserAgent())

	browser := ua.Name
	if browser == "" {
		browser = "unknown"
	}
	os := ua.OS
	if os == "" {
		os = "unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return browser + "/" + os + "/" + device
}
