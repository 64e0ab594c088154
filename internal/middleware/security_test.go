// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeadersProduction(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	headers := rec.Header()

	if got := headers.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := headers.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q, want SAMEORIGIN", got)
	}
	if got := headers.Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}

	hsts := headers.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") {
		t.Errorf("Strict-Transport-Security = %q, want max-age=31536000", hsts)
	}
	if !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("Strict-Transport-Security = %q, want includeSubDomains", hsts)
	}

	csp := headers.Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q, want default-src 'self'", csp)
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Errorf("production CSP allows unsafe-eval: %q", csp)
	}

	if headers.Get("Permissions-Policy") == "" {
		t.Error("Permissions-Policy header is empty")
	}
}

func TestSecurityHeadersDevelopment(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(true)
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if hsts := rec.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("Strict-Transport-Security = %q in development, want empty", hsts)
	}

	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "unsafe-eval") {
		t.Errorf("development CSP = %q, want unsafe-eval allowed", csp)
	}
}

func TestBuildCSPOrder(t *testing.T) {
	csp := buildCSP(map[string]string{
		"form-action": "'self'",
		"default-src": "'self'",
		"script-src":  "'self'",
	})

	defaultIdx := strings.Index(csp, "default-src")
	scriptIdx := strings.Index(csp, "script-src")
	formIdx := strings.Index(csp, "form-action")

	if defaultIdx == -1 || scriptIdx == -1 || formIdx == -1 {
		t.Fatalf("buildCSP() missing directives: %q", csp)
	}
	if !(defaultIdx < scriptIdx && scriptIdx < formIdx) {
		t.Errorf("buildCSP() order wrong: %q", csp)
	}
}
