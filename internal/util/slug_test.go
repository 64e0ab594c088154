// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "polish accents",
			input:    "Sesja ślubna Kraków",
			expected: "sesja-slubna-krakow",
		},
		{
			name:     "special characters",
			input:    "zdjęcie (1) finał!",
			expected: "zdjecie-1-fina",
		},
		{
			name:     "multiple spaces",
			input:    "Plener   jesienny",
			expected: "plener-jesienny",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  portret  ",
			expected: "portret",
		},
		{
			name:     "only special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "numbers",
			input:    "Sesja 2026",
			expected: "sesja-2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "sesja-slubna", "plener-2026"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "Upper", "ze spacją"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
