// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Session, ContactMessage, User and Event.
package model

import "time"

// Session represents a portfolio entry (a photo session). It is unrelated
// to the authentication session.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Year        string    `json:"year"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PrimaryImage returns the cover image URL, or empty string if the
// session has no images. The image at index 0 is always the cover.
func (s *Session) PrimaryImage() string {
	if len(s.ImageURLs) == 0 {
		return ""
	}
	return s.ImageURLs[0]
}

// SetPrimaryImage moves the image at index i to the front of the list.
// Out-of-range indexes and index 0 are no-ops. The relative order of the
// remaining images is preserved.
func (s *Session) SetPrimaryImage(i int) {
	if i <= 0 || i >= len(s.ImageURLs) {
		return
	}
	url := s.ImageURLs[i]
	s.ImageURLs = append(s.ImageURLs[:i], s.ImageURLs[i+1:]...)
	s.ImageURLs = append([]string{url}, s.ImageURLs...)
}

// RemoveImage deletes the image at index i from the list.
// Out-of-range indexes are no-ops.
func (s *Session) RemoveImage(i int) {
	if i < 0 || i >= len(s.ImageURLs) {
		return
	}
	s.ImageURLs = append(s.ImageURLs[:i], s.ImageURLs[i+1:]...)
}
