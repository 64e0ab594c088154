// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategorySession = "session"
	EventCategoryMessage = "message"
	EventCategoryUpload  = "upload"
	EventCategorySystem  = "system"
)

// Event is an audit log entry. Entries are written by the logging handler
// (warn level and above) and by explicit auth/content events.
type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id,omitempty"`
	IP        string        `json:"ip,omitempty"`
	Path      string        `json:"path,omitempty"`
	Metadata  string        `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
