// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a config log level string to a slog.Level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the base slog handler for the given format.
// "pretty" uses colorized tint output for development, anything else
// falls back to the plain text handler.
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == "pretty" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}
