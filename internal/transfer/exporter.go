// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/store"
)

// Exporter writes site content as CSV downloads.
type Exporter struct {
	store  *store.Queries
	logger *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		store:  queries,
		logger: logger,
	}
}

// SessionsFilename returns the dated download name for a sessions export.
func SessionsFilename(now time.Time) string {
	return fmt.Sprintf("sessions_export_%s.csv", now.Format("2006-01-02"))
}

// MessagesFilename returns the dated download name for a messages export.
func MessagesFilename(now time.Time) string {
	return fmt.Sprintf("messages_export_%s.csv", now.Format("2006-01-02"))
}

// ExportSessions writes all photo sessions as CSV. The image list is
// flattened to a count rather than raw URLs.
func (e *Exporter) ExportSessions(ctx context.Context, w io.Writer) error {
	sessions, err := e.store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	records := make([]Record, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, Record{
			{Key: "id", Value: s.ID},
			{Key: "title", Value: s.Title},
			{Key: "description", Value: s.Description},
			{Key: "category", Value: s.Category},
			{Key: "year", Value: s.Year},
			{Key: "created_at", Value: s.CreatedAt.UTC().Format(time.RFC3339)},
			{Key: "image_count", Value: len(s.ImageURLs)},
		})
	}

	if _, err := io.WriteString(w, Marshal(records)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	e.logger.Info("exported sessions", "count", len(records))
	return nil
}

// ExportMessages writes all contact messages as CSV.
func (e *Exporter) ExportMessages(ctx context.Context, w io.Writer) error {
	messages, err := e.store.ListMessages(ctx)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}

	records := make([]Record, 0, len(messages))
	for _, m := range messages {
		records = append(records, Record{
			{Key: "id", Value: m.ID},
			{Key: "name", Value: m.Name},
			{Key: "email", Value: m.Email},
			{Key: "message", Value: m.Message},
			{Key: "read", Value: m.Read},
			{Key: "created_at", Value: m.CreatedAt.UTC().Format(time.RFC3339)},
		})
	}

	if _, err := io.WriteString(w, Marshal(records)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	e.logger.Info("exported contact messages", "count", len(records))
	return nil
}

// WriteDownload sets the headers that make browsers save the response
// as a CSV file instead of rendering it.
func WriteDownload(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
