// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/store"
	"github.com/atelier-sesje/atelier-go/internal/transfer"
)

// ExportHandler handles CSV export and template download routes.
type ExportHandler struct {
	exporter *transfer.Exporter
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(db *sql.DB) *ExportHandler {
	return &ExportHandler{
		exporter: transfer.NewExporter(store.New(db), slog.Default()),
	}
}

// SessionsCSV streams all photo sessions as a CSV download.
func (h *ExportHandler) SessionsCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.exporter.ExportSessions(r.Context(), &buf); err != nil {
		logAndInternalError(w, "failed to export sessions", "error", err)
		return
	}

	transfer.WriteDownload(w, transfer.SessionsFilename(time.Now()))
	_, _ = io.Copy(w, &buf)
}

// MessagesCSV streams all contact messages as a CSV download.
func (h *ExportHandler) MessagesCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.exporter.ExportMessages(r.Context(), &buf); err != nil {
		logAndInternalError(w, "failed to export messages", "error", err)
		return
	}

	transfer.WriteDownload(w, transfer.MessagesFilename(time.Now()))
	_, _ = io.Copy(w, &buf)
}

// SessionsTemplateCSV serves a sample CSV showing the expected session format.
func (h *ExportHandler) SessionsTemplateCSV(w http.ResponseWriter, r *http.Request) {
	transfer.WriteDownload(w, transfer.SessionsTemplateFilename)
	_, _ = w.Write([]byte(transfer.SessionsTemplate()))
}

// MessagesTemplateCSV serves a sample CSV showing the contact message format.
func (h *ExportHandler) MessagesTemplateCSV(w http.ResponseWriter, r *http.Request) {
	transfer.WriteDownload(w, transfer.MessagesTemplateFilename)
	_, _ = w.Write([]byte(transfer.MessagesTemplate()))
}
