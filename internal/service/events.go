// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store, including
// audit event logging and image uploads.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// EventService provides event logging functionality.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry. userID 0 means no user.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID int64, ip, path string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		Path:      path,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "message", message)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID int64, ip string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, ip, "", metadata)
}

// LogSessionEvent logs a photo session content event.
func (s *EventService) LogSessionEvent(ctx context.Context, level, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySession, message, userID, "", "", metadata)
}

// LogMessageEvent logs a contact message event.
func (s *EventService) LogMessageEvent(ctx context.Context, level, message string, ip string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryMessage, message, 0, ip, "", metadata)
}

// LogUploadEvent logs an image upload event.
func (s *EventService) LogUploadEvent(ctx context.Context, level, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryUpload, message, userID, "", "", metadata)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.queries.PurgeEventsBefore(ctx, cutoff)
	return err
}
