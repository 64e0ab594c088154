// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "atelier-service-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})
	return db
}

func TestLogAuthEvent(t *testing.T) {
	db := testDB(t)
	s := NewEventService(db)
	ctx := context.Background()

	err := s.LogAuthEvent(ctx, model.EventLevelWarning, "failed login", 0, "10.0.0.1", map[string]any{
		"email": "ktos@example.com",
	})
	if err != nil {
		t.Fatalf("LogAuthEvent: %v", err)
	}

	events, err := store.New(db).ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryAuth)
	}
	if e.IP != "10.0.0.1" {
		t.Errorf("IP = %q, want %q", e.IP, "10.0.0.1")
	}
	if e.UserID.Valid {
		t.Error("UserID should be null for anonymous events")
	}
}

func TestLogSessionEvent_WithUser(t *testing.T) {
	db := testDB(t)
	s := NewEventService(db)
	ctx := context.Background()

	now := time.Now()
	user, err := store.New(db).CreateUser(ctx, store.CreateUserParams{
		Email:        "anna@ateliersesje.pl",
		PasswordHash: "hash",
		Name:         "Anna",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = s.LogSessionEvent(ctx, model.EventLevelInfo, "session created", user.ID, nil)
	if err != nil {
		t.Fatalf("LogSessionEvent: %v", err)
	}

	events, err := store.New(db).ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if !events[0].UserID.Valid || events[0].UserID.Int64 != user.ID {
		t.Errorf("UserID = %v, want %d", events[0].UserID, user.ID)
	}
}

func TestDeleteOldEvents(t *testing.T) {
	db := testDB(t)
	s := NewEventService(db)
	ctx := context.Background()
	q := store.New(db)

	_, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "old",
		CreatedAt: time.Now().Add(-72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	_, err = q.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "fresh",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if err := s.DeleteOldEvents(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}

	count, err := q.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
