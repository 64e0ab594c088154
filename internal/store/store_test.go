// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "atelier-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestSession(t *testing.T, q *Queries, title string, urls []string) CreateSessionParams {
	t.Helper()
	now := time.Now()
	arg := CreateSessionParams{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "A test session",
		Category:    "portret",
		Year:        "2026",
		ImageURLs:   urls,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := q.CreateSession(context.Background(), arg); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return arg
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.LastLoginAt.Valid {
		t.Error("LastLoginAt should not be set for a new user")
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByEmail(context.Background(), "nonexistent@example.com")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserLastLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "login@example.com",
		PasswordHash: "hash",
		Name:         "Login User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := q.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}

	found, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !found.LastLoginAt.Valid {
		t.Error("LastLoginAt should be set after login")
	}
}

func TestCreateSession(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	created, err := q.CreateSession(ctx, CreateSessionParams{
		ID:          uuid.NewString(),
		Title:       "Sesja portretowa",
		Description: "Opis sesji",
		Category:    "portret",
		Year:        "2026",
		ImageURLs:   []string{"/uploads/sessions/a.jpg", "/uploads/sessions/b.jpg"},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if created.Title != "Sesja portretowa" {
		t.Errorf("Title = %q, want %q", created.Title, "Sesja portretowa")
	}
	if len(created.ImageURLs) != 2 {
		t.Fatalf("len(ImageURLs) = %d, want 2", len(created.ImageURLs))
	}
	if created.ImageURLs[0] != "/uploads/sessions/a.jpg" {
		t.Errorf("ImageURLs[0] = %q, want %q", created.ImageURLs[0], "/uploads/sessions/a.jpg")
	}
}

func TestCreateSession_NoImages(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	arg := createTestSession(t, q, "Bez zdjec", nil)

	found, err := q.GetSessionByID(ctx, arg.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if len(found.ImageURLs) != 0 {
		t.Errorf("len(ImageURLs) = %d, want 0", len(found.ImageURLs))
	}
}

func TestListSessions_NewestFirst(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	base := time.Now()
	for i := 0; i < 3; i++ {
		_, err := q.CreateSession(ctx, CreateSessionParams{
			ID:        uuid.NewString(),
			Title:     "Sesja " + string(rune('A'+i)),
			Category:  "portret",
			Year:      "2026",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	sessions, err := q.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	if len(sessions) != 3 {
		t.Fatalf("len(sessions) = %d, want 3", len(sessions))
	}
	if sessions[0].Title != "Sesja C" {
		t.Errorf("first title = %q, want %q (newest first)", sessions[0].Title, "Sesja C")
	}
	if sessions[2].Title != "Sesja A" {
		t.Errorf("last title = %q, want %q", sessions[2].Title, "Sesja A")
	}
}

func TestListSessionsByCategory(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	for _, cat := range []string{"portret", "slub", "portret"} {
		_, err := q.CreateSession(ctx, CreateSessionParams{
			ID:        uuid.NewString(),
			Title:     "Sesja " + cat,
			Category:  cat,
			Year:      "2026",
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	portraits, err := q.ListSessionsByCategory(ctx, "portret")
	if err != nil {
		t.Fatalf("ListSessionsByCategory: %v", err)
	}
	if len(portraits) != 2 {
		t.Errorf("len(portraits) = %d, want 2", len(portraits))
	}

	categories, err := q.ListSessionCategories(ctx)
	if err != nil {
		t.Fatalf("ListSessionCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("len(categories) = %d, want 2", len(categories))
	}
}

func TestUpdateSession(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	arg := createTestSession(t, q, "Stary tytul", []string{"/uploads/sessions/a.jpg"})

	updated, err := q.UpdateSession(ctx, UpdateSessionParams{
		ID:          arg.ID,
		Title:       "Nowy tytul",
		Description: "Nowy opis",
		Category:    "slub",
		Year:        "2025",
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if updated.Title != "Nowy tytul" {
		t.Errorf("Title = %q, want %q", updated.Title, "Nowy tytul")
	}
	// Text update must not touch the image list
	if len(updated.ImageURLs) != 1 {
		t.Errorf("len(ImageURLs) = %d, want 1", len(updated.ImageURLs))
	}
}

func TestUpdateSessionImages(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	arg := createTestSession(t, q, "Sesja", []string{"/uploads/sessions/a.jpg"})

	updated, err := q.UpdateSessionImages(ctx, UpdateSessionImagesParams{
		ID:        arg.ID,
		ImageURLs: []string{"/uploads/sessions/b.jpg", "/uploads/sessions/a.jpg"},
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateSessionImages: %v", err)
	}

	if len(updated.ImageURLs) != 2 {
		t.Fatalf("len(ImageURLs) = %d, want 2", len(updated.ImageURLs))
	}
	if updated.ImageURLs[0] != "/uploads/sessions/b.jpg" {
		t.Errorf("ImageURLs[0] = %q, want %q", updated.ImageURLs[0], "/uploads/sessions/b.jpg")
	}
}

func TestDeleteSession(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	arg := createTestSession(t, q, "Do usuniecia", nil)

	if err := q.DeleteSession(ctx, arg.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	_, err := q.GetSessionByID(ctx, arg.ID)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestGetSessionByID_MalformedImageList(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	// Corrupt the column directly
	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO photo_sessions (id, title, description, category, year, image_urls, created_at, updated_at)
		VALUES (?, 'Zepsuta', '', 'portret', '2026', 'not-json', ?, ?)`,
		id, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("inserting corrupt row: %v", err)
	}

	if _, err := q.GetSessionByID(ctx, id); err == nil {
		t.Error("expected error for malformed image_urls, got nil")
	}
}

func TestContactMessages(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	msg, err := q.CreateMessage(ctx, CreateMessageParams{
		ID:        uuid.NewString(),
		Name:      "Anna",
		Email:     "anna@example.com",
		Message:   "Dzien dobry, pytanie o sesje.",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.Read {
		t.Error("new message should be unread")
	}

	unread, err := q.CountUnreadMessages(ctx)
	if err != nil {
		t.Fatalf("CountUnreadMessages: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread = %d, want 1", unread)
	}

	if err := q.MarkMessageRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkMessageRead: %v", err)
	}

	// Marking again is a no-op
	if err := q.MarkMessageRead(ctx, msg.ID); err != nil {
		t.Fatalf("MarkMessageRead (second): %v", err)
	}

	found, err := q.GetMessageByID(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetMessageByID: %v", err)
	}
	if !found.Read {
		t.Error("message should be read after marking")
	}

	unread, err = q.CountUnreadMessages(ctx)
	if err != nil {
		t.Fatalf("CountUnreadMessages: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestCreateEvent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	event, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     "warning",
		Category:  "auth",
		Message:   "failed login attempt",
		IP:        "127.0.0.1",
		Path:      "/admin",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if event.ID == 0 {
		t.Error("event.ID should not be 0")
	}
	if event.UserID.Valid {
		t.Error("UserID should be null when no user is associated")
	}

	events, err := q.ListEvents(ctx, ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestPurgeEventsBefore(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	old := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 3; i++ {
		_, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     "info",
			Category:  "system",
			Message:   "old event",
			CreatedAt: old,
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	_, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     "info",
		Category:  "system",
		Message:   "recent event",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	purged, err := q.PurgeEventsBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeEventsBefore: %v", err)
	}
	if purged != 3 {
		t.Errorf("purged = %d, want 3", purged)
	}

	count, err := q.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.Name != DefaultAdminName {
		t.Errorf("Name = %q, want %q", admin.Name, DefaultAdminName)
	}

	// Second seed should skip
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Second Seed: %v", err)
	}

	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (seed should skip if exists)", count)
	}
}
