// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
)

// encodeImageURLs serializes the image list for the image_urls column.
// A nil slice encodes as an empty JSON array so the column never holds NULL.
func encodeImageURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("encoding image urls: %w", err)
	}
	return string(b), nil
}

// decodeImageURLs parses the image_urls column. Rows that do not hold a
// JSON string array are rejected rather than silently truncated.
func decodeImageURLs(raw string) ([]string, error) {
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, fmt.Errorf("decoding image urls: %w", err)
	}
	return urls, nil
}

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var (
		s       model.Session
		rawURLs string
	)
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Category, &s.Year, &rawURLs, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Session{}, err
	}
	s.ImageURLs, err = decodeImageURLs(rawURLs)
	if err != nil {
		return model.Session{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return s, nil
}

const createSession = `
INSERT INTO photo_sessions (id, title, description, category, year, image_urls, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, description, category, year, image_urls, created_at, updated_at
`

// CreateSessionParams holds the fields for creating a photo session.
type CreateSessionParams struct {
	ID          string
	Title       string
	Description string
	Category    string
	Year        string
	ImageURLs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateSession inserts a new photo session and returns the created row.
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (model.Session, error) {
	rawURLs, err := encodeImageURLs(arg.ImageURLs)
	if err != nil {
		return model.Session{}, err
	}
	row := q.db.QueryRowContext(ctx, createSession,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Category,
		arg.Year,
		rawURLs,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSession(row)
}

const getSessionByID = `
SELECT id, title, description, category, year, image_urls, created_at, updated_at
FROM photo_sessions WHERE id = ?
`

// GetSessionByID looks up a photo session by ID.
func (q *Queries) GetSessionByID(ctx context.Context, id string) (model.Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByID, id)
	return scanSession(row)
}

const listSessions = `
SELECT id, title, description, category, year, image_urls, created_at, updated_at
FROM photo_sessions ORDER BY created_at DESC
`

// ListSessions returns all photo sessions, newest first.
func (q *Queries) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const listSessionsByCategory = `
SELECT id, title, description, category, year, image_urls, created_at, updated_at
FROM photo_sessions WHERE category = ? ORDER BY created_at DESC
`

// ListSessionsByCategory returns photo sessions in one category, newest first.
func (q *Queries) ListSessionsByCategory(ctx context.Context, category string) ([]model.Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessionsByCategory, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const listSessionCategories = `
SELECT DISTINCT category FROM photo_sessions ORDER BY category
`

// ListSessionCategories returns the distinct categories in use.
func (q *Queries) ListSessionCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listSessionCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const updateSession = `
UPDATE photo_sessions
SET title = ?, description = ?, category = ?, year = ?, updated_at = ?
WHERE id = ?
RETURNING id, title, description, category, year, image_urls, created_at, updated_at
`

// UpdateSessionParams holds the editable fields of a photo session.
// Image URLs are updated separately by UpdateSessionImages.
type UpdateSessionParams struct {
	ID          string
	Title       string
	Description string
	Category    string
	Year        string
	UpdatedAt   time.Time
}

// UpdateSession updates the text fields of a photo session.
func (q *Queries) UpdateSession(ctx context.Context, arg UpdateSessionParams) (model.Session, error) {
	row := q.db.QueryRowContext(ctx, updateSession,
		arg.Title,
		arg.Description,
		arg.Category,
		arg.Year,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanSession(row)
}

const updateSessionImages = `
UPDATE photo_sessions SET image_urls = ?, updated_at = ? WHERE id = ?
RETURNING id, title, description, category, year, image_urls, created_at, updated_at
`

// UpdateSessionImagesParams holds a replacement image list.
type UpdateSessionImagesParams struct {
	ID        string
	ImageURLs []string
	UpdatedAt time.Time
}

// UpdateSessionImages replaces the image list of a photo session.
func (q *Queries) UpdateSessionImages(ctx context.Context, arg UpdateSessionImagesParams) (model.Session, error) {
	rawURLs, err := encodeImageURLs(arg.ImageURLs)
	if err != nil {
		return model.Session{}, err
	}
	row := q.db.QueryRowContext(ctx, updateSessionImages, rawURLs, arg.UpdatedAt, arg.ID)
	return scanSession(row)
}

const deleteSession = `DELETE FROM photo_sessions WHERE id = ?`

// DeleteSession removes a photo session.
func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}

const countSessions = `SELECT COUNT(*) FROM photo_sessions`

// CountSessions returns the total number of photo sessions.
func (q *Queries) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSessions).Scan(&count)
	return count, err
}
