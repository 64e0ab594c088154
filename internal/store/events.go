// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
)

const createEvent = `
INSERT INTO events (level, category, message, user_id, ip, path, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, user_id, ip, path, metadata, created_at
`

// CreateEventParams holds the fields for recording an event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    int64 // 0 means no associated user
	IP        string
	Path      string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent records an application event.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	var userID any
	if arg.UserID != 0 {
		userID = arg.UserID
	}
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		userID,
		arg.IP,
		arg.Path,
		arg.Metadata,
		arg.CreatedAt,
	)
	var e model.Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.IP, &e.Path, &e.Metadata, &e.CreatedAt)
	return e, err
}

const listEvents = `
SELECT id, level, category, message, user_id, ip, path, metadata, created_at
FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
`

// ListEventsParams holds pagination bounds for listing events.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns recorded events, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.IP, &e.Path, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const countEvents = `SELECT COUNT(*) FROM events`

// CountEvents returns the total number of recorded events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEvents).Scan(&count)
	return count, err
}

const purgeEventsBefore = `DELETE FROM events WHERE created_at < ?`

// PurgeEventsBefore removes events older than the cutoff and returns
// the number of rows deleted.
func (q *Queries) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, purgeEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
