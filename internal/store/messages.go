// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/model"
)

const createMessage = `
INSERT INTO contact_messages (id, name, email, message, read, created_at)
VALUES (?, ?, ?, ?, 0, ?)
RETURNING id, name, email, message, read, created_at
`

// CreateMessageParams holds the fields for a new contact message.
type CreateMessageParams struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// CreateMessage inserts a new contact message and returns the created row.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createMessage,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Message,
		arg.CreatedAt,
	)
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt)
	return m, err
}

const getMessageByID = `
SELECT id, name, email, message, read, created_at
FROM contact_messages WHERE id = ?
`

// GetMessageByID looks up a contact message by ID.
func (q *Queries) GetMessageByID(ctx context.Context, id string) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, getMessageByID, id)
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt)
	return m, err
}

const listMessages = `
SELECT id, name, email, message, read, created_at
FROM contact_messages ORDER BY created_at DESC
`

// ListMessages returns all contact messages, newest first.
func (q *Queries) ListMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, listMessages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

const markMessageRead = `
UPDATE contact_messages SET read = 1 WHERE id = ?
`

// MarkMessageRead marks a contact message as read. Marking an already
// read message is a no-op.
func (q *Queries) MarkMessageRead(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markMessageRead, id)
	return err
}

const countUnreadMessages = `SELECT COUNT(*) FROM contact_messages WHERE read = 0`

// CountUnreadMessages returns the number of unread contact messages.
func (q *Queries) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUnreadMessages).Scan(&count)
	return count, err
}

const countMessages = `SELECT COUNT(*) FROM contact_messages`

// CountMessages returns the total number of contact messages.
func (q *Queries) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMessages).Scan(&count)
	return count, err
}
