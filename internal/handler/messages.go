// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// MessagesHandler handles admin contact message routes.
type MessagesHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *MessagesHandler {
	return &MessagesHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// messagesListData holds data for the messages list page.
type messagesListData struct {
	Messages    []model.ContactMessage
	UnreadCount int64
}

// List renders the contact messages list, newest first.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.queries.ListMessages(r.Context())
	if err != nil {
		slog.Error("failed to list messages", "error", err)
		flashError(w, r, h.renderer, RouteDashboard, "Błąd wczytywania wiadomości")
		return
	}

	unread, err := h.queries.CountUnreadMessages(r.Context())
	if err != nil {
		slog.Error("failed to count unread messages", "error", err)
	}

	if err := h.renderer.Render(w, r, "admin/messages", render.TemplateData{
		Title:   "Wiadomości",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data: messagesListData{
			Messages:    messages,
			UnreadCount: unread,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render messages", "error", err)
	}
}

// MarkRead marks a contact message as read.
// Marking an already-read message is a no-op.
func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.queries.GetMessageByID(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, RouteMessages, "Nie znaleziono wiadomości")
		return
	}

	if err := h.queries.MarkMessageRead(r.Context(), id); err != nil {
		slog.Error("failed to mark message read", "error", err, "message_id", id)
		flashError(w, r, h.renderer, RouteMessages, "Nie udało się oznaczyć wiadomości")
		return
	}

	http.Redirect(w, r, RouteMessages, http.StatusSeeOther)
}
