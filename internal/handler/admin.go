// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements HTTP handlers for the public portfolio site
// and the admin panel, including authentication, photo session management,
// contact messages, and CSV export.
package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// DashboardStats holds the statistics displayed on the dashboard.
type DashboardStats struct {
	TotalSessions  int64
	TotalMessages  int64
	UnreadMessages int64
}

// RecentEvent represents a recent application event for dashboard display.
type RecentEvent struct {
	Level     string
	Category  string
	Message   string
	CreatedAt string
}

// DashboardData holds all dashboard data including stats and recent activity.
type DashboardData struct {
	Stats        DashboardStats
	Sessions     []model.Session
	RecentEvents []RecentEvent
}

// AdminHandler handles admin panel routes.
type AdminHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// Dashboard renders the admin dashboard with stats and recent activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := DashboardStats{}

	if count, err := h.queries.CountSessions(ctx); err != nil {
		slog.Error("failed to count sessions", "error", err)
	} else {
		stats.TotalSessions = count
	}

	if count, err := h.queries.CountMessages(ctx); err != nil {
		slog.Error("failed to count messages", "error", err)
	} else {
		stats.TotalMessages = count
	}

	if count, err := h.queries.CountUnreadMessages(ctx); err != nil {
		slog.Error("failed to count unread messages", "error", err)
	} else {
		stats.UnreadMessages = count
	}

	sessions, err := h.queries.ListSessions(ctx)
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
	}

	var recentEvents []RecentEvent
	if events, err := h.queries.ListEvents(ctx, store.ListEventsParams{Limit: 5}); err != nil {
		slog.Error("failed to list recent events", "error", err)
	} else {
		for _, e := range events {
			recentEvents = append(recentEvents, RecentEvent{
				Level:     e.Level,
				Category:  e.Category,
				Message:   e.Message,
				CreatedAt: e.CreatedAt.Format("Jan 2, 2006 15:04"),
			})
		}
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title:   "Panel administracyjny",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data: DashboardData{
			Stats:        stats,
			Sessions:     sessions,
			RecentEvents: recentEvents,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
