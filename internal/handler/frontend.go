// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/atelier-sesje/atelier-go/internal/geoip"
	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/service"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// maxMessageLength caps contact message bodies.
const maxMessageLength = 5000

// FrontendHandler handles the public portfolio site routes.
type FrontendHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	sanitizer      *bluemonday.Policy
	geo            *geoip.Lookup
}

// NewFrontendHandler creates a new FrontendHandler. geo may be nil when
// GeoIP lookups are not configured.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, geo *geoip.Lookup) *FrontendHandler {
	return &FrontendHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
		sanitizer:      bluemonday.StrictPolicy(),
		geo:            geo,
	}
}

// homeData holds data for the home page.
type homeData struct {
	RecentSessions []model.Session
}

// Home renders the home page with the most recent sessions.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.queries.ListSessions(r.Context())
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
	}
	if len(sessions) > 6 {
		sessions = sessions[:6]
	}

	if err := h.renderer.Render(w, r, "site/home", render.TemplateData{
		Title:   "Atelier Sesje",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data:    homeData{RecentSessions: sessions},
	}); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// sessionsListData holds data for the portfolio listing page.
type sessionsListData struct {
	Sessions   []model.Session
	Categories []string
	Category   string
}

// Sessions renders the portfolio listing, optionally filtered by category.
func (h *FrontendHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("kategoria"))

	var (
		sessions []model.Session
		err      error
	)
	if category != "" {
		sessions, err = h.queries.ListSessionsByCategory(r.Context(), category)
	} else {
		sessions, err = h.queries.ListSessions(r.Context())
	}
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
	}

	categories, err := h.queries.ListSessionCategories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	if err := h.renderer.Render(w, r, "site/sessions", render.TemplateData{
		Title:   "Sesje",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data: sessionsListData{
			Sessions:   sessions,
			Categories: categories,
			Category:   category,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render sessions page", "error", err)
	}
}

// SessionDetail renders a single photo session with its image gallery.
func (h *FrontendHandler) SessionDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.queries.GetSessionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to get session", "error", err, "session_id", id)
		return
	}

	if err := h.renderer.Render(w, r, "site/session_detail", render.TemplateData{
		Title:   session.Title,
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data:    session,
	}); err != nil {
		logAndInternalError(w, "failed to render session detail", "error", err)
	}
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "site/about", render.TemplateData{
		Title:   "O mnie",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
	}); err != nil {
		logAndInternalError(w, "failed to render about page", "error", err)
	}
}

// contactFormData holds previously entered values for form redisplay.
type contactFormData struct {
	Name    string
	Email   string
	Message string
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "site/contact", render.TemplateData{
		Title:   "Kontakt",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data:    contactFormData{},
	}); err != nil {
		logAndInternalError(w, "failed to render contact page", "error", err)
	}
}

// ContactSubmit handles the contact form submission.
func (h *FrontendHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	name := h.sanitizer.Sanitize(strings.TrimSpace(r.FormValue("name")))
	email := strings.TrimSpace(r.FormValue("email"))
	message := h.sanitizer.Sanitize(strings.TrimSpace(r.FormValue("message")))

	if name == "" || email == "" || message == "" {
		flashError(w, r, h.renderer, RouteContact, "Wypełnij wszystkie pola formularza")
		return
	}

	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, RouteContact, "Nieprawidłowy adres e-mail")
		return
	}

	if len(message) > maxMessageLength {
		flashError(w, r, h.renderer, RouteContact, "Wiadomość jest zbyt długa")
		return
	}

	msg, err := h.queries.CreateMessage(r.Context(), store.CreateMessageParams{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to save contact message", "error", err)
		flashError(w, r, h.renderer, RouteContact, "Nie udało się wysłać wiadomości. Spróbuj ponownie.")
		return
	}

	contactMeta := map[string]any{"message_id": msg.ID, "client": clientDevice(r)}
	if country := countryOf(h.geo, clientIP(r)); country != "" {
		contactMeta["country"] = country
	}
	_ = h.eventService.LogMessageEvent(r.Context(), model.EventLevelInfo, "Contact message received", clientIP(r), contactMeta)

	flashSuccess(w, r, h.renderer, RouteContact, "Dziękujemy za wiadomość. Odpowiemy wkrótce.")
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "site/404", render.TemplateData{
		Title:   "Nie znaleziono strony",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
	}); err != nil {
		slog.Error("failed to render 404 page", "error", err)
	}
}
