// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atelier-sesje/atelier-go/internal/cache"
	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/service"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// SessionsHandler handles admin photo session management routes.
type SessionsHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	uploadService  *service.UploadService
	sitemap        *cache.SitemapCache
}

// NewSessionsHandler creates a new SessionsHandler. sitemap may be nil
// when no sitemap cache is in use.
func NewSessionsHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, us *service.UploadService, sitemap *cache.SitemapCache) *SessionsHandler {
	return &SessionsHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
		uploadService:  us,
		sitemap:        sitemap,
	}
}

// invalidateSitemap drops the cached sitemap after a session change.
func (h *SessionsHandler) invalidateSitemap(r *http.Request) {
	if h.sitemap == nil {
		return
	}
	if err := h.sitemap.Invalidate(r.Context()); err != nil {
		slog.Error("failed to invalidate sitemap cache", "error", err)
	}
}

// sessionFormData holds data for the session create/edit form.
type sessionFormData struct {
	Session    model.Session
	Categories []string
	IsNew      bool
}

// sessionForm holds validated form input for a photo session.
type sessionForm struct {
	Title       string
	Description string
	Category    string
	Year        string
}

// parseSessionForm extracts and validates session fields from the request form.
func parseSessionForm(r *http.Request) (sessionForm, string) {
	form := sessionForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Year:        strings.TrimSpace(r.FormValue("year")),
	}

	if form.Title == "" {
		return form, "Tytuł jest wymagany"
	}
	if form.Category == "" {
		return form, "Kategoria jest wymagana"
	}
	if form.Year == "" {
		return form, "Rok jest wymagany"
	}
	if year, err := strconv.Atoi(form.Year); err != nil || year < 1900 || year > time.Now().Year()+1 {
		return form, "Nieprawidłowy rok"
	}

	return form, ""
}

// NewForm renders the session creation form.
func (h *SessionsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListSessionCategories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	if err := h.renderer.Render(w, r, "admin/session_form", render.TemplateData{
		Title:   "Nowa sesja",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data: sessionFormData{
			Session:    model.Session{Year: strconv.Itoa(time.Now().Year())},
			Categories: categories,
			IsNew:      true,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render session form", "error", err)
	}
}

// Create handles the session creation form submission.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteNewSession) {
		return
	}

	form, errMsg := parseSessionForm(r)
	if errMsg != "" {
		flashError(w, r, h.renderer, RouteNewSession, errMsg)
		return
	}

	now := time.Now()
	session, err := h.queries.CreateSession(r.Context(), store.CreateSessionParams{
		ID:          uuid.NewString(),
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Year:        form.Year,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		flashError(w, r, h.renderer, RouteNewSession, "Nie udało się utworzyć sesji")
		return
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session created", middleware.GetUserID(r), map[string]any{"session_id": session.ID, "title": session.Title})
	h.invalidateSitemap(r)

	flashSuccess(w, r, h.renderer, editSessionPath(session.ID), "Sesja utworzona. Dodaj zdjęcia.")
}

// EditForm renders the session edit form.
func (h *SessionsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := requireSessionWithRedirect(w, r, h.renderer, RouteDashboard, id,
		func(id string) (model.Session, error) { return h.queries.GetSessionByID(r.Context(), id) })
	if !ok {
		return
	}

	categories, err := h.queries.ListSessionCategories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}

	if err := h.renderer.Render(w, r, "admin/session_form", render.TemplateData{
		Title:   "Edycja: " + session.Title,
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data: sessionFormData{
			Session:    session,
			Categories: categories,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render session form", "error", err)
	}
}

// Update handles the session edit form submission.
// Image changes go through the dedicated image routes.
func (h *SessionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !parseFormOrRedirect(w, r, h.renderer, editSessionPath(id)) {
		return
	}

	form, errMsg := parseSessionForm(r)
	if errMsg != "" {
		flashError(w, r, h.renderer, editSessionPath(id), errMsg)
		return
	}

	session, err := h.queries.UpdateSession(r.Context(), store.UpdateSessionParams{
		ID:          id,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Year:        form.Year,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, RouteDashboard, "Nie znaleziono sesji")
			return
		}
		slog.Error("failed to update session", "error", err, "session_id", id)
		flashError(w, r, h.renderer, editSessionPath(id), "Nie udało się zapisać zmian")
		return
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session updated", middleware.GetUserID(r), map[string]any{"session_id": session.ID})
	h.invalidateSitemap(r)

	flashSuccess(w, r, h.renderer, editSessionPath(id), "Zapisano zmiany")
}

// UploadImages handles image uploads for a session.
// Files are processed one at a time; when one fails, earlier successes are
// kept and the failure is reported.
func (h *SessionsHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := requireSessionWithRedirect(w, r, h.renderer, RouteDashboard, id,
		func(id string) (model.Session, error) { return h.queries.GetSessionByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, editSessionPath(id), "Nieprawidłowe dane formularza")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		flashError(w, r, h.renderer, editSessionPath(id), "Nie wybrano żadnych zdjęć")
		return
	}

	urls, uploadErr := h.uploadService.UploadImages(headers)

	if len(urls) > 0 {
		if _, err := h.queries.UpdateSessionImages(r.Context(), store.UpdateSessionImagesParams{
			ID:        id,
			ImageURLs: append(session.ImageURLs, urls...),
			UpdatedAt: time.Now(),
		}); err != nil {
			slog.Error("failed to save session images", "error", err, "session_id", id)
			flashError(w, r, h.renderer, editSessionPath(id), "Nie udało się zapisać zdjęć")
			return
		}

		_ = h.eventService.LogUploadEvent(r.Context(), model.EventLevelInfo, "Images uploaded", middleware.GetUserID(r), map[string]any{"session_id": id, "count": len(urls)})
		h.invalidateSitemap(r)
	}

	if uploadErr != nil {
		var ue *service.UploadError
		failedName := ""
		if errors.As(uploadErr, &ue) {
			failedName = ue.Filename
		}
		slog.Error("image upload failed", "error", uploadErr, "session_id", id, "saved", len(urls))
		if len(urls) > 0 {
			flashError(w, r, h.renderer, editSessionPath(id), "Zapisano "+strconv.Itoa(len(urls))+" zdjęć, ale "+failedName+" nie udało się przetworzyć")
		} else {
			flashError(w, r, h.renderer, editSessionPath(id), "Nie udało się przetworzyć zdjęcia "+failedName)
		}
		return
	}

	flashSuccess(w, r, h.renderer, editSessionPath(id), "Dodano zdjęcia: "+strconv.Itoa(len(urls)))
}

// SetPrimaryImage moves the chosen image to the front of the list.
// The first image serves as the session cover on the public site.
func (h *SessionsHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	h.updateImages(w, r, "Ustawiono zdjęcie główne", func(session *model.Session, index int) {
		session.SetPrimaryImage(index)
	})
}

// RemoveImage removes an image from the session and deletes it from disk.
func (h *SessionsHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	h.updateImages(w, r, "Usunięto zdjęcie", func(session *model.Session, index int) {
		if index >= 0 && index < len(session.ImageURLs) {
			if err := h.uploadService.DeleteImage(session.ImageURLs[index]); err != nil {
				slog.Error("failed to delete image file", "error", err, "url", session.ImageURLs[index])
			}
		}
		session.RemoveImage(index)
	})
}

// updateImages applies an index-based mutation to a session's image list.
func (h *SessionsHandler) updateImages(w http.ResponseWriter, r *http.Request, successMsg string, mutate func(*model.Session, int)) {
	id := chi.URLParam(r, "id")

	if !parseFormOrRedirect(w, r, h.renderer, editSessionPath(id)) {
		return
	}

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		flashError(w, r, h.renderer, editSessionPath(id), "Nieprawidłowe zdjęcie")
		return
	}

	session, ok := requireSessionWithRedirect(w, r, h.renderer, RouteDashboard, id,
		func(id string) (model.Session, error) { return h.queries.GetSessionByID(r.Context(), id) })
	if !ok {
		return
	}

	mutate(&session, index)

	if _, err := h.queries.UpdateSessionImages(r.Context(), store.UpdateSessionImagesParams{
		ID:        id,
		ImageURLs: session.ImageURLs,
		UpdatedAt: time.Now(),
	}); err != nil {
		slog.Error("failed to update session images", "error", err, "session_id", id)
		flashError(w, r, h.renderer, editSessionPath(id), "Nie udało się zapisać zmian")
		return
	}

	h.invalidateSitemap(r)

	flashSuccess(w, r, h.renderer, editSessionPath(id), successMsg)
}

// ConfirmDelete renders the delete confirmation page.
// Deletion itself only happens on the POST route.
func (h *SessionsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := requireSessionWithRedirect(w, r, h.renderer, RouteDashboard, id,
		func(id string) (model.Session, error) { return h.queries.GetSessionByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/session_delete", render.TemplateData{
		Title:   "Usuń sesję",
		User:    middleware.GetUser(r),
		IsAdmin: middleware.IsAdmin(r),
		Data:    session,
	}); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "error", err)
	}
}

// Delete handles the confirmed session deletion, including image cleanup.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := requireSessionWithRedirect(w, r, h.renderer, RouteDashboard, id,
		func(id string) (model.Session, error) { return h.queries.GetSessionByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteSession(r.Context(), id); err != nil {
		slog.Error("failed to delete session", "error", err, "session_id", id)
		flashError(w, r, h.renderer, RouteDashboard, "Nie udało się usunąć sesji")
		return
	}

	for _, url := range session.ImageURLs {
		if err := h.uploadService.DeleteImage(url); err != nil {
			slog.Error("failed to delete image file", "error", err, "url", url)
		}
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session deleted", middleware.GetUserID(r), map[string]any{"session_id": id, "title": session.Title})
	h.invalidateSitemap(r)

	flashSuccess(w, r, h.renderer, RouteDashboard, "Sesja usunięta")
}

// editSessionPath builds the edit route for a session ID.
func editSessionPath(id string) string {
	return "/admin/edit-session/" + id
}
