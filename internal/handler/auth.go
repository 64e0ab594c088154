// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/atelier-sesje/atelier-go/internal/auth"
	"github.com/atelier-sesje/atelier-go/internal/geoip"
	"github.com/atelier-sesje/atelier-go/internal/identity"
	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/service"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = "user_id"

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	allowList       *auth.AllowList
	broadcaster     *identity.Broadcaster
	geo             *geoip.Lookup
}

// NewAuthHandler creates a new AuthHandler. geo may be nil when GeoIP
// lookups are not configured.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, al *auth.AllowList, bc *identity.Broadcaster, geo *geoip.Lookup) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		allowList:       al,
		broadcaster:     bc,
		geo:             geo,
	}
}

// loginFormData holds data for the sign-in page.
type loginFormData struct {
	From string
}

// LoginForm renders the sign-in page.
// Already-authenticated users are redirected to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	data := loginFormData{
		From: safeReturnPath(r.URL.Query().Get("from")),
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Logowanie",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the sign-in form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Podaj adres e-mail i hasło")
		return
	}

	clientIP := clientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", 0, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectLogin, "Konto jest tymczasowo zablokowane. Spróbuj ponownie za "+formatDuration(remaining))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "email", email)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: user not found", 0, clientIP, map[string]any{"email": email, "client": clientDevice(r)})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		if h.recordFailure(w, r, email, 0, clientIP) {
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Nieprawidłowy e-mail lub hasło")
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Nieprawidłowy e-mail lub hasło")
		return
	}

	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid password", user.ID, clientIP, map[string]any{"email": email, "client": clientDevice(r)})
		if h.recordFailure(w, r, email, user.ID, clientIP) {
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Nieprawidłowy e-mail lub hasło")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash password if it uses old/expensive parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
		// Don't block login on this error
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	isAdmin := h.allowList.IsAdmin(user.Email)
	if h.broadcaster != nil {
		h.broadcaster.SignIn(&user, isAdmin)
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email, "is_admin", isAdmin)
	loginMeta := map[string]any{"email": user.Email, "client": clientDevice(r)}
	if country := countryOf(h.geo, clientIP); country != "" {
		loginMeta["country"] = country
	}
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", user.ID, clientIP, loginMeta)

	if isAdmin {
		h.renderer.SetFlash(r, "Zalogowano jako administrator", "success")
	} else {
		h.renderer.SetFlash(r, "Witaj ponownie, "+user.Name, "success")
	}

	// The "from" location is carried through the login form for a possible
	// manual return, but sign-in always lands on the fixed destinations.
	if isAdmin {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
	}
}

// recordFailure records a failed attempt and handles lockout and
// remaining-attempt warnings. Returns true if a response was written.
func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, email string, userID int64, clientIP string) bool {
	if h.loginProtection == nil {
		return false
	}

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", userID, clientIP, map[string]any{"email": email, "duration": lockDuration.String()})
		flashError(w, r, h.renderer, redirectLogin, "Zbyt wiele nieudanych prób. Konto zablokowane na "+formatDuration(lockDuration))
		return true
	}

	remaining := h.loginProtection.GetRemainingAttempts(email)
	if remaining <= 3 && remaining > 0 {
		flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Nieprawidłowy e-mail lub hasło. Pozostało prób: %d", remaining))
		return true
	}

	return false
}

// Logout handles user sign-out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", userID, clientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	if h.broadcaster != nil {
		h.broadcaster.SignOut()
	}

	slog.Info("user logged out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, redirectLogin, "Wylogowano pomyślnie", "info")
}

// safeReturnPath validates a post-login return path.
// Only local paths are allowed; anything else returns "".
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return ""
	}
	return p
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d s", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return fmt.Sprintf("%d h", int(d.Hours()))
}
