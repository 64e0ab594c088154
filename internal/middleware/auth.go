// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/atelier-sesje/atelier-go/internal/auth"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser    ContextKey = "user"
	ContextKeyIsAdmin ContextKey = "is_admin"
)

// Session keys for storing user data.
const (
	SessionKeyUserID = "user_id"
)

// Auth creates middleware that requires authentication.
// Unauthenticated requests are redirected to the sign-in page with the
// original location preserved in the "from" query parameter.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				loc := "/admin"
				if r.URL.Path != "/admin" {
					loc += "?from=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, loc, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request
// context. A session that references a user no longer in the database is
// destroyed and the request is redirected to the sign-in page.
// This should be used after Auth middleware.
func LoadUser(sm *scs.SessionManager, db *sql.DB, allowList *auth.AllowList) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session - clear it and start over
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyIsAdmin, allowList.IsAdmin(user.Email))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser creates middleware that loads the current user into
// context when a valid session exists, and continues anonymously otherwise.
// Use this for public routes where a signed-in user changes the navigation
// but authentication is not required.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB, allowList *auth.AllowList) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyIsAdmin, allowList.IsAdmin(user.Email))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin creates middleware that restricts a route to allow-listed
// administrators. A signed-in user whose email is not on the allow-list is
// sent back to the public site with a flash message; the protected handler
// is never invoked.
func RequireAdmin(allowList *auth.AllowList, renderer *render.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}

			if !allowList.IsAdmin(user.Email) {
				slog.Warn("admin access denied",
					"email", user.Email,
					"path", r.URL.Path,
				)
				renderer.SetFlash(r, "Brak uprawnień administratora.", "error")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID retrieves the current user's ID from the request context.
// Returns 0 if no user is in context.
func GetUserID(r *http.Request) int64 {
	user := GetUser(r)
	if user == nil {
		return 0
	}
	return user.ID
}

// GetUserEmail retrieves the current user's email from the request context.
// Returns an empty string if no user is in context.
func GetUserEmail(r *http.Request) string {
	user := GetUser(r)
	if user == nil {
		return ""
	}
	return user.Email
}

// IsAdmin reports whether the current user is an allow-listed administrator.
func IsAdmin(r *http.Request) bool {
	isAdmin, ok := r.Context().Value(ContextKeyIsAdmin).(bool)
	return ok && isAdmin
}
