// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/atelier-sesje/atelier-go/internal/auth"
	"github.com/atelier-sesje/atelier-go/internal/identity"
	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

const testPassword = "bardzo-tajne-haslo"

func createTestUser(t *testing.T, db *sql.DB, email string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Anna",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func newAuthHandler(t *testing.T, db *sql.DB, allowList *auth.AllowList) (*AuthHandler, *scs.SessionManager, *identity.Broadcaster) {
	t.Helper()

	sm := scs.New()
	renderer := newTestRenderer(t, sm)
	bc := identity.NewBroadcaster()
	h := NewAuthHandler(db, renderer, sm, nil, allowList, bc, nil)
	return h, sm, bc
}

func TestLoginSuccessAdmin(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "anna@ateliersesje.pl")
	h, sm, bc := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	form := url.Values{
		"email":    {"anna@ateliersesje.pl"},
		"password": {testPassword},
	}
	req := postForm(t, sm, RouteAdmin, form)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != RouteDashboard {
		t.Errorf("Location = %q, want %q", loc, RouteDashboard)
	}

	if got := sm.GetInt64(req.Context(), SessionKeyUserID); got != user.ID {
		t.Errorf("session user_id = %d, want %d", got, user.ID)
	}

	state := bc.State()
	if !state.SignedIn() || !state.IsAdmin {
		t.Errorf("broadcaster state = %+v, want signed-in admin", state)
	}

	if flash := sm.GetString(req.Context(), "flash"); flash != "Zalogowano jako administrator" {
		t.Errorf("flash = %q, want admin sign-in notification", flash)
	}
}

func TestLoginSuccessNonAdminGoesHome(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "gosc@example.com")
	h, sm, bc := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	form := url.Values{
		"email":    {"gosc@example.com"},
		"password": {testPassword},
	}
	req := postForm(t, sm, RouteAdmin, form)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if loc := rec.Header().Get("Location"); loc != RouteRoot {
		t.Errorf("Location = %q, want %q", loc, RouteRoot)
	}

	if state := bc.State(); state.IsAdmin {
		t.Error("broadcaster reports admin for non-allow-listed user")
	}

	if flash := sm.GetString(req.Context(), "flash"); flash != "Witaj ponownie, Anna" {
		t.Errorf("flash = %q, want personal greeting for non-admin", flash)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "anna@ateliersesje.pl")
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	form := url.Values{
		"email":    {"anna@ateliersesje.pl"},
		"password": {"złe hasło"},
	}
	req := postForm(t, sm, RouteAdmin, form)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if loc := rec.Header().Get("Location"); loc != RouteAdmin {
		t.Errorf("Location = %q, want %q (back to login)", loc, RouteAdmin)
	}
	if got := sm.GetInt64(req.Context(), SessionKeyUserID); got != 0 {
		t.Errorf("session user_id = %d, want 0", got)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db := testDB(t)
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList(nil))

	form := url.Values{
		"email":    {"nieznany@example.com"},
		"password": {testPassword},
	}
	rec := httptest.NewRecorder()
	h.Login(rec, postForm(t, sm, RouteAdmin, form))

	if loc := rec.Header().Get("Location"); loc != RouteAdmin {
		t.Errorf("Location = %q, want %q", loc, RouteAdmin)
	}
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "anna@ateliersesje.pl")
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	form := url.Values{
		"email":    {"anna@ateliersesje.pl"},
		"password": {testPassword},
	}
	rec := httptest.NewRecorder()
	h.Login(rec, postForm(t, sm, RouteAdmin, form))

	updated, err := store.New(db).GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !updated.LastLoginAt.Valid {
		t.Error("LastLoginAt not set after login")
	}
}

func TestLoginDoesNotConsumeReturnPath(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "anna@ateliersesje.pl")
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	form := url.Values{
		"email":    {"anna@ateliersesje.pl"},
		"password": {testPassword},
		"from":     {"/admin/messages"},
	}
	rec := httptest.NewRecorder()
	h.Login(rec, postForm(t, sm, RouteAdmin, form))

	if loc := rec.Header().Get("Location"); loc != RouteDashboard {
		t.Errorf("Location = %q, want %q (carried location must not redirect)", loc, RouteDashboard)
	}
}

func TestLoginFormCarriesReturnPath(t *testing.T) {
	db := testDB(t)
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList(nil))

	req := withSessionContext(t, sm, httptest.NewRequest(http.MethodGet, RouteAdmin+"?from=%2Fadmin%2Fmessages", nil))
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	if !strings.Contains(rec.Body.String(), `value="/admin/messages"`) {
		t.Errorf("login form does not carry the original location: %s", rec.Body.String())
	}
}

func TestLoginFormDropsExternalReturnPath(t *testing.T) {
	db := testDB(t)
	h, sm, _ := newAuthHandler(t, db, auth.NewAllowList(nil))

	req := withSessionContext(t, sm, httptest.NewRequest(http.MethodGet, RouteAdmin+"?from=%2F%2Fevil.example.com%2F", nil))
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	if strings.Contains(rec.Body.String(), "evil.example.com") {
		t.Error("login form carries an external location")
	}
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "anna@ateliersesje.pl")
	h, sm, bc := newAuthHandler(t, db, auth.NewAllowList([]string{"anna@ateliersesje.pl"}))

	req := withSessionContext(t, sm, httptest.NewRequest(http.MethodPost, RouteLogout, nil))
	sm.Put(req.Context(), SessionKeyUserID, user.ID)
	bc.SignIn(&user, true)

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if loc := rec.Header().Get("Location"); loc != RouteAdmin {
		t.Errorf("Location = %q, want %q", loc, RouteAdmin)
	}
	if bc.State().SignedIn() {
		t.Error("broadcaster still reports signed-in after logout")
	}
}

func TestSafeReturnPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/admin/messages", "/admin/messages"},
		{"//evil.example.com", ""},
		{"https://evil.example.com", ""},
		{"admin", ""},
	}

	for _, tt := range tests {
		if got := safeReturnPath(tt.in); got != tt.want {
			t.Errorf("safeReturnPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
