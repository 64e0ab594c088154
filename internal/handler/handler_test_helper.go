// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atelier-sesje/atelier-go/internal/model"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// testDB creates a migrated SQLite database in a temp directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// handlerTemplatesFS provides minimal templates covering every page the
// handlers render.
var handlerTemplatesFS = fstest.MapFS{
	"layouts/base.html": &fstest.MapFile{
		Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{block "content" .}}{{end}}{{end}}`),
	},
	"layouts/admin.html": &fstest.MapFile{
		Data: []byte(`{{define "adminNav"}}<nav>admin</nav>{{end}}`),
	},
	"partials/flash.html": &fstest.MapFile{
		Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}{{end}}`),
	},
	"auth/login.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{template "flash" .}}<form>{{if .Data.From}}<input type="hidden" name="from" value="{{.Data.From}}">{{end}}login</form>{{end}}`),
	},
	"admin/dashboard.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{template "adminNav" .}}<p>sesje: {{.Data.Stats.TotalSessions}}</p>{{end}}`),
	},
	"admin/session_form.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<form>{{.Data.Session.Title}}<input name="year" value="{{.Data.Session.Year}}"></form>{{end}}`),
	},
	"admin/session_delete.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<p>usunąć {{.Data.Title}}?</p>{{end}}`),
	},
	"admin/messages.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<p>nieprzeczytane: {{.Data.UnreadCount}}</p>{{end}}`),
	},
	"site/home.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<main>home</main>{{end}}`),
	},
	"site/sessions.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{range .Data.Sessions}}<h2>{{.Title}}</h2>{{end}}{{end}}`),
	},
	"site/session_detail.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<h1>{{.Data.Title}}</h1>{{end}}`),
	},
	"site/about.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<p>o mnie</p>{{end}}`),
	},
	"site/contact.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<form>kontakt</form>{{end}}`),
	},
	"site/404.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<p>404</p>{{end}}`),
	},
}

// newTestRenderer builds a renderer backed by the test templates.
func newTestRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	r, err := render.New(render.Config{
		TemplatesFS:    handlerTemplatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

// withSessionContext loads a session context onto an existing request.
func withSessionContext(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()

	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return req.WithContext(ctx)
}

// withURLParam attaches a chi URL parameter to the request context.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// createTestSession inserts a photo session and returns it.
func createTestSession(t *testing.T, queries *store.Queries, title string, imageURLs []string) model.Session {
	t.Helper()

	now := time.Now()
	session, err := queries.CreateSession(context.Background(), store.CreateSessionParams{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "Opis sesji",
		Category:    "portret",
		Year:        "2026",
		ImageURLs:   imageURLs,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return session
}
