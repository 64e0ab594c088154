// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Command atelier runs the Atelier Sesje portfolio site and its admin panel.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/atelier-sesje/atelier-go/internal/auth"
	"github.com/atelier-sesje/atelier-go/internal/cache"
	"github.com/atelier-sesje/atelier-go/internal/config"
	"github.com/atelier-sesje/atelier-go/internal/geoip"
	"github.com/atelier-sesje/atelier-go/internal/handler"
	"github.com/atelier-sesje/atelier-go/internal/identity"
	"github.com/atelier-sesje/atelier-go/internal/logging"
	"github.com/atelier-sesje/atelier-go/internal/middleware"
	"github.com/atelier-sesje/atelier-go/internal/render"
	"github.com/atelier-sesje/atelier-go/internal/scheduler"
	"github.com/atelier-sesje/atelier-go/internal/service"
	"github.com/atelier-sesje/atelier-go/internal/session"
	"github.com/atelier-sesje/atelier-go/internal/store"
	"github.com/atelier-sesje/atelier-go/internal/version"
	"github.com/atelier-sesje/atelier-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Atelier - portfolio site for a photography studio\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_DB_PATH         SQLite database path (default: ./data/atelier.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_ADMIN_EMAILS    Comma-separated admin allow-list\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ATELIER_UPLOADS_DIR     Uploaded image directory (default: ./uploads)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("atelier %s\n", buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := logging.ParseLevel(cfg.LogLevel)
	logger := slog.New(logging.NewHandler(os.Stdout, cfg.LogFormat, logLevel))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	innerHandler := logging.NewHandler(os.Stdout, cfg.LogFormat, logLevel)
	logger = slog.New(logging.NewEventLogHandler(innerHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	allowList := auth.NewAllowList(cfg.AdminEmails)
	slog.Info("admin allow-list loaded", "count", allowList.Len())

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	uploadService := service.NewUploadService(cfg.UploadsDir)

	broadcaster := identity.NewBroadcaster()
	cancelIdentityLog := broadcaster.Subscribe(func(s identity.State) {
		if s.SignedIn() {
			slog.Debug("identity changed", "user_id", s.User.ID, "is_admin", s.IsAdmin)
		}
	})
	defer cancelIdentityLog()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(db, cfg.UploadsDir, slog.Default())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Backend = cfg.CacheBackend
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.Prefix = "atelier:"
	siteCache, err := cache.New(cacheCfg)
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}
	defer func() {
		if err := siteCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cfg.CacheBackend)

	sitemapCache := cache.NewSitemapCache(siteCache, store.New(db), cfg.SiteURL, time.Hour)

	geoLookup := geoip.NewLookup()
	if err := geoLookup.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("GeoIP lookups disabled", "error", err)
	}
	defer func() { _ = geoLookup.Close() }()

	// Handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, allowList, broadcaster, geoLookup)
	adminHandler := handler.NewAdminHandler(db, renderer, sessionManager)
	sessionsHandler := handler.NewSessionsHandler(db, renderer, sessionManager, uploadService, sitemapCache)
	messagesHandler := handler.NewMessagesHandler(db, renderer, sessionManager)
	exportHandler := handler.NewExportHandler(db)
	frontendHandler := handler.NewFrontendHandler(db, renderer, sessionManager, geoLookup)
	healthHandler := handler.NewHealthHandler(db, buildInfo())
	seoHandler := handler.NewSEOHandler(sitemapCache, cfg.SiteURL, cfg.IsDevelopment())

	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db, allowList))

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteSessions, frontendHandler.Sessions)
		r.Get(handler.RouteSessionDetail, frontendHandler.SessionDetail)
		r.Get(handler.RouteAbout, frontendHandler.About)
		r.Get(handler.RouteContact, frontendHandler.ContactForm)
		r.Post(handler.RouteContact, frontendHandler.ContactSubmit)
	})

	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get("/robots.txt", seoHandler.Robots)

	// Sign-in page and submission
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())

		r.Get(handler.RouteAdmin, authHandler.LoginForm)
		r.Post(handler.RouteAdmin, authHandler.Login)
	})
	r.Post(handler.RouteLogout, authHandler.Logout)

	// Admin panel: authenticated, loaded user, allow-listed
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db, allowList))
		r.Use(middleware.RequireAdmin(allowList, renderer))

		r.Get(handler.RouteDashboard, adminHandler.Dashboard)

		r.Get(handler.RouteNewSession, sessionsHandler.NewForm)
		r.Post(handler.RouteNewSession, sessionsHandler.Create)
		r.Get(handler.RouteEditSession, sessionsHandler.EditForm)
		r.Post(handler.RouteEditSession, sessionsHandler.Update)
		r.Post(handler.RouteSessionImages, sessionsHandler.UploadImages)
		r.Post(handler.RouteSessionPrimaryImage, sessionsHandler.SetPrimaryImage)
		r.Post(handler.RouteSessionRemoveImage, sessionsHandler.RemoveImage)
		r.Get(handler.RouteDeleteSession, sessionsHandler.ConfirmDelete)
		r.Post(handler.RouteDeleteSession, sessionsHandler.Delete)

		r.Get(handler.RouteMessages, messagesHandler.List)
		r.Post(handler.RouteMessageRead, messagesHandler.MarkRead)

		r.Get(handler.RouteExportSessions, exportHandler.SessionsCSV)
		r.Get(handler.RouteExportMessages, exportHandler.MessagesCSV)
		r.Get(handler.RouteTemplateSessions, exportHandler.SessionsTemplateCSV)
		r.Get(handler.RouteTemplateMessages, exportHandler.MessagesTemplateCSV)
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Uploaded images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
