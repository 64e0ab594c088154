// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: event log retention
// and cleanup of upload files no session references anymore.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/atelier-sesje/atelier-go/internal/imaging"
	"github.com/atelier-sesje/atelier-go/internal/store"
)

// Retention and sweep parameters.
const (
	// EventRetention is how long event log rows are kept.
	EventRetention = 90 * 24 * time.Hour

	// orphanMinAge protects files from an upload that has not been
	// attached to a session row yet.
	orphanMinAge = 24 * time.Hour
)

// Scheduler handles periodic maintenance tasks.
type Scheduler struct {
	db        *sql.DB
	uploadDir string
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, uploadDir string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:        db,
		uploadDir: uploadDir,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the maintenance jobs and begins the cron loop.
// Events are purged nightly; orphaned uploads are swept weekly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.purgeOldEvents(); err != nil {
			s.logger.Error("failed to purge old events", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 4 * * 1", func() {
		if err := s.sweepOrphanedUploads(); err != nil {
			s.logger.Error("failed to sweep orphaned uploads", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeOldEvents deletes event log rows older than the retention window.
func (s *Scheduler) purgeOldEvents() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().Add(-EventRetention)
	purged, err := queries.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		s.logger.Info("purged old events", "count", purged, "cutoff", cutoff)
	}
	return nil
}

// sweepOrphanedUploads removes gallery files that no session references.
// Files younger than orphanMinAge are left alone in case a session save
// is still in flight.
func (s *Scheduler) sweepOrphanedUploads() error {
	ctx := context.Background()
	queries := store.New(s.db)

	sessions, err := queries.ListSessions(ctx)
	if err != nil {
		return err
	}

	referenced := make(map[string]bool)
	for _, session := range sessions {
		for _, url := range session.ImageURLs {
			referenced[filepath.Base(url)] = true
		}
	}

	dir := filepath.Join(s.uploadDir, imaging.SessionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < orphanMinAge {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			s.logger.Error("failed to remove orphaned upload", "file", entry.Name(), "error", err)
			continue
		}
		// Thumbnail may or may not exist
		_ = os.Remove(filepath.Join(dir, imaging.ThumbsDir, entry.Name()))
		removed++
	}

	if removed > 0 {
		s.logger.Info("swept orphaned uploads", "count", removed)
	}
	return nil
}
