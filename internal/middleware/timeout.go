// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after d and answers 503 if the
// handler has not produced a response by then. The handler goroutine keeps
// running until it observes the cancelled context.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			guard := &guardedWriter{ResponseWriter: w}
			finished := make(chan struct{})
			go func() {
				defer close(finished)
				next.ServeHTTP(guard, r.WithContext(ctx))
			}()

			select {
			case <-finished:
			case <-ctx.Done():
				guard.timeout()
			}
		})
	}
}

// guardedWriter serializes writes so the timeout response and a late
// handler response cannot interleave.
type guardedWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	started bool
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started {
		g.started = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(b)
}

func (g *guardedWriter) timeout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.ResponseWriter.Header().Set("Content-Type", "text/plain; charset=utf-8")
	g.ResponseWriter.WriteHeader(http.StatusServiceUnavailable)
	_, _ = g.ResponseWriter.Write([]byte("Przekroczono limit czasu żądania"))
}
