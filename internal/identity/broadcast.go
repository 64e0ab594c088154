// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity tracks the signed-in state of the current visitor and
// notifies interested components when it changes.
package identity

import (
	"sync"

	"github.com/atelier-sesje/atelier-go/internal/model"
)

// State describes the current authentication state.
type State struct {
	User    *model.User
	IsAdmin bool
}

// SignedIn reports whether a user is present.
func (s State) SignedIn() bool {
	return s.User != nil
}

// Broadcaster holds the authentication state and fans out changes to
// subscribers. Notification is synchronous: SignIn and SignOut return
// only after every subscriber has observed the new state.
type Broadcaster struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewBroadcaster creates an empty Broadcaster with no signed-in user.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current authentication state.
func (b *Broadcaster) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Subscribe registers fn to run on every state change. The returned
// function cancels the subscription. fn is called immediately with the
// current state so subscribers never start stale.
func (b *Broadcaster) Subscribe(fn func(State)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	current := b.state
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// SignIn records the user as signed in and notifies subscribers.
func (b *Broadcaster) SignIn(user *model.User, isAdmin bool) {
	b.set(State{User: user, IsAdmin: isAdmin})
}

// SignOut clears the signed-in user and notifies subscribers.
func (b *Broadcaster) SignOut() {
	b.set(State{})
}

func (b *Broadcaster) set(s State) {
	b.mu.Lock()
	b.state = s
	fns := make([]func(State), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	// Run callbacks outside the lock so a subscriber can unsubscribe
	// from within its own callback.
	for _, fn := range fns {
		fn(s)
	}
}
