// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"reflect"
	"testing"
)

func TestSessionPrimaryImage(t *testing.T) {
	s := Session{}
	if got := s.PrimaryImage(); got != "" {
		t.Errorf("PrimaryImage() on empty list = %q, want empty", got)
	}

	s.ImageURLs = []string{"a.jpg", "b.jpg"}
	if got := s.PrimaryImage(); got != "a.jpg" {
		t.Errorf("PrimaryImage() = %q, want a.jpg", got)
	}
}

func TestSessionSetPrimaryImage(t *testing.T) {
	tests := []struct {
		name  string
		urls  []string
		index int
		want  []string
	}{
		{"last of three to front", []string{"A", "B", "C"}, 2, []string{"C", "A", "B"}},
		{"middle to front", []string{"A", "B", "C"}, 1, []string{"B", "A", "C"}},
		{"index zero is a no-op", []string{"A", "B", "C"}, 0, []string{"A", "B", "C"}},
		{"out of range is a no-op", []string{"A", "B"}, 5, []string{"A", "B"}},
		{"negative is a no-op", []string{"A", "B"}, -1, []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ImageURLs: append([]string(nil), tt.urls...)}
			s.SetPrimaryImage(tt.index)
			if !reflect.DeepEqual(s.ImageURLs, tt.want) {
				t.Errorf("SetPrimaryImage(%d) = %v, want %v", tt.index, s.ImageURLs, tt.want)
			}
		})
	}
}

func TestSessionRemoveImage(t *testing.T) {
	s := Session{ImageURLs: []string{"A", "B", "C"}}

	s.RemoveImage(1)
	if !reflect.DeepEqual(s.ImageURLs, []string{"A", "C"}) {
		t.Errorf("RemoveImage(1) = %v, want [A C]", s.ImageURLs)
	}

	s.RemoveImage(10)
	if len(s.ImageURLs) != 2 {
		t.Error("out-of-range RemoveImage should be a no-op")
	}
}
