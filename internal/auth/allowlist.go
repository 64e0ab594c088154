// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "strings"

// AllowList is the set of email addresses granted administrative
// capability. It is injected from configuration at process start so it can
// vary per deployment; no role data is stored in the database.
//
// Membership is a case-sensitive exact string match: "Admin@x.com" does
// not match an entry "admin@x.com".
type AllowList struct {
	emails []string
}

// NewAllowList builds an allow-list from the given emails. Entries are
// trimmed of surrounding whitespace; empty entries are dropped. Order and
// case are preserved.
func NewAllowList(emails []string) *AllowList {
	al := &AllowList{}
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		al.emails = append(al.emails, e)
	}
	return al
}

// ParseAllowList builds an allow-list from a comma-separated string, the
// form the ATELIER_ADMIN_EMAILS environment variable takes.
func ParseAllowList(s string) *AllowList {
	return NewAllowList(strings.Split(s, ","))
}

// IsAdmin reports whether email is on the allow-list.
func (al *AllowList) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	for _, e := range al.emails {
		if e == email {
			return true
		}
	}
	return false
}

// Emails returns a copy of the allow-list entries.
func (al *AllowList) Emails() []string {
	return append([]string(nil), al.emails...)
}

// Len returns the number of entries on the allow-list.
func (al *AllowList) Len() int {
	return len(al.emails)
}
