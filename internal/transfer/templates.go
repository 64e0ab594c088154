// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

// SessionsTemplateFilename is the download name for the sessions
// import template.
const SessionsTemplateFilename = "sessions_template.csv"

// MessagesTemplateFilename is the download name for the contact
// messages import template.
const MessagesTemplateFilename = "contact_messages_template.csv"

// SessionsTemplate returns a CSV template with the session columns and
// two sample rows showing the expected values.
func SessionsTemplate() string {
	return Marshal([]Record{
		{
			{Key: "title", Value: "Sesja ślubna Ania i Piotr"},
			{Key: "description", Value: "Plenerowa sesja ślubna w Łazienkach Królewskich."},
			{Key: "category", Value: "ślub"},
			{Key: "year", Value: "2026"},
			{Key: "image_urls", Value: []string{"/uploads/sessions/przyklad-1.jpg", "/uploads/sessions/przyklad-2.jpg"}},
		},
		{
			{Key: "title", Value: "Portrety biznesowe"},
			{Key: "description", Value: "Sesja wizerunkowa w studio, jasne tło."},
			{Key: "category", Value: "portret"},
			{Key: "year", Value: "2025"},
			{Key: "image_urls", Value: []string{"/uploads/sessions/przyklad-3.jpg"}},
		},
	})
}

// MessagesTemplate returns a CSV template with the contact message
// columns and two sample rows.
func MessagesTemplate() string {
	return Marshal([]Record{
		{
			{Key: "name", Value: "Anna Kowalska"},
			{Key: "email", Value: "anna.kowalska@example.com"},
			{Key: "message", Value: "Dzień dobry, czy mają Państwo wolny termin w czerwcu?"},
			{Key: "created_at", Value: "2026-06-01T10:00:00Z"},
			{Key: "read", Value: false},
		},
		{
			{Key: "name", Value: "Jan Nowak"},
			{Key: "email", Value: "jan.nowak@example.com"},
			{Key: "message", Value: "Proszę o wycenę sesji rodzinnej."},
			{Key: "created_at", Value: "2026-06-02T14:30:00Z"},
			{Key: "read", Value: true},
		},
	})
}
