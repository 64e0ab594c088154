// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSessions is the public portfolio listing route.
	RouteSessions = "/sesje"
	// RouteSessionDetail is the public portfolio detail route.
	RouteSessionDetail = "/sesje/{id}"
	// RouteAbout is the about page route.
	RouteAbout = "/o-mnie"
	// RouteContact is the contact page route.
	RouteContact = "/kontakt"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RouteAdmin is the admin sign-in page route.
	RouteAdmin = "/admin"
	// RouteLogout is the sign-out route.
	RouteLogout = "/admin/logout"
	// RouteDashboard is the admin dashboard route.
	RouteDashboard = "/admin/dashboard"
	// RouteNewSession is the admin session creation route.
	RouteNewSession = "/admin/new-session"
	// RouteEditSession is the admin session edit route pattern.
	RouteEditSession = "/admin/edit-session/{id}"
	// RouteDeleteSession is the admin session delete route pattern.
	RouteDeleteSession = "/admin/delete-session/{id}"
	// RouteSessionImages is the admin image upload route pattern.
	RouteSessionImages = "/admin/edit-session/{id}/images"
	// RouteSessionPrimaryImage is the admin primary image route pattern.
	RouteSessionPrimaryImage = "/admin/edit-session/{id}/images/primary"
	// RouteSessionRemoveImage is the admin image removal route pattern.
	RouteSessionRemoveImage = "/admin/edit-session/{id}/images/remove"
	// RouteMessages is the admin contact messages route.
	RouteMessages = "/admin/messages"
	// RouteMessageRead is the admin mark-as-read route pattern.
	RouteMessageRead = "/admin/messages/{id}/read"
	// RouteExportSessions is the sessions CSV export route.
	RouteExportSessions = "/admin/export/sessions.csv"
	// RouteExportMessages is the messages CSV export route.
	RouteExportMessages = "/admin/export/messages.csv"
	// RouteTemplateSessions is the sessions CSV template route.
	RouteTemplateSessions = "/admin/templates/sessions.csv"
	// RouteTemplateMessages is the messages CSV template route.
	RouteTemplateMessages = "/admin/templates/messages.csv"
)

// redirectAdmin is the post-login redirect target.
const redirectAdmin = RouteDashboard

// redirectLogin is the sign-in page redirect target.
const redirectLogin = RouteAdmin
