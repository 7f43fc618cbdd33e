// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the public registration form.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteVisitors lists visitors.
	RouteVisitors = "/visitas"
	// RouteProfile shows one visitor.
	RouteProfile = "/perfil/{id}"
	// RouteEditVisitor edits one visitor.
	RouteEditVisitor = "/editar/{id}"
	// RouteDeleteVisitor deletes one visitor.
	RouteDeleteVisitor = "/eliminar/{id}"
	// RouteVisit records and lists follow-ups of a visitor.
	RouteVisit = "/visitar/{id}"
	// RouteEditFollowUp edits one follow-up entry.
	RouteEditFollowUp = "/editar_visita/{id}"
	// RouteDeleteFollowUp deletes one follow-up entry.
	RouteDeleteFollowUp = "/eliminar_visita/{id}"
	// RouteReport is the printable report.
	RouteReport = "/imprimir"

	// RouteHealthLive is the liveness probe.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness probe.
	RouteHealthReady = "/health/ready"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"
)

// Page template names.
const (
	pageRegister     = "registro"
	pageLogin        = "login"
	pageVisitors     = "visitas"
	pageProfile      = "perfil"
	pageEditVisitor  = "editar"
	pageVisit        = "visitar"
	pageEditFollowUp = "editar_visita"
	pageReport       = "imprimir"
	pageError        = "error"
)

const (
	redirectLogin    = RouteLogin
	redirectVisitors = RouteVisitors
)
