// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/store"
)

// RouterConfig holds everything the HTTP surface depends on.
type RouterConfig struct {
	DB              *store.DB
	Renderer        *render.Renderer
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	SessionLifetime time.Duration
	CSRF            middleware.CSRFConfig
	IsDev           bool
	// Static is served under /static/. Nil disables it.
	Static fs.FS
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDev)))
	r.Use(middleware.RequestPath)

	healthHandler := NewHealthHandler(cfg.DB.DB)
	r.Get(RouteHealthLive, healthHandler.Liveness)
	r.Get(RouteHealthReady, healthHandler.Readiness)

	if cfg.Static != nil {
		r.Handle(RouteStatic, http.StripPrefix("/static/", http.FileServer(http.FS(cfg.Static))))
	}

	authHandler := NewAuthHandler(cfg.DB, cfg.Renderer, cfg.Sessions, cfg.LoginProtection, cfg.SessionLifetime)
	registrationHandler := NewRegistrationHandler(cfg.DB, cfg.Renderer)
	visitorsHandler := NewVisitorsHandler(cfg.DB, cfg.Renderer)
	followUpsHandler := NewFollowUpsHandler(cfg.DB, cfg.Renderer)
	reportHandler := NewReportHandler(cfg.DB, cfg.Renderer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Language)
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.CSRF(cfg.CSRF))

		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoadStaff(cfg.Sessions))

			r.Get(RouteRoot, registrationHandler.Form)
			r.Post(RouteRoot, registrationHandler.Submit)

			r.Get(RouteLogin, authHandler.LoginForm)
			if cfg.LoginProtection != nil {
				r.With(cfg.LoginProtection.Middleware()).Post(RouteLogin, authHandler.Login)
			} else {
				r.Post(RouteLogin, authHandler.Login)
			}
			r.Get(RouteLogout, authHandler.Logout)
		})

		// Staff routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff(cfg.Sessions))

			r.Get(RouteVisitors, visitorsHandler.List)
			r.Get(RouteProfile, visitorsHandler.Profile)
			r.Get(RouteEditVisitor, visitorsHandler.EditForm)
			r.Post(RouteEditVisitor, visitorsHandler.Update)
			r.Get(RouteDeleteVisitor, visitorsHandler.Delete)

			r.Get(RouteVisit, followUpsHandler.Visit)
			r.Post(RouteVisit, followUpsHandler.Record)
			r.Get(RouteEditFollowUp, followUpsHandler.EditForm)
			r.Post(RouteEditFollowUp, followUpsHandler.Update)
			r.Get(RouteDeleteFollowUp, followUpsHandler.Delete)

			r.Get(RouteReport, reportHandler.Show)
		})

		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			renderError(w, req, cfg.Renderer, http.StatusNotFound, "error.not_found")
		})
	})

	return r
}
