// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/service"
	"github.com/olegiv/visitas-go/internal/store"
)

// VisitorFormPage is the data of the registration and edit forms.
type VisitorFormPage struct {
	ID   int64
	Form service.VisitorForm
}

// RegistrationHandler serves the public registration form.
type RegistrationHandler struct {
	visitors *service.VisitorService
	renderer *render.Renderer
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(db *store.DB, renderer *render.Renderer) *RegistrationHandler {
	return &RegistrationHandler{
		visitors: service.NewVisitorService(db),
		renderer: renderer,
	}
}

// Form renders an empty registration form dated today.
func (h *RegistrationHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, service.VisitorForm{Date: today()}, nil)
}

// Submit stores a registration. Invalid input re-renders the form with the
// submitted values and nothing is written.
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrBadRequest(w, r, h.renderer) {
		return
	}

	form := service.VisitorFormFromValues(r.PostForm)
	id, err := h.visitors.Register(r.Context(), form)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			h.render(w, r, http.StatusBadRequest, form, ve.Fields)
			return
		}
		logAndInternalError(w, r, h.renderer, "failed to register visitor", "error", err)
		return
	}

	slog.InfoContext(r.Context(), "visitor registered", "visitor_id", id)
	flashSuccess(w, r, h.renderer, RouteRoot, i18n.T(middleware.GetLang(r), "register.thanks"))
}

func (h *RegistrationHandler) render(w http.ResponseWriter, r *http.Request, status int, form service.VisitorForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, pageRegister, render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "register.title"),
		Data:   VisitorFormPage{Form: form},
		Errors: errs,
	})
}
