// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/service"
	"github.com/olegiv/visitas-go/internal/store"
)

// VisitorsPage is the data of the visitor list.
type VisitorsPage struct {
	List service.VisitorList
	From string
	To   string
}

// VisitorsHandler handles the staff visitor registry pages.
type VisitorsHandler struct {
	visitors *service.VisitorService
	renderer *render.Renderer
}

// NewVisitorsHandler creates a new VisitorsHandler.
func NewVisitorsHandler(db *store.DB, renderer *render.Renderer) *VisitorsHandler {
	return &VisitorsHandler{
		visitors: service.NewVisitorService(db),
		renderer: renderer,
	}
}

// List handles GET /visitas with optional desde/hasta filters.
func (h *VisitorsHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := r.URL.Query()

	filter, ok := service.ParseVisitorFilter(q.Get("desde"), q.Get("hasta"))

	list, err := h.visitors.List(r.Context(), filter)
	if err != nil {
		logAndInternalError(w, r, h.renderer, "failed to list visitors", "error", err)
		return
	}

	data := render.TemplateData{
		Title: i18n.T(lang, "visitors.title"),
		Data: VisitorsPage{
			List: list,
			From: filter.From.String(),
			To:   filter.To.String(),
		},
	}
	if !ok {
		slog.InfoContext(r.Context(), "ignoring malformed filter", "desde", q.Get("desde"), "hasta", q.Get("hasta"))
		data.Flash = i18n.T(lang, "visitors.invalid_filter")
		data.FlashType = render.FlashError
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageVisitors, data)
}

// Profile handles GET /perfil/{id}.
func (h *VisitorsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}

	detail, err := h.visitors.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "failed to load visitor", id)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageProfile, render.TemplateData{
		Title: detail.Visitor.Name,
		Data:  detail,
	})
}

// EditForm handles GET /editar/{id}.
func (h *VisitorsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}

	detail, err := h.visitors.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "failed to load visitor", id)
		return
	}

	h.renderEdit(w, r, http.StatusOK, id, service.VisitorFormFromVisitor(detail.Visitor), nil)
}

// Update handles POST /editar/{id}.
func (h *VisitorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}
	if !parseFormOrBadRequest(w, r, h.renderer) {
		return
	}

	form := service.VisitorFormFromValues(r.PostForm)
	if err := h.visitors.Update(r.Context(), id, form); err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			h.renderEdit(w, r, http.StatusBadRequest, id, form, ve.Fields)
			return
		}
		h.handleError(w, r, err, "failed to update visitor", id)
		return
	}

	slog.InfoContext(r.Context(), "visitor updated", "visitor_id", id, "staff", staffLogin(r))
	flashSuccess(w, r, h.renderer, redirectVisitors, i18n.T(middleware.GetLang(r), "visitors.updated"))
}

// Delete handles GET /eliminar/{id}.
func (h *VisitorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}

	if err := h.visitors.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err, "failed to delete visitor", id)
		return
	}

	slog.InfoContext(r.Context(), "visitor deleted", "visitor_id", id, "staff", staffLogin(r))
	flashSuccess(w, r, h.renderer, redirectVisitors, i18n.T(middleware.GetLang(r), "visitors.deleted"))
}

func (h *VisitorsHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, id int64, form service.VisitorForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, pageEditVisitor, render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "visitors.edit_title"),
		Data:   VisitorFormPage{ID: id, Form: form},
		Errors: errs,
	})
}

func (h *VisitorsHandler) handleError(w http.ResponseWriter, r *http.Request, err error, logMsg string, id int64) {
	if errors.Is(err, service.ErrNotFound) {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}
	logAndInternalError(w, r, h.renderer, logMsg, "visitor_id", id, "error", err)
}

// staffLogin names the signed-in staff member for log lines.
func staffLogin(r *http.Request) string {
	if staff := middleware.GetStaff(r); staff != nil {
		return staff.Login.String()
	}
	return ""
}
