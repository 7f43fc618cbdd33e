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

// VisitPage is the data of the follow-up page of a visitor.
type VisitPage struct {
	History service.History
	Form    service.FollowUpForm
}

// EditFollowUpPage is the data of the follow-up edit form.
type EditFollowUpPage struct {
	Entry store.FollowUp
	Form  service.FollowUpForm
}

// FollowUpsHandler handles pastoral visit records.
type FollowUpsHandler struct {
	followUps *service.FollowUpService
	renderer  *render.Renderer
}

// NewFollowUpsHandler creates a new FollowUpsHandler.
func NewFollowUpsHandler(db *store.DB, renderer *render.Renderer) *FollowUpsHandler {
	return &FollowUpsHandler{
		followUps: service.NewFollowUpService(db),
		renderer:  renderer,
	}
}

// Visit handles GET /visitar/{id}: the visit history plus a form pre-filled
// with the signed-in staff member and today's date.
func (h *FollowUpsHandler) Visit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}

	form := service.FollowUpForm{Date: today()}
	if staff := middleware.GetStaff(r); staff != nil {
		form.VisitedBy = staff.Name
	}
	h.renderVisit(w, r, http.StatusOK, id, form, nil)
}

// Record handles POST /visitar/{id}. A submission without staff name or
// date changes nothing.
func (h *FollowUpsHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "visitors.not_found")
		return
	}
	if !parseFormOrBadRequest(w, r, h.renderer) {
		return
	}

	lang := middleware.GetLang(r)
	form := service.FollowUpFormFromValues(r.PostForm)

	recorded, err := h.followUps.Record(r.Context(), id, form)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(w, r, h.renderer, "visitors.not_found")
			return
		}
		if ve, ok := service.AsValidationError(err); ok {
			h.renderVisit(w, r, http.StatusBadRequest, id, form, ve.Fields)
			return
		}
		logAndInternalError(w, r, h.renderer, "failed to record follow-up", "visitor_id", id, "error", err)
		return
	}

	if !recorded {
		flashAndRedirect(w, r, h.renderer, visitPath(id), i18n.T(lang, "followups.not_recorded"), render.FlashInfo)
		return
	}

	slog.InfoContext(r.Context(), "follow-up recorded", "visitor_id", id, "staff", staffLogin(r))
	flashSuccess(w, r, h.renderer, visitPath(id), i18n.T(lang, "followups.recorded"))
}

// EditForm handles GET /editar_visita/{id}.
func (h *FollowUpsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "followups.not_found")
		return
	}

	entry, err := h.followUps.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "failed to load follow-up", id)
		return
	}

	h.renderEdit(w, r, http.StatusOK, entry, service.FollowUpFormFromFollowUp(entry), nil)
}

// Update handles POST /editar_visita/{id}. Blank staff or date is rejected.
func (h *FollowUpsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "followups.not_found")
		return
	}
	if !parseFormOrBadRequest(w, r, h.renderer) {
		return
	}

	form := service.FollowUpFormFromValues(r.PostForm)
	visitorID, err := h.followUps.Update(r.Context(), id, form)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			entry, getErr := h.followUps.Get(r.Context(), id)
			if getErr != nil {
				h.handleError(w, r, getErr, "failed to load follow-up", id)
				return
			}
			h.renderEdit(w, r, http.StatusBadRequest, entry, form, ve.Fields)
			return
		}
		h.handleError(w, r, err, "failed to update follow-up", id)
		return
	}

	slog.InfoContext(r.Context(), "follow-up updated", "follow_up_id", id, "visitor_id", visitorID, "staff", staffLogin(r))
	flashSuccess(w, r, h.renderer, visitPath(visitorID), i18n.T(middleware.GetLang(r), "followups.updated"))
}

// Delete handles GET /eliminar_visita/{id}.
func (h *FollowUpsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		notFound(w, r, h.renderer, "followups.not_found")
		return
	}

	visitorID, err := h.followUps.Delete(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "failed to delete follow-up", id)
		return
	}

	slog.InfoContext(r.Context(), "follow-up deleted", "follow_up_id", id, "visitor_id", visitorID, "staff", staffLogin(r))
	flashSuccess(w, r, h.renderer, visitPath(visitorID), i18n.T(middleware.GetLang(r), "followups.deleted"))
}

func (h *FollowUpsHandler) renderVisit(w http.ResponseWriter, r *http.Request, status int, visitorID int64, form service.FollowUpForm, errs map[string]string) {
	history, err := h.followUps.History(r.Context(), visitorID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(w, r, h.renderer, "visitors.not_found")
			return
		}
		logAndInternalError(w, r, h.renderer, "failed to load follow-ups", "visitor_id", visitorID, "error", err)
		return
	}

	renderPage(w, r, h.renderer, status, pageVisit, render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "followups.title", history.Visitor.Name),
		Data:   VisitPage{History: history, Form: form},
		Errors: errs,
	})
}

func (h *FollowUpsHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, entry store.FollowUp, form service.FollowUpForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, pageEditFollowUp, render.TemplateData{
		Title:  i18n.T(middleware.GetLang(r), "followups.edit_title"),
		Data:   EditFollowUpPage{Entry: entry, Form: form},
		Errors: errs,
	})
}

func (h *FollowUpsHandler) handleError(w http.ResponseWriter, r *http.Request, err error, logMsg string, id int64) {
	if errors.Is(err, service.ErrNotFound) {
		notFound(w, r, h.renderer, "followups.not_found")
		return
	}
	logAndInternalError(w, r, h.renderer, logMsg, "follow_up_id", id, "error", err)
}
