// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/render"
)

// ErrorPage is the data of the generic error page.
type ErrorPage struct {
	Message string
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so the browser follows with a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// renderPage renders a page, answering 500 if the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, status, name, data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError renders the error page with a translated message.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, messageKey string) {
	lang := middleware.GetLang(r)
	renderPage(w, r, renderer, status, pageError, render.TemplateData{
		Title: i18n.T(lang, "error.title"),
		Data:  ErrorPage{Message: i18n.T(lang, messageKey)},
	})
}

// logAndInternalError logs an error and renders a generic 500 page.
func logAndInternalError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	renderError(w, r, renderer, http.StatusInternalServerError, "error.internal")
}

// parseFormOrBadRequest parses the request form and renders a 400 page on failure.
func parseFormOrBadRequest(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) bool {
	if err := r.ParseForm(); err != nil {
		slog.WarnContext(r.Context(), "invalid form data", "error", err)
		renderError(w, r, renderer, http.StatusBadRequest, "error.invalid_form")
		return false
	}
	return true
}

// parseIDParam returns the positive integer {id} route parameter.
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// notFound sends the staff back to the visitor list with a flash.
func notFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, messageKey string) {
	flashError(w, r, renderer, redirectVisitors, i18n.T(middleware.GetLang(r), messageKey))
}

// today is replaced in tests.
var today = func() string {
	return model.NewDate(time.Now()).String()
}

func visitPath(visitorID int64) string {
	return fmt.Sprintf("/visitar/%d", visitorID)
}
