// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/visitas-go/internal/export"
	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/service"
	"github.com/olegiv/visitas-go/internal/store"
)

// Report output formats selected with ?formato=.
const (
	formatHTML = "html"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// ReportPage is the data of the printable report.
type ReportPage struct {
	From   string
	To     string
	Report *service.Report
}

// ReportHandler serves the date-ranged report and its exports.
type ReportHandler struct {
	reports  *service.ReportService
	renderer *render.Renderer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *store.DB, renderer *render.Renderer) *ReportHandler {
	return &ReportHandler{
		reports:  service.NewReportService(db),
		renderer: renderer,
	}
}

// Show handles GET /imprimir?desde=&hasta=[&formato=]. Without both bounds
// only the range form is shown.
func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)
	q := r.URL.Query()
	page := ReportPage{From: q.Get("desde"), To: q.Get("hasta")}
	title := i18n.T(lang, "report.title")

	if page.From == "" && page.To == "" {
		renderPage(w, r, h.renderer, http.StatusOK, pageReport, render.TemplateData{Title: title, Data: page})
		return
	}

	from, to, err := service.ParseReportRange(page.From, page.To)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			renderPage(w, r, h.renderer, http.StatusBadRequest, pageReport, render.TemplateData{
				Title:  title,
				Data:   page,
				Errors: ve.Fields,
			})
			return
		}
		logAndInternalError(w, r, h.renderer, "failed to parse report range", "error", err)
		return
	}

	report, err := h.reports.Build(r.Context(), from, to)
	if err != nil {
		logAndInternalError(w, r, h.renderer, "failed to build report", "error", err)
		return
	}

	headers := []string{
		i18n.T(lang, "field.fecha"),
		i18n.T(lang, "field.nombre"),
		i18n.T(lang, "field.invitado_por"),
		i18n.T(lang, "field.visitado"),
	}

	switch q.Get("formato") {
	case formatCSV:
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, headers, report.Rows); err != nil {
			logAndInternalError(w, r, h.renderer, "failed to export csv", "error", err)
			return
		}
		h.attachment(w, r, export.ContentTypeCSV, export.Filename(from, to, formatCSV), buf.Bytes())
	case formatXLSX:
		data, err := export.XLSX(i18n.T(lang, "report.sheet"), headers, report.Rows)
		if err != nil {
			logAndInternalError(w, r, h.renderer, "failed to export xlsx", "error", err)
			return
		}
		h.attachment(w, r, export.ContentTypeXLSX, export.Filename(from, to, formatXLSX), data)
	default: // formatHTML
		renderPage(w, r, h.renderer, http.StatusOK, pageReport, render.TemplateData{
			Title: title,
			Data:  ReportPage{From: from.String(), To: to.String(), Report: &report},
		})
	}
}

func (h *ReportHandler) attachment(w http.ResponseWriter, r *http.Request, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.WarnContext(r.Context(), "failed to write export", "file", filename, "error", err)
	}
}
