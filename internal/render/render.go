// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the embedded HTML views.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/model"
)

// Session keys for flash messages.
const (
	SessionKeyFlash     = "flash"
	SessionKeyFlashType = "flash_type"
)

// Flash types, used as CSS classes.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	baseLayout   = "layouts/base.html"
	pagesDir     = "pages"
	partialsDir  = "partials"
	displayDate  = "02/01/2006"
	displayStamp = "02/01/2006 15:04"
)

// AgeRanges are the age brackets offered on the visitor form.
var AgeRanges = []string{"0-12", "13-17", "18-25", "26-35", "36-50", "51-65", "65+"}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page together with the base layout and the
// partials. Pages are keyed by file name without extension.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := templateFiles(templatesFS, pagesDir)
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no templates found in %s", pagesDir)
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"T":              i18n.T,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"add": func(a, b int) int {
			return a + b
		},
		"selected": func(current, option string) bool {
			return current == option
		},
		"ageRanges": func() []string {
			return AgeRanges
		},
	}
}

// formatDate renders a calendar date as dd/mm/yyyy. Zero dates render empty.
func formatDate(v any) string {
	switch d := v.(type) {
	case model.Date:
		if d.IsZero() {
			return ""
		}
		return d.Format(displayDate)
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(displayDate)
	case string:
		if parsed, err := model.ParseDate(d); err == nil {
			return parsed.Format(displayDate)
		}
		return d
	}
	return fmt.Sprint(v)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(displayStamp)
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	Lang        string
	Staff       *middleware.Staff
	Errors      map[string]string
	Path        string
	CurrentYear int
}

// Render writes the named page with the given status. Request-scoped fields
// (language, staff, pending flash) are filled in here.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.Path = req.URL.Path
	if data.Lang == "" {
		data.Lang = middleware.GetLang(req)
	}
	if data.Staff == nil {
		data.Staff = middleware.GetStaff(req)
	}
	if data.Flash == "" {
		data.Flash, data.FlashType = r.PopFlash(req)
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), SessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), SessionKeyFlashType, flashType)
	}
}

// PopFlash returns and clears the pending flash message.
func (r *Renderer) PopFlash(req *http.Request) (message, flashType string) {
	if r.sessionManager == nil {
		return "", ""
	}

	message = r.sessionManager.PopString(req.Context(), SessionKeyFlash)
	flashType = r.sessionManager.PopString(req.Context(), SessionKeyFlashType)
	if message != "" && flashType == "" {
		flashType = FlashInfo
	}
	return message, flashType
}
