// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/service"
	"github.com/olegiv/visitas-go/internal/store"
)

// LoginPage is the data of the login form.
type LoginPage struct {
	Login string
	Error string
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	auth            *service.AuthService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	lifetime        time.Duration
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(db *store.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, lifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:            service.NewAuthService(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		lifetime:        lifetime,
	}
}

// LoginForm renders the login page. A staff member who is still signed in is
// sent to the visitor list.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetStaff(r) != nil {
		http.Redirect(w, r, redirectVisitors, http.StatusSeeOther)
		return
	}

	lang := middleware.GetLang(r)
	data := render.TemplateData{
		Title: i18n.T(lang, "auth.login"),
		Data:  LoginPage{},
	}
	if h.sessionManager.PopBool(r.Context(), middleware.SessionKeySessionExpired) {
		data.Flash = i18n.T(lang, "auth.session_expired")
		data.FlashType = render.FlashInfo
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageLogin, data)
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLang(r)

	if !parseFormOrBadRequest(w, r, h.renderer) {
		return
	}

	login := strings.TrimSpace(r.PostForm.Get("usuario"))
	password := r.PostForm.Get("clave")
	if login == "" || password == "" {
		h.loginFailed(w, r, http.StatusBadRequest, login, i18n.T(lang, "auth.required"))
		return
	}

	// Lockout is tracked per normalized name so "PASTOR" and "pastor" share a counter.
	key := strings.ToLower(login)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(key); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "login", key)
			h.loginFailed(w, r, http.StatusTooManyRequests, login, i18n.T(lang, "auth.account_locked", formatDuration(remaining)))
			return
		}
	}

	staff, err := h.auth.Authenticate(r.Context(), login, password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, service.ErrInvalidUser):
			slog.InfoContext(r.Context(), "login attempt for unknown user", "login", key)
			msg = i18n.T(lang, "auth.invalid_user")
		case errors.Is(err, service.ErrInvalidCredentials):
			slog.InfoContext(r.Context(), "invalid password attempt", "login", key)
			msg = i18n.T(lang, "auth.invalid_credentials")
		default:
			logAndInternalError(w, r, h.renderer, "authentication failed", "error", err)
			return
		}

		// Record failed attempts for unknown names too.
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(key); locked {
				h.loginFailed(w, r, http.StatusTooManyRequests, login, i18n.T(lang, "auth.too_many_attempts", formatDuration(lockDuration)))
				return
			}
			if remaining := h.loginProtection.RemainingAttempts(key); remaining > 0 && remaining <= 2 {
				msg = i18n.T(lang, "auth.attempts_remaining", remaining)
			}
		}

		h.loginFailed(w, r, http.StatusUnauthorized, login, msg)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(key)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, h.renderer, "session renewal error", "error", err)
		return
	}
	middleware.StartStaffSession(r.Context(), h.sessionManager, staff.Login, staff.Name, h.lifetime)

	slog.InfoContext(r.Context(), "staff logged in", "login", staff.Login, "lifetime", h.lifetime)
	flashSuccess(w, r, h.renderer, redirectVisitors, i18n.T(lang, "auth.welcome", staff.Name))
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, status int, login, message string) {
	renderPage(w, r, h.renderer, status, pageLogin, render.TemplateData{
		Title: i18n.T(middleware.GetLang(r), "auth.login"),
		Data:  LoginPage{Login: login, Error: message},
	})
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	login := h.sessionManager.GetString(r.Context(), middleware.SessionKeyLogin)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}
	if login != "" {
		slog.InfoContext(r.Context(), "staff logged out", "login", login)
	}

	flashAndRedirect(w, r, h.renderer, redirectLogin, i18n.T(middleware.GetLang(r), "auth.logged_out"), render.FlashInfo)
}

// formatDuration rounds a lockout up to whole minutes.
func formatDuration(d time.Duration) string {
	mins := int((d + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d min", mins)
}
