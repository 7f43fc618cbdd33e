// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for staff authentication,
// request context, language selection and request hardening.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/visitas-go/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys.
const (
	ContextKeyStaff       ContextKey = "staff"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Session keys for the staff login.
const (
	SessionKeyAuthenticated  = "authenticated"
	SessionKeyLogin          = "login"
	SessionKeyDisplayName    = "display_name"
	SessionKeyExpiresAt      = "expires_at"
	SessionKeySessionExpired = "session_expired"
)

// loginPath is where unauthenticated requests are sent.
const loginPath = "/login"

// timeNow is replaced in tests.
var timeNow = time.Now

// Staff is the authenticated staff member attached to the request context.
type Staff struct {
	Login     model.Role
	Name      string
	ExpiresAt time.Time
}

// StartStaffSession records a successful login. The session token must have
// been renewed by the caller. The login stays valid for lifetime and is not
// extended by activity.
func StartStaffSession(ctx context.Context, sm *scs.SessionManager, login model.Role, name string, lifetime time.Duration) {
	sm.Put(ctx, SessionKeyAuthenticated, true)
	sm.Put(ctx, SessionKeyLogin, string(login))
	sm.Put(ctx, SessionKeyDisplayName, name)
	sm.Put(ctx, SessionKeyExpiresAt, timeNow().Add(lifetime).UnixMilli())
}

// clearStaffSession removes the login keys and leaves the rest of the session.
func clearStaffSession(ctx context.Context, sm *scs.SessionManager) {
	sm.Remove(ctx, SessionKeyAuthenticated)
	sm.Remove(ctx, SessionKeyLogin)
	sm.Remove(ctx, SessionKeyDisplayName)
	sm.Remove(ctx, SessionKeyExpiresAt)
}

// loadStaff reads the login from the session. expired is true when a login
// exists but its lifetime has passed.
func loadStaff(ctx context.Context, sm *scs.SessionManager) (staff *Staff, expired bool) {
	if !sm.GetBool(ctx, SessionKeyAuthenticated) {
		return nil, false
	}

	role := model.Role(sm.GetString(ctx, SessionKeyLogin))
	if !role.Valid() {
		return nil, false
	}

	expiresAt := time.UnixMilli(sm.GetInt64(ctx, SessionKeyExpiresAt))
	if !timeNow().Before(expiresAt) {
		return nil, true
	}

	return &Staff{
		Login:     role,
		Name:      sm.GetString(ctx, SessionKeyDisplayName),
		ExpiresAt: expiresAt,
	}, false
}

// RequireStaff gates a route behind a live staff login. Requests without one
// are redirected to the login page; an expired login is cleared first and
// flagged so the login page can say why.
func RequireStaff(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			staff, expired := loadStaff(ctx, sm)
			if expired {
				slog.InfoContext(ctx, "staff session expired", "login", sm.GetString(ctx, SessionKeyLogin))
				clearStaffSession(ctx, sm)
				sm.Put(ctx, SessionKeySessionExpired, true)
			}
			if staff == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx = context.WithValue(ctx, ContextKeyStaff, *staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadStaff attaches a live staff login to the context when there is one,
// without redirecting. Used on public pages that show the navigation.
func LoadStaff(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if staff, _ := loadStaff(r.Context(), sm); staff != nil {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyStaff, *staff))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetStaff returns the staff member on the request, or nil.
func GetStaff(r *http.Request) *Staff {
	staff, ok := r.Context().Value(ContextKeyStaff).(Staff)
	if !ok {
		return nil
	}
	return &staff
}

// RequestPath stores the request path in the context for the log handler.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
