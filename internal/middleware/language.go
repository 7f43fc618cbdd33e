// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/visitas-go/internal/i18n"
)

// ContextKeyLanguage holds the UI language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie that remembers an explicit language choice.
const LanguageCookieName = "visitas_lang"

// Language selects the UI language for the request. Priority:
//  1. ?lang=xx, which also sets the preference cookie
//  2. the preference cookie
//  3. the Accept-Language header
//  4. i18n.DefaultLanguage
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""

		if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
			lang = q
			SetLanguageCookie(w, lang)
		}
		if lang == "" {
			if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
				lang = strings.ToLower(c.Value)
			}
		}
		if lang == "" {
			lang = i18n.MatchLanguage(r.Header.Get("Accept-Language"))
		}

		ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLang returns the request's UI language, or the default.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

// SetLanguageCookie stores the language preference for a year.
func SetLanguageCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
