// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, lang := range SupportedLanguages {
		if TranslationCount(lang) == 0 {
			t.Errorf("expected %s translations to be loaded", lang)
		}
	}
}

func TestT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"es", "action.save", nil, "Guardar"},
		{"en", "action.save", nil, "Save"},
		{"es", "auth.invalid_user", nil, "Usuario no válido."},
		{"en", "auth.invalid_user", nil, "Invalid user."},
		{"es", "auth.welcome", []any{"Pastor"}, "Bienvenido, Pastor."},
		{"en", "report.count", []any{3}, "3 visitors"},
		// Unknown language falls back to Spanish
		{"de", "action.save", nil, "Guardar"},
		// Unknown key is returned as-is
		{"es", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key, tt.args...)
			if result != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, result, tt.expected)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"es", "es"},
		{"en", "en"},
		{"en-US", "en"},
		{"es-MX", "es"},
		{"de", "es"},
		{"", "es"},
		{"en-US, es;q=0.9", "en"},
		{"es-AR, en;q=0.9", "es"},
		{"fr-FR, en;q=0.8", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := MatchLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang     string
		expected bool
	}{
		{"es", true},
		{"en", true},
		{"ES", true},
		{"ru", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := IsSupported(tt.lang); got != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, got, tt.expected)
			}
		})
	}
}

func readCatalog(t *testing.T, lang string) MessageFile {
	t.Helper()
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var file MessageFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return file
}

func TestCatalogs(t *testing.T) {
	ids := make(map[string]map[string]bool, len(SupportedLanguages))

	for _, lang := range SupportedLanguages {
		file := readCatalog(t, lang)
		if file.Language != lang {
			t.Errorf("%s catalog declares language %q", lang, file.Language)
		}

		ids[lang] = make(map[string]bool, len(file.Messages))
		for _, msg := range file.Messages {
			if ids[lang][msg.ID] {
				t.Errorf("%s: duplicate id %q", lang, msg.ID)
			}
			if msg.Translation == "" {
				t.Errorf("%s: empty translation for %q", lang, msg.ID)
			}
			ids[lang][msg.ID] = true
		}
	}

	ref := ids[DefaultLanguage]
	for _, lang := range SupportedLanguages {
		if lang == DefaultLanguage {
			continue
		}
		for id := range ref {
			if !ids[lang][id] {
				t.Errorf("%q missing from %s catalog", id, lang)
			}
		}
		for id := range ids[lang] {
			if !ref[id] {
				t.Errorf("%q missing from %s catalog", id, DefaultLanguage)
			}
		}
	}
}
