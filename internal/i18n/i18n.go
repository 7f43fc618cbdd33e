// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n translates UI strings for the supported languages.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when the client expresses no usable preference.
const DefaultLanguage = "es"

// SupportedLanguages lists the UI languages, default first.
var SupportedLanguages = []string{"es", "en"}

// Message is one entry of a messages.json catalog.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile is the layout of locales/<lang>/messages.json.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds the translations of every supported language.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	matcher      language.Matcher
	supported    []language.Tag
	logger       *slog.Logger
}

var catalog *Catalog

// Init loads the embedded catalogs. It may be called more than once.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string, len(SupportedLanguages)),
		logger:       logger,
	}

	for _, lang := range SupportedLanguages {
		c.supported = append(c.supported, language.MustParse(lang))
		if err := c.load(lang); err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
	}
	c.matcher = language.NewMatcher(c.supported)

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages, "default", DefaultLanguage)
	}
	return nil
}

func (c *Catalog) load(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file MessageFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[string]string, len(file.Messages))
	for _, msg := range file.Messages {
		m[msg.ID] = msg.Translation
	}
	c.translations[lang] = m

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(m))
	}
	return nil
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s, ok := c.translations[lang][key]; ok {
		return s, true
	}
	if s, ok := c.translations[DefaultLanguage][key]; ok {
		if lang != DefaultLanguage && c.logger != nil {
			c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
		return s, true
	}
	return "", false
}

// T translates key into lang, falling back to the default language and then
// to the key itself. Args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	s, ok := catalog.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value or a bare language code.
func MatchLanguage(accept string) string {
	if catalog == nil || strings.TrimSpace(accept) == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(accept)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := catalog.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(catalog.supported) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang is a supported language code.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// TranslationCount returns the number of translations loaded for lang.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}
