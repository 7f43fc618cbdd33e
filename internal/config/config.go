// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/visitas-go/internal/model"
)

// Development defaults. They let the application start with no environment
// at all and are rejected in production.
const (
	DevSessionSecret     = "dev-only-session-secret-change-me!"
	DevPastorPassword    = "pastor-dev"
	DevSecretaryPassword = "secretary-dev"
	DevAssistantPassword = "assistant-dev"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	DevSessionSecret,
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

var knownWeakPasswords = []string{
	DevPastorPassword,
	DevSecretaryPassword,
	DevAssistantPassword,
	"1234",
	"password",
	"admin",
}

// MinSessionSecretLength is the minimum session secret length in bytes.
const MinSessionSecretLength = 32

// MinPasswordLength is the minimum staff password length accepted in production.
const MinPasswordLength = 10

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string `env:"VISITAS_DATABASE_URL" envDefault:"sqlite://./data/visitas.db"`
	SessionSecret string `env:"VISITAS_SESSION_SECRET" envDefault:"dev-only-session-secret-change-me!"`
	ServerHost    string `env:"VISITAS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"VISITAS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"VISITAS_ENV" envDefault:"development"`
	LogLevel      string `env:"VISITAS_LOG_LEVEL" envDefault:"info"`

	// SessionLifetime is the absolute lifetime of a staff login.
	SessionLifetime time.Duration `env:"VISITAS_SESSION_LIFETIME" envDefault:"60m"`

	// RedisURL switches session storage to Redis when set.
	RedisURL string `env:"VISITAS_REDIS_URL"`

	// Seed passwords for the fixed staff accounts. Only used when the
	// account does not exist yet.
	PastorPassword    string `env:"VISITAS_PASTOR_PASSWORD" envDefault:"pastor-dev"`
	SecretaryPassword string `env:"VISITAS_SECRETARY_PASSWORD" envDefault:"secretary-dev"`
	AssistantPassword string `env:"VISITAS_ASSISTANT_PASSWORD" envDefault:"assistant-dev"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if Redis session storage is configured.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// StaffPasswords returns the seed password of every staff role.
func (c Config) StaffPasswords() map[model.Role]string {
	return map[model.Role]string{
		model.RolePastor:    c.PastorPassword,
		model.RoleSecretary: c.SecretaryPassword,
		model.RoleAssistant: c.AssistantPassword,
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Env != "development" && cfg.Env != "production" {
		return nil, fmt.Errorf("VISITAS_ENV must be development or production, got %q", cfg.Env)
	}
	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("VISITAS_SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}

	problems := cfg.securityProblems()
	if len(problems) == 0 {
		return cfg, nil
	}

	if !cfg.IsDevelopment() {
		return nil, fmt.Errorf("insecure production configuration: %w", errors.Join(problems...))
	}
	for _, p := range problems {
		slog.Warn("insecure configuration, acceptable only in development", "problem", p.Error())
	}
	return cfg, nil
}

// securityProblems lists secrets that are defaults, too short or weak.
func (c Config) securityProblems() []error {
	var problems []error

	switch {
	case len(c.SessionSecret) < MinSessionSecretLength:
		problems = append(problems, fmt.Errorf("VISITAS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate one with: openssl rand -base64 32", MinSessionSecretLength, len(c.SessionSecret)))
	case slices.Contains(knownWeakSecrets, c.SessionSecret):
		problems = append(problems, errors.New("VISITAS_SESSION_SECRET is a known default value; "+
			"generate one with: openssl rand -base64 32"))
	case !hasMinimumEntropy(c.SessionSecret):
		slog.Warn("VISITAS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	for _, role := range model.Roles {
		name := "VISITAS_" + strings.ToUpper(role.String()) + "_PASSWORD"
		password := c.StaffPasswords()[role]
		switch {
		case slices.Contains(knownWeakPasswords, password):
			problems = append(problems, fmt.Errorf("%s is a known default value", name))
		case len(password) < MinPasswordLength:
			problems = append(problems, fmt.Errorf("%s must be at least %d characters long", name, MinPasswordLength))
		}
	}

	return problems
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
