// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/visitas-go/internal/model"
)

const strongSecret = "Xk9#mP2$vL5nQ8@wR3jT6yB1cF4hZ7dA"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func setProduction(t *testing.T) {
	t.Helper()
	os.Clearenv()
	setEnv(t, "VISITAS_ENV", "production")
	setEnv(t, "VISITAS_SESSION_SECRET", strongSecret)
	setEnv(t, "VISITAS_PASTOR_PASSWORD", "Pastor-Pass-2026")
	setEnv(t, "VISITAS_SECRETARY_PASSWORD", "Secretaria-Pass-2026")
	setEnv(t, "VISITAS_ASSISTANT_PASSWORD", "Asistente-Pass-2026")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DatabaseURL != "sqlite://./data/visitas.db" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "sqlite://./data/visitas.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.SessionLifetime != 60*time.Minute {
		t.Errorf("SessionLifetime = %v, want 60m", cfg.SessionLifetime)
	}
	if cfg.SessionSecret != DevSessionSecret {
		t.Errorf("SessionSecret = %q, want dev default", cfg.SessionSecret)
	}
	if cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = true with no VISITAS_REDIS_URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setProduction(t)
	setEnv(t, "VISITAS_DATABASE_URL", "postgres://visitas:secret@db:5432/visitas")
	setEnv(t, "VISITAS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "VISITAS_SERVER_PORT", "3000")
	setEnv(t, "VISITAS_LOG_LEVEL", "debug")
	setEnv(t, "VISITAS_SESSION_LIFETIME", "15m")
	setEnv(t, "VISITAS_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DatabaseURL != "postgres://visitas:secret@db:5432/visitas" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.SessionLifetime != 15*time.Minute {
		t.Errorf("SessionLifetime = %v, want 15m", cfg.SessionLifetime)
	}
	if !cfg.UseRedisSessions() {
		t.Error("UseRedisSessions() = false with VISITAS_REDIS_URL set")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
}

func TestLoad_ProductionRejectsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"default session secret", "VISITAS_SESSION_SECRET", DevSessionSecret, "VISITAS_SESSION_SECRET is a known default"},
		{"short session secret", "VISITAS_SESSION_SECRET", "too-short", "at least 32 bytes"},
		{"default pastor password", "VISITAS_PASTOR_PASSWORD", DevPastorPassword, "VISITAS_PASTOR_PASSWORD is a known default"},
		{"weak secretary password", "VISITAS_SECRETARY_PASSWORD", "1234", "VISITAS_SECRETARY_PASSWORD is a known default"},
		{"short assistant password", "VISITAS_ASSISTANT_PASSWORD", "abc123", "VISITAS_ASSISTANT_PASSWORD must be at least"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setProduction(t)
			setEnv(t, tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail in production")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_DevelopmentAllowsDefaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "VISITAS_PASTOR_PASSWORD", "1234")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PastorPassword != "1234" {
		t.Errorf("PastorPassword = %q, want 1234", cfg.PastorPassword)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown env", "VISITAS_ENV", "staging"},
		{"non-numeric port", "VISITAS_SERVER_PORT", "http"},
		{"bad lifetime", "VISITAS_SESSION_LIFETIME", "an hour"},
		{"zero lifetime", "VISITAS_SESSION_LIFETIME", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestStaffPasswords(t *testing.T) {
	cfg := Config{PastorPassword: "p", SecretaryPassword: "s", AssistantPassword: "a"}
	got := cfg.StaffPasswords()

	want := map[model.Role]string{
		model.RolePastor:    "p",
		model.RoleSecretary: "s",
		model.RoleAssistant: "a",
	}
	for role, pw := range want {
		if got[role] != pw {
			t.Errorf("StaffPasswords()[%s] = %q, want %q", role, got[role], pw)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaaAAAAAAAAAAAAAAAA", false},
		{"aaaaaaaaaaAAAAAAAAAA111111111111", true},
		{strongSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.input); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
