// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/visitas-go/internal/auth"
	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
)

// AuthService verifies staff credentials.
type AuthService struct {
	db *store.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *store.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate checks a login name and password against the staff accounts.
// Names outside the fixed roles fail with ErrInvalidUser whatever the password;
// a missing account or a wrong password fails with ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (store.Staff, error) {
	role, ok := model.ParseRole(login)
	if !ok {
		return store.Staff{}, ErrInvalidUser
	}

	staff, err := s.db.Queries().GetStaffByLogin(ctx, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("staff account missing", "login", role)
			return store.Staff{}, ErrInvalidCredentials
		}
		return store.Staff{}, fmt.Errorf("loading staff account: %w", err)
	}

	valid, err := auth.CheckPassword(password, staff.PasswordHash)
	if err != nil {
		return store.Staff{}, fmt.Errorf("checking password for %s: %w", role, err)
	}
	if !valid {
		return store.Staff{}, ErrInvalidCredentials
	}

	return staff, nil
}
