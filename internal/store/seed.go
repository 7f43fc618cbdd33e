// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/visitas-go/internal/auth"
	"github.com/olegiv/visitas-go/internal/model"
)

// SeedStaff provisions the fixed staff accounts that do not exist yet.
// Existing accounts are never modified.
func SeedStaff(ctx context.Context, db *DB, passwords map[model.Role]string) error {
	queries := db.Queries()

	for _, role := range model.Roles {
		_, err := queries.GetStaffByLogin(ctx, role)
		if err == nil {
			slog.Debug("staff account already exists, skipping seed", "login", role)
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking for staff account %s: %w", role, err)
		}

		password, ok := passwords[role]
		if !ok || password == "" {
			return fmt.Errorf("no seed password configured for %s", role)
		}

		passwordHash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", role, err)
		}

		staff, err := queries.CreateStaff(ctx, CreateStaffParams{
			Login:        role,
			PasswordHash: passwordHash,
			Name:         role.DisplayName(),
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return fmt.Errorf("creating staff account %s: %w", role, err)
		}

		slog.Info("created staff account", "id", staff.ID, "login", staff.Login)
	}

	return nil
}
