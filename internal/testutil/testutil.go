// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
)

// StaffPasswords are the seed passwords used by SeededDB.
var StaffPasswords = map[model.Role]string{
	model.RolePastor:    "pastor-test-pass",
	model.RoleSecretary: "secretary-test-pass",
	model.RoleAssistant: "assistant-test-pass",
}

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary SQLite database with migrations applied.
// The database is closed when the test finishes.
func TestDB(t *testing.T) *store.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "visitas-test.db")

	db, err := store.OpenSQLite(dbPath, store.DefaultDBConfig())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// SeededDB is TestDB with the staff accounts provisioned from StaffPasswords.
func SeededDB(t *testing.T) *store.DB {
	t.Helper()

	db := TestDB(t)
	if err := store.SeedStaff(context.Background(), db, StaffPasswords); err != nil {
		t.Fatalf("SeedStaff: %v", err)
	}
	return db
}

// CreateVisitor inserts a visitor with placeholder fields and the given name and date.
func CreateVisitor(t *testing.T, db *store.DB, name, date string) int64 {
	t.Helper()

	id, err := db.Queries().CreateVisitor(context.Background(), store.VisitorParams{
		Date:       model.MustParseDate(date),
		Service:    "Domingo",
		Name:       name,
		Address:    "Calle 1",
		Phone:      "555-0100",
		ReferredBy: "Ana",
		Sex:        "M",
		AgeRange:   "26-35",
		HouseVisit: "Si",
	})
	if err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}
	return id
}
