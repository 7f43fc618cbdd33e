// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/visitas-go/internal/model"
)

const staffColumns = `id, login, password_hash, nombre, created_at`

func scanStaff(row rowScanner) (Staff, error) {
	var s Staff
	var login string
	err := row.Scan(&s.ID, &login, &s.PasswordHash, &s.Name, &s.CreatedAt)
	s.Login = model.Role(login)
	return s, err
}

// GetStaffByLogin looks up a staff account by its lowercase login.
func (q *Queries) GetStaffByLogin(ctx context.Context, login model.Role) (Staff, error) {
	row := q.queryRow(ctx, `SELECT `+staffColumns+` FROM usuarios WHERE login = ?`, string(login))
	return scanStaff(row)
}

// CreateStaffParams holds the columns of a new staff account.
type CreateStaffParams struct {
	Login        model.Role
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// CreateStaff inserts a staff account.
func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (Staff, error) {
	row := q.queryRow(ctx, `INSERT INTO usuarios (login, password_hash, nombre, created_at)
VALUES (?, ?, ?, ?)
RETURNING `+staffColumns, string(arg.Login), arg.PasswordHash, arg.Name, arg.CreatedAt.UTC())
	return scanStaff(row)
}

// ListStaff returns all staff accounts ordered by id.
func (q *Queries) ListStaff(ctx context.Context) ([]Staff, error) {
	rows, err := q.query(ctx, `SELECT `+staffColumns+` FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
