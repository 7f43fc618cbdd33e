// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const followUpColumns = `id, visita_id, visitado_por, fecha_visita, nota, created_at`

func scanFollowUp(row rowScanner) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.VisitorID, &f.VisitedBy, &f.Date, &f.Note, &f.CreatedAt)
	return f, err
}

const createFollowUp = `INSERT INTO detalle_visita
	(visita_id, visitado_por, fecha_visita, nota, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + followUpColumns

// CreateFollowUp appends a follow-up entry to a visitor.
func (q *Queries) CreateFollowUp(ctx context.Context, visitorID int64, arg FollowUpParams, createdAt time.Time) (FollowUp, error) {
	row := q.queryRow(ctx, createFollowUp, visitorID, arg.VisitedBy, arg.Date, arg.Note, createdAt.UTC())
	return scanFollowUp(row)
}

// GetFollowUp returns one follow-up entry.
func (q *Queries) GetFollowUp(ctx context.Context, id int64) (FollowUp, error) {
	row := q.queryRow(ctx, `SELECT `+followUpColumns+` FROM detalle_visita WHERE id = ?`, id)
	return scanFollowUp(row)
}

// ListFollowUps returns a visitor's follow-ups, most recent visit first.
func (q *Queries) ListFollowUps(ctx context.Context, visitorID int64) ([]FollowUp, error) {
	rows, err := q.query(ctx, `SELECT `+followUpColumns+` FROM detalle_visita
WHERE visita_id = ?
ORDER BY fecha_visita DESC, id DESC`, visitorID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// GetLatestFollowUp returns the follow-up with the most recent visit date.
func (q *Queries) GetLatestFollowUp(ctx context.Context, visitorID int64) (FollowUp, error) {
	row := q.queryRow(ctx, `SELECT `+followUpColumns+` FROM detalle_visita
WHERE visita_id = ?
ORDER BY fecha_visita DESC, id DESC
LIMIT 1`, visitorID)
	return scanFollowUp(row)
}

// CountFollowUps returns the number of follow-ups recorded for a visitor.
func (q *Queries) CountFollowUps(ctx context.Context, visitorID int64) (int64, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM detalle_visita WHERE visita_id = ?`, visitorID).Scan(&n)
	return n, err
}

// UpdateFollowUp overwrites staff member, date and note of one entry.
func (q *Queries) UpdateFollowUp(ctx context.Context, id int64, arg FollowUpParams) (int64, error) {
	res, err := q.exec(ctx, `UPDATE detalle_visita SET visitado_por = ?, fecha_visita = ?, nota = ? WHERE id = ?`,
		arg.VisitedBy, arg.Date, arg.Note, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteFollowUp removes one entry.
func (q *Queries) DeleteFollowUp(ctx context.Context, id int64) (int64, error) {
	res, err := q.exec(ctx, `DELETE FROM detalle_visita WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteFollowUpsByVisitor removes every entry owned by a visitor.
func (q *Queries) DeleteFollowUpsByVisitor(ctx context.Context, visitorID int64) error {
	_, err := q.exec(ctx, `DELETE FROM detalle_visita WHERE visita_id = ?`, visitorID)
	return err
}
