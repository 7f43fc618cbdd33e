// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"github.com/olegiv/visitas-go/internal/model"
)

const visitorColumns = `v.id, v.fecha, v.servicio, v.nombre, v.direccion, v.telefono,
	v.invitado_por, v.sexo, v.rango_edad, v.visita_casa,
	(SELECT COUNT(*) FROM detalle_visita d WHERE d.visita_id = v.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (Visitor, error) {
	var v Visitor
	err := row.Scan(
		&v.ID, &v.Date, &v.Service, &v.Name, &v.Address, &v.Phone,
		&v.ReferredBy, &v.Sex, &v.AgeRange, &v.HouseVisit, &v.FollowUpCount,
	)
	v.Visited = model.VisitedStatus(v.FollowUpCount)
	return v, err
}

const createVisitor = `INSERT INTO visitas
	(fecha, servicio, nombre, direccion, telefono, invitado_por, sexo, rango_edad, visita_casa, visitado)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'No')
RETURNING id`

// CreateVisitor inserts a visitor with visited status "No" and returns its id.
func (q *Queries) CreateVisitor(ctx context.Context, arg VisitorParams) (int64, error) {
	var id int64
	err := q.queryRow(ctx, createVisitor,
		arg.Date, arg.Service, arg.Name, arg.Address, arg.Phone,
		arg.ReferredBy, arg.Sex, arg.AgeRange, arg.HouseVisit,
	).Scan(&id)
	return id, err
}

// GetVisitor returns a visitor with its derived status.
func (q *Queries) GetVisitor(ctx context.Context, id int64) (Visitor, error) {
	row := q.queryRow(ctx, `SELECT `+visitorColumns+` FROM visitas v WHERE v.id = ?`, id)
	return scanVisitor(row)
}

// ListVisitors returns visitors in the filter's inclusive range, newest first.
func (q *Queries) ListVisitors(ctx context.Context, f VisitorFilter) ([]Visitor, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + visitorColumns + ` FROM visitas v WHERE 1=1`)
	if !f.From.IsZero() {
		sb.WriteString(` AND v.fecha >= ?`)
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		sb.WriteString(` AND v.fecha <= ?`)
		args = append(args, f.To)
	}
	sb.WriteString(` ORDER BY v.fecha DESC, v.id DESC`)

	rows, err := q.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const updateVisitor = `UPDATE visitas SET
	fecha = ?, servicio = ?, nombre = ?, direccion = ?, telefono = ?,
	invitado_por = ?, sexo = ?, rango_edad = ?, visita_casa = ?
WHERE id = ?`

// UpdateVisitor overwrites the editable columns and returns the number of
// rows affected. The stored visited status is left alone.
func (q *Queries) UpdateVisitor(ctx context.Context, id int64, arg VisitorParams) (int64, error) {
	res, err := q.exec(ctx, updateVisitor,
		arg.Date, arg.Service, arg.Name, arg.Address, arg.Phone,
		arg.ReferredBy, arg.Sex, arg.AgeRange, arg.HouseVisit, id,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteVisitor removes a visitor row and returns the number of rows affected.
func (q *Queries) DeleteVisitor(ctx context.Context, id int64) (int64, error) {
	res, err := q.exec(ctx, `DELETE FROM visitas WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// VisitorExists reports whether a visitor with id exists.
func (q *Queries) VisitorExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM visitas WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

const syncVisitedStatus = `UPDATE visitas SET visitado =
	CASE WHEN EXISTS (SELECT 1 FROM detalle_visita d WHERE d.visita_id = visitas.id)
	THEN 'Si' ELSE 'No' END
WHERE id = ?`

// SyncVisitedStatus recomputes the stored visited column from the follow-up rows.
func (q *Queries) SyncVisitedStatus(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, syncVisitedStatus, id)
	return err
}

// GetStoredVisitedStatus returns the raw visitado column, bypassing derivation.
func (q *Queries) GetStoredVisitedStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := q.queryRow(ctx, `SELECT visitado FROM visitas WHERE id = ?`, id).Scan(&status)
	return status, err
}

const listReportRows = `SELECT v.fecha, v.nombre, v.invitado_por,
	CASE WHEN EXISTS (SELECT 1 FROM detalle_visita d WHERE d.visita_id = v.id)
	THEN 'Si' ELSE 'No' END
FROM visitas v
WHERE v.fecha BETWEEN ? AND ?
ORDER BY v.fecha ASC, v.id ASC`

// ListReportRows returns the printable projection for an inclusive range, oldest first.
func (q *Queries) ListReportRows(ctx context.Context, from, to model.Date) ([]ReportRow, error) {
	rows, err := q.query(ctx, listReportRows, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.Date, &r.Name, &r.ReferredBy, &r.Visited); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
