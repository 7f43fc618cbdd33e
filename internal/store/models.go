// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"

	"github.com/olegiv/visitas-go/internal/model"
)

// Visitor is a row of visitas joined with its follow-up count.
// Visited is always derived from FollowUpCount when read.
type Visitor struct {
	ID            int64
	Date          model.Date
	Service       string
	Name          string
	Address       string
	Phone         string
	ReferredBy    string
	Sex           string
	AgeRange      string
	HouseVisit    string
	Visited       string
	FollowUpCount int64
}

// VisitorParams are the editable visitor columns.
type VisitorParams struct {
	Date       model.Date
	Service    string
	Name       string
	Address    string
	Phone      string
	ReferredBy string
	Sex        string
	AgeRange   string
	HouseVisit string
}

// VisitorFilter restricts ListVisitors to an inclusive date range.
// A zero bound is unconstrained.
type VisitorFilter struct {
	From model.Date
	To   model.Date
}

// FollowUp is a row of detalle_visita.
type FollowUp struct {
	ID        int64
	VisitorID int64
	VisitedBy string
	Date      model.Date
	Note      string
	CreatedAt time.Time
}

// FollowUpParams are the editable follow-up columns.
type FollowUpParams struct {
	VisitedBy string
	Date      model.Date
	Note      string
}

// ReportRow is the printable projection of a visitor.
type ReportRow struct {
	Date       model.Date
	Name       string
	ReferredBy string
	Visited    string
}

// Staff is a row of usuarios.
type Staff struct {
	ID           int64
	Login        model.Role
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}
