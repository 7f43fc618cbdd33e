// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
)

// Report is the printable visitor listing for an inclusive date range.
type Report struct {
	From model.Date
	To   model.Date
	Rows []store.ReportRow
}

// ReportService builds date-ranged reports.
type ReportService struct {
	db *store.DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *store.DB) *ReportService {
	return &ReportService{db: db}
}

// ParseReportRange validates the two bounds of a report.
func ParseReportRange(from, to string) (model.Date, model.Date, error) {
	ve := &ValidationError{Fields: map[string]string{}}

	fromDate, err := model.ParseDate(from)
	if err != nil {
		ve.Fields["desde"] = MsgDate
	}
	toDate, err := model.ParseDate(to)
	if err != nil {
		ve.Fields["hasta"] = MsgDate
	}
	if len(ve.Fields) == 0 && toDate.Before(fromDate) {
		ve.Fields["hasta"] = MsgRange
	}

	if len(ve.Fields) > 0 {
		return model.Date{}, model.Date{}, ve
	}
	return fromDate, toDate, nil
}

// Build returns the rows dated within [from, to], oldest first.
func (s *ReportService) Build(ctx context.Context, from, to model.Date) (Report, error) {
	rows, err := s.db.Queries().ListReportRows(ctx, from, to)
	if err != nil {
		return Report{}, fmt.Errorf("building report %s..%s: %w", from, to, err)
	}
	return Report{From: from, To: to, Rows: rows}, nil
}
