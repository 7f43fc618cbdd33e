// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
)

// VisitorList is a filtered listing with its aggregate counts.
type VisitorList struct {
	Visitors []store.Visitor
	Stats    model.VisitorStats
}

// VisitorDetail is a visitor with its most recent follow-up, if any.
type VisitorDetail struct {
	Visitor store.Visitor
	Latest  *store.FollowUp
}

// VisitorService manages visitor records.
type VisitorService struct {
	db *store.DB
}

// NewVisitorService creates a new VisitorService.
func NewVisitorService(db *store.DB) *VisitorService {
	return &VisitorService{db: db}
}

// Register validates a public registration and stores it as not yet visited.
func (s *VisitorService) Register(ctx context.Context, form VisitorForm) (int64, error) {
	trimFields(&form)
	if err := validateForm(form); err != nil {
		return 0, err
	}

	id, err := s.db.Queries().CreateVisitor(ctx, form.params())
	if err != nil {
		return 0, fmt.Errorf("creating visitor: %w", err)
	}
	return id, nil
}

// ParseVisitorFilter builds a filter from optional query values. Malformed
// bounds are dropped and reported through ok.
func ParseVisitorFilter(from, to string) (filter store.VisitorFilter, ok bool) {
	ok = true
	if from != "" {
		d, err := model.ParseDate(from)
		if err != nil {
			ok = false
		} else {
			filter.From = d
		}
	}
	if to != "" {
		d, err := model.ParseDate(to)
		if err != nil {
			ok = false
		} else {
			filter.To = d
		}
	}
	return filter, ok
}

// List returns visitors within the filter, newest first, and their counts.
func (s *VisitorService) List(ctx context.Context, filter store.VisitorFilter) (VisitorList, error) {
	visitors, err := s.db.Queries().ListVisitors(ctx, filter)
	if err != nil {
		return VisitorList{}, fmt.Errorf("listing visitors: %w", err)
	}

	list := VisitorList{Visitors: visitors}
	for _, v := range visitors {
		list.Stats.Total++
		if v.FollowUpCount > 0 {
			list.Stats.Visited++
		} else {
			list.Stats.Pending++
		}
	}
	return list, nil
}

// Get returns one visitor and its latest follow-up.
func (s *VisitorService) Get(ctx context.Context, id int64) (VisitorDetail, error) {
	queries := s.db.Queries()

	visitor, err := queries.GetVisitor(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return VisitorDetail{}, ErrNotFound
		}
		return VisitorDetail{}, fmt.Errorf("loading visitor %d: %w", id, err)
	}

	detail := VisitorDetail{Visitor: visitor}
	if visitor.FollowUpCount == 0 {
		return detail, nil
	}

	latest, err := queries.GetLatestFollowUp(ctx, id)
	switch {
	case err == nil:
		detail.Latest = &latest
	case errors.Is(err, sql.ErrNoRows):
		// deleted between the two reads
	default:
		return VisitorDetail{}, fmt.Errorf("loading latest follow-up for visitor %d: %w", id, err)
	}
	return detail, nil
}

// Update overwrites the nine editable fields. The visited status is untouched.
func (s *VisitorService) Update(ctx context.Context, id int64, form VisitorForm) error {
	trimFields(&form)
	if err := validateForm(form); err != nil {
		return err
	}

	n, err := s.db.Queries().UpdateVisitor(ctx, id, form.params())
	if err != nil {
		return fmt.Errorf("updating visitor %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a visitor and its follow-ups in one transaction.
func (s *VisitorService) Delete(ctx context.Context, id int64) error {
	return s.db.InTx(ctx, func(q *store.Queries) error {
		if err := q.DeleteFollowUpsByVisitor(ctx, id); err != nil {
			return fmt.Errorf("deleting follow-ups of visitor %d: %w", id, err)
		}
		n, err := q.DeleteVisitor(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting visitor %d: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
