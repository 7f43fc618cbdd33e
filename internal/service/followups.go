// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/visitas-go/internal/store"
)

// History is a visitor's follow-up log.
type History struct {
	Visitor store.Visitor
	Entries []store.FollowUp
	Count   int
	Latest  *store.FollowUp
}

// FollowUpService records and maintains follow-up visits.
type FollowUpService struct {
	db  *store.DB
	now func() time.Time
}

// NewFollowUpService creates a new FollowUpService.
func NewFollowUpService(db *store.DB) *FollowUpService {
	return &FollowUpService{db: db, now: time.Now}
}

// Record appends a follow-up to a visitor and marks the visitor visited.
// A blank staff name or date is not an error: nothing is written and
// recorded is false.
func (s *FollowUpService) Record(ctx context.Context, visitorID int64, form FollowUpForm) (recorded bool, err error) {
	trimFields(&form)
	if form.VisitedBy == "" || form.Date == "" {
		return false, nil
	}
	if err := validateForm(form); err != nil {
		return false, err
	}

	err = s.db.InTx(ctx, func(q *store.Queries) error {
		exists, err := q.VisitorExists(ctx, visitorID)
		if err != nil {
			return fmt.Errorf("checking visitor %d: %w", visitorID, err)
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := q.CreateFollowUp(ctx, visitorID, form.params(), s.now()); err != nil {
			return fmt.Errorf("creating follow-up for visitor %d: %w", visitorID, err)
		}
		if err := q.SyncVisitedStatus(ctx, visitorID); err != nil {
			return fmt.Errorf("updating visited status of visitor %d: %w", visitorID, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// History returns every follow-up of a visitor, most recent first.
func (s *FollowUpService) History(ctx context.Context, visitorID int64) (History, error) {
	queries := s.db.Queries()

	visitor, err := queries.GetVisitor(ctx, visitorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return History{}, ErrNotFound
		}
		return History{}, fmt.Errorf("loading visitor %d: %w", visitorID, err)
	}

	entries, err := queries.ListFollowUps(ctx, visitorID)
	if err != nil {
		return History{}, fmt.Errorf("listing follow-ups of visitor %d: %w", visitorID, err)
	}

	h := History{Visitor: visitor, Entries: entries, Count: len(entries)}
	if len(entries) > 0 {
		h.Latest = &entries[0]
	}
	return h, nil
}

// Get returns one follow-up entry.
func (s *FollowUpService) Get(ctx context.Context, id int64) (store.FollowUp, error) {
	f, err := s.db.Queries().GetFollowUp(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.FollowUp{}, ErrNotFound
		}
		return store.FollowUp{}, fmt.Errorf("loading follow-up %d: %w", id, err)
	}
	return f, nil
}

// Update edits one entry and returns the id of the visitor it belongs to.
// Unlike Record, blank fields are a validation error.
func (s *FollowUpService) Update(ctx context.Context, id int64, form FollowUpForm) (visitorID int64, err error) {
	trimFields(&form)
	if err := validateForm(form); err != nil {
		return 0, err
	}

	err = s.db.InTx(ctx, func(q *store.Queries) error {
		f, err := q.GetFollowUp(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("loading follow-up %d: %w", id, err)
		}
		visitorID = f.VisitorID

		if _, err := q.UpdateFollowUp(ctx, id, form.params()); err != nil {
			return fmt.Errorf("updating follow-up %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return visitorID, nil
}

// Delete removes one entry, re-syncs the owner's visited status and returns
// the owner's id.
func (s *FollowUpService) Delete(ctx context.Context, id int64) (visitorID int64, err error) {
	err = s.db.InTx(ctx, func(q *store.Queries) error {
		f, err := q.GetFollowUp(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("loading follow-up %d: %w", id, err)
		}
		visitorID = f.VisitorID

		if _, err := q.DeleteFollowUp(ctx, id); err != nil {
			return fmt.Errorf("deleting follow-up %d: %w", id, err)
		}
		if err := q.SyncVisitedStatus(ctx, visitorID); err != nil {
			return fmt.Errorf("updating visited status of visitor %d: %w", visitorID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return visitorID, nil
}
