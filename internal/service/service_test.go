// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
	"github.com/olegiv/visitas-go/internal/testutil"
)

func validVisitorForm(name, date string) VisitorForm {
	return VisitorForm{
		Date:       date,
		Service:    "Domingo",
		Name:       name,
		Address:    "Calle 1",
		Phone:      "555-0100",
		ReferredBy: "Ana",
		Sex:        "M",
		AgeRange:   "26-35",
		HouseVisit: "Si",
	}
}

func TestVisitorService_Register(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewVisitorService(db)
	ctx := context.Background()

	id, err := svc.Register(ctx, validVisitorForm("  Juan Pérez ", "2024-01-01"))
	require.NoError(t, err)
	require.NotZero(t, id)

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", detail.Visitor.Name)
	assert.Equal(t, model.VisitedNo, detail.Visitor.Visited)
	assert.Nil(t, detail.Latest)
}

func TestVisitorService_Register_Validation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewVisitorService(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		form  VisitorForm
		field string
		msg   string
	}{
		{"missing name", validVisitorForm("", "2024-01-01"), "nombre", MsgRequired},
		{"blank name", validVisitorForm("   ", "2024-01-01"), "nombre", MsgRequired},
		{"missing date", validVisitorForm("Juan", ""), "fecha", MsgRequired},
		{"malformed date", validVisitorForm("Juan", "01/02/2024"), "fecha", MsgDate},
		{"impossible date", validVisitorForm("Juan", "2024-02-30"), "fecha", MsgDate},
		{"year one", validVisitorForm("Juan", "0001-01-01"), "fecha", MsgDate},
		{"before 1900", validVisitorForm("Juan", "1899-12-31"), "fecha", MsgDate},
		{"missing phone", func() VisitorForm { f := validVisitorForm("Juan", "2024-01-01"); f.Phone = ""; return f }(), "telefono", MsgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.form)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected *ValidationError, got %v", err)
			assert.True(t, ve.Has(tt.field), "fields: %v", ve.Fields)
			assert.Equal(t, tt.msg, ve.Fields[tt.field])
		})
	}

	list, err := svc.List(ctx, store.VisitorFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Visitors, "nothing should be written on validation failure")
}

func TestVisitorService_ListStats(t *testing.T) {
	db := testutil.TestDB(t)
	visitors := NewVisitorService(db)
	followUps := NewFollowUpService(db)
	ctx := context.Background()

	a := testutil.CreateVisitor(t, db, "A", "2024-01-01")
	testutil.CreateVisitor(t, db, "B", "2024-01-10")
	c := testutil.CreateVisitor(t, db, "C", "2024-02-01")

	for _, id := range []int64{a, c} {
		ok, err := followUps.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "2024-02-05"})
		require.NoError(t, err)
		require.True(t, ok)
	}

	list, err := visitors.List(ctx, store.VisitorFilter{})
	require.NoError(t, err)
	assert.Equal(t, model.VisitorStats{Total: 3, Visited: 2, Pending: 1}, list.Stats)

	filter, ok := ParseVisitorFilter("2024-01-05", "2024-02-01")
	require.True(t, ok)
	list, err = visitors.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, model.VisitorStats{Total: 2, Visited: 1, Pending: 1}, list.Stats)
	assert.Equal(t, list.Stats.Total, list.Stats.Visited+list.Stats.Pending)
}

func TestParseVisitorFilter(t *testing.T) {
	f, ok := ParseVisitorFilter("", "")
	assert.True(t, ok)
	assert.True(t, f.From.IsZero())
	assert.True(t, f.To.IsZero())

	f, ok = ParseVisitorFilter("bad", "2024-01-31")
	assert.False(t, ok)
	assert.True(t, f.From.IsZero(), "malformed bound should be ignored")
	assert.Equal(t, "2024-01-31", f.To.String())
}

func TestVisitorService_Update(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewVisitorService(db)
	ctx := context.Background()

	id := testutil.CreateVisitor(t, db, "Juan", "2024-01-01")
	_, err := NewFollowUpService(db).Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-02"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, validVisitorForm("Juan Editado", "2024-01-03")))

	detail, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Juan Editado", detail.Visitor.Name)
	assert.Equal(t, model.VisitedYes, detail.Visitor.Visited, "update must not reset visited status")

	stored, err := db.Queries().GetStoredVisitedStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VisitedYes, stored)

	err = svc.Update(ctx, 99999, validVisitorForm("X", "2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVisitorService_NotFound(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewVisitorService(db)
	ctx := context.Background()

	_, err := svc.Get(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowUpService_Record(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewFollowUpService(db)
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	id := testutil.CreateVisitor(t, db, "Juan", "2024-01-01")

	ok, err := svc.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-05", Note: "primera"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Record(ctx, id, FollowUpForm{VisitedBy: "Secretaria", Date: "2024-01-20", Note: "segunda"})
	require.NoError(t, err)
	assert.True(t, ok)

	h, err := svc.History(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Count)
	require.NotNil(t, h.Latest)
	assert.Equal(t, "segunda", h.Latest.Note)
	assert.Equal(t, model.VisitedYes, h.Visitor.Visited)
	assert.True(t, h.Entries[1].CreatedAt.Equal(fixed))

	stored, err := db.Queries().GetStoredVisitedStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VisitedYes, stored)
}

func TestFollowUpService_Record_BlankIsNoOp(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewFollowUpService(db)
	ctx := context.Background()

	id := testutil.CreateVisitor(t, db, "Juan", "2024-01-01")

	for _, form := range []FollowUpForm{
		{VisitedBy: "", Date: "2024-01-05"},
		{VisitedBy: "Pastor", Date: ""},
		{VisitedBy: "  ", Date: "  "},
	} {
		ok, err := svc.Record(ctx, id, form)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	h, err := svc.History(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, h.Count)
	assert.Nil(t, h.Latest)
	assert.Equal(t, model.VisitedNo, h.Visitor.Visited)
}

func TestFollowUpService_Record_Errors(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewFollowUpService(db)
	ctx := context.Background()

	_, err := svc.Record(ctx, 99999, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-05"})
	assert.ErrorIs(t, err, ErrNotFound)

	id := testutil.CreateVisitor(t, db, "Juan", "2024-01-01")
	_, err = svc.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "5 de enero"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("fecha_visita"))

	recorded, err := svc.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "0001-01-01"})
	ve, ok = AsValidationError(err)
	require.True(t, ok, "expected *ValidationError, got %v", err)
	assert.Equal(t, MsgDate, ve.Fields["fecha_visita"])
	assert.False(t, recorded)
}

func TestFollowUpService_UpdateAndDelete(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewFollowUpService(db)
	ctx := context.Background()

	id := testutil.CreateVisitor(t, db, "Juan", "2024-01-01")
	_, err := svc.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-05"})
	require.NoError(t, err)

	h, err := svc.History(ctx, id)
	require.NoError(t, err)
	entryID := h.Latest.ID

	_, err = svc.Update(ctx, entryID, FollowUpForm{VisitedBy: "", Date: "2024-01-06"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("visitado_por"))

	owner, err := svc.Update(ctx, entryID, FollowUpForm{VisitedBy: "Asistente", Date: "2024-01-06", Note: "corregida"})
	require.NoError(t, err)
	assert.Equal(t, id, owner)

	f, err := svc.Get(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, "Asistente", f.VisitedBy)
	assert.Equal(t, "2024-01-06", f.Date.String())
	assert.Equal(t, "corregida", f.Note)

	owner, err = svc.Delete(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, id, owner)

	h, err = svc.History(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, h.Count)
	assert.Equal(t, model.VisitedNo, h.Visitor.Visited)

	stored, err := db.Queries().GetStoredVisitedStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VisitedNo, stored, "deleting the last entry resets the stored status")

	_, err = svc.Delete(ctx, entryID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, entryID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, entryID, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-06"})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Register, list, follow up, delete.
func TestJuanPerezLifecycle(t *testing.T) {
	db := testutil.TestDB(t)
	visitors := NewVisitorService(db)
	followUps := NewFollowUpService(db)
	ctx := context.Background()

	id, err := visitors.Register(ctx, validVisitorForm("Juan Pérez", "2024-01-01"))
	require.NoError(t, err)

	list, err := visitors.List(ctx, store.VisitorFilter{})
	require.NoError(t, err)
	require.Len(t, list.Visitors, 1)
	assert.Equal(t, model.VisitedNo, list.Visitors[0].Visited)

	ok, err := followUps.Record(ctx, id, FollowUpForm{VisitedBy: "Pastor", Date: "2024-01-05"})
	require.NoError(t, err)
	require.True(t, ok)

	detail, err := visitors.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VisitedYes, detail.Visitor.Visited)
	assert.EqualValues(t, 1, detail.Visitor.FollowUpCount)
	require.NotNil(t, detail.Latest)
	assert.Equal(t, "Pastor", detail.Latest.VisitedBy)

	require.NoError(t, visitors.Delete(ctx, id))

	n, err := db.Queries().CountFollowUps(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthService_Authenticate(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
		wantRole model.Role
	}{
		{"pastor", "pastor", "pastor-test-pass", nil, model.RolePastor},
		{"uppercase", "PASTOR", "pastor-test-pass", nil, model.RolePastor},
		{"padded", "  Secretary ", "secretary-test-pass", nil, model.RoleSecretary},
		{"wrong password", "assistant", "nope", ErrInvalidCredentials, ""},
		{"unknown user", "admin", "pastor-test-pass", ErrInvalidUser, ""},
		{"empty user", "", "x", ErrInvalidUser, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staff, err := svc.Authenticate(ctx, tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, staff.Login)
		})
	}
}

func TestAuthService_MissingAccount(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Authenticate(context.Background(), "pastor", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestReportService(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	testutil.CreateVisitor(t, db, "B", "2024-01-15")
	testutil.CreateVisitor(t, db, "A", "2024-01-01")
	testutil.CreateVisitor(t, db, "Z", "2023-12-31")

	from, to, err := ParseReportRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	report, err := svc.Build(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "A", report.Rows[0].Name)
	assert.Equal(t, "B", report.Rows[1].Name)
	assert.Equal(t, model.VisitedNo, report.Rows[0].Visited)
}

func TestParseReportRange(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		fields []string
	}{
		{"valid", "2024-01-01", "2024-01-31", nil},
		{"same day", "2024-01-01", "2024-01-01", nil},
		{"malformed from", "2024-13-01", "2024-01-31", []string{"desde"}},
		{"malformed both", "x", "y", []string{"desde", "hasta"}},
		{"reversed", "2024-02-01", "2024-01-01", []string{"hasta"}},
		{"year one from", "0001-01-01", "2024-01-31", []string{"desde"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseReportRange(tt.from, tt.to)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			for _, f := range tt.fields {
				assert.True(t, ve.Has(f), "expected field %s in %v", f, ve.Fields)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Fields: map[string]string{"nombre": MsgRequired, "fecha": MsgDate}}
	assert.Equal(t, "validation failed: fecha, nombre", ve.Error())

	var wrapped error = ve
	_, ok := AsValidationError(errors.Join(errors.New("outer"), wrapped))
	assert.True(t, ok)
}
