// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"net/url"

	"github.com/olegiv/visitas-go/internal/model"
	"github.com/olegiv/visitas-go/internal/store"
)

// VisitorForm is the registration and edit form for a visitor.
type VisitorForm struct {
	Date       string `form:"fecha" validate:"required,isodate"`
	Service    string `form:"servicio" validate:"required,max=200"`
	Name       string `form:"nombre" validate:"required,max=200"`
	Address    string `form:"direccion" validate:"required,max=300"`
	Phone      string `form:"telefono" validate:"required,max=50"`
	ReferredBy string `form:"invitado_por" validate:"required,max=200"`
	Sex        string `form:"sexo" validate:"required,max=20"`
	AgeRange   string `form:"rango_edad" validate:"required,max=20"`
	HouseVisit string `form:"visita_casa" validate:"required,max=20"`
}

// VisitorFormFromValues reads a VisitorForm from submitted form values.
func VisitorFormFromValues(v url.Values) VisitorForm {
	return VisitorForm{
		Date:       v.Get("fecha"),
		Service:    v.Get("servicio"),
		Name:       v.Get("nombre"),
		Address:    v.Get("direccion"),
		Phone:      v.Get("telefono"),
		ReferredBy: v.Get("invitado_por"),
		Sex:        v.Get("sexo"),
		AgeRange:   v.Get("rango_edad"),
		HouseVisit: v.Get("visita_casa"),
	}
}

// VisitorFormFromVisitor pre-fills the edit form from a stored visitor.
func VisitorFormFromVisitor(v store.Visitor) VisitorForm {
	return VisitorForm{
		Date:       v.Date.String(),
		Service:    v.Service,
		Name:       v.Name,
		Address:    v.Address,
		Phone:      v.Phone,
		ReferredBy: v.ReferredBy,
		Sex:        v.Sex,
		AgeRange:   v.AgeRange,
		HouseVisit: v.HouseVisit,
	}
}

// params converts a validated form into store parameters.
func (f VisitorForm) params() store.VisitorParams {
	return store.VisitorParams{
		Date:       model.MustParseDate(f.Date),
		Service:    f.Service,
		Name:       f.Name,
		Address:    f.Address,
		Phone:      f.Phone,
		ReferredBy: f.ReferredBy,
		Sex:        f.Sex,
		AgeRange:   f.AgeRange,
		HouseVisit: f.HouseVisit,
	}
}

// FollowUpForm is the record and edit form for a follow-up visit.
type FollowUpForm struct {
	VisitedBy string `form:"visitado_por" validate:"required,max=200"`
	Date      string `form:"fecha_visita" validate:"required,isodate"`
	Note      string `form:"nota" validate:"max=4000"`
}

// FollowUpFormFromValues reads a FollowUpForm from submitted form values.
func FollowUpFormFromValues(v url.Values) FollowUpForm {
	return FollowUpForm{
		VisitedBy: v.Get("visitado_por"),
		Date:      v.Get("fecha_visita"),
		Note:      v.Get("nota"),
	}
}

// FollowUpFormFromFollowUp pre-fills the edit form from a stored entry.
func FollowUpFormFromFollowUp(f store.FollowUp) FollowUpForm {
	return FollowUpForm{
		VisitedBy: f.VisitedBy,
		Date:      f.Date.String(),
		Note:      f.Note,
	}
}

func (f FollowUpForm) params() store.FollowUpParams {
	return store.FollowUpParams{
		VisitedBy: f.VisitedBy,
		Date:      model.MustParseDate(f.Date),
		Note:      f.Note,
	}
}
