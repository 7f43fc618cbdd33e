// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the store, service and
// handler layers: staff roles, calendar dates and visited status.
package model

import "strings"

// Role is one of the fixed staff accounts. The set is closed; accounts are
// seeded at startup and never created through the UI.
type Role string

// Staff roles.
const (
	RolePastor    Role = "pastor"
	RoleSecretary Role = "secretary"
	RoleAssistant Role = "assistant"
)

// Roles lists every staff role in seeding order.
var Roles = []Role{RolePastor, RoleSecretary, RoleAssistant}

// ParseRole normalizes a login name and reports whether it names a staff role.
func ParseRole(login string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(login)))
	return r, r.Valid()
}

// Valid reports whether r is part of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RolePastor, RoleSecretary, RoleAssistant:
		return true
	}
	return false
}

// DisplayName returns the name shown in the UI and recorded on follow-ups.
func (r Role) DisplayName() string {
	switch r {
	case RolePastor:
		return "Pastor"
	case RoleSecretary:
		return "Secretaria"
	case RoleAssistant:
		return "Asistente"
	}
	return string(r)
}

func (r Role) String() string {
	return string(r)
}
