// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Visited status values as stored in visitas.visitado and shown in reports.
const (
	VisitedYes = "Si"
	VisitedNo  = "No"
)

// VisitedStatus derives the visited flag from the number of follow-ups.
func VisitedStatus(followUps int64) string {
	if followUps > 0 {
		return VisitedYes
	}
	return VisitedNo
}

// VisitorStats are aggregate counts over a (possibly filtered) visitor list.
type VisitorStats struct {
	Total   int
	Visited int
	Pending int
}
