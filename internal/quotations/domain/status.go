// Package domain holds the quotation engine's pure rules: the status
// lifecycle, itinerary numbering, party validation, and the polymorphic
// catalog reference. Nothing here touches storage or transport.
package domain

import "travelquote_backend/platform/apperr"

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusWon, StatusLost:
		return true
	}
	return false
}

// Terminal statuses freeze the quotation; it becomes an audit artifact.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Mutable reports whether items and itinerary days may still change.
func (s Status) Mutable() bool {
	return s == StatusPending || s == StatusSent
}

// transitions is the complete edge set of the lifecycle.
var transitions = map[Status][]Status{
	StatusPending: {StatusSent, StatusLost},
	StatusSent:    {StatusWon, StatusLost},
}

// CheckTransition validates a status change. It does not apply the
// has-items rule for PENDING to SENT; that needs the item set and lives
// with the caller holding the row.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return apperr.Validation("unknown status " + string(to))
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperr.InvalidTransition("cannot transition from " + string(from) + " to " + string(to))
}

// CheckMutable guards item and day writes against terminal quotations.
func CheckMutable(s Status) error {
	if !s.Mutable() {
		return apperr.Immutable("quotation is " + string(s) + " and can no longer be modified")
	}
	return nil
}
