package domain

import (
	"time"

	"travelquote_backend/platform/apperr"
)

// Party is the traveler composition of a trip.
type Party struct {
	Adults   int
	Children int
	Infants  int
}

func (p Party) Validate() error {
	if p.Adults < 1 {
		return apperr.Validation("party needs at least one adult")
	}
	if p.Children < 0 || p.Infants < 0 {
		return apperr.Validation("children and infants must not be negative")
	}
	return nil
}

// ValidateDates checks the trip date range.
func ValidateDates(start, end time.Time) error {
	if start.After(end) {
		return apperr.Validation("start date must not be after end date")
	}
	return nil
}

// TripSpanDays is the inclusive day count of the trip.
func TripSpanDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// ValidatePrice rejects negative item prices. They are never clamped.
func ValidatePrice(priceCents int64) error {
	if priceCents < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}
