package domain

import (
	"fmt"
	"sort"

	"travelquote_backend/platform/apperr"
)

// ValidateDayNumber enforces the numbering rules for one itinerary day.
// spanDays is the inclusive trip length; the upper bound only applies
// when enforceSpan is set, the lower bound always does.
func ValidateDayNumber(dayNumber int, enforceSpan bool, spanDays int) error {
	if dayNumber < 1 {
		return apperr.Validation("day number must be at least 1")
	}
	if enforceSpan && dayNumber > spanDays {
		return apperr.Validation(fmt.Sprintf("day number %d exceeds the trip length of %d days", dayNumber, spanDays))
	}
	return nil
}

// CheckUniqueDay rejects an insert that would duplicate an existing day.
func CheckUniqueDay(existing []int, dayNumber int) error {
	for _, n := range existing {
		if n == dayNumber {
			return apperr.Validation(fmt.Sprintf("itinerary already has a day %d", dayNumber))
		}
	}
	return nil
}

// CompactionPlan maps current day numbers to 1..n preserving ascending
// order. Days already compact map to themselves.
func CompactionPlan(dayNumbers []int) map[int]int {
	sorted := make([]int, len(dayNumbers))
	copy(sorted, dayNumbers)
	sort.Ints(sorted)

	plan := make(map[int]int, len(sorted))
	for i, n := range sorted {
		plan[n] = i + 1
	}
	return plan
}
