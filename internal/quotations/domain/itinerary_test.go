package domain

import (
	"testing"
	"time"

	"travelquote_backend/platform/apperr"
)

func TestValidateDayNumber(t *testing.T) {
	if err := ValidateDayNumber(1, false, 0); err != nil {
		t.Fatalf("day 1 is always valid: %v", err)
	}
	if err := ValidateDayNumber(0, false, 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("day 0 must be rejected, got %v", err)
	}
	if err := ValidateDayNumber(-3, false, 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative day must be rejected, got %v", err)
	}

	// Span bound only applies when the policy is on.
	if err := ValidateDayNumber(10, false, 5); err != nil {
		t.Fatalf("day beyond span allowed when policy off: %v", err)
	}
	if err := ValidateDayNumber(10, true, 5); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("day beyond span must be rejected when policy on, got %v", err)
	}
	if err := ValidateDayNumber(5, true, 5); err != nil {
		t.Fatalf("last day of the trip is valid: %v", err)
	}
}

func TestCheckUniqueDay(t *testing.T) {
	existing := []int{1, 3, 7}

	if err := CheckUniqueDay(existing, 2); err != nil {
		t.Fatalf("gap day should be insertable: %v", err)
	}
	if err := CheckUniqueDay(existing, 3); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("duplicate day must be rejected, got %v", err)
	}
}

func TestCompactionPlan(t *testing.T) {
	plan := CompactionPlan([]int{7, 2, 9})

	want := map[int]int{2: 1, 7: 2, 9: 3}
	for from, to := range want {
		if plan[from] != to {
			t.Fatalf("day %d should renumber to %d, got %d", from, to, plan[from])
		}
	}
}

func TestCompactionPlanAlreadyCompact(t *testing.T) {
	plan := CompactionPlan([]int{1, 2, 3})
	for _, n := range []int{1, 2, 3} {
		if plan[n] != n {
			t.Fatalf("compact itinerary should map %d to itself, got %d", n, plan[n])
		}
	}
}

func TestTripSpanDays(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := TripSpanDays(start, start); got != 1 {
		t.Fatalf("single-day trip spans 1 day, got %d", got)
	}
	if got := TripSpanDays(start, start.AddDate(0, 0, 4)); got != 5 {
		t.Fatalf("five-day trip spans 5 days, got %d", got)
	}
}

func TestValidateDates(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if err := ValidateDates(start, start); err != nil {
		t.Fatalf("equal start and end is valid: %v", err)
	}
	if err := ValidateDates(start, start.AddDate(0, 0, -1)); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("start after end must be rejected, got %v", err)
	}
}

func TestPartyValidate(t *testing.T) {
	if err := (Party{Adults: 1}).Validate(); err != nil {
		t.Fatalf("one adult is a valid party: %v", err)
	}
	if err := (Party{Adults: 0, Children: 2}).Validate(); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("party without adults must be rejected, got %v", err)
	}
	if err := (Party{Adults: 2, Children: -1}).Validate(); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative children must be rejected, got %v", err)
	}
}
