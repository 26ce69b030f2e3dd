package repository

import (
	"strings"
	"testing"
)

func TestListQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listQuery)

	if !strings.Contains(query, "where agency_id = $1") {
		t.Fatal("quotation listing must be scoped to a single agency")
	}
}

func TestListCountMatchesListScope(t *testing.T) {
	if !strings.Contains(strings.ToLower(listCountQuery), "where agency_id = $1") {
		t.Fatal("count query must carry the same tenant scope as the listing")
	}
}

func TestDaysAreListedInDayOrder(t *testing.T) {
	query := strings.ToLower(listDaysQuery)

	if !strings.Contains(query, "order by day_number") {
		t.Fatal("itinerary days must be returned in ascending day order")
	}
}

func TestRenumberOffsetClearsHighestDayNumber(t *testing.T) {
	query := strings.ToLower(renumberOffsetQuery)

	if !strings.Contains(query, "max(day_number)") {
		t.Fatal("renumber offset must be derived from the highest existing day number")
	}
	if !strings.Contains(query, "where quotation_id = $1") {
		t.Fatal("renumber offset must be scoped to the quotation being compacted")
	}
}

func TestItemsAreListedDeterministically(t *testing.T) {
	query := strings.ToLower(listItemsQuery)

	if !strings.Contains(query, "order by sort_order, created_at") {
		t.Fatal("item listing must have a deterministic order")
	}
}
