package service

import (
	"testing"

	"travelquote_backend/internal/quotations/repository"
)

func TestSumItemsEmpty(t *testing.T) {
	if got := SumItems(nil); got != 0 {
		t.Fatalf("empty item set must sum to 0, got %d", got)
	}
}

func TestSumItemsExactMinorUnits(t *testing.T) {
	// 100.00 + 50.00 + 25.50 in cents; fractional currency amounts stay
	// exact because nothing is ever accumulated as a float.
	items := []repository.Item{
		{PriceCents: 10000},
		{PriceCents: 5000},
		{PriceCents: 2550},
	}

	if got := SumItems(items); got != 17550 {
		t.Fatalf("expected 17550, got %d", got)
	}

	// Removing the 50.00 item leaves 125.50.
	if got := SumItems([]repository.Item{items[0], items[2]}); got != 12550 {
		t.Fatalf("expected 12550 after removal, got %d", got)
	}
}

func TestSumItemsLargeValues(t *testing.T) {
	items := []repository.Item{
		{PriceCents: 1 << 40},
		{PriceCents: 1 << 40},
	}
	if got := SumItems(items); got != 1<<41 {
		t.Fatalf("expected %d, got %d", int64(1)<<41, got)
	}
}
