package service

import "travelquote_backend/internal/quotations/repository"

// SumItems derives the quotation total from its items. All amounts are
// integer minor units, so accumulation is exact; zero items sum to 0.
// The stored total on the quotation row is only ever written from this
// sum, inside the same transaction as the item mutation.
func SumItems(items []repository.Item) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceCents
	}
	return total
}
