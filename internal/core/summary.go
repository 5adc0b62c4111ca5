package core

// NeverPurchased is the LastPurchased sentinel for items with no history.
const NeverPurchased = "Never"

// ItemSummary is the derived per-item aggregate shown in the summary chips
// and the inventory table. Recomputed from the feed on demand, never stored.
type ItemSummary struct {
	ItemID             string
	TotalQty           int64
	TotalSpent         Money
	AvgPrice           Money
	LastPurchased      string
	PriceChange        Money
	PriceChangePercent float64
}

// Summarize reduces one item's purchase history into an ItemSummary.
//
// The entry slice is assumed ordered ascending by date and is not sorted or
// verified here. Every edge case degrades to a zero value or the
// NeverPurchased sentinel; Summarize never fails:
//
//   - empty history: all totals zero, LastPurchased = "Never"
//   - TotalQty == 0: AvgPrice = 0, no division happens
//   - single entry: PriceChange and PriceChangePercent are 0
//   - first price == 0: PriceChangePercent = 0
//
// The price change is the delta between the first and last entry's unit
// price (a trend-endpoint delta, not min/max volatility).
func Summarize(itemID string, entries []PurchaseEntry) ItemSummary {
	s := ItemSummary{ItemID: itemID, LastPurchased: NeverPurchased}
	if len(entries) == 0 {
		return s
	}

	for _, e := range entries {
		s.TotalQty += e.Qty
		s.TotalSpent.Cents += e.Total.Cents
	}
	if s.TotalQty > 0 {
		s.AvgPrice = Money{Cents: divRoundHalfUp(s.TotalSpent.Cents, s.TotalQty)}
	}

	first, last := entries[0], entries[len(entries)-1]
	s.LastPurchased = last.Date.Label()
	s.PriceChange = Money{Cents: last.Price.Cents - first.Price.Cents}
	if first.Price.Cents > 0 {
		s.PriceChangePercent = float64(s.PriceChange.Cents) / float64(first.Price.Cents) * 100
	}
	return s
}

// divRoundHalfUp divides cents by qty with half-up rounding, handling
// negative numerators (totals can go negative only on corrupt feeds, but the
// rounding stays correct either way).
func divRoundHalfUp(cents, qty int64) int64 {
	if qty == 0 {
		return 0
	}
	if cents >= 0 {
		return (cents + qty/2) / qty
	}
	return -((-cents + qty/2) / qty)
}
