package core

import (
	"math"
	"sort"
)

// TopMoverLimit caps how many price-change records one month reports.
const TopMoverLimit = 10

// PriceChange describes one item's largest price move within a month.
type PriceChange struct {
	ItemID        string
	ItemName      string
	OldPrice      Money
	NewPrice      Money
	Change        Money
	ChangePercent float64
}

// MonthlyAggregate is the derived per-month view across all items: total
// spend in that calendar month plus the top items by absolute percent price
// change.
type MonthlyAggregate struct {
	Month           Date
	TotalSpent      Money
	TopPriceChanges []PriceChange
}

type monthAccumulator struct {
	totalCents int64
	// best price-change candidate per item, plus the order items were first
	// retained in, so magnitude ties resolve by feed order.
	byItem    map[string]PriceChange
	itemOrder []string
}

// AggregateMonthly groups every item's purchase history by calendar month and
// produces one MonthlyAggregate per month present in the data, ordered
// ascending by actual calendar date (never by month label, so "Jan 2024" and
// "Jan 2025" sort apart).
//
// Price-change candidates come from adjacent entry pairs in each item's full
// history; a candidate belongs to the later entry's month even when the
// earlier entry falls in a prior month. Within one (item, month) pair only
// the candidate with the largest absolute percent change survives, and a
// later candidate replaces an earlier one only when strictly greater. Each
// month then keeps at most TopMoverLimit records, sorted descending by
// absolute percent change.
func AggregateMonthly(items []Item, histories []ItemHistory) []MonthlyAggregate {
	labels := make(map[string]string, len(items))
	for _, it := range items {
		labels[it.ID] = it.Label
	}

	months := make(map[Date]*monthAccumulator)
	acc := func(key Date) *monthAccumulator {
		m, ok := months[key]
		if !ok {
			m = &monthAccumulator{byItem: make(map[string]PriceChange)}
			months[key] = m
		}
		return m
	}

	for _, h := range histories {
		for i, e := range h.Entries {
			key := e.Date.MonthStart()
			m := acc(key)
			m.totalCents += e.Total.Cents

			if i == 0 {
				continue
			}
			prev := h.Entries[i-1]
			cand := PriceChange{
				ItemID:   h.ItemID,
				ItemName: labels[h.ItemID],
				OldPrice: prev.Price,
				NewPrice: e.Price,
				Change:   Money{Cents: e.Price.Cents - prev.Price.Cents},
			}
			if prev.Price.Cents > 0 {
				cand.ChangePercent = float64(cand.Change.Cents) / float64(prev.Price.Cents) * 100
			}
			existing, seen := m.byItem[h.ItemID]
			if !seen {
				m.byItem[h.ItemID] = cand
				m.itemOrder = append(m.itemOrder, h.ItemID)
				continue
			}
			// Strictly greater magnitude wins; a tie keeps the earlier one.
			if math.Abs(cand.ChangePercent) > math.Abs(existing.ChangePercent) {
				m.byItem[h.ItemID] = cand
			}
		}
	}

	keys := make([]Date, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j].Time) })

	out := make([]MonthlyAggregate, 0, len(keys))
	for _, key := range keys {
		m := months[key]
		agg := MonthlyAggregate{Month: key, TotalSpent: Money{Cents: m.totalCents}}
		changes := make([]PriceChange, 0, len(m.itemOrder))
		for _, id := range m.itemOrder {
			changes = append(changes, m.byItem[id])
		}
		sort.SliceStable(changes, func(i, j int) bool {
			return math.Abs(changes[i].ChangePercent) > math.Abs(changes[j].ChangePercent)
		})
		if len(changes) > TopMoverLimit {
			changes = changes[:TopMoverLimit]
		}
		agg.TopPriceChanges = changes
		out = append(out, agg)
	}
	return out
}
