package core

import (
	"fmt"
	"math"
	"testing"
)

func testCatalog(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("grm-%d", i+1), Label: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

func TestAggregateMonthlyTotals(t *testing.T) {
	items := testCatalog(2)
	histories := []ItemHistory{
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "Jan 2024", 10, 10000, 100000),
			entry(t, "Feb 2024", 5, 12000, 60000),
		}},
		{ItemID: "grm-2", Entries: []PurchaseEntry{
			entry(t, "Jan 2024", 2, 3000, 6000),
		}},
	}

	aggs := AggregateMonthly(items, histories)
	if len(aggs) != 2 {
		t.Fatalf("got %d months, want 2", len(aggs))
	}
	if aggs[0].Month.Label() != "Jan 2024" || aggs[1].Month.Label() != "Feb 2024" {
		t.Fatalf("month order: %q, %q", aggs[0].Month.Label(), aggs[1].Month.Label())
	}
	if aggs[0].TotalSpent.Cents != 106000 {
		t.Errorf("Jan total = %d, want 106000", aggs[0].TotalSpent.Cents)
	}
	if aggs[1].TotalSpent.Cents != 60000 {
		t.Errorf("Feb total = %d, want 60000", aggs[1].TotalSpent.Cents)
	}

	// Sum over months must equal the sum over every feed entry.
	var monthSum, feedSum int64
	for _, a := range aggs {
		monthSum += a.TotalSpent.Cents
	}
	for _, h := range histories {
		for _, e := range h.Entries {
			feedSum += e.Total.Cents
		}
	}
	if monthSum != feedSum {
		t.Fatalf("monthly totals %d != feed total %d", monthSum, feedSum)
	}
}

func TestAggregateMonthlyChangeAttribution(t *testing.T) {
	// The Jan->Feb change belongs to Feb even though the predecessor is in Jan.
	items := testCatalog(1)
	histories := []ItemHistory{
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "Jan 2024", 1, 10000, 10000),
			entry(t, "Feb 2024", 1, 12000, 12000),
		}},
	}
	aggs := AggregateMonthly(items, histories)

	if len(aggs[0].TopPriceChanges) != 0 {
		t.Fatalf("Jan should carry no change records, got %d", len(aggs[0].TopPriceChanges))
	}
	feb := aggs[1].TopPriceChanges
	if len(feb) != 1 {
		t.Fatalf("Feb should carry 1 change record, got %d", len(feb))
	}
	pc := feb[0]
	if pc.ItemID != "grm-1" || pc.ItemName != "Item 1" {
		t.Errorf("record identity: %+v", pc)
	}
	if pc.OldPrice.Cents != 10000 || pc.NewPrice.Cents != 12000 || pc.Change.Cents != 2000 {
		t.Errorf("record prices: %+v", pc)
	}
	if pc.ChangePercent != 20.0 {
		t.Errorf("ChangePercent = %v, want 20.0", pc.ChangePercent)
	}
}

func TestAggregateMonthlyRetentionKeepsLargestMagnitude(t *testing.T) {
	// Three entries in one month: +10% then -50%. The larger drop wins the
	// (item, month) slot; equal magnitudes keep the earlier candidate.
	items := testCatalog(1)
	histories := []ItemHistory{
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "2024-03-01", 1, 10000, 10000),
			entry(t, "2024-03-10", 1, 11000, 11000),
			entry(t, "2024-03-20", 1, 5500, 5500),
		}},
	}
	aggs := AggregateMonthly(items, histories)
	if len(aggs) != 1 {
		t.Fatalf("got %d months, want 1", len(aggs))
	}
	changes := aggs[0].TopPriceChanges
	if len(changes) != 1 {
		t.Fatalf("one item must yield at most one record per month, got %d", len(changes))
	}
	if changes[0].Change.Cents != -5500 {
		t.Fatalf("kept change = %d, want -5500 (the larger magnitude)", changes[0].Change.Cents)
	}
	if changes[0].ChangePercent != -50.0 {
		t.Fatalf("ChangePercent = %v, want -50.0", changes[0].ChangePercent)
	}
}

func TestAggregateMonthlyTopTenCap(t *testing.T) {
	// 12 items each move within the same month; only the 10 largest-by-
	// magnitude survive, sorted descending by absolute percent.
	items := testCatalog(12)
	var histories []ItemHistory
	for i := 0; i < 12; i++ {
		newPrice := int64(10000 + (i+1)*100) // +1% .. +12%
		histories = append(histories, ItemHistory{
			ItemID: fmt.Sprintf("grm-%d", i+1),
			Entries: []PurchaseEntry{
				entry(t, "2024-05-01", 1, 10000, 10000),
				entry(t, "2024-05-15", 1, newPrice, newPrice),
			},
		})
	}
	aggs := AggregateMonthly(items, histories)
	changes := aggs[0].TopPriceChanges
	if len(changes) != TopMoverLimit {
		t.Fatalf("got %d records, want %d", len(changes), TopMoverLimit)
	}
	for i := 1; i < len(changes); i++ {
		if math.Abs(changes[i].ChangePercent) > math.Abs(changes[i-1].ChangePercent) {
			t.Fatalf("records not sorted by descending magnitude at %d", i)
		}
	}
	// The two smallest movers (+1%, +2%) fall off.
	seen := map[string]bool{}
	for _, c := range changes {
		if seen[c.ItemID] {
			t.Fatalf("duplicate item %s in one month", c.ItemID)
		}
		seen[c.ItemID] = true
	}
	if seen["grm-1"] || seen["grm-2"] {
		t.Fatal("smallest movers should have been cut")
	}
}

func TestAggregateMonthlyTieKeepsFeedOrder(t *testing.T) {
	// Identical magnitudes: feed iteration order is the tiebreak.
	items := testCatalog(2)
	histories := []ItemHistory{
		{ItemID: "grm-2", Entries: []PurchaseEntry{
			entry(t, "2024-07-01", 1, 10000, 10000),
			entry(t, "2024-07-20", 1, 11000, 11000),
		}},
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "2024-07-02", 1, 20000, 20000),
			entry(t, "2024-07-21", 1, 22000, 22000),
		}},
	}
	aggs := AggregateMonthly(items, histories)
	changes := aggs[0].TopPriceChanges
	if len(changes) != 2 {
		t.Fatalf("got %d records, want 2", len(changes))
	}
	if changes[0].ItemID != "grm-2" || changes[1].ItemID != "grm-1" {
		t.Fatalf("tie order = %s, %s; want feed order grm-2, grm-1",
			changes[0].ItemID, changes[1].ItemID)
	}
}

func TestAggregateMonthlyZeroPreviousPrice(t *testing.T) {
	items := testCatalog(1)
	histories := []ItemHistory{
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "Jan 2024", 1, 0, 0),
			entry(t, "Feb 2024", 1, 5000, 5000),
		}},
	}
	aggs := AggregateMonthly(items, histories)
	changes := aggs[1].TopPriceChanges
	if len(changes) != 1 {
		t.Fatalf("got %d records, want 1", len(changes))
	}
	if changes[0].ChangePercent != 0 {
		t.Fatalf("ChangePercent = %v, want 0 when previous price is 0", changes[0].ChangePercent)
	}
}

func TestAggregateMonthlyYearsDoNotCollide(t *testing.T) {
	items := testCatalog(1)
	histories := []ItemHistory{
		{ItemID: "grm-1", Entries: []PurchaseEntry{
			entry(t, "Jan 2024", 1, 1000, 1000),
			entry(t, "Jan 2025", 1, 1000, 1000),
		}},
	}
	aggs := AggregateMonthly(items, histories)
	if len(aggs) != 2 {
		t.Fatalf("Jan 2024 and Jan 2025 must be distinct months, got %d", len(aggs))
	}
	if !aggs[0].Month.Before(aggs[1].Month.Time) {
		t.Fatal("months not ordered by calendar date")
	}
}

func TestAggregateMonthlyEmptyFeed(t *testing.T) {
	aggs := AggregateMonthly(nil, nil)
	if len(aggs) != 0 {
		t.Fatalf("empty feed must yield no months, got %d", len(aggs))
	}
}
