package core

import (
	"reflect"
	"testing"
)

func testRows(t *testing.T) []SummaryRow {
	t.Helper()
	mk := func(id, label string, spent, qty, avg, change int64, last string) SummaryRow {
		row := SummaryRow{
			Item: Item{ID: id, Label: label},
			Summary: ItemSummary{
				ItemID:        id,
				TotalSpent:    Money{Cents: spent},
				TotalQty:      qty,
				AvgPrice:      Money{Cents: avg},
				PriceChange:   Money{Cents: change},
				LastPurchased: last,
			},
		}
		if last != NeverPurchased {
			d, err := ParseDate(last)
			if err != nil {
				t.Fatalf("bad test date %q: %v", last, err)
			}
			row.LastDate = d
		} else {
			row.Summary.LastPurchased = NeverPurchased
		}
		return row
	}
	return []SummaryRow{
		mk("grm-1", "Banner Vinyl", 50000, 10, 5000, 200, "Mar 2024"),
		mk("grm-2", "Acrylic Sheet", 120000, 4, 30000, -1500, "Jan 2024"),
		mk("grm-3", "Cutting Blade", 50000, 25, 2000, 0, NeverPurchased),
		mk("grm-4", "Decal Paper", 8000, 16, 500, 200, "Dec 2023"),
	}
}

func ids(rows []SummaryRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Item.ID
	}
	return out
}

func TestSortRowsByField(t *testing.T) {
	cases := []struct {
		name  string
		state SortState
		want  []string
	}{
		{"item asc", SortState{SortByItem, Ascending}, []string{"grm-2", "grm-1", "grm-3", "grm-4"}},
		{"item desc", SortState{SortByItem, Descending}, []string{"grm-4", "grm-3", "grm-1", "grm-2"}},
		{"totalQty asc", SortState{SortByTotalQty, Ascending}, []string{"grm-2", "grm-1", "grm-4", "grm-3"}},
		{"avgPrice desc", SortState{SortByAvgPrice, Descending}, []string{"grm-2", "grm-1", "grm-3", "grm-4"}},
		{"priceChange asc", SortState{SortByPriceChange, Ascending}, []string{"grm-2", "grm-3", "grm-1", "grm-4"}},
		{"lastPurchased asc puts never first", SortState{SortByLastPurchased, Ascending}, []string{"grm-3", "grm-4", "grm-2", "grm-1"}},
		{"no sort keeps catalog order", SortState{}, []string{"grm-1", "grm-2", "grm-3", "grm-4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(SortRows(testRows(t), tc.state))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortRowsStableTiebreak(t *testing.T) {
	// grm-1 and grm-3 tie on totalSpent; original order must hold both ways.
	asc := ids(SortRows(testRows(t), SortState{SortByTotalSpent, Ascending}))
	want := []string{"grm-4", "grm-1", "grm-3", "grm-2"}
	if !reflect.DeepEqual(asc, want) {
		t.Fatalf("asc = %v, want %v", asc, want)
	}
	desc := ids(SortRows(testRows(t), SortState{SortByTotalSpent, Descending}))
	wantDesc := []string{"grm-2", "grm-1", "grm-3", "grm-4"}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Fatalf("desc = %v, want %v", desc, wantDesc)
	}
}

func TestSortRowsRoundTrip(t *testing.T) {
	// Ascending then descending on a field without ties reverses the order.
	asc := ids(SortRows(testRows(t), SortState{SortByTotalQty, Ascending}))
	desc := ids(SortRows(testRows(t), SortState{SortByTotalQty, Descending}))
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %v is not the reverse of desc %v", asc, desc)
		}
	}
}

func TestSortRowsDoesNotMutateInput(t *testing.T) {
	rows := testRows(t)
	before := ids(rows)
	_ = SortRows(rows, SortState{SortByItem, Descending})
	if !reflect.DeepEqual(ids(rows), before) {
		t.Fatal("SortRows mutated its input")
	}
}

func TestSortStateToggle(t *testing.T) {
	var s SortState

	s = s.Toggle(SortByTotalSpent)
	if s.Field != SortByTotalSpent || s.Direction != Ascending {
		t.Fatalf("first click: %+v, want totalSpent asc", s)
	}
	s = s.Toggle(SortByTotalSpent)
	if s.Direction != Descending {
		t.Fatalf("second click: %+v, want desc", s)
	}
	s = s.Toggle(SortByTotalSpent)
	if s.Direction != Ascending {
		t.Fatalf("third click: %+v, want asc again", s)
	}
	s = s.Toggle(SortByAvgPrice)
	if s.Field != SortByAvgPrice || s.Direction != Ascending {
		t.Fatalf("new field: %+v, want avgPrice asc", s)
	}
}

func TestSortFieldIsValid(t *testing.T) {
	for _, f := range []SortField{SortByItem, SortByTotalSpent, SortByTotalQty, SortByAvgPrice, SortByPriceChange, SortByLastPurchased} {
		if !f.IsValid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if SortField("description").IsValid() {
		t.Error("description is not a sortable column")
	}
	if SortField("").IsValid() {
		t.Error("empty field should be invalid")
	}
}
