package core

import "sort"

// SortField enumerates the sortable inventory-table columns. Using a closed
// enum instead of column-name lookup keeps comparators typed.
type SortField string

const (
	SortByItem          SortField = "item"
	SortByTotalSpent    SortField = "totalSpent"
	SortByTotalQty      SortField = "totalQty"
	SortByAvgPrice      SortField = "avgPrice"
	SortByPriceChange   SortField = "priceChange"
	SortByLastPurchased SortField = "lastPurchased"
)

// IsValid reports whether f names a sortable column.
func (f SortField) IsValid() bool {
	switch f {
	case SortByItem, SortByTotalSpent, SortByTotalQty, SortByAvgPrice,
		SortByPriceChange, SortByLastPurchased:
		return true
	}
	return false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the transient table-sort request: which column, which way.
// The zero value means "no sort" and leaves rows in catalog order.
type SortState struct {
	Field     SortField
	Direction SortDirection
}

// Toggle returns the sort state after a click on the given column header:
// a new column starts ascending, a repeated click flips the direction.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field && s.Direction == Ascending {
		return SortState{Field: field, Direction: Descending}
	}
	return SortState{Field: field, Direction: Ascending}
}

// SummaryRow is one inventory-table row: the catalog item joined with its
// derived summary. LastDate backs chronological ordering of the
// "last purchased" column (the rendered value is a month label).
type SummaryRow struct {
	Item     Item
	Summary  ItemSummary
	LastDate Date
}

// SortRows returns a new slice ordered by the requested field and direction.
// The input slice and its rows are never mutated. The sort is stable with
// the original (pre-sort) order as the tiebreak for equal keys, so repeated
// sorts are reproducible.
func SortRows(rows []SummaryRow, state SortState) []SummaryRow {
	out := make([]SummaryRow, len(rows))
	copy(out, rows)
	if !state.Field.IsValid() {
		return out
	}

	less := lessFunc(state.Field)
	sort.SliceStable(out, func(i, j int) bool {
		if state.Direction == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b SummaryRow) bool {
	switch field {
	case SortByItem:
		return func(a, b SummaryRow) bool { return a.Item.Label < b.Item.Label }
	case SortByTotalSpent:
		return func(a, b SummaryRow) bool { return a.Summary.TotalSpent.Cents < b.Summary.TotalSpent.Cents }
	case SortByTotalQty:
		return func(a, b SummaryRow) bool { return a.Summary.TotalQty < b.Summary.TotalQty }
	case SortByAvgPrice:
		return func(a, b SummaryRow) bool { return a.Summary.AvgPrice.Cents < b.Summary.AvgPrice.Cents }
	case SortByPriceChange:
		return func(a, b SummaryRow) bool { return a.Summary.PriceChange.Cents < b.Summary.PriceChange.Cents }
	case SortByLastPurchased:
		// Chronological, not label-lexicographic; never-purchased rows
		// have the zero date and sort first ascending.
		return func(a, b SummaryRow) bool { return a.LastDate.Before(b.LastDate.Time) }
	}
	return func(a, b SummaryRow) bool { return false }
}
