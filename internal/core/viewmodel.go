package core

// ChartPoint is one plotted purchase: the raw entry fields the chart needs,
// passed through verbatim (no aggregation on the series).
type ChartPoint struct {
	Date  string
	Price Money
	Qty   int64
	Total Money
}

// Dashboard is the full view model for one render pass: the selected item's
// chart series and summary chips, plus the sorted inventory table. It is
// recomputed from the feeds on every request; nothing here outlives the
// computation that produced it.
type Dashboard struct {
	Selected   *Item
	Series     []ChartPoint
	Summary    ItemSummary
	Rows       []SummaryRow
	GrandTotal Money
	Sort       SortState
}

// BuildDashboard assembles the view model from the catalog and history
// feeds. A selectedID with no catalog match (or an empty one) yields a nil
// Selected, an empty series, and a zero summary with the "Never" sentinel,
// never an error. Rows start in catalog order and are then sorted per state.
func BuildDashboard(items []Item, histories []ItemHistory, selectedID string, state SortState) Dashboard {
	byItem := make(map[string][]PurchaseEntry, len(histories))
	for _, h := range histories {
		byItem[h.ItemID] = h.Entries
	}

	d := Dashboard{
		Summary: ItemSummary{ItemID: selectedID, LastPurchased: NeverPurchased},
		Sort:    state,
	}

	rows := make([]SummaryRow, 0, len(items))
	for i, it := range items {
		entries := byItem[it.ID]
		row := SummaryRow{Item: it, Summary: Summarize(it.ID, entries)}
		if len(entries) > 0 {
			row.LastDate = entries[len(entries)-1].Date
		}
		rows = append(rows, row)
		d.GrandTotal.Cents += row.Summary.TotalSpent.Cents

		if it.ID == selectedID {
			d.Selected = &items[i]
			d.Summary = row.Summary
			d.Series = chartSeries(entries)
		}
	}
	d.Rows = SortRows(rows, state)
	return d
}

func chartSeries(entries []PurchaseEntry) []ChartPoint {
	points := make([]ChartPoint, len(entries))
	for i, e := range entries {
		points[i] = ChartPoint{
			Date:  e.Date.Label(),
			Price: e.Price,
			Qty:   e.Qty,
			Total: e.Total,
		}
	}
	return points
}
