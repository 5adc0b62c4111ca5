package google

import (
	"strconv"
	"strings"

	"itemdash/internal/core"
)

// toStrings normalizes a sheet row. Numeric cells come back from the API as
// float64, everything else as string.
func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case string:
			out[i] = strings.TrimSpace(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(x)
		case nil:
			out[i] = ""
		default:
			out[i] = ""
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseCatalogRows converts catalog sheet rows (ID, Label, Description) into
// items, skipping the header and anything that fails validation. Returns the
// items in sheet order plus a skipped-row count.
func parseCatalogRows(rows [][]any) ([]core.Item, int) {
	var (
		items   []core.Item
		skipped int
	)
	for i, row := range rows {
		cols := toStrings(row)
		item := core.Item{
			ID:          safeGet(cols, 0),
			Label:       safeGet(cols, 1),
			Description: safeGet(cols, 2),
		}
		if err := item.Validate(); err != nil {
			// Row 0 is the header, not a data defect.
			if i > 0 {
				skipped++
			}
			continue
		}
		if i == 0 && looksLikeHeader(cols) {
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

// parsePurchaseRows converts ledger rows (Item ID, Date, Qty, Price, Total)
// into histories grouped by item in first-seen order. Row order within an
// item is preserved.
func parsePurchaseRows(rows [][]any) ([]core.ItemHistory, int) {
	var (
		histories []core.ItemHistory
		index     = map[string]int{}
		skipped   int
	)
	for i, row := range rows {
		cols := toStrings(row)
		itemID := safeGet(cols, 0)
		if itemID == "" {
			continue
		}

		date, err := core.ParseDate(safeGet(cols, 1))
		if err != nil {
			if i > 0 || !looksLikeHeader(cols) {
				skipped++
			}
			continue
		}

		qty, err := strconv.ParseInt(safeGet(cols, 2), 10, 64)
		if err != nil || qty < 0 {
			skipped++
			continue
		}

		priceCents, err := core.ParseDecimalToCents(safeGet(cols, 3))
		if err != nil {
			skipped++
			continue
		}
		totalCents, err := core.ParseDecimalToCents(safeGet(cols, 4))
		if err != nil {
			skipped++
			continue
		}

		entry := core.PurchaseEntry{
			Date:  date,
			Qty:   qty,
			Price: core.Money{Cents: priceCents},
			Total: core.Money{Cents: totalCents},
		}

		pos, ok := index[itemID]
		if !ok {
			histories = append(histories, core.ItemHistory{ItemID: itemID})
			pos = len(histories) - 1
			index[itemID] = pos
		}
		histories[pos].Entries = append(histories[pos].Entries, entry)
	}
	return histories, skipped
}

// looksLikeHeader spots a title row so it is not counted as a bad record.
func looksLikeHeader(cols []string) bool {
	first := strings.ToLower(safeGet(cols, 0))
	return first == "id" || first == "item" || first == "item id"
}
