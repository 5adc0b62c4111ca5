// Package http serves the item dashboard: the rendered page, the JSON API
// behind the picker, chart, table, and monthly views, and purchase intake.
//
// This file parses and validates request data shared across handlers.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"itemdash/internal/core"
)

// parseSortState reads field/dir query parameters into a SortState. An
// absent or unknown field yields the zero state (catalog order); dir
// defaults to ascending.
func parseSortState(query url.Values) core.SortState {
	field := core.SortField(strings.TrimSpace(query.Get("field")))
	if !field.IsValid() {
		return core.SortState{}
	}
	state := core.SortState{Field: field, Direction: core.Ascending}
	if strings.TrimSpace(query.Get("dir")) == string(core.Descending) {
		state.Direction = core.Descending
	}
	return state
}

// purchaseRequest is the POST /api/purchases payload. Price and total are
// decimal strings ("12.34"); qty is a plain integer.
type purchaseRequest struct {
	ItemID string `json:"item_id"`
	Date   string `json:"date"`
	Qty    int64  `json:"qty"`
	Price  string `json:"price"`
	Total  string `json:"total"`
}

// parsePurchaseRequest accepts a JSON body or form-encoded fields and
// returns the validated entry.
func parsePurchaseRequest(r *http.Request) (string, core.PurchaseEntry, error) {
	var req purchaseRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
		if err != nil {
			return "", core.PurchaseEntry{}, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return "", core.PurchaseEntry{}, fmt.Errorf("decode body: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return "", core.PurchaseEntry{}, fmt.Errorf("parse form: %w", err)
		}
		req.ItemID = r.Form.Get("item_id")
		req.Date = r.Form.Get("date")
		if v := strings.TrimSpace(r.Form.Get("qty")); v != "" {
			qty, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return "", core.PurchaseEntry{}, fmt.Errorf("invalid qty %q", v)
			}
			req.Qty = qty
		}
		req.Price = r.Form.Get("price")
		req.Total = r.Form.Get("total")
	}

	itemID := sanitizeInput(req.ItemID)
	if itemID == "" {
		return "", core.PurchaseEntry{}, core.ErrEmptyItemID
	}

	date, err := core.ParseDate(sanitizeInput(req.Date))
	if err != nil {
		return "", core.PurchaseEntry{}, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	priceCents, err := core.ParseDecimalToCents(req.Price)
	if err != nil {
		return "", core.PurchaseEntry{}, fmt.Errorf("invalid price %q: %w", req.Price, err)
	}

	// Total defaults to qty*price when omitted.
	var totalCents int64
	if strings.TrimSpace(req.Total) == "" {
		totalCents = req.Qty * priceCents
	} else {
		totalCents, err = core.ParseDecimalToCents(req.Total)
		if err != nil {
			return "", core.PurchaseEntry{}, fmt.Errorf("invalid total %q: %w", req.Total, err)
		}
	}

	entry := core.PurchaseEntry{
		Date:  date,
		Qty:   req.Qty,
		Price: core.Money{Cents: priceCents},
		Total: core.Money{Cents: totalCents},
	}
	if err := entry.Validate(); err != nil {
		return "", core.PurchaseEntry{}, err
	}
	return itemID, entry, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// matchesQuery does the picker's case-insensitive substring search over
// label and description.
func matchesQuery(item core.Item, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(item.Label), q) ||
		strings.Contains(strings.ToLower(item.Description), q)
}
