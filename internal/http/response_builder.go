// This file converts core aggregates into the JSON shapes the dashboard
// frontend consumes. Money crosses the wire as decimal dollars.
package http

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"itemdash/internal/core"
)

type itemDTO struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type seriesPointDTO struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Qty   int64   `json:"qty"`
	Total float64 `json:"total"`
}

type summaryDTO struct {
	ItemID             string  `json:"itemId"`
	TotalSpent         float64 `json:"totalSpent"`
	TotalQty           int64   `json:"totalQty"`
	AvgPrice           float64 `json:"avgPrice"`
	LastPurchased      string  `json:"lastPurchased"`
	PriceChange        float64 `json:"priceChange"`
	PriceChangePercent float64 `json:"priceChangePercent"`
}

type tableRowDTO struct {
	itemDTO
	summaryDTO
}

type tableDTO struct {
	Rows       []tableRowDTO `json:"rows"`
	GrandTotal float64       `json:"grandTotal"`
	Field      string        `json:"field,omitempty"`
	Dir        string        `json:"dir,omitempty"`
}

type priceChangeDTO struct {
	ItemID        string  `json:"itemId"`
	ItemName      string  `json:"itemName"`
	OldPrice      float64 `json:"oldPrice"`
	NewPrice      float64 `json:"newPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

type monthlyDTO struct {
	Month           string           `json:"month"`
	TotalSpent      float64          `json:"totalSpent"`
	TopPriceChanges []priceChangeDTO `json:"topPriceChanges"`
}

func toItemDTO(it core.Item) itemDTO {
	return itemDTO{ID: it.ID, Label: it.Label, Description: it.Description}
}

func toSeriesDTO(points []core.ChartPoint) []seriesPointDTO {
	out := make([]seriesPointDTO, len(points))
	for i, p := range points {
		out[i] = seriesPointDTO{
			Date:  p.Date,
			Price: p.Price.Dollars(),
			Qty:   p.Qty,
			Total: p.Total.Dollars(),
		}
	}
	return out
}

func toSummaryDTO(s core.ItemSummary) summaryDTO {
	return summaryDTO{
		ItemID:             s.ItemID,
		TotalSpent:         s.TotalSpent.Dollars(),
		TotalQty:           s.TotalQty,
		AvgPrice:           s.AvgPrice.Dollars(),
		LastPurchased:      s.LastPurchased,
		PriceChange:        s.PriceChange.Dollars(),
		PriceChangePercent: roundPercent(s.PriceChangePercent),
	}
}

func toTableDTO(rows []core.SummaryRow, grandTotal core.Money, state core.SortState) tableDTO {
	dto := tableDTO{
		Rows:       make([]tableRowDTO, len(rows)),
		GrandTotal: grandTotal.Dollars(),
		Field:      string(state.Field),
		Dir:        string(state.Direction),
	}
	for i, r := range rows {
		dto.Rows[i] = tableRowDTO{
			itemDTO:    toItemDTO(r.Item),
			summaryDTO: toSummaryDTO(r.Summary),
		}
	}
	return dto
}

func toMonthlyDTO(aggs []core.MonthlyAggregate) []monthlyDTO {
	out := make([]monthlyDTO, len(aggs))
	for i, a := range aggs {
		m := monthlyDTO{
			Month:           a.Month.Label(),
			TotalSpent:      a.TotalSpent.Dollars(),
			TopPriceChanges: make([]priceChangeDTO, len(a.TopPriceChanges)),
		}
		for j, c := range a.TopPriceChanges {
			m.TopPriceChanges[j] = priceChangeDTO{
				ItemID:        c.ItemID,
				ItemName:      c.ItemName,
				OldPrice:      c.OldPrice.Dollars(),
				NewPrice:      c.NewPrice.Dollars(),
				Change:        c.Change.Dollars(),
				ChangePercent: roundPercent(c.ChangePercent),
			}
		}
		out[i] = m
	}
	return out
}

// roundPercent trims percents to one decimal place for display parity with
// the table's rendering.
func roundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", "error", err)
	}
}

type errorDTO struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Error: msg})
}
