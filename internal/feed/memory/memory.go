package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"itemdash/internal/core"
)

// Store is an in-memory feed backend, seeded from JSON files. It is the
// default backend for local development and tests.
type Store struct {
	mu        sync.Mutex
	items     []core.Item
	histories []core.ItemHistory
}

func New(items []core.Item, histories []core.ItemHistory) *Store {
	return &Store{items: items, histories: histories}
}

// NewFromFiles loads seed_catalog.json and seed_history.json from base.
// Missing or malformed seed files just produce an empty store; the dashboard
// renders empty rather than failing to start.
func NewFromFiles(base string) *Store {
	items, err := readCatalogFile(filepath.Join(base, "seed_catalog.json"))
	if err != nil {
		slog.Warn("Seed catalog not loaded", "base", base, "error", err)
	}
	histories, err := readHistoryFile(filepath.Join(base, "seed_history.json"))
	if err != nil {
		slog.Warn("Seed history not loaded", "base", base, "error", err)
	}
	return New(items, histories)
}

type (
	catalogRecord struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	}

	entryRecord struct {
		Date  string  `json:"date"`
		Qty   int64   `json:"qty"`
		Price float64 `json:"price"`
		Total float64 `json:"total"`
	}

	historyRecord struct {
		Item string        `json:"item"`
		Data []entryRecord `json:"data"`
	}
)

func readCatalogFile(path string) ([]core.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []catalogRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	items := make([]core.Item, 0, len(records))
	for _, r := range records {
		item := core.Item{ID: r.ID, Label: r.Label, Description: r.Description}
		if err := item.Validate(); err != nil {
			slog.Warn("Skipping invalid seed item", "id", r.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func readHistoryFile(path string) ([]core.ItemHistory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []historyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	histories := make([]core.ItemHistory, 0, len(records))
	for _, r := range records {
		h := core.ItemHistory{ItemID: r.Item}
		for _, e := range r.Data {
			date, err := core.ParseDate(e.Date)
			if err != nil {
				slog.Warn("Skipping entry with unparseable date", "item", r.Item, "date", e.Date)
				continue
			}
			entry := core.PurchaseEntry{
				Date:  date,
				Qty:   e.Qty,
				Price: centsOf(e.Price),
				Total: centsOf(e.Total),
			}
			if entry.TotalMismatch() {
				slog.Warn("Feed total does not match qty*price, keeping feed value",
					"item", r.Item,
					"date", e.Date,
					"total_cents", entry.Total.Cents,
					"derived_cents", entry.Qty*entry.Price.Cents)
			}
			h.Entries = append(h.Entries, entry)
		}
		histories = append(histories, h)
	}
	return histories, nil
}

func centsOf(v float64) core.Money {
	if v < 0 {
		return core.Money{Cents: -int64(-v*100 + 0.5)}
	}
	return core.Money{Cents: int64(v*100 + 0.5)}
}

// ListItems implements feed.CatalogReader.
func (s *Store) ListItems(_ context.Context) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// ListHistories implements feed.HistoryReader. Entries are returned as
// loaded; seed files keep them date-ascending per the feed contract.
func (s *Store) ListHistories(_ context.Context) ([]core.ItemHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ItemHistory, len(s.histories))
	for i, h := range s.histories {
		entries := make([]core.PurchaseEntry, len(h.Entries))
		copy(entries, h.Entries)
		out[i] = core.ItemHistory{ItemID: h.ItemID, Entries: entries}
	}
	return out, nil
}

// AppendPurchase implements feed.PurchaseWriter, appending to the item's
// history (creating one for a first purchase) and returning a synthetic ref.
func (s *Store) AppendPurchase(_ context.Context, itemID string, e core.PurchaseEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	known := false
	for _, it := range s.items {
		if it.ID == itemID {
			known = true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("unknown item %q: %w", itemID, core.ErrEmptyItemID)
	}
	for i := range s.histories {
		if s.histories[i].ItemID == itemID {
			s.histories[i].Entries = append(s.histories[i].Entries, e)
			return fmt.Sprintf("mem:%s:%d", itemID, len(s.histories[i].Entries)), nil
		}
	}
	s.histories = append(s.histories, core.ItemHistory{ItemID: itemID, Entries: []core.PurchaseEntry{e}})
	return fmt.Sprintf("mem:%s:1", itemID), nil
}
