package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"itemdash/internal/core"
)

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed %s: %v", name, err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeSeed(t, dir, "seed_catalog.json", `[
		{"id": "grm-1", "label": "Banner Vinyl", "description": "13oz roll"},
		{"id": "", "label": "broken"},
		{"id": "grm-2", "label": "Acrylic Sheet", "description": "clear cast"}
	]`)
	writeSeed(t, dir, "seed_history.json", `[
		{"item": "grm-1", "data": [
			{"date": "Jan 2024", "qty": 10, "price": 100, "total": 1000},
			{"date": "Feb 2024", "qty": 5, "price": 120, "total": 600}
		]}
	]`)

	store := NewFromFiles(dir)
	ctx := context.Background()

	items, err := store.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (invalid one skipped)", len(items))
	}
	if items[0].ID != "grm-1" || items[1].ID != "grm-2" {
		t.Fatalf("feed order not preserved: %+v", items)
	}

	histories, err := store.ListHistories(ctx)
	if err != nil {
		t.Fatalf("ListHistories: %v", err)
	}
	if len(histories) != 1 || len(histories[0].Entries) != 2 {
		t.Fatalf("histories = %+v", histories)
	}
	e := histories[0].Entries[0]
	if e.Price.Cents != 10000 || e.Total.Cents != 100000 || e.Qty != 10 {
		t.Fatalf("first entry = %+v", e)
	}
	if e.Date.Label() != "Jan 2024" {
		t.Fatalf("date = %q", e.Date.Label())
	}
}

func TestNewFromFilesMissingSeeds(t *testing.T) {
	store := NewFromFiles(t.TempDir())
	items, err := store.ListItems(context.Background())
	if err != nil || len(items) != 0 {
		t.Fatalf("missing seeds should give an empty store, got %d items (err=%v)", len(items), err)
	}
}

func TestAppendPurchase(t *testing.T) {
	store := New([]core.Item{{ID: "grm-1", Label: "Banner Vinyl"}}, nil)
	ctx := context.Background()
	date, _ := core.ParseDate("Mar 2024")
	e := core.PurchaseEntry{Date: date, Qty: 3, Price: core.Money{Cents: 5000}, Total: core.Money{Cents: 15000}}

	ref, err := store.AppendPurchase(ctx, "grm-1", e)
	if err != nil {
		t.Fatalf("AppendPurchase: %v", err)
	}
	if ref == "" {
		t.Fatal("expected a non-empty ref")
	}

	histories, err := store.ListHistories(ctx)
	if err != nil {
		t.Fatalf("ListHistories: %v", err)
	}
	if len(histories) != 1 || len(histories[0].Entries) != 1 {
		t.Fatalf("histories = %+v", histories)
	}

	// Invalid entries are rejected, not stored.
	bad := e
	bad.Qty = -1
	if _, err := store.AppendPurchase(ctx, "grm-1", bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestListHistoriesReturnsCopies(t *testing.T) {
	date, _ := core.ParseDate("Jan 2024")
	store := New(nil, []core.ItemHistory{{ItemID: "grm-1", Entries: []core.PurchaseEntry{
		{Date: date, Qty: 1, Price: core.Money{Cents: 100}, Total: core.Money{Cents: 100}},
	}}})

	first, _ := store.ListHistories(context.Background())
	first[0].Entries[0].Qty = 99

	second, _ := store.ListHistories(context.Background())
	if second[0].Entries[0].Qty != 1 {
		t.Fatal("caller mutation leaked into the store")
	}
}
