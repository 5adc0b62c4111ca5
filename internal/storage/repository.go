package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"itemdash/internal/core"

	_ "modernc.org/sqlite"
)

const dateColumnLayout = "2006-01-02"

// SQLiteRepository persists the item catalog and purchase ledger. It backs
// all three feed ports when DATA_BACKEND=sqlite.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListItems implements feed.CatalogReader. Items come back in feed order,
// which is the position column, with id as a stable fallback.
func (r *SQLiteRepository) ListItems(ctx context.Context) ([]core.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, description FROM items ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		var item core.Item
		if err := rows.Scan(&item.ID, &item.Label, &item.Description); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ListHistories implements feed.HistoryReader. The ORDER BY keeps each
// item's entries date-ascending, which downstream aggregation relies on.
func (r *SQLiteRepository) ListHistories(ctx context.Context) ([]core.ItemHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.item_id, p.purchased_at, p.qty, p.price_cents, p.total_cents
		 FROM purchases p
		 JOIN items i ON i.id = p.item_id
		 ORDER BY i.position, i.id, p.purchased_at, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var (
		histories []core.ItemHistory
		current   *core.ItemHistory
	)
	for rows.Next() {
		var (
			itemID      string
			purchasedAt string
			entry       core.PurchaseEntry
		)
		if err := rows.Scan(&itemID, &purchasedAt, &entry.Qty, &entry.Price.Cents, &entry.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		date, err := core.ParseDate(purchasedAt)
		if err != nil {
			slog.WarnContext(ctx, "Skipping purchase with unparseable date",
				"item", itemID, "purchased_at", purchasedAt)
			continue
		}
		entry.Date = date

		if current == nil || current.ItemID != itemID {
			histories = append(histories, core.ItemHistory{ItemID: itemID})
			current = &histories[len(histories)-1]
		}
		current.Entries = append(current.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return histories, nil
}

// AppendPurchase implements feed.PurchaseWriter.
func (r *SQLiteRepository) AppendPurchase(ctx context.Context, itemID string, e core.PurchaseEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE id = ?`, itemID).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check item: %w", err)
	}
	if exists == 0 {
		return "", fmt.Errorf("unknown item %q: %w", itemID, core.ErrEmptyItemID)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (item_id, purchased_at, qty, price_cents, total_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, e.Date.Format(dateColumnLayout), e.Qty, e.Price.Cents, e.Total.Cents)
	if err != nil {
		return "", fmt.Errorf("insert purchase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("purchase id: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved to SQLite",
		"id", id,
		"item", itemID,
		"qty", e.Qty,
		"price_cents", e.Price.Cents,
		"total_cents", e.Total.Cents)

	return strconv.FormatInt(id, 10), nil
}

// UpsertItem inserts a catalog item or refreshes its label and description,
// keeping the original position on conflict.
func (r *SQLiteRepository) UpsertItem(ctx context.Context, item core.Item, position int) error {
	if err := item.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, label, description, position)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, description = excluded.description`,
		item.ID, item.Label, item.Description, position)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// Seed loads a catalog and histories into an empty database. Used on first
// start when the sqlite backend is pointed at seed data.
func (r *SQLiteRepository) Seed(ctx context.Context, items []core.Item, histories []core.ItemHistory) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items`).Scan(&count); err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, item := range items {
		if err := r.UpsertItem(ctx, item, i); err != nil {
			return err
		}
	}
	for _, h := range histories {
		for _, e := range h.Entries {
			if _, err := r.AppendPurchase(ctx, h.ItemID, e); err != nil {
				return fmt.Errorf("seed purchase for %s: %w", h.ItemID, err)
			}
		}
	}

	slog.InfoContext(ctx, "Database seeded", "items", len(items), "histories", len(histories))
	return nil
}
