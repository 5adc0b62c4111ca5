package worker

import (
	"context"
	"fmt"
	"log/slog"

	"itemdash/internal/amqp"
	"itemdash/internal/core"
	"itemdash/internal/feed"
)

// IngestWorker mirrors purchase events from the queue into a durable
// backend. The dashboard service can run against the memory or sheets
// backend while the worker keeps the SQLite ledger complete.
type IngestWorker struct {
	writer  feed.PurchaseWriter
	catalog feed.CatalogReader
}

func NewIngestWorker(writer feed.PurchaseWriter, catalog feed.CatalogReader) *IngestWorker {
	return &IngestWorker{
		writer:  writer,
		catalog: catalog,
	}
}

// HandlePurchaseRecorded processes one purchase event. Errors requeue the
// delivery, so the handler only fails on problems a retry could fix.
func (w *IngestWorker) HandlePurchaseRecorded(ctx context.Context, msg *amqp.PurchaseRecordedMessage) error {
	slog.InfoContext(ctx, "Processing purchase event",
		"item", msg.ItemID,
		"ref", msg.Ref)

	date, err := core.ParseDate(msg.Date)
	if err != nil {
		// Permanent, a redelivery will never parse either. Drop it loudly.
		slog.ErrorContext(ctx, "Purchase event has unparseable date, dropping",
			"item", msg.ItemID, "ref", msg.Ref, "date", msg.Date)
		return nil
	}

	entry := core.PurchaseEntry{
		Date:  date,
		Qty:   msg.Qty,
		Price: core.Money{Cents: msg.PriceCents},
		Total: core.Money{Cents: msg.TotalCents},
	}
	if err := entry.Validate(); err != nil {
		slog.ErrorContext(ctx, "Purchase event failed validation, dropping",
			"item", msg.ItemID, "ref", msg.Ref, "error", err)
		return nil
	}

	ref, err := w.writer.AppendPurchase(ctx, msg.ItemID, entry)
	if err != nil {
		return fmt.Errorf("mirror purchase: %w", err)
	}

	slog.InfoContext(ctx, "Purchase mirrored",
		"item", msg.ItemID,
		"source_ref", msg.Ref,
		"mirror_ref", ref)

	return nil
}

// StartupCatalogCheck logs the mirrored catalog size so an empty or
// misconfigured target backend is visible at worker start.
func (w *IngestWorker) StartupCatalogCheck(ctx context.Context) error {
	items, err := w.catalog.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list catalog on startup: %w", err)
	}

	if len(items) == 0 {
		slog.WarnContext(ctx, "Mirror backend has an empty catalog; purchase events for unknown items will requeue")
		return nil
	}

	slog.InfoContext(ctx, "Mirror backend ready", "items", len(items))
	return nil
}
