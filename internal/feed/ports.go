package feed

import (
	"context"

	"itemdash/internal/core"
)

// Ports for outbound adapters. The aggregation core consumes plain slices;
// these interfaces are how backends supply them.
type (
	// CatalogReader returns the item catalog in feed order.
	CatalogReader interface {
		ListItems(ctx context.Context) ([]core.Item, error)
	}

	// HistoryReader returns purchase histories. Each history's entries are
	// ordered ascending by date; that ordering is the backend's contract.
	HistoryReader interface {
		// ListHistories returns every item's history in feed order.
		ListHistories(ctx context.Context) ([]core.ItemHistory, error)
	}

	// PurchaseWriter records a new purchase entry for an item.
	PurchaseWriter interface {
		AppendPurchase(ctx context.Context, itemID string, e core.PurchaseEntry) (ref string, err error)
	}
)
