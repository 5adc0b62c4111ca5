package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"itemdash/internal/core"
)

// Snapshot is a consistent-enough view of the feed: the catalog plus every
// purchase history, fetched together.
type Snapshot struct {
	Items     []core.Item
	Histories []core.ItemHistory
}

// Load fetches the catalog and histories concurrently. Both reads hit the
// same backend, so the fan-out mostly pays off for remote feeds like Sheets.
func Load(ctx context.Context, catalog CatalogReader, history HistoryReader) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := catalog.ListItems(ctx)
		if err != nil {
			return err
		}
		snap.Items = items
		return nil
	})
	g.Go(func() error {
		histories, err := history.ListHistories(ctx)
		if err != nil {
			return err
		}
		snap.Histories = histories
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
