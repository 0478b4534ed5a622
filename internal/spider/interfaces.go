package spider

import (
	"context"
	"time"

	"github.com/gw2watch/spider/internal/model"
)

// ListingSource fetches the current order book for an item.
type ListingSource interface {
	GetListings(ctx context.Context, itemID int) (*model.OrderBook, error)
}

// ItemStore loads and saves items.
type ItemStore interface {
	FindByID(ctx context.Context, id int) (*model.Item, error)
	Save(ctx context.Context, item *model.Item) error
}

// SnapshotStore persists listing snapshots and serves the trend lookback.
type SnapshotStore interface {
	Insert(ctx context.Context, snap *model.ListingSnapshot) error
	FindEarliestAfter(ctx context.Context, itemID int, side model.Side, cutoff time.Time) (*model.ListingSnapshot, error)
}

// Queue accepts work items for execution at an absolute time. Enqueueing an
// item that already has an outstanding work item is a no-op on the queue
// side; the spider never tracks that itself.
type Queue interface {
	Enqueue(w WorkItem, runAt time.Time) error
}
