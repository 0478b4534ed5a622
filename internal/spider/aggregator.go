package spider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gw2watch/spider/internal/model"
)

// Aggregator reduces an item's raw order book into one persisted snapshot per
// side and keeps the item's best-price fields current.
type Aggregator struct {
	source    ListingSource
	snapshots SnapshotStore
	items     ItemStore
	clock     Clock
	logger    *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(source ListingSource, snapshots SnapshotStore, items ItemStore, clock Clock, logger *slog.Logger) *Aggregator {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		source:    source,
		snapshots: snapshots,
		items:     items,
		clock:     clock,
		logger:    logger,
	}
}

// Collect fetches the order book, writes one snapshot per side, and saves the
// item. Both snapshots are written even when a side is empty: a zero-aggregate
// snapshot with no price records "currently no listings", which is a
// different fact than "not yet polled". Best-price fields are only
// overwritten when the side actually had a best entry.
func (a *Aggregator) Collect(ctx context.Context, item *model.Item) error {
	book, err := a.source.GetListings(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("fetch listings for item %d: %w", item.ID, err)
	}

	now := a.clock.Now()

	sell := reduceSide(book.Sell)
	if err := a.snapshots.Insert(ctx, sell.snapshot(item.ID, model.SideSell, now)); err != nil {
		return err
	}
	if sell.best != nil {
		item.MinSalePrice = *sell.best
	}

	buy := reduceSide(book.Buy)
	if err := a.snapshots.Insert(ctx, buy.snapshot(item.ID, model.SideBuy, now)); err != nil {
		return err
	}
	if buy.best != nil {
		item.MaxOfferPrice = *buy.best
	}

	if err := a.items.Save(ctx, item); err != nil {
		return err
	}

	a.logger.Debug("order book collected",
		"item_id", item.ID,
		"sell_listings", sell.listings,
		"buy_listings", buy.listings,
		"min_sale", item.MinSalePrice,
		"max_offer", item.MaxOfferPrice,
	)

	return nil
}

// sideAggregate is the reduction of one book side.
type sideAggregate struct {
	quantity int64
	listings int64
	best     *int
}

// reduceSide sums quantity and listing counts across all levels. The best
// price is the first level in source order; the source already sorts each
// side best-first.
func reduceSide(levels []model.Listing) sideAggregate {
	var agg sideAggregate
	if len(levels) == 0 {
		return agg
	}

	best := levels[0].UnitPrice
	agg.best = &best

	for _, l := range levels {
		agg.quantity += int64(l.Quantity)
		agg.listings += int64(l.Listings)
	}

	return agg
}

func (agg sideAggregate) snapshot(itemID int, side model.Side, now time.Time) *model.ListingSnapshot {
	return &model.ListingSnapshot{
		ItemID:    itemID,
		Side:      side,
		TakenAt:   now,
		Quantity:  agg.quantity,
		Listings:  agg.listings,
		UnitPrice: agg.best,
	}
}
