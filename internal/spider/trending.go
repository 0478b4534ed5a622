package spider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gw2watch/spider/internal/model"
)

// Trending computes the trailing one-hour percent change of each side's best
// price, comparing against the earliest snapshot taken after the one-hour-ago
// boundary.
type Trending struct {
	snapshots SnapshotStore
	items     ItemStore
	clock     Clock
	logger    *slog.Logger
}

// NewTrending creates a Trending calculator.
func NewTrending(snapshots SnapshotStore, items ItemStore, clock Clock, logger *slog.Logger) *Trending {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trending{
		snapshots: snapshots,
		items:     items,
		clock:     clock,
		logger:    logger,
	}
}

// Update recomputes both trend fields and saves the item once.
//
// Items re-polled less than hourly have no meaningful hourly delta, so both
// fields are reset to zero without touching history. Degenerate comparisons
// (no historical sample, non-positive historical or current price) also
// yield zero; they are defined results, not errors.
func (t *Trending) Update(ctx context.Context, item *model.Item) error {
	delay, err := RepollDelay(item)
	if err != nil {
		return err
	}

	if delay > DelayOneHour {
		item.SaleTrend = 0
		item.OfferTrend = 0
		if err := t.items.Save(ctx, item); err != nil {
			return err
		}
		return nil
	}

	cutoff := t.clock.Now().Add(-time.Hour)

	sale, err := t.sideChange(ctx, item.ID, model.SideSell, item.MinSalePrice, cutoff)
	if err != nil {
		return err
	}
	offer, err := t.sideChange(ctx, item.ID, model.SideBuy, item.MaxOfferPrice, cutoff)
	if err != nil {
		return err
	}

	item.SaleTrend = sale
	item.OfferTrend = offer

	if err := t.items.Save(ctx, item); err != nil {
		return err
	}

	t.logger.Debug("trend updated",
		"item_id", item.ID,
		"sale_trend", sale,
		"offer_trend", offer,
	)

	return nil
}

// sideChange computes ((current - historical) / historical) * 100 for one
// side. The lookback is a pure timestamp cutoff: the earliest snapshot taken
// strictly after cutoff approximates the price an hour ago, and works across
// midnight.
func (t *Trending) sideChange(ctx context.Context, itemID int, side model.Side, current int, cutoff time.Time) (float64, error) {
	snap, err := t.snapshots.FindEarliestAfter(ctx, itemID, side, cutoff)
	if err != nil {
		return 0, fmt.Errorf("lookback for item %d side %s: %w", itemID, side, err)
	}

	if snap == nil || snap.UnitPrice == nil || *snap.UnitPrice <= 0 || current <= 0 {
		return 0, nil
	}

	historical := *snap.UnitPrice
	return (float64(current-historical) / float64(historical)) * 100, nil
}
