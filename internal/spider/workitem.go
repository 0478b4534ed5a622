package spider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gw2watch/spider/internal/model"
)

// WorkItem is one scheduled poll of one item's order book. Values are
// immutable: requeueing constructs a fresh work item with a new instance id,
// so no state leaks between scheduling cycles.
type WorkItem struct {
	ID     uuid.UUID // Instance id, unique per cycle
	ItemID int       // Item this work targets
}

// NewWorkItem creates a work item for the given item id.
func NewWorkItem(itemID int) WorkItem {
	return WorkItem{
		ID:     uuid.New(),
		ItemID: itemID,
	}
}

// Identifier is the queue's duplicate-suppression key: at most one work item
// per item id is outstanding at a time.
func (w WorkItem) Identifier() int { return w.ItemID }

// Spider executes work items: listing aggregation first, then the trend
// update, then requeue at the classifier's cadence.
type Spider struct {
	items      ItemStore
	aggregator *Aggregator
	trending   *Trending
	queue      Queue
	clock      Clock
	logger     *slog.Logger
}

// New creates a Spider.
func New(items ItemStore, aggregator *Aggregator, trending *Trending, queue Queue, clock Clock, logger *slog.Logger) *Spider {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Spider{
		items:      items,
		aggregator: aggregator,
		trending:   trending,
		queue:      queue,
		clock:      clock,
		logger:     logger,
	}
}

// Execute runs one poll cycle and returns the updated item. Aggregation must
// complete before the trend update so the hourly delta compares against the
// price observed this cycle. Any failure aborts the cycle; the caller decides
// whether to re-submit.
func (s *Spider) Execute(ctx context.Context, w WorkItem) (*model.Item, error) {
	item, err := s.items.FindByID(ctx, w.ItemID)
	if err != nil {
		return nil, fmt.Errorf("load item %d: %w", w.ItemID, err)
	}

	if err := s.aggregator.Collect(ctx, item); err != nil {
		return nil, err
	}

	if err := s.trending.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Requeue schedules the item's next poll: a fresh work item enqueued at
// now + the item's re-poll delay.
func (s *Spider) Requeue(item *model.Item) error {
	delay, err := RepollDelay(item)
	if err != nil {
		return err
	}

	runAt := s.clock.Now().Add(delay)
	if err := s.queue.Enqueue(NewWorkItem(item.ID), runAt); err != nil {
		return fmt.Errorf("requeue item %d: %w", item.ID, err)
	}

	s.logger.Debug("item requeued",
		"item_id", item.ID,
		"delay", delay,
		"run_at", runAt,
	)

	return nil
}
