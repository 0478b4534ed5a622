package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gw2watch/spider/internal/model"
	"github.com/gw2watch/spider/internal/spider"
)

// Executor runs one work-item cycle and schedules the follow-up poll.
type Executor interface {
	Execute(ctx context.Context, w spider.WorkItem) (*model.Item, error)
	Requeue(item *model.Item) error
}

// Publisher receives items after each successful cycle.
type Publisher interface {
	PublishItem(item *model.Item, at time.Time)
}

// Config holds dispatcher settings.
type Config struct {
	Workers      int64         // Max concurrent work items (default: 8)
	CycleTimeout time.Duration // Deadline per cycle (default: 30s)
	RetryDelay   time.Duration // Re-submit delay after a failed cycle (default: 5m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:      8,
		CycleTimeout: 30 * time.Second,
		RetryDelay:   5 * time.Minute,
	}
}

// Dispatcher drains the priority queue through a bounded worker pool.
//
// Successful cycles requeue themselves at the classifier's cadence; failed
// cycles are re-submitted at the fixed retry delay so a broken item neither
// hammers the source nor starves forever at its computed cadence.
type Dispatcher struct {
	cfg      Config
	queue    *PriorityQueue
	executor Executor
	pub      Publisher // optional
	logger   *slog.Logger

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	completed atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher creates a Dispatcher. pub may be nil.
func NewDispatcher(cfg Config, q *PriorityQueue, executor Executor, pub Publisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Dispatcher{
		cfg:      cfg,
		queue:    q,
		executor: executor,
		pub:      pub,
		logger:   logger,
		sem:      semaphore.NewWeighted(cfg.Workers),
	}
}

// Start begins draining the queue.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.run()

	d.logger.Info("dispatcher started",
		"workers", d.cfg.Workers,
		"cycle_timeout", d.cfg.CycleTimeout,
		"retry_delay", d.cfg.RetryDelay,
	)

	return nil
}

// Stop gracefully shuts down the dispatcher, waiting for in-flight cycles.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher stopped",
			"completed", d.completed.Load(),
			"failed", d.failed.Load(),
		)
		return nil
	case <-ctx.Done():
		d.logger.Warn("dispatcher stop timed out")
		return ctx.Err()
	}
}

// Stats returns cycle counters.
func (d *Dispatcher) Stats() (completed, failed int64) {
	return d.completed.Load(), d.failed.Load()
}

// run is the dispatch loop: wait for the next due work item, acquire a
// worker slot, execute concurrently.
func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		w, err := d.queue.Next(d.ctx)
		if err != nil {
			return
		}

		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			return
		}

		d.wg.Add(1)
		go func(w spider.WorkItem) {
			defer d.wg.Done()
			defer d.sem.Release(1)
			d.execute(w)
		}(w)
	}
}

// execute runs one cycle under the cycle timeout.
func (d *Dispatcher) execute(w spider.WorkItem) {
	ctx := d.ctx
	if d.cfg.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.CycleTimeout)
		defer cancel()
	}

	start := time.Now()
	item, err := d.executor.Execute(ctx, w)
	if err != nil {
		d.failed.Add(1)

		var ce *spider.ClassificationError
		if errors.As(err, &ce) {
			// An item type without a priority rule is a data invariant
			// violation, not a transient fault; log loudly.
			d.logger.Error("work item hit unclassifiable item",
				"item_id", w.ItemID,
				"err", err,
			)
		} else {
			d.logger.Warn("work item failed",
				"item_id", w.ItemID,
				"err", err,
			)
		}

		if err := d.queue.Enqueue(spider.NewWorkItem(w.ItemID), time.Now().Add(d.cfg.RetryDelay)); err != nil {
			d.logger.Warn("retry enqueue failed", "item_id", w.ItemID, "err", err)
		}
		return
	}

	if err := d.executor.Requeue(item); err != nil {
		d.logger.Warn("requeue failed", "item_id", w.ItemID, "err", err)
	}

	if d.pub != nil {
		d.pub.PublishItem(item, time.Now())
	}

	d.completed.Add(1)
	d.logger.Debug("work item completed",
		"item_id", w.ItemID,
		"duration", time.Since(start),
	)
}
