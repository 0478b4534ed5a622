package queue

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gw2watch/spider/internal/spider"
)

// ErrClosed is returned when enqueueing into a closed queue.
var ErrClosed = errors.New("queue closed")

// PriorityQueue orders work items by their absolute run-at time and
// suppresses duplicates: at most one queued work item per item identifier.
// Entries become eligible for dispatch only once their run-at time has
// passed.
type PriorityQueue struct {
	mu      sync.Mutex
	entries entryHeap
	queued  map[int]struct{} // item ids with a queued entry
	wake    chan struct{}    // closed and replaced on every state change
	seq     int64
	closed  bool
}

// New creates an empty queue.
func New() *PriorityQueue {
	return &PriorityQueue{
		queued: make(map[int]struct{}),
		wake:   make(chan struct{}),
	}
}

// Enqueue schedules w to run at runAt. If the item already has a queued work
// item the call is a silent no-op: duplicate suppression is the queue's
// contract, and the earlier entry keeps its slot.
func (q *PriorityQueue) Enqueue(w spider.WorkItem, runAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	if _, dup := q.queued[w.Identifier()]; dup {
		return nil
	}

	q.seq++
	heap.Push(&q.entries, entry{work: w, runAt: runAt, seq: q.seq})
	q.queued[w.Identifier()] = struct{}{}
	q.notify()

	return nil
}

// Next blocks until the earliest queued work item is due, then removes and
// returns it. Returns the context's error on cancellation and ErrClosed once
// the queue is closed and drained of due entries.
func (q *PriorityQueue) Next(ctx context.Context) (spider.WorkItem, error) {
	for {
		q.mu.Lock()

		if len(q.entries) > 0 {
			head := q.entries[0]
			now := time.Now()
			if !head.runAt.After(now) {
				heap.Pop(&q.entries)
				delete(q.queued, head.work.Identifier())
				q.mu.Unlock()
				return head.work, nil
			}

			wake := q.wake
			wait := head.runAt.Sub(now)
			q.mu.Unlock()

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return spider.WorkItem{}, ctx.Err()
			case <-wake:
				timer.Stop()
			case <-timer.C:
			}
			continue
		}

		if q.closed {
			q.mu.Unlock()
			return spider.WorkItem{}, ErrClosed
		}

		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return spider.WorkItem{}, ctx.Err()
		case <-wake:
		}
	}
}

// Len returns the number of queued work items.
func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close rejects further enqueues and wakes blocked receivers.
func (q *PriorityQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notify()
}

// notify wakes all waiters. Must be called with the lock held.
func (q *PriorityQueue) notify() {
	close(q.wake)
	q.wake = make(chan struct{})
}

// entry is one queued work item.
type entry struct {
	work  spider.WorkItem
	runAt time.Time
	seq   int64 // insertion order, breaks run-at ties
}

// entryHeap is a min-heap on (runAt, seq).
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].runAt.Equal(h[j].runAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].runAt.Before(h[j].runAt)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
