package spider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gw2watch/spider/internal/model"
)

var errFakeNotFound = errors.New("fake: item not found")

// fakeClock returns a fixed time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeSource serves a canned order book or a canned error.
type fakeSource struct {
	book *model.OrderBook
	err  error
}

func (s *fakeSource) GetListings(ctx context.Context, itemID int) (*model.OrderBook, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.book, nil
}

// fakeItemStore keeps items in a map and counts saves.
type fakeItemStore struct {
	mu    sync.Mutex
	items map[int]*model.Item
	saves int
	err   error
}

func newFakeItemStore(items ...*model.Item) *fakeItemStore {
	s := &fakeItemStore{items: make(map[int]*model.Item)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *fakeItemStore) FindByID(ctx context.Context, id int) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *fakeItemStore) Save(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *item
	s.items[item.ID] = &cp
	s.saves++
	return nil
}

// fakeSnapshotStore records inserts and serves one canned lookback result
// per side.
type fakeSnapshotStore struct {
	mu        sync.Mutex
	inserted  []*model.ListingSnapshot
	lookback  map[model.Side]*model.ListingSnapshot
	insertErr error
	findErr   error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{lookback: make(map[model.Side]*model.ListingSnapshot)}
}

func (s *fakeSnapshotStore) Insert(ctx context.Context, snap *model.ListingSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	cp := *snap
	s.inserted = append(s.inserted, &cp)
	return nil
}

func (s *fakeSnapshotStore) FindEarliestAfter(ctx context.Context, itemID int, side model.Side, cutoff time.Time) (*model.ListingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.lookback[side], nil
}

func (s *fakeSnapshotStore) bySide(side model.Side) *model.ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.inserted {
		if snap.Side == side {
			return snap
		}
	}
	return nil
}

// fakeQueue records enqueued work items.
type fakeQueue struct {
	mu      sync.Mutex
	entries []queuedEntry
	err     error
}

type queuedEntry struct {
	work  WorkItem
	runAt time.Time
}

func (q *fakeQueue) Enqueue(w WorkItem, runAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.entries = append(q.entries, queuedEntry{work: w, runAt: runAt})
	return nil
}

func intPtr(v int) *int { return &v }
