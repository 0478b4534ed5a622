package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gw2watch/spider/internal/model"
)

// SnapshotStore appends listing snapshots and serves the trend lookback.
//
// Rows are immutable once written. unit_price is NULL for snapshots of an
// empty book side; it must never be collapsed to zero on the way in or out.
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore creates a SnapshotStore backed by the given pool.
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Insert appends one snapshot. A write failure is a hard error for the cycle;
// a silently dropped row would corrupt the trend time series.
func (s *SnapshotStore) Insert(ctx context.Context, snap *model.ListingSnapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO listings (item_id, side, taken_date, taken_at, quantity, listings, unit_price)
		VALUES ($1, $2, $3::date, $3, $4, $5, $6)
	`, snap.ItemID, string(snap.Side), snap.TakenAt, snap.Quantity, snap.Listings, snap.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert %s snapshot for item %d: %w", snap.Side, snap.ItemID, err)
	}
	return nil
}

// FindEarliestAfter returns the snapshot with the smallest taken_at strictly
// greater than cutoff for the given item and side, or nil if none exists.
// Ordering is by the snapshot's own timestamp, not insertion order.
func (s *SnapshotStore) FindEarliestAfter(ctx context.Context, itemID int, side model.Side, cutoff time.Time) (*model.ListingSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT item_id, side, taken_at, quantity, listings, unit_price
		FROM listings
		WHERE item_id = $1 AND side = $2 AND taken_at > $3
		ORDER BY taken_at ASC
		LIMIT 1
	`, itemID, string(side), cutoff)

	var snap model.ListingSnapshot
	var sideStr string
	err := row.Scan(
		&snap.ItemID,
		&sideStr,
		&snap.TakenAt,
		&snap.Quantity,
		&snap.Listings,
		&snap.UnitPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookback query item %d side %s: %w", itemID, side, err)
	}
	snap.Side = model.Side(sideStr)

	return &snap, nil
}
