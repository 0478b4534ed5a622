package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gw2watch/spider/internal/model"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ItemStore reads and updates the item catalog.
//
// Items are created by the catalog importer, never by the spider; the spider
// only updates the price and trend fields.
type ItemStore struct {
	db *pgxpool.Pool
}

// NewItemStore creates an ItemStore backed by the given pool.
func NewItemStore(db *pgxpool.Pool) *ItemStore {
	return &ItemStore{db: db}
}

// FindByID loads one item. Returns ErrNotFound if the id is unknown.
func (s *ItemStore) FindByID(ctx context.Context, id int) (*model.Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, item_type, rarity, restriction_level,
		       min_sale_price, max_offer_price, sale_trend, offer_trend, updated_at
		FROM items
		WHERE id = $1
	`, id)

	var item model.Item
	var itemType *string
	err := row.Scan(
		&item.ID,
		&item.Name,
		&itemType,
		&item.Rarity,
		&item.RestrictionLevel,
		&item.MinSalePrice,
		&item.MaxOfferPrice,
		&item.SaleTrend,
		&item.OfferTrend,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query item %d: %w", id, err)
	}

	if itemType != nil {
		item.Type = model.ItemType(*itemType)
	}

	return &item, nil
}

// Save persists the fields the spider owns: best prices and trend signals.
func (s *ItemStore) Save(ctx context.Context, item *model.Item) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE items
		SET min_sale_price = $2,
		    max_offer_price = $3,
		    sale_trend = $4,
		    offer_trend = $5,
		    updated_at = now()
		WHERE id = $1
	`, item.ID, item.MinSalePrice, item.MaxOfferPrice, item.SaleTrend, item.OfferTrend)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}

// ListIDs returns every item id in the catalog, used to seed the queue.
func (s *ItemStore) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item ids: %w", err)
	}

	return ids, nil
}
