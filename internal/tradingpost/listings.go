package tradingpost

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gw2watch/spider/internal/model"
)

// listingsResponse from GET /commerce/listings/{id}
type listingsResponse struct {
	ID    int            `json:"id"`
	Buys  []listingLevel `json:"buys"`
	Sells []listingLevel `json:"sells"`
}

// listingLevel is one aggregated price level.
type listingLevel struct {
	Listings  int `json:"listings"`
	UnitPrice int `json:"unit_price"`
	Quantity  int `json:"quantity"`
}

// GetListings fetches the full current order book for an item. The endpoint
// returns sells ascending and buys descending by unit price; that order is
// preserved, so the first level of each side is the best price. Both sides
// may be empty.
func (c *Client) GetListings(ctx context.Context, itemID int) (*model.OrderBook, error) {
	var resp listingsResponse
	if err := c.get(ctx, "/commerce/listings/"+strconv.Itoa(itemID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get listings %d: %w", itemID, err)
	}

	return &model.OrderBook{
		Sell: toLevels(resp.Sells),
		Buy:  toLevels(resp.Buys),
	}, nil
}

func toLevels(in []listingLevel) []model.Listing {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Listing, len(in))
	for i, l := range in {
		out[i] = model.Listing{
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Listings:  l.Listings,
		}
	}
	return out
}
