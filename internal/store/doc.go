// Package store implements the Postgres repositories for items and listing
// snapshots.
//
// Schema:
//
//	items    (id, name, item_type, rarity, restriction_level,
//	          min_sale_price, max_offer_price, sale_trend, offer_trend, updated_at)
//	listings (item_id, side, taken_date, taken_at, quantity, listings, unit_price)
//
// The listings table is append-only; taken_date is derived from taken_at at
// insert time so historical queries can prune by calendar day.
package store
