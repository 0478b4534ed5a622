// Package model defines the domain types shared across the spider:
// tradable items, aggregated listing snapshots, and the raw order book
// shape returned by the trading post.
package model
