package model

import "time"

// -----------------------------------------------------------------------------
// Item Classification
// -----------------------------------------------------------------------------

// ItemType classifies a tradable item. The empty string means the item has
// not been classified yet.
type ItemType string

const (
	TypeArmor            ItemType = "Armor"
	TypeBack             ItemType = "Back"
	TypeBag              ItemType = "Bag"
	TypeConsumable       ItemType = "Consumable"
	TypeContainer        ItemType = "Container"
	TypeCraftingMaterial ItemType = "Crafting Material"
	TypeGathering        ItemType = "Gathering"
	TypeGizmo            ItemType = "Gizmo"
	TypeMini             ItemType = "Mini"
	TypeTool             ItemType = "Tool"
	TypeTrinket          ItemType = "Trinket"
	TypeTrophy           ItemType = "Trophy"
	TypeUpgradeComponent ItemType = "Upgrade Component"
	TypeWeapon           ItemType = "Weapon"
)

// Side tags a ListingSnapshot as the sell (ask) or buy (bid) side of the book.
type Side string

const (
	SideSell Side = "sell"
	SideBuy  Side = "buy"
)

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// Item represents one tradable item on the trading post.
type Item struct {
	ID               int      // Primary key (trading post data id)
	Name             string   // Display name
	Type             ItemType // Classification, empty if unknown
	Rarity           int      // Ordinal rarity tier, higher = rarer
	RestrictionLevel int      // Level requirement to use the item

	// Best prices, in copper. Zero until the first non-empty poll; only
	// overwritten when the polled side has at least one listing.
	MinSalePrice  int // Lowest outstanding ask
	MaxOfferPrice int // Highest outstanding bid

	// Trailing one-hour percent change of the best price per side.
	SaleTrend  float64
	OfferTrend float64

	UpdatedAt time.Time // Last persisted change
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// ListingSnapshot is one immutable, aggregated record of one side of an
// item's order book at one instant. UnitPrice is nil when the side had no
// listings at poll time: "currently no listings" is a real observation and
// must stay distinct from a zero price.
type ListingSnapshot struct {
	ItemID    int       // Item the snapshot belongs to
	Side      Side      // Book side
	TakenAt   time.Time // Poll instant
	Quantity  int64     // Total units across all listings on this side
	Listings  int64     // Total listing count on this side
	UnitPrice *int      // Best price on this side, nil if the side was empty
}

// -----------------------------------------------------------------------------
// Order Book
// -----------------------------------------------------------------------------

// Listing is one aggregated price level as returned by the trading post.
type Listing struct {
	UnitPrice int // Price per unit, copper
	Quantity  int // Units offered at this price
	Listings  int // Individual listings collapsed into this level
}

// OrderBook is the full current set of outstanding orders for one item.
// The trading post returns sells ascending and buys descending by price, so
// the first entry of each side is that side's best; consumers rely on this
// order and never re-sort.
type OrderBook struct {
	Sell []Listing
	Buy  []Listing
}
