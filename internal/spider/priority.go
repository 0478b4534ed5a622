package spider

import (
	"fmt"
	"time"

	"github.com/gw2watch/spider/internal/model"
)

// Re-poll delays. Rarer, more restricted equipment trades in a fast, liquid
// market and is polled as often as every fifteen minutes; slow categories
// once a day. DelayThreeHours is 10900s, not 10800: the value is load-bearing
// scheduling behavior and is kept as-is.
const (
	DelayOneDay     = 24 * time.Hour
	DelayThreeHours = 10900 * time.Second
	DelayOneHour    = time.Hour
	DelayFifteenMin = 15 * time.Minute
)

// ClassificationError reports an item type the priority table does not cover.
// It means the item-type set and the table have drifted apart, which should
// alert rather than fall back to some default cadence.
type ClassificationError struct {
	ItemID int
	Type   model.ItemType
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("item %d: no priority rule for item type %q", e.ItemID, e.Type)
}

// RepollDelay maps an item's classification to how long the spider waits
// before fetching its order book again. It is a pure function of the item's
// type, rarity and restriction level.
//
// Unclassified items (empty type) fall back to a daily poll. Types present
// in the model but absent from the table return a ClassificationError.
func RepollDelay(item *model.Item) (time.Duration, error) {
	if item.Type == "" {
		return DelayOneDay, nil
	}

	switch item.Type {
	case model.TypeWeapon, model.TypeArmor:
		switch {
		case item.Rarity >= 3:
			switch {
			case item.RestrictionLevel > 60:
				return DelayFifteenMin, nil
			case item.RestrictionLevel > 40:
				return DelayOneHour, nil
			default:
				return DelayThreeHours, nil
			}
		case item.Rarity >= 2:
			return DelayThreeHours, nil
		default:
			return DelayOneDay, nil
		}

	case model.TypeGathering, model.TypeTool:
		return DelayOneDay, nil

	case model.TypeTrophy:
		if item.Rarity >= 2 {
			return DelayFifteenMin, nil
		}
		return DelayOneDay, nil

	case model.TypeGizmo:
		if item.Rarity >= 5 {
			return DelayOneHour, nil
		}
		return DelayThreeHours, nil

	case model.TypeMini, model.TypeBag, model.TypeCraftingMaterial:
		return DelayFifteenMin, nil

	case model.TypeContainer:
		if item.Rarity >= 2 {
			return DelayFifteenMin, nil
		}
		return DelayOneHour, nil

	case model.TypeConsumable, model.TypeUpgradeComponent, model.TypeTrinket:
		return DelayOneHour, nil

	default:
		return 0, &ClassificationError{ItemID: item.ID, Type: item.Type}
	}
}
