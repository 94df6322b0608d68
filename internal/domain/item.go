package domain

// ItemType categorizes items; the main use is placing items into
// different inventory tabs on the page.
type ItemType string

const (
	ItemTypeBackground  ItemType = "BACKGROUND"
	ItemTypeBadge       ItemType = "BADGE"
	ItemTypeBlueprint   ItemType = "BLUEPRINT"
	ItemTypeItem        ItemType = "ITEM"
	ItemTypeLoop        ItemType = "LOOP"
	ItemTypeMasterpiece ItemType = "MASTERPIECE"
	ItemTypeModule      ItemType = "MODULE"
	ItemTypeMovie       ItemType = "MOVIE"
	ItemTypeSkin        ItemType = "SKIN"
	ItemTypeSticker     ItemType = "STICKER"
)

// ValidItemTypes is the closed set of item types accepted at catalog load.
var ValidItemTypes = map[ItemType]bool{
	ItemTypeBackground:  true,
	ItemTypeBadge:       true,
	ItemTypeBlueprint:   true,
	ItemTypeItem:        true,
	ItemTypeLoop:        true,
	ItemTypeMasterpiece: true,
	ItemTypeModule:      true,
	ItemTypeMovie:       true,
	ItemTypeSkin:        true,
	ItemTypeSticker:     true,
}

// Item is a catalog entry describing an abstract item, not a user's
// holdings of it (see Stack for that). Almost everything a user can
// possess is an item, including blueprints, skins and stickers.
type Item struct {
	ID   int      `json:"item_id"`
	Name string   `json:"name"`
	Type ItemType `json:"type"`
}

// BlueprintRequirement is one stack a blueprint consumes when used.
type BlueprintRequirement struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Blueprint maps a blueprint item to the item it builds and the
// requirement stacks consumed by crafting. The blueprint item itself
// is never consumed.
type Blueprint struct {
	ItemID       int                    `json:"item_id"`
	BuildItemID  int                    `json:"build_item_id"`
	Requirements []BlueprintRequirement `json:"requirements"`
}

// StartingStack is an inventory stack seeded for every new account
// during registration.
type StartingStack struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}
