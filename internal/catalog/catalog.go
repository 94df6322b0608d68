package catalog

import (
	"minifignet/internal/domain"
)

// Catalog is the immutable reference data the game logic reads:
// item definitions, blueprint definitions and message body texts.
// It is built once at startup by the Loader and never mutated, so
// lookups need no locking.
type Catalog struct {
	items          map[int]domain.Item
	blueprints     map[int]domain.Blueprint
	bodies         map[int]domain.MessageBody
	startingStacks []domain.StartingStack
}

// Item returns the item definition for id.
func (c *Catalog) Item(id int) (*domain.Item, bool) {
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Blueprint returns the blueprint definition keyed by the blueprint
// item's id.
func (c *Catalog) Blueprint(itemID int) (*domain.Blueprint, bool) {
	bp, ok := c.blueprints[itemID]
	if !ok {
		return nil, false
	}
	return &bp, true
}

// MessageBody returns the message body definition for id.
func (c *Catalog) MessageBody(id int) (*domain.MessageBody, bool) {
	body, ok := c.bodies[id]
	if !ok {
		return nil, false
	}
	return &body, true
}

// StartingStacks returns the stacks seeded into new accounts.
func (c *Catalog) StartingStacks() []domain.StartingStack {
	return c.startingStacks
}

// ItemCount reports the number of registered items, for startup logging.
func (c *Catalog) ItemCount() int { return len(c.items) }
