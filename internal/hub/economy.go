package hub

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/alchemy"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/ritual"
	"github.com/cory-johannsen/nightcourt/internal/game/sanctum"
)

var _ alchemy.Brewer = (*Hub)(nil)

var (
	// ErrNotForSale is returned for an item the shop does not stock.
	ErrNotForSale = errors.New("item not for sale")
	// ErrInsufficientSovereigns is returned when a purchase cannot be paid.
	ErrInsufficientSovereigns = errors.New("not enough sovereigns")
)

// Shop returns the stocked item definitions in shelf order.
func (h *Hub) Shop() []*inventory.ItemDef {
	out := make([]*inventory.ItemDef, 0, len(h.tables.Shop))
	for _, id := range h.tables.Shop {
		if d, ok := h.items.Item(id); ok {
			out = append(out, d)
		}
	}
	return out
}

// Buy pays the item's cost in sovereigns and adds a copy to the inventory.
//
// Postcondition: Returns ErrNotForSale or ErrInsufficientSovereigns with
// nothing spent.
func (h *Hub) Buy(itemID string) (inventory.Item, error) {
	var def *inventory.ItemDef
	for _, d := range h.Shop() {
		if d.ID == itemID {
			def = d
			break
		}
	}
	if def == nil {
		return inventory.Item{}, fmt.Errorf("%q: %w", itemID, ErrNotForSale)
	}
	if !h.ledger.SpendSovereigns(def.Cost) {
		return inventory.Item{}, fmt.Errorf("%s costs %s: %w", def.Name, inventory.FormatSovereigns(def.Cost), ErrInsufficientSovereigns)
	}
	item := h.AddItem(def)
	h.logger.Info("item bought", zap.String("item", def.ID), zap.Int("cost", def.Cost))
	return item, nil
}

// Inventory returns the carried items in acquisition order.
func (h *Hub) Inventory() []inventory.Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inventory.Items()
}

// UseItem applies a carried item. Consumables heal and are removed; anything
// else stays carried and consumed is false.
func (h *Hub) UseItem(instanceID string) (item inventory.Item, consumed bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inventory.Use(instanceID, h.ledger)
}

// Ingredient returns the alchemy ingredient with id.
func (h *Hub) Ingredient(id int) (alchemy.Ingredient, bool) { return h.lab.Ingredient(id) }

// Ingredients returns every alchemy ingredient in content order.
func (h *Hub) Ingredients() []alchemy.Ingredient { return h.tables.Alchemy.Ingredients }

// BrewCost returns the soul shard price of one brew.
func (h *Hub) BrewCost() int { return h.lab.Cost() }

// Brew combines the selected ingredients.
func (h *Hub) Brew(selection []int) (alchemy.Result, error) {
	res, err := h.lab.Brew(h, selection)
	if err != nil {
		return res, err
	}
	if h.metrics != nil {
		h.metrics.Brews.WithLabelValues(res.Kind.String()).Inc()
	}
	return res, nil
}

// Rituals returns every ritual in content order.
func (h *Hub) Rituals() []*ritual.Def { return h.altar.Rituals() }

// PerformRitual pays for ritual id and grants its buff.
func (h *Hub) PerformRitual(id string) (*ritual.Def, error) {
	return h.altar.Perform(h.ledger, id)
}

// SanctumModules returns every sanctum module with its current level.
func (h *Hub) SanctumModules() []sanctum.State { return h.sanctum.Modules() }

// UpgradeModule raises sanctum module id one level.
func (h *Hub) UpgradeModule(id string) (sanctum.State, error) {
	return h.sanctum.Upgrade(h.ledger, id)
}
