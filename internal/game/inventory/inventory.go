package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned when an item instance id is not carried.
var ErrItemNotFound = errors.New("item not found")

// Item is a concrete item the player carries.
type Item struct {
	// InstanceID is a time-ordered UUID unique to this copy of the item.
	InstanceID string
	Def        *ItemDef
}

// Healer restores player HP.
type Healer interface {
	Heal(n int)
}

// Inventory is the ordered list of carried items.
// It is not safe for concurrent use.
type Inventory struct {
	items []Item
}

// New returns an empty Inventory.
func New() *Inventory {
	return &Inventory{}
}

// Add appends a fresh instance of def.
//
// Precondition: def must not be nil.
// Postcondition: the returned Item is last in Items() and has a unique InstanceID.
func (inv *Inventory) Add(def *ItemDef) Item {
	if def == nil {
		panic("inventory: Add precondition violated: def must not be nil")
	}
	item := Item{InstanceID: uuid.Must(uuid.NewV7()).String(), Def: def}
	inv.items = append(inv.items, item)
	return item
}

// Use applies the item's effect to h. Items with a heal effect are consumed;
// items without an effect stay in the inventory and consumed is false.
//
// Postcondition: on ErrItemNotFound the inventory is unchanged.
func (inv *Inventory) Use(instanceID string, h Healer) (item Item, consumed bool, err error) {
	idx := inv.index(instanceID)
	if idx < 0 {
		return Item{}, false, fmt.Errorf("using %q: %w", instanceID, ErrItemNotFound)
	}
	item = inv.items[idx]
	if !item.Def.Consumable() {
		return item, false, nil
	}
	h.Heal(item.Def.Effect.Amount)
	inv.items = append(inv.items[:idx], inv.items[idx+1:]...)
	return item, true, nil
}

// Items returns a copy of the carried items in insertion order.
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) index(instanceID string) int {
	for i, it := range inv.items {
		if it.InstanceID == instanceID {
			return i
		}
	}
	return -1
}
