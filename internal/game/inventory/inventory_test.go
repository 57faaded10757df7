package inventory_test

import (
	"errors"
	"testing"

	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type healRecorder struct{ healed []int }

func (h *healRecorder) Heal(n int) { h.healed = append(h.healed, n) }

func potion() *inventory.ItemDef {
	return &inventory.ItemDef{
		ID: "draught", Name: "Minor Healing Draught", Kind: inventory.KindPotion,
		Effect: &inventory.Effect{Type: inventory.EffectHeal, Amount: 15},
	}
}

func goop() *inventory.ItemDef {
	return &inventory.ItemDef{ID: "inert_goop", Name: "Inert Goop", Kind: inventory.KindMisc}
}

func TestInventory_UsePotion_HealsAndRemoves(t *testing.T) {
	inv := inventory.New()
	item := inv.Add(potion())
	h := &healRecorder{}

	used, consumed, err := inv.Use(item.InstanceID, h)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, item, used)
	assert.Equal(t, []int{15}, h.healed)
	assert.Zero(t, len(inv.Items()))
}

func TestInventory_UseMisc_Stays(t *testing.T) {
	inv := inventory.New()
	item := inv.Add(goop())
	h := &healRecorder{}

	_, consumed, err := inv.Use(item.InstanceID, h)
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Empty(t, h.healed)
	assert.Equal(t, 1, len(inv.Items()))
}

func TestInventory_UseUnknown(t *testing.T) {
	inv := inventory.New()
	inv.Add(goop())
	_, _, err := inv.Use("nope", &healRecorder{})
	assert.True(t, errors.Is(err, inventory.ErrItemNotFound))
	assert.Equal(t, 1, len(inv.Items()))
}

func TestInventory_RemovesOnlyUsedInstance(t *testing.T) {
	inv := inventory.New()
	a := inv.Add(potion())
	b := inv.Add(potion())
	_, _, err := inv.Use(a.InstanceID, &healRecorder{})
	require.NoError(t, err)
	items := inv.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.InstanceID, items[0].InstanceID)
}

func TestPropertyInventory_InstanceIDsUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(t, "n")
		inv := inventory.New()
		seen := map[string]bool{}
		for i := 0; i < n; i++ {
			it := inv.Add(goop())
			if seen[it.InstanceID] {
				t.Fatalf("duplicate instance id %s", it.InstanceID)
			}
			seen[it.InstanceID] = true
		}
	})
}
