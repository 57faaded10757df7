package buff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
)

func bloodFury() buff.Def {
	return buff.Def{ID: "buff_blood_fury", Name: "Blood Fury", Effects: []buff.Effect{{Stat: buff.StatAttack, Value: 10}}, Duration: 3}
}

func shadowShroud() buff.Def {
	return buff.Def{ID: "buff_shadow_shroud", Name: "Shadow Shroud", Effects: []buff.Effect{{Stat: buff.StatDefense, Value: 8}}, Duration: 3}
}

func TestActiveSet_Apply(t *testing.T) {
	s := buff.NewActiveSet()
	s.Apply(bloodFury())
	assert.True(t, s.Has("buff_blood_fury"))
	require.Len(t, s.All(), 1)
	assert.Equal(t, 3, s.All()[0].Remaining)
}

func TestActiveSet_Apply_ReplacesSameID(t *testing.T) {
	s := buff.NewActiveSet()
	s.Apply(bloodFury())
	s.Apply(shadowShroud())
	s.Tick()
	s.Apply(bloodFury())

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "buff_shadow_shroud", all[0].Def.ID)
	assert.Equal(t, "buff_blood_fury", all[1].Def.ID, "replacement moves to the end")
	assert.Equal(t, 3, all[1].Remaining, "replacement restarts the duration")
}

func TestActiveSet_Tick_Expires(t *testing.T) {
	s := buff.NewActiveSet()
	def := bloodFury()
	def.Duration = 1
	s.Apply(def)
	expired := s.Tick()
	assert.Equal(t, []string{"buff_blood_fury"}, expired)
	assert.False(t, s.Has("buff_blood_fury"))
}

func TestActiveSet_Tick_ZeroDurationRemovedNextTick(t *testing.T) {
	s := buff.NewActiveSet()
	def := shadowShroud()
	def.Duration = 0
	s.Apply(def)
	assert.True(t, s.Has(def.ID))
	s.Tick()
	assert.False(t, s.Has(def.ID))
}

func TestActiveSet_Remove_NotPresent_NoOp(t *testing.T) {
	s := buff.NewActiveSet()
	s.Remove("nonexistent")
	assert.Zero(t, s.Len())
}

func TestActiveSet_Clone_Independent(t *testing.T) {
	s := buff.NewActiveSet()
	s.Apply(bloodFury())
	c := s.Clone()
	s.Tick()
	assert.Equal(t, 3, c.All()[0].Remaining)
	assert.Equal(t, 2, s.All()[0].Remaining)
}

func TestPropertyActiveSet_IDsUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c"})).Draw(t, "ids")
		s := buff.NewActiveSet()
		for _, id := range ids {
			s.Apply(buff.Def{ID: id, Duration: 2})
		}
		seen := map[string]bool{}
		for _, b := range s.All() {
			if seen[b.Def.ID] {
				t.Fatalf("duplicate buff id %q", b.Def.ID)
			}
			seen[b.Def.ID] = true
		}
	})
}

func TestPropertyActiveSet_TickLeavesOnlyPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		durations := rapid.SliceOfN(rapid.IntRange(0, 6), 1, 5).Draw(t, "durations")
		ticks := rapid.IntRange(1, 8).Draw(t, "ticks")
		s := buff.NewActiveSet()
		for i, d := range durations {
			s.Apply(buff.Def{ID: string(rune('a' + i)), Duration: d})
		}
		for i := 0; i < ticks; i++ {
			s.Tick()
		}
		for _, b := range s.All() {
			assert.Positive(t, b.Remaining)
		}
	})
}
