package buff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
)

func TestFirstBonus_NoBuffs_Zero(t *testing.T) {
	assert.Zero(t, buff.AttackBonus(buff.NewActiveSet()))
	assert.Zero(t, buff.DefenseBonus(nil))
}

// TestFirstBonus_FirstMatchWins pins the observed behaviour: two attack buffs
// do not add; the earliest in list order is used.
func TestFirstBonus_FirstMatchWins(t *testing.T) {
	s := buff.NewActiveSet()
	s.Apply(buff.Def{ID: "minor", Effects: []buff.Effect{{Stat: buff.StatAttack, Value: 2}}, Duration: 3})
	s.Apply(bloodFury())
	assert.Equal(t, 2, buff.AttackBonus(s))
	assert.Zero(t, buff.DefenseBonus(s))
}

func TestFirstBonus_PerStat(t *testing.T) {
	s := buff.NewActiveSet()
	s.Apply(bloodFury())
	s.Apply(shadowShroud())
	s.Apply(buff.Def{ID: "gaze", Effects: []buff.Effect{{Stat: buff.StatDominance, Value: 5}}, Duration: 5})
	assert.Equal(t, 10, buff.AttackBonus(s))
	assert.Equal(t, 8, buff.DefenseBonus(s))
	assert.Equal(t, 5, buff.DominanceBonus(s))
}
