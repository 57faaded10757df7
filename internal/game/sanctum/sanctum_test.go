package sanctum_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/sanctum"
)

const modulesYAML = `
- id: vault
  name: The Vault
  level: 0
  max_level: 2
  bonus_description: +1000 Max Sovereigns per level.
  upgrade_costs:
    - {sovereigns: 250, soul_shards: 0}
    - {sovereigns: 750, soul_shards: 1}
- id: trophyDisplay
  name: Trophy Display
  level: 1
  max_level: 1
  upgrade_costs: []
`

func newSanctum(t require.TestingT) *sanctum.Sanctum {
	mods, err := sanctum.ParseModules([]byte(modulesYAML))
	require.NoError(t, err)
	return sanctum.New(mods, zap.NewNop())
}

func ledgerWith(sov, shards int) *character.Ledger {
	p := character.NewProfile()
	p.Sovereigns, p.SoulShards = sov, shards
	return character.NewLedger(p, zap.NewNop())
}

func TestUpgrade_ChargesIndexedCost(t *testing.T) {
	s := newSanctum(t)
	l := ledgerWith(1000, 1)

	st, err := s.Upgrade(l, "vault")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 750, l.Snapshot().Sovereigns)

	st, err = s.Upgrade(l, "vault")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Level)
	snap := l.Snapshot()
	assert.Zero(t, snap.Sovereigns)
	assert.Zero(t, snap.SoulShards)

	_, err = s.Upgrade(l, "vault")
	assert.True(t, errors.Is(err, sanctum.ErrMaxLevel))
}

func TestUpgrade_AlreadyMaxed(t *testing.T) {
	_, err := newSanctum(t).Upgrade(ledgerWith(1_000_000, 100), "trophyDisplay")
	assert.True(t, errors.Is(err, sanctum.ErrMaxLevel))
}

func TestUpgrade_Unknown(t *testing.T) {
	_, err := newSanctum(t).Upgrade(ledgerWith(0, 0), "crypt")
	assert.True(t, errors.Is(err, sanctum.ErrUnknownModule))
}

func TestUpgrade_InsufficientShardsLeavesSovereigns(t *testing.T) {
	s := newSanctum(t)
	l := ledgerWith(2000, 0)
	_, err := s.Upgrade(l, "vault")
	require.NoError(t, err)

	_, err = s.Upgrade(l, "vault")

	assert.True(t, errors.Is(err, sanctum.ErrInsufficientFunds))
	assert.Equal(t, 1750, l.Snapshot().Sovereigns)
	st, _ := s.Module("vault")
	assert.Equal(t, 1, st.Level)
}

func TestParseModules_MissingCosts(t *testing.T) {
	_, err := sanctum.ParseModules([]byte("- {id: lib, name: Library, level: 0, max_level: 2, upgrade_costs: [{sovereigns: 1}]}\n"))
	assert.Error(t, err)
}

func TestProperty_NeverPastMaxNeverHalfSpends(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newSanctum(t)
		l := ledgerWith(rapid.IntRange(0, 2000).Draw(t, "sovereigns"), rapid.IntRange(0, 2).Draw(t, "shards"))
		for i := range rapid.IntRange(1, 5).Draw(t, "attempts") {
			before := l.Snapshot()
			st, err := s.Upgrade(l, "vault")
			after := l.Snapshot()
			if err != nil {
				if before.Sovereigns != after.Sovereigns || before.SoulShards != after.SoulShards {
					t.Fatalf("attempt %d: refused upgrade changed balances", i)
				}
				continue
			}
			if st.Level > st.MaxLevel {
				t.Fatalf("level %d past max %d", st.Level, st.MaxLevel)
			}
		}
	})
}
