package npc_test

import (
	"testing"

	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefs(t *testing.T) {
	defs, err := npc.ParseDefs([]byte(`
- id: silas
  name: Silas
  title: Nosferatu Info Broker
  relationship:
    status: Neutral
    mood: Suspicious
`))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, npc.Relationship{Status: npc.Neutral, Mood: "Suspicious"}, defs[0].Relationship)
}

func TestParseDefs_UnknownStatus(t *testing.T) {
	_, err := npc.ParseDefs([]byte("- id: x\n  name: X\n  relationship:\n    status: Frenemy\n"))
	assert.Error(t, err)
}

func TestParseDefs_DuplicateID(t *testing.T) {
	_, err := npc.ParseDefs([]byte(`
- {id: x, name: X, relationship: {status: Loyal}}
- {id: x, name: Y, relationship: {status: Loyal}}
`))
	assert.Error(t, err)
}

func TestParseEnemies(t *testing.T) {
	tmpls, err := npc.ParseEnemies([]byte(`
- id: gutter_ghoul
  name: Gutter Ghoul
  max_hp: 30
  attack: 5
  reward: {xp: 10, sovereigns: 2}
`))
	require.NoError(t, err)
	require.Len(t, tmpls, 1)
	assert.Equal(t, npc.Reward{XP: 10, Sovereigns: 2}, tmpls[0].Reward)
}

func TestEnemyTemplate_Validate_ZeroHP(t *testing.T) {
	tmpl := &npc.EnemyTemplate{ID: "x", Name: "X"}
	assert.Error(t, tmpl.Validate())
}
