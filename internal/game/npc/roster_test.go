package npc_test

import (
	"testing"

	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_Pick(t *testing.T) {
	ghoul := &npc.EnemyTemplate{ID: "ghoul", Name: "Gutter Ghoul", MaxHP: 30}
	hound := &npc.EnemyTemplate{ID: "hound", Name: "Shadow Hound", MaxHP: 40}
	r, err := npc.NewRoster([]*npc.EnemyTemplate{ghoul, hound})
	require.NoError(t, err)
	assert.Same(t, hound, r.Pick(testutil.NewScriptedSource(1)))
	assert.Same(t, ghoul, r.Pick(testutil.NewScriptedSource(0)))
}

func TestNewRoster_Empty(t *testing.T) {
	_, err := npc.NewRoster(nil)
	assert.Error(t, err)
}
