package checkpoint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/checkpoint"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
)

var (
	stamp = time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	who   = character.Identity{Name: "The Unseen", Archetype: character.Vampire}
	npcs  = []*npc.Def{
		{ID: "helena", Name: "Helena", Relationship: npc.Relationship{Status: npc.Neutral, Mood: "Wary"}},
		{ID: "mr_jones", Name: "Mr. Jones", Relationship: npc.Relationship{Status: npc.Neutral, Mood: "Pragmatic"}},
	}
)

type recordingOracle struct {
	inputs []narrative.CheckpointInput
}

func (o *recordingOracle) CheckpointSummary(_ context.Context, in narrative.CheckpointInput) string {
	o.inputs = append(o.inputs, in)
	return "assessed"
}

func setup(shards int) (*checkpoint.Recorder, *character.Ledger, *npc.Relationships) {
	p := character.NewProfile()
	p.SoulShards = shards
	l := character.NewLedger(p, zap.NewNop())
	rel := npc.NewRelationships(npcs)
	r := checkpoint.NewRecorder(1, npcs, func() time.Time { return stamp }, zap.NewNop())
	return r, l, rel
}

func TestCreate_RequiresBaseline(t *testing.T) {
	r, l, rel := setup(5)
	_, err := r.Create(context.Background(), who, l, rel, &recordingOracle{})
	assert.True(t, errors.Is(err, checkpoint.ErrNoBaseline))
	assert.Equal(t, 5, l.Snapshot().SoulShards)
}

func TestCreate_InsufficientShards(t *testing.T) {
	r, l, rel := setup(0)
	r.Capture(l, rel)
	_, err := r.Create(context.Background(), who, l, rel, &recordingOracle{})
	assert.True(t, errors.Is(err, checkpoint.ErrInsufficientShards))
}

func TestCreate_ReportsDeltas(t *testing.T) {
	r, l, rel := setup(5)
	r.Capture(l, rel)
	l.GrantRewards(100, 40)
	l.AddSoulShards(2)
	l.UpdateAttribute(character.Dominance, 1)
	rel.SetStatus("mr_jones", npc.Rival)
	rel.SetMood("helena", "Pleased")
	oracle := &recordingOracle{}

	rep, err := r.Create(context.Background(), who, l, rel, oracle)

	require.NoError(t, err)
	assert.Equal(t, stamp, rep.Timestamp)
	assert.Equal(t, 1, rep.LevelDelta)
	assert.Equal(t, 40, rep.SovereignsDelta)
	assert.Equal(t, 2, rep.SoulShardsDelta, "cost excluded")
	assert.Equal(t, 1, rep.DominanceDelta)
	assert.Equal(t, []string{"Mr. Jones: Neutral -> Rival"}, rep.RelationshipChanges, "mood-only change ignored")
	assert.Equal(t, "assessed", rep.OracleAssessment)
	require.Len(t, oracle.inputs, 1)
	assert.Equal(t, who, oracle.inputs[0].Identity)
	assert.Equal(t, 6, l.Snapshot().SoulShards)
}

func TestCreate_DeltasRelativeToPreviousCheckpoint(t *testing.T) {
	r, l, rel := setup(5)
	r.Capture(l, rel)
	l.GrantRewards(0, 50)
	rel.SetStatus("helena", npc.Loyal)
	_, err := r.Create(context.Background(), who, l, rel, &recordingOracle{})
	require.NoError(t, err)

	l.GrantRewards(0, 7)
	rep, err := r.Create(context.Background(), who, l, rel, &recordingOracle{})

	require.NoError(t, err)
	assert.Equal(t, 7, rep.SovereignsDelta)
	assert.Zero(t, rep.SoulShardsDelta)
	assert.Empty(t, rep.RelationshipChanges)
}
