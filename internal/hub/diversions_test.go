package hub

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/glyph"
	"github.com/cory-johannsen/nightcourt/internal/game/meditation"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
	sourceutil "github.com/cory-johannsen/nightcourt/internal/testutil"
)

func TestTrivia_CorrectAnswerPaysReward(t *testing.T) {
	// The first draw picks the category: 1 is History.
	f := newFixture(t, character.Vampire, 0, sourceutil.NewScriptedSource(1))
	r, err := f.hub.StartTrivia(context.Background(), "")
	require.NoError(t, err)
	q := r.Question()
	assert.Equal(t, "History", q.Category)

	res, err := f.hub.AnswerTrivia(q.Answer)
	require.NoError(t, err)
	assert.True(t, res.Correct)

	p := f.hub.Profile()
	start := character.NewProfile()
	assert.Equal(t, start.XP+trivia.RewardXP, p.XP)
	assert.Equal(t, start.Sovereigns+trivia.RewardSovereigns, p.Sovereigns)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Diversions.WithLabelValues("trivia", "correct")))

	_, err = f.hub.AnswerTrivia(q.Answer)
	assert.ErrorIs(t, err, trivia.ErrAnswered)
}

func TestTrivia_HintStrikesAndWrongAnswerPaysNothing(t *testing.T) {
	// Wrong options are [1 2 3]; a draw of 2 strikes option 3.
	f := newFixture(t, character.Vampire, 0, sourceutil.NewScriptedSource(2))
	_, err := f.hub.StartTrivia(context.Background(), "science")
	require.NoError(t, err)

	struck, err := f.hub.TriviaHint()
	require.NoError(t, err)
	assert.Equal(t, 3, struck)
	assert.Equal(t, character.NewProfile().SoulShards-trivia.HintCost, f.hub.Profile().SoulShards)

	_, err = f.hub.TriviaHint()
	assert.ErrorIs(t, err, trivia.ErrHintUsed)

	_, err = f.hub.AnswerTrivia(3)
	assert.ErrorIs(t, err, trivia.ErrStruck)

	res, err := f.hub.AnswerTrivia(1)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, character.NewProfile().Sovereigns, f.hub.Profile().Sovereigns)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Diversions.WithLabelValues("trivia", "wrong")))
}

func TestTrivia_NothingOpen(t *testing.T) {
	f := newFixture(t, character.Vampire, 0, sourceutil.NewScriptedSource())
	_, err := f.hub.TriviaHint()
	assert.ErrorIs(t, err, ErrNoTrivia)
	_, err = f.hub.AnswerTrivia(0)
	assert.ErrorIs(t, err, ErrNoTrivia)

	_, err = f.hub.StartTrivia(context.Background(), "Astrology")
	assert.ErrorIs(t, err, trivia.ErrUnknownCategory)
	_, open := f.hub.Trivia()
	assert.False(t, open)
}

func TestDecodeGlyph_LoreFindIsAnnounced(t *testing.T) {
	src := sourceutil.NewScriptedSource(0).WithFloats(0.2)
	f := newFixture(t, character.Vampire, 0, src)

	res := f.hub.DecodeGlyph()
	require.Equal(t, glyph.Lore, res.Kind)
	assert.True(t, f.hub.HasLore(res.Fragment.ID))
	assert.Equal(t, []string{"Lore discovered: " + res.Fragment.Title}, f.notices.lines("lore"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Diversions.WithLabelValues("glyph", "lore")))
}

func TestDecodeGlyph_ShardAndPacketBands(t *testing.T) {
	src := sourceutil.NewScriptedSource(6).WithFloats(0.05, 0.9)
	f := newFixture(t, character.Vampire, 0, src)
	start := character.NewProfile()

	res := f.hub.DecodeGlyph()
	assert.Equal(t, glyph.SoulShard, res.Kind)
	assert.Equal(t, start.SoulShards+1, f.hub.Profile().SoulShards)

	res = f.hub.DecodeGlyph()
	assert.Equal(t, glyph.Sovereigns, res.Kind)
	assert.Equal(t, 16, res.Amount)
	assert.Equal(t, start.Sovereigns+16, f.hub.Profile().Sovereigns)
}

func TestBreathing_PaysCompletedCycles(t *testing.T) {
	f := newFixture(t, character.Vampire, 0, sourceutil.NewScriptedSource())
	require.NoError(t, f.hub.StartBreathing())
	assert.ErrorIs(t, f.hub.StartBreathing(), meditation.ErrAlreadyBreathing)

	f.clock.Advance(5 * time.Second)
	_, phase, ok := f.hub.Breathing()
	require.True(t, ok)
	assert.Equal(t, "Hold", phase)

	f.clock.Advance(20 * time.Second)
	s, err := f.hub.StopBreathing()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Cycles)
	assert.Equal(t, character.NewProfile().SoulShards+2, f.hub.Profile().SoulShards)

	_, err = f.hub.StopBreathing()
	assert.ErrorIs(t, err, meditation.ErrNotBreathing)
}

func TestMeditate_PaysXPAndNarrates(t *testing.T) {
	f := newFixture(t, character.Vampire, 0, sourceutil.NewScriptedSource())
	topic, text, err := f.hub.Meditate(context.Background(), "silence")
	require.NoError(t, err)
	assert.Equal(t, "Silence the Static", topic.Title)
	assert.Contains(t, text, "Shadow Scribe")
	assert.Equal(t, character.NewProfile().XP+meditation.GuidedXP, f.hub.Profile().XP)

	_, _, err = f.hub.Meditate(context.Background(), "static")
	assert.ErrorIs(t, err, meditation.ErrUnknownTopic)
}
