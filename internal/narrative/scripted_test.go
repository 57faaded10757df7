package narrative_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
	"github.com/cory-johannsen/nightcourt/internal/scripting"
)

func scriptedWith(t *testing.T, src string) *narrative.Scripted {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "narrative.lua"), []byte(src), 0644))
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop()), 0, zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load("narrative", dir))
	return narrative.NewScripted(mgr, "narrative", narrative.Offline{}, zap.NewNop())
}

func TestScripted_UsesHooks(t *testing.T) {
	p := scriptedWith(t, `
		function whisper(name, archetype) return name .. " the " .. archetype .. ", the moon remembers." end
		function dossier(query) return "SUBJECT: " .. query end
		function checkpoint_summary(stream, level_delta, changes)
			return "levels " .. level_delta .. ", shifts " .. changes
		end
	`)
	ctx := context.Background()

	assert.Equal(t, "The Unseen the Vampire, the moon remembers.", p.Whisper(ctx, operative))
	assert.Equal(t, "SUBJECT: Helena", p.Dossier(ctx, "Helena", operative))

	before := character.NewProfile()
	after := before
	after.Level = 3
	got := p.CheckpointSummary(ctx, narrative.CheckpointInput{Before: before, After: after})
	assert.Equal(t, "levels 2, shifts 0", got)
}

func TestScripted_MissingHookFallsBack(t *testing.T) {
	p := scriptedWith(t, `-- nothing defined`)
	assert.Equal(t, narrative.WhisperFallback, p.Whisper(context.Background(), operative))
}

func TestScripted_EmptyOrNonStringFallsBack(t *testing.T) {
	p := scriptedWith(t, `
		function whisper() return "" end
		function narrative() return 42 end
	`)
	ctx := context.Background()
	assert.Equal(t, narrative.WhisperFallback, p.Whisper(ctx, operative))
	assert.Equal(t, narrative.Offline{}.Narrative(ctx, "x"), p.Narrative(ctx, "x"))
}

type failingCaller struct{}

func (failingCaller) CallHook(context.Context, string, string, ...lua.LValue) (lua.LValue, error) {
	return lua.LNil, errors.New("boom")
}

func TestScripted_HookErrorLogsAndFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := narrative.NewScripted(failingCaller{}, "narrative", narrative.Offline{}, zap.New(core))

	got := p.Whisper(context.Background(), operative)

	assert.Equal(t, narrative.WhisperFallback, got)
	assert.Equal(t, 1, logs.FilterMessage("narrative hook failed, using fallback").Len())
}

func TestScripted_TriviaHookBuildsQuestion(t *testing.T) {
	p := scriptedWith(t, `
		function trivia(category)
			return { question = "Who rules the " .. category .. " court?", options = { "Jones", "Helena", "Marcus" }, answer = 2 }
		end
	`)
	q := p.TriviaQuestion(context.Background(), "History")
	assert.Equal(t, "Who rules the History court?", q.Text)
	assert.Equal(t, []string{"Jones", "Helena", "Marcus"}, q.Options)
	assert.Equal(t, 1, q.Answer)
	assert.Equal(t, "History", q.Category)
}

func TestScripted_TriviaUnplayableFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "narrative.lua"), []byte(`
		function trivia() return { question = "Only one way out?", options = { "Yes" }, answer = 1 } end
	`), 0644))
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop()), 0, zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load("narrative", dir))
	p := narrative.NewScripted(mgr, "narrative", narrative.Offline{}, zap.New(core))

	q := p.TriviaQuestion(context.Background(), "Science")
	assert.Equal(t, narrative.Offline{}.TriviaQuestion(context.Background(), "Science"), q)
	assert.Equal(t, 1, logs.FilterMessage("trivia hook returned an unplayable question, using fallback").Len())
}

func TestScripted_MissingTriviaHookFallsBack(t *testing.T) {
	p := scriptedWith(t, `-- nothing defined`)
	q := p.TriviaQuestion(context.Background(), "Geography")
	assert.Equal(t, "Option A", q.Options[q.Answer])
}
