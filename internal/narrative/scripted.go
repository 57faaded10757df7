package narrative

import (
	"context"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
)

// Hook names a narrative script may define.
const (
	HookNarrative  = "narrative"
	HookWhisper    = "whisper"
	HookDossier    = "dossier"
	HookCheckpoint = "checkpoint_summary"
	HookTrivia     = "trivia"
)

// HookCaller runs a named Lua hook. *scripting.Manager satisfies it.
type HookCaller interface {
	CallHook(ctx context.Context, name, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Scripted asks Lua hooks for text and falls back when a hook is missing,
// fails, or returns anything but a non-empty string.
type Scripted struct {
	scripts   HookCaller
	namespace string
	fallback  Provider
	logger    *zap.Logger
}

// NewScripted creates a Scripted provider over namespace.
//
// Precondition: scripts, fallback and logger must be non-nil.
func NewScripted(scripts HookCaller, namespace string, fallback Provider, logger *zap.Logger) *Scripted {
	if scripts == nil || fallback == nil || logger == nil {
		panic("narrative: NewScripted precondition violated: nil collaborator")
	}
	return &Scripted{scripts: scripts, namespace: namespace, fallback: fallback, logger: logger}
}

// Narrative calls narrative(prompt).
func (s *Scripted) Narrative(ctx context.Context, prompt string) string {
	if text, ok := s.call(ctx, HookNarrative, lua.LString(prompt)); ok {
		return text
	}
	return s.fallback.Narrative(ctx, prompt)
}

// Whisper calls whisper(name, archetype).
func (s *Scripted) Whisper(ctx context.Context, who character.Identity) string {
	if text, ok := s.call(ctx, HookWhisper, lua.LString(who.Name), lua.LString(who.Archetype)); ok {
		return text
	}
	return s.fallback.Whisper(ctx, who)
}

// Dossier calls dossier(query, name, archetype).
func (s *Scripted) Dossier(ctx context.Context, query string, who character.Identity) string {
	if text, ok := s.call(ctx, HookDossier, lua.LString(query), lua.LString(who.Name), lua.LString(who.Archetype)); ok {
		return text
	}
	return s.fallback.Dossier(ctx, query, who)
}

// CheckpointSummary calls checkpoint_summary(stream, level_delta, changes)
// where stream is the rendered data stream and changes the count of
// relationship shifts.
func (s *Scripted) CheckpointSummary(ctx context.Context, in CheckpointInput) string {
	stream := CheckpointDataStream(in)
	levelDelta := in.After.Level - in.Before.Level
	if text, ok := s.call(ctx, HookCheckpoint,
		lua.LString(stream), lua.LNumber(levelDelta), lua.LNumber(len(in.RelationshipChanges))); ok {
		return text
	}
	return s.fallback.CheckpointSummary(ctx, in)
}

// TriviaQuestion calls trivia(category), which returns a table
// {question = ..., options = {...}, answer = n} with a 1-based answer.
func (s *Scripted) TriviaQuestion(ctx context.Context, category string) trivia.Question {
	ret, err := s.scripts.CallHook(ctx, s.namespace, HookTrivia, lua.LString(category))
	if err != nil {
		s.logger.Warn("narrative hook failed, using fallback", zap.String("hook", HookTrivia), zap.Error(err))
		return s.fallback.TriviaQuestion(ctx, category)
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return s.fallback.TriviaQuestion(ctx, category)
	}
	q := trivia.Question{
		Category: category,
		Text:     lua.LVAsString(tbl.RawGetString("question")),
		Answer:   int(lua.LVAsNumber(tbl.RawGetString("answer"))) - 1,
	}
	if opts, ok := tbl.RawGetString("options").(*lua.LTable); ok {
		for i := 1; i <= opts.Len(); i++ {
			q.Options = append(q.Options, lua.LVAsString(opts.RawGetInt(i)))
		}
	}
	if err := q.Validate(); err != nil {
		s.logger.Warn("trivia hook returned an unplayable question, using fallback", zap.Error(err))
		return s.fallback.TriviaQuestion(ctx, category)
	}
	return q
}

func (s *Scripted) call(ctx context.Context, hook string, args ...lua.LValue) (string, bool) {
	ret, err := s.scripts.CallHook(ctx, s.namespace, hook, args...)
	if err != nil {
		s.logger.Warn("narrative hook failed, using fallback", zap.String("hook", hook), zap.Error(err))
		return "", false
	}
	str, ok := ret.(lua.LString)
	if !ok || str == "" {
		return "", false
	}
	return string(str), true
}
