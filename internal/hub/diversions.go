package hub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/glyph"
	"github.com/cory-johannsen/nightcourt/internal/game/meditation"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
)

// ErrNoTrivia is returned for a hint or answer with no question open.
var ErrNoTrivia = errors.New("no trivia question open")

// StartTrivia poses a fresh question from category, or from a random
// category when it is empty. The new question replaces any open one.
func (h *Hub) StartTrivia(ctx context.Context, category string) (*trivia.Round, error) {
	if category == "" {
		category = trivia.PickCategory(h.src)
	} else {
		c, ok := trivia.Category(category)
		if !ok {
			return nil, fmt.Errorf("category %q: %w", category, trivia.ErrUnknownCategory)
		}
		category = c
	}
	r, err := trivia.NewRound(h.narrator.TriviaQuestion(ctx, category), h.logger.Named("trivia"))
	if err != nil {
		return nil, fmt.Errorf("posing %s question: %w", category, err)
	}
	h.mu.Lock()
	h.trivia = r
	h.mu.Unlock()
	return r, nil
}

// Trivia returns the current question.
func (h *Hub) Trivia() (*trivia.Round, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.trivia, h.trivia != nil
}

// TriviaHint pays for a hint on the current question and returns the option
// it struck.
func (h *Hub) TriviaHint() (int, error) {
	r, ok := h.Trivia()
	if !ok {
		return -1, ErrNoTrivia
	}
	return r.Hint(h.ledger, h.src)
}

// AnswerTrivia answers the current question with option index.
func (h *Hub) AnswerTrivia(index int) (trivia.Result, error) {
	r, ok := h.Trivia()
	if !ok {
		return trivia.Result{}, ErrNoTrivia
	}
	res, err := r.Answer(h.ledger, index)
	if err != nil {
		return res, err
	}
	result := "wrong"
	if res.Correct {
		result = "correct"
	}
	h.countDiversion("trivia", result)
	if res.LevelsGained > 0 {
		h.notify("ledger", fmt.Sprintf("You feel your power grow. Level %d reached.", h.ledger.Snapshot().Level))
	}
	h.checkAchievements()
	return res, nil
}

// DecodeGlyph decodes one glyph and pays its find.
func (h *Hub) DecodeGlyph() glyph.Result {
	res := h.decoder.Decode(h)
	h.countDiversion("glyph", res.Kind.String())
	h.checkAchievements()
	return res
}

// HasLore reports whether loreID has been collected.
func (h *Hub) HasLore(loreID string) bool { return h.ledger.HasLore(loreID) }

// AddSoulShards grants n soul shards.
func (h *Hub) AddSoulShards(n int) { h.ledger.AddSoulShards(n) }

// StartBreathing begins the breathing exercise.
func (h *Hub) StartBreathing() error { return h.zone.StartBreathing() }

// Breathing returns the time spent in the running breathing exercise and the
// phase the player is in.
func (h *Hub) Breathing() (time.Duration, string, bool) {
	elapsed, ok := h.zone.Breathing()
	if !ok {
		return 0, "", false
	}
	return elapsed, meditation.Phase(elapsed), true
}

// StopBreathing ends the exercise, paying a soul shard per completed cycle.
func (h *Hub) StopBreathing() (meditation.Session, error) {
	s, err := h.zone.StopBreathing(h.ledger)
	if err != nil {
		return s, err
	}
	h.countDiversion("breathing", "completed")
	h.checkAchievements()
	return s, nil
}

// Meditate runs a guided session on topic and returns its narration.
func (h *Hub) Meditate(ctx context.Context, topic string) (meditation.Topic, string, error) {
	t, levels, err := h.zone.Guide(h.ledger, topic)
	if err != nil {
		return t, "", fmt.Errorf("topic %q: %w", topic, err)
	}
	h.countDiversion("meditation", t.ID)
	if levels > 0 {
		h.notify("ledger", fmt.Sprintf("You feel your power grow. Level %d reached.", h.ledger.Snapshot().Level))
	}
	h.checkAchievements()
	h.logger.Debug("meditation narrated", zap.String("topic", t.ID))
	return t, h.narrator.Narrative(ctx, t.Prompt), nil
}

func (h *Hub) countDiversion(game, result string) {
	if h.metrics != nil {
		h.metrics.Diversions.WithLabelValues(game, result).Inc()
	}
}
