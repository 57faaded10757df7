package hub

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/combat"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
)

var (
	// ErrNoEncounter is returned for a combat action with no duel running.
	ErrNoEncounter = errors.New("no encounter in progress")
	// ErrEncounterInProgress is returned when a duel is started mid-duel.
	ErrEncounterInProgress = errors.New("an encounter is already in progress")
)

// StartEncounter pits the player against a random enemy from the roster.
//
// Postcondition: Returns the new encounter at PlayerTurn with its opening
// narration, or ErrEncounterInProgress while an earlier duel is unresolved.
func (h *Hub) StartEncounter(ctx context.Context) (*combat.Encounter, string, error) {
	h.mu.Lock()
	if h.encounter != nil && h.encounter.State() != combat.Resolved {
		h.mu.Unlock()
		return nil, "", ErrEncounterInProgress
	}
	e := combat.NewEncounter(h.ledger, h.roster, h.src, h.logger.Named("combat"))
	h.encounter = e
	h.mu.Unlock()

	intro := h.narrator.Narrative(ctx, narrative.CombatStartPrompt(e.Enemy().Name))
	return e, intro, nil
}

// Encounter returns the current or most recent encounter.
func (h *Hub) Encounter() (*combat.Encounter, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encounter, h.encounter != nil
}

// Act resolves the player's combat action. With no turn delay the enemy's
// reply is resolved at once and returned as the second turn. Otherwise the
// reply fires after the delay and arrives as a "combat" notice.
//
// Postcondition: Returns ErrNoEncounter, or the encounter's own error with
// nothing changed.
func (h *Hub) Act(ctx context.Context, a combat.Action) ([]combat.Turn, error) {
	h.mu.Lock()
	e := h.encounter
	h.mu.Unlock()
	if e == nil {
		return nil, ErrNoEncounter
	}

	t, err := e.Act(a)
	if err != nil {
		return nil, err
	}
	turns := []combat.Turn{t}
	switch t.State {
	case combat.Resolved:
		turns[0] = h.finishEncounter(ctx, e, t)
	case combat.EnemyTurn:
		if h.turnDelay <= 0 {
			et, err := h.enemyTurn(ctx, e)
			if err != nil {
				return turns, err
			}
			turns = append(turns, et)
			break
		}
		h.timer.Arm(h.turnDelay, func() {
			et, err := h.enemyTurn(context.Background(), e)
			if err != nil {
				h.logger.Debug("enemy turn skipped", zap.Error(err))
				return
			}
			h.notify("combat", et.Lines...)
		})
	}
	return turns, nil
}

func (h *Hub) enemyTurn(ctx context.Context, e *combat.Encounter) (combat.Turn, error) {
	t, err := e.EnemyTurn()
	if err != nil {
		return combat.Turn{}, err
	}
	if t.State == combat.Resolved {
		t = h.finishEncounter(ctx, e, t)
	}
	return t, nil
}

// finishEncounter records the outcome and appends the closing narration.
func (h *Hub) finishEncounter(ctx context.Context, e *combat.Encounter, t combat.Turn) combat.Turn {
	enemy := e.Enemy().Name
	if h.metrics != nil {
		h.metrics.Encounters.WithLabelValues(t.Outcome.String()).Inc()
	}
	var prompt string
	if t.Outcome == combat.Win {
		prompt = narrative.CombatWinPrompt(enemy)
	} else {
		prompt = narrative.CombatLossPrompt(enemy)
	}
	t.Lines = append(t.Lines, h.narrator.Narrative(ctx, prompt))
	if t.LevelsGained > 0 {
		t.Lines = append(t.Lines, fmt.Sprintf("You feel your power grow. Level %d reached.", h.ledger.Snapshot().Level))
	}
	h.checkAchievements()
	return t
}
