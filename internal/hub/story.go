package hub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/content"
	"github.com/cory-johannsen/nightcourt/internal/game/checkpoint"
	"github.com/cory-johannsen/nightcourt/internal/game/quest"
)

var (
	// ErrEmptyQuery is returned for a dossier query with no text.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrInsufficientShards is returned when the oracle's price cannot be paid.
	ErrInsufficientShards = errors.New("insufficient soul shards")
)

// CurrentQuest returns the quest the player is on, or false when the story
// has moved to an id with no definition.
func (h *Hub) CurrentQuest() (*quest.Def, bool) { return h.quests.Current() }

// ChooseQuest takes choice index of the current quest and applies its
// consequences.
func (h *Hub) ChooseQuest(index int) (quest.Choice, error) {
	c, err := h.quests.Choose(index, h)
	if err != nil {
		return c, err
	}
	h.checkAchievements()
	return c, nil
}

// Lore returns the collected lore fragments in discovery order. Fragments
// without a content entry are listed by id.
func (h *Hub) Lore() []content.LoreFragment {
	ids := h.ledger.Lore()
	out := make([]content.LoreFragment, 0, len(ids))
	for _, id := range ids {
		f, ok := h.tables.LoreFragment(id)
		if !ok {
			f = content.LoreFragment{ID: id, Title: id}
		}
		out = append(out, f)
	}
	return out
}

// Checkpoint charges the checkpoint cost and reports what changed since the
// previous one.
func (h *Hub) Checkpoint(ctx context.Context) (checkpoint.Report, error) {
	return h.recorder.Create(ctx, h.Identity(), h.ledger, h.relations, h.narrator)
}

// CheckpointCost returns the soul shard price of a checkpoint.
func (h *Hub) CheckpointCost() int { return h.recorder.Cost() }

// Whisper returns a cryptic omen for the player.
func (h *Hub) Whisper(ctx context.Context) string {
	return h.narrator.Whisper(ctx, h.Identity())
}

// OracleCost returns the soul shard price of one dossier.
func (h *Hub) OracleCost() int { return h.oracleCost }

// Dossier charges the oracle cost and answers an intelligence query.
//
// Postcondition: Returns ErrEmptyQuery or ErrInsufficientShards with nothing
// spent and the oracle never consulted.
func (h *Hub) Dossier(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if !h.ledger.SpendSoulShards(h.oracleCost) {
		return "", fmt.Errorf("the oracle costs %d: %w", h.oracleCost, ErrInsufficientShards)
	}
	h.logger.Info("dossier requested", zap.String("query", query), zap.Int("cost", h.oracleCost))
	return h.narrator.Dossier(ctx, query, h.Identity()), nil
}
