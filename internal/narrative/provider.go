// Package narrative supplies flavour text for the hub. Providers never gate
// game outcomes; every method returns usable text even when a backend fails.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
)

// CheckpointInput is the state handed to the oracle when a checkpoint is taken.
type CheckpointInput struct {
	Identity            character.Identity
	Before              character.Profile
	After               character.Profile
	RelationshipChanges []string
}

// Provider produces narrative text.
type Provider interface {
	// Narrative describes an event from a prompt.
	Narrative(ctx context.Context, prompt string) string
	// Whisper delivers a cryptic one-line omen to the player.
	Whisper(ctx context.Context, who character.Identity) string
	// Dossier answers an intelligence query.
	Dossier(ctx context.Context, query string, who character.Identity) string
	// CheckpointSummary assesses the player's progress since the last checkpoint.
	CheckpointSummary(ctx context.Context, in CheckpointInput) string
	// TriviaQuestion poses a playable question from category.
	TriviaQuestion(ctx context.Context, category string) trivia.Question
}

// CombatStartPrompt asks for the moments before a fight with enemy.
func CombatStartPrompt(enemy string) string {
	return fmt.Sprintf("A challenger emerges from the darkness of the Arena: a fierce %s. Describe the tense moments before blood is spilled.", enemy)
}

// CombatWinPrompt asks for the aftermath of defeating enemy.
func CombatWinPrompt(enemy string) string {
	return fmt.Sprintf("With a final, brutal blow, the hunter has vanquished the %s. Describe their savage victory and the bloody echo it leaves in the Arena.", enemy)
}

// CombatLossPrompt asks for the aftermath of falling to enemy.
func CombatLossPrompt(enemy string) string {
	return fmt.Sprintf("The hunter has fallen in battle to the might of the %s. Describe their bitter defeat, but hint that even in death, a lesson is learned in the eternal darkness.", enemy)
}

// CheckpointDataStream renders the before/after block the oracle assesses.
func CheckpointDataStream(in CheckpointInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// CHECKPOINT DATA STREAM //\n")
	fmt.Fprintf(&sb, "Operative: %s (%s)\n\n", in.Identity.Name, in.Identity.Archetype)
	writeState(&sb, "Initial State", in.Before)
	writeState(&sb, "Current State", in.After)
	sb.WriteString("Relationship Matrix Delta:\n")
	if len(in.RelationshipChanges) == 0 {
		sb.WriteString("- No significant changes in faction alignment.\n")
	}
	for _, c := range in.RelationshipChanges {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	return sb.String()
}

func writeState(sb *strings.Builder, title string, p character.Profile) {
	fmt.Fprintf(sb, "%s:\n", title)
	fmt.Fprintf(sb, "- Level: %d\n", p.Level)
	fmt.Fprintf(sb, "- Dominance: %d\n", p.Attributes.Dominance)
	fmt.Fprintf(sb, "- Sovereigns: %d\n", p.Sovereigns)
	fmt.Fprintf(sb, "- Soul Shards: %d\n", p.SoulShards)
	fmt.Fprintf(sb, "- Reputation: %s (%d)\n\n", p.Reputation.Type, p.Reputation.Value)
}
