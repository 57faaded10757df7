package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
)

const promptExcerptRunes = 80

// Canned lines used when no backend produces text.
const (
	WhisperFallback    = "The whispers fade into static. The connection is lost."
	AssessmentFallback = ">> ASSESSMENT CORRUPTED... The data stream is unstable. The future is... static."
)

// Offline is a Provider that needs no backend. Its output is deterministic.
type Offline struct{}

// Narrative echoes the start of the prompt back as the scribe's silence.
func (Offline) Narrative(_ context.Context, prompt string) string {
	excerpt := prompt
	if r := []rune(prompt); len(r) > promptExcerptRunes {
		excerpt = string(r[:promptExcerptRunes])
	}
	return fmt.Sprintf("The Shadow Scribe observes your action: \"%s...\" Their chronicle remains silent for now.", excerpt)
}

// Whisper returns the static omen.
func (Offline) Whisper(context.Context, character.Identity) string {
	return WhisperFallback
}

// Dossier reports that the oracle is unreachable.
func (Offline) Dossier(_ context.Context, query string, _ character.Identity) string {
	return fmt.Sprintf(">> CONNECTION INTERRUPTED...\n>> SOURCE UNVERIFIABLE...\n>> DATA CORRUPTED: The Oracle has fallen silent for query: \"%s\".", query)
}

// CheckpointSummary renders the data stream followed by a rule-based assessment.
func (Offline) CheckpointSummary(_ context.Context, in CheckpointInput) string {
	var sb strings.Builder
	sb.WriteString(CheckpointDataStream(in))
	sb.WriteString("\n// ORACLE'S ASSESSMENT //\n")
	switch {
	case in.After.Level > in.Before.Level:
		sb.WriteString("Trajectory: ascending. The operative's power compounds with every cycle.")
	case in.After.Sovereigns > in.Before.Sovereigns:
		sb.WriteString("Trajectory: accumulating. Wealth gathers; strength has yet to follow.")
	default:
		sb.WriteString("Trajectory: static. Power unspent is power forfeited.")
	}
	if len(in.RelationshipChanges) > 0 {
		fmt.Fprintf(&sb, " %d alliance shifts recorded. The city is recalculating.", len(in.RelationshipChanges))
	}
	return sb.String()
}

// TriviaQuestion returns a placeholder question whose first option is right.
func (Offline) TriviaQuestion(_ context.Context, category string) trivia.Question {
	return trivia.Question{
		Category: category,
		Text:     fmt.Sprintf("Which historical event is related to %s?", category),
		Options:  []string{"Option A", "Option B", "Option C", "Option D"},
		Answer:   0,
	}
}
