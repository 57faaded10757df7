// Package checkpoint reports how the player has changed since the previous
// checkpoint and asks the oracle to assess it.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
)

var (
	// ErrNoBaseline is returned when no baseline has been captured yet.
	ErrNoBaseline = errors.New("checkpoint baseline not captured")
	// ErrInsufficientShards is returned when the checkpoint cost cannot be paid.
	ErrInsufficientShards = errors.New("insufficient soul shards for checkpoint")
)

// Ledger is the progression surface a checkpoint reads and charges.
type Ledger interface {
	Snapshot() character.Profile
	SpendSoulShards(amount int) bool
}

// Relations exposes the NPC relationship map.
type Relations interface {
	Snapshot() map[string]npc.Relationship
}

// Oracle assesses a checkpoint.
type Oracle interface {
	CheckpointSummary(ctx context.Context, in narrative.CheckpointInput) string
}

// Report is the result of one checkpoint.
type Report struct {
	Timestamp       time.Time
	LevelDelta      int
	SovereignsDelta int
	// SoulShardsDelta excludes the checkpoint's own cost.
	SoulShardsDelta     int
	DominanceDelta      int
	RelationshipChanges []string
	OracleAssessment    string
}

type baseline struct {
	profile       character.Profile
	relationships map[string]npc.Relationship
}

// Recorder captures baselines and produces reports.
// All methods are safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	cost   int
	npcs   []*npc.Def
	base   *baseline
	now    func() time.Time
	logger *zap.Logger
}

// NewRecorder creates a Recorder charging cost shards per checkpoint. npcs
// fixes the order and display names of relationship changes.
//
// Precondition: cost >= 0; now and logger must be non-nil.
func NewRecorder(cost int, npcs []*npc.Def, now func() time.Time, logger *zap.Logger) *Recorder {
	if cost < 0 || now == nil || logger == nil {
		panic("checkpoint: NewRecorder precondition violated")
	}
	return &Recorder{cost: cost, npcs: npcs, now: now, logger: logger}
}

// Cost returns the shard price of a checkpoint.
func (r *Recorder) Cost() int { return r.cost }

// Capture records the current state as the baseline.
func (r *Recorder) Capture(l Ledger, rel Relations) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = &baseline{profile: l.Snapshot(), relationships: rel.Snapshot()}
}

// Create charges the checkpoint cost, reports the deltas against the
// baseline, asks the oracle for an assessment, and makes the current state
// the new baseline.
//
// Postcondition: On error nothing was charged and the baseline is unchanged.
func (r *Recorder) Create(ctx context.Context, who character.Identity, l Ledger, rel Relations, oracle Oracle) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.base == nil {
		return Report{}, ErrNoBaseline
	}
	if !l.SpendSoulShards(r.cost) {
		return Report{}, fmt.Errorf("checkpoint costs %d: %w", r.cost, ErrInsufficientShards)
	}

	before := r.base.profile
	after := l.Snapshot()
	relNow := rel.Snapshot()
	changes := r.relationshipChanges(r.base.relationships, relNow)

	rep := Report{
		Timestamp:           r.now(),
		LevelDelta:          after.Level - before.Level,
		SovereignsDelta:     after.Sovereigns - before.Sovereigns,
		SoulShardsDelta:     after.SoulShards - before.SoulShards + r.cost,
		DominanceDelta:      after.Attributes.Dominance - before.Attributes.Dominance,
		RelationshipChanges: changes,
	}
	rep.OracleAssessment = oracle.CheckpointSummary(ctx, narrative.CheckpointInput{
		Identity:            who,
		Before:              before,
		After:               after,
		RelationshipChanges: changes,
	})
	r.base = &baseline{profile: after, relationships: relNow}
	r.logger.Info("checkpoint created",
		zap.Int("level_delta", rep.LevelDelta),
		zap.Int("sovereigns_delta", rep.SovereignsDelta),
		zap.Int("relationship_changes", len(changes)),
	)
	return rep, nil
}

func (r *Recorder) relationshipChanges(before, after map[string]npc.Relationship) []string {
	var out []string
	for _, d := range r.npcs {
		old, ok := before[d.ID]
		if !ok {
			continue
		}
		cur := after[d.ID]
		if old.Status != cur.Status {
			out = append(out, fmt.Sprintf("%s: %s -> %s", d.Name, old.Status, cur.Status))
		}
	}
	return out
}
