package social

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// Status is the progress of a conflict.
type Status int

const (
	InProgress Status = iota
	Succeeded
	Failed
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case Succeeded:
		return "success"
	case Failed:
		return "failure"
	default:
		return "in progress"
	}
}

var (
	// ErrChoiceUsed is returned when a choice is taken a second time.
	ErrChoiceUsed = errors.New("choice already used")
	// ErrUnknownChoice is returned for an out-of-range choice index.
	ErrUnknownChoice = errors.New("unknown choice")
	// ErrConflictResolved is returned for any choice after resolution.
	ErrConflictResolved = errors.New("conflict already resolved")
)

// Profiler exposes the player state a dice check reads.
type Profiler interface {
	Snapshot() character.Profile
}

// Roller rolls a d10 pool.
type Roller interface {
	RollPool(poolSize, difficulty int) dice.PoolResult
}

// ChoiceOutcome reports the resolution of one choice.
type ChoiceOutcome struct {
	Index int
	// Roll is nil for plain choices.
	Roll    *dice.PoolResult
	Success bool
	// Progress is the number of successful choices so far.
	Progress int
	Status   Status
	// Resolution is the conflict's closing narrative once Status is terminal.
	Resolution string
	Lines      []string
}

// Conflict is one running persuasion attempt.
// All methods are safe for concurrent use.
type Conflict struct {
	mu       sync.Mutex
	def      *Def
	player   Profiler
	roller   Roller
	target   consequence.Target
	logger   *zap.Logger
	progress int
	used     map[int]bool
	status   Status
	log      []string
}

// NewConflict starts def against the player.
//
// Precondition: every argument must be non-nil.
// Postcondition: Status() == InProgress and no choice is used.
func NewConflict(def *Def, player Profiler, roller Roller, target consequence.Target, logger *zap.Logger) *Conflict {
	if def == nil || player == nil || roller == nil || target == nil || logger == nil {
		panic("social: NewConflict precondition violated: nil collaborator")
	}
	return &Conflict{
		def:    def,
		player: player,
		roller: roller,
		target: target,
		logger: logger,
		used:   make(map[int]bool, len(def.Choices)),
	}
}

// Choose resolves the choice at index. A plain choice always succeeds. A
// dice-gated choice succeeds when the roll meets its successes needed. A
// successful choice advances progress and applies its consequences. After
// every choice the conflict succeeds once progress reaches the threshold, or
// fails once every choice has been used.
//
// Postcondition: On error nothing is mutated.
func (c *Conflict) Choose(index int) (ChoiceOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != InProgress {
		return ChoiceOutcome{}, ErrConflictResolved
	}
	if index < 0 || index >= len(c.def.Choices) {
		return ChoiceOutcome{}, fmt.Errorf("choice %d: %w", index, ErrUnknownChoice)
	}
	if c.used[index] {
		return ChoiceOutcome{}, fmt.Errorf("choice %d: %w", index, ErrChoiceUsed)
	}
	c.used[index] = true
	choice := c.def.Choices[index]
	out := ChoiceOutcome{Index: index}

	if dc := choice.DiceCheck; dc != nil {
		p := c.player.Snapshot()
		attr, _ := p.Attributes.Get(dc.Attribute)
		rating, _ := p.Abilities.Get(dc.Ability)
		out.Lines = append(out.Lines, fmt.Sprintf("Rolling %d dice (%s %d + %s %d) vs difficulty %d...",
			attr+rating, dc.Attribute, attr, dc.Ability, rating, dc.Difficulty))
		roll := c.roller.RollPool(attr+rating, dc.Difficulty)
		out.Roll = &roll
		out.Success = roll.Successes >= dc.Needed()
		if out.Success {
			out.Lines = append(out.Lines, "[SUCCESS] "+firstNonEmpty(choice.SuccessLog, choice.NarrativeLog))
		} else {
			out.Lines = append(out.Lines, "[FAILURE] "+firstNonEmpty(choice.FailureLog, DefaultFailureLog))
		}
	} else {
		out.Success = true
		out.Lines = append(out.Lines, choice.NarrativeLog)
	}

	if out.Success {
		c.progress++
		consequence.Apply(c.target, choice.Consequences)
	}

	switch {
	case c.progress >= c.def.SuccessThreshold:
		c.resolve(Succeeded, c.def.OnSuccess, &out)
	case len(c.used) == len(c.def.Choices):
		c.resolve(Failed, c.def.OnFailure, &out)
	}

	out.Progress = c.progress
	out.Status = c.status
	c.log = append(c.log, out.Lines...)
	c.logger.Debug("conflict choice",
		zap.Int("conflict", c.def.ID),
		zap.Int("choice", index),
		zap.Bool("success", out.Success),
		zap.Int("progress", c.progress),
	)
	return out, nil
}

func (c *Conflict) resolve(s Status, o Outcome, out *ChoiceOutcome) {
	c.status = s
	out.Resolution = o.NarrativeLog
	out.Lines = append(out.Lines, "OUTCOME: "+o.NarrativeLog)
	consequence.Apply(c.target, o.Consequences)
	c.logger.Info("conflict resolved",
		zap.Int("conflict", c.def.ID),
		zap.String("npc", c.def.NPC),
		zap.Stringer("status", s),
		zap.Int("progress", c.progress),
	)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Def returns the conflict definition.
func (c *Conflict) Def() *Def {
	return c.def
}

// Status returns the conflict's current status.
func (c *Conflict) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Progress returns the number of successful choices.
func (c *Conflict) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Used reports whether the choice at index has been taken.
func (c *Conflict) Used(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used[index]
}

// Log returns every conflict log line so far.
func (c *Conflict) Log() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.log))
	copy(out, c.log)
	return out
}
