// Package meditation runs the Meditation Zone: a timed breathing exercise
// that pays a soul shard per completed cycle, and guided sessions that pay xp.
package meditation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// One breathing cycle: in, hold, out.
const (
	InhaleFor   = 4 * time.Second
	HoldFor     = 2 * time.Second
	ExhaleFor   = 4 * time.Second
	CycleLength = InhaleFor + HoldFor + ExhaleFor
)

// GuidedXP is paid for each completed guided session.
const GuidedXP = 15

var (
	// ErrAlreadyBreathing is returned when an exercise is already running.
	ErrAlreadyBreathing = errors.New("breathing exercise already running")
	// ErrNotBreathing is returned when stopping with no exercise running.
	ErrNotBreathing = errors.New("no breathing exercise running")
	// ErrUnknownTopic is returned for a guided topic not in Topics.
	ErrUnknownTopic = errors.New("unknown meditation topic")
)

// Topic is a guided meditation.
type Topic struct {
	ID     string
	Title  string
	Prompt string
}

// Topics are the guided sessions on offer.
var Topics = []Topic{
	{ID: "silence", Title: "Silence the Static", Prompt: "Guide me through silencing the digital noise in my mind. Help me find the core signal beneath the static."},
	{ID: "void", Title: "Embrace the Void", Prompt: "Lead me on a journey into the calm, empty void between data packets. A meditation on stillness in a world of constant flow."},
	{ID: "core", Title: "Find the Core", Prompt: "Help me focus on my inner power source, the unshakable core within the fragile shell of chrome and flesh."},
}

// FindTopic matches id or title without case.
func FindTopic(name string) (Topic, bool) {
	name = strings.TrimSpace(name)
	for _, t := range Topics {
		if strings.EqualFold(t.ID, name) || strings.EqualFold(t.Title, name) {
			return t, true
		}
	}
	return Topic{}, false
}

// Phase names the part of the cycle at elapsed.
func Phase(elapsed time.Duration) string {
	at := elapsed % CycleLength
	switch {
	case at < InhaleFor:
		return "Breathe In"
	case at < InhaleFor+HoldFor:
		return "Hold"
	}
	return "Breathe Out"
}

// Meditator receives meditation rewards.
type Meditator interface {
	AddSoulShards(n int)
	GrantRewards(xp, sovereigns int) int
}

// Session is a finished breathing exercise.
type Session struct {
	Elapsed time.Duration
	Cycles  int
}

// Zone tracks one player's breathing exercise.
type Zone struct {
	mu        sync.Mutex
	now       func() time.Time
	started   time.Time
	breathing bool
	logger    *zap.Logger
}

// NewZone creates a Zone reading time from now.
//
// Precondition: now and logger must be non-nil.
func NewZone(now func() time.Time, logger *zap.Logger) *Zone {
	if now == nil || logger == nil {
		panic("meditation: NewZone precondition violated: nil collaborator")
	}
	return &Zone{now: now, logger: logger}
}

// StartBreathing begins the exercise.
func (z *Zone) StartBreathing() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.breathing {
		return ErrAlreadyBreathing
	}
	z.breathing = true
	z.started = z.now()
	z.logger.Debug("breathing started")
	return nil
}

// Breathing returns the time spent in the running exercise.
func (z *Zone) Breathing() (time.Duration, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if !z.breathing {
		return 0, false
	}
	return z.now().Sub(z.started), true
}

// StopBreathing ends the exercise and pays one soul shard per completed cycle.
// A partial cycle pays nothing.
func (z *Zone) StopBreathing(m Meditator) (Session, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if !z.breathing {
		return Session{}, ErrNotBreathing
	}
	z.breathing = false
	elapsed := max(z.now().Sub(z.started), 0)
	s := Session{Elapsed: elapsed, Cycles: int(elapsed / CycleLength)}
	if s.Cycles > 0 {
		m.AddSoulShards(s.Cycles)
	}
	z.logger.Info("breathing finished", zap.Duration("elapsed", elapsed), zap.Int("cycles", s.Cycles))
	return s, nil
}

// Guide completes a guided session on topic and pays GuidedXP.
func (z *Zone) Guide(m Meditator, topic string) (Topic, int, error) {
	t, ok := FindTopic(topic)
	if !ok {
		return Topic{}, 0, ErrUnknownTopic
	}
	levels := m.GrantRewards(GuidedXP, 0)
	z.logger.Info("guided meditation completed", zap.String("topic", t.ID))
	return t, levels, nil
}
