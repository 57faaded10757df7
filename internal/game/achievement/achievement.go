// Package achievement unlocks one-time honours when the player's reputation
// crosses a threshold.
package achievement

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
)

// Def is an achievement definition. It unlocks when the reputation type
// matches Reputation and its value is at least Threshold.
type Def struct {
	ID               string                   `yaml:"id"`
	Name             string                   `yaml:"name"`
	Icon             string                   `yaml:"icon"`
	Description      string                   `yaml:"description"`
	Reputation       character.ReputationType `yaml:"reputation"`
	Threshold        int                      `yaml:"threshold"`
	BonusDescription string                   `yaml:"bonus_description"`
}

// Met reports whether p satisfies the unlock condition.
func (d *Def) Met(p character.Profile) bool {
	return p.Reputation.Type == d.Reputation && p.Reputation.Value >= d.Threshold
}

// ParseDefs decodes a YAML list of achievements.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing achievement YAML: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	var errs []error
	for _, d := range defs {
		if d.ID == "" || seen[d.ID] {
			errs = append(errs, fmt.Errorf("achievement %q: id must be unique and non-empty", d.ID))
		}
		seen[d.ID] = true
		if d.Reputation == "" || d.Threshold < 1 {
			errs = append(errs, fmt.Errorf("achievement %q: needs a reputation and a threshold >= 1", d.ID))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return defs, nil
}

// Tracker remembers which achievements are unlocked.
// All methods are safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	defs     []*Def
	unlocked map[string]bool
	logger   *zap.Logger
}

// NewTracker creates a Tracker with nothing unlocked.
//
// Precondition: logger must not be nil.
func NewTracker(defs []*Def, logger *zap.Logger) *Tracker {
	if logger == nil {
		panic("achievement: NewTracker precondition violated: logger is nil")
	}
	return &Tracker{defs: defs, unlocked: make(map[string]bool), logger: logger}
}

// Check unlocks every achievement p now satisfies.
//
// Postcondition: Returns only achievements unlocked by this call, in listed
// order. An unlocked achievement stays unlocked when the condition later fails.
func (t *Tracker) Check(p character.Profile) []*Def {
	t.mu.Lock()
	defer t.mu.Unlock()
	var fresh []*Def
	for _, d := range t.defs {
		if t.unlocked[d.ID] || !d.Met(p) {
			continue
		}
		t.unlocked[d.ID] = true
		fresh = append(fresh, d)
		t.logger.Info("achievement unlocked", zap.String("achievement", d.ID))
	}
	return fresh
}

// Unlocked returns every unlocked achievement in listed order.
func (t *Tracker) Unlocked() []*Def {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Def
	for _, d := range t.defs {
		if t.unlocked[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// IsUnlocked reports whether id has been unlocked.
func (t *Tracker) IsUnlocked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked[id]
}
