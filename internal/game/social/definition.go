// Package social resolves multi-round persuasion conflicts against an NPC.
package social

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// DefaultFailureLog is shown when a failed dice check has no failure text.
const DefaultFailureLog = "Your attempt falls flat."

// DiceCheck gates a choice behind an attribute + ability pool roll.
type DiceCheck struct {
	Attribute       character.Attribute `yaml:"attribute"`
	Ability         character.Ability   `yaml:"ability"`
	Difficulty      int                 `yaml:"difficulty"`
	SuccessesNeeded int                 `yaml:"successes_needed"`
}

// Needed returns the successes required, defaulting to one.
func (d DiceCheck) Needed() int {
	if d.SuccessesNeeded <= 0 {
		return 1
	}
	return d.SuccessesNeeded
}

// Choice is one option the player may take once per conflict.
type Choice struct {
	Text         string           `yaml:"text"`
	DiceCheck    *DiceCheck       `yaml:"dice_check,omitempty"`
	NarrativeLog string           `yaml:"narrative_log"`
	SuccessLog   string           `yaml:"success_log"`
	FailureLog   string           `yaml:"failure_log"`
	Consequences consequence.List `yaml:"consequences"`
}

// Outcome is the narrative and effects of a resolved conflict.
type Outcome struct {
	NarrativeLog string           `yaml:"narrative_log"`
	Consequences consequence.List `yaml:"consequences"`
}

// Def is a conflict definition loaded from YAML.
type Def struct {
	ID               int      `yaml:"id"`
	NPC              string   `yaml:"npc_id"`
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	Objective        string   `yaml:"objective"`
	SuccessThreshold int      `yaml:"success_threshold"`
	Choices          []Choice `yaml:"choices"`
	OnSuccess        Outcome  `yaml:"on_success"`
	OnFailure        Outcome  `yaml:"on_failure"`
}

// Validate checks that the definition satisfies its invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff the threshold is >= 1, there is at least one
// choice, every dice check names a known attribute and ability with a
// difficulty in [1, 10], and every consequence is valid.
func (d *Def) Validate() error {
	var errs []error
	if d.NPC == "" {
		errs = append(errs, errors.New("npc_id must not be empty"))
	}
	if d.SuccessThreshold < 1 {
		errs = append(errs, errors.New("success_threshold must be >= 1"))
	}
	if len(d.Choices) == 0 {
		errs = append(errs, errors.New("at least one choice is required"))
	}
	for i, c := range d.Choices {
		if c.DiceCheck != nil {
			dc := c.DiceCheck
			if _, ok := (character.Attributes{}).Get(dc.Attribute); !ok {
				errs = append(errs, fmt.Errorf("choices[%d]: unknown attribute %q", i, dc.Attribute))
			}
			if _, ok := (character.Abilities{}).Get(dc.Ability); !ok {
				errs = append(errs, fmt.Errorf("choices[%d]: unknown ability %q", i, dc.Ability))
			}
			if dc.Difficulty < dice.MinDifficulty || dc.Difficulty > dice.MaxDifficulty {
				errs = append(errs, fmt.Errorf("choices[%d]: difficulty %d outside [1,10]", i, dc.Difficulty))
			}
		}
		if err := consequence.Validate(c.Consequences); err != nil {
			errs = append(errs, fmt.Errorf("choices[%d]: %w", i, err))
		}
	}
	if err := consequence.Validate(d.OnSuccess.Consequences); err != nil {
		errs = append(errs, fmt.Errorf("on_success: %w", err))
	}
	if err := consequence.Validate(d.OnFailure.Consequences); err != nil {
		errs = append(errs, fmt.Errorf("on_failure: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("social conflict %d: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// ParseDefs decodes a YAML list of conflict definitions.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing social conflict YAML: %w", err)
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}
