// Package quest tracks the player's current story quest and applies the
// consequences of the choice they make.
package quest

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
)

// Choice is one branch of a quest.
type Choice struct {
	Text         string           `yaml:"text"`
	NarrativeLog string           `yaml:"narrative_log"`
	Consequences consequence.List `yaml:"consequences"`
}

// Def is a quest definition loaded from YAML.
type Def struct {
	ID int `yaml:"id"`
	// Archetype marks a quest as part of one archetype's line. Empty means shared.
	Archetype   character.Archetype `yaml:"archetype,omitempty"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Choices     []Choice            `yaml:"choices"`
}

// Terminal reports whether the quest has no choices left to make.
func (d *Def) Terminal() bool { return len(d.Choices) == 0 }

// Validate checks the quest's own fields and consequences.
func (d *Def) Validate() error {
	var errs []error
	if d.ID <= 0 {
		errs = append(errs, errors.New("id must be > 0"))
	}
	if d.Title == "" {
		errs = append(errs, errors.New("title must not be empty"))
	}
	for i, c := range d.Choices {
		if c.Text == "" {
			errs = append(errs, fmt.Errorf("choices[%d]: text must not be empty", i))
		}
		if err := consequence.Validate(c.Consequences); err != nil {
			errs = append(errs, fmt.Errorf("choices[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("quest %d: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// ParseDefs decodes a YAML list of quests and checks that every setQuest
// consequence, including those inside archetype branches, names a quest in
// the same list.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing quest YAML: %w", err)
	}
	ids := make(map[int]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if ids[d.ID] {
			return nil, fmt.Errorf("quest %d: duplicate id", d.ID)
		}
		ids[d.ID] = true
	}
	var errs []error
	for _, d := range defs {
		for i, c := range d.Choices {
			consequence.Walk(c.Consequences, func(con consequence.Consequence) {
				if sq, ok := con.(consequence.SetQuest); ok && !ids[sq.QuestID] {
					errs = append(errs, fmt.Errorf("quest %d choices[%d]: setQuest targets unknown quest %d", d.ID, i, sq.QuestID))
				}
			})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return defs, nil
}
