// Package npc provides the city's named characters, the player's standing
// with each of them, and the roster of arena enemies.
package npc

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Status is the player's standing with an NPC.
type Status string

const (
	Loyal   Status = "Loyal"
	Neutral Status = "Neutral"
	Rival   Status = "Rival"
	Enemy   Status = "Enemy"
)

var validStatuses = map[Status]bool{Loyal: true, Neutral: true, Rival: true, Enemy: true}

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	return validStatuses[s]
}

// Relationship is the standing and free-form mood an NPC holds toward the player.
type Relationship struct {
	Status Status `yaml:"status"`
	Mood   string `yaml:"mood"`
}

// Def is a named NPC loaded from YAML.
type Def struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Title        string       `yaml:"title"`
	Icon         string       `yaml:"icon"`
	Description  string       `yaml:"description"`
	Relationship Relationship `yaml:"relationship"`
}

// Validate checks that the definition satisfies basic invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty and the starting
// status is known.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("npc: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("npc %q: name must not be empty", d.ID)
	}
	if !ValidStatus(d.Relationship.Status) {
		return fmt.Errorf("npc %q: unknown status %q", d.ID, d.Relationship.Status)
	}
	return nil
}

// Reward is what the player earns for defeating an enemy.
type Reward struct {
	XP         int `yaml:"xp"`
	Sovereigns int `yaml:"sovereigns"`
}

// EnemyTemplate defines an arena opponent.
type EnemyTemplate struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
	MaxHP  int    `yaml:"max_hp"`
	Attack int    `yaml:"attack"`
	Reward Reward `yaml:"reward"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// Attack >= 0, and rewards are non-negative.
func (t *EnemyTemplate) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.MaxHP < 1 {
		errs = append(errs, errors.New("max_hp must be >= 1"))
	}
	if t.Attack < 0 {
		errs = append(errs, errors.New("attack must be >= 0"))
	}
	if t.Reward.XP < 0 || t.Reward.Sovereigns < 0 {
		errs = append(errs, errors.New("reward must be non-negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("enemy template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// ParseDefs decodes a YAML list of NPC definitions.
//
// Postcondition: Returns validated definitions with unique IDs, or an error.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	if err := decodeStrict(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing npc YAML: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("npc %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
	}
	return defs, nil
}

// ParseEnemies decodes a YAML list of enemy templates.
//
// Postcondition: Returns validated templates, or an error.
func ParseEnemies(data []byte) ([]*EnemyTemplate, error) {
	var tmpls []*EnemyTemplate
	if err := decodeStrict(data, &tmpls); err != nil {
		return nil, fmt.Errorf("parsing enemy YAML: %w", err)
	}
	for _, t := range tmpls {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return tmpls, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
