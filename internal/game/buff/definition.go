// Package buff provides timed stat modifiers: their static definitions and the
// ordered set of buffs active on the player.
package buff

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stat is the combat or social statistic a buff effect modifies.
type Stat string

const (
	StatAttack    Stat = "attack"
	StatDefense   Stat = "defense"
	StatDominance Stat = "dominance"
)

var validStats = map[Stat]bool{
	StatAttack:    true,
	StatDefense:   true,
	StatDominance: true,
}

// Effect is a single flat stat modifier.
type Effect struct {
	Stat  Stat `yaml:"stat"`
	Value int  `yaml:"value"`
}

// Def is the static definition of a buff, loaded from YAML.
type Def struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Effects     []Effect `yaml:"effects"`
	// Duration is measured in ticks: combat turns or conflict rounds.
	Duration int `yaml:"duration"`
}

// Validate checks that the Def satisfies its invariants.
//
// Postcondition: returns nil iff ID is set, every effect names a known stat,
// and Duration >= 0.
func (d Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	for i, e := range d.Effects {
		if !validStats[e.Stat] {
			errs = append(errs, fmt.Errorf("effects[%d]: unknown stat %q", i, e.Stat))
		}
	}
	if d.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must be >= 0, got %d", d.Duration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("buff %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Parse decodes a single buff definition, rejecting unknown fields.
func Parse(data []byte) (Def, error) {
	var def Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Def{}, fmt.Errorf("parsing buff: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Def{}, err
	}
	return def, nil
}
