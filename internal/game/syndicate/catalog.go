// Package syndicate dispatches hired agents on timed missions and resolves
// them once their completion time has passed.
package syndicate

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
)

// Specialty is the kind of work an agent does and a mission needs.
type Specialty string

const (
	Infiltration Specialty = "Infiltration"
	Combat       Specialty = "Combat"
	Intel        Specialty = "Intel"
)

var validSpecialties = map[Specialty]bool{Infiltration: true, Combat: true, Intel: true}

// AgentDef is an agent as listed for hire.
type AgentDef struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Specialty Specialty `yaml:"specialty"`
	// SuccessModifier is added to a mission's base success chance.
	SuccessModifier float64 `yaml:"success_modifier"`
	Cost            int     `yaml:"cost"`
}

// Rewards is what a successful mission grants.
type Rewards struct {
	XP         int                   `yaml:"xp"`
	Sovereigns int                   `yaml:"sovereigns"`
	SoulShards int                   `yaml:"soul_shards"`
	LoreID     string                `yaml:"lore_id"`
	Reputation *character.Reputation `yaml:"reputation"`
}

// Mission is a contract an agent can be sent on.
type Mission struct {
	ID                string    `yaml:"id"`
	Title             string    `yaml:"title"`
	Description       string    `yaml:"description"`
	DurationSeconds   int       `yaml:"duration_seconds"`
	RequiredSpecialty Specialty `yaml:"required_specialty"`
	BaseSuccessChance float64   `yaml:"base_success_chance"`
	Rewards           Rewards   `yaml:"rewards"`
}

// Duration returns how long the mission takes.
func (m *Mission) Duration() time.Duration {
	return time.Duration(m.DurationSeconds) * time.Second
}

// Catalog is the syndicate content table.
type Catalog struct {
	// StartingAgent is on the roster from the beginning at no cost.
	StartingAgent AgentDef    `yaml:"starting_agent"`
	ForHire       []*AgentDef `yaml:"agents"`
	Missions      []*Mission  `yaml:"missions"`
}

// Validate checks ids are unique and every mission and agent is well formed.
func (c *Catalog) Validate() error {
	var errs []error
	agents := map[string]bool{}
	for _, a := range append([]*AgentDef{&c.StartingAgent}, c.ForHire...) {
		if a.ID == "" || agents[a.ID] {
			errs = append(errs, fmt.Errorf("agent %q: id must be unique and non-empty", a.ID))
		}
		agents[a.ID] = true
		if !validSpecialties[a.Specialty] {
			errs = append(errs, fmt.Errorf("agent %q: unknown specialty %q", a.ID, a.Specialty))
		}
		if a.Cost < 0 {
			errs = append(errs, fmt.Errorf("agent %q: cost must be >= 0", a.ID))
		}
	}
	missions := map[string]bool{}
	for _, m := range c.Missions {
		if m.ID == "" || missions[m.ID] {
			errs = append(errs, fmt.Errorf("mission %q: id must be unique and non-empty", m.ID))
		}
		missions[m.ID] = true
		if !validSpecialties[m.RequiredSpecialty] {
			errs = append(errs, fmt.Errorf("mission %q: unknown specialty %q", m.ID, m.RequiredSpecialty))
		}
		if m.DurationSeconds < 0 {
			errs = append(errs, fmt.Errorf("mission %q: duration must be >= 0", m.ID))
		}
		r := m.Rewards
		if r.XP < 0 || r.Sovereigns < 0 || r.SoulShards < 0 {
			errs = append(errs, fmt.Errorf("mission %q: rewards must be non-negative", m.ID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("syndicate catalog: %w", errors.Join(errs...))
	}
	return nil
}

// ParseCatalog decodes and validates the syndicate table.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing syndicate YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
