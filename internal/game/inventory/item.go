// Package inventory holds item definitions and the player's carried items.
package inventory

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind constants for ItemDef.Kind.
const (
	KindPotion = "Potion"
	KindMisc   = "Misc"
)

var validKinds = map[string]bool{
	KindPotion: true,
	KindMisc:   true,
}

// EffectHeal restores HP when the item is used.
const EffectHeal = "heal"

// Effect is the optional on-use effect of an item.
type Effect struct {
	Type   string `yaml:"type"`
	Amount int    `yaml:"amount"`
}

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Cost        int     `yaml:"cost"`
	Icon        string  `yaml:"icon"`
	Kind        string  `yaml:"kind"`
	Effect      *Effect `yaml:"effect,omitempty"`
}

// Consumable reports whether using the item consumes it.
func (d *ItemDef) Consumable() bool {
	return d.Effect != nil && d.Effect.Type == EffectHeal
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of Potion, Misc; got %q", d.Kind))
	}
	if d.Cost < 0 {
		errs = append(errs, errors.New("Cost must be >= 0"))
	}
	if d.Effect != nil {
		if d.Effect.Type != EffectHeal {
			errs = append(errs, fmt.Errorf("Effect.Type must be heal; got %q", d.Effect.Type))
		}
		if d.Effect.Amount <= 0 {
			errs = append(errs, errors.New("Effect.Amount must be > 0"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// ParseItems decodes a YAML list of item definitions and validates each.
//
// Postcondition: returns all valid ItemDefs or the first encountered error.
func ParseItems(data []byte) ([]*ItemDef, error) {
	var defs []*ItemDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("ParseItems: %w", err)
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("ParseItems: %w", err)
		}
	}
	return defs, nil
}
