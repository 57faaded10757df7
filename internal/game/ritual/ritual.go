// Package ritual lets the player trade both currencies for a timed buff.
package ritual

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
)

var (
	// ErrUnknownRitual is returned for an id with no definition.
	ErrUnknownRitual = errors.New("unknown ritual")
	// ErrInsufficientFunds is returned when the player cannot pay both currencies.
	ErrInsufficientFunds = errors.New("insufficient funds for ritual")
)

// Def is a ritual definition loaded from YAML.
type Def struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Icon        string         `yaml:"icon"`
	Cost        character.Cost `yaml:"cost"`
	Buff        buff.Def       `yaml:"buff"`
}

// Validate checks the ritual and its buff.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Cost.Sovereigns < 0 || d.Cost.SoulShards < 0 {
		errs = append(errs, errors.New("cost must be non-negative"))
	}
	if d.Buff.Duration < 1 {
		errs = append(errs, errors.New("buff duration must be >= 1"))
	}
	if err := d.Buff.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("ritual %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// ParseDefs decodes a YAML list of rituals.
func ParseDefs(data []byte) ([]*Def, error) {
	var defs []*Def
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("parsing ritual YAML: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("ritual %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
	}
	return defs, nil
}

// Celebrant pays for a ritual and receives its buff.
type Celebrant interface {
	SpendBoth(sovereigns, shards int) bool
	AddBuff(def buff.Def)
}

// Altar performs rituals from a fixed list.
type Altar struct {
	defs   []*Def
	byID   map[string]*Def
	logger *zap.Logger
}

// NewAltar creates an Altar over defs.
//
// Precondition: logger must not be nil.
func NewAltar(defs []*Def, logger *zap.Logger) *Altar {
	if logger == nil {
		panic("ritual: NewAltar precondition violated: logger is nil")
	}
	a := &Altar{defs: defs, byID: make(map[string]*Def, len(defs)), logger: logger}
	for _, d := range defs {
		a.byID[d.ID] = d
	}
	return a
}

// Rituals returns every ritual in listed order.
func (a *Altar) Rituals() []*Def { return a.defs }

// Ritual returns the ritual with id.
func (a *Altar) Ritual(id string) (*Def, bool) {
	d, ok := a.byID[id]
	return d, ok
}

// Perform charges the ritual's cost and grants its buff. Performing a ritual
// whose buff is already active refreshes it.
//
// Postcondition: Either both currencies are spent and the buff is added, or
// an error is returned and nothing changed.
func (a *Altar) Perform(c Celebrant, id string) (*Def, error) {
	d, ok := a.byID[id]
	if !ok {
		return nil, fmt.Errorf("ritual %q: %w", id, ErrUnknownRitual)
	}
	if !c.SpendBoth(d.Cost.Sovereigns, d.Cost.SoulShards) {
		return nil, fmt.Errorf("ritual %q: %w", id, ErrInsufficientFunds)
	}
	c.AddBuff(d.Buff)
	a.logger.Info("ritual performed", zap.String("ritual", id), zap.String("buff", d.Buff.ID))
	return d, nil
}
