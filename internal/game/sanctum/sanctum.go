// Package sanctum tracks the player's upgradable lair modules.
package sanctum

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
)

var (
	// ErrUnknownModule is returned for an id with no definition.
	ErrUnknownModule = errors.New("unknown sanctum module")
	// ErrMaxLevel is returned when the module cannot be upgraded further.
	ErrMaxLevel = errors.New("sanctum module at max level")
	// ErrInsufficientFunds is returned when the next upgrade is unaffordable.
	ErrInsufficientFunds = errors.New("insufficient funds for upgrade")
)

// Module is a sanctum module definition.
type Module struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Icon             string `yaml:"icon"`
	StartLevel       int    `yaml:"level"`
	MaxLevel         int    `yaml:"max_level"`
	BonusDescription string `yaml:"bonus_description"`
	// UpgradeCosts[n] is the price of going from level n to n+1.
	UpgradeCosts []character.Cost `yaml:"upgrade_costs"`
}

// Validate checks that every reachable level has a price.
func (m *Module) Validate() error {
	var errs []error
	if m.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if m.StartLevel < 0 || m.StartLevel > m.MaxLevel {
		errs = append(errs, fmt.Errorf("level %d outside [0, %d]", m.StartLevel, m.MaxLevel))
	}
	if m.StartLevel < m.MaxLevel && len(m.UpgradeCosts) < m.MaxLevel {
		errs = append(errs, fmt.Errorf("need %d upgrade costs, have %d", m.MaxLevel, len(m.UpgradeCosts)))
	}
	for i, c := range m.UpgradeCosts {
		if c.Sovereigns < 0 || c.SoulShards < 0 {
			errs = append(errs, fmt.Errorf("upgrade_costs[%d] must be non-negative", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sanctum module %q: %w", m.ID, errors.Join(errs...))
	}
	return nil
}

// ParseModules decodes a YAML list of modules.
func ParseModules(data []byte) ([]*Module, error) {
	var mods []*Module
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&mods); err != nil {
		return nil, fmt.Errorf("parsing sanctum YAML: %w", err)
	}
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("sanctum module %q: duplicate id", m.ID)
		}
		seen[m.ID] = true
	}
	return mods, nil
}

// Payer spends both currencies atomically.
type Payer interface {
	SpendBoth(sovereigns, shards int) bool
}

// State is a module and its current level.
type State struct {
	*Module
	Level int
}

// NextCost returns the price of the next level, or false at max level.
func (s State) NextCost() (character.Cost, bool) {
	if s.Level >= s.MaxLevel {
		return character.Cost{}, false
	}
	return s.UpgradeCosts[s.Level], true
}

// Sanctum holds module levels. All methods are safe for concurrent use.
type Sanctum struct {
	mu     sync.Mutex
	mods   []*Module
	levels map[string]int
	logger *zap.Logger
}

// New creates a Sanctum with every module at its starting level.
//
// Precondition: logger must not be nil; mods must be valid.
func New(mods []*Module, logger *zap.Logger) *Sanctum {
	if logger == nil {
		panic("sanctum: New precondition violated: logger is nil")
	}
	s := &Sanctum{mods: mods, levels: make(map[string]int, len(mods)), logger: logger}
	for _, m := range mods {
		s.levels[m.ID] = m.StartLevel
	}
	return s
}

// Upgrade raises module id one level after paying upgradeCosts[level].
//
// Postcondition: On success the level rises by one and both currencies are
// spent. On error neither the level nor any balance changed.
func (s *Sanctum) Upgrade(p Payer, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stateLocked(id)
	if !ok {
		return State{}, fmt.Errorf("%q: %w", id, ErrUnknownModule)
	}
	cost, ok := st.NextCost()
	if !ok {
		return st, fmt.Errorf("%q: %w", id, ErrMaxLevel)
	}
	if !p.SpendBoth(cost.Sovereigns, cost.SoulShards) {
		return st, fmt.Errorf("%q: %w", id, ErrInsufficientFunds)
	}
	st.Level++
	s.levels[id] = st.Level
	s.logger.Info("sanctum upgraded", zap.String("module", id), zap.Int("level", st.Level))
	return st, nil
}

// Module returns the state of module id.
func (s *Sanctum) Module(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(id)
}

// Modules returns every module state in listed order.
func (s *Sanctum) Modules() []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]State, len(s.mods))
	for i, m := range s.mods {
		out[i] = State{Module: m, Level: s.levels[m.ID]}
	}
	return out
}

func (s *Sanctum) stateLocked(id string) (State, bool) {
	for _, m := range s.mods {
		if m.ID == id {
			return State{Module: m, Level: s.levels[id]}, true
		}
	}
	return State{}, false
}
