// Package combat implements the arena duel: a player against one enemy,
// alternating turns until one side reaches zero HP.
package combat

import (
	"errors"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
)

// State is the turn state of an encounter.
type State int

const (
	PlayerTurn State = iota
	EnemyTurn
	Resolved
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case PlayerTurn:
		return "player turn"
	case EnemyTurn:
		return "enemy turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of an encounter.
type Outcome int

const (
	Undecided Outcome = iota
	Win
	Loss
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "undecided"
	}
}

// Action is a player's choice on their turn.
type Action int

const (
	Attack Action = iota
	Defend
)

var (
	// ErrNotPlayerTurn is returned when the player acts outside PlayerTurn.
	ErrNotPlayerTurn = errors.New("not the player's turn")
	// ErrNotEnemyTurn is returned when the enemy turn is run outside EnemyTurn.
	ErrNotEnemyTurn = errors.New("not the enemy's turn")
	// ErrEncounterResolved is returned for any action after the encounter ended.
	ErrEncounterResolved = errors.New("encounter already resolved")
)

// Player is the part of the progression ledger an encounter reads and writes.
type Player interface {
	Snapshot() character.Profile
	BuffBonus(stat buff.Stat) int
	TickBuffs() []string
	SetHealth(v int)
	GrantRewards(xp, sovereigns int) int
}

// Combatant is a read-only view of one side of the duel.
type Combatant struct {
	Name  string
	HP    int
	MaxHP int
}

// Turn reports the result of one resolved action.
type Turn struct {
	Action Action
	// Damage is the damage dealt by the acting side after reductions.
	Damage int
	// Bonus is the attack buff applied to a player strike.
	Bonus int
	// Reduction is raw enemy damage minus final damage.
	Reduction int
	// Expired lists buff IDs that ran out on this turn.
	Expired      []string
	State        State
	Outcome      Outcome
	LevelsGained int
	// Lines is the combat log for this turn.
	Lines []string
}
