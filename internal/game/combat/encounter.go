package combat

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
)

const (
	strengthMultiplier = 2
	playerDamageSpread = 5
	enemyDamageSpread  = 3
)

// Encounter is one duel. The player's HP is tracked locally while the fight
// lasts and written back to the ledger when it resolves.
// All methods are safe for concurrent use.
type Encounter struct {
	mu        sync.Mutex
	player    Player
	src       dice.Source
	logger    *zap.Logger
	enemy     *npc.EnemyTemplate
	enemyHP   int
	playerHP  int
	playerMax int
	defending bool
	state     State
	outcome   Outcome
	log       []string
}

// NewEncounter starts a duel against an enemy chosen uniformly from roster,
// snapshotting the player's current HP.
//
// Precondition: player, roster, src, and logger must not be nil.
// Postcondition: State() == PlayerTurn.
func NewEncounter(player Player, roster *npc.Roster, src dice.Source, logger *zap.Logger) *Encounter {
	if player == nil || roster == nil || src == nil || logger == nil {
		panic("combat: NewEncounter precondition violated: nil collaborator")
	}
	enemy := roster.Pick(src)
	p := player.Snapshot()
	e := &Encounter{
		player:    player,
		src:       src,
		logger:    logger,
		enemy:     enemy,
		enemyHP:   enemy.MaxHP,
		playerHP:  p.HP,
		playerMax: p.MaxHP,
		state:     PlayerTurn,
	}
	e.log = append(e.log, fmt.Sprintf("A rival %s emerges from the shadows!", enemy.Name))
	logger.Info("encounter started", zap.String("enemy", enemy.ID), zap.Int("player_hp", p.HP))
	return e
}

// Act resolves the player's action.
//
// Postcondition: On success the state is EnemyTurn, or Resolved with Win.
// Returns ErrEncounterResolved or ErrNotPlayerTurn with no mutation when the
// player may not act.
func (e *Encounter) Act(a Action) (Turn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Resolved {
		return Turn{}, ErrEncounterResolved
	}
	if e.state != PlayerTurn {
		return Turn{}, ErrNotPlayerTurn
	}
	switch a {
	case Attack:
		return e.attack(), nil
	case Defend:
		return e.defend(), nil
	default:
		panic(fmt.Sprintf("combat: unknown action %d", a))
	}
}

func (e *Encounter) attack() Turn {
	p := e.player.Snapshot()
	bonus := e.player.BuffBonus(buff.StatAttack)
	damage := p.Attributes.Strength*strengthMultiplier + bonus + e.src.Intn(playerDamageSpread)
	e.enemyHP = max(0, e.enemyHP-damage)

	t := Turn{Action: Attack, Damage: damage, Bonus: bonus}
	line := fmt.Sprintf("You strike the %s for %d damage.", e.enemy.Name, damage)
	if bonus > 0 {
		line += fmt.Sprintf(" (+%d from buffs!)", bonus)
	}
	t.Lines = append(t.Lines, line)
	t.Expired = e.player.TickBuffs()

	if e.enemyHP == 0 {
		e.state = Resolved
		e.outcome = Win
		t.LevelsGained = e.player.GrantRewards(e.enemy.Reward.XP, e.enemy.Reward.Sovereigns)
		e.player.SetHealth(e.playerHP)
		t.Lines = append(t.Lines,
			fmt.Sprintf("You defeated the %s!", e.enemy.Name),
			fmt.Sprintf("You gained %d XP and %d Sovereigns.", e.enemy.Reward.XP, e.enemy.Reward.Sovereigns),
		)
		e.logger.Info("encounter resolved",
			zap.String("enemy", e.enemy.ID),
			zap.Stringer("outcome", e.outcome),
			zap.Int("player_hp", e.playerHP),
		)
	} else {
		e.state = EnemyTurn
	}
	return e.finish(t)
}

func (e *Encounter) defend() Turn {
	e.defending = true
	t := Turn{Action: Defend, Lines: []string{"You brace for impact, ready for the attack."}}
	t.Expired = e.player.TickBuffs()
	e.state = EnemyTurn
	return e.finish(t)
}

// EnemyTurn resolves the enemy's automatic strike. Raw damage is halved
// (rounded down) when the player defended, then reduced by the first defense
// buff, and never drops below zero.
//
// Postcondition: On success the state is PlayerTurn, or Resolved with Loss.
func (e *Encounter) EnemyTurn() (Turn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Resolved {
		return Turn{}, ErrEncounterResolved
	}
	if e.state != EnemyTurn {
		return Turn{}, ErrNotEnemyTurn
	}

	raw := e.enemy.Attack + e.src.Intn(enemyDamageSpread)
	final := raw
	if e.defending {
		final /= 2
	}
	final = max(0, final-e.player.BuffBonus(buff.StatDefense))
	e.defending = false
	e.playerHP = max(0, e.playerHP-final)

	t := Turn{Action: Attack, Damage: final, Reduction: raw - final}
	line := fmt.Sprintf("%s attacks you for %d damage.", e.enemy.Name, final)
	if t.Reduction > 0 {
		line += fmt.Sprintf(" (Reduced by %d!)", t.Reduction)
	}
	t.Lines = append(t.Lines, line)

	if e.playerHP == 0 {
		e.state = Resolved
		e.outcome = Loss
		e.player.SetHealth(0)
		t.Lines = append(t.Lines, "You have been defeated!")
		e.logger.Info("encounter resolved",
			zap.String("enemy", e.enemy.ID),
			zap.Stringer("outcome", e.outcome),
		)
	} else {
		e.state = PlayerTurn
	}
	return e.finish(t), nil
}

func (e *Encounter) finish(t Turn) Turn {
	t.State = e.state
	t.Outcome = e.outcome
	e.log = append(e.log, t.Lines...)
	e.logger.Debug("combat turn",
		zap.Int("damage", t.Damage),
		zap.Int("enemy_hp", e.enemyHP),
		zap.Int("player_hp", e.playerHP),
		zap.Stringer("state", e.state),
	)
	return t
}

// State returns the current turn state.
func (e *Encounter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Outcome returns the terminal outcome, or Undecided while the duel continues.
func (e *Encounter) Outcome() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}

// Defending reports whether the player braced this turn.
func (e *Encounter) Defending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defending
}

// Enemy returns the enemy's current standing.
func (e *Encounter) Enemy() Combatant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Combatant{Name: e.enemy.Name, HP: e.enemyHP, MaxHP: e.enemy.MaxHP}
}

// EnemyTemplate returns the definition the enemy was built from.
func (e *Encounter) EnemyTemplate() *npc.EnemyTemplate {
	return e.enemy
}

// PlayerStanding returns the player's in-fight standing.
func (e *Encounter) PlayerStanding() Combatant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Combatant{Name: "You", HP: e.playerHP, MaxHP: e.playerMax}
}

// Log returns every combat log line so far.
func (e *Encounter) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.log))
	copy(out, e.log)
	return out
}
