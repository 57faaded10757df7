package character

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/buff"
)

const (
	hpPerLevel    = 15
	xpGrowthNum   = 3
	xpGrowthDenom = 2
)

// Ledger owns the player's mutable state. Every read and write goes through
// its methods, which are safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	profile Profile
	buffs   *buff.ActiveSet
	lore    map[string]bool
	loreSeq []string
	refused func(Currency, int)
	logger  *zap.Logger
}

// NewLedger creates a Ledger seeded with p.
//
// Precondition: logger must not be nil.
func NewLedger(p Profile, logger *zap.Logger) *Ledger {
	if logger == nil {
		panic("character: NewLedger precondition violated: logger must not be nil")
	}
	set := buff.NewActiveSet()
	for _, b := range p.Buffs {
		set.Apply(b.Def)
	}
	p.Buffs = nil
	return &Ledger{
		profile: p,
		buffs:   set,
		lore:    make(map[string]bool),
		logger:  logger,
	}
}

// OnSpendRefused registers fn to be called whenever a spend is refused for
// lack of funds. It replaces any earlier callback.
func (l *Ledger) OnSpendRefused(fn func(c Currency, amount int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refused = fn
}

// Snapshot returns a deep copy of the current profile.
func (l *Ledger) Snapshot() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.profile
	p.Buffs = l.buffs.All()
	return p
}

// GrantRewards adds sovereigns and xp, then resolves every pending level-up.
// Each level costs the current requirement, raises the next requirement by
// half (rounded down), and adds 15 max HP. If any level was gained, HP is
// fully restored.
//
// Precondition: xp >= 0 and sovereigns >= 0.
// Postcondition: 0 <= XP < XPToNextLevel. Returns the number of levels gained.
func (l *Ledger) GrantRewards(xp, sovereigns int) int {
	if xp < 0 || sovereigns < 0 {
		panic(fmt.Sprintf("character: GrantRewards precondition violated: xp=%d sovereigns=%d", xp, sovereigns))
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	p := &l.profile
	p.Sovereigns += sovereigns
	p.XP += xp
	gained := 0
	for p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = p.XPToNextLevel * xpGrowthNum / xpGrowthDenom
		p.MaxHP += hpPerLevel
		gained++
	}
	if gained > 0 {
		p.HP = p.MaxHP
		l.logger.Info("level up",
			zap.Int("level", p.Level),
			zap.Int("levels_gained", gained),
			zap.Int("max_hp", p.MaxHP),
		)
	}
	return gained
}

// Spend deducts amount from currency c when the balance covers it.
//
// Precondition: amount >= 0.
// Postcondition: Returns true and deducts exactly amount, or returns false
// and leaves every balance unchanged.
func (l *Ledger) Spend(c Currency, amount int) bool {
	if amount < 0 {
		panic(fmt.Sprintf("character: Spend precondition violated: amount=%d", amount))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spendLocked(c, amount)
}

func (l *Ledger) spendLocked(c Currency, amount int) bool {
	bal := l.balanceField(c)
	if bal == nil {
		panic(fmt.Sprintf("character: unknown currency %q", c))
	}
	if *bal < amount {
		if l.refused != nil {
			l.refused(c, amount)
		}
		return false
	}
	*bal -= amount
	return true
}

// SpendBoth deducts sovereigns and shards together, or neither.
//
// Precondition: sovereigns >= 0 and shards >= 0.
func (l *Ledger) SpendBoth(sovereigns, shards int) bool {
	if sovereigns < 0 || shards < 0 {
		panic(fmt.Sprintf("character: SpendBoth precondition violated: sovereigns=%d shards=%d", sovereigns, shards))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.profile.Sovereigns < sovereigns {
		if l.refused != nil {
			l.refused(Sovereigns, sovereigns)
		}
		return false
	}
	if l.profile.SoulShards < shards {
		if l.refused != nil {
			l.refused(SoulShards, shards)
		}
		return false
	}
	l.profile.Sovereigns -= sovereigns
	l.profile.SoulShards -= shards
	return true
}

// SpendSovereigns is Spend(Sovereigns, amount).
func (l *Ledger) SpendSovereigns(amount int) bool { return l.Spend(Sovereigns, amount) }

// SpendSoulShards is Spend(SoulShards, amount).
func (l *Ledger) SpendSoulShards(amount int) bool { return l.Spend(SoulShards, amount) }

// AddSoulShards adds n soul shards.
//
// Precondition: n >= 0.
func (l *Ledger) AddSoulShards(n int) {
	if n < 0 {
		panic(fmt.Sprintf("character: AddSoulShards precondition violated: n=%d", n))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profile.SoulShards += n
}

// Forfeit removes up to amount from currency c, stopping at zero.
//
// Precondition: amount >= 0.
// Postcondition: Returns the amount actually removed; the balance is never negative.
func (l *Ledger) Forfeit(c Currency, amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("character: Forfeit precondition violated: amount=%d", amount))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balanceField(c)
	if bal == nil {
		panic(fmt.Sprintf("character: unknown currency %q", c))
	}
	taken := min(amount, *bal)
	*bal -= taken
	return taken
}

func (l *Ledger) balanceField(c Currency) *int {
	switch c {
	case Sovereigns:
		return &l.profile.Sovereigns
	case SoulShards:
		return &l.profile.SoulShards
	}
	return nil
}

// AbilityCost returns the xp needed to raise an ability from rating.
func AbilityCost(rating int) int {
	return (rating + 1) * 3
}

// SpendXPOnAbility raises ab by one rating, paying AbilityCost in xp.
//
// Postcondition: Returns false with no mutation when ab is unknown, already
// at MaxAbilityRating, or xp is short.
func (l *Ledger) SpendXPOnAbility(ab Ability) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.profile.Abilities.field(ab)
	if r == nil || *r >= MaxAbilityRating {
		return false
	}
	cost := AbilityCost(*r)
	if l.profile.XP < cost {
		return false
	}
	l.profile.XP -= cost
	*r++
	return true
}

// UpdateAttribute adds delta (possibly negative) to attr.
//
// Postcondition: Returns false with no mutation when attr is unknown.
func (l *Ledger) UpdateAttribute(attr Attribute, delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.profile.Attributes.field(attr)
	if p == nil {
		return false
	}
	*p += delta
	return true
}

// ApplyReputationDelta moves the player's reputation. Gaining the held type,
// or gaining any type from Neutral, accumulates; switching from one non-Neutral
// type to another resets the value to amount.
func (l *Ledger) ApplyReputationDelta(t ReputationType, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.profile.Reputation
	if cur.Type == t || cur.Type == Neutral {
		l.profile.Reputation = Reputation{Type: t, Value: cur.Value + amount}
		return
	}
	l.profile.Reputation = Reputation{Type: t, Value: amount}
}

// SetHealth sets HP, clamped to [0, MaxHP].
func (l *Ledger) SetHealth(v int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profile.HP = max(0, min(l.profile.MaxHP, v))
}

// Heal adds n HP, clamped to MaxHP.
func (l *Ledger) Heal(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profile.HP = max(0, min(l.profile.MaxHP, l.profile.HP+n))
}

// AddBuff applies def, replacing any active buff with the same ID.
func (l *Ledger) AddBuff(def buff.Def) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buffs.Apply(def)
}

// TickBuffs advances every active buff by one tick and returns the IDs that expired.
func (l *Ledger) TickBuffs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffs.Tick()
}

// BuffBonus returns the first matching active buff value for stat.
func (l *Ledger) BuffBonus(stat buff.Stat) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return buff.FirstBonus(l.buffs, stat)
}

// AddLoreFragment records id as collected.
//
// Postcondition: Returns false when id was already collected.
func (l *Ledger) AddLoreFragment(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lore[id] {
		return false
	}
	l.lore[id] = true
	l.loreSeq = append(l.loreSeq, id)
	return true
}

// HasLore reports whether the lore fragment id has been collected.
func (l *Ledger) HasLore(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lore[id]
}

// Lore returns collected lore IDs in collection order.
func (l *Ledger) Lore() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.loreSeq))
	copy(out, l.loreSeq)
	return out
}

// GrantAbility adds delta to ab without an xp cost, clamped to
// [0, MaxAbilityRating].
//
// Postcondition: Returns false with no mutation when ab is unknown.
func (l *Ledger) GrantAbility(ab Ability, delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.profile.Abilities.field(ab)
	if r == nil {
		return false
	}
	*r = max(0, min(MaxAbilityRating, *r+delta))
	return true
}
