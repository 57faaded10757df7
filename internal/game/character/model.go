// Package character defines the player model and the Ledger, the single owner
// of every mutation to it.
package character

import "github.com/cory-johannsen/nightcourt/internal/game/buff"

// Attribute names one of the five innate attributes.
type Attribute string

const (
	Strength     Attribute = "strength"
	Dexterity    Attribute = "dexterity"
	Dominance    Attribute = "dominance"
	Intelligence Attribute = "intelligence"
	Wits         Attribute = "wits"
)

// AllAttributes lists attributes in display order.
var AllAttributes = []Attribute{Strength, Dexterity, Dominance, Intelligence, Wits}

// Ability names one of the learned abilities.
type Ability string

const (
	Brawl         Ability = "Brawl"
	Intimidation  Ability = "Intimidation"
	Investigation Ability = "Investigation"
	Stealth       Ability = "Stealth"
	Occult        Ability = "Occult"
)

// AllAbilities lists abilities in display order.
var AllAbilities = []Ability{Brawl, Intimidation, Investigation, Stealth, Occult}

// MaxAbilityRating is the terminal ability rating.
const MaxAbilityRating = 5

// Attributes holds the five attribute scores. Scores are uncapped.
type Attributes struct {
	Strength     int
	Dexterity    int
	Dominance    int
	Intelligence int
	Wits         int
}

// Get returns the score for a, and false when a is not a known attribute.
func (a Attributes) Get(attr Attribute) (int, bool) {
	p := a.field(attr)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (a *Attributes) field(attr Attribute) *int {
	switch attr {
	case Strength:
		return &a.Strength
	case Dexterity:
		return &a.Dexterity
	case Dominance:
		return &a.Dominance
	case Intelligence:
		return &a.Intelligence
	case Wits:
		return &a.Wits
	}
	return nil
}

// Abilities holds the five ability ratings, each in [0, MaxAbilityRating].
type Abilities struct {
	Brawl         int
	Intimidation  int
	Investigation int
	Stealth       int
	Occult        int
}

// Get returns the rating for ab, and false when ab is not a known ability.
func (a Abilities) Get(ab Ability) (int, bool) {
	p := a.field(ab)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (a *Abilities) field(ab Ability) *int {
	switch ab {
	case Brawl:
		return &a.Brawl
	case Intimidation:
		return &a.Intimidation
	case Investigation:
		return &a.Investigation
	case Stealth:
		return &a.Stealth
	case Occult:
		return &a.Occult
	}
	return nil
}

// ReputationType is the single alignment axis the player is known for.
type ReputationType string

const (
	Neutral   ReputationType = "Neutral"
	Feared    ReputationType = "Feared"
	Honorable ReputationType = "Honorable"
	Devious   ReputationType = "Devious"
)

// Reputation is the player's alignment and its magnitude.
type Reputation struct {
	Type  ReputationType `yaml:"type"`
	Value int            `yaml:"amount"`
}

// Currency names one of the two spendable balances.
type Currency string

const (
	Sovereigns Currency = "sovereigns"
	SoulShards Currency = "soulShards"
)

// Cost is a price in both currencies.
type Cost struct {
	Sovereigns int `yaml:"sovereigns"`
	SoulShards int `yaml:"soul_shards"`
}

// Covers reports whether the profile can pay c in full.
func (p Profile) Covers(c Cost) bool {
	return p.Sovereigns >= c.Sovereigns && p.SoulShards >= c.SoulShards
}

// Archetype is the player's supernatural lineage.
type Archetype string

const (
	Vampire   Archetype = "Vampire"
	Werewolf  Archetype = "Werewolf"
	Warlock   Archetype = "Warlock"
	Syndicate Archetype = "Syndicate"
	Hunter    Archetype = "Hunter"
)

// Identity names the player character.
type Identity struct {
	Name      string
	Archetype Archetype
	Origin    string
}

// Profile is a point-in-time copy of the player's state.
type Profile struct {
	Level         int
	XP            int
	XPToNextLevel int
	Sovereigns    int
	SoulShards    int
	HP            int
	MaxHP         int
	Attributes    Attributes
	Abilities     Abilities
	Buffs         []buff.Active
	Reputation    Reputation
}

// NewProfile returns the starting profile of a fresh character.
//
// Postcondition: Level == 1 and 0 <= XP < XPToNextLevel and HP == MaxHP.
func NewProfile() Profile {
	return Profile{
		Level:         1,
		XP:            50,
		XPToNextLevel: 100,
		Sovereigns:    100,
		SoulShards:    5,
		HP:            50,
		MaxHP:         50,
		Attributes:    Attributes{Strength: 2, Dexterity: 2, Dominance: 2, Intelligence: 2, Wits: 2},
		Abilities:     Abilities{Brawl: 1, Intimidation: 1},
		Reputation:    Reputation{Type: Neutral},
	}
}

// Balance returns the balance held in c.
func (p Profile) Balance(c Currency) int {
	switch c {
	case Sovereigns:
		return p.Sovereigns
	case SoulShards:
		return p.SoulShards
	}
	return 0
}

// Pool returns the dice pool for an attribute and ability pairing. Unknown
// names contribute nothing.
func (p Profile) Pool(attr Attribute, ab Ability) int {
	a, _ := p.Attributes.Get(attr)
	r, _ := p.Abilities.Get(ab)
	return a + r
}
