// Package consequence defines the closed set of declarative effects that
// quest choices, conflict outcomes, and missions apply to the game state.
package consequence

import (
	"fmt"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
)

// Consequence is one declarative state change. The set of implementations
// is closed; Apply handles every one of them.
type Consequence interface {
	fmt.Stringer
	consequence()
}

// AddCurrency grants xp and sovereigns. A negative Sovereigns amount is
// forfeited, never driving the balance below zero.
type AddCurrency struct {
	XP         int `yaml:"xp"`
	Sovereigns int `yaml:"sovereigns"`
}

// UpdateAttribute adds Amount (possibly negative) to an attribute.
type UpdateAttribute struct {
	Attribute character.Attribute `yaml:"attribute"`
	Amount    int                 `yaml:"amount"`
}

// UpdateRelationship sets the player's standing with an NPC.
type UpdateRelationship struct {
	NPC    string     `yaml:"npc_id"`
	Status npc.Status `yaml:"new_status"`
}

// SetQuest moves the quest book to a new quest.
type SetQuest struct {
	QuestID int `yaml:"quest_id"`
}

// BranchOnArchetype applies the branch matching the player's archetype, or
// Default when none matches.
type BranchOnArchetype struct {
	Branches map[character.Archetype][]Consequence
	Default  []Consequence
}

// UpdateReputation moves the player's reputation.
type UpdateReputation struct {
	Type   character.ReputationType `yaml:"type"`
	Amount int                      `yaml:"amount"`
}

// UpdateNPCMood sets an NPC's mood.
type UpdateNPCMood struct {
	NPC  string `yaml:"npc_id"`
	Mood string `yaml:"new_mood"`
}

// StartSocialConflict opens a social conflict.
type StartSocialConflict struct {
	ConflictID int `yaml:"conflict_id"`
}

// AddLore records a lore fragment as collected.
type AddLore struct {
	LoreID string `yaml:"lore_id"`
}

func (AddCurrency) consequence()         {}
func (UpdateAttribute) consequence()     {}
func (UpdateRelationship) consequence()  {}
func (SetQuest) consequence()            {}
func (BranchOnArchetype) consequence()   {}
func (UpdateReputation) consequence()    {}
func (UpdateNPCMood) consequence()       {}
func (StartSocialConflict) consequence() {}
func (AddLore) consequence()             {}

func (c AddCurrency) String() string {
	return fmt.Sprintf("addCurrency(xp=%d, sovereigns=%d)", c.XP, c.Sovereigns)
}

func (c UpdateAttribute) String() string {
	return fmt.Sprintf("updateAttribute(%s %+d)", c.Attribute, c.Amount)
}

func (c UpdateRelationship) String() string {
	return fmt.Sprintf("updateRelationship(%s -> %s)", c.NPC, c.Status)
}

func (c SetQuest) String() string { return fmt.Sprintf("setQuest(%d)", c.QuestID) }

func (c BranchOnArchetype) String() string {
	return fmt.Sprintf("branchOnArchetype(%d branches)", len(c.Branches))
}

func (c UpdateReputation) String() string {
	return fmt.Sprintf("updateReputation(%s %+d)", c.Type, c.Amount)
}

func (c UpdateNPCMood) String() string {
	return fmt.Sprintf("updateNPCMood(%s -> %s)", c.NPC, c.Mood)
}

func (c StartSocialConflict) String() string {
	return fmt.Sprintf("startSocialConflict(%d)", c.ConflictID)
}

func (c AddLore) String() string { return fmt.Sprintf("addLore(%s)", c.LoreID) }
