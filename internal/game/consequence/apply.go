package consequence

import (
	"fmt"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
)

// Target is the game state consequences are applied to.
type Target interface {
	AddCurrency(xp, sovereigns int)
	UpdateAttribute(attr character.Attribute, amount int)
	UpdateRelationship(npcID string, status npc.Status)
	SetQuest(questID int)
	Archetype() character.Archetype
	UpdateReputation(t character.ReputationType, amount int)
	UpdateNPCMood(npcID, mood string)
	StartSocialConflict(conflictID int)
	AddLore(loreID string)
}

// Apply applies list to t in order.
//
// Precondition: t must not be nil.
func Apply(t Target, list []Consequence) {
	if t == nil {
		panic("consequence: Apply precondition violated: target must not be nil")
	}
	for _, c := range list {
		switch c := c.(type) {
		case AddCurrency:
			t.AddCurrency(c.XP, c.Sovereigns)
		case UpdateAttribute:
			t.UpdateAttribute(c.Attribute, c.Amount)
		case UpdateRelationship:
			t.UpdateRelationship(c.NPC, c.Status)
		case SetQuest:
			t.SetQuest(c.QuestID)
		case BranchOnArchetype:
			Apply(t, c.Select(t.Archetype()))
		case UpdateReputation:
			t.UpdateReputation(c.Type, c.Amount)
		case UpdateNPCMood:
			t.UpdateNPCMood(c.NPC, c.Mood)
		case StartSocialConflict:
			t.StartSocialConflict(c.ConflictID)
		case AddLore:
			t.AddLore(c.LoreID)
		default:
			panic(fmt.Sprintf("consequence: unhandled consequence %T", c))
		}
	}
}

// Select returns the branch for archetype a, falling back to Default.
func (b BranchOnArchetype) Select(a character.Archetype) []Consequence {
	if list, ok := b.Branches[a]; ok {
		return list
	}
	return b.Default
}

// Walk calls fn for every consequence in list, descending into every branch
// of a BranchOnArchetype after visiting the branch node itself.
func Walk(list []Consequence, fn func(Consequence)) {
	for _, c := range list {
		fn(c)
		if b, ok := c.(BranchOnArchetype); ok {
			for _, a := range sortedArchetypes(b.Branches) {
				Walk(b.Branches[a], fn)
			}
			Walk(b.Default, fn)
		}
	}
}
