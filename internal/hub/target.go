package hub

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/game/social"
)

var _ consequence.Target = (*Hub)(nil)

// AddCurrency grants xp and sovereigns. A negative sovereign amount is a
// debt and is forfeited from the balance, floored at zero. Negative xp is
// ignored.
func (h *Hub) AddCurrency(xp, sovereigns int) {
	if xp < 0 {
		h.logger.Warn("negative xp consequence ignored", zap.Int("xp", xp))
		xp = 0
	}
	grant := max(sovereigns, 0)
	levels := 0
	if xp > 0 || grant > 0 {
		levels = h.ledger.GrantRewards(xp, grant)
	}
	if sovereigns < 0 {
		taken := h.ledger.Forfeit(character.Sovereigns, -sovereigns)
		h.logger.Info("sovereigns forfeited", zap.Int("requested", -sovereigns), zap.Int("taken", taken))
	}
	if levels > 0 {
		h.notify("ledger", fmt.Sprintf("You feel your power grow. Level %d reached.", h.ledger.Snapshot().Level))
	}
}

// UpdateAttribute adds amount to attr.
func (h *Hub) UpdateAttribute(attr character.Attribute, amount int) {
	if !h.ledger.UpdateAttribute(attr, amount) {
		h.logger.Warn("unknown attribute in consequence", zap.String("attribute", string(attr)))
	}
}

// UpdateRelationship sets an NPC's status, keeping their mood.
func (h *Hub) UpdateRelationship(npcID string, status npc.Status) {
	h.relations.SetStatus(npcID, status)
}

// SetQuest moves the quest book to questID.
func (h *Hub) SetQuest(questID int) {
	h.quests.SetQuest(questID)
}

// Archetype returns the player's lineage for archetype branches.
func (h *Hub) Archetype() character.Archetype {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.identity.Archetype
}

// UpdateReputation applies a reputation change and unlocks any achievement
// it earns.
func (h *Hub) UpdateReputation(t character.ReputationType, amount int) {
	h.ledger.ApplyReputationDelta(t, amount)
	h.checkAchievements()
}

// UpdateNPCMood sets an NPC's mood, keeping their status.
func (h *Hub) UpdateNPCMood(npcID, mood string) {
	h.relations.SetMood(npcID, mood)
}

// StartSocialConflict opens conflictID. When a conflict is already open the
// new one joins the back of the queue; queued conflicts open one at a time,
// in the order they were started, as each open one resolves. An unknown id
// is ignored.
func (h *Hub) StartSocialConflict(conflictID int) {
	def, ok := h.tables.Conflict(conflictID)
	if !ok {
		h.logger.Warn("unknown social conflict", zap.Int("conflict", conflictID))
		return
	}
	c := social.NewConflict(def, h.ledger, h.roller, h, h.logger.Named("social"))
	h.mu.Lock()
	if h.conflict != nil {
		h.pending = append(h.pending, c)
		queued := len(h.pending)
		h.mu.Unlock()
		h.logger.Info("social conflict queued", zap.Int("conflict", conflictID), zap.Int("queued", queued))
		return
	}
	h.conflict = c
	h.mu.Unlock()
	h.logger.Info("social conflict started", zap.Int("conflict", conflictID), zap.String("npc", def.NPC))
	h.notify("social", fmt.Sprintf("A confrontation begins: %s", def.Title))
}

// AddLore collects loreID. Collecting it again has no effect.
func (h *Hub) AddLore(loreID string) {
	if !h.ledger.AddLoreFragment(loreID) {
		return
	}
	title := loreID
	if f, ok := h.tables.LoreFragment(loreID); ok {
		title = f.Title
	}
	h.notify("lore", fmt.Sprintf("Lore discovered: %s", title))
}

// SpendSoulShards spends n shards for a brew.
func (h *Hub) SpendSoulShards(n int) bool {
	return h.ledger.SpendSoulShards(n)
}

// AddItem puts a new copy of def in the inventory.
func (h *Hub) AddItem(def *inventory.ItemDef) inventory.Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inventory.Add(def)
}
