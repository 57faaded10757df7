package npc

import (
	"sort"
	"sync"
)

// Relationships tracks the player's standing with every NPC.
// Entries are created on first write and never deleted.
// All methods are safe for concurrent use.
type Relationships struct {
	mu    sync.RWMutex
	byNPC map[string]Relationship
}

// NewRelationships seeds standings from each definition's starting relationship.
func NewRelationships(defs []*Def) *Relationships {
	r := &Relationships{byNPC: make(map[string]Relationship, len(defs))}
	for _, d := range defs {
		r.byNPC[d.ID] = d.Relationship
	}
	return r
}

// SetStatus updates the status for npcID, keeping its mood.
func (r *Relationships) SetStatus(npcID string, s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel := r.byNPC[npcID]
	rel.Status = s
	r.byNPC[npcID] = rel
}

// SetMood updates the mood for npcID, keeping its status.
func (r *Relationships) SetMood(npcID, mood string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel := r.byNPC[npcID]
	rel.Mood = mood
	r.byNPC[npcID] = rel
}

// SetStanding replaces both status and mood for npcID.
func (r *Relationships) SetStanding(npcID, status, mood string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byNPC[npcID] = Relationship{Status: Status(status), Mood: mood}
}

// Get returns the relationship with npcID and whether one is recorded.
func (r *Relationships) Get(npcID string) (Relationship, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rel, ok := r.byNPC[npcID]
	return rel, ok
}

// Snapshot returns a copy of every relationship keyed by NPC id.
func (r *Relationships) Snapshot() map[string]Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Relationship, len(r.byNPC))
	for id, rel := range r.byNPC {
		out[id] = rel
	}
	return out
}

// IDs returns every NPC id with a recorded relationship, sorted.
func (r *Relationships) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byNPC))
	for id := range r.byNPC {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
