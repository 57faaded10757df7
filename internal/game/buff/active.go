package buff

// Active is one buff currently applied to the player.
type Active struct {
	Def       Def
	Remaining int
}

// ActiveSet is the ordered list of buffs on the player. Order matters: bonus
// lookups take the first matching effect in list order.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	buffs []Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply adds def with its full duration. A buff with the same ID is replaced,
// never stacked, and the replacement moves to the end of the list.
//
// Postcondition: Has(def.ID) is true and exactly one entry carries def.ID.
func (s *ActiveSet) Apply(def Def) {
	s.Remove(def.ID)
	s.buffs = append(s.buffs, Active{Def: def, Remaining: def.Duration})
}

// Remove deletes the buff with the given ID. Missing IDs are a no-op.
func (s *ActiveSet) Remove(id string) {
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Def.ID != id {
			kept = append(kept, b)
		}
	}
	s.buffs = kept
}

// Tick decrements every buff's remaining duration by one and removes buffs
// whose duration has reached zero or below.
//
// Postcondition: for every id in the returned slice, Has(id) is false;
// every remaining buff has Remaining > 0.
func (s *ActiveSet) Tick() []string {
	var expired []string
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		b.Remaining--
		if b.Remaining <= 0 {
			expired = append(expired, b.Def.ID)
			continue
		}
		kept = append(kept, b)
	}
	s.buffs = kept
	return expired
}

// Has reports whether the buff with id is active.
func (s *ActiveSet) Has(id string) bool {
	for _, b := range s.buffs {
		if b.Def.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of active buffs.
func (s *ActiveSet) Len() int {
	return len(s.buffs)
}

// All returns a copy of the active buffs in list order.
func (s *ActiveSet) All() []Active {
	out := make([]Active, len(s.buffs))
	copy(out, s.buffs)
	return out
}

// Clone returns an independent copy of the set.
func (s *ActiveSet) Clone() *ActiveSet {
	return &ActiveSet{buffs: s.All()}
}
