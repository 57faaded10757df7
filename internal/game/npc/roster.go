package npc

import "fmt"

// Chooser returns a uniform integer in [0, n).
type Chooser interface {
	Intn(n int) int
}

// Roster is the fixed set of arena enemies.
type Roster struct {
	templates []*EnemyTemplate
}

// NewRoster creates a Roster from tmpls.
//
// Precondition: tmpls must be non-empty.
func NewRoster(tmpls []*EnemyTemplate) (*Roster, error) {
	if len(tmpls) == 0 {
		return nil, fmt.Errorf("npc.NewRoster: roster must not be empty")
	}
	cp := make([]*EnemyTemplate, len(tmpls))
	copy(cp, tmpls)
	return &Roster{templates: cp}, nil
}

// Pick returns a uniformly chosen template.
func (r *Roster) Pick(c Chooser) *EnemyTemplate {
	return r.templates[c.Intn(len(r.templates))]
}

// All returns the templates in roster order.
func (r *Roster) All() []*EnemyTemplate {
	out := make([]*EnemyTemplate, len(r.templates))
	copy(out, r.templates)
	return out
}
