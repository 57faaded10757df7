package hub

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/nightcourt/internal/game/social"
)

// ErrNoConflict is returned for a conflict choice with no conflict open.
var ErrNoConflict = errors.New("no social conflict in progress")

// QueuedConflicts returns how many conflicts wait behind the open one.
func (h *Hub) QueuedConflicts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Conflict returns the open social conflict.
func (h *Hub) Conflict() (*social.Conflict, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conflict, h.conflict != nil
}

// ChooseInConflict resolves choice index of the open conflict. Once the
// conflict resolves its outcome consequences have been applied and it is
// closed, opening the oldest conflict queued behind it.
//
// Postcondition: Returns ErrNoConflict, or the conflict's own error with
// nothing changed.
func (h *Hub) ChooseInConflict(index int) (social.ChoiceOutcome, error) {
	h.mu.Lock()
	c := h.conflict
	h.mu.Unlock()
	if c == nil {
		return social.ChoiceOutcome{}, ErrNoConflict
	}

	out, err := c.Choose(index)
	if err != nil {
		return out, err
	}
	if out.Status != social.InProgress {
		h.mu.Lock()
		var next *social.Conflict
		if len(h.pending) > 0 {
			next = h.pending[0]
			h.pending = h.pending[1:]
		}
		h.conflict = next
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.Conflicts.WithLabelValues(out.Status.String()).Inc()
		}
		if next != nil {
			h.notify("social", fmt.Sprintf("A confrontation begins: %s", next.Def().Title))
		}
	}
	h.checkAchievements()
	return out, nil
}
