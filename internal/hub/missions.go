package hub

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
)

// Missions returns the mission catalog in listed order.
func (h *Hub) Missions() []*syndicate.Mission { return h.dispatcher.Missions() }

// Mission returns the mission with id.
func (h *Hub) Mission(id string) (*syndicate.Mission, bool) { return h.dispatcher.Mission(id) }

// Agents returns the hired roster.
func (h *Hub) Agents() []syndicate.Agent { return h.dispatcher.Agents() }

// ForHire returns agents not yet hired.
func (h *Hub) ForHire() []syndicate.AgentDef { return h.dispatcher.ForHire() }

// Hire pays for agentID and adds them to the roster.
func (h *Hub) Hire(agentID string) bool { return h.dispatcher.Hire(agentID) }

// StartMission sends agentID on missionID.
func (h *Hub) StartMission(missionID, agentID string) bool {
	return h.dispatcher.StartMission(missionID, agentID)
}

// ActiveMissions returns every mission underway in start order.
func (h *Hub) ActiveMissions() []syndicate.ActiveMission { return h.dispatcher.Active() }

// Ready returns missions awaiting debrief. It satisfies syndicate.ReadySource.
func (h *Hub) Ready() []syndicate.ActiveMission { return h.dispatcher.Ready() }

// Remaining returns the time left on missionID.
func (h *Hub) Remaining(missionID string) (time.Duration, bool) {
	return h.dispatcher.Remaining(missionID)
}

// ResolveMission debriefs missionID once it is ready.
//
// Postcondition: A zero Resolution means the mission was not ready and
// nothing changed.
func (h *Hub) ResolveMission(missionID string) syndicate.Resolution {
	before := h.ledger.Snapshot()
	m, _ := h.dispatcher.Mission(missionID)
	hadLore := m != nil && m.Rewards.LoreID != "" && h.ledger.HasLore(m.Rewards.LoreID)
	res := h.dispatcher.ResolveMission(missionID)
	if !res.Resolved {
		return res
	}
	if h.metrics != nil {
		outcome := "failure"
		if res.Success {
			outcome = "success"
		}
		h.metrics.Missions.WithLabelValues(outcome).Inc()
	}
	after := h.ledger.Snapshot()
	if after.Level > before.Level {
		h.notify("ledger", fmt.Sprintf("You feel your power grow. Level %d reached.", after.Level))
	}
	if res.Success && m.Rewards.LoreID != "" && !hadLore {
		if f, ok := h.tables.LoreFragment(m.Rewards.LoreID); ok {
			h.notify("lore", fmt.Sprintf("Lore discovered: %s", f.Title))
		}
	}
	h.checkAchievements()
	return res
}

// NewWatcher returns a stopped watcher announcing this hub's ready missions.
func (h *Hub) NewWatcher(pollInterval time.Duration) *syndicate.Watcher {
	return syndicate.NewWatcher(h, pollInterval)
}
