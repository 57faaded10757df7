package syndicate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// AgentStatus is the availability of a hired agent.
type AgentStatus string

const (
	Idle      AgentStatus = "Idle"
	OnMission AgentStatus = "On Mission"
)

// consolationRate is the share of mission xp granted on failure.
const consolationRate = 10

// Agent is a hired agent and its current status.
type Agent struct {
	AgentDef
	Status AgentStatus
}

// ActiveMission binds an agent to a mission until CompletionTime.
type ActiveMission struct {
	MissionID      string
	AgentID        string
	CompletionTime time.Time
}

// Resolution reports a mission debrief.
type Resolution struct {
	Success bool
	Rewards string
	// Resolved is false when there was nothing ready to resolve.
	Resolved bool
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Player is the ledger surface missions pay into and hiring spends from.
type Player interface {
	GrantRewards(xp, sovereigns int) int
	AddSoulShards(n int)
	AddLoreFragment(id string) bool
	ApplyReputationDelta(t character.ReputationType, amount int)
	SpendSovereigns(amount int) bool
}

// Dispatcher owns the agent roster and active missions.
// All methods are safe for concurrent use.
type Dispatcher struct {
	mu       sync.Mutex
	missions map[string]*Mission
	order    []*Mission
	forHire  []*AgentDef
	hired    []*Agent
	active   []ActiveMission
	player   Player
	clock    Clock
	src      dice.Source
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher with the catalog's starting agent hired.
//
// Precondition: cat must be valid; every other argument must be non-nil.
func NewDispatcher(cat *Catalog, player Player, clock Clock, src dice.Source, logger *zap.Logger) *Dispatcher {
	if cat == nil || player == nil || clock == nil || src == nil || logger == nil {
		panic("syndicate: NewDispatcher precondition violated: nil collaborator")
	}
	d := &Dispatcher{
		missions: make(map[string]*Mission, len(cat.Missions)),
		order:    cat.Missions,
		forHire:  cat.ForHire,
		player:   player,
		clock:    clock,
		src:      src,
		logger:   logger,
	}
	for _, m := range cat.Missions {
		d.missions[m.ID] = m
	}
	d.hired = append(d.hired, &Agent{AgentDef: cat.StartingAgent, Status: Idle})
	return d
}

// StartMission sends agentID on missionID.
//
// Postcondition: Returns true, records an ActiveMission completing after the
// mission's duration, and marks the agent OnMission; or returns false with no
// mutation when the mission or agent is unknown, the agent is busy, the
// specialty does not match, or the mission is already underway.
func (d *Dispatcher) StartMission(missionID, agentID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.missions[missionID]
	if !ok {
		return false
	}
	a := d.agent(agentID)
	if a == nil || a.Status != Idle || a.Specialty != m.RequiredSpecialty {
		return false
	}
	if d.activeIndex(missionID) >= 0 {
		return false
	}
	am := ActiveMission{
		MissionID:      missionID,
		AgentID:        agentID,
		CompletionTime: d.clock.Now().Add(m.Duration()),
	}
	d.active = append(d.active, am)
	a.Status = OnMission
	d.logger.Info("mission started",
		zap.String("mission", missionID),
		zap.String("agent", agentID),
		zap.Time("completes", am.CompletionTime),
	)
	return true
}

// ResolveMission debriefs missionID once its completion time has passed.
// Success is drawn as u < base chance + agent modifier. Success grants the full
// rewards; failure grants a tenth of the xp, rounded down. Either way the
// agent returns to Idle and the mission is no longer active.
//
// Postcondition: Before completion, returns a zero Resolution and mutates nothing.
func (d *Dispatcher) ResolveMission(missionID string) Resolution {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.activeIndex(missionID)
	if idx < 0 {
		return Resolution{}
	}
	am := d.active[idx]
	if am.CompletionTime.After(d.clock.Now()) {
		return Resolution{}
	}
	m := d.missions[missionID]
	a := d.agent(am.AgentID)

	chance := m.BaseSuccessChance + a.SuccessModifier
	u := d.src.Float64()
	res := Resolution{Success: u < chance, Resolved: true}
	if res.Success {
		res.Rewards = d.grant(m.Rewards)
	} else {
		consolation := m.Rewards.XP / consolationRate
		d.player.GrantRewards(consolation, 0)
		res.Rewards = fmt.Sprintf("+%d XP (Consolation)", consolation)
	}

	d.active = append(d.active[:idx], d.active[idx+1:]...)
	a.Status = Idle
	d.logger.Info("mission resolved",
		zap.String("mission", missionID),
		zap.String("agent", a.ID),
		zap.Float64("chance", chance),
		zap.Float64("draw", u),
		zap.Bool("success", res.Success),
	)
	return res
}

func (d *Dispatcher) grant(r Rewards) string {
	d.player.GrantRewards(r.XP, r.Sovereigns)
	var sb strings.Builder
	fmt.Fprintf(&sb, "+%d XP, +%d Sov.", r.XP, r.Sovereigns)
	if r.SoulShards > 0 {
		d.player.AddSoulShards(r.SoulShards)
		fmt.Fprintf(&sb, ", +%d Shards", r.SoulShards)
	}
	if r.LoreID != "" {
		d.player.AddLoreFragment(r.LoreID)
		sb.WriteString(", +Lore")
	}
	if r.Reputation != nil {
		d.player.ApplyReputationDelta(r.Reputation.Type, r.Reputation.Value)
		sb.WriteString(", +Reputation")
	}
	return sb.String()
}

// Hire pays an agent's cost and adds them to the roster.
//
// Postcondition: Returns false with no mutation when the agent is unknown,
// already hired, or unaffordable.
func (d *Dispatcher) Hire(agentID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.agent(agentID) != nil {
		return false
	}
	var def *AgentDef
	for _, a := range d.forHire {
		if a.ID == agentID {
			def = a
			break
		}
	}
	if def == nil || !d.player.SpendSovereigns(def.Cost) {
		return false
	}
	d.hired = append(d.hired, &Agent{AgentDef: *def, Status: Idle})
	d.logger.Info("agent hired", zap.String("agent", agentID), zap.Int("cost", def.Cost))
	return true
}

// Ready returns active missions whose completion time has passed, ordered by
// completion time.
func (d *Dispatcher) Ready() []ActiveMission {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.clock.Now()
	var out []ActiveMission
	for _, am := range d.active {
		if !am.CompletionTime.After(now) {
			out = append(out, am)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletionTime.Before(out[j].CompletionTime) })
	return out
}

// Active returns every active mission in start order.
func (d *Dispatcher) Active() []ActiveMission {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ActiveMission, len(d.active))
	copy(out, d.active)
	return out
}

// Remaining returns the time left on missionID, or false if it is not active.
// A ready mission reports zero.
func (d *Dispatcher) Remaining(missionID string) (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.activeIndex(missionID)
	if idx < 0 {
		return 0, false
	}
	return max(0, d.active[idx].CompletionTime.Sub(d.clock.Now())), true
}

// Agents returns a copy of the hired roster.
func (d *Dispatcher) Agents() []Agent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Agent, len(d.hired))
	for i, a := range d.hired {
		out[i] = *a
	}
	return out
}

// ForHire returns agents that can still be hired.
func (d *Dispatcher) ForHire() []AgentDef {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []AgentDef
	for _, a := range d.forHire {
		if d.agent(a.ID) == nil {
			out = append(out, *a)
		}
	}
	return out
}

// Missions returns the catalog's missions in listed order.
func (d *Dispatcher) Missions() []*Mission {
	return d.order
}

// Mission returns the mission with id.
func (d *Dispatcher) Mission(id string) (*Mission, bool) {
	m, ok := d.missions[id]
	return m, ok
}

func (d *Dispatcher) agent(id string) *Agent {
	for _, a := range d.hired {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (d *Dispatcher) activeIndex(missionID string) int {
	for i, am := range d.active {
		if am.MissionID == missionID {
			return i
		}
	}
	return -1
}
