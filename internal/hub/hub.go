// Package hub owns one player's state and routes every player action to the
// resolver that handles it. It is the only implementation of the consequence
// target: quest choices, conflict outcomes and brews all write through it.
package hub

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/content"
	"github.com/cory-johannsen/nightcourt/internal/game/achievement"
	"github.com/cory-johannsen/nightcourt/internal/game/alchemy"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/checkpoint"
	"github.com/cory-johannsen/nightcourt/internal/game/combat"
	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/game/glyph"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/meditation"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/game/quest"
	"github.com/cory-johannsen/nightcourt/internal/game/ritual"
	"github.com/cory-johannsen/nightcourt/internal/game/sanctum"
	"github.com/cory-johannsen/nightcourt/internal/game/social"
	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
	"github.com/cory-johannsen/nightcourt/internal/narrative"
	"github.com/cory-johannsen/nightcourt/internal/observability"
)

var (
	// ErrOriginChosen is returned when an origin has already been applied.
	ErrOriginChosen = errors.New("origin already chosen")
	// ErrUnknownOrigin is returned for an origin name not in the content.
	ErrUnknownOrigin = errors.New("unknown origin")
	// ErrUnknownArchetype is returned for an archetype outside the five lineages.
	ErrUnknownArchetype = errors.New("unknown archetype")
)

var archetypes = map[character.Archetype]bool{
	character.Vampire:   true,
	character.Werewolf:  true,
	character.Warlock:   true,
	character.Syndicate: true,
	character.Hunter:    true,
}

// Notice is an event the hub reports outside the call that caused it: an
// enemy turn fired by the turn timer, a lore discovery inside a quest choice,
// an achievement unlocked by a reputation change.
type Notice struct {
	Source string
	Lines  []string
}

// Options configures a Hub.
type Options struct {
	Identity character.Identity
	// BrewCost is the soul shard price of one brew.
	BrewCost int
	// CheckpointCost is the soul shard price of one checkpoint.
	CheckpointCost int
	// OracleCost is the soul shard price of one dossier.
	OracleCost int
	// EnemyTurnDelay paces the enemy turn. Zero runs it inside Act.
	EnemyTurnDelay time.Duration
	Source         dice.Source
	Clock          syndicate.Clock
	Narrator       narrative.Provider
	// Metrics is optional.
	Metrics *observability.Metrics
	// OnNotice receives notices. Optional; it is called without hub locks held.
	OnNotice func(Notice)
	Logger   *zap.Logger
}

// Hub is one player's game. All methods are safe for concurrent use.
//
// Lock order: h.mu guards only the hub's own fields and is never held while a
// resolver runs, because resolvers call back into the consequence target.
type Hub struct {
	mu        sync.Mutex
	identity  character.Identity
	origin    string
	inventory *inventory.Inventory
	encounter *combat.Encounter
	conflict  *social.Conflict
	pending   []*social.Conflict
	trivia    *trivia.Round

	tables       *content.Tables
	ledger       *character.Ledger
	relations    *npc.Relationships
	items        *inventory.Registry
	roster       *npc.Roster
	src          dice.Source
	roller       *dice.Roller
	quests       *quest.Book
	lab          *alchemy.Lab
	dispatcher   *syndicate.Dispatcher
	altar        *ritual.Altar
	sanctum      *sanctum.Sanctum
	achievements *achievement.Tracker
	recorder     *checkpoint.Recorder
	decoder      *glyph.Decoder
	zone         *meditation.Zone
	narrator     narrative.Provider
	metrics      *observability.Metrics
	timer        *combat.TurnTimer
	turnDelay    time.Duration
	oracleCost   int
	onNotice     func(Notice)
	logger       *zap.Logger
}

// New builds a hub for a fresh character over tables.
//
// Precondition: tables, Source, Clock, Narrator and Logger must be non-nil.
// Precondition: OracleCost must be >= 0.
// Postcondition: The player holds the starting profile, sits on the start
// quest, and the first checkpoint baseline is captured.
func New(tables *content.Tables, opts Options) (*Hub, error) {
	if tables == nil || opts.Source == nil || opts.Clock == nil || opts.Narrator == nil || opts.Logger == nil {
		panic("hub: New precondition violated: nil collaborator")
	}
	if opts.OracleCost < 0 {
		panic(fmt.Sprintf("hub: New precondition violated: OracleCost=%d", opts.OracleCost))
	}
	if opts.Identity.Archetype != "" && !archetypes[opts.Identity.Archetype] {
		return nil, fmt.Errorf("archetype %q: %w", opts.Identity.Archetype, ErrUnknownArchetype)
	}
	logger := opts.Logger

	items := inventory.NewRegistry()
	for _, d := range tables.Items {
		if err := items.RegisterItem(d); err != nil {
			return nil, fmt.Errorf("registering items: %w", err)
		}
	}
	roster, err := npc.NewRoster(tables.Enemies)
	if err != nil {
		return nil, fmt.Errorf("building enemy roster: %w", err)
	}
	lab, err := alchemy.NewLab(tables.Alchemy, items, opts.BrewCost, opts.Source, logger.Named("alchemy"))
	if err != nil {
		return nil, fmt.Errorf("building alchemy lab: %w", err)
	}
	quests, err := quest.NewBook(tables.Quests, content.StartQuest, logger.Named("quest"))
	if err != nil {
		return nil, fmt.Errorf("building quest book: %w", err)
	}

	fragments := make([]glyph.Fragment, len(tables.Lore))
	for i, f := range tables.Lore {
		fragments[i] = glyph.Fragment{ID: f.ID, Title: f.Title}
	}

	ledger := character.NewLedger(character.NewProfile(), logger.Named("ledger"))
	roller := dice.NewLoggedRoller(opts.Source, logger.Named("dice"))
	h := &Hub{
		identity:     opts.Identity,
		inventory:    inventory.New(),
		tables:       tables,
		ledger:       ledger,
		relations:    npc.NewRelationships(tables.NPCs),
		items:        items,
		roster:       roster,
		src:          opts.Source,
		roller:       roller,
		quests:       quests,
		lab:          lab,
		dispatcher:   syndicate.NewDispatcher(tables.Syndicate, ledger, opts.Clock, opts.Source, logger.Named("syndicate")),
		altar:        ritual.NewAltar(tables.Rituals, logger.Named("ritual")),
		sanctum:      sanctum.New(tables.Sanctum, logger.Named("sanctum")),
		achievements: achievement.NewTracker(tables.Achievements, logger.Named("achievement")),
		recorder:     checkpoint.NewRecorder(opts.CheckpointCost, tables.NPCs, opts.Clock.Now, logger.Named("checkpoint")),
		decoder:      glyph.NewDecoder(fragments, opts.Source, logger.Named("glyph")),
		zone:         meditation.NewZone(opts.Clock.Now, logger.Named("meditation")),
		narrator:     opts.Narrator,
		metrics:      opts.Metrics,
		timer:        combat.NewTurnTimer(),
		turnDelay:    opts.EnemyTurnDelay,
		oracleCost:   opts.OracleCost,
		onNotice:     opts.OnNotice,
		logger:       logger,
	}
	if h.metrics != nil {
		roller.Observe(h.metrics.ObserveRoll)
		ledger.OnSpendRefused(func(c character.Currency, _ int) {
			h.metrics.SpendRefusals.WithLabelValues(string(c)).Inc()
		})
	}
	h.recorder.Capture(ledger, h.relations)
	logger.Info("hub ready",
		zap.String("name", opts.Identity.Name),
		zap.String("archetype", string(opts.Identity.Archetype)),
	)
	return h, nil
}

// Close stops any pending enemy turn.
func (h *Hub) Close() {
	h.timer.Stop()
}

// Tables returns the content the hub was built over.
func (h *Hub) Tables() *content.Tables { return h.tables }

// Identity returns the player's name, archetype and origin.
func (h *Hub) Identity() character.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.identity
}

// Rename sets the player's display name.
func (h *Hub) Rename(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.identity.Name = name
}

// SetArchetype changes the player's lineage. A change sends the player back
// to the start quest so the archetype line is entered from its first branch.
//
// Postcondition: Returns ErrUnknownArchetype with nothing changed for a name
// outside the five lineages.
func (h *Hub) SetArchetype(a character.Archetype) error {
	if !archetypes[a] {
		return fmt.Errorf("archetype %q: %w", a, ErrUnknownArchetype)
	}
	h.mu.Lock()
	changed := h.identity.Archetype != a
	h.identity.Archetype = a
	h.mu.Unlock()
	if changed {
		h.quests.Reset()
		h.logger.Info("archetype changed", zap.String("archetype", string(a)))
	}
	return nil
}

// ChooseOrigin applies the named origin's bonuses. An origin can be chosen once.
func (h *Hub) ChooseOrigin(name string) (character.Origin, error) {
	o, ok := h.tables.Origin(name)
	if !ok {
		return character.Origin{}, fmt.Errorf("origin %q: %w", name, ErrUnknownOrigin)
	}
	h.mu.Lock()
	if h.origin != "" {
		h.mu.Unlock()
		return character.Origin{}, ErrOriginChosen
	}
	h.origin = o.Name
	h.identity.Origin = o.Name
	h.mu.Unlock()

	character.ApplyOrigin(h.ledger, h.relations, o)
	h.recorder.Capture(h.ledger, h.relations)
	h.logger.Info("origin chosen", zap.String("origin", o.Name))
	return o, nil
}

// Profile returns a copy of the player's current state.
func (h *Hub) Profile() character.Profile { return h.ledger.Snapshot() }

// Relationships returns every NPC's current standing keyed by NPC id.
func (h *Hub) Relationships() map[string]npc.Relationship { return h.relations.Snapshot() }

// NPCs returns the NPC definitions in content order.
func (h *Hub) NPCs() []*npc.Def { return h.tables.NPCs }

// LearnAbility spends xp to raise ab by one rating.
//
// Postcondition: Returns false with nothing spent when the rating is capped
// or xp is short.
func (h *Hub) LearnAbility(ab character.Ability) bool {
	ok := h.ledger.SpendXPOnAbility(ab)
	if ok {
		h.logger.Info("ability learned", zap.String("ability", string(ab)))
	}
	return ok
}

func (h *Hub) notify(source string, lines ...string) {
	if h.onNotice == nil || len(lines) == 0 {
		return
	}
	h.onNotice(Notice{Source: source, Lines: lines})
}

// checkAchievements unlocks whatever the current profile has earned.
func (h *Hub) checkAchievements() {
	fresh := h.achievements.Check(h.ledger.Snapshot())
	for _, d := range fresh {
		if h.metrics != nil {
			h.metrics.Achievements.Inc()
		}
		h.notify("achievement", fmt.Sprintf("Achievement unlocked: %s. %s", d.Name, d.BonusDescription))
	}
}

// Achievements returns every achievement with its unlocked flag.
func (h *Hub) Achievements() []AchievementStatus {
	defs := h.tables.Achievements
	out := make([]AchievementStatus, 0, len(defs))
	for _, d := range defs {
		out = append(out, AchievementStatus{Def: d, Unlocked: h.achievements.IsUnlocked(d.ID)})
	}
	return out
}

// AchievementStatus pairs an achievement with whether it is unlocked.
type AchievementStatus struct {
	*achievement.Def
	Unlocked bool
}
