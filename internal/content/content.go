// Package content loads the YAML tables that define the city: items, NPCs,
// enemies, origins, conflicts, recipes, the syndicate, quests, rituals,
// sanctum modules, achievements, and lore.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/achievement"
	"github.com/cory-johannsen/nightcourt/internal/game/alchemy"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/game/quest"
	"github.com/cory-johannsen/nightcourt/internal/game/ritual"
	"github.com/cory-johannsen/nightcourt/internal/game/sanctum"
	"github.com/cory-johannsen/nightcourt/internal/game/social"
	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
)

// File names inside the content directory.
const (
	ItemsFile        = "items.yaml"
	ShopFile         = "shop.yaml"
	NPCsFile         = "npcs.yaml"
	EnemiesFile      = "enemies.yaml"
	OriginsFile      = "origins.yaml"
	ConflictsFile    = "social_conflicts.yaml"
	AlchemyFile      = "alchemy.yaml"
	SyndicateFile    = "syndicate.yaml"
	QuestsFile       = "quests.yaml"
	RitualsFile      = "rituals.yaml"
	SanctumFile      = "sanctum.yaml"
	AchievementsFile = "achievements.yaml"
	LoreFile         = "lore.yaml"
)

// StartQuest is the shared opening quest every new character begins on.
const StartQuest = 1

// LoreFragment is a readable piece of the city's hidden history.
type LoreFragment struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// ParseLore decodes a YAML list of lore fragments.
func ParseLore(data []byte) ([]LoreFragment, error) {
	var frags []LoreFragment
	if err := decodeStrict(data, &frags); err != nil {
		return nil, fmt.Errorf("parsing lore YAML: %w", err)
	}
	seen := make(map[string]bool, len(frags))
	for i, f := range frags {
		if f.ID == "" || f.Title == "" {
			return nil, fmt.Errorf("lore[%d]: id and title must not be empty", i)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("lore %q: duplicate id", f.ID)
		}
		seen[f.ID] = true
	}
	return frags, nil
}

// Tables is the full, read-only content set.
type Tables struct {
	Items        []*inventory.ItemDef
	Shop         []string
	NPCs         []*npc.Def
	Enemies      []*npc.EnemyTemplate
	Origins      []character.Origin
	Conflicts    []*social.Def
	Alchemy      *alchemy.Book
	Syndicate    *syndicate.Catalog
	Quests       []*quest.Def
	Rituals      []*ritual.Def
	Sanctum      []*sanctum.Module
	Achievements []*achievement.Def
	Lore         []LoreFragment
}

// Load reads every table from dir and checks the references between them.
//
// Precondition: dir must be a readable directory containing every table file.
// Postcondition: Returns fully cross-checked Tables or a non-nil error naming
// the offending file.
func Load(dir string) (*Tables, error) {
	t := &Tables{}
	steps := []struct {
		file  string
		parse func([]byte) error
	}{
		{ItemsFile, func(b []byte) (err error) { t.Items, err = inventory.ParseItems(b); return }},
		{ShopFile, func(b []byte) error { return decodeStrict(b, &t.Shop) }},
		{NPCsFile, func(b []byte) (err error) { t.NPCs, err = npc.ParseDefs(b); return }},
		{EnemiesFile, func(b []byte) (err error) { t.Enemies, err = npc.ParseEnemies(b); return }},
		{OriginsFile, func(b []byte) (err error) { t.Origins, err = character.ParseOrigins(b); return }},
		{ConflictsFile, func(b []byte) (err error) { t.Conflicts, err = social.ParseDefs(b); return }},
		{AlchemyFile, func(b []byte) (err error) { t.Alchemy, err = alchemy.ParseBook(b); return }},
		{SyndicateFile, func(b []byte) (err error) { t.Syndicate, err = syndicate.ParseCatalog(b); return }},
		{QuestsFile, func(b []byte) (err error) { t.Quests, err = quest.ParseDefs(b); return }},
		{RitualsFile, func(b []byte) (err error) { t.Rituals, err = ritual.ParseDefs(b); return }},
		{SanctumFile, func(b []byte) (err error) { t.Sanctum, err = sanctum.ParseModules(b); return }},
		{AchievementsFile, func(b []byte) (err error) { t.Achievements, err = achievement.ParseDefs(b); return }},
		{LoreFile, func(b []byte) (err error) { t.Lore, err = ParseLore(b); return }},
	}
	for _, s := range steps {
		path := filepath.Join(dir, s.file)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := s.parse(data); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every id one table uses is defined by another.
//
// Postcondition: Returns nil iff no reference dangles, or an error joining
// every dangling reference.
func (t *Tables) Validate() error {
	items := make(map[string]bool, len(t.Items))
	for _, it := range t.Items {
		items[it.ID] = true
	}
	npcs := make(map[string]bool, len(t.NPCs))
	for _, n := range t.NPCs {
		npcs[n.ID] = true
	}
	quests := make(map[int]bool, len(t.Quests))
	for _, q := range t.Quests {
		quests[q.ID] = true
	}
	conflicts := make(map[int]bool, len(t.Conflicts))
	for _, c := range t.Conflicts {
		conflicts[c.ID] = true
	}
	lore := make(map[string]bool, len(t.Lore))
	for _, f := range t.Lore {
		lore[f.ID] = true
	}

	var errs []error
	for _, id := range t.Shop {
		if !items[id] {
			errs = append(errs, fmt.Errorf("shop: unknown item %q", id))
		}
	}
	for _, o := range t.Origins {
		for _, r := range o.Relationships {
			if !npcs[r.NPC] {
				errs = append(errs, fmt.Errorf("origin %q: unknown npc %q", o.Name, r.NPC))
			}
		}
	}
	if !quests[StartQuest] {
		errs = append(errs, fmt.Errorf("quests: start quest %d is missing", StartQuest))
	}
	if t.Alchemy != nil {
		for _, id := range []string{t.Alchemy.DudItem, t.Alchemy.UnstableItem} {
			if !items[id] {
				errs = append(errs, fmt.Errorf("alchemy: unknown item %q", id))
			}
		}
		for _, r := range t.Alchemy.Recipes {
			if !r.Special && !items[r.Item] {
				errs = append(errs, fmt.Errorf("alchemy recipe %s: unknown item %q", r.Key, r.Item))
			}
			if r.Special && !quests[r.MutationQuest] {
				errs = append(errs, fmt.Errorf("alchemy recipe %s: unknown quest %d", r.Key, r.MutationQuest))
			}
		}
	}
	if t.Syndicate != nil {
		for _, m := range t.Syndicate.Missions {
			if m.Rewards.LoreID != "" && !lore[m.Rewards.LoreID] {
				errs = append(errs, fmt.Errorf("mission %s: unknown lore %q", m.ID, m.Rewards.LoreID))
			}
		}
	}

	checkList := func(where string, list []consequence.Consequence) {
		consequence.Walk(list, func(c consequence.Consequence) {
			switch c := c.(type) {
			case consequence.UpdateRelationship:
				if !npcs[c.NPC] {
					errs = append(errs, fmt.Errorf("%s: %s names unknown npc", where, c))
				}
			case consequence.UpdateNPCMood:
				if !npcs[c.NPC] {
					errs = append(errs, fmt.Errorf("%s: %s names unknown npc", where, c))
				}
			case consequence.SetQuest:
				if !quests[c.QuestID] {
					errs = append(errs, fmt.Errorf("%s: %s names unknown quest", where, c))
				}
			case consequence.StartSocialConflict:
				if !conflicts[c.ConflictID] {
					errs = append(errs, fmt.Errorf("%s: %s names unknown conflict", where, c))
				}
			case consequence.AddLore:
				if !lore[c.LoreID] {
					errs = append(errs, fmt.Errorf("%s: %s names unknown lore", where, c))
				}
			}
		})
	}
	for _, q := range t.Quests {
		for i, ch := range q.Choices {
			checkList(fmt.Sprintf("quest %d choices[%d]", q.ID, i), ch.Consequences)
		}
	}
	for _, c := range t.Conflicts {
		if !npcs[c.NPC] {
			errs = append(errs, fmt.Errorf("social conflict %d: unknown npc %q", c.ID, c.NPC))
		}
		for i, ch := range c.Choices {
			checkList(fmt.Sprintf("social conflict %d choices[%d]", c.ID, i), ch.Consequences)
		}
		checkList(fmt.Sprintf("social conflict %d on_success", c.ID), c.OnSuccess.Consequences)
		checkList(fmt.Sprintf("social conflict %d on_failure", c.ID), c.OnFailure.Consequences)
	}
	if len(errs) > 0 {
		return fmt.Errorf("content cross-reference check failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoreFragment returns the lore fragment with id.
func (t *Tables) LoreFragment(id string) (LoreFragment, bool) {
	for _, f := range t.Lore {
		if f.ID == id {
			return f, true
		}
	}
	return LoreFragment{}, false
}

// Conflict returns the social conflict definition with id.
func (t *Tables) Conflict(id int) (*social.Def, bool) {
	for _, c := range t.Conflicts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Origin returns the origin named name.
func (t *Tables) Origin(name string) (character.Origin, bool) {
	for _, o := range t.Origins {
		if o.Name == name {
			return o, true
		}
	}
	return character.Origin{}, false
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
