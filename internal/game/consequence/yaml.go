package consequence

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
)

// Type tags used in YAML content.
const (
	TypeAddCurrency         = "addCurrency"
	TypeUpdateAttribute     = "updateAttribute"
	TypeUpdateRelationship  = "updateRelationship"
	TypeSetQuest            = "setQuest"
	TypeBranchOnArchetype   = "branchOnArchetype"
	TypeUpdateReputation    = "updateReputation"
	TypeUpdateNPCMood       = "updateNPCMood"
	TypeStartSocialConflict = "startSocialConflict"
	TypeAddLore             = "addLore"
)

const defaultBranch = "default"

// List is a sequence of consequences that decodes from the tagged YAML form
//
//	- type: addCurrency
//	  payload: {xp: 50, sovereigns: 20}
type List []Consequence

type tagged struct {
	Type    string    `yaml:"type"`
	Payload yaml.Node `yaml:"payload"`
}

// UnmarshalYAML decodes each tagged entry into its typed variant.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	var raw []tagged
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(List, 0, len(raw))
	for i, r := range raw {
		c, err := decodeOne(r)
		if err != nil {
			return fmt.Errorf("consequence[%d] (line %d): %w", i, r.Payload.Line, err)
		}
		out = append(out, c)
	}
	*l = out
	return nil
}

func decodeOne(r tagged) (Consequence, error) {
	switch r.Type {
	case TypeAddCurrency:
		return decodeAs[AddCurrency](&r.Payload)
	case TypeUpdateAttribute:
		return decodeAs[UpdateAttribute](&r.Payload)
	case TypeUpdateRelationship:
		return decodeAs[UpdateRelationship](&r.Payload)
	case TypeSetQuest:
		return decodeAs[SetQuest](&r.Payload)
	case TypeUpdateReputation:
		return decodeAs[UpdateReputation](&r.Payload)
	case TypeUpdateNPCMood:
		return decodeAs[UpdateNPCMood](&r.Payload)
	case TypeStartSocialConflict:
		return decodeAs[StartSocialConflict](&r.Payload)
	case TypeAddLore:
		return decodeAs[AddLore](&r.Payload)
	case TypeBranchOnArchetype:
		var branches map[string]List
		if err := r.Payload.Decode(&branches); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Type, err)
		}
		b := BranchOnArchetype{Branches: make(map[character.Archetype][]Consequence, len(branches))}
		for key, list := range branches {
			if key == defaultBranch {
				b.Default = list
				continue
			}
			b.Branches[character.Archetype(key)] = list
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown consequence type %q", r.Type)
	}
}

func decodeAs[T Consequence](node *yaml.Node) (Consequence, error) {
	var v T
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("%T: %w", v, err)
	}
	return v, nil
}

var validReputation = map[character.ReputationType]bool{
	character.Neutral:   true,
	character.Feared:    true,
	character.Honorable: true,
	character.Devious:   true,
}

// Validate checks every consequence in list, including nested branches,
// for references to unknown attributes, reputation types, or statuses.
func Validate(list []Consequence) error {
	var errs []error
	Walk(list, func(c Consequence) {
		switch c := c.(type) {
		case AddCurrency:
			if c.XP < 0 {
				errs = append(errs, fmt.Errorf("%s: xp must be >= 0", c))
			}
		case UpdateAttribute:
			if _, ok := (character.Attributes{}).Get(c.Attribute); !ok {
				errs = append(errs, fmt.Errorf("%s: unknown attribute", c))
			}
		case UpdateRelationship:
			if c.NPC == "" || !npc.ValidStatus(c.Status) {
				errs = append(errs, fmt.Errorf("%s: invalid npc or status", c))
			}
		case UpdateReputation:
			if !validReputation[c.Type] {
				errs = append(errs, fmt.Errorf("%s: unknown reputation type", c))
			}
		case UpdateNPCMood:
			if c.NPC == "" {
				errs = append(errs, fmt.Errorf("%s: npc_id must not be empty", c))
			}
		case AddLore:
			if c.LoreID == "" {
				errs = append(errs, fmt.Errorf("%s: lore_id must not be empty", c))
			}
		}
	})
	return errors.Join(errs...)
}

func sortedArchetypes(m map[character.Archetype][]Consequence) []character.Archetype {
	keys := make([]character.Archetype, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
