package character

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RelationshipBonus sets one NPC's standing when an origin is chosen.
type RelationshipBonus struct {
	NPC    string `yaml:"npc"`
	Status string `yaml:"status"`
	Mood   string `yaml:"mood"`
}

// Origin is a background the player chooses once. Its bonuses are applied on
// top of the starting profile.
type Origin struct {
	Name          string              `yaml:"name"`
	Title         string              `yaml:"title"`
	Description   string              `yaml:"description"`
	Attributes    map[Attribute]int   `yaml:"attributes"`
	Abilities     map[Ability]int     `yaml:"abilities"`
	Sovereigns    int                 `yaml:"sovereigns"`
	SoulShards    int                 `yaml:"soul_shards"`
	Relationships []RelationshipBonus `yaml:"relationships"`
}

// Validate checks that every bonus names a known attribute or ability and
// that currency bonuses are non-negative.
func (o Origin) Validate() error {
	var errs []error
	if o.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for attr := range o.Attributes {
		if _, ok := (Attributes{}).Get(attr); !ok {
			errs = append(errs, fmt.Errorf("unknown attribute %q", attr))
		}
	}
	for ab := range o.Abilities {
		if _, ok := (Abilities{}).Get(ab); !ok {
			errs = append(errs, fmt.Errorf("unknown ability %q", ab))
		}
	}
	if o.Sovereigns < 0 || o.SoulShards < 0 {
		errs = append(errs, errors.New("currency bonuses must be >= 0"))
	}
	for i, r := range o.Relationships {
		if r.NPC == "" {
			errs = append(errs, fmt.Errorf("relationships[%d]: npc must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("origin %q: %w", o.Name, errors.Join(errs...))
	}
	return nil
}

// ParseOrigins decodes a YAML list of origins, rejecting unknown fields.
func ParseOrigins(data []byte) ([]Origin, error) {
	var origins []Origin
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&origins); err != nil {
		return nil, fmt.Errorf("parsing origin YAML: %w", err)
	}
	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("origin %q: duplicate name", o.Name)
		}
		seen[o.Name] = true
	}
	return origins, nil
}

// RelationshipSetter receives the relationship changes an origin grants.
type RelationshipSetter interface {
	SetStanding(npcID, status, mood string)
}

// ApplyOrigin applies o's bonuses to l and rel.
//
// Precondition: l must not be nil; o must be valid.
// Postcondition: Each attribute, ability, and currency bonus has been added
// and each relationship bonus written to rel (when rel is non-nil).
func ApplyOrigin(l *Ledger, rel RelationshipSetter, o Origin) {
	if l == nil {
		panic("character: ApplyOrigin precondition violated: ledger must not be nil")
	}
	for _, attr := range AllAttributes {
		if d, ok := o.Attributes[attr]; ok {
			l.UpdateAttribute(attr, d)
		}
	}
	for _, ab := range AllAbilities {
		if d, ok := o.Abilities[ab]; ok {
			l.GrantAbility(ab, d)
		}
	}
	if o.Sovereigns > 0 {
		l.GrantRewards(0, o.Sovereigns)
	}
	if o.SoulShards > 0 {
		l.AddSoulShards(o.SoulShards)
	}
	if rel == nil {
		return
	}
	for _, r := range o.Relationships {
		rel.SetStanding(r.NPC, r.Status, r.Mood)
	}
}
