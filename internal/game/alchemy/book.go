// Package alchemy resolves ingredient brews into potions, duds, and mutations.
package alchemy

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ingredient is one selectable reagent.
type Ingredient struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Use         string `yaml:"use"`
}

// Recipe maps an ingredient combination to the item it yields.
type Recipe struct {
	// Key is the ingredient ids sorted ascending and joined with "_".
	Key  string `yaml:"key"`
	Item string `yaml:"item"`
	// Special recipes can mutate instead of succeeding, moving the quest
	// book to MutationQuest.
	Special       bool `yaml:"special"`
	MutationQuest int  `yaml:"mutation_quest"`
}

// Book is the alchemy content table.
type Book struct {
	Ingredients  []Ingredient `yaml:"ingredients"`
	Recipes      []Recipe     `yaml:"recipes"`
	DudItem      string       `yaml:"dud_item"`
	UnstableItem string       `yaml:"unstable_item"`
}

// Key returns the canonical recipe key for a selection of ingredient ids.
func Key(ids []int) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "_")
}

// Validate checks that ingredient ids are unique, that every recipe key is
// canonical and names known ingredients, and that item references are set.
func (b *Book) Validate() error {
	var errs []error
	known := make(map[int]bool, len(b.Ingredients))
	for _, ing := range b.Ingredients {
		if known[ing.ID] {
			errs = append(errs, fmt.Errorf("duplicate ingredient id %d", ing.ID))
		}
		known[ing.ID] = true
	}
	keys := make(map[string]bool, len(b.Recipes))
	for _, r := range b.Recipes {
		var ids []int
		for _, part := range strings.Split(r.Key, "_") {
			id, err := strconv.Atoi(part)
			if err != nil || !known[id] {
				errs = append(errs, fmt.Errorf("recipe %q: unknown ingredient %q", r.Key, part))
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 && Key(ids) != r.Key {
			errs = append(errs, fmt.Errorf("recipe %q: key is not in ascending order", r.Key))
		}
		if keys[r.Key] {
			errs = append(errs, fmt.Errorf("recipe %q: duplicate key", r.Key))
		}
		keys[r.Key] = true
		if r.Item == "" {
			errs = append(errs, fmt.Errorf("recipe %q: item must not be empty", r.Key))
		}
	}
	if b.DudItem == "" || b.UnstableItem == "" {
		errs = append(errs, errors.New("dud_item and unstable_item must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("alchemy book: %w", errors.Join(errs...))
	}
	return nil
}

// ParseBook decodes and validates the alchemy table.
func ParseBook(data []byte) (*Book, error) {
	var b Book
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("parsing alchemy YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
