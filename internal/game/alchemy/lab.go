package alchemy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
)

// MaxSelection is the largest number of ingredients in one brew.
const MaxSelection = 3

const (
	mutationBelow = 0.3
	successBelow  = 0.8
	dudBelow      = 0.95
)

var (
	ErrEmptySelection      = errors.New("select ingredients to brew")
	ErrTooManyIngredients  = fmt.Errorf("you can only combine up to %d ingredients", MaxSelection)
	ErrDuplicateIngredient = errors.New("an ingredient may only be selected once")
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrInsufficientShards  = errors.New("not enough soul shards to conduct this experiment")
)

// Kind classifies a brew result.
type Kind int

const (
	// Mutation is the special-recipe outcome: no item, the quest book moves.
	Mutation Kind = iota
	Success
	Dud
	Unstable
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case Mutation:
		return "mutation"
	case Success:
		return "success"
	case Dud:
		return "dud"
	case Unstable:
		return "unstable"
	default:
		return "unknown"
	}
}

// Brewer is the player state a brew spends from and rewards into.
type Brewer interface {
	SpendSoulShards(n int) bool
	AddItem(def *inventory.ItemDef) inventory.Item
	SetQuest(questID int)
}

// Result reports one brew.
type Result struct {
	Kind Kind
	Key  string
	Draw float64
	// Item is the granted item; zero for Mutation.
	Item    inventory.Item
	Quest   int
	Message string
}

// Lab resolves brews against a Book.
type Lab struct {
	cost        int
	ingredients map[int]Ingredient
	recipes     map[string]Recipe
	items       *inventory.Registry
	dud         *inventory.ItemDef
	unstable    *inventory.ItemDef
	src         dice.Source
	logger      *zap.Logger
}

// NewLab builds a Lab from book, resolving item references against items.
//
// Precondition: cost >= 0; book must be valid; src and logger must not be nil.
// Postcondition: Returns an error when any item reference is unknown.
func NewLab(book *Book, items *inventory.Registry, cost int, src dice.Source, logger *zap.Logger) (*Lab, error) {
	if cost < 0 {
		return nil, fmt.Errorf("alchemy.NewLab: cost must be >= 0, got %d", cost)
	}
	l := &Lab{
		cost:        cost,
		ingredients: make(map[int]Ingredient, len(book.Ingredients)),
		recipes:     make(map[string]Recipe, len(book.Recipes)),
		items:       items,
		src:         src,
		logger:      logger,
	}
	for _, ing := range book.Ingredients {
		l.ingredients[ing.ID] = ing
	}
	for _, r := range book.Recipes {
		if _, ok := items.Item(r.Item); !ok {
			return nil, fmt.Errorf("alchemy.NewLab: recipe %q: unknown item %q", r.Key, r.Item)
		}
		l.recipes[r.Key] = r
	}
	var ok bool
	if l.dud, ok = items.Item(book.DudItem); !ok {
		return nil, fmt.Errorf("alchemy.NewLab: unknown dud item %q", book.DudItem)
	}
	if l.unstable, ok = items.Item(book.UnstableItem); !ok {
		return nil, fmt.Errorf("alchemy.NewLab: unknown unstable item %q", book.UnstableItem)
	}
	return l, nil
}

// Cost returns the soul shard price of one brew.
func (l *Lab) Cost() int { return l.cost }

// Ingredient returns the ingredient with id.
func (l *Lab) Ingredient(id int) (Ingredient, bool) {
	ing, ok := l.ingredients[id]
	return ing, ok
}

// Brew validates the selection, spends the brew cost, and resolves a single
// uniform draw u in priority order: a special recipe mutates when u < 0.3,
// a known recipe succeeds when u < 0.8, any brew is a dud when u < 0.95, and
// everything else yields an unstable concoction.
//
// Postcondition: On error no shards are spent and nothing is granted.
func (l *Lab) Brew(b Brewer, selection []int) (Result, error) {
	if err := l.check(selection); err != nil {
		return Result{}, err
	}
	if !b.SpendSoulShards(l.cost) {
		return Result{}, ErrInsufficientShards
	}

	key := Key(selection)
	recipe, known := l.recipes[key]
	u := l.src.Float64()
	res := Result{Key: key, Draw: u}

	switch {
	case known && recipe.Special && u < mutationBelow:
		res.Kind = Mutation
		res.Quest = recipe.MutationQuest
		res.Message = "MUTATION! The fumes twist reality. Your mind is flooded with visions of a forgotten place..."
		b.SetQuest(recipe.MutationQuest)
	case known && u < successBelow:
		def, _ := l.items.Item(recipe.Item)
		res.Kind = Success
		res.Item = b.AddItem(def)
		res.Message = fmt.Sprintf("SUCCESS! You brewed: %s.", def.Name)
	case u < dudBelow:
		res.Kind = Dud
		res.Item = b.AddItem(l.dud)
		res.Message = "FAILURE. The concoction turns into an inert, useless goop."
	default:
		res.Kind = Unstable
		res.Item = b.AddItem(l.unstable)
		res.Message = "MUTATION! The mixture glows with an eerie light, then stabilizes into a strange, unknown substance."
	}

	l.logger.Info("brew resolved",
		zap.String("key", key),
		zap.Float64("draw", u),
		zap.Stringer("kind", res.Kind),
	)
	return res, nil
}

func (l *Lab) check(selection []int) error {
	if len(selection) == 0 {
		return ErrEmptySelection
	}
	if len(selection) > MaxSelection {
		return ErrTooManyIngredients
	}
	seen := make(map[int]bool, len(selection))
	for _, id := range selection {
		if _, ok := l.ingredients[id]; !ok {
			return fmt.Errorf("ingredient %d: %w", id, ErrUnknownIngredient)
		}
		if seen[id] {
			return fmt.Errorf("ingredient %d: %w", id, ErrDuplicateIngredient)
		}
		seen[id] = true
	}
	return nil
}
