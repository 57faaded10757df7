package quest

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
)

var (
	// ErrNoQuest is returned when the current quest id has no definition.
	ErrNoQuest = errors.New("no active quest")
	// ErrUnknownChoice is returned for a choice index outside the quest.
	ErrUnknownChoice = errors.New("unknown quest choice")
)

// Book holds the quest definitions and the player's current quest.
// All methods are safe for concurrent use.
type Book struct {
	mu      sync.RWMutex
	quests  map[int]*Def
	start   int
	current int
	logger  *zap.Logger
}

// NewBook creates a Book positioned at the start quest.
//
// Precondition: logger must not be nil.
// Postcondition: Returns an error if start is not among defs.
func NewBook(defs []*Def, start int, logger *zap.Logger) (*Book, error) {
	if logger == nil {
		panic("quest: NewBook precondition violated: logger is nil")
	}
	b := &Book{quests: make(map[int]*Def, len(defs)), start: start, current: start, logger: logger}
	for _, d := range defs {
		b.quests[d.ID] = d
	}
	if _, ok := b.quests[start]; !ok {
		return nil, fmt.Errorf("start quest %d: %w", start, ErrNoQuest)
	}
	return b, nil
}

// Current returns the current quest, or false when its id has no definition.
func (b *Book) Current() (*Def, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.quests[b.current]
	return d, ok
}

// CurrentID returns the current quest id.
func (b *Book) CurrentID() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Quest returns the definition for id.
func (b *Book) Quest(id int) (*Def, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.quests[id]
	return d, ok
}

// SetQuest moves the player to quest id. Unknown ids are accepted; Current
// then reports false until a known quest is set.
func (b *Book) SetQuest(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.quests[id]; !ok {
		b.logger.Warn("quest set to unknown id", zap.Int("quest", id))
	}
	b.current = id
}

// Reset returns the player to the start quest.
func (b *Book) Reset() {
	b.SetQuest(b.start)
}

// Choose takes choice index of the current quest and applies its consequences
// to t in order. The book lock is released before consequences run, so a
// setQuest consequence may call back into SetQuest.
//
// Precondition: t must not be nil.
// Postcondition: Returns the chosen Choice, or an error with no consequence applied.
func (b *Book) Choose(index int, t consequence.Target) (Choice, error) {
	b.mu.RLock()
	d, ok := b.quests[b.current]
	b.mu.RUnlock()
	if !ok {
		return Choice{}, ErrNoQuest
	}
	if index < 0 || index >= len(d.Choices) {
		return Choice{}, fmt.Errorf("quest %d choice %d: %w", d.ID, index, ErrUnknownChoice)
	}
	c := d.Choices[index]
	b.logger.Info("quest choice",
		zap.Int("quest", d.ID),
		zap.Int("choice", index),
		zap.String("archetype", string(t.Archetype())),
	)
	consequence.Apply(t, c.Consequences)
	return c, nil
}
