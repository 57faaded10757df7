// Package trivia runs Cipher Den question rounds. A round holds one question,
// takes one answer, and offers one paid hint that strikes a wrong option.
package trivia

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

const (
	// HintCost is the soul shard price of a hint.
	HintCost = 1
	// RewardXP and RewardSovereigns are paid for a correct answer.
	RewardXP         = 10
	RewardSovereigns = 2
)

// Categories are the subjects a question may be drawn from.
var Categories = []string{"Science", "History", "Technology", "Pop Culture", "Geography", "Movies"}

var (
	// ErrAnswered is returned for a hint or answer after the question closed.
	ErrAnswered = errors.New("question already answered")
	// ErrHintUsed is returned for a second hint on the same question.
	ErrHintUsed = errors.New("hint already used")
	// ErrInsufficientShards is returned when the hint cannot be paid.
	ErrInsufficientShards = errors.New("insufficient soul shards for a hint")
	// ErrNoOption is returned for an answer outside the option list.
	ErrNoOption = errors.New("no such option")
	// ErrStruck is returned for an answer the hint already ruled out.
	ErrStruck = errors.New("option was struck by the hint")
	// ErrUnknownCategory is returned for a category name not in Categories.
	ErrUnknownCategory = errors.New("unknown trivia category")
)

// Question is one multiple-choice question. Answer indexes Options.
type Question struct {
	Category string
	Text     string
	Options  []string
	Answer   int
}

// Validate checks that the question can be played.
func (q Question) Validate() error {
	var errs []error
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, errors.New("text must not be empty"))
	}
	if len(q.Options) < 2 {
		errs = append(errs, fmt.Errorf("need at least 2 options, got %d", len(q.Options)))
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		errs = append(errs, fmt.Errorf("answer %d out of range", q.Answer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("trivia question: %w", errors.Join(errs...))
	}
	return nil
}

// Category returns the canonical spelling of name, matched without case.
func Category(name string) (string, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}

// PickCategory draws a category uniformly from src.
func PickCategory(src dice.Source) string {
	return Categories[src.Intn(len(Categories))]
}

// Player pays for hints and is rewarded for correct answers.
type Player interface {
	SpendSoulShards(amount int) bool
	GrantRewards(xp, sovereigns int) int
}

// Result is the outcome of an answer.
type Result struct {
	Correct bool
	// Chosen and Expected are option texts.
	Chosen       string
	Expected     string
	LevelsGained int
}

// Round is one open question.
type Round struct {
	mu       sync.Mutex
	q        Question
	struck   int
	hinted   bool
	answered bool
	logger   *zap.Logger
}

// NewRound opens q.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns the validation error for an unplayable question.
func NewRound(q Question, logger *zap.Logger) (*Round, error) {
	if logger == nil {
		panic("trivia: NewRound precondition violated: nil logger")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Options = append([]string(nil), q.Options...)
	return &Round{q: q, struck: -1, logger: logger}, nil
}

// Question returns a copy of the question.
func (r *Round) Question() Question {
	q := r.q
	q.Options = append([]string(nil), r.q.Options...)
	return q
}

// Struck returns the option the hint removed.
func (r *Round) Struck() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.struck, r.struck >= 0
}

// Answered reports whether the question has closed.
func (r *Round) Answered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answered
}

// Hint charges HintCost and strikes one wrong option drawn from src.
//
// Postcondition: Returns ErrAnswered, ErrHintUsed or ErrInsufficientShards
// with nothing spent and no option struck.
func (r *Round) Hint(p Player, src dice.Source) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answered {
		return -1, ErrAnswered
	}
	if r.hinted {
		return -1, ErrHintUsed
	}
	if !p.SpendSoulShards(HintCost) {
		return -1, ErrInsufficientShards
	}
	wrong := make([]int, 0, len(r.q.Options)-1)
	for i := range r.q.Options {
		if i != r.q.Answer {
			wrong = append(wrong, i)
		}
	}
	r.hinted = true
	r.struck = wrong[src.Intn(len(wrong))]
	r.logger.Debug("hint used", zap.Int("struck", r.struck))
	return r.struck, nil
}

// Answer closes the question with option i. A correct answer pays
// RewardXP and RewardSovereigns; a wrong one pays nothing.
//
// Postcondition: Returns ErrAnswered, ErrNoOption or ErrStruck with the
// question still open.
func (r *Round) Answer(p Player, i int) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answered {
		return Result{}, ErrAnswered
	}
	if i < 0 || i >= len(r.q.Options) {
		return Result{}, fmt.Errorf("option %d: %w", i+1, ErrNoOption)
	}
	if i == r.struck {
		return Result{}, fmt.Errorf("option %d: %w", i+1, ErrStruck)
	}
	r.answered = true
	res := Result{
		Correct:  i == r.q.Answer,
		Chosen:   r.q.Options[i],
		Expected: r.q.Options[r.q.Answer],
	}
	if res.Correct {
		res.LevelsGained = p.GrantRewards(RewardXP, RewardSovereigns)
	}
	r.logger.Info("trivia answered",
		zap.String("category", r.q.Category),
		zap.Bool("correct", res.Correct),
	)
	return res, nil
}
