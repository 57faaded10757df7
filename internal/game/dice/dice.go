// Package dice provides the randomness abstraction and the d10 pool engine
// used by every resolver in the hub.
package dice

import "fmt"

const (
	// Sides is the number of faces on every pool die.
	Sides = 10
	// MinDifficulty and MaxDifficulty bound the target number of a pool roll.
	MinDifficulty = 1
	MaxDifficulty = 10
)

// PoolResult holds the full audit trail for a single pool roll.
//
// Invariant: 0 <= Successes <= len(Faces); IsBotch implies Successes == 0;
// IsCritical implies Successes > 0.
type PoolResult struct {
	Pool       int   // requested pool size, before the chance-roll adjustment
	Difficulty int   // target number a face must meet or exceed
	Faces      []int // individual die faces in roll order
	Successes  int
	IsBotch    bool
	IsCritical bool
}

// ChanceRoll reports whether the roll was forced down to a single die because
// the requested pool was empty or negative.
func (r PoolResult) ChanceRoll() bool {
	return r.Pool <= 0
}

// String returns a human-readable audit string in the format:
//
//	"3d10 vs 7 → [2 9 10] = 2 successes (critical)"
func (r PoolResult) String() string {
	dice := len(r.Faces)
	s := fmt.Sprintf("%dd10 vs %d → %v = %d %s", dice, r.Difficulty, r.Faces, r.Successes, plural(r.Successes, "success", "successes"))
	switch {
	case r.IsBotch:
		s += " (botch)"
	case r.IsCritical:
		s += " (critical)"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Source is the randomness provider for every roll and weighted draw.
//
// Implementations used from more than one goroutine MUST be safe for
// concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}
