package combat

import (
	"sync"
	"time"
)

// TurnTimer paces the enemy turn: it fires a callback once after a delay
// unless stopped or re-armed first. It is safe for concurrent use.
type TurnTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewTurnTimer returns a disarmed timer.
func NewTurnTimer() *TurnTimer {
	return &TurnTimer{}
}

// Arm schedules onFire after delay, cancelling any pending callback.
// onFire is called in a separate goroutine.
//
// Precondition: delay > 0; onFire must not be nil.
// Postcondition: only the most recently armed callback can fire.
func (tt *TurnTimer) Arm(delay time.Duration, onFire func()) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.timer != nil {
		tt.timer.Stop()
	}
	tt.gen++
	gen := tt.gen
	tt.timer = time.AfterFunc(delay, func() {
		tt.mu.Lock()
		current := tt.gen == gen
		tt.mu.Unlock()
		if current {
			onFire()
		}
	})
}

// Stop cancels any pending callback. Safe to call multiple times.
//
// Postcondition: no armed callback fires after Stop returns.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.gen++
	if tt.timer != nil {
		tt.timer.Stop()
	}
}
