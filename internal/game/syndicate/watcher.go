package syndicate

import (
	"sync"
	"time"
)

// ReadySource reports missions whose completion time has passed.
type ReadySource interface {
	Ready() []ActiveMission
}

// Watcher polls a ReadySource and broadcasts newly ready missions to
// subscribers. It never resolves missions; the debrief stays an explicit call.
type Watcher struct {
	src          ReadySource
	pollInterval time.Duration
	mu           sync.Mutex
	subscribers  map[chan<- ActiveMission]struct{}
	notified     map[ActiveMission]struct{}
}

// NewWatcher creates a stopped Watcher.
//
// Precondition: src must be non-nil; pollInterval > 0.
// Postcondition: Returns a non-nil *Watcher ready to Start().
func NewWatcher(src ReadySource, pollInterval time.Duration) *Watcher {
	if src == nil || pollInterval <= 0 {
		panic("syndicate: NewWatcher precondition violated")
	}
	return &Watcher{
		src:          src,
		pollInterval: pollInterval,
		subscribers:  make(map[chan<- ActiveMission]struct{}),
		notified:     make(map[ActiveMission]struct{}),
	}
}

// Subscribe registers ch to receive each mission once when it becomes ready.
// If ch is full, the notification is dropped for that subscriber (non-blocking).
//
// Precondition: ch must not be nil.
func (w *Watcher) Subscribe(ch chan<- ActiveMission) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers[ch] = struct{}{}
}

// Unsubscribe removes ch from the subscriber list.
func (w *Watcher) Unsubscribe(ch chan<- ActiveMission) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.subscribers, ch)
}

// Poll checks readiness once and broadcasts any mission not already announced.
// It returns the newly ready missions.
func (w *Watcher) Poll() []ActiveMission {
	ready := w.src.Ready()

	w.mu.Lock()
	current := make(map[ActiveMission]struct{}, len(ready))
	var fresh []ActiveMission
	for _, am := range ready {
		current[am] = struct{}{}
		if _, seen := w.notified[am]; !seen {
			fresh = append(fresh, am)
		}
	}
	// Resolved missions drop out so a restart of the same mission is announced again.
	w.notified = current
	subs := make([]chan<- ActiveMission, 0, len(w.subscribers))
	for ch := range w.subscribers {
		subs = append(subs, ch)
	}
	w.mu.Unlock()

	for _, am := range fresh {
		for _, ch := range subs {
			select {
			case ch <- am:
			default:
			}
		}
	}
	return fresh
}

// Start launches the polling goroutine and returns a stop function.
// Calling stop() is idempotent.
//
// Postcondition: Poll runs once per pollInterval until stop() is called.
func (w *Watcher) Start() (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Poll()
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}
