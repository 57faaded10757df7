package syndicate_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
)

type stubReady struct {
	mu    sync.Mutex
	ready []syndicate.ActiveMission
}

func (s *stubReady) Ready() []syndicate.ActiveMission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]syndicate.ActiveMission(nil), s.ready...)
}

func (s *stubReady) set(ams ...syndicate.ActiveMission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ams
}

func TestWatcher_PollAnnouncesOnce(t *testing.T) {
	am := syndicate.ActiveMission{MissionID: "mission-01", AgentID: "agent-000"}
	src := &stubReady{}
	w := syndicate.NewWatcher(src, time.Hour)
	ch := make(chan syndicate.ActiveMission, 4)
	w.Subscribe(ch)

	assert.Empty(t, w.Poll())
	src.set(am)
	assert.Equal(t, []syndicate.ActiveMission{am}, w.Poll())
	assert.Empty(t, w.Poll(), "already announced")
	assert.Len(t, ch, 1)

	src.set()
	w.Poll()
	src.set(am)
	assert.Len(t, w.Poll(), 1, "re-announced after it left the ready set")
}

func TestWatcher_StartDelivers(t *testing.T) {
	src := &stubReady{}
	src.set(syndicate.ActiveMission{MissionID: "mission-02", AgentID: "agent-002"})
	w := syndicate.NewWatcher(src, 20*time.Millisecond)
	ch := make(chan syndicate.ActiveMission, 4)
	w.Subscribe(ch)
	stop := w.Start()
	defer stop()
	defer w.Unsubscribe(ch)

	select {
	case am := <-ch:
		assert.Equal(t, "mission-02", am.MissionID)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for ready notification")
	}
}

func TestWatcher_UnsubscribeStopsDelivery(t *testing.T) {
	src := &stubReady{}
	w := syndicate.NewWatcher(src, 20*time.Millisecond)
	ch := make(chan syndicate.ActiveMission, 4)
	w.Subscribe(ch)
	w.Unsubscribe(ch)
	stop := w.Start()
	defer stop()

	src.set(syndicate.ActiveMission{MissionID: "mission-01"})
	time.Sleep(100 * time.Millisecond)
	if len(ch) > 0 {
		t.Error("received notification after unsubscribe")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := syndicate.NewWatcher(&stubReady{}, 10*time.Millisecond)
	stop := w.Start()
	stop()
	stop()
}
