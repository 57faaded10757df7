package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stopOrder records the order in which services observe cancellation.
type stopOrder struct {
	mu    sync.Mutex
	names []string
}

func (o *stopOrder) blocking(name string) Service {
	return ServiceFunc(func(ctx context.Context) error {
		<-ctx.Done()
		o.mu.Lock()
		o.names = append(o.names, name)
		o.mu.Unlock()
		return ctx.Err()
	})
}

func (o *stopOrder) get() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.names...)
}

func runAsync(lc *Lifecycle, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	return done
}

func await(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}

func TestLifecycle_CancelStopsInReverseOrder(t *testing.T) {
	lc := New(zaptest.NewLogger(t))
	order := &stopOrder{}
	lc.Add("metrics", order.blocking("metrics"))
	lc.Add("watcher", order.blocking("watcher"))
	lc.Add("console", order.blocking("console"))

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(lc, ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.NoError(t, await(t, done))
	// Cancelling the parent reaches every service at once; only the
	// services themselves are guaranteed stopped.
	assert.ElementsMatch(t, []string{"metrics", "watcher", "console"}, order.get())
}

func TestLifecycle_FinishedServiceEndsRun(t *testing.T) {
	lc := New(zaptest.NewLogger(t))
	order := &stopOrder{}
	lc.Add("metrics", order.blocking("metrics"))
	lc.Add("watcher", order.blocking("watcher"))
	lc.Add("console", ServiceFunc(func(context.Context) error { return nil }))

	assert.NoError(t, await(t, runAsync(lc, context.Background())))
	assert.Equal(t, []string{"watcher", "metrics"}, order.get())
}

func TestLifecycle_ReturnsServiceError(t *testing.T) {
	lc := New(zaptest.NewLogger(t))
	order := &stopOrder{}
	boom := errors.New("address in use")
	lc.Add("console", order.blocking("console"))
	lc.Add("metrics", ServiceFunc(func(context.Context) error { return boom }))

	err := await(t, runAsync(lc, context.Background()))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service metrics")
	assert.Equal(t, []string{"console"}, order.get())
}

func TestServiceFunc(t *testing.T) {
	called := false
	svc := ServiceFunc(func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, svc.Run(context.Background()))
	assert.True(t, called)
}
