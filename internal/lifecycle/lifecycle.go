// Package lifecycle runs the hub's long-lived components together and shuts
// them down in reverse start order.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Run blocks until the component is
// finished or ctx is cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function into the Service interface.
type ServiceFunc func(ctx context.Context) error

// Run calls f.
func (f ServiceFunc) Run(ctx context.Context) error { return f(ctx) }

// Lifecycle owns a set of named services. The first service to return ends
// the run: the console returning means the player quit, and a background
// service returning means it failed.
type Lifecycle struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

type running struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

type exit struct {
	name string
	err  error
}

// New creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func New(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		panic("lifecycle: New precondition violated: nil logger")
	}
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Services start in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until one returns, SIGINT or SIGTERM
// arrives, or ctx is cancelled. The rest are then cancelled newest first, each
// awaited before the next.
//
// Postcondition: Every service has returned. The result is the first service
// error other than a cancellation, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	exits := make(chan exit, len(services))
	runs := make([]running, 0, len(services))
	for _, ns := range services {
		svcCtx, cancel := context.WithCancel(ctx)
		r := running{name: ns.name, cancel: cancel, done: make(chan struct{})}
		runs = append(runs, r)
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func() {
			defer close(r.done)
			svcStart := time.Now()
			err := ns.service.Run(svcCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
			}
			exits <- exit{name: ns.name, err: err}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(runs)),
		zap.Duration("startup", time.Since(start)),
	)

	var first exit
	select {
	case first = <-exits:
		l.logger.Info("service finished, shutting down", zap.String("service", first.name))
	case <-ctx.Done():
		l.logger.Info("interrupted, shutting down")
	}

	l.shutdown(runs)
	close(exits)

	var err error
	if first.err != nil && !errors.Is(first.err, context.Canceled) {
		err = fmt.Errorf("service %s: %w", first.name, first.err)
	}
	for e := range exits {
		if err == nil && e.err != nil && !errors.Is(e.err, context.Canceled) {
			err = fmt.Errorf("service %s: %w", e.name, e.err)
		}
	}
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return err
}

func (l *Lifecycle) shutdown(runs []running) {
	shutdownStart := time.Now()
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		svcStart := time.Now()
		r.cancel()
		<-r.done
		l.logger.Info("service stopped",
			zap.String("service", r.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}
