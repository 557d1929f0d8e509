// Package server runs the simulator's long-lived services and shuts them down
// in reverse order on a signal, a context cancellation or a service failure.
package server

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

	"github.com/cory-johannsen/actorcore/internal/observability"
)

// DefaultStopTimeout bounds how long Run waits for one service to stop.
const DefaultStopTimeout = 15 * time.Second

// Service is a long-running component. Start blocks until the service ends;
// Stop asks it to end and may block until it has.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn when set.
func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

type namedService struct {
	name    string
	service Service
	done    chan struct{}
}

// Lifecycle starts services together and stops them in reverse order.
type Lifecycle struct {
	mu          sync.Mutex
	services    []*namedService
	stopTimeout time.Duration
	signals     []os.Signal
	logger      *zap.Logger
}

// NewLifecycle creates a lifecycle listening for SIGINT and SIGTERM. logger may be nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		stopTimeout: DefaultStopTimeout,
		signals:     []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		logger:      observability.Component(logger, "lifecycle"),
	}
}

// SetStopTimeout overrides DefaultStopTimeout.
//
// Precondition: d > 0.
func (l *Lifecycle) SetStopTimeout(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTimeout = d
}

// Add registers a named service. Services start in the order added.
//
// Precondition: name is non-empty; svc is non-nil; Run has not been called.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, &namedService{name: name, service: svc})
}

// Run starts every service and blocks until ctx is cancelled, a signal
// arrives, or a service fails or returns.
//
// Postcondition: every service has been asked to stop; returns the joined
// errors of failed services, or nil on a clean shutdown.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]*namedService(nil), l.services...)
	timeout := l.stopTimeout
	l.mu.Unlock()

	start := time.Now()
	ctx, stop := signal.NotifyContext(ctx, l.signals...)
	defer stop()

	var (
		errMu sync.Mutex
		errs  []error
	)
	ended := make(chan string, len(services))
	for _, ns := range services {
		ns.done = make(chan struct{})
		go func() {
			defer close(ns.done)
			l.logger.Info("starting service", zap.String("service", ns.name))
			err := ns.service.Start()
			if err != nil {
				l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
				errMu.Lock()
				errs = append(errs, fmt.Errorf("service %s: %w", ns.name, err))
				errMu.Unlock()
			}
			ended <- ns.name
		}()
	}
	l.logger.Info("all services started", zap.Int("count", len(services)))

	select {
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(ctx)))
	case name := <-ended:
		l.logger.Warn("service ended early, shutting down", zap.String("service", name))
	}

	for i := len(services) - 1; i >= 0; i-- {
		l.stopOne(services[i], timeout)
	}
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))

	errMu.Lock()
	defer errMu.Unlock()
	return errors.Join(errs...)
}

func (l *Lifecycle) stopOne(ns *namedService, timeout time.Duration) {
	began := time.Now()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ns.service.Stop()
		<-ns.done
	}()
	select {
	case <-stopped:
		l.logger.Info("service stopped", zap.String("service", ns.name), zap.Duration("elapsed", time.Since(began)))
	case <-time.After(timeout):
		l.logger.Error("service did not stop in time", zap.String("service", ns.name), zap.Duration("timeout", timeout))
	}
}
