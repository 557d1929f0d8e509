package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/observability"
)

// finalSaveTimeout bounds the snapshot flush performed on Stop.
const finalSaveTimeout = 10 * time.Second

// Runner steps a World on a fixed-interval Ticker and, when a store is
// configured, persists every actor periodically and once more on Stop.
// It satisfies server.Service.
type Runner struct {
	world    *World
	stepper  *Ticker
	saver    *Ticker
	store    Store
	logger   *zap.Logger
	mu       sync.Mutex
	cancel   context.CancelFunc
	finished chan struct{}
}

// NewRunner builds a runner from the simulation config. store may be nil,
// which disables persistence.
//
// Precondition: cfg passed config.Validate.
func NewRunner(world *World, cfg config.SimulationConfig, store Store, logger *zap.Logger) *Runner {
	r := &Runner{
		world:    world,
		stepper:  NewTicker(cfg.StepInterval),
		store:    store,
		logger:   observability.Component(logger, "runner"),
		finished: make(chan struct{}),
	}
	r.stepper.Register("world", func(dt time.Duration) { world.Step(dt) })
	if store != nil && cfg.SnapshotInterval > 0 {
		r.saver = NewTicker(cfg.SnapshotInterval)
	}
	return r
}

// Start runs the simulation and blocks until Stop is called.
func (r *Runner) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	defer close(r.finished)

	stepped := r.stepper.Start(ctx)
	var saved <-chan struct{}
	if r.saver != nil {
		r.saver.Register("snapshots", func(time.Duration) { r.save(ctx) })
		saved = r.saver.Start(ctx)
	}
	r.logger.Info("simulation running",
		zap.Duration("step", r.stepper.Interval()),
		zap.Bool("persistence", r.store != nil),
	)
	<-stepped
	if saved != nil {
		<-saved
	}

	if r.store != nil {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), finalSaveTimeout)
		defer flushCancel()
		r.save(flushCtx)
	}
	return nil
}

func (r *Runner) save(ctx context.Context) {
	if err := r.world.SaveAll(ctx, r.store); err != nil {
		r.logger.Error("snapshot save failed", zap.Error(err))
	}
}

// Stop ends the simulation and waits for the final save.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-r.finished
}
