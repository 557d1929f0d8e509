package regen

import (
	"context"
	"errors"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Regenerator states.
const (
	StateIdle     = "idle"
	StateDelaying = "delaying"
	StateTicking  = "ticking"
)

const (
	eventLoss   = "loss"
	eventElapse = "elapse"
	eventFull   = "full"
	eventHalt   = "halt"
)

// Pool is the resource a Regenerator refills.
type Pool interface {
	// Alive reports whether the owner may regenerate.
	Alive() bool
	Current() float64
	Max() float64
	// Rate is the fraction of Max restored per second.
	Rate() float64
	// Gain adds amount to the resource.
	Gain(amount float64)
}

// Regenerator refills one Pool. A loss restarts the delay and interrupts
// ticking; once the delay elapses each tick restores Max × Rate × tick
// seconds until the pool is full.
//
// Invariant: at most one of the delay and tick timers is pending.
type Regenerator struct {
	name   string
	sched  *Scheduler
	pool   Pool
	delay  time.Duration
	tick   time.Duration
	logger *zap.Logger

	machine    *fsm.FSM
	delayTimer *Handle
	tickTimer  *Handle
}

// NewRegenerator builds an idle regenerator for pool.
//
// Precondition: sched and pool must not be nil; delay >= 0 and tick > 0.
func NewRegenerator(name string, sched *Scheduler, pool Pool, delay, tick time.Duration, logger *zap.Logger) *Regenerator {
	if sched == nil || pool == nil {
		panic("regen.NewRegenerator: sched and pool must not be nil")
	}
	if delay < 0 || tick <= 0 {
		panic("regen.NewRegenerator: delay must be >= 0 and tick > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Regenerator{
		name:   name,
		sched:  sched,
		pool:   pool,
		delay:  delay,
		tick:   tick,
		logger: logger,
	}
	r.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventLoss, Src: []string{StateIdle, StateDelaying, StateTicking}, Dst: StateDelaying},
			{Name: eventElapse, Src: []string{StateDelaying}, Dst: StateTicking},
			{Name: eventFull, Src: []string{StateTicking}, Dst: StateIdle},
			{Name: eventHalt, Src: []string{StateDelaying, StateTicking}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				r.logger.Debug("regen transition",
					zap.String("resource", r.name),
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
	return r
}

// State returns the current machine state.
func (r *Regenerator) State() string { return r.machine.Current() }

// Loss restarts the delay timer and stops any ticking.
//
// Postcondition: State() == StateDelaying.
func (r *Regenerator) Loss() {
	r.stopTimers()
	r.fire(eventLoss)
	r.delayTimer = r.sched.After(r.delay, r.onDelayElapsed)
}

// Stop cancels both timers and returns to idle.
func (r *Regenerator) Stop() {
	r.stopTimers()
	r.fire(eventHalt)
}

func (r *Regenerator) stopTimers() {
	r.delayTimer.Cancel()
	r.tickTimer.Cancel()
	r.delayTimer, r.tickTimer = nil, nil
}

func (r *Regenerator) onDelayElapsed() {
	r.delayTimer = nil
	if !r.pool.Alive() {
		r.logger.Debug("regen suppressed: owner is dead", zap.String("resource", r.name))
		r.fire(eventHalt)
		return
	}
	if r.pool.Current() >= r.pool.Max() {
		r.fire(eventHalt)
		return
	}
	r.fire(eventElapse)
	r.tickTimer = r.sched.After(r.tick, r.onTick)
}

func (r *Regenerator) onTick() {
	r.tickTimer = nil
	if !r.pool.Alive() {
		r.fire(eventHalt)
		return
	}
	remaining := r.pool.Max() - r.pool.Current()
	gain := r.pool.Max() * r.pool.Rate() * r.tick.Seconds()
	if gain >= remaining {
		if remaining > 0 {
			r.pool.Gain(remaining)
		}
		r.fire(eventFull)
		return
	}
	if gain > 0 {
		r.pool.Gain(gain)
	}
	r.tickTimer = r.sched.After(r.tick, r.onTick)
}

func (r *Regenerator) fire(event string) {
	err := r.machine.Event(context.Background(), event)
	if err == nil {
		return
	}
	var noTransition fsm.NoTransitionError
	var invalid fsm.InvalidEventError
	switch {
	case errors.As(err, &noTransition), errors.As(err, &invalid):
		// re-entering the current state, or halting while already idle
	default:
		r.logger.Warn("regen transition failed", zap.String("resource", r.name), zap.String("event", event), zap.Error(err))
	}
}
