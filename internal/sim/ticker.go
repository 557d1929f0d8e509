package sim

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Ticker invokes registered callbacks once per wall-clock interval, passing
// the interval as a fixed simulation step.
//
// Invariant: callbacks run sequentially, in name order, at most once per interval.
type Ticker struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func(dt time.Duration)
}

// NewTicker returns a ticker that fires every interval.
//
// Precondition: interval must be > 0.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("sim.NewTicker: interval must be > 0")
	}
	return &Ticker{
		interval: interval,
		ticks:    make(map[string]func(time.Duration)),
	}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Register sets the callback for name, replacing any existing one.
func (t *Ticker) Register(name string, fn func(dt time.Duration)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks[name] = fn
}

// Unregister removes the callback for name.
func (t *Ticker) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ticks, name)
}

// Tick invokes every callback once with dt.
func (t *Ticker) Tick(dt time.Duration) {
	t.mu.Lock()
	names := make([]string, 0, len(t.ticks))
	for name := range t.ticks {
		names = append(names, name)
	}
	sort.Strings(names)
	callbacks := make([]func(time.Duration), len(names))
	for i, name := range names {
		callbacks[i] = t.ticks[name]
	}
	t.mu.Unlock()

	for _, fn := range callbacks {
		fn(dt)
	}
}

// Start begins the tick loop in a new goroutine. It runs until ctx is
// cancelled; the returned channel is closed once the loop has exited.
//
// Postcondition: all registered callbacks are invoked once per interval.
func (t *Ticker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Tick(t.interval)
			}
		}
	}()
	return done
}
