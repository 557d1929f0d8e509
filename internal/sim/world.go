// Package sim owns the running simulation: the shared scheduler, the actor
// registry, herds, the fixed-step ticker and snapshot persistence.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/config"
	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/herd"
	"github.com/cory-johannsen/actorcore/internal/game/regen"
	"github.com/cory-johannsen/actorcore/internal/observability"
)

// ErrUnknownTemplate is returned by Spawn for a template ID no registry holds.
var ErrUnknownTemplate = errors.New("sim: unknown actor template")

// Store persists actor snapshots. The postgres and sqlite repositories satisfy it.
type Store interface {
	Save(ctx context.Context, s *actor.Snapshot) error
	Load(ctx context.Context, id uuid.UUID) (*actor.Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IDs(ctx context.Context) ([]uuid.UUID, error)
}

// Content is the static data a World spawns from. Any field may be nil.
type Content struct {
	Templates *actor.Templates
	Auras     actor.AuraLookup
	Items     actor.ItemSource
	Hooks     actor.Hooks
}

// Timings converts the configured regeneration intervals.
func Timings(c config.RegenConfig) actor.RegenTimings {
	return actor.RegenTimings{
		HPDelay: c.HPDelay,
		MPDelay: c.MPDelay,
		APDelay: c.APDelay,
		Tick:    c.TickInterval,
	}
}

// World owns every actor of one simulation and the scheduler that drives
// them. Actors are not safe for concurrent use, so every access from outside
// the stepping goroutine must go through Do.
type World struct {
	mu      sync.Mutex
	sched   *regen.Scheduler
	actors  map[uuid.UUID]*actor.Actor
	herds   map[string]*herd.Herd
	content Content
	timings actor.RegenTimings
	logger  *zap.Logger
}

// NewWorld creates an empty world at simulated time zero. logger may be nil.
func NewWorld(content Content, timings actor.RegenTimings, logger *zap.Logger) *World {
	return &World{
		sched:   regen.NewScheduler(),
		actors:  make(map[uuid.UUID]*actor.Actor),
		herds:   make(map[string]*herd.Herd),
		content: content,
		timings: timings,
		logger:  observability.Component(logger, "sim"),
	}
}

func (w *World) options() actor.Options {
	return actor.Options{
		Scheduler: w.sched,
		Timings:   w.timings,
		Logger:    w.logger,
		Hooks:     w.content.Hooks,
	}
}

// Do runs fn with exclusive access to the world's actors.
//
// Precondition: fn must not call other World methods.
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

// Now returns the simulated time.
func (w *World) Now() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sched.Now()
}

// Step advances simulated time by dt and returns the number of events fired.
//
// Precondition: dt >= 0.
func (w *World) Step(dt time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sched.Advance(dt)
}

// NewActor creates a bare actor driven by the world's scheduler.
func (w *World) NewActor(name string, level int) *actor.Actor {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := actor.New(name, level, w.options())
	w.actors[a.ID()] = a
	return a
}

// Spawn creates an actor from a template. When herdName is non-empty the
// actor also joins that herd.
//
// Postcondition: returns ErrUnknownTemplate when templateID is not loaded.
func (w *World) Spawn(templateID, herdName string) (*actor.Actor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var tmpl *actor.Template
	ok := false
	if w.content.Templates != nil {
		tmpl, ok = w.content.Templates.Get(templateID)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	a, err := actor.Spawn(tmpl, w.content.Auras, w.content.Items, w.options())
	if err != nil {
		return nil, err
	}
	w.actors[a.ID()] = a
	if herdName != "" {
		w.herd(herdName).Add(a)
	}
	w.logger.Debug("actor spawned",
		zap.String("template", templateID),
		zap.Stringer("id", a.ID()),
		zap.String("herd", herdName),
	)
	return a, nil
}

// Actor returns the actor with id.
func (w *World) Actor(id uuid.UUID) (*actor.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[id]
	return a, ok
}

// Actors returns every actor ordered by name, then ID.
func (w *World) Actors() []*actor.Actor {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*actor.Actor, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}

// Remove drops the actor from the world and from every herd.
func (w *World) Remove(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[id]
	if !ok {
		return false
	}
	for _, h := range w.herds {
		h.Remove(a)
	}
	delete(w.actors, id)
	return true
}

// Herd returns the named herd, creating it on first use.
func (w *World) Herd(name string) *herd.Herd {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.herd(name)
}

func (w *World) herd(name string) *herd.Herd {
	h, ok := w.herds[name]
	if !ok {
		h = herd.New(name, w.logger)
		w.herds[name] = h
	}
	return h
}

// SaveAll snapshots every actor, with its herd names, and writes the
// snapshots to store. Snapshots are taken under the world lock; writes happen
// outside it.
//
// Postcondition: returns the joined errors of every failed write.
func (w *World) SaveAll(ctx context.Context, store Store) error {
	w.mu.Lock()
	snaps := make([]*actor.Snapshot, 0, len(w.actors))
	for _, a := range w.actors {
		s := a.Snapshot()
		for name, h := range w.herds {
			if h.Contains(a) {
				s.Herds = append(s.Herds, name)
			}
		}
		sort.Strings(s.Herds)
		snaps = append(snaps, s)
	}
	w.mu.Unlock()

	var errs []error
	for _, s := range snaps {
		if err := store.Save(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("saving actor %s: %w", s.ID, err))
		}
	}
	w.logger.Debug("snapshots saved", zap.Int("count", len(snaps)-len(errs)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

// LoadAll restores every snapshot in store into the world and puts each
// actor back on the herds it was saved with. Snapshots that fail to restore
// are logged and skipped.
//
// Postcondition: returns the number of actors restored, or an error when the
// store cannot be listed.
func (w *World) LoadAll(ctx context.Context, store Store) (int, error) {
	ids, err := store.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, id := range ids {
		s, err := store.Load(ctx, id)
		if err != nil {
			w.logger.Warn("snapshot skipped", zap.Stringer("id", id), zap.Error(err))
			continue
		}
		a, err := actor.Restore(s, w.content.Auras, w.options())
		if err != nil {
			w.logger.Warn("snapshot skipped", zap.Stringer("id", id), zap.Error(err))
			continue
		}
		w.actors[a.ID()] = a
		for _, name := range s.Herds {
			w.herd(name).Add(a)
		}
		n++
	}
	return n, nil
}
