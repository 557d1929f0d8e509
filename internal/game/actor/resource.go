// Package actor is the facade that ties raw stats, derived stats, auras,
// equipment, the damage pipeline and regeneration together for one living
// entity in the simulation.
package actor

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// Resource is one of the three depletable pools.
type Resource int

const (
	HP Resource = iota
	MP
	AP

	numResources = int(iota)
)

var resourceNames = [numResources]string{"hp", "mp", "ap"}

func (r Resource) String() string {
	if r < 0 || int(r) >= numResources {
		return fmt.Sprintf("resource(%d)", int(r))
	}
	return resourceNames[r]
}

// ParseResource returns the resource named name ("hp", "mp" or "ap").
func ParseResource(name string) (Resource, error) {
	for i, n := range resourceNames {
		if n == name {
			return Resource(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// MaxKind returns the derived stat that caps r.
func (r Resource) MaxKind() stat.Kind {
	return [numResources]stat.Kind{stat.MaxHP, stat.MaxMP, stat.MaxAP}[r]
}

// RegenKind returns the derived stat holding r's regeneration rate.
func (r Resource) RegenKind() stat.Kind {
	return [numResources]stat.Kind{stat.RegenHP, stat.RegenMP, stat.RegenAP}[r]
}

// ResourceFor maps a Max* derived stat to its resource.
func ResourceFor(k stat.Kind) (Resource, bool) {
	switch k {
	case stat.MaxHP:
		return HP, true
	case stat.MaxMP:
		return MP, true
	case stat.MaxAP:
		return AP, true
	}
	return 0, false
}

// RegenTimings configures the regeneration timers of every resource.
type RegenTimings struct {
	HPDelay time.Duration
	MPDelay time.Duration
	APDelay time.Duration
	Tick    time.Duration
}

// DefaultRegenTimings returns 5s/3s/1s delays with a 250ms tick.
func DefaultRegenTimings() RegenTimings {
	return RegenTimings{
		HPDelay: 5 * time.Second,
		MPDelay: 3 * time.Second,
		APDelay: time.Second,
		Tick:    250 * time.Millisecond,
	}
}

func (t RegenTimings) withDefaults() RegenTimings {
	d := DefaultRegenTimings()
	if t.HPDelay <= 0 {
		t.HPDelay = d.HPDelay
	}
	if t.MPDelay <= 0 {
		t.MPDelay = d.MPDelay
	}
	if t.APDelay <= 0 {
		t.APDelay = d.APDelay
	}
	if t.Tick <= 0 {
		t.Tick = d.Tick
	}
	return t
}

func (t RegenTimings) delay(r Resource) time.Duration {
	return [numResources]time.Duration{t.HPDelay, t.MPDelay, t.APDelay}[r]
}

// EventKind classifies an actor notification.
type EventKind int

const (
	// EventLoss fires whenever a resource is struck, even for zero damage.
	EventLoss EventKind = iota
	EventGain
	EventAuraApplied
	EventAuraRemoved
	EventDeath
	EventRevive
)

var eventNames = []string{"loss", "gain", "aura_applied", "aura_removed", "death", "revive"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event is delivered to every subscriber after the actor's state changed.
type Event struct {
	Kind     EventKind
	Resource Resource
	// Amount is the resource delta for loss and gain events.
	Amount float64
	// Current is the resource value after the change.
	Current float64
	AuraID  string
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every future event and returns a function that
// removes it. Subscribers run synchronously in registration order.
//
// Precondition: fn must not be nil.
func (a *Actor) Subscribe(fn func(Event)) (unsubscribe func()) {
	a.nextSub++
	id := a.nextSub
	a.subs = append(a.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range a.subs {
			if s.id == id {
				a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

func (a *Actor) emit(e Event) {
	subs := append([]subscriber(nil), a.subs...)
	for _, s := range subs {
		s.fn(e)
	}
}
