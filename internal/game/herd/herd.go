// Package herd keeps an explicitly owned roster of creatures and the
// aggregate queries spawners use, such as the roster's average level.
package herd

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/observability"
)

// NoMembers is returned by AverageLevel when no member has a level.
const NoMembers = -1

// Member is anything a herd can hold. *actor.Actor satisfies it.
type Member interface {
	Name() string
}

// Leveled is a member that carries a level.
type Leveled interface {
	Member
	Level() int
}

// Herd is a roster of spawned creatures. Members lacking a level are
// pruned when an aggregate query finds them.
// All methods are safe for concurrent use.
type Herd struct {
	mu      sync.RWMutex
	name    string
	members []Member
	logger  *zap.Logger
}

// New creates an empty herd. logger may be nil.
func New(name string, logger *zap.Logger) *Herd {
	return &Herd{
		name:   name,
		logger: observability.Component(logger, "herd").With(zap.String("herd", name)),
	}
}

// Name returns the herd's name.
func (h *Herd) Name() string { return h.name }

// Add appends m to the roster.
//
// Precondition: m must not be nil.
func (h *Herd) Add(m Member) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.members = append(h.members, m)
}

// Remove drops m from the roster.
//
// Postcondition: returns false when m was not a member.
func (h *Herd) Remove(m Member) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, x := range h.members {
		if x == m {
			h.members = append(h.members[:i], h.members[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether m is on the roster.
func (h *Herd) Contains(m Member) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Contains(h.members, m)
}

// Members returns a copy of the roster in insertion order.
func (h *Herd) Members() []Member {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Member(nil), h.members...)
}

// Len returns the number of members.
func (h *Herd) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members)
}

// AverageLevel returns the mean level of the leveled members. Members
// without a level are dropped from the roster and logged.
//
// Postcondition: returns NoMembers when no leveled member remains; never NaN.
func (h *Herd) AverageLevel() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sum float64
	kept := h.members[:0]
	for _, m := range h.members {
		l, ok := m.(Leveled)
		if !ok {
			h.logger.Warn("dropping herd member without a level", zap.String("member", m.Name()))
			continue
		}
		sum += float64(l.Level())
		kept = append(kept, m)
	}
	clear(h.members[len(kept):])
	h.members = kept

	if len(kept) == 0 {
		return NoMembers
	}
	return sum / float64(len(kept))
}
