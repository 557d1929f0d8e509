package aura

import (
	"errors"
	"math"
	"time"

	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// NotPresent is returned by Set.Count for an aura in neither list.
const NotPresent = -1

// ErrNegativeCount is returned when Apply is asked to add a negative number of stacks.
var ErrNegativeCount = errors.New("aura: stack count must not be negative")

// Stack groups every application of one aura on one actor.
//
// Invariant: 1 <= Count <= Def.StackLimit() while the stack is in a Set.
type Stack struct {
	Def   *Def
	Count int
	// AbsorbRemaining is the shield budget left; 0 for non-absorb auras.
	AbsorbRemaining float64
	// ExpiresAt is the simulated time of expiry; 0 = never.
	ExpiresAt time.Duration
}

// Set holds the buff and debuff stacks of one actor in application order.
// It is not safe for concurrent use; the owning actor serialises access.
type Set struct {
	buffs   []*Stack
	debuffs []*Stack
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) list(helpful bool) *[]*Stack {
	if helpful {
		return &s.buffs
	}
	return &s.debuffs
}

func find(list []*Stack, id string) (int, *Stack) {
	for i, st := range list {
		if st.Def.ID == id {
			return i, st
		}
	}
	return -1, nil
}

// Apply adds count stacks of def, creating the stack on first application.
// Stacks are capped at def.StackLimit(). Applying 0 stacks is a no-op.
// A re-application refreshes the absorb budget to match the new count.
//
// Precondition: def must not be nil.
// Postcondition: Count(def.ID) <= def.StackLimit(); returns the affected stack
// (nil when nothing changed).
func (s *Set) Apply(def *Def, count int) (*Stack, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if count == 0 {
		return nil, nil
	}
	list := s.list(def.HasHelpfulEffects())
	_, st := find(*list, def.ID)
	if st == nil {
		st = &Stack{Def: def}
		*list = append(*list, st)
	}
	st.Count = min(st.Count+count, def.StackLimit())
	if def.Absorb != nil {
		st.AbsorbRemaining = def.Absorb.Amount * float64(st.Count)
	}
	return st, nil
}

// Count returns the stack count of id, or NotPresent.
func (s *Set) Count(id string) int {
	if _, st := find(s.buffs, id); st != nil {
		return st.Count
	}
	if _, st := find(s.debuffs, id); st != nil {
		return st.Count
	}
	return NotPresent
}

// Get returns the stack for id.
func (s *Set) Get(id string) (*Stack, bool) {
	if _, st := find(s.buffs, id); st != nil {
		return st, true
	}
	if _, st := find(s.debuffs, id); st != nil {
		return st, true
	}
	return nil, false
}

// Deplete removes one stack of id and evicts the entry at zero.
//
// Postcondition: Returns the new count (0 when evicted), or NotPresent if id is absent.
func (s *Set) Deplete(id string) int {
	for _, list := range []*[]*Stack{&s.buffs, &s.debuffs} {
		i, st := find(*list, id)
		if st == nil {
			continue
		}
		st.Count--
		if st.Count <= 0 {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return 0
		}
		if st.Def.Absorb != nil {
			st.AbsorbRemaining = math.Min(st.AbsorbRemaining, st.Def.Absorb.Amount*float64(st.Count))
		}
		return st.Count
	}
	return NotPresent
}

// Remove evicts id regardless of count.
//
// Postcondition: Count(id) == NotPresent; reports whether a stack was removed.
func (s *Set) Remove(id string) bool {
	for _, list := range []*[]*Stack{&s.buffs, &s.debuffs} {
		if i, st := find(*list, id); st != nil {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Buffs returns the helpful stacks in application order.
func (s *Set) Buffs() []*Stack { return append([]*Stack(nil), s.buffs...) }

// Debuffs returns the harmful stacks in application order.
func (s *Set) Debuffs() []*Stack { return append([]*Stack(nil), s.debuffs...) }

// All returns buffs followed by debuffs.
func (s *Set) All() []*Stack {
	out := make([]*Stack, 0, len(s.buffs)+len(s.debuffs))
	out = append(out, s.buffs...)
	return append(out, s.debuffs...)
}

// Restore inserts st as-is, used when rebuilding an actor from a snapshot.
//
// Precondition: st.Def is non-nil and 1 <= st.Count <= st.Def.StackLimit().
func (s *Set) Restore(st *Stack) {
	list := s.list(st.Def.HasHelpfulEffects())
	if i, existing := find(*list, st.Def.ID); existing != nil {
		(*list)[i] = st
		return
	}
	*list = append(*list, st)
}

// AbsorbHit records one shield soaking the hit for one school.
type AbsorbHit struct {
	Stack  *Stack
	School combat.School
	// Remaining is max(0, raw - budget before the hit).
	Remaining float64
	// Exhausted is true when the shield was used up and evicted.
	Exhausted bool
}

// AbsorbResult is the outcome of Absorb across every queried school.
type AbsorbResult struct {
	// Remaining is the smallest per-school remainder.
	Remaining float64
	Hits      []AbsorbHit
}

// Absorb queries each school in turn. For each school the first buff whose
// shield covers (c, school) soaks raw and has its budget reduced by raw
// itself; an exhausted shield is evicted at once.
//
// Postcondition: ok is false when no school matched a shield; otherwise
// res.Remaining is the minimum of raw and every hit's remainder.
func (s *Set) Absorb(c combat.Category, schools []combat.School, raw float64) (res AbsorbResult, ok bool) {
	res.Remaining = raw
	for _, school := range schools {
		i, st := s.firstShield(c, school)
		if st == nil {
			continue
		}
		hit := AbsorbHit{Stack: st, School: school, Remaining: math.Max(0, raw-st.AbsorbRemaining)}
		st.AbsorbRemaining -= raw
		if st.AbsorbRemaining <= 0 {
			st.AbsorbRemaining = 0
			s.buffs = append(s.buffs[:i], s.buffs[i+1:]...)
			hit.Exhausted = true
		}
		res.Hits = append(res.Hits, hit)
		res.Remaining = math.Min(res.Remaining, hit.Remaining)
	}
	return res, len(res.Hits) > 0
}

func (s *Set) firstShield(c combat.Category, school combat.School) (int, *Stack) {
	for i, st := range s.buffs {
		if st.Def.Absorb != nil && st.Def.Absorb.Matches(c, school) {
			return i, st
		}
	}
	return -1, nil
}

// HasAbsorb reports whether any buff is a damage shield.
func (s *Set) HasAbsorb() bool {
	for _, st := range s.buffs {
		if st.Def.Absorb != nil {
			return true
		}
	}
	return false
}

// StatContribution is one derived-stat modifier produced by active stacks.
type StatContribution struct {
	AuraID   string
	Stat     stat.Kind
	Amount   float64
	Additive bool
}

// Contributions returns the stat modifiers and table adjustments of every
// active stack, each scaled by its count.
func (s *Set) Contributions() ([]StatContribution, combat.Tables) {
	var stats []StatContribution
	var tables combat.Tables
	for _, st := range s.All() {
		n := float64(st.Count)
		for _, e := range st.Def.Stats {
			stats = append(stats, StatContribution{
				AuraID:   st.Def.ID,
				Stat:     e.Stat,
				Amount:   e.Amount * n,
				Additive: e.Additive,
			})
		}
		st.Def.apply(&tables, st.Count)
	}
	return stats, tables
}
