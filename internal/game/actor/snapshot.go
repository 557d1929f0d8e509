package actor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// RawEntry is the persisted form of one raw stat.
type RawEntry struct {
	Base      float64         `json:"base"`
	Modifiers []stat.Modifier `json:"modifiers,omitempty"`
}

// AuraEntry is the persisted form of one aura stack.
type AuraEntry struct {
	ID              string  `json:"id"`
	Count           int     `json:"count"`
	AbsorbRemaining float64 `json:"absorb_remaining,omitempty"`
	// RemainingMs is the time left before expiry; 0 = never expires.
	RemainingMs int64 `json:"remaining_ms,omitempty"`
}

// Snapshot is the complete persisted state of an actor.
type Snapshot struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TemplateID string    `json:"template_id,omitempty"`
	Level      int       `json:"level"`
	Alive      bool      `json:"alive"`
	HP         float64   `json:"hp"`
	MP         float64   `json:"mp"`
	AP         float64   `json:"ap"`

	Raw     [stat.NumRaw]RawEntry `json:"raw"`
	Profile Profile               `json:"profile"`
	// Direct holds modifiers added through ModifyDerived.
	Direct [stat.NumKinds][]stat.Modifier `json:"direct"`
	// Derived is the derived table at capture time. Restore recomputes it.
	Derived [stat.NumKinds]stat.Entry `json:"derived"`
	// Tables are the directly edited modifier tables, without aura contributions.
	Tables    combat.Tables     `json:"tables"`
	Auras     []AuraEntry       `json:"auras,omitempty"`
	Equipment []*inventory.Item `json:"equipment,omitempty"`
	// Herds names the rosters holding the actor when it was saved. The actor
	// does not know its herds; the world fills this in.
	Herds []string `json:"herds,omitempty"`
}

// Snapshot captures the actor's full state. The snapshot shares no mutable
// state with the actor, so it may be encoded on another goroutine.
//
// Postcondition: Restore(a.Snapshot(), ...) yields an actor with identical
// resources, stats, auras and equipment.
func (a *Actor) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:         a.id,
		Name:       a.name,
		TemplateID: a.templateID,
		Level:      a.level,
		Alive:      a.alive,
		HP:         a.resources[HP],
		MP:         a.resources[MP],
		AP:         a.resources[AP],
		Profile:    a.profile.clone(),
		Derived:    a.sheet.Export(),
		Tables:     a.tables,
	}
	for _, it := range a.equipment {
		s.Equipment = append(s.Equipment, it.Clone())
	}
	for r, st := range a.raw {
		s.Raw[r] = RawEntry{Base: st.Base(), Modifiers: st.Modifiers()}
	}
	for k, mods := range a.direct {
		s.Direct[k] = append([]stat.Modifier(nil), mods...)
	}
	now := a.sched.Now()
	for _, st := range a.auras.All() {
		e := AuraEntry{ID: st.Def.ID, Count: st.Count, AbsorbRemaining: st.AbsorbRemaining}
		if st.ExpiresAt > 0 {
			e.RemainingMs = max(1, (st.ExpiresAt - now).Milliseconds())
		}
		s.Auras = append(s.Auras, e)
	}
	return s
}

// Restore rebuilds an actor from s. Aura definitions are resolved through
// auras; expiries are rescheduled relative to opts.Scheduler's current time
// and regeneration restarts for every resource below its max.
//
// Precondition: opts.Scheduler must not be nil.
// Postcondition: on error no actor is returned.
func Restore(s *Snapshot, auras AuraLookup, opts Options) (*Actor, error) {
	a := newActor(s.ID, s.Name, s.Level, opts)
	a.templateID = s.TemplateID
	a.alive = s.Alive
	for r, e := range s.Raw {
		st := stat.New(stat.CategoryOther, e.Base)
		for _, m := range e.Modifiers {
			st.Modify(m.Amount, m.Additive)
		}
		a.raw[r] = st
	}
	a.profile = s.Profile.clone()
	for k, mods := range s.Direct {
		a.direct[k] = append([]stat.Modifier(nil), mods...)
	}
	a.tables = s.Tables
	a.equipment = make([]*inventory.Item, 0, len(s.Equipment))
	for _, it := range s.Equipment {
		a.equipment = append(a.equipment, it.Clone())
	}

	defs := make([]*aura.Def, len(s.Auras))
	for i, e := range s.Auras {
		var def *aura.Def
		ok := false
		if auras != nil {
			def, ok = auras.Get(e.ID)
		}
		if !ok {
			return nil, fmt.Errorf("actor.Restore %s: %w: %q", s.ID, ErrUnknownAura, e.ID)
		}
		if e.Count < 1 || e.Count > def.StackLimit() {
			return nil, fmt.Errorf("actor.Restore %s: aura %q count %d outside [1, %d]", s.ID, e.ID, e.Count, def.StackLimit())
		}
		defs[i] = def
	}
	for i, e := range s.Auras {
		def := defs[i]
		st := &aura.Stack{Def: def, Count: e.Count, AbsorbRemaining: e.AbsorbRemaining}
		if e.RemainingMs > 0 {
			d := time.Duration(e.RemainingMs) * time.Millisecond
			id := def.ID
			a.expiries[id] = a.sched.After(d, func() { a.expire(id) })
			st.ExpiresAt = a.sched.Now() + d
		}
		a.auras.Restore(st)
	}

	a.resources = [numResources]float64{s.HP, s.MP, s.AP}
	a.rebuild()
	if a.alive {
		for r := range numResources {
			if a.resources[r] < a.Max(Resource(r)) {
				a.regens[r].Loss()
			}
		}
	}
	return a, nil
}
