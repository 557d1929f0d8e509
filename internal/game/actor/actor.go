package actor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/regen"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
	"github.com/cory-johannsen/actorcore/internal/observability"
)

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 255
)

// Hooks receives aura lifecycle callbacks, typically to run content scripts.
type Hooks interface {
	OnAuraApplied(a *Actor, st *aura.Stack)
	OnAuraRemoved(a *Actor, def *aura.Def)
}

// Options configure a new Actor.
type Options struct {
	// Scheduler drives aura expiry and regeneration. Required.
	Scheduler *regen.Scheduler
	// Timings defaults to DefaultRegenTimings for every zero field.
	Timings RegenTimings
	Logger  *zap.Logger
	Hooks   Hooks
}

// Actor is one living entity. Every method must be called from the
// goroutine that advances its Scheduler.
//
// Invariant: 0 <= Current(r) <= Max(r) for every resource after any
// exported call returns.
type Actor struct {
	id         uuid.UUID
	name       string
	templateID string
	level      int
	alive      bool

	raw     [stat.NumRaw]*stat.Stat
	profile Profile
	// direct holds derived-stat modifiers applied through ModifyDerived.
	direct [stat.NumKinds][]stat.Modifier
	sheet  *stat.Sheet

	// tables are edited directly; effective adds the aura contributions.
	tables    combat.Tables
	effective combat.Tables

	auras    *aura.Set
	expiries map[string]*regen.Handle
	// exhausted collects shields evicted mid-pipeline; settled afterwards.
	exhausted []*aura.Def

	equipment []*inventory.Item

	resources [numResources]float64
	regens    [numResources]*regen.Regenerator

	subs    []subscriber
	nextSub int

	sched  *regen.Scheduler
	hooks  Hooks
	logger *zap.Logger
}

// New creates a living actor at full resources with zero raw stats and the
// default profile.
//
// Precondition: opts.Scheduler must not be nil.
// Postcondition: Alive() is true and Current(r) == Max(r) for every resource.
func New(name string, level int, opts Options) *Actor {
	a := newActor(uuid.New(), name, level, opts)
	a.rebuild()
	a.fill()
	return a
}

func newActor(id uuid.UUID, name string, level int, opts Options) *Actor {
	if opts.Scheduler == nil {
		panic("actor.New: Scheduler must not be nil")
	}
	a := &Actor{
		id:       id,
		name:     name,
		level:    clampLevel(level),
		alive:    true,
		profile:  DefaultProfile(),
		sheet:    stat.NewSheet(),
		auras:    aura.NewSet(),
		expiries: make(map[string]*regen.Handle),
		sched:    opts.Scheduler,
		hooks:    opts.Hooks,
		logger:   observability.Component(opts.Logger, "actor").With(zap.String("actor", name)),
	}
	for r := range stat.NumRaw {
		a.raw[r] = stat.New(stat.CategoryOther, 0)
	}
	timings := opts.Timings.withDefaults()
	for r := range numResources {
		res := Resource(r)
		a.regens[r] = regen.NewRegenerator(res.String(), a.sched, &pool{a: a, r: res}, timings.delay(res), timings.Tick, a.logger)
	}
	a.Subscribe(func(e Event) {
		if e.Kind == EventLoss {
			a.regens[e.Resource].Loss()
		}
	})
	return a
}

func clampLevel(l int) int {
	return max(MinLevel, min(l, MaxLevel))
}

func (a *Actor) fill() {
	for r := range numResources {
		a.resources[r] = a.Max(Resource(r))
	}
}

// ID returns the actor's unique identifier.
func (a *Actor) ID() uuid.UUID { return a.id }

// Name returns the display name.
func (a *Actor) Name() string { return a.name }

// TemplateID returns the template the actor was built from, if any.
func (a *Actor) TemplateID() string { return a.templateID }

// Level returns the actor's level, never below MinLevel.
func (a *Actor) Level() int { return a.level }

// Alive reports whether the actor is alive.
func (a *Actor) Alive() bool { return a.alive }

// Current returns the current value of r.
func (a *Actor) Current(r Resource) float64 { return a.resources[r] }

// Max returns the total of r's Max derived stat.
func (a *Actor) Max(r Resource) float64 { return a.sheet.Total(r.MaxKind()) }

// Total returns the cached total of a derived stat.
func (a *Actor) Total(k stat.Kind) float64 { return a.sheet.Total(k) }

// DerivedComponent returns one cell of the (Kind, Component) table.
func (a *Actor) DerivedComponent(k stat.Kind, c stat.Component) float64 {
	return a.sheet.Component(k, c)
}

// RegenState returns the regeneration machine state of r.
func (a *Actor) RegenState(r Resource) string { return a.regens[r].State() }

// SetLevel changes the level, clamped to [MinLevel, MaxLevel], and re-derives.
func (a *Actor) SetLevel(level int) {
	a.level = clampLevel(level)
	a.rebuild()
}

// SetRawBase replaces the base of a raw stat, keeping its modifiers.
func (a *Actor) SetRawBase(r stat.Raw, base float64) {
	old := a.raw[r]
	next := stat.New(stat.CategoryOther, base)
	for _, m := range old.Modifiers() {
		next.Modify(m.Amount, m.Additive)
	}
	a.raw[r] = next
	a.rebuild()
}

// ModifyRaw appends a modifier to a raw stat and re-derives.
func (a *Actor) ModifyRaw(r stat.Raw, amount float64, additive bool) {
	a.raw[r].Modify(amount, additive)
	a.rebuild()
}

// ResetRawModifiers clears the modifiers of every raw stat.
func (a *Actor) ResetRawModifiers() {
	for _, s := range a.raw {
		s.Reset()
	}
	a.rebuild()
}

// RawTotal returns a raw stat's value plus every equipped item's contribution.
func (a *Actor) RawTotal(r stat.Raw) float64 {
	totals := a.rawTotals()
	return totals[r]
}

// ModifyDerived appends a modifier directly to a derived stat.
func (a *Actor) ModifyDerived(k stat.Kind, amount float64, additive bool) {
	a.direct[k] = append(a.direct[k], stat.Modifier{Amount: amount, Additive: additive})
	a.rebuild()
}

// ResetDerivedModifiers clears every modifier added through ModifyDerived.
func (a *Actor) ResetDerivedModifiers() {
	a.direct = [stat.NumKinds][]stat.Modifier{}
	a.rebuild()
}

// Profile returns a copy of the formula constants.
func (a *Actor) Profile() Profile { return a.profile.clone() }

// SetProfile replaces the formula constants and re-derives.
func (a *Actor) SetProfile(p Profile) {
	a.profile = p.clone()
	a.rebuild()
}

// EditIncomingDamage adds percent to the incoming damage modifier of (c, s).
func (a *Actor) EditIncomingDamage(c combat.Category, s combat.School, percent float64) {
	a.tables.IncomingDamage.Add(c, s, percent)
	a.rebuild()
}

// EditOutgoingDamage adds percent to the outgoing damage modifier of (c, s).
func (a *Actor) EditOutgoingDamage(c combat.Category, s combat.School, percent float64) {
	a.tables.OutgoingDamage.Add(c, s, percent)
	a.rebuild()
}

// EditIncomingHealing adds percent to the incoming healing modifier of (c, s).
func (a *Actor) EditIncomingHealing(c combat.Category, s combat.School, percent float64) {
	a.tables.IncomingHealing.Add(c, s, percent)
	a.rebuild()
}

// EditOutgoingHealing adds percent to the outgoing healing modifier of (c, s).
func (a *Actor) EditOutgoingHealing(c combat.Category, s combat.School, percent float64) {
	a.tables.OutgoingHealing.Add(c, s, percent)
	a.rebuild()
}

// Tables returns the effective modifier tables: direct edits plus auras.
func (a *Actor) Tables() combat.Tables { return a.effective }

func (a *Actor) rawTotals() [stat.NumRaw]float64 {
	var totals [stat.NumRaw]float64
	for r, s := range a.raw {
		totals[r] = s.Value()
	}
	for _, it := range a.equipment {
		c := it.Contributions()
		for r := range totals {
			totals[r] += c[r]
		}
	}
	return totals
}

// rebuild recomputes every derived stat and the effective tables from raw
// stats, equipment, direct modifiers and auras, then clamps resources.
func (a *Actor) rebuild() {
	totals := a.rawTotals()
	lvl := float64(a.level)
	for k := range stat.NumKinds {
		kind := stat.Kind(k)
		if v, ok := a.profile.Authored[kind]; ok {
			a.sheet.SetBase(kind, v)
			continue
		}
		if in := a.profile.inputs(kind, &totals, lvl); in != nil {
			a.sheet.SetInputs(kind, in)
		} else {
			a.sheet.SetBase(kind, scalarBase(kind))
		}
	}

	a.sheet.ResetModifiers()
	for k, mods := range a.direct {
		for _, m := range mods {
			a.sheet.Modify(stat.Kind(k), m.Amount, m.Additive)
		}
	}
	contributions, tables := a.auras.Contributions()
	for _, c := range contributions {
		a.sheet.Modify(c.Stat, c.Amount, c.Additive)
	}

	a.effective = a.tables
	a.effective.Merge(&tables)

	for r := range numResources {
		a.resources[r] = max(0, min(a.resources[r], a.Max(Resource(r))))
	}
}

// pool adapts one resource of an actor for its Regenerator.
type pool struct {
	a *Actor
	r Resource
}

func (p *pool) Alive() bool      { return p.a.alive }
func (p *pool) Current() float64 { return p.a.resources[p.r] }
func (p *pool) Max() float64     { return p.a.Max(p.r) }
func (p *pool) Rate() float64    { return p.a.sheet.Total(p.r.RegenKind()) }

func (p *pool) Gain(amount float64) {
	p.a.resources[p.r] = max(0, min(p.a.resources[p.r]+amount, p.Max()))
	p.a.emit(Event{Kind: EventGain, Resource: p.r, Amount: amount, Current: p.a.resources[p.r]})
}
