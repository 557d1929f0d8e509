package actor

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/aura"
)

// ApplyAura adds count stacks of def. Timed auras (re)start their expiry
// from the latest application.
//
// Postcondition: returns the resulting stack count, or aura.NotPresent when
// count is 0 and the aura was absent.
func (a *Actor) ApplyAura(def *aura.Def, count int) (int, error) {
	st, err := a.auras.Apply(def, count)
	if err != nil {
		a.logger.Warn("aura application rejected", zap.String("aura", def.ID), zap.Int("count", count), zap.Error(err))
		return a.auras.Count(def.ID), err
	}
	if st == nil {
		return a.auras.Count(def.ID), nil
	}
	if d := def.Duration(); d > 0 {
		if h, ok := a.expiries[def.ID]; ok {
			h.Cancel()
		}
		id := def.ID
		a.expiries[id] = a.sched.After(d, func() { a.expire(id) })
		st.ExpiresAt = a.sched.Now() + d
	}
	a.rebuild()
	if a.hooks != nil {
		a.hooks.OnAuraApplied(a, st)
	}
	a.emit(Event{Kind: EventAuraApplied, AuraID: def.ID})
	return st.Count, nil
}

// AuraStackCount returns the stack count of id, or aura.NotPresent.
func (a *Actor) AuraStackCount(id string) int { return a.auras.Count(id) }

// Auras returns every active stack, buffs first.
func (a *Actor) Auras() []*aura.Stack { return a.auras.All() }

// Buffs returns the helpful stacks in application order.
func (a *Actor) Buffs() []*aura.Stack { return a.auras.Buffs() }

// Debuffs returns the harmful stacks in application order.
func (a *Actor) Debuffs() []*aura.Stack { return a.auras.Debuffs() }

// DepleteAura removes one stack of id, evicting the aura at zero.
//
// Postcondition: returns the remaining count, or aura.NotPresent when id was absent.
func (a *Actor) DepleteAura(id string) int {
	st, ok := a.auras.Get(id)
	if !ok {
		a.logger.Debug("deplete ignored: aura not present", zap.String("aura", id))
		return aura.NotPresent
	}
	def := st.Def
	n := a.auras.Deplete(id)
	if n == 0 {
		a.auraGone(def)
	}
	a.rebuild()
	return n
}

// RemoveAura evicts every stack of id.
func (a *Actor) RemoveAura(id string) bool {
	st, ok := a.auras.Get(id)
	if !ok {
		return false
	}
	a.auras.Remove(id)
	a.auraGone(st.Def)
	a.rebuild()
	return true
}

func (a *Actor) expire(id string) {
	delete(a.expiries, id)
	st, ok := a.auras.Get(id)
	if !ok {
		return
	}
	a.logger.Debug("aura expired", zap.String("aura", id))
	a.auras.Remove(id)
	a.auraGone(st.Def)
	a.rebuild()
}

// auraGone runs the removal side effects of an evicted aura.
func (a *Actor) auraGone(def *aura.Def) {
	if h, ok := a.expiries[def.ID]; ok {
		h.Cancel()
		delete(a.expiries, def.ID)
	}
	if a.hooks != nil {
		a.hooks.OnAuraRemoved(a, def)
	}
	a.emit(Event{Kind: EventAuraRemoved, AuraID: def.ID})
}

func (a *Actor) settleExhausted() {
	if len(a.exhausted) == 0 {
		return
	}
	gone := a.exhausted
	a.exhausted = nil
	a.rebuild()
	for _, def := range gone {
		a.logger.Debug("absorb shield exhausted", zap.String("aura", def.ID))
		a.auraGone(def)
	}
}
