package actor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// ErrNotResource is returned when damage targets a derived stat other than MaxHP, MaxMP or MaxAP.
var ErrNotResource = errors.New("actor: stat is not a resource")

// Percent bounds for SetPercentHP and Revive.
const (
	MinPercent = 0.1
	MaxPercent = 100.0
)

// HealingResult describes one healing application.
type HealingResult struct {
	// Amount is the healing after incoming modifiers.
	Amount float64
	// Applied is the HP actually restored.
	Applied float64
	// Overheal is the part of Amount above MaxHP.
	Overheal float64
}

// defender exposes an actor to the combat pipeline.
type defender struct{ a *Actor }

func (d defender) Absorb(c combat.Category, schools []combat.School, raw float64) (float64, bool) {
	res, ok := d.a.auras.Absorb(c, schools, raw)
	if !ok {
		return raw, false
	}
	for _, hit := range res.Hits {
		d.a.logger.Debug("damage absorbed",
			zap.String("aura", hit.Stack.Def.ID),
			zap.Stringer("school", hit.School),
			zap.Float64("raw", raw),
			zap.Float64("remaining", hit.Remaining),
			zap.Float64("budget_left", hit.Stack.AbsorbRemaining),
		)
		if hit.Exhausted {
			d.a.exhausted = append(d.a.exhausted, hit.Stack.Def)
		}
	}
	return res.Remaining, true
}

func (d defender) IncomingDamage() *combat.ModifierTable  { return &d.a.effective.IncomingDamage }
func (d defender) IncomingHealing() *combat.ModifierTable { return &d.a.effective.IncomingHealing }

func (d defender) Mitigation(c combat.Category) (reduction, scale float64, ok bool) {
	switch c {
	case combat.Physical:
		return d.a.sheet.Total(stat.PhysicalReduction), d.a.sheet.Total(stat.PhysicalMitigation), true
	case combat.Magical:
		return d.a.sheet.Total(stat.MagicalReduction), d.a.sheet.Total(stat.MagicalMitigation), true
	}
	return 0, 0, false
}

// TakeDamage subtracts rounded raw from HP with no mitigation.
// Negative amounts are treated as zero. A loss event fires either way.
//
// Postcondition: returns the HP removed.
func (a *Actor) TakeDamage(raw float64) float64 {
	return a.lose(HP, combat.Round(max(0, raw)))
}

// TakeResourceDamage subtracts rounded raw from the resource capped by k,
// with no mitigation.
//
// Postcondition: returns ErrNotResource, and changes nothing, unless k is MaxHP, MaxMP or MaxAP.
func (a *Actor) TakeResourceDamage(k stat.Kind, raw float64) (float64, error) {
	r, ok := ResourceFor(k)
	if !ok {
		a.logger.Warn("damage ignored: not a resource", zap.Stringer("stat", k), zap.Float64("raw", raw))
		return 0, fmt.Errorf("%w: %s", ErrNotResource, k)
	}
	return a.lose(r, combat.Round(max(0, raw))), nil
}

// TakeMitigatedDamage runs raw through the damage pipeline and subtracts
// the result from HP.
func (a *Actor) TakeMitigatedDamage(c combat.Category, schools []combat.School, raw float64) combat.DamageResult {
	res, _ := a.TakeDamageTo(stat.MaxHP, c, schools, raw)
	return res
}

// TakeDamageTo runs raw through the damage pipeline and subtracts the
// result from the resource capped by k.
//
// Postcondition: returns ErrNotResource, and changes nothing, unless k is MaxHP, MaxMP or MaxAP.
func (a *Actor) TakeDamageTo(k stat.Kind, c combat.Category, schools []combat.School, raw float64) (combat.DamageResult, error) {
	r, ok := ResourceFor(k)
	if !ok {
		a.logger.Warn("damage ignored: not a resource", zap.Stringer("stat", k), zap.Stringer("category", c), zap.Float64("raw", raw))
		return combat.DamageResult{}, fmt.Errorf("%w: %s", ErrNotResource, k)
	}
	res := a.ResolveDamage(c, schools, raw)
	a.lose(r, res.Amount)
	return res, nil
}

// ResolveDamage runs raw through the damage pipeline without touching
// resources. Absorb shields are still consumed.
func (a *Actor) ResolveDamage(c combat.Category, schools []combat.School, raw float64) combat.DamageResult {
	res := combat.ResolveDamage(defender{a}, c, schools, raw)
	if res.Immune {
		a.logger.Debug("damage negated by immunity",
			zap.Stringer("category", c),
			zap.Float64("modifier", res.Modifier),
			zap.Float64("raw", raw),
		)
	}
	a.settleExhausted()
	return res
}

// ReceiveHealing runs raw through the incoming healing modifiers and adds
// the result to HP, capped at MaxHP. Overhealing is logged and reported.
func (a *Actor) ReceiveHealing(c combat.Category, schools []combat.School, raw float64) HealingResult {
	amount := combat.ResolveHealing(defender{a}, c, schools, raw)
	before := a.resources[HP]
	next, over := combat.ApplyHealing(before, a.Max(HP), amount)
	a.resources[HP] = max(0, next)
	if over > 0 {
		a.logger.Debug("overheal", zap.Float64("healing", amount), zap.Float64("excess", over))
	}
	res := HealingResult{Amount: amount, Applied: a.resources[HP] - before, Overheal: over}
	a.emit(Event{Kind: EventGain, Resource: HP, Amount: res.Applied, Current: a.resources[HP]})
	return res
}

// SetPercentHP sets HP to percent of MaxHP; percent is clamped to [MinPercent, MaxPercent].
func (a *Actor) SetPercentHP(percent float64) {
	a.setPercent(HP, percent)
}

func (a *Actor) setPercent(r Resource, percent float64) {
	percent = max(MinPercent, min(percent, MaxPercent))
	a.resources[r] = a.Max(r) * percent / 100
}

// Kill marks the actor dead, empties HP and stops regeneration.
func (a *Actor) Kill() {
	a.alive = false
	a.resources[HP] = 0
	for _, rg := range a.regens {
		rg.Stop()
	}
	a.emit(Event{Kind: EventDeath})
}

// Revive marks the actor alive, sets every resource to percent of its max
// and fires a loss event per resource so regeneration restarts.
func (a *Actor) Revive(percent float64) {
	a.alive = true
	for r := range numResources {
		a.setPercent(Resource(r), percent)
	}
	a.emit(Event{Kind: EventRevive, Current: a.resources[HP]})
	for r := range numResources {
		res := Resource(r)
		a.emit(Event{Kind: EventLoss, Resource: res, Current: a.resources[res]})
	}
}

func (a *Actor) lose(r Resource, amount float64) float64 {
	before := a.resources[r]
	a.resources[r] = max(0, before-amount)
	taken := before - a.resources[r]
	if a.resources[r] == 0 && before > 0 {
		a.logger.Debug("resource depleted", zap.Stringer("resource", r))
	}
	a.emit(Event{Kind: EventLoss, Resource: r, Amount: taken, Current: a.resources[r]})
	return taken
}
