package inventory

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

var (
	// ErrNotArmor is returned when an armor operation targets an item without the armor capability.
	ErrNotArmor = errors.New("inventory: item is not armor")
	// ErrNotDistributable is returned when EP is assigned to a stat the slot does not allow.
	ErrNotDistributable = errors.New("inventory: stat is not distributable in this slot")
	// ErrBudgetExceeded is returned when an assignment would push spent EP past the total.
	ErrBudgetExceeded = errors.New("inventory: assignment exceeds EP budget")
	// ErrNegativeAssignment is returned when an assignment would leave spent EP or a stat below zero.
	ErrNegativeAssignment = errors.New("inventory: assignment would go negative")
	// ErrInvalidAssignment is returned for NaN or infinite assignments.
	ErrInvalidAssignment = errors.New("inventory: assignment is not a finite number")
)

// Budget is the Equip Point allowance of an armor piece.
//
// Invariant: 0 <= Spent <= Total; Spent == Σ Assigned.
type Budget struct {
	Total         float64              `json:"total"`
	Max           float64              `json:"max"`
	Spent         float64              `json:"spent"`
	Distributable []stat.Raw           `json:"distributable"`
	Assigned      [stat.NumRaw]float64 `json:"assigned"`
}

// CanDistribute reports whether r accepts EP.
func (b *Budget) CanDistribute(r stat.Raw) bool {
	return slices.Contains(b.Distributable, r)
}

// Assign adds value EP to r.
//
// Postcondition: on error the budget is unchanged; otherwise Spent and Assigned[r] grow by value.
func (b *Budget) Assign(r stat.Raw, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAssignment, value)
	}
	if !b.CanDistribute(r) {
		return fmt.Errorf("%w: %s", ErrNotDistributable, r)
	}
	next := b.Spent + value
	if next > b.Total {
		return fmt.Errorf("%w: %.0f + %.0f > %.0f", ErrBudgetExceeded, b.Spent, value, b.Total)
	}
	if next < 0 || b.Assigned[r]+value < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeAssignment, r)
	}
	b.Spent = next
	b.Assigned[r] += value
	return nil
}

// Reset returns every assigned point.
//
// Postcondition: Spent == 0 and every Assigned entry is 0.
func (b *Budget) Reset() {
	b.Spent = 0
	b.Assigned = [stat.NumRaw]float64{}
}

// Armor is the armor capability of an item.
type Armor struct {
	Weight WeightCategory `json:"weight"`
	Budget Budget         `json:"budget"`
	// Defense and Resistance are the flat reductions granted by the piece.
	Defense    float64 `json:"defense"`
	Resistance float64 `json:"resistance"`
}

// ComputeEP returns the total and maximum EP of a piece.
// Both are 0 for WeightNone.
//
//	total = round(100 × (req/100 + quality/8) × (1 + slotMult/3))
//	max   = round(100 × (req/100 + 1) × (1 + slotMult/3))
func ComputeEP(w WeightCategory, slot Slot, reqLevel int, q Quality) (total, maxEP float64) {
	if w == WeightNone {
		return 0, 0
	}
	levelRatio := float64(reqLevel) / 100
	qualityRatio := float64(q) / float64(NumQualities)
	weighting := 1 + float64(slot.Multiplier())/3
	total = math.RoundToEven(100 * (levelRatio + qualityRatio) * weighting)
	maxEP = math.RoundToEven(100 * (levelRatio + 1) * weighting)
	return total, maxEP
}

// ComputeReductions returns the flat defense and resistance of a piece.
// Both are 0 for WeightNone.
//
//	base = req/2 × (1 + (slotMult + quality)/10)
//	DEF  = round(base × weight)
//	RES  = round(base × (5 − weight))
func ComputeReductions(w WeightCategory, slot Slot, reqLevel int, q Quality) (defense, resistance float64) {
	if w == WeightNone {
		return 0, 0
	}
	base := float64(reqLevel) / 2 * (1 + float64(slot.Multiplier()+int(q))/10)
	defense = math.RoundToEven(base * float64(w))
	resistance = math.RoundToEven(base * float64(NumWeightCategories-int(w)))
	return defense, resistance
}

// recalculate rebuilds the budget and reductions and returns every assigned point.
func (a *Armor) recalculate(slot Slot, reqLevel int, q Quality) {
	a.Budget.Reset()
	a.Budget.Distributable = slot.Distributable()
	a.Budget.Total, a.Budget.Max = ComputeEP(a.Weight, slot, reqLevel, q)
	a.Defense, a.Resistance = 0, 0
	// Back pieces distribute Defense/Resistance by hand instead.
	if !a.Budget.CanDistribute(stat.Defense) && !a.Budget.CanDistribute(stat.Resistance) {
		a.Defense, a.Resistance = ComputeReductions(a.Weight, slot, reqLevel, q)
	}
}

// Contributions returns the raw stat totals the piece grants: assigned EP
// plus the computed Defense and Resistance.
func (a *Armor) Contributions() [stat.NumRaw]float64 {
	out := a.Budget.Assigned
	out[stat.Defense] += a.Defense
	out[stat.Resistance] += a.Resistance
	return out
}
