package combat

import "math"

// Defender is the read/absorb view of a damage target used by ResolveDamage.
type Defender interface {
	// Absorb lets one matching absorption effect soak raw. It returns the
	// amount left after absorption and whether any effect matched.
	Absorb(c Category, schools []School, raw float64) (remaining float64, absorbed bool)
	// IncomingDamage returns the incoming damage modifier table.
	IncomingDamage() *ModifierTable
	// Mitigation returns the flat reduction and scaling factor for c.
	// ok is false for categories that bypass mitigation.
	Mitigation(c Category) (reduction, scale float64, ok bool)
}

// Recipient is the read view of a healing target used by ResolveHealing.
type Recipient interface {
	IncomingHealing() *ModifierTable
}

// DamageResult describes one pass through the damage pipeline.
type DamageResult struct {
	// Amount is the final, non-negative, rounded damage.
	Amount float64
	// Absorbed is true when an absorption effect matched.
	Absorbed bool
	// Immune is true when the averaged incoming modifier negated the hit.
	Immune bool
	// Modifier is the averaged incoming modifier that was applied.
	Modifier float64
}

// ResolveDamage runs raw through absorption, averaged incoming modifiers,
// then flat reduction and scaling mitigation.
//
// Precondition: d must be non-nil.
// Postcondition: result.Amount >= 0 and is a whole number; result.Amount == 0
// whenever the averaged incoming modifier is <= Immune.
func ResolveDamage(d Defender, c Category, schools []School, raw float64) DamageResult {
	var res DamageResult

	amount := raw
	if remaining, ok := d.Absorb(c, schools, raw); ok {
		res.Absorbed = true
		amount = math.Min(amount, remaining)
	}

	res.Modifier = d.IncomingDamage().Average(c, schools)
	if res.Modifier <= Immune {
		res.Immune = true
		return res
	}
	amount *= math.Max(0, 1+res.Modifier)

	if reduction, scale, ok := d.Mitigation(c); ok {
		amount = (amount - reduction) * scale
	}

	if math.IsNaN(amount) {
		amount = 0
	}
	res.Amount = Round(math.Max(0, amount))
	return res
}

// ResolveHealing returns raw scaled by the summed incoming healing modifiers
// over schools. Negative results are clamped to zero.
//
// Precondition: r must be non-nil.
// Postcondition: Returns a value >= 0.
func ResolveHealing(r Recipient, c Category, schools []School, raw float64) float64 {
	factor := r.IncomingHealing().Sum(c, schools)
	return math.Max(0, raw*(1+factor))
}

// ApplyHealing adds amount to current without exceeding limit.
//
// Postcondition: next <= limit; overheal >= 0 is the part of amount discarded.
func ApplyHealing(current, limit, amount float64) (next, overheal float64) {
	next = current + amount
	if next > limit {
		overheal = next - limit
		next = limit
	}
	next = Round(next)
	if next > limit {
		next = math.Floor(limit)
	}
	return next, overheal
}

// Round rounds half to even. Every resource delta goes through it.
func Round(v float64) float64 {
	return math.RoundToEven(v)
}
