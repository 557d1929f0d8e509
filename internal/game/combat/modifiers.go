package combat

// Immune is the incoming modifier at or below which damage is fully negated.
const Immune = -1.0

// ModifierTable maps every (Category, School) pair to a signed fraction,
// where 0.25 means +25% and -1 means total immunity.
type ModifierTable [NumCategories][NumSchools]float64

// Get returns the modifier for (c, s).
//
// Precondition: c.Valid() and s.Valid().
func (t *ModifierTable) Get(c Category, s School) float64 { return t[c][s] }

// Add adds delta to the modifier for (c, s).
//
// Precondition: c.Valid() and s.Valid().
func (t *ModifierTable) Add(c Category, s School, delta float64) { t[c][s] += delta }

// Sum returns the sum of the modifiers for c over schools.
func (t *ModifierTable) Sum(c Category, schools []School) float64 {
	var total float64
	for _, s := range schools {
		total += t[c][s]
	}
	return total
}

// Average returns Sum(c, schools) / len(schools), or 0 when schools is empty.
func (t *ModifierTable) Average(c Category, schools []School) float64 {
	if len(schools) == 0 {
		return 0
	}
	return t.Sum(c, schools) / float64(len(schools))
}

// Merge adds every cell of other into t.
func (t *ModifierTable) Merge(other *ModifierTable) {
	for c := range NumCategories {
		for s := range NumSchools {
			t[c][s] += other[c][s]
		}
	}
}

// Tables groups the four directional modifier tables an actor carries.
type Tables struct {
	IncomingDamage  ModifierTable `json:"incoming_damage"`
	OutgoingDamage  ModifierTable `json:"outgoing_damage"`
	IncomingHealing ModifierTable `json:"incoming_healing"`
	OutgoingHealing ModifierTable `json:"outgoing_healing"`
}

// Merge adds every table of other into t.
func (t *Tables) Merge(other *Tables) {
	t.IncomingDamage.Merge(&other.IncomingDamage)
	t.OutgoingDamage.Merge(&other.OutgoingDamage)
	t.IncomingHealing.Merge(&other.IncomingHealing)
	t.OutgoingHealing.Merge(&other.OutgoingHealing)
}
