package stat

import "math"

// Formula computes a derived base from an ordered input vector.
// Formulas are pure: identical inputs always produce identical output.
type Formula func(inputs []float64) float64

// Input layouts per category. Level inputs below 1 are treated as 1.
//
//	Resource: [value, level]
//	Regen:    [value, level, min, max]
//	Attack:   [value, level]
//	Accuracy: [value, level]
//	Critical: [v1, v2, coeff, level, min, max]
//
// CastSpeed, MoveSpeed, Defense and Other always yield 0.
const (
	resourceInputs = 2
	regenInputs    = 4
	attackInputs   = 2
	accuracyInputs = 2
	criticalInputs = 6
)

// FormulaFor returns the formula for c.
//
// Postcondition: Returns a non-nil Formula; unimplemented categories return zero.
func FormulaFor(c Category) Formula {
	switch c {
	case CategoryResource:
		return resource
	case CategoryRegen:
		return regen
	case CategoryAttack:
		return attack
	case CategoryAccuracy:
		return accuracy
	case CategoryCritical:
		return critical
	default:
		return zero
	}
}

func level(v float64) float64 {
	return math.Max(1, v)
}

func resource(in []float64) float64 {
	if len(in) < resourceInputs {
		return 0
	}
	return in[0] * 10 * level(in[1]) / 100
}

func regen(in []float64) float64 {
	if len(in) < regenInputs {
		return 0
	}
	lo, hi := in[2], in[3]
	limit := 100 + math.Pow(math.Sqrt(level(in[1])), 3)
	return lo + (hi-lo)*in[0]/limit
}

func attack(in []float64) float64 {
	if len(in) < attackInputs {
		return 0
	}
	return in[0] * (1 + level(in[1])/100)
}

func accuracy(in []float64) float64 {
	if len(in) < accuracyInputs || in[0] <= 0 {
		return 0
	}
	ratio := in[0] / level(in[1])
	return math.Pow(ratio, 1+math.Sqrt(ratio))
}

func critical(in []float64) float64 {
	if len(in) < criticalInputs {
		return 0
	}
	lo, hi := in[4], in[5]
	return lo + (hi-lo)*(in[0]+in[1])*in[2]/level(in[3])
}

func zero([]float64) float64 { return 0 }
