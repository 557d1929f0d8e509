package stat

// Derived is a Stat whose base comes from its category formula applied to an
// input vector. A Derived without inputs keeps a stored scalar base instead;
// that is how hand-authored NPC values are expressed.
type Derived struct {
	Stat
	inputs []float64
}

// NewDerived returns a Derived computed from inputs.
//
// Postcondition: Base() == FormulaFor(category)(inputs).
func NewDerived(category Category, inputs []float64) *Derived {
	d := &Derived{Stat: Stat{category: category}}
	d.SetInputs(inputs)
	return d
}

// NewScalar returns a Derived with a stored base and no inputs.
func NewScalar(category Category, base float64) *Derived {
	return &Derived{Stat: Stat{category: category, base: base}}
}

// HasInputs reports whether the base is formula-driven.
func (d *Derived) HasInputs() bool { return d.inputs != nil }

// Inputs returns a copy of the input vector, or nil for a scalar stat.
func (d *Derived) Inputs() []float64 {
	if d.inputs == nil {
		return nil
	}
	out := make([]float64, len(d.inputs))
	copy(out, d.inputs)
	return out
}

// SetInputs replaces the input vector and recomputes the base.
// A nil vector switches the stat to scalar mode and keeps the current base.
func (d *Derived) SetInputs(inputs []float64) {
	if inputs == nil {
		d.inputs = nil
		return
	}
	d.inputs = append(make([]float64, 0, len(inputs)), inputs...)
	d.Recompute()
}

// SetBase stores a scalar base and drops any input vector.
func (d *Derived) SetBase(base float64) {
	d.inputs = nil
	d.base = base
}

// Recompute reapplies the formula to the current inputs and returns the base.
// Scalar stats return their stored base unchanged.
func (d *Derived) Recompute() float64 {
	if d.inputs != nil {
		d.base = FormulaFor(d.category)(d.inputs)
	}
	return d.base
}
