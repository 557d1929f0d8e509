package stat

// Component selects a column of the derived table.
type Component int

const (
	BaseFromRaw Component = iota
	ModifierSum
	CachedTotal

	numComponents = int(iota)
)

// Sheet holds one Derived per Kind and a cached (Kind, Component) table.
//
// Invariant: table[k][CachedTotal] == table[k][BaseFromRaw] + table[k][ModifierSum]
// after every mutating call; readers never observe a stale total.
// Sheet is not safe for concurrent use.
type Sheet struct {
	stats [NumKinds]*Derived
	table [NumKinds][numComponents]float64
}

// NewSheet returns a Sheet with every Kind as a zero scalar.
func NewSheet() *Sheet {
	s := &Sheet{}
	for k := range NumKinds {
		s.stats[k] = NewScalar(Kind(k).Category(), 0)
	}
	return s
}

func (s *Sheet) refresh(k Kind) {
	d := s.stats[k]
	base := d.Recompute()
	sum := d.ModifierSum()
	s.table[k][BaseFromRaw] = base
	s.table[k][ModifierSum] = sum
	s.table[k][CachedTotal] = base + sum
}

// Total returns the cached total of k.
//
// Precondition: k.Valid().
func (s *Sheet) Total(k Kind) float64 { return s.table[k][CachedTotal] }

// Component returns one cell of the table.
//
// Precondition: k.Valid(); c is BaseFromRaw, ModifierSum or CachedTotal.
func (s *Sheet) Component(k Kind, c Component) float64 { return s.table[k][c] }

// SetInputs makes k formula-driven from inputs.
//
// Postcondition: Component(k, BaseFromRaw) == FormulaFor(k.Category())(inputs).
func (s *Sheet) SetInputs(k Kind, inputs []float64) {
	s.stats[k].SetInputs(inputs)
	s.refresh(k)
}

// SetBase makes k a stored scalar.
func (s *Sheet) SetBase(k Kind, base float64) {
	s.stats[k].SetBase(base)
	s.refresh(k)
}

// Modify appends a modifier to k.
func (s *Sheet) Modify(k Kind, amount float64, additive bool) {
	s.stats[k].Modify(amount, additive)
	s.refresh(k)
}

// ResetModifiers clears the modifiers of every Kind.
func (s *Sheet) ResetModifiers() {
	for k := range NumKinds {
		s.stats[k].Reset()
		s.refresh(Kind(k))
	}
}

// HasInputs reports whether k is formula-driven.
func (s *Sheet) HasInputs(k Kind) bool { return s.stats[k].HasInputs() }

// Inputs returns a copy of k's input vector, or nil when k is a scalar.
func (s *Sheet) Inputs(k Kind) []float64 { return s.stats[k].Inputs() }

// Modifiers returns a copy of k's modifiers.
func (s *Sheet) Modifiers(k Kind) []Modifier { return s.stats[k].Modifiers() }

// Entry is the persisted form of one Kind.
type Entry struct {
	Inputs    []float64  `json:"inputs,omitempty"`
	Base      float64    `json:"base"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
}

// Export returns every Kind's inputs, base and modifiers.
func (s *Sheet) Export() [NumKinds]Entry {
	var out [NumKinds]Entry
	for k, d := range s.stats {
		out[k] = Entry{Inputs: d.Inputs(), Base: d.Base(), Modifiers: d.Modifiers()}
	}
	return out
}

// Import replaces the whole sheet with entries.
//
// Postcondition: Export() equals entries up to recomputation of formula bases.
func (s *Sheet) Import(entries [NumKinds]Entry) {
	for k, e := range entries {
		d := s.stats[k]
		if e.Inputs != nil {
			d.SetInputs(e.Inputs)
		} else {
			d.SetBase(e.Base)
		}
		d.restore(e.Modifiers)
		s.refresh(Kind(k))
	}
}
