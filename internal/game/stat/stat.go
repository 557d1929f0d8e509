// Package stat implements the numeric core of actor progression: a modifier
// accumulator over a base value, derived stats whose base is computed from an
// input vector by a per-category formula, and the per-actor sheet caching
// every derived total.
package stat

import "fmt"

// Category selects the formula a derived stat uses.
type Category int

const (
	CategoryResource Category = iota
	CategoryRegen
	CategoryAttack
	CategoryAccuracy
	CategoryCastSpeed
	CategoryMoveSpeed
	CategoryCritical
	CategoryDefense
	CategoryOther
)

var categoryNames = [...]string{
	CategoryResource:  "resource",
	CategoryRegen:     "regen",
	CategoryAttack:    "attack",
	CategoryAccuracy:  "accuracy",
	CategoryCastSpeed: "cast_speed",
	CategoryMoveSpeed: "move_speed",
	CategoryCritical:  "critical",
	CategoryDefense:   "defense",
	CategoryOther:     "other",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Modifier is one entry in a stat's accumulator.
type Modifier struct {
	Amount   float64 `json:"amount"`
	Additive bool    `json:"additive"`
}

// Stat is a base value plus an ordered list of additive and multiplicative modifiers.
//
// Additive amounts are summed. Multiplicative amounts are summed separately and
// scaled by the base, so application order never changes Value.
// Stat is not safe for concurrent use.
type Stat struct {
	category Category
	base     float64
	mods     []Modifier
}

// New returns a Stat with the given base and no modifiers.
func New(category Category, base float64) *Stat {
	return &Stat{category: category, base: base}
}

// Category returns the stat's formula category.
func (s *Stat) Category() Category { return s.category }

// Base returns the unmodified value.
func (s *Stat) Base() float64 { return s.base }

// Modify appends a modifier.
//
// Postcondition: Value reflects the new modifier; previous modifiers are untouched.
func (s *Stat) Modify(amount float64, additive bool) {
	s.mods = append(s.mods, Modifier{Amount: amount, Additive: additive})
}

// Modifiers returns a copy of the modifier list in application order.
func (s *Stat) Modifiers() []Modifier {
	out := make([]Modifier, len(s.mods))
	copy(out, s.mods)
	return out
}

// Sums returns the additive and multiplicative accumulators.
func (s *Stat) Sums() (additive, multiplicative float64) {
	for _, m := range s.mods {
		if m.Additive {
			additive += m.Amount
		} else {
			multiplicative += m.Amount
		}
	}
	return additive, multiplicative
}

// ModifierSum returns Σadditive + base×Σmultiplicative.
func (s *Stat) ModifierSum() float64 {
	add, mul := s.Sums()
	return add + s.base*mul
}

// Value returns base + Σadditive + base×Σmultiplicative.
func (s *Stat) Value() float64 {
	return s.base + s.ModifierSum()
}

// Reset clears every modifier.
//
// Postcondition: Value() == Base().
func (s *Stat) Reset() {
	s.mods = nil
}

// restore replaces the modifier list wholesale; used when rebuilding from a snapshot.
func (s *Stat) restore(mods []Modifier) {
	s.mods = append([]Modifier(nil), mods...)
}
