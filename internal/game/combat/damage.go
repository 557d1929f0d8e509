// Package combat resolves incoming damage and healing against a defender's
// stats: absorption, averaged incoming modifiers, and flat-then-scaling
// mitigation, always in that order.
package combat

import "fmt"

// Category is the primary damage classification axis.
type Category int

const (
	Physical Category = iota
	Magical
	// True damage bypasses reduction and mitigation.
	True

	NumCategories = int(iota)
)

var categoryNames = [NumCategories]string{
	Physical: "physical",
	Magical:  "magical",
	True:     "true",
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool { return c >= 0 && int(c) < NumCategories }

// ParseCategory maps a content name to its Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown damage category %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid damage category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// School is the secondary damage classification axis.
type School int

const (
	Slashing School = iota
	Piercing
	Crushing
	Fire
	Frost
	Lightning
	Arcane
	Shadow
	Holy
	Nature

	NumSchools = int(iota)
)

var schoolNames = [NumSchools]string{
	Slashing:  "slashing",
	Piercing:  "piercing",
	Crushing:  "crushing",
	Fire:      "fire",
	Frost:     "frost",
	Lightning: "lightning",
	Arcane:    "arcane",
	Shadow:    "shadow",
	Holy:      "holy",
	Nature:    "nature",
}

func (s School) String() string {
	if !s.Valid() {
		return fmt.Sprintf("school(%d)", int(s))
	}
	return schoolNames[s]
}

// Valid reports whether s is a declared school.
func (s School) Valid() bool { return s >= 0 && int(s) < NumSchools }

// ParseSchool maps a content name to its School.
func ParseSchool(name string) (School, error) {
	for i, n := range schoolNames {
		if n == name {
			return School(i), nil
		}
	}
	return 0, fmt.Errorf("unknown damage school %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s School) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid damage school %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *School) UnmarshalText(text []byte) error {
	v, err := ParseSchool(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
