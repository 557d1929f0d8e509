// Package inventory models equipment as a base item record with optional
// equipable, armor and weapon capabilities: slot-dependent stat budgets,
// quality-scaled defenses and weapon power ranges.
package inventory

import (
	"fmt"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

func parseName[T ~int](names []string, what, s string) (T, error) {
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func nameOf(names []string, what string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", what, i)
	}
	return names[i]
}

// Quality is the item tier; higher tiers raise budgets and power.
type Quality int

const (
	Junk Quality = iota
	Basic
	Magical
	Production
	Professional
	Artifact
	Phantasmal
	Mythical

	NumQualities = int(iota)
)

var qualityNames = []string{"junk", "basic", "magical", "production", "professional", "artifact", "phantasmal", "mythical"}

func (q Quality) String() string { return nameOf(qualityNames, "quality", int(q)) }

// Clamp returns q limited to the declared tiers.
func (q Quality) Clamp() Quality {
	return Quality(max(0, min(int(q), NumQualities-1)))
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	v, err := parseName[Quality](qualityNames, "quality", string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// Slot is where an equipable item is worn.
type Slot int

const (
	SlotNone Slot = iota
	SlotHead
	SlotTorso
	SlotChest
	SlotHands
	SlotLegs
	SlotFeet
	SlotBack
	SlotVanity
	SlotRing
	SlotAccessory
	SlotAmmunition
	SlotBag

	NumSlots = int(iota)
)

var slotNames = []string{"none", "head", "torso", "chest", "hands", "legs", "feet", "back", "vanity", "ring", "accessory", "ammunition", "bag"}

func (s Slot) String() string { return nameOf(slotNames, "slot", int(s)) }

// MarshalText implements encoding.TextMarshaler.
func (s Slot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(text []byte) error {
	v, err := parseName[Slot](slotNames, "slot", string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type slotInfo struct {
	multiplier    int
	distributable []stat.Raw
}

var slotTable = map[Slot]slotInfo{
	SlotHead:  {1, []stat.Raw{stat.Vigor, stat.Focus, stat.Endurance, stat.Intellect, stat.Clarity}},
	SlotTorso: {3, nil},
	SlotChest: {2, []stat.Raw{stat.Vitality, stat.Willpower, stat.Stamina, stat.Strength, stat.Intellect}},
	SlotHands: {1, []stat.Raw{stat.Vigor, stat.Focus, stat.Endurance, stat.Strength, stat.Dexterity}},
	SlotLegs:  {2, []stat.Raw{stat.Vitality, stat.Willpower, stat.Stamina, stat.Agility}},
	SlotFeet:  {1, []stat.Raw{stat.Vigor, stat.Focus, stat.Endurance, stat.Agility}},
	SlotBack:  {0, []stat.Raw{stat.Defense, stat.Resistance}},
}

// Multiplier returns the slot's budget weighting; 0 for slots without one.
func (s Slot) Multiplier() int { return slotTable[s].multiplier }

// Distributable returns the raw stats EP may be assigned to in this slot.
func (s Slot) Distributable() []stat.Raw {
	return append([]stat.Raw(nil), slotTable[s].distributable...)
}

// WeightCategory is the armor class of a piece.
type WeightCategory int

const (
	WeightNone WeightCategory = iota
	WeightLight
	WeightMedium
	WeightHeavy
	WeightMassive

	NumWeightCategories = int(iota)
)

var weightNames = []string{"none", "light", "medium", "heavy", "massive"}

func (w WeightCategory) String() string { return nameOf(weightNames, "weight", int(w)) }

// MarshalText implements encoding.TextMarshaler.
func (w WeightCategory) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WeightCategory) UnmarshalText(text []byte) error {
	v, err := parseName[WeightCategory](weightNames, "weight category", string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
