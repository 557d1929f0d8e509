package inventory

import (
	"math"

	"github.com/cory-johannsen/actorcore/internal/game/combat"
)

// WieldType is the weapon family, which fixes grip and weight.
type WieldType int

const (
	WieldNone WieldType = iota
	WieldFist
	WieldWhip
	WieldDagger
	WieldSword
	WieldAxe
	WieldMace
	WieldWand
	WieldTome
	WieldGreatsword
	WieldBattleaxe
	WieldWarhammer
	WieldPolearm
	WieldStaff
	WieldSmallInstrument
	WieldLargeInstrument
	WieldBuckler
	WieldGreatshield
	WieldBow
	WieldCrossbow
	WieldThrowing

	NumWieldTypes = int(iota)
)

var wieldNames = []string{
	"none", "fist", "whip", "dagger", "sword", "axe", "mace", "wand", "tome",
	"greatsword", "battleaxe", "warhammer", "polearm", "staff",
	"small_instrument", "large_instrument", "buckler", "greatshield",
	"bow", "crossbow", "throwing",
}

// grip is 1 for one-handed and 2 for two-handed.
var wieldTable = [NumWieldTypes]struct{ grip, weight int }{
	WieldNone:            {1, 0},
	WieldFist:            {1, 1},
	WieldWhip:            {1, 1},
	WieldDagger:          {1, 1},
	WieldSword:           {1, 2},
	WieldAxe:             {1, 2},
	WieldMace:            {1, 2},
	WieldWand:            {1, 1},
	WieldTome:            {1, 1},
	WieldGreatsword:      {2, 6},
	WieldBattleaxe:       {2, 6},
	WieldWarhammer:       {2, 6},
	WieldPolearm:         {2, 4},
	WieldStaff:           {2, 3},
	WieldSmallInstrument: {2, 1},
	WieldLargeInstrument: {2, 3},
	WieldBuckler:         {1, 1},
	WieldGreatshield:     {1, 4},
	WieldBow:             {2, 3},
	WieldCrossbow:        {2, 2},
	WieldThrowing:        {1, 1},
}

func (w WieldType) String() string { return nameOf(wieldNames, "wield", int(w)) }

// Valid reports whether w is a declared wield type.
func (w WieldType) Valid() bool { return w >= 0 && int(w) < NumWieldTypes }

// Grip returns the number of hands the wield type occupies.
func (w WieldType) Grip() int {
	if !w.Valid() {
		return 1
	}
	return wieldTable[w].grip
}

// Weight returns the wield type's weight.
func (w WieldType) Weight() int {
	if !w.Valid() {
		return 0
	}
	return wieldTable[w].weight
}

// MarshalText implements encoding.TextMarshaler.
func (w WieldType) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WieldType) UnmarshalText(text []byte) error {
	v, err := parseName[WieldType](wieldNames, "wield type", string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// effectsByQuality holds the [min, max] number of effects per quality before grip scaling.
var effectsByQuality = [NumQualities][2]int{
	Junk:         {0, 0},
	Basic:        {0, 1},
	Magical:      {1, 2},
	Production:   {3, 5},
	Professional: {3, 5},
	Artifact:     {5, 7},
	Phantasmal:   {7, 9},
	Mythical:     {0, 0},
}

// Weapon is the weapon capability of an item.
type Weapon struct {
	Wield            WieldType `json:"wield"`
	PhysicalAffinity float64   `json:"physical_affinity"`
	MagicalAffinity  float64   `json:"magical_affinity"`
	Durability       int       `json:"durability"`
	MaxDurability    int       `json:"max_durability"`
}

// Power is a [max, min] damage pair.
type Power struct {
	Max int `json:"max"`
	Min int `json:"min"`
}

func (w *Weapon) durabilityRatio() float64 {
	if w.MaxDurability <= 0 {
		return 1
	}
	return float64(w.Durability) / float64(w.MaxDurability)
}

// PowerRange computes the weapon's raw power for the item's level and quality.
//
//	exponent = (1 + (weight+grip)/30) × (1 + quality/40)
//	max      = (req + quality + weight) ^ exponent
//	min      = (req + quality + weight) × exponent
//
// Both are scaled by durability/maxDurability and rounded.
func (w *Weapon) PowerRange(reqLevel int, q Quality) Power {
	weight := float64(w.Wield.Weight())
	grip := float64(w.Wield.Grip())
	qf := float64(q)
	base := float64(reqLevel) + qf + weight
	exponent := (1 + (weight+grip)/30) * (1 + qf/40)
	ratio := w.durabilityRatio()
	return Power{
		Max: int(math.RoundToEven(math.Pow(base, exponent) * ratio)),
		Min: int(math.RoundToEven(base * exponent * ratio)),
	}
}

func scale(p Power, affinity float64) Power {
	return Power{
		Max: int(math.RoundToEven(affinity * float64(p.Max))),
		Min: int(math.RoundToEven(affinity * float64(p.Min))),
	}
}

// PhysicalPowerRange scales PowerRange by the physical affinity.
func (w *Weapon) PhysicalPowerRange(reqLevel int, q Quality) Power {
	return scale(w.PowerRange(reqLevel, q), w.PhysicalAffinity)
}

// MagicalPowerRange scales PowerRange by the magical affinity.
func (w *Weapon) MagicalPowerRange(reqLevel int, q Quality) Power {
	return scale(w.PowerRange(reqLevel, q), w.MagicalAffinity)
}

// HighestPower returns the larger of the physical and magical maxima.
func (w *Weapon) HighestPower(reqLevel int, q Quality) int {
	return max(w.PhysicalPowerRange(reqLevel, q).Max, w.MagicalPowerRange(reqLevel, q).Max)
}

// PowerFor returns the maximum power relevant to a damage category:
// physical or magical affinity, or the highest of both for other categories.
func (w *Weapon) PowerFor(c combat.Category, reqLevel int, q Quality) int {
	switch c {
	case combat.Physical:
		return w.PhysicalPowerRange(reqLevel, q).Max
	case combat.Magical:
		return w.MagicalPowerRange(reqLevel, q).Max
	default:
		return w.HighestPower(reqLevel, q)
	}
}

// EffectsCount returns the [min, max] number of random effects the weapon
// can roll at quality q, scaled by grip.
func (w *Weapon) EffectsCount(q Quality) (lo, hi int) {
	r := effectsByQuality[q.Clamp()]
	g := w.Wield.Grip()
	return r[0] * g, r[1] * g
}
