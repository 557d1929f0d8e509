package actor

import (
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// Range bounds a formula output.
type Range struct {
	Min float64 `yaml:"min" toml:"min" json:"min"`
	Max float64 `yaml:"max" toml:"max" json:"max"`
}

// CriticalRange bounds a critical stat and scales its raw inputs.
type CriticalRange struct {
	Min   float64 `yaml:"min" toml:"min" json:"min"`
	Max   float64 `yaml:"max" toml:"max" json:"max"`
	Coeff float64 `yaml:"coeff" toml:"coeff" json:"coeff"`
}

// Profile holds the per-actor constants that feed derived-stat formulas.
type Profile struct {
	RegenHP           Range         `json:"regen_hp"`
	RegenMP           Range         `json:"regen_mp"`
	RegenAP           Range         `json:"regen_ap"`
	CriticalBonus     CriticalRange `json:"critical_bonus"`
	CriticalThreshold CriticalRange `json:"critical_threshold"`
	CriticalAngle     CriticalRange `json:"critical_angle"`
	// Authored replaces the formula of a derived stat with a stored base.
	Authored map[stat.Kind]float64 `json:"authored,omitempty"`
}

// DefaultProfile returns regeneration between 1% and 10% per second, no
// critical bonuses and no authored overrides.
func DefaultProfile() Profile {
	return Profile{
		RegenHP:           Range{Min: 0.01, Max: 0.1},
		RegenMP:           Range{Min: 0.01, Max: 0.1},
		RegenAP:           Range{Min: 0.01, Max: 0.1},
		CriticalBonus:     CriticalRange{Coeff: 1},
		CriticalThreshold: CriticalRange{Coeff: 1},
		CriticalAngle:     CriticalRange{Coeff: 0.625},
	}
}

func (p Profile) clone() Profile {
	if p.Authored != nil {
		authored := make(map[stat.Kind]float64, len(p.Authored))
		for k, v := range p.Authored {
			authored[k] = v
		}
		p.Authored = authored
	}
	return p
}

// scalarBase is the stored base of a kind that has no inputs.
// Mitigation multiplies damage, so its neutral value is 1.
func scalarBase(k stat.Kind) float64 {
	switch k {
	case stat.PhysicalMitigation, stat.MagicalMitigation:
		return 1
	}
	return 0
}

// inputs builds the formula input vector of k from raw totals and level,
// or returns nil when k is a stored scalar.
func (p *Profile) inputs(k stat.Kind, raw *[stat.NumRaw]float64, lvl float64) []float64 {
	crit := func(r CriticalRange, v1, v2 float64) []float64 {
		return []float64{v1, v2, r.Coeff, lvl, r.Min, r.Max}
	}
	switch k {
	case stat.MaxHP:
		return []float64{raw[stat.Vitality], lvl}
	case stat.MaxMP:
		return []float64{raw[stat.Willpower], lvl}
	case stat.MaxAP:
		return []float64{raw[stat.Stamina], lvl}
	case stat.RegenHP:
		return []float64{raw[stat.Vigor], lvl, p.RegenHP.Min, p.RegenHP.Max}
	case stat.RegenMP:
		return []float64{raw[stat.Focus], lvl, p.RegenMP.Min, p.RegenMP.Max}
	case stat.RegenAP:
		return []float64{raw[stat.Endurance], lvl, p.RegenAP.Min, p.RegenAP.Max}
	case stat.PhysicalPower:
		return []float64{raw[stat.Strength], lvl}
	case stat.MagicalPower:
		return []float64{raw[stat.Intellect], lvl}
	case stat.PhysicalAccuracy:
		return []float64{raw[stat.Dexterity], lvl}
	case stat.MagicalAccuracy:
		return []float64{raw[stat.Clarity], lvl}
	case stat.Haste, stat.WalkSpeed, stat.RunSpeed, stat.SprintSpeed, stat.JumpForce:
		return []float64{raw[stat.Agility], lvl}
	case stat.PhysicalReduction:
		return []float64{raw[stat.Defense], lvl}
	case stat.MagicalReduction:
		return []float64{raw[stat.Resistance], lvl}
	case stat.CriticalBonus:
		return crit(p.CriticalBonus, raw[stat.Dexterity], raw[stat.Clarity])
	case stat.CriticalThreshold:
		return crit(p.CriticalThreshold, raw[stat.Dexterity], raw[stat.Clarity])
	case stat.CriticalAngle:
		// Agility alone drives the angle.
		return crit(p.CriticalAngle, raw[stat.Agility], 0)
	}
	return nil
}
