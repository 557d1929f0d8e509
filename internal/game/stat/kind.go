package stat

import "fmt"

// Raw is a fundamental attribute with no derivation.
type Raw int

const (
	Vitality Raw = iota
	Willpower
	Stamina
	Vigor
	Focus
	Endurance
	Strength
	Intellect
	Dexterity
	Clarity
	Agility
	Defense
	Resistance

	NumRaw = int(iota)
)

var rawNames = [NumRaw]string{
	Vitality:   "vitality",
	Willpower:  "willpower",
	Stamina:    "stamina",
	Vigor:      "vigor",
	Focus:      "focus",
	Endurance:  "endurance",
	Strength:   "strength",
	Intellect:  "intellect",
	Dexterity:  "dexterity",
	Clarity:    "clarity",
	Agility:    "agility",
	Defense:    "defense",
	Resistance: "resistance",
}

func (r Raw) String() string {
	if !r.Valid() {
		return fmt.Sprintf("raw(%d)", int(r))
	}
	return rawNames[r]
}

// Valid reports whether r is one of the declared raw stats.
func (r Raw) Valid() bool { return r >= 0 && int(r) < NumRaw }

// ParseRaw maps a content name such as "strength" to its Raw.
func ParseRaw(name string) (Raw, error) {
	for i, n := range rawNames {
		if n == name {
			return Raw(i), nil
		}
	}
	return 0, fmt.Errorf("unknown raw stat %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (r Raw) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid raw stat %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Raw) UnmarshalText(text []byte) error {
	v, err := ParseRaw(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Kind names a derived combat statistic.
type Kind int

const (
	MaxHP Kind = iota
	MaxMP
	MaxAP
	RegenHP
	RegenMP
	RegenAP
	PhysicalPower
	MagicalPower
	PhysicalAccuracy
	MagicalAccuracy
	Haste
	PhysicalReduction
	PhysicalMitigation
	MagicalReduction
	MagicalMitigation
	CriticalBonus
	CriticalThreshold
	CriticalAngle
	WalkSpeed
	RunSpeed
	SprintSpeed
	JumpForce

	NumKinds = int(iota)
)

type kindInfo struct {
	name     string
	category Category
}

var kinds = [NumKinds]kindInfo{
	MaxHP:              {"max_hp", CategoryResource},
	MaxMP:              {"max_mp", CategoryResource},
	MaxAP:              {"max_ap", CategoryResource},
	RegenHP:            {"regen_hp", CategoryRegen},
	RegenMP:            {"regen_mp", CategoryRegen},
	RegenAP:            {"regen_ap", CategoryRegen},
	PhysicalPower:      {"physical_power", CategoryAttack},
	MagicalPower:       {"magical_power", CategoryAttack},
	PhysicalAccuracy:   {"physical_accuracy", CategoryAccuracy},
	MagicalAccuracy:    {"magical_accuracy", CategoryAccuracy},
	Haste:              {"haste", CategoryCastSpeed},
	PhysicalReduction:  {"physical_reduction", CategoryDefense},
	PhysicalMitigation: {"physical_mitigation", CategoryDefense},
	MagicalReduction:   {"magical_reduction", CategoryDefense},
	MagicalMitigation:  {"magical_mitigation", CategoryDefense},
	CriticalBonus:      {"critical_bonus", CategoryCritical},
	CriticalThreshold:  {"critical_threshold", CategoryCritical},
	CriticalAngle:      {"critical_angle", CategoryCritical},
	WalkSpeed:          {"walk_speed", CategoryMoveSpeed},
	RunSpeed:           {"run_speed", CategoryMoveSpeed},
	SprintSpeed:        {"sprint_speed", CategoryMoveSpeed},
	JumpForce:          {"jump_force", CategoryMoveSpeed},
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kinds[k].name
}

// Valid reports whether k is one of the declared derived stats.
func (k Kind) Valid() bool { return k >= 0 && int(k) < NumKinds }

// Category returns the formula category of k.
//
// Precondition: k.Valid().
func (k Kind) Category() Category { return kinds[k].category }

// ParseKind maps a content name such as "max_hp" to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, info := range kinds {
		if info.name == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown derived stat %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid derived stat %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
