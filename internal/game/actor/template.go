package actor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/actorcore/internal/content"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// ErrUnknownAura is returned when a template or snapshot names an aura no registry holds.
var ErrUnknownAura = errors.New("actor: unknown aura")

// AuraLookup resolves aura definitions by ID. *aura.Registry satisfies it.
type AuraLookup interface {
	Get(id string) (*aura.Def, bool)
}

// ItemSource creates item instances by definition ID. *inventory.Registry satisfies it.
type ItemSource interface {
	Instantiate(id string) (*inventory.Item, error)
}

// AuraGrant applies Count stacks of an aura at spawn.
type AuraGrant struct {
	ID    string `yaml:"id" toml:"id"`
	Count int    `yaml:"count" toml:"count"`
}

// Template defines a reusable actor archetype loaded from content.
type Template struct {
	ID          string `yaml:"id" toml:"id"`
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	Level       int    `yaml:"level" toml:"level"`
	// Raw holds raw stat bases keyed by name, e.g. "vitality".
	Raw map[string]float64 `yaml:"raw" toml:"raw"`
	// Derived holds authored derived stats keyed by name; they replace the
	// formula for that stat.
	Derived map[string]float64 `yaml:"derived" toml:"derived"`

	RegenHP           *Range         `yaml:"regen_hp" toml:"regen_hp"`
	RegenMP           *Range         `yaml:"regen_mp" toml:"regen_mp"`
	RegenAP           *Range         `yaml:"regen_ap" toml:"regen_ap"`
	CriticalBonus     *CriticalRange `yaml:"critical_bonus" toml:"critical_bonus"`
	CriticalThreshold *CriticalRange `yaml:"critical_threshold" toml:"critical_threshold"`
	CriticalAngle     *CriticalRange `yaml:"critical_angle" toml:"critical_angle"`

	Modifiers []aura.TableEffect `yaml:"modifiers" toml:"modifiers"`
	Auras     []AuraGrant        `yaml:"auras" toml:"auras"`
	Equipment []string           `yaml:"equipment" toml:"equipment"`
}

// Validate checks that the template satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: returns nil iff every field is valid; otherwise the error lists every violation.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Level < MinLevel || t.Level > MaxLevel {
		errs = append(errs, fmt.Errorf("level must be in [%d, %d]", MinLevel, MaxLevel))
	}
	for name := range t.Raw {
		if _, err := stat.ParseRaw(name); err != nil {
			errs = append(errs, fmt.Errorf("raw: %w", err))
		}
	}
	for name := range t.Derived {
		if _, err := stat.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("derived: %w", err))
		}
	}
	for name, r := range map[string]*Range{"regen_hp": t.RegenHP, "regen_mp": t.RegenMP, "regen_ap": t.RegenAP} {
		if r != nil && r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min must be <= max", name))
		}
	}
	for name, r := range map[string]*CriticalRange{"critical_bonus": t.CriticalBonus, "critical_threshold": t.CriticalThreshold, "critical_angle": t.CriticalAngle} {
		if r != nil && r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min must be <= max", name))
		}
	}
	for i, m := range t.Modifiers {
		switch m.Table {
		case aura.IncomingDamage, aura.OutgoingDamage, aura.IncomingHealing, aura.OutgoingHealing:
		default:
			errs = append(errs, fmt.Errorf("modifiers[%d]: unknown table %q", i, m.Table))
		}
	}
	for i, g := range t.Auras {
		if g.ID == "" || g.Count < 1 {
			errs = append(errs, fmt.Errorf("auras[%d]: id must be set and count >= 1", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("actor template %q validation failed: %v", t.ID, errs)
	}
	return nil
}

// Profile converts the template's formula constants, filling gaps from DefaultProfile.
//
// Precondition: t passed Validate.
func (t *Template) Profile() Profile {
	p := DefaultProfile()
	if t.RegenHP != nil {
		p.RegenHP = *t.RegenHP
	}
	if t.RegenMP != nil {
		p.RegenMP = *t.RegenMP
	}
	if t.RegenAP != nil {
		p.RegenAP = *t.RegenAP
	}
	if t.CriticalBonus != nil {
		p.CriticalBonus = *t.CriticalBonus
	}
	if t.CriticalThreshold != nil {
		p.CriticalThreshold = *t.CriticalThreshold
	}
	if t.CriticalAngle != nil {
		p.CriticalAngle = *t.CriticalAngle
	}
	if len(t.Derived) > 0 {
		p.Authored = make(map[stat.Kind]float64, len(t.Derived))
		for name, v := range t.Derived {
			if k, err := stat.ParseKind(name); err == nil {
				p.Authored[k] = v
			}
		}
	}
	return p
}

// Spawn builds a living actor from t at full resources. auras and items may
// be nil when the template grants none.
//
// Precondition: t passed Validate; opts.Scheduler must not be nil.
// Postcondition: on error no actor is returned.
func Spawn(t *Template, auras AuraLookup, items ItemSource, opts Options) (*Actor, error) {
	a := New(t.Name, t.Level, opts)
	a.templateID = t.ID
	for name, v := range t.Raw {
		r, err := stat.ParseRaw(name)
		if err != nil {
			return nil, fmt.Errorf("actor.Spawn %q: %w", t.ID, err)
		}
		a.raw[r] = stat.New(stat.CategoryOther, v)
	}
	a.profile = t.Profile()
	for _, m := range t.Modifiers {
		switch m.Table {
		case aura.IncomingDamage:
			a.tables.IncomingDamage.Add(m.Category, m.School, m.Amount)
		case aura.OutgoingDamage:
			a.tables.OutgoingDamage.Add(m.Category, m.School, m.Amount)
		case aura.IncomingHealing:
			a.tables.IncomingHealing.Add(m.Category, m.School, m.Amount)
		case aura.OutgoingHealing:
			a.tables.OutgoingHealing.Add(m.Category, m.School, m.Amount)
		}
	}
	a.rebuild()

	for _, id := range t.Equipment {
		if items == nil {
			return nil, fmt.Errorf("actor.Spawn %q: no item source for %q", t.ID, id)
		}
		it, err := items.Instantiate(id)
		if err != nil {
			return nil, fmt.Errorf("actor.Spawn %q: %w", t.ID, err)
		}
		if err := a.Equip(it); err != nil {
			return nil, fmt.Errorf("actor.Spawn %q: %w", t.ID, err)
		}
	}
	for _, g := range t.Auras {
		var def *aura.Def
		ok := false
		if auras != nil {
			def, ok = auras.Get(g.ID)
		}
		if !ok {
			return nil, fmt.Errorf("actor.Spawn %q: %w: %q", t.ID, ErrUnknownAura, g.ID)
		}
		if _, err := a.ApplyAura(def, g.Count); err != nil {
			return nil, fmt.Errorf("actor.Spawn %q: %w", t.ID, err)
		}
	}
	a.fill()
	return a, nil
}

// Templates holds all loaded actor templates indexed by ID.
type Templates struct {
	byID map[string]*Template
}

// NewTemplates returns an empty template registry.
func NewTemplates() *Templates {
	return &Templates{byID: make(map[string]*Template)}
}

// Register validates t and adds it.
//
// Postcondition: Get(t.ID) returns t; returns an error on invalid or duplicate templates.
func (r *Templates) Register(t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.byID[t.ID]; exists {
		return fmt.Errorf("actor: Templates.Register: template ID %q already registered", t.ID)
	}
	r.byID[t.ID] = t
	return nil
}

// Get returns the template for id.
func (r *Templates) Get(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// All returns every template sorted by ID.
func (r *Templates) All() []*Template {
	out := make([]*Template, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadTemplates reads every YAML or TOML file in dir as one Template.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) (*Templates, error) {
	files, err := content.Files(dir)
	if err != nil {
		return nil, err
	}
	reg := NewTemplates()
	for _, path := range files {
		var t Template
		if err := content.DecodeFile(path, &t); err != nil {
			return nil, err
		}
		if err := reg.Register(&t); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return reg, nil
}
