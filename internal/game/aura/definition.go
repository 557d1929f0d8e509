// Package aura models timed status effects: static definitions loaded from
// content files, and the per-actor stacks that group repeated applications.
package aura

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cory-johannsen/actorcore/internal/content"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// Table names a directional modifier table an aura can adjust.
type Table string

const (
	IncomingDamage  Table = "incoming_damage"
	OutgoingDamage  Table = "outgoing_damage"
	IncomingHealing Table = "incoming_healing"
	OutgoingHealing Table = "outgoing_healing"
)

// StatEffect modifies one derived stat per stack.
type StatEffect struct {
	Stat     stat.Kind `yaml:"stat" toml:"stat"`
	Amount   float64   `yaml:"amount" toml:"amount"`
	Additive bool      `yaml:"additive" toml:"additive"`
}

// TableEffect adds Amount per stack to one (Category, School) cell of a table.
type TableEffect struct {
	Table    Table           `yaml:"table" toml:"table"`
	Category combat.Category `yaml:"category" toml:"category"`
	School   combat.School   `yaml:"school" toml:"school"`
	Amount   float64         `yaml:"amount" toml:"amount"`
}

// Absorb describes a damage shield. Amount is the budget per stack.
type Absorb struct {
	Amount     float64           `yaml:"amount" toml:"amount"`
	Categories []combat.Category `yaml:"categories" toml:"categories"`
	Schools    []combat.School   `yaml:"schools" toml:"schools"`
}

// Matches reports whether the shield covers (c, s).
func (a *Absorb) Matches(c combat.Category, s combat.School) bool {
	catOK, schoolOK := false, false
	for _, x := range a.Categories {
		if x == c {
			catOK = true
			break
		}
	}
	for _, x := range a.Schools {
		if x == s {
			schoolOK = true
			break
		}
	}
	return catOK && schoolOK
}

// Def is the static definition of an aura.
type Def struct {
	ID          string `yaml:"id" toml:"id"`
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	// Helpful places the aura in the buff list; otherwise it is a debuff.
	Helpful   bool `yaml:"helpful" toml:"helpful"`
	MaxStacks int  `yaml:"max_stacks" toml:"max_stacks"` // 0 = unstackable
	// DurationMs is the lifetime from the latest application; 0 = until removed.
	DurationMs  int64         `yaml:"duration_ms" toml:"duration_ms"`
	Stats       []StatEffect  `yaml:"stats" toml:"stats"`
	Modifiers   []TableEffect `yaml:"modifiers" toml:"modifiers"`
	Absorb      *Absorb       `yaml:"absorb" toml:"absorb"`
	LuaOnApply  string        `yaml:"lua_on_apply" toml:"lua_on_apply"`
	LuaOnRemove string        `yaml:"lua_on_remove" toml:"lua_on_remove"`
}

// HasHelpfulEffects reports whether the aura is classified as a buff.
func (d *Def) HasHelpfulEffects() bool { return d.Helpful }

// StackLimit returns the effective maximum stack count (at least 1).
func (d *Def) StackLimit() int {
	if d.MaxStacks < 1 {
		return 1
	}
	return d.MaxStacks
}

// Duration returns the aura lifetime, or 0 when it never expires.
func (d *Def) Duration() time.Duration {
	return time.Duration(d.DurationMs) * time.Millisecond
}

// Validate reports every problem with the definition.
//
// Postcondition: Returns nil iff the def is well-formed.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, errors.New("max_stacks must be >= 0"))
	}
	if d.DurationMs < 0 {
		errs = append(errs, errors.New("duration_ms must be >= 0"))
	}
	for i, e := range d.Stats {
		if !e.Stat.Valid() {
			errs = append(errs, fmt.Errorf("stats[%d]: invalid stat", i))
		}
	}
	for i, m := range d.Modifiers {
		switch m.Table {
		case IncomingDamage, OutgoingDamage, IncomingHealing, OutgoingHealing:
		default:
			errs = append(errs, fmt.Errorf("modifiers[%d]: unknown table %q", i, m.Table))
		}
		if !m.Category.Valid() || !m.School.Valid() {
			errs = append(errs, fmt.Errorf("modifiers[%d]: invalid category or school", i))
		}
	}
	if d.Absorb != nil {
		if d.Absorb.Amount <= 0 {
			errs = append(errs, errors.New("absorb.amount must be > 0"))
		}
		if len(d.Absorb.Categories) == 0 || len(d.Absorb.Schools) == 0 {
			errs = append(errs, errors.New("absorb must list at least one category and one school"))
		}
		if !d.Helpful {
			errs = append(errs, errors.New("absorb auras must be helpful"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("aura %q validation failed: %v", d.ID, errs)
	}
	return nil
}

// apply adds count stacks' worth of table effects into t.
func (d *Def) apply(t *combat.Tables, count int) {
	n := float64(count)
	for _, m := range d.Modifiers {
		var table *combat.ModifierTable
		switch m.Table {
		case IncomingDamage:
			table = &t.IncomingDamage
		case OutgoingDamage:
			table = &t.OutgoingDamage
		case IncomingHealing:
			table = &t.IncomingHealing
		case OutgoingHealing:
			table = &t.OutgoingHealing
		default:
			continue
		}
		table.Add(m.Category, m.School, m.Amount*n)
	}
}

// Registry holds all known aura definitions keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates def and adds it.
//
// Precondition: def must not be nil.
// Postcondition: Get(def.ID) returns def; returns an error on invalid or duplicate defs.
func (r *Registry) Register(def *Def) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("aura: Registry.Register: aura ID %q already registered", def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every YAML or TOML file in dir as one Def.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry, or an error naming the first bad file.
func LoadDirectory(dir string) (*Registry, error) {
	files, err := content.Files(dir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, path := range files {
		var def Def
		if err := content.DecodeFile(path, &def); err != nil {
			return nil, err
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return reg, nil
}
