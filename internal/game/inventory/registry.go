package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/actorcore/internal/content"
)

// Registry holds all loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*Def
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Def)}
}

// Register validates d and adds it to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d is invalid or d.ID already registered.
func (r *Registry) Register(d *Def) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the Def for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*Def, bool) {
	d, ok := r.items[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Instantiate creates a fresh instance of the item registered as id.
func (r *Registry) Instantiate(id string) (*Item, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("inventory: unknown item %q", id)
	}
	return Instantiate(d), nil
}

// LoadDirectory reads every YAML or TOML file in dir as one Def.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns a populated Registry or the first encountered error.
func LoadDirectory(dir string) (*Registry, error) {
	files, err := content.Files(dir)
	if err != nil {
		return nil, fmt.Errorf("inventory: LoadDirectory: %w", err)
	}
	reg := NewRegistry()
	for _, path := range files {
		var d Def
		if err := content.DecodeFile(path, &d); err != nil {
			return nil, fmt.Errorf("inventory: LoadDirectory: %w", err)
		}
		if err := reg.Register(&d); err != nil {
			return nil, fmt.Errorf("inventory: LoadDirectory: invalid item in %q: %w", path, err)
		}
	}
	return reg, nil
}
