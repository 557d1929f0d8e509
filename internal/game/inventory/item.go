package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// EquipDef marks an item as wearable in Slot.
type EquipDef struct {
	Slot Slot `yaml:"slot" toml:"slot"`
}

// ArmorDef gives an equipable item an armor class.
type ArmorDef struct {
	Weight WeightCategory `yaml:"weight" toml:"weight"`
}

// WeaponDef gives an item weapon power.
type WeaponDef struct {
	Wield            WieldType `yaml:"wield" toml:"wield"`
	PhysicalAffinity float64   `yaml:"physical_affinity" toml:"physical_affinity"`
	MagicalAffinity  float64   `yaml:"magical_affinity" toml:"magical_affinity"`
	MaxDurability    int       `yaml:"max_durability" toml:"max_durability"`
}

// Def is the static definition of an item loaded from content.
// The optional capability blocks select what the item can do.
type Def struct {
	ID          string     `yaml:"id" toml:"id"`
	Name        string     `yaml:"name" toml:"name"`
	Description string     `yaml:"description" toml:"description"`
	ReqLevel    int        `yaml:"req_level" toml:"req_level"`
	Quality     Quality    `yaml:"quality" toml:"quality"`
	MaxStack    int        `yaml:"max_stack" toml:"max_stack"`
	Equip       *EquipDef  `yaml:"equip" toml:"equip"`
	Armor       *ArmorDef  `yaml:"armor" toml:"armor"`
	Weapon      *WeaponDef `yaml:"weapon" toml:"weapon"`
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.ReqLevel < 0 {
		errs = append(errs, errors.New("req_level must be >= 0"))
	}
	if d.MaxStack < 0 || d.MaxStack > 255 {
		errs = append(errs, errors.New("max_stack must be in [0, 255]"))
	}
	if int(d.Quality) < 0 || int(d.Quality) >= NumQualities {
		errs = append(errs, fmt.Errorf("quality %d out of range", d.Quality))
	}
	if d.Armor != nil {
		if d.Equip == nil || d.Equip.Slot == SlotNone {
			errs = append(errs, errors.New("armor requires an equip slot"))
		}
		if d.Weapon != nil {
			errs = append(errs, errors.New("an item cannot be both armor and weapon"))
		}
	}
	if d.Weapon != nil {
		if !d.Weapon.Wield.Valid() {
			errs = append(errs, errors.New("weapon.wield is invalid"))
		}
		if d.Weapon.PhysicalAffinity < 0 || d.Weapon.MagicalAffinity < 0 {
			errs = append(errs, errors.New("weapon affinities must be >= 0"))
		}
		if d.Weapon.MaxDurability < 0 {
			errs = append(errs, errors.New("weapon.max_durability must be >= 0"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %v", d.ID, errs)
	}
	return nil
}

// Item is one instance of a Def. Armor and Weapon are nil unless the item
// has that capability.
type Item struct {
	ID          uuid.UUID `json:"id"`
	DefID       string    `json:"def_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ReqLevel    int       `json:"req_level"`
	Quality     Quality   `json:"quality"`
	MaxStack    int       `json:"max_stack"`
	Equipable   bool      `json:"equipable"`
	Slot        Slot      `json:"slot"`
	Armor       *Armor    `json:"armor,omitempty"`
	Weapon      *Weapon   `json:"weapon,omitempty"`
}

// Instantiate creates a fresh item from def with a new instance ID.
// Weapons start at full durability; armor starts with an unspent budget.
//
// Precondition: def passed Validate.
func Instantiate(def *Def) *Item {
	it := &Item{
		ID:          uuid.New(),
		DefID:       def.ID,
		Name:        def.Name,
		Description: def.Description,
		ReqLevel:    def.ReqLevel,
		Quality:     def.Quality.Clamp(),
		MaxStack:    min(max(def.MaxStack, 1), 255),
	}
	if def.Equip != nil {
		it.Equipable = true
		it.Slot = def.Equip.Slot
	}
	if def.Weapon != nil {
		it.Equipable = true
		it.Weapon = &Weapon{
			Wield:            def.Weapon.Wield,
			PhysicalAffinity: def.Weapon.PhysicalAffinity,
			MagicalAffinity:  def.Weapon.MagicalAffinity,
			Durability:       def.Weapon.MaxDurability,
			MaxDurability:    def.Weapon.MaxDurability,
		}
	}
	if def.Armor != nil {
		it.Armor = &Armor{Weight: def.Armor.Weight}
		it.Armor.recalculate(it.Slot, it.ReqLevel, it.Quality)
	}
	return it
}

// SetQuality replaces the item's quality. Armor budgets are recalculated
// and every assigned point is returned.
func (it *Item) SetQuality(q Quality) {
	it.Quality = q.Clamp()
	if it.Armor != nil {
		it.Armor.recalculate(it.Slot, it.ReqLevel, it.Quality)
	}
}

// ModQuality shifts the quality by delta tiers, clamped to the declared tiers.
func (it *Item) ModQuality(delta int) {
	it.SetQuality(Quality(int(it.Quality) + delta))
}

// AssignStat spends value EP of the item's armor budget on r. Rejections
// are logged at Warn on logger, which may be nil.
//
// Postcondition: on error the budget is unchanged.
func (it *Item) AssignStat(r stat.Raw, value float64, logger *zap.Logger) error {
	var err error
	if it.Armor == nil {
		err = fmt.Errorf("%w: %s", ErrNotArmor, it.Name)
	} else {
		err = it.Armor.Budget.Assign(r, value)
	}
	if err != nil && logger != nil {
		logger.Warn("EP assignment rejected",
			zap.String("item", it.Name),
			zap.Stringer("stat", r),
			zap.Float64("value", value),
			zap.Error(err),
		)
	}
	return err
}

// Clone returns a deep copy of the item. The copy shares no mutable state
// with it.
func (it *Item) Clone() *Item {
	out := *it
	if it.Armor != nil {
		armor := *it.Armor
		armor.Budget.Distributable = append([]stat.Raw(nil), it.Armor.Budget.Distributable...)
		out.Armor = &armor
	}
	if it.Weapon != nil {
		weapon := *it.Weapon
		out.Weapon = &weapon
	}
	return &out
}

// Weight returns the item's carried weight: weight class × slot multiplier
// for armor, the wield type's weight for weapons, 0 otherwise.
func (it *Item) Weight() int {
	switch {
	case it.Armor != nil:
		return int(it.Armor.Weight) * it.Slot.Multiplier()
	case it.Weapon != nil:
		return it.Weapon.Wield.Weight()
	default:
		return 0
	}
}

// Contributions returns the raw stat totals the item grants when equipped.
func (it *Item) Contributions() [stat.NumRaw]float64 {
	if it.Armor == nil {
		return [stat.NumRaw]float64{}
	}
	return it.Armor.Contributions()
}

// WeaponPower returns the weapon's physical and magical power ranges, or
// zero ranges for non-weapons.
func (it *Item) WeaponPower() (physical, magical Power) {
	if it.Weapon == nil {
		return Power{}, Power{}
	}
	return it.Weapon.PhysicalPowerRange(it.ReqLevel, it.Quality), it.Weapon.MagicalPowerRange(it.ReqLevel, it.Quality)
}
