package actor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// Hands is the number of grip points available for weapons.
const Hands = 2

var (
	// ErrNotEquipable is returned when equipping an item without the equipable capability.
	ErrNotEquipable = errors.New("actor: item is not equipable")
	// ErrSlotOccupied is returned when another item already fills the slot.
	ErrSlotOccupied = errors.New("actor: slot already occupied")
	// ErrHandsFull is returned when a weapon needs more free hands than remain.
	ErrHandsFull = errors.New("actor: not enough free hands")
	// ErrNotEquipped is returned when an item ID is not among the equipped items.
	ErrNotEquipped = errors.New("actor: item is not equipped")
)

// Equip wears it. Slotted items occupy their slot; weapons occupy grip points.
//
// Postcondition: on error nothing changes; otherwise derived stats include the item.
func (a *Actor) Equip(it *inventory.Item) error {
	if !it.Equipable {
		return fmt.Errorf("%w: %s", ErrNotEquipable, it.Name)
	}
	used := 0
	for _, e := range a.equipment {
		if e.ID == it.ID {
			return fmt.Errorf("%w: %s is already equipped", ErrSlotOccupied, it.Name)
		}
		if it.Slot != inventory.SlotNone && e.Slot == it.Slot {
			return fmt.Errorf("%w: %s holds %s", ErrSlotOccupied, it.Slot, e.Name)
		}
		if e.Weapon != nil {
			used += e.Weapon.Wield.Grip()
		}
	}
	if it.Weapon != nil && used+it.Weapon.Wield.Grip() > Hands {
		return fmt.Errorf("%w: %s needs %d", ErrHandsFull, it.Name, it.Weapon.Wield.Grip())
	}
	a.equipment = append(a.equipment, it)
	a.rebuild()
	return nil
}

// Unequip removes the item with id.
func (a *Actor) Unequip(id uuid.UUID) (*inventory.Item, error) {
	for i, e := range a.equipment {
		if e.ID == id {
			a.equipment = append(a.equipment[:i], a.equipment[i+1:]...)
			a.rebuild()
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotEquipped, id)
}

// Equipment returns the equipped items in equip order.
func (a *Actor) Equipment() []*inventory.Item {
	return append([]*inventory.Item(nil), a.equipment...)
}

// AssignEquipmentStat spends EP of an equipped armor piece. Rejections are
// logged and leave the budget untouched.
func (a *Actor) AssignEquipmentStat(id uuid.UUID, r stat.Raw, value float64) error {
	for _, e := range a.equipment {
		if e.ID != id {
			continue
		}
		if err := e.AssignStat(r, value, a.logger); err != nil {
			return err
		}
		a.rebuild()
		return nil
	}
	a.logger.Warn("EP assignment rejected", zap.Stringer("item_id", id), zap.Error(ErrNotEquipped))
	return fmt.Errorf("%w: %s", ErrNotEquipped, id)
}

func (a *Actor) weapons() []*inventory.Item {
	var out []*inventory.Item
	for _, e := range a.equipment {
		if e.Weapon != nil {
			out = append(out, e)
		}
	}
	return out
}

// HasEmptyHand reports whether a hand is free: no weapons, or a single one-handed weapon.
func (a *Actor) HasEmptyHand() bool {
	ws := a.weapons()
	switch len(ws) {
	case 0:
		return true
	case 1:
		return ws[0].Weapon.Wield.Grip() == 1
	default:
		return false
	}
}

// HasEquippedWieldType reports whether any equipped weapon is of wield type w.
func (a *Actor) HasEquippedWieldType(w inventory.WieldType) bool {
	for _, it := range a.weapons() {
		if it.Weapon.Wield == w {
			return true
		}
	}
	return false
}

// FirstWieldType returns the wield type of the first equipped weapon, or WieldNone.
func (a *Actor) FirstWieldType() inventory.WieldType {
	if ws := a.weapons(); len(ws) > 0 {
		return ws[0].Weapon.Wield
	}
	return inventory.WieldNone
}

func matchesWield(it *inventory.Item, filter []inventory.WieldType) bool {
	if len(filter) == 0 {
		return true
	}
	for _, w := range filter {
		if it.Weapon.Wield == w {
			return true
		}
	}
	return false
}

// HighestWeaponDamage returns the highest maximum power among equipped
// weapons whose wield type is in filter (every weapon when filter is empty).
func (a *Actor) HighestWeaponDamage(filter ...inventory.WieldType) int {
	best := 0
	for _, it := range a.weapons() {
		if matchesWield(it, filter) {
			best = max(best, it.Weapon.HighestPower(it.ReqLevel, it.Quality))
		}
	}
	return best
}

// HighestWeaponDamageFor is HighestWeaponDamage using the power that matches
// category c: physical, magical, or the highest of both otherwise.
func (a *Actor) HighestWeaponDamageFor(c combat.Category, filter ...inventory.WieldType) int {
	best := 0
	for _, it := range a.weapons() {
		if matchesWield(it, filter) {
			best = max(best, it.Weapon.PowerFor(c, it.ReqLevel, it.Quality))
		}
	}
	return best
}

// AvgWeight returns the mean weight of equipped items that have weight, or 1 when none do.
func (a *Actor) AvgWeight() float64 {
	var total, count float64
	for _, e := range a.equipment {
		if w := e.Weight(); w > 0 {
			total += float64(w)
			count++
		}
	}
	if count == 0 {
		a.logger.Debug("no weighted equipment; using default weight")
		return 1
	}
	return total / count
}
