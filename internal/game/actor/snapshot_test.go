package actor_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/inventory"
	"github.com/cory-johannsen/actorcore/internal/game/regen"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

func TestSnapshot_RoundTripThroughJSON(t *testing.T) {
	auras, _ := registries(t)
	sched := regen.NewScheduler()
	a := spawn(t, sched, nil)
	a.SetRawBase(stat.Strength, 30)
	a.ModifyRaw(stat.Strength, 5, true)
	a.ModifyDerived(stat.Haste, 0.2, true)
	a.EditOutgoingDamage(combat.Physical, combat.Slashing, 0.1)
	helm := inventory.Instantiate(helmDef())
	require.NoError(t, a.Equip(helm))
	require.NoError(t, a.AssignEquipmentStat(helm.ID, stat.Clarity, 7))
	_, err := a.ApplyAura(fury(), 2)
	require.NoError(t, err)
	_, err = a.ApplyAura(ward(), 1)
	require.NoError(t, err)
	a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Fire}, 12)
	a.TakeDamage(40)
	sched.Advance(400 * time.Millisecond)

	data, err := json.Marshal(a.Snapshot())
	require.NoError(t, err)
	var snap actor.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	sched2 := regen.NewScheduler()
	b, err := actor.Restore(&snap, auras, actor.Options{Scheduler: sched2})
	require.NoError(t, err)

	assert.Equal(t, a.ID(), b.ID())
	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.TemplateID(), b.TemplateID())
	assert.Equal(t, a.Level(), b.Level())
	for r := range 3 {
		res := actor.Resource(r)
		assert.Equal(t, a.Current(res), b.Current(res), res.String())
	}
	for k := range stat.NumKinds {
		kind := stat.Kind(k)
		assert.InDelta(t, a.Total(kind), b.Total(kind), 1e-9, kind.String())
	}
	assert.Equal(t, a.RawTotal(stat.Clarity), b.RawTotal(stat.Clarity))
	assert.Equal(t, a.Tables(), b.Tables())
	assert.Equal(t, 2, b.AuraStackCount("fury"))
	require.Len(t, b.Buffs(), 2)
	assert.Equal(t, 18.0, b.Buffs()[1].AbsorbRemaining)
	require.Len(t, b.Equipment(), 1)
	assert.Equal(t, helm.ID, b.Equipment()[0].ID)

	// fury had 600ms left at capture.
	sched2.Advance(599 * time.Millisecond)
	assert.Equal(t, 2, b.AuraStackCount("fury"))
	sched2.Advance(time.Millisecond)
	assert.Equal(t, aura.NotPresent, b.AuraStackCount("fury"))
}

func TestRestore_RestartsRegeneration(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	a.TakeDamage(40)
	snap := a.Snapshot()

	sched := regen.NewScheduler()
	b, err := actor.Restore(snap, nil, actor.Options{Scheduler: sched})
	require.NoError(t, err)
	assert.Equal(t, regen.StateDelaying, b.RegenState(actor.HP))
	assert.Equal(t, regen.StateIdle, b.RegenState(actor.MP))

	sched.Advance(6 * time.Second)
	assert.InDelta(t, 68.0, b.Current(actor.HP), 1e-9)
}

func TestRestore_DeadActorStaysDead(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	a.Kill()
	b, err := actor.Restore(a.Snapshot(), nil, actor.Options{Scheduler: regen.NewScheduler()})
	require.NoError(t, err)
	assert.False(t, b.Alive())
	assert.Equal(t, regen.StateIdle, b.RegenState(actor.HP))
}

func TestRestore_RejectsUnknownAndOverfullAuras(t *testing.T) {
	auras, _ := registries(t)
	a := spawn(t, regen.NewScheduler(), nil)
	_, err := a.ApplyAura(scorch(), 1)
	require.NoError(t, err)

	sched := regen.NewScheduler()
	_, err = actor.Restore(a.Snapshot(), auras, actor.Options{Scheduler: sched})
	require.ErrorIs(t, err, actor.ErrUnknownAura)

	snap := spawn(t, regen.NewScheduler(), nil).Snapshot()
	snap.Auras = []actor.AuraEntry{{ID: "fury", Count: 9}}
	_, err = actor.Restore(snap, auras, actor.Options{Scheduler: sched})
	require.Error(t, err)
	assert.Zero(t, sched.Pending())
}

func TestSnapshot_EquipmentIsDetached(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	helm := inventory.Instantiate(helmDef())
	require.NoError(t, a.Equip(helm))
	require.NoError(t, a.AssignEquipmentStat(helm.ID, stat.Clarity, 4))

	snap := a.Snapshot()
	require.NoError(t, a.AssignEquipmentStat(helm.ID, stat.Clarity, 6))
	assert.Equal(t, 4.0, snap.Equipment[0].Armor.Budget.Spent)
	assert.NotSame(t, helm, snap.Equipment[0])

	b, err := actor.Restore(snap, nil, actor.Options{Scheduler: regen.NewScheduler()})
	require.NoError(t, err)
	c, err := actor.Restore(snap, nil, actor.Options{Scheduler: regen.NewScheduler()})
	require.NoError(t, err)
	require.NoError(t, b.AssignEquipmentStat(helm.ID, stat.Clarity, 10))
	assert.Equal(t, 4.0, c.Equipment()[0].Armor.Budget.Spent)
	assert.Equal(t, 4.0, snap.Equipment[0].Armor.Budget.Spent)
	assert.NotSame(t, b.Equipment()[0], c.Equipment()[0])
}
