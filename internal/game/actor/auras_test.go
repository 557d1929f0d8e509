package actor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/regen"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

func fury() *aura.Def {
	return &aura.Def{
		ID: "fury", Name: "Fury", Helpful: true, MaxStacks: 3, DurationMs: 1000,
		Stats: []aura.StatEffect{{Stat: stat.PhysicalPower, Amount: 10, Additive: true}},
	}
}

func scorch() *aura.Def {
	return &aura.Def{
		ID: "scorch", Name: "Scorch", MaxStacks: 2,
		Modifiers: []aura.TableEffect{{Table: aura.IncomingDamage, Category: combat.Magical, School: combat.Fire, Amount: 0.5}},
	}
}

func ward() *aura.Def {
	return &aura.Def{
		ID: "ward", Name: "Ward", Helpful: true,
		Absorb: &aura.Absorb{Amount: 30, Categories: []combat.Category{combat.Magical}, Schools: []combat.School{combat.Fire}},
	}
}

type recordingHooks struct {
	applied []string
	removed []string
}

func (h *recordingHooks) OnAuraApplied(_ *actor.Actor, st *aura.Stack) {
	h.applied = append(h.applied, st.Def.ID)
}

func (h *recordingHooks) OnAuraRemoved(_ *actor.Actor, def *aura.Def) {
	h.removed = append(h.removed, def.ID)
}

func TestActor_ApplyAuraStatContribution(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	n, err := a.ApplyAura(fury(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 20.0, a.Total(stat.PhysicalPower))

	n, err = a.ApplyAura(fury(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 30.0, a.Total(stat.PhysicalPower))
	assert.Len(t, a.Buffs(), 1)
	assert.Empty(t, a.Debuffs())
}

func TestActor_ApplyAuraZeroAndNegative(t *testing.T) {
	logger, logs := observed()
	a := spawn(t, regen.NewScheduler(), logger)

	n, err := a.ApplyAura(fury(), 0)
	require.NoError(t, err)
	assert.Equal(t, aura.NotPresent, n)

	_, err = a.ApplyAura(fury(), -1)
	require.ErrorIs(t, err, aura.ErrNegativeCount)
	assert.Equal(t, 1, logs.FilterMessage("aura application rejected").Len())
}

func TestActor_AuraExpiresAndReapplicationRefreshes(t *testing.T) {
	sched := regen.NewScheduler()
	a := spawn(t, sched, nil)

	_, err := a.ApplyAura(fury(), 1)
	require.NoError(t, err)
	sched.Advance(600 * time.Millisecond)
	_, err = a.ApplyAura(fury(), 1)
	require.NoError(t, err)

	sched.Advance(600 * time.Millisecond)
	assert.Equal(t, 2, a.AuraStackCount("fury"))

	sched.Advance(400 * time.Millisecond)
	assert.Equal(t, aura.NotPresent, a.AuraStackCount("fury"))
	assert.Equal(t, 0.0, a.Total(stat.PhysicalPower))
}

func TestActor_DebuffTablesFeedDamage(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	_, err := a.ApplyAura(scorch(), 2)
	require.NoError(t, err)

	tables := a.Tables()
	assert.Equal(t, 1.0, tables.IncomingDamage.Get(combat.Magical, combat.Fire))
	res := a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Fire}, 10)
	assert.Equal(t, 20.0, res.Amount)

	assert.Equal(t, 1, a.DepleteAura("scorch"))
	assert.Equal(t, 0.5, a.Tables().IncomingDamage.Get(combat.Magical, combat.Fire))
	assert.Equal(t, 0, a.DepleteAura("scorch"))
	assert.Equal(t, 0.0, a.Tables().IncomingDamage.Get(combat.Magical, combat.Fire))
	assert.Equal(t, aura.NotPresent, a.DepleteAura("scorch"))
}

func TestActor_AbsorbShield(t *testing.T) {
	logger, logs := observed()
	a := spawn(t, regen.NewScheduler(), logger)
	_, err := a.ApplyAura(ward(), 1)
	require.NoError(t, err)

	res := a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Fire}, 20)
	assert.True(t, res.Absorbed)
	assert.Equal(t, 0.0, res.Amount)
	assert.Equal(t, 100.0, a.Current(actor.HP))
	st := a.Buffs()[0]
	assert.Equal(t, 10.0, st.AbsorbRemaining)

	res = a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Fire}, 25)
	assert.True(t, res.Absorbed)
	assert.Equal(t, 15.0, res.Amount)
	assert.Equal(t, 85.0, a.Current(actor.HP))
	assert.Equal(t, aura.NotPresent, a.AuraStackCount("ward"))
	assert.Equal(t, 1, logs.FilterMessage("absorb shield exhausted").Len())
	assert.Equal(t, 2, logs.FilterMessage("damage absorbed").Len())
}

func TestActor_AbsorbIgnoresUncoveredSchools(t *testing.T) {
	a := spawn(t, regen.NewScheduler(), nil)
	_, err := a.ApplyAura(ward(), 1)
	require.NoError(t, err)

	res := a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Frost}, 20)
	assert.False(t, res.Absorbed)
	assert.Equal(t, 80.0, a.Current(actor.HP))
	assert.Equal(t, 1, a.AuraStackCount("ward"))
}

func TestActor_HooksAndEvents(t *testing.T) {
	sched := regen.NewScheduler()
	hooks := &recordingHooks{}
	a, err := actor.Spawn(guard(), nil, nil, actor.Options{Scheduler: sched, Hooks: hooks})
	require.NoError(t, err)
	var events []actor.EventKind
	a.Subscribe(func(e actor.Event) {
		if e.Kind == actor.EventAuraApplied || e.Kind == actor.EventAuraRemoved {
			events = append(events, e.Kind)
		}
	})

	_, err = a.ApplyAura(fury(), 1)
	require.NoError(t, err)
	_, err = a.ApplyAura(scorch(), 1)
	require.NoError(t, err)
	assert.True(t, a.RemoveAura("scorch"))
	assert.False(t, a.RemoveAura("scorch"))
	sched.Advance(time.Second)

	assert.Equal(t, []string{"fury", "scorch"}, hooks.applied)
	assert.Equal(t, []string{"scorch", "fury"}, hooks.removed)
	assert.Equal(t, []actor.EventKind{
		actor.EventAuraApplied, actor.EventAuraApplied,
		actor.EventAuraRemoved, actor.EventAuraRemoved,
	}, events)
}

func TestActor_RemovedAuraDoesNotExpireLater(t *testing.T) {
	sched := regen.NewScheduler()
	hooks := &recordingHooks{}
	a, err := actor.Spawn(guard(), nil, nil, actor.Options{Scheduler: sched, Hooks: hooks})
	require.NoError(t, err)

	_, err = a.ApplyAura(fury(), 1)
	require.NoError(t, err)
	a.RemoveAura("fury")
	sched.Advance(5 * time.Second)
	assert.Equal(t, []string{"fury"}, hooks.removed)
}

func TestActor_AbsorbAcrossSchoolsUsesEveryShield(t *testing.T) {
	logger, logs := observed()
	a := spawn(t, regen.NewScheduler(), logger)
	rime := &aura.Def{
		ID: "rime", Name: "Rime", Helpful: true,
		Absorb: &aura.Absorb{Amount: 100, Categories: []combat.Category{combat.Magical}, Schools: []combat.School{combat.Frost}},
	}
	_, err := a.ApplyAura(ward(), 1)
	require.NoError(t, err)
	_, err = a.ApplyAura(rime, 1)
	require.NoError(t, err)

	res := a.TakeMitigatedDamage(combat.Magical, []combat.School{combat.Fire, combat.Frost}, 50)
	assert.True(t, res.Absorbed)
	assert.Equal(t, 0.0, res.Amount)
	assert.Equal(t, 100.0, a.Current(actor.HP))
	assert.Equal(t, aura.NotPresent, a.AuraStackCount("ward"))
	require.Len(t, a.Buffs(), 1)
	assert.Equal(t, 50.0, a.Buffs()[0].AbsorbRemaining)
	assert.Equal(t, 2, logs.FilterMessage("damage absorbed").Len())
	assert.Equal(t, 1, logs.FilterMessage("absorb shield exhausted").Len())
}
