package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/actorcore/internal/game/combat"
)

type fakeDefender struct {
	mods       combat.ModifierTable
	healing    combat.ModifierTable
	absorb     float64
	hasAbsorb  bool
	reductions map[combat.Category][2]float64
	absorbed   []float64
}

func (f *fakeDefender) Absorb(_ combat.Category, _ []combat.School, raw float64) (float64, bool) {
	if !f.hasAbsorb {
		return raw, false
	}
	f.absorbed = append(f.absorbed, raw)
	left := raw - f.absorb
	if left < 0 {
		left = 0
	}
	return left, true
}

func (f *fakeDefender) IncomingDamage() *combat.ModifierTable  { return &f.mods }
func (f *fakeDefender) IncomingHealing() *combat.ModifierTable { return &f.healing }

func (f *fakeDefender) Mitigation(c combat.Category) (float64, float64, bool) {
	r, ok := f.reductions[c]
	if !ok {
		return 0, 0, false
	}
	return r[0], r[1], true
}

func newDefender() *fakeDefender {
	return &fakeDefender{reductions: map[combat.Category][2]float64{
		combat.Physical: {5, 0.8},
		combat.Magical:  {0, 1},
	}}
}

func TestResolveDamage_FlatThenScaling(t *testing.T) {
	d := newDefender()
	res := combat.ResolveDamage(d, combat.Physical, []combat.School{combat.Slashing}, 50)
	assert.Equal(t, 36.0, res.Amount)
	assert.False(t, res.Immune)
	assert.False(t, res.Absorbed)
}

func TestResolveDamage_TrueBypassesMitigation(t *testing.T) {
	d := newDefender()
	res := combat.ResolveDamage(d, combat.True, []combat.School{combat.Holy}, 50)
	assert.Equal(t, 50.0, res.Amount)
}

func TestResolveDamage_AveragesAcrossSchools(t *testing.T) {
	d := newDefender()
	d.mods.Add(combat.Magical, combat.Fire, 0.5)
	d.mods.Add(combat.Magical, combat.Frost, -0.1)
	res := combat.ResolveDamage(d, combat.Magical, []combat.School{combat.Fire, combat.Frost}, 100)
	assert.InDelta(t, 0.2, res.Modifier, 1e-12)
	assert.Equal(t, 120.0, res.Amount)
}

func TestResolveDamage_ImmunityShortCircuits(t *testing.T) {
	d := newDefender()
	d.mods.Add(combat.Physical, combat.Piercing, -1)
	res := combat.ResolveDamage(d, combat.Physical, []combat.School{combat.Piercing}, 9999)
	assert.True(t, res.Immune)
	assert.Equal(t, 0.0, res.Amount)
}

func TestResolveDamage_PartialImmunityAveragedAway(t *testing.T) {
	d := newDefender()
	d.mods.Add(combat.Magical, combat.Fire, -1)
	res := combat.ResolveDamage(d, combat.Magical, []combat.School{combat.Fire, combat.Arcane}, 100)
	assert.False(t, res.Immune)
	assert.Equal(t, 50.0, res.Amount)
}

func TestResolveDamage_AbsorbUsesRawAndMinimum(t *testing.T) {
	d := newDefender()
	d.hasAbsorb = true
	d.absorb = 30
	res := combat.ResolveDamage(d, combat.Magical, []combat.School{combat.Shadow}, 50)
	assert.True(t, res.Absorbed)
	assert.Equal(t, 20.0, res.Amount)
	require.Len(t, d.absorbed, 1)
	assert.Equal(t, 50.0, d.absorbed[0])
}

func TestResolveDamage_EmptySchoolsUseZeroModifier(t *testing.T) {
	d := newDefender()
	res := combat.ResolveDamage(d, combat.Magical, nil, 10)
	assert.Equal(t, 0.0, res.Modifier)
	assert.Equal(t, 10.0, res.Amount)
}

func TestResolveDamage_RoundsHalfToEven(t *testing.T) {
	d := newDefender()
	d.reductions[combat.Magical] = [2]float64{0, 0.5}
	assert.Equal(t, 2.0, combat.ResolveDamage(d, combat.Magical, []combat.School{combat.Arcane}, 5).Amount)
	assert.Equal(t, 4.0, combat.ResolveDamage(d, combat.Magical, []combat.School{combat.Arcane}, 7).Amount)
}

func TestResolveHealing_SumsWithoutAveraging(t *testing.T) {
	d := newDefender()
	d.healing.Add(combat.Magical, combat.Holy, 0.25)
	d.healing.Add(combat.Magical, combat.Nature, 0.25)
	got := combat.ResolveHealing(d, combat.Magical, []combat.School{combat.Holy, combat.Nature}, 100)
	assert.InDelta(t, 150.0, got, 1e-9)
}

func TestResolveHealing_NeverNegative(t *testing.T) {
	d := newDefender()
	d.healing.Add(combat.Magical, combat.Holy, -3)
	assert.Equal(t, 0.0, combat.ResolveHealing(d, combat.Magical, []combat.School{combat.Holy}, 100))
}

func TestApplyHealing_ReportsOverheal(t *testing.T) {
	next, over := combat.ApplyHealing(90, 100, 25)
	assert.Equal(t, 100.0, next)
	assert.Equal(t, 15.0, over)

	next, over = combat.ApplyHealing(40, 100, 10.4)
	assert.Equal(t, 50.0, next)
	assert.Equal(t, 0.0, over)
}

func TestModifierTable_AverageOfNothingIsZero(t *testing.T) {
	var m combat.ModifierTable
	assert.Equal(t, 0.0, m.Average(combat.Physical, nil))
}

func TestTables_Merge(t *testing.T) {
	var a, b combat.Tables
	a.IncomingDamage.Add(combat.Physical, combat.Slashing, 0.1)
	b.IncomingDamage.Add(combat.Physical, combat.Slashing, 0.2)
	b.OutgoingHealing.Add(combat.Magical, combat.Holy, 0.5)
	a.Merge(&b)
	assert.InDelta(t, 0.3, a.IncomingDamage.Get(combat.Physical, combat.Slashing), 1e-12)
	assert.Equal(t, 0.5, a.OutgoingHealing.Get(combat.Magical, combat.Holy))
}

func TestParseNames(t *testing.T) {
	for i := range combat.NumSchools {
		s := combat.School(i)
		got, err := combat.ParseSchool(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for i := range combat.NumCategories {
		c := combat.Category(i)
		got, err := combat.ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := combat.ParseSchool("sonic")
	assert.Error(t, err)
}

// Property-based tests

func drawSchools(t *rapid.T) []combat.School {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) combat.School {
		return combat.School(rapid.IntRange(0, combat.NumSchools-1).Draw(t, "school"))
	}), 1, 4).Draw(t, "schools")
}

func TestPropertyImmunityAlwaysZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := newDefender()
		c := combat.Category(rapid.IntRange(0, combat.NumCategories-1).Draw(t, "category"))
		schools := drawSchools(t)
		for _, s := range schools {
			d.mods[c][s] = -1
		}
		raw := rapid.Float64Range(-1e6, 1e6).Draw(t, "raw")
		res := combat.ResolveDamage(d, c, schools, raw)
		if res.Amount != 0 || !res.Immune {
			t.Fatalf("immune defender took %v from %v", res.Amount, raw)
		}
	})
}

func TestPropertyDamageNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := newDefender()
		d.reductions[combat.Physical] = [2]float64{
			rapid.Float64Range(-100, 100).Draw(t, "reduction"),
			rapid.Float64Range(-2, 2).Draw(t, "scale"),
		}
		d.hasAbsorb = rapid.Bool().Draw(t, "absorb")
		d.absorb = rapid.Float64Range(0, 500).Draw(t, "budget")
		c := combat.Category(rapid.IntRange(0, combat.NumCategories-1).Draw(t, "category"))
		schools := drawSchools(t)
		for _, s := range schools {
			d.mods[c][s] = rapid.Float64Range(-3, 3).Draw(t, "mod")
		}
		raw := rapid.Float64Range(-1e6, 1e6).Draw(t, "raw")
		if got := combat.ResolveDamage(d, c, schools, raw).Amount; got < 0 {
			t.Fatalf("negative damage %v", got)
		}
	})
}
