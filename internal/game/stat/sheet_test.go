package stat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

func TestKind_ParseRoundTrip(t *testing.T) {
	for k := range stat.NumKinds {
		kind := stat.Kind(k)
		parsed, err := stat.ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	_, err := stat.ParseKind("charisma")
	assert.Error(t, err)
}

func TestRaw_ParseRoundTrip(t *testing.T) {
	for r := range stat.NumRaw {
		raw := stat.Raw(r)
		var parsed stat.Raw
		require.NoError(t, parsed.UnmarshalText([]byte(raw.String())))
		assert.Equal(t, raw, parsed)
	}
	_, err := stat.ParseRaw("luck")
	assert.Error(t, err)
}

func TestKind_Categories(t *testing.T) {
	assert.Equal(t, stat.CategoryResource, stat.MaxHP.Category())
	assert.Equal(t, stat.CategoryRegen, stat.RegenAP.Category())
	assert.Equal(t, stat.CategoryCritical, stat.CriticalAngle.Category())
	assert.Equal(t, stat.CategoryDefense, stat.MagicalMitigation.Category())
	assert.Equal(t, stat.CategoryMoveSpeed, stat.JumpForce.Category())
}

func TestSheet_TotalTracksComponents(t *testing.T) {
	s := stat.NewSheet()
	s.SetInputs(stat.MaxHP, []float64{20, 50})
	assert.InDelta(t, 100.0, s.Component(stat.MaxHP, stat.BaseFromRaw), 1e-9)
	assert.InDelta(t, 100.0, s.Total(stat.MaxHP), 1e-9)

	s.Modify(stat.MaxHP, 25, true)
	s.Modify(stat.MaxHP, 0.1, false)
	assert.InDelta(t, 35.0, s.Component(stat.MaxHP, stat.ModifierSum), 1e-9)
	assert.InDelta(t, 135.0, s.Total(stat.MaxHP), 1e-9)

	// new inputs re-scale the multiplicative part immediately
	s.SetInputs(stat.MaxHP, []float64{40, 50})
	assert.InDelta(t, 245.0, s.Total(stat.MaxHP), 1e-9)
}

func TestSheet_ResetModifiers(t *testing.T) {
	s := stat.NewSheet()
	s.SetBase(stat.PhysicalReduction, 5)
	s.Modify(stat.PhysicalReduction, 3, true)
	s.ResetModifiers()
	assert.Equal(t, 5.0, s.Total(stat.PhysicalReduction))
	assert.Empty(t, s.Modifiers(stat.PhysicalReduction))
}

func TestSheet_ExportImport(t *testing.T) {
	s := stat.NewSheet()
	s.SetInputs(stat.MaxMP, []float64{12, 7})
	s.SetBase(stat.PhysicalMitigation, 0.8)
	s.Modify(stat.MaxMP, 4, true)

	restored := stat.NewSheet()
	restored.Import(s.Export())
	for k := range stat.NumKinds {
		kind := stat.Kind(k)
		assert.Equal(t, s.Total(kind), restored.Total(kind), "kind %s", kind)
		assert.Equal(t, s.HasInputs(kind), restored.HasInputs(kind), "kind %s", kind)
	}
	assert.Equal(t, s.Modifiers(stat.MaxMP), restored.Modifiers(stat.MaxMP))
}

func TestPropertySheetCachedTotalNeverStale(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := stat.NewSheet()
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for range steps {
			k := stat.Kind(rapid.IntRange(0, stat.NumKinds-1).Draw(t, "kind"))
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				s.SetInputs(k, rapid.SliceOfN(rapid.Float64Range(0, 200), 6, 6).Draw(t, "inputs"))
			case 1:
				s.SetBase(k, rapid.Float64Range(-100, 100).Draw(t, "base"))
			case 2:
				s.Modify(k, rapid.Float64Range(-10, 10).Draw(t, "amt"), rapid.Bool().Draw(t, "add"))
			case 3:
				s.ResetModifiers()
			}
			total := s.Component(k, stat.BaseFromRaw) + s.Component(k, stat.ModifierSum)
			if math.Abs(total-s.Total(k)) > 1e-9 {
				t.Fatalf("stale total for %s: %v != %v", k, s.Total(k), total)
			}
		}
	})
}
