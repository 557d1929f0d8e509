package stat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

func TestStat_NoModifiers(t *testing.T) {
	s := stat.New(stat.CategoryOther, 12)
	assert.Equal(t, 12.0, s.Value())
	assert.Equal(t, 0.0, s.ModifierSum())
}

func TestStat_AdditiveAndMultiplicative(t *testing.T) {
	s := stat.New(stat.CategoryOther, 100)
	s.Modify(10, true)
	s.Modify(0.5, false)
	s.Modify(0.25, false)
	// 100 + 10 + 100*(0.75)
	assert.InDelta(t, 185.0, s.Value(), 1e-9)

	add, mul := s.Sums()
	assert.Equal(t, 10.0, add)
	assert.Equal(t, 0.75, mul)
}

func TestStat_MultiplicativeOnZeroBaseContributesNothing(t *testing.T) {
	s := stat.New(stat.CategoryOther, 0)
	s.Modify(2, false)
	assert.Equal(t, 0.0, s.Value())
}

func TestStat_Reset(t *testing.T) {
	s := stat.New(stat.CategoryOther, 7)
	s.Modify(3, true)
	s.Modify(1, false)
	s.Reset()
	assert.Equal(t, 7.0, s.Value())
	assert.Empty(t, s.Modifiers())
}

func TestStat_ModifiersIsCopy(t *testing.T) {
	s := stat.New(stat.CategoryOther, 1)
	s.Modify(1, true)
	mods := s.Modifiers()
	mods[0].Amount = 99
	assert.Equal(t, 2.0, s.Value())
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "resource", stat.CategoryResource.String())
	assert.Equal(t, "move_speed", stat.CategoryMoveSpeed.String())
	assert.Equal(t, "category(42)", stat.Category(42).String())
}

// Property-based tests

func TestPropertyAdditiveModifierIsInvertible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(-1e6, 1e6).Draw(t, "base")
		s := stat.New(stat.CategoryOther, base)
		n := rapid.IntRange(0, 5).Draw(t, "prior")
		for range n {
			s.Modify(rapid.Float64Range(-100, 100).Draw(t, "amt"), rapid.Bool().Draw(t, "add"))
		}
		before := s.Value()
		x := rapid.Float64Range(-1e6, 1e6).Draw(t, "x")
		s.Modify(x, true)
		s.Modify(-x, true)
		if math.Abs(s.Value()-before) > 1e-6*math.Max(1, math.Abs(before)) {
			t.Fatalf("value %v != %v after +x/-x (x=%v)", s.Value(), before, x)
		}
	})
}

func TestPropertyModifierOrderDoesNotMatter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(-1000, 1000).Draw(t, "base")
		mods := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) stat.Modifier {
			return stat.Modifier{
				Amount:   rapid.Float64Range(-10, 10).Draw(t, "amount"),
				Additive: rapid.Bool().Draw(t, "additive"),
			}
		}), 0, 8).Draw(t, "mods")

		forward := stat.New(stat.CategoryOther, base)
		reverse := stat.New(stat.CategoryOther, base)
		for i := range mods {
			forward.Modify(mods[i].Amount, mods[i].Additive)
			r := mods[len(mods)-1-i]
			reverse.Modify(r.Amount, r.Additive)
		}
		if math.Abs(forward.Value()-reverse.Value()) > 1e-6 {
			t.Fatalf("order changed value: %v vs %v", forward.Value(), reverse.Value())
		}
	})
}

func TestPropertyResetRestoresBase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(-1e6, 1e6).Draw(t, "base")
		s := stat.New(stat.CategoryOther, base)
		for range rapid.IntRange(0, 6).Draw(t, "n") {
			s.Modify(rapid.Float64Range(-50, 50).Draw(t, "amt"), rapid.Bool().Draw(t, "add"))
		}
		s.Reset()
		require.Equal(t, base, s.Value())
	})
}
