package dice_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tgibson/underdark/internal/game/dice"
)

// TestParse_StandardNotation covers the XdY±Z grammar.
func TestParse_StandardNotation(t *testing.T) {
	cases := []struct {
		in       string
		count    int
		sides    int
		modifier int
	}{
		{"1d8", 1, 8, 0},
		{"2d6+1", 2, 6, 1},
		{"3d4-2", 3, 4, -2},
		{"1d12", 1, 12, 0},
		{"d20", 1, 20, 0},
		{"4+1", 4, 8, 1},
		{"4-1", 4, 8, -1},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifier, e.Modifier)
		})
	}
}

// TestParse_FlatConstant verifies bare integers parse as flat constants.
func TestParse_FlatConstant(t *testing.T) {
	e, err := dice.Parse("3")
	require.NoError(t, err)
	assert.Equal(t, 0, e.Count)
	assert.Equal(t, 3, e.Modifier)

	src := dice.NewSeededSource(1)
	r := dice.Roll(e, src)
	assert.Equal(t, 3, r.Total())
	assert.Empty(t, r.Dice)
}

// TestParse_Invalid verifies malformed notation surfaces ErrInvalidNotation
// carrying the source string.
func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "d", "0d6", "2d1", "2dx", "abc", "1d6+", "4-7d8"} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := dice.Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, dice.ErrInvalidNotation)
			if in != "" {
				assert.Contains(t, err.Error(), in)
			}
		})
	}
}

// TestParseHitDice verifies that a bare integer is promoted to Nd8.
func TestParseHitDice(t *testing.T) {
	e, err := dice.ParseHitDice("3")
	require.NoError(t, err)
	assert.Equal(t, 3, e.Count)
	assert.Equal(t, dice.HitDieFaces, e.Sides)

	e, err = dice.ParseHitDice("4+1")
	require.NoError(t, err)
	assert.Equal(t, 4, e.Count)
	assert.Equal(t, dice.HitDieFaces, e.Sides)
	assert.Equal(t, 1, e.Modifier)

	e, err = dice.ParseHitDice("2d10")
	require.NoError(t, err)
	assert.Equal(t, 10, e.Sides)

	_, err = dice.ParseHitDice("0")
	assert.ErrorIs(t, err, dice.ErrInvalidNotation)
}

// TestRoll_Bounds verifies every roll of 2d6+1 lands in [3, 13].
func TestRoll_Bounds(t *testing.T) {
	src := dice.NewSeededSource(42)
	e := dice.MustParse("2d6+1")
	for i := 0; i < 500; i++ {
		r := dice.Roll(e, src)
		assert.GreaterOrEqual(t, r.Total(), 3)
		assert.LessOrEqual(t, r.Total(), 13)
		assert.Len(t, r.Dice, 2)
	}
}

// TestRoll_Deterministic verifies two sources with the same seed replay the
// same sequence.
func TestRoll_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(7)
	b := dice.NewSeededSource(7)
	e := dice.MustParse("3d20")
	for i := 0; i < 50; i++ {
		ra := dice.Roll(e, a)
		rb := dice.Roll(e, b)
		assert.Equal(t, ra.Dice, rb.Dice)
	}
}

// TestRollResult_Total_Property verifies the postcondition
// Total() == sum(Dice) + Modifier for arbitrary inputs.
func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dice_ := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.Int().Draw(rt, "modifier")

		r := dice.RollResult{Expression: "Nd6+M", Dice: dice_, Modifier: modifier}

		expected := modifier
		for _, d := range dice_ {
			expected += d
		}
		assert.Equal(rt, expected, r.Total())
	})
}

// TestRoll_LenAndRange_Property verifies len(Dice) == Count and each die in
// [1, Sides] for arbitrary valid expressions.
func TestRoll_LenAndRange_Property(t *testing.T) {
	src := dice.NewSeededSource(99)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 12).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")

		e, err := dice.Parse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		require.NoError(rt, err)

		r := dice.Roll(e, src)
		require.Len(rt, r.Dice, count)
		for _, d := range r.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
		}
	})
}

// TestRollResult_Natural surfaces the first die for crit detection.
func TestRollResult_Natural(t *testing.T) {
	r := dice.RollResult{Expression: "1d20", Dice: []int{20}}
	assert.Equal(t, 20, r.Natural())
	assert.Equal(t, 0, dice.RollResult{Expression: "3"}.Natural())
}

// TestScriptedSource verifies the replay source pops values in order and
// panics when exhausted.
func TestScriptedSource(t *testing.T) {
	src := dice.NewScriptedSource(12, 5)
	assert.Equal(t, 12, dice.D20(src))
	assert.Equal(t, 5, src.Intn(8)+1)
	assert.Equal(t, 0, src.Remaining())
	assert.Panics(t, func() { src.Intn(6) })
}

// TestRollExpr_InvalidNotation verifies the combined parse+roll path.
func TestRollExpr_InvalidNotation(t *testing.T) {
	_, err := dice.RollExpr("not-dice", dice.NewSeededSource(1))
	assert.True(t, errors.Is(err, dice.ErrInvalidNotation))
}
