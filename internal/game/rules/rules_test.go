package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tgibson/underdark/internal/game/rules"
)

func ctx(t *testing.T) *rules.Ctx {
	t.Helper()
	c, err := rules.Load()
	require.NoError(t, err)
	return c
}

// TestLoad verifies every embedded table parses and the catalogs are wired.
func TestLoad(t *testing.T) {
	c := ctx(t)

	assert.Len(t, c.Classes, 7)
	assert.Len(t, c.Races, 7)

	fighter, ok := c.Class("Fighter")
	require.True(t, ok)
	assert.Equal(t, "fighter", fighter.ID)
	assert.Equal(t, 10, fighter.HitDie)

	_, ok = c.Spell("sleep")
	assert.True(t, ok)
	_, ok = c.Monster("troll")
	assert.True(t, ok)
	assert.NotEmpty(t, c.XP)
	assert.NotEmpty(t, c.Gems)
	assert.NotEmpty(t, c.Jewelry)
	assert.NotEmpty(t, c.Traps)
	assert.NotEmpty(t, c.Dressing["sounds"])
	assert.Equal(t, "blades", c.WeaponGroup("Long Sword"))
}

// TestCtx_NewWeapon returns copies so catalog prototypes stay pristine.
func TestCtx_NewWeapon(t *testing.T) {
	c := ctx(t)

	w, ok := c.NewWeapon("long sword")
	require.True(t, ok)
	w.MagicBonus = 2

	again, ok := c.NewWeapon("long sword")
	require.True(t, ok)
	assert.Equal(t, 0, again.MagicBonus)

	_, ok = c.NewWeapon("vorpal blade")
	assert.False(t, ok)
}

func TestClassDef_THAC0At(t *testing.T) {
	c := ctx(t)
	fighter, _ := c.Class("fighter")

	assert.Equal(t, 20, fighter.THAC0At(1))
	assert.Equal(t, 16, fighter.THAC0At(5))
	assert.Equal(t, 12, fighter.THAC0At(20)) // last entry repeats
}

// TestClassDef_SavesAt_Monotonic checks save targets never worsen with level.
func TestClassDef_SavesAt_Monotonic(t *testing.T) {
	c := ctx(t)
	cats := []rules.SaveCategory{rules.SavePoison, rules.SaveWand, rules.SavePetrify, rules.SaveBreath, rules.SaveSpell}

	for id, class := range c.Classes {
		for _, cat := range cats {
			prev := class.SavesAt(1).For(cat)
			for level := 2; level <= 12; level++ {
				cur := class.SavesAt(level).For(cat)
				assert.LessOrEqual(t, cur, prev, "%s %s at level %d", id, cat, level)
				prev = cur
			}
		}
	}
}

func TestClassDef_XPLadder(t *testing.T) {
	c := ctx(t)
	fighter, _ := c.Class("fighter")

	assert.Equal(t, 0, fighter.XPToReach(1))
	assert.Equal(t, 2000, fighter.XPToReach(2))
	assert.Equal(t, 1, fighter.LevelForXP(1999))
	assert.Equal(t, 2, fighter.LevelForXP(2000))
	// Beyond the authored ladder the last increment repeats.
	assert.Equal(t, 750000, fighter.XPToReach(11))

	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 10).Draw(t, "level")
		assert.Equal(t, level, fighter.LevelForXP(fighter.XPToReach(level)))
	})
}

// TestClassDef_AttackRateAt walks the warrior melee ladder; non-warriors
// stay at one attack per round forever.
func TestClassDef_AttackRateAt(t *testing.T) {
	c := ctx(t)

	fighter, _ := c.Class("fighter")
	num, den := fighter.AttackRateAt(1)
	assert.Equal(t, [2]int{1, 1}, [2]int{num, den})
	num, den = fighter.AttackRateAt(7)
	assert.Equal(t, [2]int{3, 2}, [2]int{num, den})
	num, den = fighter.AttackRateAt(13)
	assert.Equal(t, [2]int{2, 1}, [2]int{num, den})

	cleric, _ := c.Class("cleric")
	num, den = cleric.AttackRateAt(12)
	assert.Equal(t, [2]int{1, 1}, [2]int{num, den})
}

func TestClassDef_SpellSlots(t *testing.T) {
	c := ctx(t)

	mu, _ := c.Class("magic_user")
	assert.Equal(t, []int{1}, mu.SpellSlotsAt(1))
	assert.Equal(t, []int{4, 2, 1}, mu.SpellSlotsAt(5))

	fighter, _ := c.Class("fighter")
	assert.Nil(t, fighter.SpellSlotsAt(5))
}

func TestClassDef_Restrictions(t *testing.T) {
	c := ctx(t)

	fighter, _ := c.Class("fighter")
	assert.True(t, fighter.AllowsWeapon("two-handed sword"))
	assert.True(t, fighter.AllowsArmor("plate mail"))

	mu, _ := c.Class("magic_user")
	assert.True(t, mu.AllowsWeapon("Dagger"))
	assert.False(t, mu.AllowsWeapon("long sword"))
	assert.False(t, mu.AllowsArmor("leather armor"))

	thief, _ := c.Class("thief")
	assert.Equal(t, 2, thief.ProficiencySlotsAt(1))
	assert.Equal(t, 3, thief.ProficiencySlotsAt(5))
}

func TestAbilityTables(t *testing.T) {
	c := ctx(t)
	abt := c.Abilities

	assert.Equal(t, 2, abt.StrengthFor(18, 0).Damage)
	assert.Equal(t, 3, abt.StrengthFor(18, 35).Damage)
	assert.Equal(t, 6, abt.StrengthFor(18, 100).Damage)
	assert.Equal(t, -4, abt.DexterityFor(18).DefensiveAdj)
	assert.Equal(t, 0, abt.DexterityFor(10).DefensiveAdj)
	assert.Equal(t, 3, abt.HPAdjustment(17, true))
	assert.Equal(t, 2, abt.HPAdjustment(17, false))
	assert.Equal(t, []int{2, 1}, abt.WisdomFor(15).BonusSpells)
	assert.Equal(t, 4, abt.WisdomFor(18).MagicAttackAdj)
}

func TestThiefTables_EffectivePercent(t *testing.T) {
	c := ctx(t)
	tt := c.Thief

	// Base 25 open locks at level 1 plus the dex 16 bonus.
	assert.Equal(t, 30, tt.EffectivePercent(rules.SkillOpenLocks, 1, 16, 0, "light"))
	// Heavy armor penalizes stealth.
	assert.Equal(t, 25, tt.EffectivePercent(rules.SkillOpenLocks, 1, 13, 10, "heavy"))

	// Clamped to the [1, 99] band at the extremes.
	assert.Equal(t, 99, tt.EffectivePercent(rules.SkillPickPockets, 17, 18, 10, "light"))
	assert.Equal(t, 1, tt.EffectivePercent(rules.SkillHideInShadows, 1, 3, 0, "very_heavy"))

	// An untrained skill stays 0 no matter the bonuses.
	assert.Equal(t, 0, tt.EffectivePercent(rules.SkillReadLanguages, 1, 18, 15, "light"))

	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 23).Draw(t, "level")
		dex := rapid.IntRange(3, 18).Draw(t, "dex")
		raceAdj := rapid.IntRange(-15, 15).Draw(t, "raceAdj")
		pct := tt.EffectivePercent(rules.SkillMoveSilently, level, dex, raceAdj, "very_heavy")
		assert.GreaterOrEqual(t, pct, 1)
		assert.LessOrEqual(t, pct, 99)
	})
}

func TestTurningTable(t *testing.T) {
	c := ctx(t)

	assert.Equal(t, "10", c.Turning.Cell(1, "skeleton"))
	assert.Equal(t, rules.TurnImpossible, c.Turning.Cell(1, "vampire"))
	assert.Equal(t, rules.TurnAutomatic, c.Turning.Cell(4, "skeleton"))
	assert.Equal(t, rules.TurnDestroyAll, c.Turning.Cell(8, "skeleton"))
	assert.Equal(t, rules.TurnImpossible, c.Turning.Cell(3, "dragon"))

	n, ok := rules.Target("13")
	require.True(t, ok)
	assert.Equal(t, 13, n)
	_, ok = rules.Target(rules.TurnAutomatic)
	assert.False(t, ok)
}

func TestXPForMonster(t *testing.T) {
	c := ctx(t)

	orc, _ := c.Monster("orc")
	// 1 HD, 4 hp, no specials: 10 base + 1/hp.
	assert.Equal(t, 14, orc.XPValue(c.XP, 4))

	troll, _ := c.Monster("troll")
	// 6+6 lands in the 7 HD band: 225 + 8/hp + 275 for regeneration.
	assert.Equal(t, 225+8*30+275, troll.XPValue(c.XP, 30))

	kobold, _ := c.Monster("kobold")
	assert.Equal(t, 7, kobold.XPValue(c.XP, 2)) // authored override
}

func TestMonsterDef_Validate(t *testing.T) {
	bad := &rules.MonsterDef{
		ID:              "blob",
		Name:            "Blob",
		HitDice:         "4-7d8",
		ArmorClass:      30,
		THAC0:           15,
		Damage:          []string{"1d6"},
		AttacksPerRound: "3/0",
		Size:            "X",
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hit_dice")
	assert.Contains(t, err.Error(), "armor_class")
	assert.Contains(t, err.Error(), "size")
	assert.Contains(t, err.Error(), "attacks_per_round")
}

// TestMonsterDef_Rate covers the rational attack rate and weapon speed
// defaults.
func TestMonsterDef_Rate(t *testing.T) {
	c := ctx(t)

	orc, _ := c.Monster("orc")
	num, den := orc.Rate()
	assert.Equal(t, [2]int{1, 1}, [2]int{num, den})
	assert.Equal(t, 5, orc.AttackSpeed())

	troll, _ := c.Monster("troll")
	num, den = troll.Rate()
	assert.Equal(t, [2]int{3, 1}, [2]int{num, den})
	assert.Equal(t, 6, troll.AttackSpeed())

	zombie, _ := c.Monster("zombie")
	assert.Equal(t, 9, zombie.AttackSpeed())

	halfAgain := &rules.MonsterDef{AttacksPerRound: "3/2"}
	num, den = halfAgain.Rate()
	assert.Equal(t, [2]int{3, 2}, [2]int{num, den})
}

func TestTrapDef_DifficultyMod(t *testing.T) {
	c := ctx(t)

	assert.Equal(t, 10, c.Traps["pit"].DifficultyMod())
	assert.Equal(t, -10, c.Traps["poison_needle"].DifficultyMod())
	assert.Equal(t, 0, c.Traps["dart_volley"].DifficultyMod())
	assert.Equal(t, -20, c.Traps["glyph_ward"].DifficultyMod())
}

func TestMonsterDef_Queries(t *testing.T) {
	c := ctx(t)

	skeleton, _ := c.Monster("skeleton")
	assert.True(t, skeleton.ImmuneTo("sleep"))
	assert.False(t, skeleton.ImmuneTo("fire"))
	assert.Equal(t, 0, skeleton.IntelligenceScore())

	troll, _ := c.Monster("troll")
	assert.InDelta(t, 6.5, troll.EffectiveHD(), 0.001)
	assert.Equal(t, 0, troll.MagicResistance())
}

func TestRace(t *testing.T) {
	c := ctx(t)

	dwarf := c.Race("Dwarf")
	assert.Equal(t, 1, dwarf.AbilityMod("constitution"))
	assert.True(t, dwarf.BonusAgainst("orc"))
	assert.True(t, dwarf.DefenseBonusAgainst("ogre"))
	assert.True(t, dwarf.HasConSaveBonus(rules.SavePoison))
	assert.False(t, dwarf.HasConSaveBonus(rules.SaveBreath))
	assert.Equal(t, 9, dwarf.LevelCap("fighter"))

	// Unknown races confer nothing.
	unknown := c.Race("tiefling")
	assert.Equal(t, 120, unknown.BaseMovement)
	assert.Equal(t, 0, unknown.AbilityMod("strength"))

	assert.Equal(t, 4, rules.ConSaveBonus(14))
	assert.Equal(t, 5, rules.ConSaveBonus(18))
}

func TestValueFor(t *testing.T) {
	c := ctx(t)

	assert.Equal(t, 5000, rules.ValueFor(c.Gems, 100).Value)
	assert.Equal(t, 10, rules.ValueFor(c.Gems, 1).Value)
	// Out-of-range rolls use the nearest band.
	assert.Equal(t, 10, rules.ValueFor(c.Gems, 0).Value)
	assert.Equal(t, 5000, rules.ValueFor(c.Gems, 101).Value)
}
