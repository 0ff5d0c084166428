package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/skill"
)

var testRules = rules.MustLoad()

func scripted(values ...int) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewScriptedSource(values...), zap.NewNop())
}

func engine(values ...int) *skill.Engine {
	return skill.NewEngine(testRules, scripted(values...), zap.NewNop())
}

func thief(t *testing.T, race string, dex int) *entity.PlayerCharacter {
	t.Helper()
	pc, err := entity.NewPlayerCharacter(testRules, scripted(4), "Shadow", "thief", race,
		entity.Abilities{Strength: 10, Dexterity: dex, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	return pc
}

// TestChance folds race, dexterity, and armor into the table value.
func TestChance(t *testing.T) {
	e := engine()

	plain := thief(t, "human", 13)
	chance, err := e.Chance(plain, rules.SkillOpenLocks)
	require.NoError(t, err)
	assert.Equal(t, 25, chance)

	// Dwarves pick locks 10 better; dex 17 adds another 10.
	tinker := thief(t, "dwarf", 17)
	chance, err = e.Chance(tinker, rules.SkillOpenLocks)
	require.NoError(t, err)
	assert.Equal(t, 45, chance)

	// Heavy armor drags stealth down.
	armored := thief(t, "human", 13)
	mail, ok := testRules.NewArmor("chain mail")
	require.True(t, ok)
	armored.Equipped.Armor = mail
	chance, err = e.Chance(armored, rules.SkillMoveSilently)
	require.NoError(t, err)
	assert.Equal(t, 1, chance) // 15 - 20, clamped up to 1

	fighter, err := entity.NewPlayerCharacter(testRules, scripted(8), "Aldric", "fighter", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	_, err = e.Chance(fighter, rules.SkillOpenLocks)
	assert.ErrorIs(t, err, skill.ErrNoThiefSkills)
}

// TestCheck rolls d100 at or under the chance.
func TestCheck(t *testing.T) {
	pc := thief(t, "human", 13) // open locks 25

	res, err := engine(25).Check(pc, rules.SkillOpenLocks)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = engine(26).Check(pc, rules.SkillOpenLocks)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 25, res.Chance)
}

// TestCheck_HearNoise rolls d6 and works for any class.
func TestCheck_HearNoise(t *testing.T) {
	pc := thief(t, "human", 13) // hear noise 2 in 6

	res, err := engine(2).Check(pc, rules.SkillHearNoise)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Chance)

	fighter, err := entity.NewPlayerCharacter(testRules, scripted(8), "Aldric", "fighter", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	res, err = engine(1).Check(fighter, rules.SkillHearNoise)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Chance)

	res, err = engine(2).Check(fighter, rules.SkillHearNoise)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestBackstabMultiplier(t *testing.T) {
	assert.Equal(t, 2, skill.BackstabMultiplier(1))
	assert.Equal(t, 2, skill.BackstabMultiplier(4))
	assert.Equal(t, 3, skill.BackstabMultiplier(5))
	assert.Equal(t, 4, skill.BackstabMultiplier(9))
	assert.Equal(t, 5, skill.BackstabMultiplier(13))
	assert.Equal(t, 5, skill.BackstabMultiplier(20))
}
