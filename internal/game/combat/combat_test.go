package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

var testRules = rules.MustLoad()

func scripted(values ...int) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewScriptedSource(values...), zap.NewNop())
}

func engine(values ...int) *combat.Engine {
	return combat.NewEngine(testRules, scripted(values...), zap.NewNop())
}

func fighter(t *testing.T, name string, hpRoll int) *entity.PlayerCharacter {
	t.Helper()
	pc, err := entity.NewPlayerCharacter(testRules, scripted(hpRoll), name, "fighter", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	return pc
}

func wizard(t *testing.T, name string) *entity.PlayerCharacter {
	t.Helper()
	pc, err := entity.NewPlayerCharacter(testRules, scripted(4), name, "magic_user", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 16, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	return pc
}

func spawn(t *testing.T, id string, hpRolls ...int) *entity.MonsterInstance {
	t.Helper()
	m, err := entity.SpawnMonster(testRules, scripted(hpRolls...), id, 0)
	require.NoError(t, err)
	return m
}

// TestRollInitiative orders by d6 plus weapon speed plus the dexterity
// bracket, lowest first, skipping the dead.
func TestRollInitiative(t *testing.T) {
	pc := fighter(t, "Aldric", 8)
	orc := spawn(t, "orc", 5)
	dead := spawn(t, "orc", 3)
	dead.TakeDamage(99)

	// Aldric rolls 4 with speed-1 fists for 5; the orc rolls 2 at the
	// default monster speed of 5 for 7. Aldric acts first.
	e := engine(4, 2)
	order := e.RollInitiative([]entity.Combatant{pc, orc, dead})
	require.Len(t, order, 2)
	assert.Equal(t, "Aldric", order[0].Combatant.DisplayName())
	assert.Equal(t, 5, order[0].Score)
	assert.Equal(t, "Orc", order[1].Combatant.DisplayName())
	assert.Equal(t, 7, order[1].Score)
}

// TestRollInitiative_DexBracket lets high dexterity act earlier on a tie of
// natural rolls.
func TestRollInitiative_DexBracket(t *testing.T) {
	slow := fighter(t, "Slow", 8)
	quick, err := entity.NewPlayerCharacter(testRules, scripted(8), "Quick", "fighter", "human",
		entity.Abilities{Strength: 10, Dexterity: 18, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)

	e := engine(3, 3)
	order := e.RollInitiative([]entity.Combatant{slow, quick})
	// Both roll 3 with speed-1 fists; dex 18 takes off 2.
	assert.Equal(t, "Quick", order[0].Combatant.DisplayName())
	assert.Equal(t, 2, order[0].Score)
	assert.Equal(t, 4, order[1].Score)
}

// TestResolveAttack covers the hit roll arithmetic and the damage floor.
func TestResolveAttack(t *testing.T) {
	pc := fighter(t, "Aldric", 8)
	orc := spawn(t, "orc", 8)

	atk := pc.AttackRoutine("M")[0] // fists, 1d2

	// THAC0 20 vs AC 6 needs 14: a 14 hits, rolling 2 damage.
	e := engine(14, 2)
	res := e.ResolveAttack(pc, orc, atk)
	assert.True(t, res.Hit)
	assert.Equal(t, 14, res.Needed)
	assert.Equal(t, 2, res.Damage)
	assert.False(t, res.Critical)
	assert.Equal(t, 6, orc.CurrentHP())

	// A 13 misses.
	res = engine(13).ResolveAttack(pc, orc, atk)
	assert.False(t, res.Hit)
	assert.Zero(t, res.Damage)
}

// TestResolveAttack_NaturalRolls: 20 always hits and doubles the dice, 1
// always misses.
func TestResolveAttack_NaturalRolls(t *testing.T) {
	pc := fighter(t, "Aldric", 8)
	ogre := spawn(t, "ogre", 5, 5, 5, 5)

	atk := pc.AttackRoutine("L")[0]

	// Natural 20: the 2 rolled doubles to 4.
	res := engine(20, 2).ResolveAttack(pc, ogre, atk)
	assert.True(t, res.Critical)
	assert.Equal(t, 4, res.Damage)

	// Natural 1 misses even though AC 5 needs 15.
	res = engine(1).ResolveAttack(pc, ogre, atk)
	assert.True(t, res.Fumble)
	assert.False(t, res.Hit)
}

// TestResolveAttack_Helpless hits sleeping targets without a roll contest.
func TestResolveAttack_Helpless(t *testing.T) {
	pc := fighter(t, "Aldric", 8)
	orc := spawn(t, "orc", 8)
	orc.Conditions().Apply(entity.ConditionAsleep, entity.PermanentDuration)

	// The 3 would miss a waking orc.
	res := engine(3, 1).ResolveAttack(pc, orc, pc.AttackRoutine("M")[0])
	assert.True(t, res.Hit)
	assert.Equal(t, 1, res.Damage)
}

// TestResolveAttack_DamageFloor never deals less than 1 on a hit.
func TestResolveAttack_DamageFloor(t *testing.T) {
	weak, err := entity.NewPlayerCharacter(testRules, scripted(8), "Frail", "fighter", "human",
		entity.Abilities{Strength: 3, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	orc := spawn(t, "orc", 8)

	atk := weak.AttackRoutine("M")[0]
	require.Equal(t, -1, atk.DamageBonus)

	// Hits with a natural 20; 1 on the fists less the penalty is 0, doubled
	// is still 0, floored to 1.
	res := engine(20, 1).ResolveAttack(weak, orc, atk)
	require.True(t, res.Hit)
	assert.Equal(t, 1, res.Damage)
}

// TestResolveAttack_CriticalDoublesBonuses doubles the whole damage
// expression, bonuses included.
func TestResolveAttack_CriticalDoublesBonuses(t *testing.T) {
	strong, err := entity.NewPlayerCharacter(testRules, scripted(8), "Brand", "fighter", "human",
		entity.Abilities{Strength: 18, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	strong.Proficiencies = []string{"blades"}
	sword, ok := testRules.NewWeapon("long sword")
	require.True(t, ok)
	strong.Equipped.Weapon = sword

	ogre := spawn(t, "ogre", 8, 8, 8, 8)
	atk := strong.AttackRoutine("M")[0]
	require.Equal(t, 2, atk.DamageBonus)

	// Natural 20, then 5 on the d8: (5 + 2) doubled is 14.
	res := engine(20, 5).ResolveAttack(strong, ogre, atk)
	require.True(t, res.Critical)
	assert.Equal(t, 14, res.Damage)
}

// TestRollSave: d20 at or under the target succeeds, with natural overrides.
func TestRollSave(t *testing.T) {
	pc := fighter(t, "Aldric", 8) // poison target 14

	assert.True(t, engine(14).RollSave(pc, rules.SavePoison).Success)
	assert.False(t, engine(15).RollSave(pc, rules.SavePoison).Success)
	// A natural 1 always saves; a natural 20 always fails.
	assert.True(t, engine(1).RollSave(pc, rules.SavePoison).Success)
	assert.False(t, engine(20).RollSave(pc, rules.SavePoison).Success)

	// Situational modifiers raise the target and make the save easier.
	save := engine(16).RollSave(pc, rules.SavePoison, 2)
	assert.Equal(t, 16, save.Target)
	assert.True(t, save.Success)
	assert.False(t, engine(13).RollSave(pc, rules.SavePoison, -2).Success)
}

// TestSaveForHalf halves damage on success, rounding down.
func TestSaveForHalf(t *testing.T) {
	pc := fighter(t, "Aldric", 9)
	expr := dice.MustParse("2d6")

	// 3+4 damage, then a 16 under the breath target of 17 halves it to 3.
	save, dealt := engine(3, 4, 16).SaveForHalf(pc, rules.SaveBreath, expr)
	assert.True(t, save.Success)
	assert.Equal(t, 3, dealt)
	assert.Equal(t, 6, pc.CurrentHP())

	// A failed save takes it all.
	save, dealt = engine(1, 2, 18).SaveForHalf(pc, rules.SaveBreath, expr)
	assert.False(t, save.Success)
	assert.Equal(t, 3, dealt)
}

// TestSaveOrDie drops the victim to zero on failure.
func TestSaveOrDie(t *testing.T) {
	pc := fighter(t, "Aldric", 9)

	save := engine(5).SaveOrDie(pc, rules.SavePoison)
	assert.True(t, save.Success)
	assert.True(t, pc.IsAlive())

	save = engine(19).SaveOrDie(pc, rules.SavePoison)
	assert.False(t, save.Success)
	assert.False(t, pc.IsAlive())
	assert.Equal(t, 0, pc.CurrentHP())
}

// TestSegmentRoutines splits whole attacks front-loaded and grants the
// fractional extra in the second segment on a coin flip.
func TestSegmentRoutines(t *testing.T) {
	pc := fighter(t, "Aldric", 8)
	pc.Level = 7 // 3/2 attacks

	seg1, seg2 := engine(1).SegmentRoutines(pc, "M")
	assert.Len(t, seg1, 1)
	assert.Len(t, seg2, 1)

	seg1, seg2 = engine(2).SegmentRoutines(pc, "M")
	assert.Len(t, seg1, 1)
	assert.Empty(t, seg2)

	// A troll's three attacks split two and one with no flip.
	troll := spawn(t, "troll", 4, 4, 4, 4, 4, 4)
	seg1, seg2 = engine().SegmentRoutines(troll, "M")
	assert.Len(t, seg1, 2)
	assert.Len(t, seg2, 1)
}

// TestReachable honors the formation: back row is safe while the front
// stands.
func TestReachable(t *testing.T) {
	front := fighter(t, "Aldric", 8)
	back := wizard(t, "Mialee")
	p := &entity.Party{}
	p.Add(front)
	p.Add(back)

	reachable := combat.Reachable(p)
	require.Len(t, reachable, 1)
	assert.Equal(t, "Aldric", reachable[0].Name)

	front.TakeDamage(99)
	reachable = combat.Reachable(p)
	require.Len(t, reachable, 1)
	assert.Equal(t, "Mialee", reachable[0].Name)
}

// TestChooseTarget walks the intelligence-driven d100 table.
func TestChooseTarget(t *testing.T) {
	newParty := func(t *testing.T) *entity.Party {
		strong := fighter(t, "Strong", 10)
		chain, ok := testRules.NewArmor("chain mail")
		require.True(t, ok)
		strong.Equipped.Armor = chain
		weak := fighter(t, "Weak", 10)
		weak.TakeDamage(7)
		caster := wizard(t, "Mialee")
		return &entity.Party{Members: []*entity.PlayerCharacter{strong, weak, caster}}
	}
	p := newParty(t)

	// Dull creatures maul the worst-looking front-liner without a roll.
	skeleton := spawn(t, "skeleton", 4)
	got := engine().ChooseTarget(skeleton, p)
	assert.Equal(t, "Weak", got.Name)

	// A low roll sends anything at the wounded front-liner.
	orc := spawn(t, "orc", 5)
	got = engine(10).ChooseTarget(orc, p)
	assert.Equal(t, "Weak", got.Name)

	// A mid roll tempts a lunge at the back line, but a dim orc cannot get
	// past a standing front row.
	got = engine(75).ChooseTarget(orc, p)
	assert.Equal(t, "Weak", got.Name)

	// A clever monster on the same roll goes straight for the spellcaster.
	medusa := spawn(t, "medusa", 4, 4, 4, 4, 4, 4)
	got = engine(75).ChooseTarget(medusa, p)
	assert.Equal(t, "Mialee", got.Name)

	// On a high roll the clever monster takes the weakest armor instead.
	got = engine(95).ChooseTarget(medusa, p)
	assert.Equal(t, "Strong", got.Name)

	// The dim one settles for whoever looks worst overall.
	got = engine(95).ChooseTarget(orc, p)
	assert.Equal(t, "Weak", got.Name)
}

// TestCheckMorale rolls 2d6 against the morale score; 12 never breaks.
func TestCheckMorale(t *testing.T) {
	kobold := spawn(t, "kobold", 3)

	// 5+5 = 10 beats morale 6: it flees.
	res := engine(5, 5).CheckMorale(kobold)
	assert.False(t, res.Holds)
	assert.True(t, kobold.Fleeing)

	steady := spawn(t, "kobold", 3)
	res = engine(3, 3).CheckMorale(steady)
	assert.True(t, res.Holds)
	assert.False(t, steady.Fleeing)

	// Undead never break: 2d6 cannot exceed 12.
	zombie := spawn(t, "zombie", 4, 4)
	res = engine(6, 6).CheckMorale(zombie)
	assert.True(t, res.Holds)
}

// TestShouldCheckMorale: aggressive monsters never waver, defensive ones
// waver once bloodied, and a halved side shakes everyone else.
func TestShouldCheckMorale(t *testing.T) {
	troll := spawn(t, "troll", 4, 4, 4, 4, 4, 4)
	troll.TakeDamage(troll.CurrentHP() - 1)
	assert.False(t, combat.ShouldCheckMorale(troll, true))

	rat := spawn(t, "giant_rat", 4)
	assert.False(t, combat.ShouldCheckMorale(rat, false))
	rat.TakeDamage(2)
	assert.True(t, combat.ShouldCheckMorale(rat, false))

	orc := spawn(t, "orc", 8)
	assert.False(t, combat.ShouldCheckMorale(orc, false))
	assert.True(t, combat.ShouldCheckMorale(orc, true))
}

func TestWantsToFlee(t *testing.T) {
	kobold := spawn(t, "kobold", 4)
	assert.False(t, combat.WantsToFlee(kobold))

	kobold.TakeDamage(3)
	assert.True(t, combat.WantsToFlee(kobold))

	kobold.TakeDamage(1)
	assert.False(t, combat.WantsToFlee(kobold)) // dead, not fleeing

	orc := spawn(t, "orc", 8)
	orc.TakeDamage(7)
	assert.False(t, combat.WantsToFlee(orc)) // orcs have no flee behavior
}
