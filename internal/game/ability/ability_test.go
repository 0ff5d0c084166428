package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/ability"
	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

var testRules = rules.MustLoad()

func scripted(values ...int) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewScriptedSource(values...), zap.NewNop())
}

// engines builds a combat and ability engine sharing one scripted dice
// stream.
func engines(values ...int) *ability.Engine {
	cbt := combat.NewEngine(testRules, scripted(values...), zap.NewNop())
	return ability.NewEngine(testRules, cbt, zap.NewNop())
}

func fighter(t *testing.T, name string) *entity.PlayerCharacter {
	t.Helper()
	pc, err := entity.NewPlayerCharacter(testRules, scripted(8), name, "fighter", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	return pc
}

func cleric(t *testing.T, name string) *entity.PlayerCharacter {
	t.Helper()
	pc, err := entity.NewPlayerCharacter(testRules, scripted(6), name, "cleric", "human",
		entity.Abilities{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10})
	require.NoError(t, err)
	return pc
}

func spawn(t *testing.T, defID string, rolls ...int) *entity.MonsterInstance {
	t.Helper()
	m, err := entity.SpawnMonster(testRules, scripted(rolls...), defID, 0)
	require.NoError(t, err)
	return m
}

// TestOnHit_Paralysis checks the ghoul's touch against the petrification
// save. Fighter level 1 saves on 15 or less.
func TestOnHit_Paralysis(t *testing.T) {
	ghoul := spawn(t, "ghoul", 4, 4)
	pc := fighter(t, "Aldric")

	results := engines(16).OnHit(ghoul, pc)
	require.Len(t, results, 1)
	assert.Equal(t, entity.ConditionParalyzed, results[0].Applied)
	assert.False(t, results[0].Save.Success)
	assert.True(t, pc.Conditions().Incapacitated())

	fresh := fighter(t, "Brenna")
	results = engines(15).OnHit(ghoul, fresh)
	require.Len(t, results, 1)
	assert.True(t, results[0].Save.Success)
	assert.False(t, fresh.Conditions().Has(entity.ConditionParalyzed))
}

// TestOnHit_LethalPoison: the giant spider's venom kills outright on a
// failed save versus poison (fighter saves on 14 or less).
func TestOnHit_LethalPoison(t *testing.T) {
	spider := spawn(t, "giant_spider", 4, 4, 4, 4)

	pc := fighter(t, "Aldric")
	results := engines(15).OnHit(spider, pc)
	require.Len(t, results, 1)
	assert.True(t, results[0].Slain)
	assert.False(t, pc.IsAlive())

	lucky := fighter(t, "Brenna")
	results = engines(14).OnHit(spider, lucky)
	require.Len(t, results, 1)
	assert.False(t, results[0].Slain)
	assert.True(t, lucky.IsAlive())
}

// TestOnHit_WeakPoison: the centipede's venom only sickens.
func TestOnHit_WeakPoison(t *testing.T) {
	centipede := spawn(t, "giant_centipede", 2)
	pc := fighter(t, "Aldric")

	results := engines(15).OnHit(centipede, pc)
	require.Len(t, results, 1)
	assert.False(t, results[0].Slain)
	assert.Equal(t, entity.ConditionPoisoned, results[0].Applied)
	assert.True(t, pc.IsAlive())
	assert.True(t, pc.Conditions().Has(entity.ConditionPoisoned))
}

// TestOnHit_DiseaseChance: the giant rat's bite festers only 5% of the time.
func TestOnHit_DiseaseChance(t *testing.T) {
	rat := spawn(t, "giant_rat", 2)

	// 6 on the percentile misses the 5% window entirely.
	pc := fighter(t, "Aldric")
	results := engines(6).OnHit(rat, pc)
	assert.Empty(t, results)

	// 5 triggers the check; a failed poison save means disease.
	results = engines(5, 15).OnHit(rat, pc)
	require.Len(t, results, 1)
	assert.Equal(t, entity.ConditionDiseased, results[0].Applied)
	assert.True(t, pc.Conditions().Has(entity.ConditionDiseased))
}

// TestOnHit_LevelDrain: the wight takes a level with no saving throw.
func TestOnHit_LevelDrain(t *testing.T) {
	wight := spawn(t, "wight", 4, 4, 4, 4)

	pc := fighter(t, "Aldric") // HPMax 8 at level 1
	_, err := pc.GainXP(scripted(7), 2000)
	require.NoError(t, err)
	require.Equal(t, 2, pc.Level)
	require.Equal(t, 15, pc.HPMax)

	results := engines().OnHit(wight, pc)
	require.Len(t, results, 1)
	assert.False(t, results[0].Slain)
	assert.Equal(t, 1, pc.Level)
	assert.Equal(t, 8, pc.HPMax)
	assert.Equal(t, 0, pc.XP)

	// Drained below first level, the victim dies.
	results = engines().OnHit(wight, pc)
	require.Len(t, results, 1)
	assert.True(t, results[0].Slain)
	assert.False(t, pc.IsAlive())
}

// TestOnHit_StrengthDrain: the shadow's chill saps strength, to a floor of 3.
func TestOnHit_StrengthDrain(t *testing.T) {
	shadow := spawn(t, "shadow", 4, 4, 4)
	pc := fighter(t, "Aldric")

	eng := engines()
	eng.OnHit(shadow, pc)
	assert.Equal(t, 9, pc.Scores.Strength)

	for i := 0; i < 10; i++ {
		eng.OnHit(shadow, pc)
	}
	assert.Equal(t, 3, pc.Scores.Strength)
}

// TestTakeAction_Breath: the hell hound's fire catches the whole front row
// for its current hit points, save versus breath (17) for half.
func TestTakeAction_Breath(t *testing.T) {
	hound := spawn(t, "hell_hound", 1, 1, 1, 1) // 4 HP
	a, b := fighter(t, "Aldric"), fighter(t, "Brenna")
	party := &entity.Party{Members: []*entity.PlayerCharacter{a, b}}

	// 50 fires the 50% breath; Aldric saves (17, takes 2 of 4), Brenna
	// fails (18, takes the full 4).
	res, ok := engines(50, 17, 18).TakeAction(hound, party)
	require.True(t, ok)
	assert.Equal(t, "breath_weapon", res.Ability)
	assert.Equal(t, 6, res.Damage)
	assert.Equal(t, 8-2, a.HP)
	assert.Equal(t, 8-4, b.HP)

	// 51 rolls over the chance and no special fires.
	_, ok = engines(51).TakeAction(hound, party)
	assert.False(t, ok)
}

// TestTakeAction_Gaze: the medusa's gaze petrifies on a failed save versus
// petrification.
func TestTakeAction_Gaze(t *testing.T) {
	medusa := spawn(t, "medusa", 4, 4, 4, 4, 4, 4)
	pc := fighter(t, "Aldric")
	party := &entity.Party{Members: []*entity.PlayerCharacter{pc}}

	res, ok := engines(50, 16).TakeAction(medusa, party)
	require.True(t, ok)
	assert.Equal(t, "gaze", res.Ability)
	assert.Equal(t, entity.ConditionStone, res.Applied)
	assert.True(t, pc.Conditions().Incapacitated())
}

// TestOnHit_Constriction: the snake's coils crush with no save, and keep
// crushing each round until the victim dies or breaks free.
func TestOnHit_Constriction(t *testing.T) {
	snake := spawn(t, "giant_snake", 1, 1, 1, 1, 1, 1) // 6+1 HD
	pc := fighter(t, "Aldric")
	party := &entity.Party{Members: []*entity.PlayerCharacter{pc}}

	// Six hit dice or more crush for 2d8.
	eng := engines(3, 2, 4, 4)
	results := eng.OnHit(snake, pc)
	require.Len(t, results, 1)
	assert.Equal(t, "constriction", results[0].Ability)
	assert.Equal(t, 5, results[0].Damage)
	assert.Equal(t, pc.ID, snake.Holding)
	assert.Equal(t, 3, pc.HP)

	// The hold persists into the next round.
	sq := eng.Squeeze(snake, party)
	require.NotNil(t, sq)
	assert.Equal(t, 3, sq.Damage, "only 3 hit points remained")
	assert.True(t, sq.Slain)
	assert.Empty(t, snake.Holding, "the coils release the dead")

	assert.Nil(t, eng.Squeeze(snake, party), "nobody held")
}

// TestTakeAction_NoSpecials: an ordinary monster just attacks.
func TestTakeAction_NoSpecials(t *testing.T) {
	orc := spawn(t, "orc", 4)
	party := &entity.Party{Members: []*entity.PlayerCharacter{fighter(t, "Aldric")}}

	_, ok := engines().TakeAction(orc, party)
	assert.False(t, ok)
}

// TestStartOfRound_Regeneration: the troll knits 3 points a round, never
// past its maximum.
func TestStartOfRound_Regeneration(t *testing.T) {
	troll := spawn(t, "troll", 1, 1, 1, 1, 1, 1) // 12 HP
	troll.TakeDamage(5)

	eng := engines()
	res := eng.StartOfRound(troll)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Healed)
	assert.Equal(t, 10, troll.HP)

	res = eng.StartOfRound(troll)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Healed)
	assert.Equal(t, 12, troll.HP)

	assert.Nil(t, eng.StartOfRound(troll), "at full hit points")

	troll.TakeDamage(12)
	assert.Nil(t, eng.StartOfRound(troll), "dead trolls stay down")
}

// TestTurnUndead rolls one d20 against the matrix per undead type and
// affects up to 2d6 individuals.
func TestTurnUndead(t *testing.T) {
	pc := cleric(t, "Ansel")
	skel1 := spawn(t, "skeleton", 4)
	skel2 := spawn(t, "skeleton", 4)
	zombie := spawn(t, "zombie", 4, 4)
	wight := spawn(t, "wight", 4, 4, 4, 4)

	// Level 1 needs 10 for skeletons, 13 for zombies, 20 for wights. A 13
	// with budget 6 turns the first three and leaves the wight.
	res, err := engines(13, 3, 3).TurnUndead(pc, []*entity.MonsterInstance{skel1, skel2, zombie, wight})
	require.NoError(t, err)
	assert.Equal(t, []string{"Skeleton", "Skeleton", "Zombie"}, res.Turned)
	assert.Empty(t, res.Destroyed)
	assert.True(t, skel1.Fleeing)
	assert.True(t, zombie.Fleeing)
	assert.False(t, wight.Fleeing)
}

// TestTurnUndead_Destroy: a high-level cleric destroys lesser undead
// outright. The first D* match swells the 2d6 budget by 2d4, and the
// combined budget still caps how many fall.
func TestTurnUndead_Destroy(t *testing.T) {
	pc := cleric(t, "Ansel")
	pc.Level = 8

	skel1 := spawn(t, "skeleton", 4)
	skel2 := spawn(t, "skeleton", 4)
	zombie := spawn(t, "zombie", 4, 4)
	ghoul1 := spawn(t, "ghoul", 4, 4)
	ghoul2 := spawn(t, "ghoul", 4, 4)

	// d20 of 1 (destruction needs no roll), 2d6 budget of 2, bolstered by
	// 2d4 of 2 at the first skeleton.
	res, err := engines(1, 1, 1, 1, 1).TurnUndead(pc,
		[]*entity.MonsterInstance{skel1, skel2, zombie, ghoul1, ghoul2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.Len(t, res.Destroyed, 4)
	assert.False(t, skel1.IsAlive())
	assert.False(t, skel2.IsAlive())
	assert.False(t, zombie.IsAlive())
	assert.False(t, ghoul1.IsAlive())
	assert.True(t, ghoul2.IsAlive(), "budget of 4 already spent")
}

// TestTurnUndead_Restrictions: only living undead count, and only turning
// classes may try.
func TestTurnUndead_Restrictions(t *testing.T) {
	pc := cleric(t, "Ansel")
	orc := spawn(t, "orc", 4)

	res, err := engines(20, 6, 6).TurnUndead(pc, []*entity.MonsterInstance{orc})
	require.NoError(t, err)
	assert.Empty(t, res.Turned)
	assert.True(t, orc.IsAlive())

	_, err = engines(20, 6, 6).TurnUndead(fighter(t, "Aldric"), nil)
	assert.ErrorIs(t, err, ability.ErrCannotTurn)
}
