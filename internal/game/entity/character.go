package entity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/spell"
)

// ErrNegativeXP is returned when an experience award is negative.
var ErrNegativeXP = errors.New("experience award must not be negative")

// Abilities holds the six ability scores. StrengthExc is the 18/xx
// exceptional percentile, 0 when not applicable.
type Abilities struct {
	Strength     int `json:"strength"`
	StrengthExc  int `json:"strength_exc,omitempty"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// LevelUp records one level gained from an experience award.
type LevelUp struct {
	NewLevel int
	HPGained int
}

// PlayerCharacter is one member of the adventuring party.
//
// Invariant: 0 <= HP <= HPMax; XP >= 0.
type PlayerCharacter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassID   string    `json:"class"`
	RaceID    string    `json:"race"`
	Alignment string    `json:"alignment"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	Scores    Abilities `json:"abilities"`
	HP        int       `json:"hp"`
	HPMax     int       `json:"hp_max"`
	Gold      int       `json:"gold"`

	Inventory item.Inventory `json:"inventory"`
	Equipped  item.Equipment `json:"equipped"`
	Book      spell.Book     `json:"spellbook"`
	Status    ConditionSet   `json:"conditions"`

	// Proficiencies lists weapon names or proficiency group names.
	Proficiencies []string `json:"proficiencies,omitempty"`
	Row           Row      `json:"row"`

	// TrapLore is a running percentage bonus to disarm attempts, earned by
	// flawless disarms.
	TrapLore int `json:"trap_lore,omitempty"`

	// Defending grants -2 AC until the character's next action.
	Defending bool `json:"-"`

	rules *rules.Ctx
}

// NewPlayerCharacter creates a level-1 character: racial ability adjustments
// applied, hit points rolled on the class hit die, spell slots seated, and
// the class default formation row assigned.
func NewPlayerCharacter(ctx *rules.Ctx, roller *dice.Roller, name, classID, raceID string, scores Abilities) (*PlayerCharacter, error) {
	class, ok := ctx.Class(classID)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", classID)
	}
	race := ctx.Race(raceID)
	scores.Strength += race.AbilityMod("strength")
	scores.Dexterity += race.AbilityMod("dexterity")
	scores.Constitution += race.AbilityMod("constitution")
	scores.Intelligence += race.AbilityMod("intelligence")
	scores.Wisdom += race.AbilityMod("wisdom")
	scores.Charisma += race.AbilityMod("charisma")

	pc := &PlayerCharacter{
		ID:      uuid.NewString(),
		Name:    name,
		ClassID: class.ID,
		RaceID:  race.ID,
		Level:   1,
		Scores:  scores,
		Row:     Row(class.DefaultFormation),
		rules:   ctx,
	}

	hp := pc.rollHitDie(roller, class)
	pc.HPMax = hp
	pc.HP = hp
	pc.RefreshSpellSlots()
	return pc, nil
}

// Bind attaches the rules tables after deserialization. Derived-stat methods
// panic without a bound Ctx.
func (pc *PlayerCharacter) Bind(ctx *rules.Ctx) {
	pc.rules = ctx
}

// Class returns the character's class definition.
func (pc *PlayerCharacter) Class() *rules.ClassDef {
	class, ok := pc.rules.Class(pc.ClassID)
	if !ok {
		panic(fmt.Sprintf("character %s has unknown class %q", pc.Name, pc.ClassID))
	}
	return class
}

// Race returns the character's race definition.
func (pc *PlayerCharacter) Race() *rules.RaceDef {
	return pc.rules.Race(pc.RaceID)
}

func (pc *PlayerCharacter) rollHitDie(roller *dice.Roller, class *rules.ClassDef) int {
	roll := roller.Roll(dice.Expression{Count: 1, Sides: class.HitDie})
	hp := roll.Total() + pc.rules.Abilities.HPAdjustment(pc.Scores.Constitution, class.Warrior)
	if hp < 1 {
		hp = 1
	}
	return hp
}

// InstanceID implements Combatant.
func (pc *PlayerCharacter) InstanceID() string { return pc.ID }

// DisplayName implements Combatant.
func (pc *PlayerCharacter) DisplayName() string { return pc.Name }

// CombatSide implements Combatant.
func (pc *PlayerCharacter) CombatSide() Side { return SideParty }

// CurrentHP implements Combatant.
func (pc *PlayerCharacter) CurrentHP() int { return pc.HP }

// MaxHP implements Combatant.
func (pc *PlayerCharacter) MaxHP() int { return pc.HPMax }

// IsAlive implements Combatant.
func (pc *PlayerCharacter) IsAlive() bool { return pc.HP > 0 }

// FormationRow implements Combatant.
func (pc *PlayerCharacter) FormationRow() Row { return pc.Row }

// Conditions implements Combatant.
func (pc *PlayerCharacter) Conditions() *ConditionSet { return &pc.Status }

// TakeDamage implements Combatant.
//
// Postcondition: HP never drops below 0; returns the damage actually dealt.
func (pc *PlayerCharacter) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > pc.HP {
		amount = pc.HP
	}
	pc.HP -= amount
	return amount
}

// Heal implements Combatant. Healing a dead character is a no-op; the dead
// need raising, not bandages.
//
// Postcondition: HP never exceeds HPMax; returns the amount restored.
func (pc *PlayerCharacter) Heal(amount int) int {
	if pc.HP == 0 {
		return 0
	}
	if amount < 0 {
		amount = 0
	}
	if pc.HP+amount > pc.HPMax {
		amount = pc.HPMax - pc.HP
	}
	pc.HP += amount
	return amount
}

// ArmorClass implements Combatant: base 10 descending, improved by armor,
// shield, dexterity, and the defend action.
func (pc *PlayerCharacter) ArmorClass() int {
	ac := 10
	if pc.Equipped.Armor != nil {
		ac = pc.Equipped.Armor.BaseAC - pc.Equipped.Armor.MagicBonus
	}
	if pc.Equipped.Shield != nil {
		ac -= pc.Equipped.Shield.ACBonus + pc.Equipped.Shield.MagicBonus
	}
	ac += pc.rules.Abilities.DexterityFor(pc.Scores.Dexterity).DefensiveAdj
	if pc.Defending {
		ac -= 2
	}
	if ac < -10 {
		ac = -10
	}
	return ac
}

// THAC0 implements Combatant.
func (pc *PlayerCharacter) THAC0() int {
	return pc.Class().THAC0At(pc.Level)
}

// SaveTarget implements Combatant: the class table target raised by the
// wisdom adjustment on mental saves, the racial constitution bonus, and the
// enchantment on worn armor and shield. Roll at or under the target to
// succeed, so bonuses add.
func (pc *PlayerCharacter) SaveTarget(cat rules.SaveCategory) int {
	target := pc.Class().SavesAt(pc.Level).For(cat)
	if cat.IsMental() {
		target += pc.rules.Abilities.WisdomFor(pc.Scores.Wisdom).MagicAttackAdj
	}
	if pc.Race().HasConSaveBonus(cat) {
		target += rules.ConSaveBonus(pc.Scores.Constitution)
	}
	if pc.Equipped.Armor != nil {
		target += pc.Equipped.Armor.MagicBonus
	}
	if pc.Equipped.Shield != nil {
		target += pc.Equipped.Shield.MagicBonus
	}
	return target
}

// AttackRoutine implements Combatant: the equipped weapon, or fists for 1d2.
func (pc *PlayerCharacter) AttackRoutine(targetSize string) []Attack {
	str := pc.rules.Abilities.StrengthFor(pc.Scores.Strength, pc.Scores.StrengthExc)

	if pc.Equipped.Weapon == nil {
		return []Attack{{
			Name:        "fists",
			Damage:      dice.Expression{Raw: "1d2", Count: 1, Sides: 2},
			SpeedFactor: 1,
			HitBonus:    str.HitProb,
			DamageBonus: str.Damage,
		}}
	}

	w := pc.Equipped.Weapon
	expr, err := dice.Parse(w.DamageDiceFor(targetSize))
	if err != nil {
		expr = dice.Expression{Raw: "1d2", Count: 1, Sides: 2}
	}
	hit := str.HitProb + w.MagicBonus
	if !pc.Proficient(w.Name) {
		hit += pc.Class().NonProficiencyPenalty
	}
	return []Attack{{
		Name:        w.Name,
		Damage:      expr,
		SpeedFactor: w.SpeedFactor,
		HitBonus:    hit,
		DamageBonus: str.Damage + w.MagicBonus,
	}}
}

// InitiativeMod implements Combatant: the dexterity initiative bracket.
// Lower acts earlier, so quick hands subtract.
func (pc *PlayerCharacter) InitiativeMod() int {
	switch dex := pc.Scores.Dexterity; {
	case dex >= 18:
		return -2
	case dex >= 16:
		return -1
	case dex >= 9:
		return 0
	case dex >= 6:
		return 1
	default:
		return 2
	}
}

// AttackRate implements Combatant: the class melee rate ladder.
func (pc *PlayerCharacter) AttackRate() (num, den int) {
	return pc.Class().AttackRateAt(pc.Level)
}

// Proficient reports whether the character is proficient with the weapon,
// either by name or through its proficiency group.
func (pc *PlayerCharacter) Proficient(weaponName string) bool {
	group := pc.rules.WeaponGroup(weaponName)
	for _, p := range pc.Proficiencies {
		if p == weaponName || (group != "" && p == group) {
			return true
		}
	}
	return false
}

// IsCaster reports whether the character's class grants spell slots.
func (pc *PlayerCharacter) IsCaster() bool {
	return len(pc.Class().SpellSlotsAt(pc.Level)) > 0
}

// RefreshSpellSlots reseats the spellbook slots for the current level,
// adding wisdom bonus spells for cleric-type casters.
func (pc *PlayerCharacter) RefreshSpellSlots() {
	class := pc.Class()
	counts := class.SpellSlotsAt(pc.Level)
	if counts == nil {
		return
	}
	if class.SpellType == "cleric" {
		bonus := pc.rules.Abilities.WisdomFor(pc.Scores.Wisdom).BonusSpells
		for i, b := range bonus {
			if i < len(counts) {
				counts[i] += b
			}
		}
	}
	pc.Book.SetSlotLevels(counts)
}

// GainXP awards experience and applies any level-ups: one hit die of HP per
// level plus the constitution adjustment, and refreshed spell slots.
//
// Precondition: amount >= 0.
func (pc *PlayerCharacter) GainXP(roller *dice.Roller, amount int) ([]LevelUp, error) {
	if amount < 0 {
		return nil, ErrNegativeXP
	}
	class := pc.Class()
	pc.XP += amount

	var ups []LevelUp
	for newLevel := class.LevelForXP(pc.XP); pc.Level < newLevel; {
		pc.Level++
		if limit := pc.Race().LevelCap(class.ID); limit > 0 && pc.Level > limit {
			pc.Level = limit
			break
		}
		gained := pc.rollHitDie(roller, class)
		pc.HPMax += gained
		pc.HP += gained
		ups = append(ups, LevelUp{NewLevel: pc.Level, HPGained: gained})
	}
	if len(ups) > 0 {
		pc.RefreshSpellSlots()
	}
	return ups, nil
}

// DrainLevels removes experience levels, the way wights and their kin do.
// Each level lost takes a proportional share of maximum hit points and
// drops experience to the new level's floor. Draining below level 1 kills.
//
// Postcondition: Level >= 1; HP <= HPMax.
func (pc *PlayerCharacter) DrainLevels(n int) {
	for i := 0; i < n; i++ {
		if pc.Level <= 1 {
			pc.HP = 0
			return
		}
		loss := pc.HPMax / pc.Level
		pc.Level--
		pc.HPMax -= loss
		if pc.HPMax < 1 {
			pc.HPMax = 1
		}
		if pc.HP > pc.HPMax {
			pc.HP = pc.HPMax
		}
	}
	pc.XP = pc.Class().XPToReach(pc.Level)
	pc.RefreshSpellSlots()
}

// CarriedWeight returns the character's load in gold-piece weight, coins
// included.
func (pc *PlayerCharacter) CarriedWeight() int {
	return pc.Inventory.TotalWeight() + pc.Gold
}

// CarryCapacity returns the unencumbered load limit: 500 gold-piece weight
// plus the strength allowance.
func (pc *PlayerCharacter) CarryCapacity() int {
	return 500 + pc.rules.Abilities.StrengthFor(pc.Scores.Strength, pc.Scores.StrengthExc).WeightAllowance
}

// MovementRate returns feet per turn: the racial base capped by worn armor
// (90 in heavy, 60 in very heavy; enchanted armor moves freely), then scaled
// for encumbrance at full rate up to capacity, three-quarters, half, and
// one-quarter at 1.5x, 2x, and beyond.
//
// Postcondition: Returns >= 1.
func (pc *PlayerCharacter) MovementRate() int {
	base := pc.Race().BaseMovement
	if armor := pc.Equipped.Armor; armor != nil && armor.MagicBonus == 0 {
		ceiling := base
		switch armor.WeightClass {
		case item.ArmorHeavy:
			ceiling = 90
		case item.ArmorVeryHeavy:
			ceiling = 60
		}
		if base > ceiling {
			base = ceiling
		}
	}
	capacity := pc.CarryCapacity()
	load := pc.CarriedWeight()
	rate := base
	switch {
	case capacity <= 0 || load > capacity*2:
		rate = base / 4
	case load <= capacity:
		rate = base
	case load*2 <= capacity*3:
		rate = base * 3 / 4
	default:
		rate = base / 2
	}
	if rate < 1 {
		rate = 1
	}
	return rate
}

// CanSprint reports whether the character may run or charge: not in plate
// and not severely encumbered.
func (pc *PlayerCharacter) CanSprint() bool {
	if armor := pc.Equipped.Armor; armor != nil && armor.WeightClass == item.ArmorVeryHeavy {
		return false
	}
	return pc.CarriedWeight() <= pc.CarryCapacity()*2
}

// RunningRate is triple the walking rate, sustainable for constitution
// rounds before the character must rest.
func (pc *PlayerCharacter) RunningRate() int { return pc.MovementRate() * 3 }

// RunningRounds is how many rounds the character can keep running.
func (pc *PlayerCharacter) RunningRounds() int { return pc.Scores.Constitution }

// ChargingRate is double the walking rate for a single closing rush.
func (pc *PlayerCharacter) ChargingRate() int { return pc.MovementRate() * 2 }

// HealthBand describes the character's wounds without exact numbers.
func (pc *PlayerCharacter) HealthBand() string {
	return HealthBand(pc.HP, pc.HPMax)
}

// HealthBand buckets current hit points into a narrative description.
func HealthBand(hp, max int) string {
	switch {
	case hp <= 0:
		return "dead"
	case max <= 0 || hp >= max:
		return "unhurt"
	case hp*4 >= max*3:
		return "lightly wounded"
	case hp*2 >= max:
		return "wounded"
	case hp*4 >= max:
		return "badly wounded"
	default:
		return "near death"
	}
}
