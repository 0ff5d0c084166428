package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/rules"
)

// MonsterInstance is one spawned monster with rolled hit points. Several
// instances of the same definition are distinguished by numbered names.
//
// Invariant: 0 <= HP <= HPMax.
type MonsterInstance struct {
	ID    string `json:"id"`
	DefID string `json:"def"`
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	HPMax int    `json:"hp_max"`
	// XP is the award for defeating this instance, fixed at spawn time from
	// its rolled hit points.
	XP int `json:"xp"`
	// Fleeing is set when morale breaks; a fleeing monster spends its turns
	// trying to escape.
	Fleeing bool `json:"fleeing,omitempty"`
	// Holding is the instance ID of a victim caught in the monster's coils;
	// empty when nobody is held.
	Holding string       `json:"holding,omitempty"`
	Status  ConditionSet `json:"conditions"`
	// SpecialUses tracks remaining uses of limited special abilities, keyed
	// by index into the definition's special list.
	SpecialUses map[int]int `json:"special_uses,omitempty"`

	def   *rules.MonsterDef
	rules *rules.Ctx
}

// SpawnMonster creates an instance of the catalog monster with rolled hit
// points. ordinal numbers the instance within its group; 0 leaves the name
// bare.
func SpawnMonster(ctx *rules.Ctx, roller *dice.Roller, defID string, ordinal int) (*MonsterInstance, error) {
	def, ok := ctx.Monster(defID)
	if !ok {
		return nil, fmt.Errorf("unknown monster %q", defID)
	}
	hp := roller.Roll(def.HitDiceExpr()).Total()
	if hp < 1 {
		hp = 1
	}
	name := def.Name
	if ordinal > 0 {
		name = fmt.Sprintf("%s %d", def.Name, ordinal)
	}

	m := &MonsterInstance{
		ID:    uuid.NewString(),
		DefID: def.ID,
		Name:  name,
		HP:    hp,
		HPMax: hp,
		XP:    def.XPValue(ctx.XP, hp),
		def:   def,
		rules: ctx,
	}
	for i, sp := range def.Specials {
		if sp.Uses > 0 {
			if m.SpecialUses == nil {
				m.SpecialUses = make(map[int]int)
			}
			m.SpecialUses[i] = sp.Uses
		}
	}
	return m, nil
}

// Bind attaches the rules tables after deserialization.
func (m *MonsterInstance) Bind(ctx *rules.Ctx) error {
	def, ok := ctx.Monster(m.DefID)
	if !ok {
		return fmt.Errorf("unknown monster %q", m.DefID)
	}
	m.def = def
	m.rules = ctx
	return nil
}

// Def returns the catalog definition.
func (m *MonsterInstance) Def() *rules.MonsterDef { return m.def }

// InstanceID implements Combatant.
func (m *MonsterInstance) InstanceID() string { return m.ID }

// DisplayName implements Combatant.
func (m *MonsterInstance) DisplayName() string { return m.Name }

// CombatSide implements Combatant.
func (m *MonsterInstance) CombatSide() Side { return SideMonsters }

// CurrentHP implements Combatant.
func (m *MonsterInstance) CurrentHP() int { return m.HP }

// MaxHP implements Combatant.
func (m *MonsterInstance) MaxHP() int { return m.HPMax }

// IsAlive implements Combatant.
func (m *MonsterInstance) IsAlive() bool { return m.HP > 0 }

// FormationRow implements Combatant. Monsters all fight in the front.
func (m *MonsterInstance) FormationRow() Row { return RowFront }

// Conditions implements Combatant.
func (m *MonsterInstance) Conditions() *ConditionSet { return &m.Status }

// TakeDamage implements Combatant.
func (m *MonsterInstance) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > m.HP {
		amount = m.HP
	}
	m.HP -= amount
	return amount
}

// Heal implements Combatant. Healing a dead monster is a no-op.
func (m *MonsterInstance) Heal(amount int) int {
	if m.HP == 0 {
		return 0
	}
	if amount < 0 {
		amount = 0
	}
	if m.HP+amount > m.HPMax {
		amount = m.HPMax - m.HP
	}
	m.HP += amount
	return amount
}

// ArmorClass implements Combatant.
func (m *MonsterInstance) ArmorClass() int { return m.def.ArmorClass }

// THAC0 implements Combatant.
func (m *MonsterInstance) THAC0() int { return m.def.THAC0 }

// SaveTarget implements Combatant: monsters save as fighters of a level
// equal to their hit dice.
func (m *MonsterInstance) SaveTarget(cat rules.SaveCategory) int {
	fighter, ok := m.rules.Class("fighter")
	if !ok {
		return 20
	}
	level := int(m.def.EffectiveHD())
	if level < 1 {
		level = 1
	}
	return fighter.SavesAt(level).For(cat)
}

// AttackRoutine implements Combatant: one attack per damage expression in
// the definition's routine.
func (m *MonsterInstance) AttackRoutine(string) []Attack {
	attacks := make([]Attack, 0, len(m.def.Damage))
	for _, raw := range m.def.Damage {
		expr, err := dice.Parse(raw)
		if err != nil {
			continue
		}
		attacks = append(attacks, Attack{
			Name:        m.def.Name,
			Damage:      expr,
			SpeedFactor: m.def.AttackSpeed(),
		})
	}
	return attacks
}

// AttackRate implements Combatant.
func (m *MonsterInstance) AttackRate() (num, den int) { return m.def.Rate() }

// InitiativeMod implements Combatant.
func (m *MonsterInstance) InitiativeMod() int { return 0 }

// SpecialAvailable reports whether the indexed special ability still has
// uses remaining.
func (m *MonsterInstance) SpecialAvailable(index int) bool {
	if index < 0 || index >= len(m.def.Specials) {
		return false
	}
	if m.def.Specials[index].Uses == 0 {
		return true
	}
	return m.SpecialUses[index] > 0
}

// SpendSpecial consumes one use of a limited special ability.
func (m *MonsterInstance) SpendSpecial(index int) {
	if left, ok := m.SpecialUses[index]; ok && left > 0 {
		m.SpecialUses[index] = left - 1
	}
}

// HealthBand describes the monster's wounds without exact numbers.
func (m *MonsterInstance) HealthBand() string {
	return HealthBand(m.HP, m.HPMax)
}
