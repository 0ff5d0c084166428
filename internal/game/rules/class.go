package rules

import "strings"

// Saves is a character's five saving-throw targets. Roll d20 less than or
// equal to the adjusted target to succeed.
type Saves struct {
	Poison  int `json:"poison"`  // poison / death magic
	Wand    int `json:"wand"`    // rod, staff, wand
	Petrify int `json:"petrify"` // petrification / paralyzation
	Breath  int `json:"breath"`  // breath weapon
	Spell   int `json:"spell"`
}

// SaveCategory names one of the five saving-throw columns.
type SaveCategory string

const (
	SavePoison  SaveCategory = "poison"
	SaveWand    SaveCategory = "wand"
	SavePetrify SaveCategory = "petrify"
	SaveBreath  SaveCategory = "breath"
	SaveSpell   SaveCategory = "spell"
)

// For returns the target number for the given category.
func (s Saves) For(cat SaveCategory) int {
	switch cat {
	case SavePoison:
		return s.Poison
	case SaveWand:
		return s.Wand
	case SavePetrify:
		return s.Petrify
	case SaveBreath:
		return s.Breath
	case SaveSpell:
		return s.Spell
	default:
		return 20
	}
}

// IsMental reports whether the category benefits from the wisdom
// magic-attack adjustment.
func (s SaveCategory) IsMental() bool {
	switch s {
	case SaveSpell, SaveWand, SavePetrify:
		return true
	default:
		return false
	}
}

// SaveRow is one band of a class's save progression, covering levels up to
// and including MaxLevel.
type SaveRow struct {
	MaxLevel int `json:"max_level"`
	Saves
}

// AttackRateRow is one band of a class's melee attack-rate progression,
// covering levels up to and including MaxLevel. Num over Den is attacks per
// round: 3/2 means three attacks every two rounds.
type AttackRateRow struct {
	MaxLevel int `json:"max_level"`
	Num      int `json:"num"`
	Den      int `json:"den"`
}

// ClassDef defines a playable class: hit die, progressions, restrictions.
type ClassDef struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	// HitDie is the faces of the class hit die (d4 through d10).
	HitDie int `json:"hit_die"`
	// THAC0 lists to-hit-AC-0 by level; the last entry repeats for higher levels.
	THAC0 []int `json:"thac0"`
	// XPLevels[i] is the experience required to hold level i+1; XPLevels[0] is 0.
	XPLevels []int     `json:"xp_levels"`
	SaveRows []SaveRow `json:"saves"`
	// AttackRates is the melee rate ladder; empty means one attack per round
	// at every level.
	AttackRates []AttackRateRow `json:"attack_rates,omitempty"`
	// Weapon proficiency slots: initial count plus one more per
	// ProficiencyPerLevels levels gained.
	ProficiencyInitial    int `json:"proficiency_initial"`
	ProficiencyPerLevels  int `json:"proficiency_per_levels"`
	NonProficiencyPenalty int `json:"non_proficiency_penalty"`
	// SpellSlots[casterLevel-1][spellLevel-1] is the slot count; empty for
	// non-casters.
	SpellSlots [][]int `json:"spell_slots,omitempty"`
	// SpellType is "cleric" (wisdom bonus spells apply) or "magic_user".
	SpellType         string   `json:"spell_type,omitempty"`
	AllowedArmor      []string `json:"allowed_armor"`
	AllowedWeapons    []string `json:"allowed_weapons"`
	AllowedAlignments []string `json:"allowed_alignments"`
	// Warrior marks fighter subtypes: exceptional strength and the fighter
	// constitution HP bonus apply.
	Warrior bool `json:"warrior"`
	// DefaultFormation is "front" or "back", used to repair party formations.
	DefaultFormation string `json:"default_formation"`
	// HasThiefSkills marks classes that use the thief skill table.
	HasThiefSkills bool `json:"has_thief_skills,omitempty"`
	// TurnsUndead marks classes that consult the turning matrix.
	// TurningLevelOffset shifts effective level (paladin: -2).
	TurnsUndead        bool `json:"turns_undead,omitempty"`
	TurningLevelOffset int  `json:"turning_level_offset,omitempty"`
}

// THAC0At returns the to-hit-AC-0 number at the given level.
//
// Precondition: level >= 1.
// Postcondition: Returns the last table entry for levels beyond the table.
func (c *ClassDef) THAC0At(level int) int {
	if len(c.THAC0) == 0 {
		return 20
	}
	if level < 1 {
		level = 1
	}
	if level > len(c.THAC0) {
		level = len(c.THAC0)
	}
	return c.THAC0[level-1]
}

// SavesAt returns the saving-throw vector at the given level.
//
// Postcondition: targets never increase as level rises.
func (c *ClassDef) SavesAt(level int) Saves {
	for _, row := range c.SaveRows {
		if level <= row.MaxLevel {
			return row.Saves
		}
	}
	if len(c.SaveRows) > 0 {
		return c.SaveRows[len(c.SaveRows)-1].Saves
	}
	return Saves{Poison: 20, Wand: 20, Petrify: 20, Breath: 20, Spell: 20}
}

// AttackRateAt returns the attacks-per-round rational at the given level.
//
// Postcondition: num >= 1 and den >= 1; 1/1 for classes without a ladder.
func (c *ClassDef) AttackRateAt(level int) (num, den int) {
	for _, row := range c.AttackRates {
		if level <= row.MaxLevel {
			return row.Num, row.Den
		}
	}
	if n := len(c.AttackRates); n > 0 {
		return c.AttackRates[n-1].Num, c.AttackRates[n-1].Den
	}
	return 1, 1
}

// XPToReach returns the experience required to hold the given level.
//
// Postcondition: Returns 0 for level <= 1; the last ladder step repeats
// per-level beyond the table.
func (c *ClassDef) XPToReach(level int) int {
	if level <= 1 || len(c.XPLevels) == 0 {
		return 0
	}
	if level <= len(c.XPLevels) {
		return c.XPLevels[level-1]
	}
	// Beyond the authored ladder, each level costs the last increment again.
	last := c.XPLevels[len(c.XPLevels)-1]
	var step int
	if len(c.XPLevels) >= 2 {
		step = last - c.XPLevels[len(c.XPLevels)-2]
	}
	return last + step*(level-len(c.XPLevels))
}

// LevelForXP returns the highest level the given experience supports.
//
// Postcondition: Returns >= 1; monotone non-decreasing in xp.
func (c *ClassDef) LevelForXP(xp int) int {
	level := 1
	for c.XPToReach(level+1) <= xp && c.XPToReach(level+1) > 0 {
		level++
		if level > 30 {
			break
		}
	}
	return level
}

// SpellSlotsAt returns the per-spell-level slot counts at the given caster
// level, or nil for non-casters.
func (c *ClassDef) SpellSlotsAt(level int) []int {
	if len(c.SpellSlots) == 0 {
		return nil
	}
	if level < 1 {
		level = 1
	}
	if level > len(c.SpellSlots) {
		level = len(c.SpellSlots)
	}
	row := c.SpellSlots[level-1]
	out := make([]int, len(row))
	copy(out, row)
	return out
}

// ProficiencySlotsAt returns the number of weapon proficiency slots held at
// the given level.
func (c *ClassDef) ProficiencySlotsAt(level int) int {
	slots := c.ProficiencyInitial
	if c.ProficiencyPerLevels > 0 && level > 1 {
		slots += (level - 1) / c.ProficiencyPerLevels
	}
	return slots
}

// AllowsArmor reports whether the class may wear the named armor or armor
// weight class.
func (c *ClassDef) AllowsArmor(name string) bool {
	return allows(c.AllowedArmor, name)
}

// AllowsWeapon reports whether the class may wield the named weapon.
func (c *ClassDef) AllowsWeapon(name string) bool {
	return allows(c.AllowedWeapons, name)
}

// allows matches permission entries against an item name. Entries are
// material or family keywords ("leather" covers leather armor and studded
// leather), so a word match within the name counts.
func allows(list []string, name string) bool {
	lower := strings.ToLower(name)
	for _, entry := range list {
		if entry == "any" || strings.EqualFold(entry, name) || strings.Contains(lower, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}
