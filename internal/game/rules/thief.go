package rules

// Thief skill identifiers. Hear noise is rolled on d6; all others on d100.
const (
	SkillPickPockets    = "pick_pockets"
	SkillOpenLocks      = "open_locks"
	SkillFindTraps      = "find_traps"
	SkillMoveSilently   = "move_silently"
	SkillHideInShadows  = "hide_in_shadows"
	SkillHearNoise      = "hear_noise"
	SkillClimbWalls     = "climb_walls"
	SkillReadLanguages  = "read_languages"
)

// ThiefLevelRow holds the base skill percentages at one thief level.
type ThiefLevelRow struct {
	Level  int            `json:"level"`
	Skills map[string]int `json:"skills"`
}

// DexSkillRow holds dexterity adjustments to thief skills for a score band.
type DexSkillRow struct {
	Min int            `json:"min"`
	Max int            `json:"max"`
	Adj map[string]int `json:"adj"`
}

// ThiefTables holds the thief skill progression and its adjustments. Racial
// adjustments live on RaceDef.
type ThiefTables struct {
	Levels []ThiefLevelRow `json:"levels"`
	DexAdj []DexSkillRow   `json:"dex_adj"`
	// ArmorAdj maps armor weight class to per-skill penalties. Leather and
	// no armor carry no penalty.
	ArmorAdj map[string]map[string]int `json:"armor_adj"`
}

// BaseAt returns the base percentage for a skill at the given thief level.
// Levels beyond the table repeat the last row.
func (t *ThiefTables) BaseAt(skill string, level int) int {
	if len(t.Levels) == 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	best := t.Levels[0]
	for _, row := range t.Levels {
		if row.Level <= level && row.Level >= best.Level {
			best = row
		}
	}
	return best.Skills[skill]
}

// DexAdjFor returns the dexterity adjustment for a skill.
func (t *ThiefTables) DexAdjFor(skill string, dex int) int {
	for _, row := range t.DexAdj {
		if dex >= row.Min && dex <= row.Max {
			return row.Adj[skill]
		}
	}
	return 0
}

// ArmorAdjFor returns the armor penalty for a skill while wearing the given
// armor weight class. Unknown classes carry no penalty.
func (t *ThiefTables) ArmorAdjFor(skill string, weightClass string) int {
	adj, ok := t.ArmorAdj[weightClass]
	if !ok {
		return 0
	}
	return adj[skill]
}

// EffectivePercent computes the adjusted chance for a skill check: base plus
// race, dexterity, and armor adjustments, clamped to [1, 99]. A base of 0
// means the skill is untrained and stays 0, and an armor penalty of 100 or
// more makes the skill impossible in that armor.
//
// Postcondition: Returns 0 or a value in [1, 99].
func (t *ThiefTables) EffectivePercent(skill string, level, dex, raceAdj int, weightClass string) int {
	base := t.BaseAt(skill, level)
	if base == 0 {
		return 0
	}
	armorAdj := t.ArmorAdjFor(skill, weightClass)
	if armorAdj <= -100 {
		return 0
	}
	pct := base + raceAdj + t.DexAdjFor(skill, dex) + armorAdj
	if pct < 1 {
		pct = 1
	}
	if pct > 99 {
		pct = 99
	}
	return pct
}
