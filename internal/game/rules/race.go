package rules

// RaceDef defines a playable race: ability adjustments, movement, senses,
// and situational combat bonuses.
type RaceDef struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	// BaseMovement is the unencumbered movement rate in feet per turn.
	BaseMovement int `json:"base_movement"`
	// AbilityModifiers maps ability names (lowercase) to adjustments applied
	// at character creation.
	AbilityModifiers map[string]int `json:"ability_modifiers,omitempty"`
	// InfravisionFeet is 0 for races without infravision.
	InfravisionFeet int `json:"infravision_feet,omitempty"`
	// ConSaveBonusTargets lists save categories that gain +1 per 3.5 points
	// of constitution (dwarves, gnomes, halflings vs magic and poison).
	ConSaveBonusTargets []string `json:"con_save_bonus_targets,omitempty"`
	// SleepCharmResistPercent is the elf and half-elf resistance to sleep and
	// charm effects.
	SleepCharmResistPercent int `json:"sleep_charm_resist_percent,omitempty"`
	// CombatBonusVs grants +1 to hit against the listed monster IDs.
	CombatBonusVs []string `json:"combat_bonus_vs,omitempty"`
	// ACBonusVs improves AC by 4 when attacked by the listed monster IDs
	// (giant-class attackers vs dwarves, gnomes, halflings).
	ACBonusVs []string `json:"ac_bonus_vs,omitempty"`
	// LevelLimits caps class levels by class ID; absent classes are either
	// unlimited or forbidden per the class's own alignment/race rules.
	LevelLimits map[string]int `json:"level_limits,omitempty"`
	// DetectionAbilities names passive detections (secret doors, sloping
	// passages, unsafe stonework).
	DetectionAbilities []string `json:"detection_abilities,omitempty"`
	// ThiefSkillAdj maps thief skill IDs to racial percentage adjustments.
	ThiefSkillAdj map[string]int `json:"thief_skill_adj,omitempty"`
	// MinScores and MaxScores bound ability scores at creation.
	MinScores map[string]int `json:"min_scores,omitempty"`
	MaxScores map[string]int `json:"max_scores,omitempty"`
}

// neutralRace is returned for unknown race IDs. It confers no adjustments.
var neutralRace = RaceDef{ID: "unknown", Name: "Unknown", BaseMovement: 120}

// AbilityMod returns the racial adjustment for the named ability.
func (r *RaceDef) AbilityMod(ability string) int {
	return r.AbilityModifiers[ability]
}

// HasConSaveBonus reports whether the race gains the constitution-based save
// bonus against the given category.
func (r *RaceDef) HasConSaveBonus(cat SaveCategory) bool {
	for _, target := range r.ConSaveBonusTargets {
		if SaveCategory(target) == cat {
			return true
		}
	}
	return false
}

// ConSaveBonus returns the racial save bonus for a constitution score:
// +1 per 3.5 points, so +4 at CON 14-17 and +5 at CON 18, capped at +5.
func ConSaveBonus(con int) int {
	if con < 4 {
		return 0
	}
	bonus := int(float64(con) / 3.5)
	if bonus > 5 {
		bonus = 5
	}
	return bonus
}

// BonusAgainst reports whether the race gains +1 to hit the given monster.
func (r *RaceDef) BonusAgainst(monsterID string) bool {
	for _, id := range r.CombatBonusVs {
		if id == monsterID {
			return true
		}
	}
	return false
}

// DefenseBonusAgainst reports whether the race gains the 4-point AC bonus
// when attacked by the given monster.
func (r *RaceDef) DefenseBonusAgainst(monsterID string) bool {
	for _, id := range r.ACBonusVs {
		if id == monsterID {
			return true
		}
	}
	return false
}

// LevelCap returns the race's level limit in the given class, or 0 when the
// class is uncapped.
func (r *RaceDef) LevelCap(classID string) int {
	return r.LevelLimits[classID]
}
