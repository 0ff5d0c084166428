package rules

// StrengthRow covers a strength score band, including the exceptional 18/xx
// percentile bands for warriors.
type StrengthRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// ExcMin/ExcMax bound the 18/xx percentile; both 0 for ordinary rows.
	ExcMin int `json:"exc_min,omitempty"`
	ExcMax int `json:"exc_max,omitempty"`
	// HitProb adjusts attack rolls, Damage adjusts melee damage.
	HitProb int `json:"hit_prob"`
	Damage  int `json:"damage"`
	// WeightAllowance adjusts carrying capacity in gold-piece weight.
	WeightAllowance int `json:"weight_allowance"`
	// OpenDoors is the success range on d6 (roll <= OpenDoors).
	OpenDoors int `json:"open_doors"`
	// BendBars is the percent chance to bend bars or lift gates.
	BendBars int `json:"bend_bars"`
}

// DexterityRow covers a dexterity score band.
type DexterityRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// ReactionAdj adjusts surprise and initiative; negative is faster.
	ReactionAdj int `json:"reaction_adj"`
	// MissileAdj adjusts missile attack rolls.
	MissileAdj int `json:"missile_adj"`
	// DefensiveAdj adjusts armor class; negative improves AC.
	DefensiveAdj int `json:"defensive_adj"`
}

// ConstitutionRow covers a constitution score band.
type ConstitutionRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// HPAdj applies to every hit die rolled; HPAdjFighter replaces it for
	// warrior classes at CON 17+.
	HPAdj        int `json:"hp_adj"`
	HPAdjFighter int `json:"hp_adj_fighter"`
	// SystemShock is the percent chance to survive magical body alteration.
	SystemShock int `json:"system_shock"`
}

// IntelligenceRow covers an intelligence score band.
type IntelligenceRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// LearnSpell is the percent chance to learn a new magic-user spell.
	LearnSpell int `json:"learn_spell"`
	// MaxSpellLevel caps castable magic-user spell levels.
	MaxSpellLevel int `json:"max_spell_level"`
	// MaxSpellsPerLevel caps known spells per level; 99 means unlimited.
	MaxSpellsPerLevel int `json:"max_spells_per_level"`
}

// WisdomRow covers a wisdom score band.
type WisdomRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// MagicAttackAdj adjusts saves against mental attacks.
	MagicAttackAdj int `json:"magic_attack_adj"`
	// SpellFailure is the percent chance a cleric spell fizzles.
	SpellFailure int `json:"spell_failure"`
	// BonusSpells lists bonus cleric spell levels granted (e.g. [1,1,2]).
	BonusSpells []int `json:"bonus_spells,omitempty"`
}

// CharismaRow covers a charisma score band.
type CharismaRow struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// MaxHenchmen caps loyal followers.
	MaxHenchmen int `json:"max_henchmen"`
	// ReactionAdj adjusts encounter reaction rolls.
	ReactionAdj int `json:"reaction_adj"`
}

// AbilityTables holds the six ability-score modifier tables.
type AbilityTables struct {
	Strength     []StrengthRow     `json:"strength"`
	Dexterity    []DexterityRow    `json:"dexterity"`
	Constitution []ConstitutionRow `json:"constitution"`
	Intelligence []IntelligenceRow `json:"intelligence"`
	Wisdom       []WisdomRow       `json:"wisdom"`
	Charisma     []CharismaRow     `json:"charisma"`
}

// StrengthFor returns the row for a strength score and exceptional percentile.
// An exc of 0 means no exceptional strength; out-of-table scores return a
// neutral row.
func (t *AbilityTables) StrengthFor(score, exc int) StrengthRow {
	for _, row := range t.Strength {
		if score < row.Min || score > row.Max {
			continue
		}
		if row.ExcMax > 0 {
			if exc >= row.ExcMin && exc <= row.ExcMax {
				return row
			}
			continue
		}
		if exc == 0 || score < 18 {
			return row
		}
	}
	// Exceptional percentile given but no band matched: fall back to the
	// plain score row.
	if exc != 0 {
		return t.StrengthFor(score, 0)
	}
	return StrengthRow{Min: score, Max: score, OpenDoors: 2}
}

// DexterityFor returns the row for a dexterity score.
func (t *AbilityTables) DexterityFor(score int) DexterityRow {
	for _, row := range t.Dexterity {
		if score >= row.Min && score <= row.Max {
			return row
		}
	}
	return DexterityRow{Min: score, Max: score}
}

// ConstitutionFor returns the row for a constitution score.
func (t *AbilityTables) ConstitutionFor(score int) ConstitutionRow {
	for _, row := range t.Constitution {
		if score >= row.Min && score <= row.Max {
			return row
		}
	}
	return ConstitutionRow{Min: score, Max: score, SystemShock: 50}
}

// IntelligenceFor returns the row for an intelligence score.
func (t *AbilityTables) IntelligenceFor(score int) IntelligenceRow {
	for _, row := range t.Intelligence {
		if score >= row.Min && score <= row.Max {
			return row
		}
	}
	return IntelligenceRow{Min: score, Max: score}
}

// WisdomFor returns the row for a wisdom score.
func (t *AbilityTables) WisdomFor(score int) WisdomRow {
	for _, row := range t.Wisdom {
		if score >= row.Min && score <= row.Max {
			return row
		}
	}
	return WisdomRow{Min: score, Max: score}
}

// CharismaFor returns the row for a charisma score.
func (t *AbilityTables) CharismaFor(score int) CharismaRow {
	for _, row := range t.Charisma {
		if score >= row.Min && score <= row.Max {
			return row
		}
	}
	return CharismaRow{Min: score, Max: score}
}

// HPAdjustment returns the per-hit-die HP modifier for a constitution score.
// Warriors use the extended bonus column at CON 17+.
func (t *AbilityTables) HPAdjustment(con int, warrior bool) int {
	row := t.ConstitutionFor(con)
	if warrior && row.HPAdjFighter != 0 {
		return row.HPAdjFighter
	}
	return row.HPAdj
}
