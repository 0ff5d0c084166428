package rules

// TrapDef defines a dungeon trap: what it does when triggered and how a
// save mitigates it.
type TrapDef struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Damage is a dice expression rolled on trigger; empty for traps that
	// only impose a condition.
	Damage string `json:"damage,omitempty"`
	// Save names the saving-throw category rolled against the trap.
	Save string `json:"save"`
	// SaveForHalf halves damage on success; otherwise success negates.
	SaveForHalf bool `json:"save_for_half,omitempty"`
	// Condition is applied on a failed save (poisoned, paralyzed); empty
	// for pure damage traps.
	Condition string `json:"condition,omitempty"`
	// ConditionRounds is the condition duration; 0 means until cured.
	ConditionRounds int `json:"condition_rounds,omitempty"`
	// Lethal marks save-or-die traps (poison needle).
	Lethal bool `json:"lethal,omitempty"`
	// Difficulty grades the disarm job: simple, standard, complex, or
	// magical. Empty means standard.
	Difficulty string `json:"difficulty,omitempty"`
	// TriggerMessage is shown when the trap fires.
	TriggerMessage string `json:"trigger_message"`
}

// DifficultyMod returns the percentage adjustment to disarm attempts for
// the trap's difficulty grade.
func (t *TrapDef) DifficultyMod() int {
	switch t.Difficulty {
	case "simple":
		return 10
	case "complex":
		return -10
	case "magical":
		return -20
	default:
		return 0
	}
}

// SaveCategory returns the trap's save category, defaulting to breath for
// area traps with no authored category.
func (t *TrapDef) SaveCategory() SaveCategory {
	if t.Save == "" {
		return SaveBreath
	}
	return SaveCategory(t.Save)
}
