package entity

// Condition names a status effect on a creature.
type Condition string

const (
	ConditionAsleep    Condition = "asleep"
	ConditionParalyzed Condition = "paralyzed"
	ConditionPoisoned  Condition = "poisoned"
	ConditionDiseased  Condition = "diseased"
	ConditionCharmed   Condition = "charmed"
	ConditionStone     Condition = "stone"
	ConditionBlessed   Condition = "blessed"
	ConditionProtected Condition = "protected"
)

// PermanentDuration marks a condition that persists until cured.
const PermanentDuration = -1

// ActiveCondition is one status effect with its remaining duration in rounds.
type ActiveCondition struct {
	Name   Condition `json:"name"`
	Rounds int       `json:"rounds"`
}

// ConditionSet tracks the active conditions on a creature. The zero value is
// ready to use.
type ConditionSet struct {
	Active []ActiveCondition `json:"active,omitempty"`
}

// Apply adds or refreshes a condition. A longer remaining duration is never
// shortened by reapplication.
func (s *ConditionSet) Apply(name Condition, rounds int) {
	for i := range s.Active {
		if s.Active[i].Name != name {
			continue
		}
		if rounds == PermanentDuration || (s.Active[i].Rounds != PermanentDuration && rounds > s.Active[i].Rounds) {
			s.Active[i].Rounds = rounds
		}
		return
	}
	s.Active = append(s.Active, ActiveCondition{Name: name, Rounds: rounds})
}

// Cure removes a condition. Returns true if it was present.
func (s *ConditionSet) Cure(name Condition) bool {
	for i := range s.Active {
		if s.Active[i].Name == name {
			s.Active = append(s.Active[:i], s.Active[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether the condition is active.
func (s *ConditionSet) Has(name Condition) bool {
	for _, c := range s.Active {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Tick advances one round, expiring timed conditions. Returns the conditions
// that expired this round.
func (s *ConditionSet) Tick() []Condition {
	var expired []Condition
	kept := s.Active[:0]
	for _, c := range s.Active {
		if c.Rounds == PermanentDuration {
			kept = append(kept, c)
			continue
		}
		c.Rounds--
		if c.Rounds <= 0 {
			expired = append(expired, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	s.Active = kept
	return expired
}

// Incapacitated reports whether the creature can take no actions.
func (s *ConditionSet) Incapacitated() bool {
	return s.Has(ConditionAsleep) || s.Has(ConditionParalyzed) || s.Has(ConditionStone)
}

// Names returns the active condition names in application order.
func (s *ConditionSet) Names() []Condition {
	out := make([]Condition, len(s.Active))
	for i, c := range s.Active {
		out[i] = c.Name
	}
	return out
}
