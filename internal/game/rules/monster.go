package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tgibson/underdark/internal/game/dice"
)

// Monster AI behavior identifiers. These tune when a monster presses, holds
// back, or runs; target selection itself is intelligence-driven.
const (
	AIAggressive = "aggressive"
	AIDefensive  = "defensive"
	AIFleeLowHP  = "flee_low_hp"
)

// SpecialAbility is one monster special attack or defense. Type selects the
// handler; the remaining fields parameterize it.
type SpecialAbility struct {
	// Type: breath_weapon, poison, regeneration, level_drain, paralysis,
	// gaze, constriction, magic_resistance, immunity, disease, acid,
	// energy_drain_touch.
	Type string `json:"type"`
	// Damage is a dice expression for abilities that deal damage.
	Damage string `json:"damage,omitempty"`
	// Save names the category that resists the ability; empty means no save.
	Save string `json:"save,omitempty"`
	// Gas marks breath weapons that fill the room: half the usual payload,
	// resisted with a poison save instead of breath.
	Gas bool `json:"gas,omitempty"`
	// Chance is the percent chance the monster uses the ability on its
	// action when applicable; 0 means always available.
	Chance int `json:"chance,omitempty"`
	// Uses limits total uses per encounter (breath weapons); 0 is unlimited.
	Uses int `json:"uses,omitempty"`
	// Amount parameterizes non-damage abilities: regeneration per round,
	// levels drained, magic resistance percent.
	Amount int `json:"amount,omitempty"`
	// Condition is applied on a failed save (paralyzed, poisoned, stone).
	Condition string `json:"condition,omitempty"`
	// Rounds is the condition duration; 0 means until cured.
	Rounds int `json:"rounds,omitempty"`
	// Immune lists damage or effect types negated (immunity only).
	Immune []string `json:"immune,omitempty"`
}

// MonsterDef is one catalog monster entry.
type MonsterDef struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	// HitDice uses hit-dice notation: "4+1" is 4d8+1, "1" is 1d8.
	HitDice string `json:"hit_dice"`
	// ArmorClass is descending; lower is harder to hit.
	ArmorClass int `json:"armor_class"`
	THAC0      int `json:"thac0"`
	// Damage lists one dice expression per attack in a full routine.
	Damage []string `json:"damage"`
	// AttacksPerRound is a rational rate: "1", "3", or "3/2" for three
	// attacks every two rounds. Empty means one per round.
	AttacksPerRound string `json:"attacks_per_round,omitempty"`
	// SpeedFactor orders the monster's attacks within a round; 0 means the
	// default of 5 (a medium weapon).
	SpeedFactor int `json:"speed_factor,omitempty"`
	// Movement is feet per turn.
	Movement int `json:"movement"`
	// Morale is the 2d6 threshold; higher holds longer, 12 never breaks.
	Morale int `json:"morale"`
	// Size is S, M, or L, selecting the weapon damage column used against it.
	Size string `json:"size"`
	// Type is the broad creature category: humanoid, giant, undead, animal,
	// vermin, or monster. Charm person only lands on humanoids.
	Type string `json:"type,omitempty"`
	// Intelligence drives targeting: non_(0), animal(1), semi(2-4), low(5-7),
	// average(8-10), high(11+) per the authored string.
	Intelligence string `json:"intelligence"`
	// NumberAppearing is a dice expression for wandering encounters.
	NumberAppearing string `json:"number_appearing,omitempty"`
	TreasureType    string `json:"treasure_type,omitempty"`
	// XPOverride replaces the computed experience value when nonzero.
	XPOverride int              `json:"xp_override,omitempty"`
	Specials   []SpecialAbility `json:"specials,omitempty"`
	// AI selects the targeting behavior; empty means intelligence-driven.
	AI string `json:"ai,omitempty"`
	// UndeadType is the turning-matrix column; empty for living monsters.
	UndeadType string `json:"undead_type,omitempty"`
	// AlwaysHostile skips the reaction roll.
	AlwaysHostile bool `json:"always_hostile,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Validate checks the definition for authoring errors.
func (m *MonsterDef) Validate() error {
	var violations []string
	if m.Name == "" {
		violations = append(violations, "name is required")
	}
	if _, err := dice.ParseHitDice(m.HitDice); err != nil {
		violations = append(violations, fmt.Sprintf("hit_dice %q: %v", m.HitDice, err))
	}
	if m.ArmorClass < -10 || m.ArmorClass > 10 {
		violations = append(violations, fmt.Sprintf("armor_class %d out of range [-10, 10]", m.ArmorClass))
	}
	if m.THAC0 < 1 || m.THAC0 > 21 {
		violations = append(violations, fmt.Sprintf("thac0 %d out of range [1, 21]", m.THAC0))
	}
	if _, _, err := parseRate(m.AttacksPerRound); err != nil {
		violations = append(violations, fmt.Sprintf("attacks_per_round %q: %v", m.AttacksPerRound, err))
	}
	if len(m.Damage) == 0 {
		violations = append(violations, "at least one damage expression is required")
	}
	for _, d := range m.Damage {
		if _, err := dice.Parse(d); err != nil {
			violations = append(violations, fmt.Sprintf("damage %q: %v", d, err))
		}
	}
	if m.NumberAppearing != "" {
		if _, err := dice.Parse(m.NumberAppearing); err != nil {
			violations = append(violations, fmt.Sprintf("number_appearing %q: %v", m.NumberAppearing, err))
		}
	}
	switch m.Size {
	case "S", "M", "L":
	default:
		violations = append(violations, fmt.Sprintf("size %q must be S, M, or L", m.Size))
	}
	switch m.AI {
	case "", AIAggressive, AIDefensive, AIFleeLowHP:
	default:
		violations = append(violations, fmt.Sprintf("unknown ai %q", m.AI))
	}
	if len(violations) > 0 {
		return fmt.Errorf("monster %q: %v", m.ID, violations)
	}
	return nil
}

// parseRate parses an attacks-per-round expression: "3/2" yields (3, 2),
// "2" yields (2, 1), and the empty string yields (1, 1).
func parseRate(s string) (num, den int, err error) {
	if s == "" {
		return 1, 1, nil
	}
	parts := strings.SplitN(s, "/", 2)
	num, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || num < 1 {
		return 0, 0, fmt.Errorf("bad attack count %q", parts[0])
	}
	den = 1
	if len(parts) == 2 {
		den, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || den < 1 {
			return 0, 0, fmt.Errorf("bad attack period %q", parts[1])
		}
	}
	return num, den, nil
}

// Rate returns the attacks-per-round rational. Definitions that fail
// validation fall back to one attack per round.
func (m *MonsterDef) Rate() (num, den int) {
	num, den, err := parseRate(m.AttacksPerRound)
	if err != nil {
		return 1, 1
	}
	return num, den
}

// AttackSpeed returns the speed factor ordering the monster's attacks,
// defaulting to 5.
func (m *MonsterDef) AttackSpeed() int {
	if m.SpeedFactor > 0 {
		return m.SpeedFactor
	}
	return 5
}

// HitDiceExpr returns the parsed hit-dice expression.
func (m *MonsterDef) HitDiceExpr() dice.Expression {
	expr, err := dice.ParseHitDice(m.HitDice)
	if err != nil {
		// Validate runs at load; an invalid expression here is a programming
		// error.
		panic(err)
	}
	return expr
}

// EffectiveHD returns the hit dice as a number for XP table lookup: the die
// count plus 0.5 when a positive modifier bumps the monster up a band.
func (m *MonsterDef) EffectiveHD() float64 {
	expr := m.HitDiceExpr()
	hd := float64(expr.Count)
	if expr.Modifier > 0 {
		hd += 0.5
	}
	return hd
}

// IntelligenceScore maps the authored intelligence string to a nominal score
// for the targeting tables.
func (m *MonsterDef) IntelligenceScore() int {
	switch m.Intelligence {
	case "non":
		return 0
	case "animal":
		return 1
	case "semi":
		return 3
	case "low":
		return 6
	case "average":
		return 9
	case "very", "high":
		return 12
	case "exceptional", "genius":
		return 16
	default:
		return 9
	}
}

// MagicResistance returns the monster's magic resistance percent, 0 if none.
func (m *MonsterDef) MagicResistance() int {
	for _, s := range m.Specials {
		if s.Type == "magic_resistance" {
			return s.Amount
		}
	}
	return 0
}

// ImmuneTo reports whether the monster is immune to the named damage or
// effect type.
func (m *MonsterDef) ImmuneTo(kind string) bool {
	for _, s := range m.Specials {
		if s.Type != "immunity" {
			continue
		}
		for _, im := range s.Immune {
			if im == kind {
				return true
			}
		}
	}
	return false
}

// XPValue computes the experience award for this monster at the given rolled
// maximum hit points.
func (m *MonsterDef) XPValue(table []XPRow, maxHP int) int {
	if m.XPOverride > 0 {
		return m.XPOverride
	}
	return XPForMonster(table, m.EffectiveHD(), maxHP, len(m.Specials))
}
