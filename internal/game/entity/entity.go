// Package entity defines the creatures that fight and explore: player
// characters with class and race progressions, monster instances spawned
// from catalog definitions, and the party that binds the players together.
//
// Derived statistics (armor class, THAC0, saving throws, movement) are
// computed on demand from the bound rules tables so that equipment and
// condition changes take effect immediately.
package entity

import (
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/rules"
)

// Side distinguishes the two camps in an encounter.
type Side int

const (
	SideParty Side = iota
	SideMonsters
)

func (s Side) String() string {
	if s == SideParty {
		return "party"
	}
	return "monsters"
}

// Row is a combat formation row. Back-row combatants may only be targeted in
// melee once the front row has fallen.
type Row string

const (
	RowFront Row = "front"
	RowBack  Row = "back"
)

// Attack is one resolved entry of a combatant's attack routine.
type Attack struct {
	// Name describes the attack for the combat log ("long sword", "claw").
	Name string
	// Damage is the parsed damage expression before bonuses.
	Damage dice.Expression
	// SpeedFactor orders same-segment actions; lower acts first.
	SpeedFactor int
	// HitBonus and DamageBonus fold in strength, magic, and proficiency.
	HitBonus    int
	DamageBonus int
	// Multiplier scales the damage dice (backstab); 0 means 1x.
	Multiplier int
}

// Combatant is the view the combat resolver takes of any fighting creature.
type Combatant interface {
	// InstanceID uniquely identifies this creature within a session.
	InstanceID() string
	DisplayName() string
	CombatSide() Side

	CurrentHP() int
	MaxHP() int
	// TakeDamage reduces HP, flooring at 0, and returns the damage dealt.
	TakeDamage(amount int) int
	// Heal restores HP, capped at the maximum, and returns the amount healed.
	Heal(amount int) int
	IsAlive() bool

	// ArmorClass is descending: lower is harder to hit.
	ArmorClass() int
	THAC0() int
	// SaveTarget returns the d20 target for a saving throw category, after
	// racial and ability adjustments.
	SaveTarget(cat rules.SaveCategory) int
	// AttackRoutine lists the attacks made in one full round. Weapon damage
	// depends on the target's size category (S, M, or L).
	AttackRoutine(targetSize string) []Attack
	// AttackRate is attacks per round as a rational; 3/2 means three
	// attacks every two rounds.
	AttackRate() (num, den int)
	// InitiativeMod adjusts the d6 initiative roll; negative acts earlier.
	InitiativeMod() int
	// FormationRow places the combatant for melee targeting.
	FormationRow() Row

	Conditions() *ConditionSet
}
