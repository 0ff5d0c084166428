// Package trap handles placed dungeon traps: searching them out, disarming
// them, and resolving the damage and conditions when one fires.
package trap

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/skill"
	"github.com/tgibson/underdark/internal/game/world"
)

var (
	// ErrUnknownTrap is returned when a placed trap references no definition.
	ErrUnknownTrap = errors.New("unknown trap")
	// ErrNotFound is returned when disarming a trap nobody has spotted.
	ErrNotFound = errors.New("trap has not been found")
)

// Engine resolves trap interactions.
type Engine struct {
	rules  *rules.Ctx
	combat *combat.Engine
	skills *skill.Engine
	logger *zap.Logger
}

// NewEngine creates a trap engine.
func NewEngine(ctx *rules.Ctx, cbt *combat.Engine, skills *skill.Engine, logger *zap.Logger) *Engine {
	return &Engine{rules: ctx, combat: cbt, skills: skills, logger: logger}
}

// SearchResult reports one attempt to spot a trap.
type SearchResult struct {
	Who    string
	Trap   string
	Chance int
	Roll   int
	Found  bool
}

// Search lets a character look for the room's trap. Thieves roll their
// find-traps percentage; dwarves and gnomes read unsafe stonework at 2 in 6;
// everyone else spots at 1 in 6. An already-found trap is simply reported.
func (e *Engine) Search(pc *entity.PlayerCharacter, state *world.TrapState) (SearchResult, error) {
	def, ok := e.rules.Trap(state.DefID)
	if !ok {
		return SearchResult{}, fmt.Errorf("%w: %q", ErrUnknownTrap, state.DefID)
	}
	res := SearchResult{Who: pc.Name, Trap: def.Name}
	if state.Found {
		res.Found = true
		return res, nil
	}

	if pc.Class().HasThiefSkills {
		check, err := e.skills.Check(pc, rules.SkillFindTraps)
		if err != nil {
			return SearchResult{}, err
		}
		res.Chance, res.Roll, res.Found = check.Chance, check.Roll, check.Success
	} else {
		res.Chance = 1
		if detects(pc, "unsafe_stonework") {
			res.Chance = 2
		}
		res.Roll = e.combat.Roller().Roll(dice.Expression{Raw: "1d6", Count: 1, Sides: 6}).Total()
		res.Found = res.Roll <= res.Chance
	}
	if res.Found {
		state.Found = true
	}

	e.logger.Debug("trap search",
		zap.String("who", res.Who),
		zap.String("trap", state.DefID),
		zap.Int("chance", res.Chance),
		zap.Int("roll", res.Roll),
		zap.Bool("found", res.Found))
	return res, nil
}

func detects(pc *entity.PlayerCharacter, ability string) bool {
	for _, d := range pc.Race().DetectionAbilities {
		if d == ability {
			return true
		}
	}
	return false
}

// DisarmResult reports one disarm attempt.
type DisarmResult struct {
	Who    string
	Trap   string
	Chance int
	Roll   int
	// Mastered marks a flawless disarm; the character learns from it and
	// works 5 percent better on future attempts.
	Mastered bool
	Disarmed bool
	// Triggered is set when a botched attempt sets the trap off; the caller
	// resolves the trigger against the fumbling character.
	Triggered bool
}

// Disarm lets a character pick apart a found trap. Thieves roll their
// find-traps percentage adjusted for the trap's difficulty, with the bottom
// band a flawless success and the top band a fumble that fires the trap.
// Everyone else works from raw wits at a much thinner margin.
func (e *Engine) Disarm(pc *entity.PlayerCharacter, state *world.TrapState) (DisarmResult, error) {
	def, ok := e.rules.Trap(state.DefID)
	if !ok {
		return DisarmResult{}, fmt.Errorf("%w: %q", ErrUnknownTrap, state.DefID)
	}
	if !state.Found {
		return DisarmResult{}, ErrNotFound
	}

	res := DisarmResult{Who: pc.Name, Trap: def.Name}
	res.Roll = e.combat.Roller().Roll(dice.Expression{Raw: "1d100", Count: 1, Sides: 100}).Total()

	if pc.Class().HasThiefSkills {
		chance, err := e.skills.Chance(pc, rules.SkillFindTraps)
		if err != nil {
			return DisarmResult{}, err
		}
		res.Chance = chance + def.DifficultyMod() + pc.TrapLore
		switch {
		case res.Roll >= 96:
			res.Triggered = true
		case res.Roll <= 10:
			res.Disarmed = true
			res.Mastered = true
			pc.TrapLore += 5
		case res.Roll <= res.Chance:
			res.Disarmed = true
		}
	} else {
		res.Chance = 10 + (pc.Scores.Intelligence-10)/2 + def.DifficultyMod()
		switch {
		case res.Roll >= 85:
			res.Triggered = true
		case res.Roll <= res.Chance:
			res.Disarmed = true
		}
	}
	if res.Disarmed {
		state.Disarmed = true
	}

	e.logger.Debug("trap disarm",
		zap.String("who", res.Who),
		zap.String("trap", state.DefID),
		zap.Int("chance", res.Chance),
		zap.Int("roll", res.Roll),
		zap.Bool("disarmed", res.Disarmed),
		zap.Bool("triggered", res.Triggered))
	return res, nil
}

// TriggerResult reports a trap firing on one victim.
type TriggerResult struct {
	Trap    string
	Victim  string
	Message string
	Save    combat.SaveResult
	Damage  int
	Applied entity.Condition
	Slain   bool
}

// Trigger fires the trap against the victim and marks it spent.
//
// Lethal traps kill outright on a failed save. Save-for-half traps always
// deal damage; other traps are negated entirely by a successful save.
func (e *Engine) Trigger(state *world.TrapState, victim *entity.PlayerCharacter) (TriggerResult, error) {
	def, ok := e.rules.Trap(state.DefID)
	if !ok {
		return TriggerResult{}, fmt.Errorf("%w: %q", ErrUnknownTrap, state.DefID)
	}
	state.Triggered = true

	res := TriggerResult{Trap: def.Name, Victim: victim.Name, Message: def.TriggerMessage}
	cat := def.SaveCategory()

	switch {
	case def.Lethal:
		res.Save = e.combat.SaveOrDie(victim, cat)
		if res.Save.Success {
			res.Damage = e.rollDamage(def, victim)
		}
	case def.SaveForHalf:
		expr, err := dice.Parse(def.Damage)
		if err != nil {
			return TriggerResult{}, fmt.Errorf("trap %q: %w", def.ID, err)
		}
		res.Save, res.Damage = e.combat.SaveForHalf(victim, cat, expr)
	default:
		res.Save = e.combat.RollSave(victim, cat)
		if !res.Save.Success {
			res.Damage = e.rollDamage(def, victim)
			if def.Condition != "" {
				rounds := def.ConditionRounds
				if rounds == 0 {
					rounds = entity.PermanentDuration
				}
				victim.Conditions().Apply(entity.Condition(def.Condition), rounds)
				res.Applied = entity.Condition(def.Condition)
			}
		}
	}
	res.Slain = !victim.IsAlive()

	e.logger.Debug("trap triggered",
		zap.String("trap", state.DefID),
		zap.String("victim", res.Victim),
		zap.Int("damage", res.Damage),
		zap.Bool("slain", res.Slain))
	return res, nil
}

func (e *Engine) rollDamage(def *rules.TrapDef, victim *entity.PlayerCharacter) int {
	if def.Damage == "" {
		return 0
	}
	expr, err := dice.Parse(def.Damage)
	if err != nil {
		return 0
	}
	return victim.TakeDamage(e.combat.Roller().Roll(expr).Total())
}
