// Package skill resolves thief skill checks: percentile rolls against the
// adjusted skill table, the d6 hear-noise check, and the backstab
// multiplier.
package skill

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

// ErrNoThiefSkills is returned when the character's class has no skill
// table.
var ErrNoThiefSkills = errors.New("class has no thief skills")

// Engine rolls skill checks.
type Engine struct {
	rules  *rules.Ctx
	roller *dice.Roller
	logger *zap.Logger
}

// NewEngine creates a skill engine.
func NewEngine(ctx *rules.Ctx, roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{rules: ctx, roller: roller, logger: logger}
}

// CheckResult reports one skill check.
type CheckResult struct {
	Who     string
	Skill   string
	Chance  int
	Roll    int
	Success bool
}

// Chance returns the character's adjusted percentage in a skill, clamped
// to [1, 99]. Hear noise returns a d6 ceiling instead.
func (e *Engine) Chance(pc *entity.PlayerCharacter, skillID string) (int, error) {
	if skillID == rules.SkillHearNoise {
		return e.hearNoiseCeiling(pc), nil
	}
	if !pc.Class().HasThiefSkills {
		return 0, fmt.Errorf("%w: %s", ErrNoThiefSkills, pc.ClassID)
	}
	raceAdj := pc.Race().ThiefSkillAdj[skillID]
	weightClass := ""
	if pc.Equipped.Armor != nil {
		weightClass = string(pc.Equipped.Armor.WeightClass)
	}
	return e.rules.Thief.EffectivePercent(skillID, pc.Level, pc.Scores.Dexterity, raceAdj, weightClass), nil
}

// hearNoiseCeiling: anyone listens at 1 in 6; thieves use their table and
// keen-eared races add their adjustment.
func (e *Engine) hearNoiseCeiling(pc *entity.PlayerCharacter) int {
	ceiling := 1
	if pc.Class().HasThiefSkills {
		ceiling = e.rules.Thief.BaseAt(rules.SkillHearNoise, pc.Level)
	}
	ceiling += pc.Race().ThiefSkillAdj[rules.SkillHearNoise]
	if ceiling < 1 {
		ceiling = 1
	}
	if ceiling > 5 {
		ceiling = 5
	}
	return ceiling
}

// Check rolls a skill: d100 at or under the adjusted chance succeeds, with
// hear noise rolled on d6 instead.
func (e *Engine) Check(pc *entity.PlayerCharacter, skillID string) (CheckResult, error) {
	chance, err := e.Chance(pc, skillID)
	if err != nil {
		return CheckResult{}, err
	}

	res := CheckResult{Who: pc.Name, Skill: skillID, Chance: chance}
	if skillID == rules.SkillHearNoise {
		res.Roll = e.roller.Roll(dice.Expression{Raw: "1d6", Count: 1, Sides: 6}).Total()
	} else {
		res.Roll = e.roller.Roll(dice.Expression{Raw: "1d100", Count: 1, Sides: 100}).Total()
	}
	res.Success = res.Roll <= chance

	e.logger.Debug("skill check",
		zap.String("who", res.Who),
		zap.String("skill", res.Skill),
		zap.Int("chance", chance),
		zap.Int("roll", res.Roll),
		zap.Bool("success", res.Success))
	return res, nil
}

// BackstabMultiplier returns the damage multiplier for a thief striking an
// unaware victim: x2 through level 4, one more per four levels, capped at
// x5.
func BackstabMultiplier(level int) int {
	mult := 2 + (level-1)/4
	if mult > 5 {
		mult = 5
	}
	return mult
}
