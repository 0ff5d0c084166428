package combat

import (
	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

func percentile() dice.Expression {
	return dice.Expression{Raw: "1d100", Count: 1, Sides: 100}
}

// MoraleResult reports one morale check.
type MoraleResult struct {
	Who       string
	Roll      int
	Threshold int
	Holds     bool
}

// CheckMorale rolls 2d6 against the monster's morale score: over the score
// breaks and the monster turns to flee. A score of 12 never breaks.
func (e *Engine) CheckMorale(m *entity.MonsterInstance) MoraleResult {
	roll := e.roller.Roll(dice.Expression{Raw: "2d6", Count: 2, Sides: 6}).Total()
	holds := roll <= m.Def().Morale
	if !holds {
		m.Fleeing = true
	}
	e.logger.Debug("morale check",
		zap.String("who", m.DisplayName()),
		zap.Int("roll", roll),
		zap.Int("threshold", m.Def().Morale),
		zap.Bool("holds", holds))
	return MoraleResult{Who: m.DisplayName(), Roll: roll, Threshold: m.Def().Morale, Holds: holds}
}

// WantsToFlee reports whether a flee-at-low-hp monster has dropped to a
// quarter of its hit points or less.
func WantsToFlee(m *entity.MonsterInstance) bool {
	if m.Def().AI != rules.AIFleeLowHP {
		return false
	}
	return m.IsAlive() && m.CurrentHP()*4 <= m.MaxHP()
}

// ShouldCheckMorale reports whether a monster's resolve is in question this
// round. Aggressive monsters never check; defensive ones check once bloodied
// below half; everything checks when its side has been halved.
func ShouldCheckMorale(m *entity.MonsterInstance, sideHalved bool) bool {
	switch m.Def().AI {
	case rules.AIAggressive:
		return false
	case rules.AIDefensive:
		if m.CurrentHP()*2 <= m.MaxHP() {
			return true
		}
	}
	return WantsToFlee(m) || sideHalved
}
