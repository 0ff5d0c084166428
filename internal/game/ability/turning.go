package ability

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

// ErrCannotTurn is returned when the character's class does not turn undead.
var ErrCannotTurn = errors.New("class cannot turn undead")

// TurnResult reports one turning attempt.
type TurnResult struct {
	Cleric string
	// Roll is the d20 against the matrix target; zero when no roll was
	// needed.
	Roll int
	// Count is the 2d6 budget of individuals that can be affected.
	Count     int
	Turned    []string
	Destroyed []string
	Messages  []string
}

// TurnUndead resolves one turning attempt against the undead present.
// A single d20 is rolled and compared per undead type; successes turn or
// destroy up to 2d6 individuals, weakest types first.
func (e *Engine) TurnUndead(cleric *entity.PlayerCharacter, undead []*entity.MonsterInstance) (TurnResult, error) {
	class := cleric.Class()
	if !class.TurnsUndead {
		return TurnResult{}, fmt.Errorf("%w: %s", ErrCannotTurn, cleric.ClassID)
	}

	level := cleric.Level + class.TurningLevelOffset
	if level < 1 {
		level = 1
	}

	res := TurnResult{Cleric: cleric.Name}
	res.Roll = e.combat.Roller().Roll(dice.Expression{Raw: "1d20", Count: 1, Sides: dice.D20Faces}).Natural()
	res.Count = e.combat.Roller().Roll(dice.Expression{Raw: "2d6", Count: 2, Sides: 6}).Total()

	remaining := res.Count
	bolstered := false
	for _, m := range undead {
		if remaining == 0 {
			break
		}
		if !m.IsAlive() || m.Fleeing {
			continue
		}
		kind := m.Def().UndeadType
		if kind == "" {
			continue
		}
		cell := e.rules.Turning.Cell(level, kind)
		if cell == rules.TurnImpossible {
			continue
		}
		if target, ok := rules.Target(cell); ok && res.Roll < target {
			continue
		}
		// At overwhelming advantage the holy power sweeps further: the
		// budget grows by 2d4 the first time a D* cell matches.
		if cell == rules.TurnDestroyAll && !bolstered {
			bolstered = true
			extra := e.combat.Roller().Roll(dice.Expression{Raw: "2d4", Count: 2, Sides: 4}).Total()
			res.Count += extra
			remaining += extra
		}
		if cell == rules.TurnDestroy || cell == rules.TurnDestroyAll {
			m.TakeDamage(m.CurrentHP())
			res.Destroyed = append(res.Destroyed, m.Name)
			res.Messages = append(res.Messages, fmt.Sprintf("%s crumbles to dust.", m.Name))
		} else {
			m.Fleeing = true
			res.Turned = append(res.Turned, m.Name)
			res.Messages = append(res.Messages, fmt.Sprintf("%s recoils from the holy symbol.", m.Name))
		}
		remaining--
	}

	e.logger.Debug("turn undead",
		zap.String("cleric", res.Cleric),
		zap.Int("level", level),
		zap.Int("roll", res.Roll),
		zap.Int("count", res.Count),
		zap.Int("turned", len(res.Turned)),
		zap.Int("destroyed", len(res.Destroyed)))
	return res, nil
}
