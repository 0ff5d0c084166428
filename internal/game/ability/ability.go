// Package ability resolves monster special abilities (poison, paralysis,
// breath weapons, level drain, regeneration, and the rest) and the cleric
// turning-undead matrix.
package ability

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

// Engine resolves special abilities through the shared combat resolver.
type Engine struct {
	rules  *rules.Ctx
	combat *combat.Engine
	logger *zap.Logger
}

// NewEngine creates an ability engine.
func NewEngine(ctx *rules.Ctx, cbt *combat.Engine, logger *zap.Logger) *Engine {
	return &Engine{rules: ctx, combat: cbt, logger: logger}
}

// UseResult reports one special ability firing.
type UseResult struct {
	Monster string
	Ability string
	Target  string
	Save    *combat.SaveResult
	Damage  int
	Healed  int
	// Applied names the condition inflicted, if any.
	Applied  entity.Condition
	Slain    bool
	Messages []string
}

func (e *Engine) roll100() int {
	return e.combat.Roller().Roll(dice.Expression{Raw: "1d100", Count: 1, Sides: 100}).Total()
}

// OnHit resolves the touch-triggered specials a monster carries after one
// of its attacks lands: poison, paralysis, level drain, disease, and
// strength drain.
func (e *Engine) OnHit(m *entity.MonsterInstance, target *entity.PlayerCharacter) []UseResult {
	var out []UseResult
	for i, sp := range m.Def().Specials {
		if !m.SpecialAvailable(i) {
			continue
		}
		var res *UseResult
		switch sp.Type {
		case "poison":
			res = e.applyPoison(m, target, sp)
		case "paralysis":
			res = e.applyConditionSave(m, target, sp, "paralysis")
		case "disease":
			if sp.Chance > 0 && e.roll100() > sp.Chance {
				continue
			}
			res = e.applyConditionSave(m, target, sp, "disease")
		case "level_drain":
			res = e.applyLevelDrain(m, target, sp)
		case "energy_drain_touch":
			res = e.applyStrengthDrain(m, target, sp)
		case "constriction":
			res = e.applyConstriction(m, target)
		default:
			continue
		}
		if res != nil {
			m.SpendSpecial(i)
			e.logResult(res)
			out = append(out, *res)
		}
	}
	return out
}

// applyPoison: a save against poison resists; failure kills outright unless
// the venom only sickens.
func (e *Engine) applyPoison(m *entity.MonsterInstance, target *entity.PlayerCharacter, sp rules.SpecialAbility) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: "poison", Target: target.Name}
	save := e.combat.RollSave(target, rules.SaveCategory(sp.Save))
	res.Save = &save
	if save.Success {
		res.Messages = append(res.Messages, fmt.Sprintf("%s shakes off the venom.", target.Name))
		return res
	}
	if sp.Condition != "" {
		target.Conditions().Apply(entity.Condition(sp.Condition), sp.Rounds)
		res.Applied = entity.Condition(sp.Condition)
		res.Messages = append(res.Messages, fmt.Sprintf("Venom courses through %s.", target.Name))
		return res
	}
	target.TakeDamage(target.CurrentHP())
	res.Slain = true
	res.Messages = append(res.Messages, fmt.Sprintf("%s convulses and dies of the poison.", target.Name))
	return res
}

func (e *Engine) applyConditionSave(m *entity.MonsterInstance, target *entity.PlayerCharacter, sp rules.SpecialAbility, name string) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: name, Target: target.Name}
	save := e.combat.RollSave(target, rules.SaveCategory(sp.Save))
	res.Save = &save
	if save.Success {
		res.Messages = append(res.Messages, fmt.Sprintf("%s resists.", target.Name))
		return res
	}
	cond := entity.Condition(sp.Condition)
	rounds := sp.Rounds
	if rounds == 0 {
		rounds = entity.PermanentDuration
	}
	target.Conditions().Apply(cond, rounds)
	res.Applied = cond
	res.Messages = append(res.Messages, fmt.Sprintf("%s is %s.", target.Name, cond))
	return res
}

// applyLevelDrain takes levels with no saving throw.
func (e *Engine) applyLevelDrain(m *entity.MonsterInstance, target *entity.PlayerCharacter, sp rules.SpecialAbility) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: "level_drain", Target: target.Name}
	drained := sp.Amount
	if drained < 1 {
		drained = 1
	}
	target.DrainLevels(drained)
	res.Slain = !target.IsAlive()
	if res.Slain {
		res.Messages = append(res.Messages, fmt.Sprintf("The last of %s's life is torn away.", target.Name))
	} else {
		res.Messages = append(res.Messages, fmt.Sprintf("%s feels life itself drain away (now level %d).", target.Name, target.Level))
	}
	return res
}

// applyStrengthDrain saps strength; a victim drained to 3 or below can
// barely stand.
func (e *Engine) applyStrengthDrain(m *entity.MonsterInstance, target *entity.PlayerCharacter, sp rules.SpecialAbility) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: "strength_drain", Target: target.Name}
	amount := sp.Amount
	if amount < 1 {
		amount = 1
	}
	target.Scores.Strength -= amount
	if target.Scores.Strength < 3 {
		target.Scores.Strength = 3
	}
	res.Messages = append(res.Messages, fmt.Sprintf("A deathly chill saps %s's strength (now %d).", target.Name, target.Scores.Strength))
	return res
}

// applyConstriction wraps the victim in the monster's coils: automatic
// crushing damage now and every round until the hold breaks, no save.
func (e *Engine) applyConstriction(m *entity.MonsterInstance, target *entity.PlayerCharacter) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: "constriction", Target: target.Name}
	m.Holding = target.ID
	dealt := target.TakeDamage(e.constrictDamage(m))
	res.Damage = dealt
	res.Slain = !target.IsAlive()
	res.Messages = append(res.Messages, fmt.Sprintf("%s's coils tighten around %s for %d.", m.Name, target.Name, dealt))
	if res.Slain {
		m.Holding = ""
		res.Messages = append(res.Messages, fmt.Sprintf("%s is crushed lifeless.", target.Name))
	}
	return res
}

// constrictDamage scales with the monster's bulk: 2d4 below five hit dice,
// 2d8 from five up.
func (e *Engine) constrictDamage(m *entity.MonsterInstance) int {
	if m.Def().EffectiveHD() < 5 {
		return e.combat.Roller().Roll(dice.Expression{Raw: "2d4", Count: 2, Sides: 4}).Total()
	}
	return e.combat.Roller().Roll(dice.Expression{Raw: "2d8", Count: 2, Sides: 8}).Total()
}

// Squeeze continues a held victim's crushing each round. Returns nil when
// the monster holds nobody; the hold clears when the victim dies or is gone.
func (e *Engine) Squeeze(m *entity.MonsterInstance, party *entity.Party) *UseResult {
	if m.Holding == "" || !m.IsAlive() {
		return nil
	}
	var victim *entity.PlayerCharacter
	for _, pc := range party.Members {
		if pc.ID == m.Holding {
			victim = pc
			break
		}
	}
	if victim == nil || !victim.IsAlive() {
		m.Holding = ""
		return nil
	}
	res := &UseResult{Monster: m.Name, Ability: "constriction", Target: victim.Name}
	dealt := victim.TakeDamage(e.constrictDamage(m))
	res.Damage = dealt
	res.Slain = !victim.IsAlive()
	res.Messages = append(res.Messages, fmt.Sprintf("%s squeezes %s for %d.", m.Name, victim.Name, dealt))
	if res.Slain {
		m.Holding = ""
		res.Messages = append(res.Messages, fmt.Sprintf("%s goes limp in the coils.", victim.Name))
	}
	e.logResult(res)
	return res
}

// TakeAction gives a monster the chance to use an action special (breath
// weapon or gaze) instead of its normal attacks. Returns false when no
// special fires this round.
func (e *Engine) TakeAction(m *entity.MonsterInstance, party *entity.Party) (*UseResult, bool) {
	for i, sp := range m.Def().Specials {
		if !m.SpecialAvailable(i) {
			continue
		}
		switch sp.Type {
		case "breath_weapon":
			if sp.Chance > 0 && e.roll100() > sp.Chance {
				continue
			}
			m.SpendSpecial(i)
			res := e.breathe(m, party, sp)
			e.logResult(res)
			return res, true
		case "gaze":
			if sp.Chance > 0 && e.roll100() > sp.Chance {
				continue
			}
			m.SpendSpecial(i)
			res := e.gaze(m, party, sp)
			e.logResult(res)
			return res, true
		}
	}
	return nil, false
}

// breathe catches every reachable party member. The payload is the
// monster's current hit points, halved for a lingering gas cloud; a save
// halves what lands. Gas is resisted with a poison save, a blast of flame
// or frost with a breath save.
func (e *Engine) breathe(m *entity.MonsterInstance, party *entity.Party, sp rules.SpecialAbility) *UseResult {
	res := &UseResult{Monster: m.Name, Ability: "breath_weapon"}
	total := m.CurrentHP()
	cat := rules.SaveBreath
	if sp.Gas {
		total /= 2
		cat = rules.SavePoison
	}
	for _, pc := range combat.Reachable(party) {
		_, dealt := e.combat.SaveForHalfAmount(pc, cat, total)
		res.Damage += dealt
		res.Messages = append(res.Messages, fmt.Sprintf("%s is scorched for %d.", pc.Name, dealt))
		if !pc.IsAlive() {
			res.Slain = true
		}
	}
	return res
}

// gaze picks one victim: save versus petrification or be turned to stone.
func (e *Engine) gaze(m *entity.MonsterInstance, party *entity.Party, sp rules.SpecialAbility) *UseResult {
	target := e.combat.ChooseTarget(m, party)
	if target == nil {
		return &UseResult{Monster: m.Name, Ability: "gaze"}
	}
	res := &UseResult{Monster: m.Name, Ability: "gaze", Target: target.Name}
	save := e.combat.RollSave(target, rules.SaveCategory(sp.Save))
	res.Save = &save
	if save.Success {
		res.Messages = append(res.Messages, fmt.Sprintf("%s averts their eyes in time.", target.Name))
		return res
	}
	target.Conditions().Apply(entity.Condition(sp.Condition), entity.PermanentDuration)
	res.Applied = entity.Condition(sp.Condition)
	res.Messages = append(res.Messages, fmt.Sprintf("%s stiffens into gray stone.", target.Name))
	return res
}

// StartOfRound applies regeneration for monsters that knit their wounds.
func (e *Engine) StartOfRound(m *entity.MonsterInstance) *UseResult {
	if !m.IsAlive() {
		return nil
	}
	for _, sp := range m.Def().Specials {
		if sp.Type != "regeneration" || m.CurrentHP() >= m.MaxHP() {
			continue
		}
		healed := m.Heal(sp.Amount)
		res := &UseResult{
			Monster:  m.Name,
			Ability:  "regeneration",
			Healed:   healed,
			Messages: []string{fmt.Sprintf("%s's wounds knit before your eyes.", m.Name)},
		}
		e.logResult(res)
		return res
	}
	return nil
}

func (e *Engine) logResult(res *UseResult) {
	e.logger.Debug("special ability",
		zap.String("monster", res.Monster),
		zap.String("ability", res.Ability),
		zap.String("target", res.Target),
		zap.Int("damage", res.Damage),
		zap.Bool("slain", res.Slain))
}
