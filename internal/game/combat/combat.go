// Package combat implements the round-based battle resolver: individual
// initiative, THAC0 attack resolution with critical hits and fumbles,
// saving throws, monster targeting, and morale.
//
// The resolver is deliberately free of I/O. It consumes combatants and a
// dice roller and returns structured results; the encounter engine turns
// those into narration.
package combat

import (
	"sort"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
)

// Engine resolves combat mechanics against the rules tables.
type Engine struct {
	rules  *rules.Ctx
	roller *dice.Roller
	logger *zap.Logger
}

// NewEngine creates a combat engine.
//
// Precondition: all arguments must be non-nil.
func NewEngine(ctx *rules.Ctx, roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{rules: ctx, roller: roller, logger: logger}
}

// Roller exposes the engine's dice roller for callers that share its stream.
func (e *Engine) Roller() *dice.Roller { return e.roller }

// InitiativeEntry is one combatant's place in the round order.
type InitiativeEntry struct {
	Combatant entity.Combatant
	// Roll is the natural d6.
	Roll int
	// Score orders the round: roll plus weapon speed factor plus the
	// dexterity bracket; lower acts first.
	Score int
}

// RollInitiative rolls individual initiative for every living combatant and
// returns them in acting order. Ties break on name for determinism.
func (e *Engine) RollInitiative(combatants []entity.Combatant) []InitiativeEntry {
	entries := make([]InitiativeEntry, 0, len(combatants))
	for _, c := range combatants {
		if !c.IsAlive() {
			continue
		}
		roll := e.roller.Roll(dice.Expression{Raw: "1d6", Count: 1, Sides: dice.InitiativeFaces})
		entries = append(entries, InitiativeEntry{
			Combatant: c,
			Roll:      roll.Natural(),
			Score:     roll.Total() + speedOf(c) + c.InitiativeMod(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].Combatant.DisplayName() < entries[j].Combatant.DisplayName()
	})
	return entries
}

func speedOf(c entity.Combatant) int {
	routine := c.AttackRoutine("M")
	if len(routine) == 0 {
		return 10
	}
	return routine[0].SpeedFactor
}

// AttackResult reports one resolved attack.
type AttackResult struct {
	Attacker   string
	Target     string
	AttackName string
	// Roll is the natural d20; Needed is the adjusted number required.
	Roll   int
	Needed int
	Hit    bool
	// Critical doubles the damage dice on a natural 20; Fumble is a natural 1.
	Critical bool
	Fumble   bool
	Damage   int
	Slain    bool
}

// ResolveAttack rolls one attack and applies its damage.
//
// A natural 20 always hits and doubles the damage dice; a natural 1 always
// misses. Helpless targets are struck automatically. Damage dealt is never
// less than 1 on a hit.
func (e *Engine) ResolveAttack(attacker, target entity.Combatant, atk entity.Attack) AttackResult {
	needed := attacker.THAC0() - target.ArmorClass() - atk.HitBonus
	res := AttackResult{
		Attacker:   attacker.DisplayName(),
		Target:     target.DisplayName(),
		AttackName: atk.Name,
		Needed:     needed,
	}

	roll := e.roller.Roll(dice.Expression{Raw: "1d20", Count: 1, Sides: dice.D20Faces})
	res.Roll = roll.Natural()

	switch {
	case target.Conditions().Incapacitated():
		res.Hit = true
	case res.Roll == dice.CriticalMiss:
		res.Fumble = true
	case res.Roll == dice.CriticalHit:
		res.Hit = true
		res.Critical = true
	default:
		res.Hit = res.Roll >= needed
	}
	if !res.Hit {
		e.logger.Debug("attack missed",
			zap.String("attacker", res.Attacker),
			zap.String("target", res.Target),
			zap.Int("roll", res.Roll),
			zap.Int("needed", needed))
		return res
	}

	dmgRoll := e.roller.Roll(atk.Damage)
	damage := dmgRoll.Total()
	if atk.Multiplier > 1 {
		damage *= atk.Multiplier
	}
	// Bonuses fold in before the critical doubles the whole expression.
	damage += atk.DamageBonus
	if res.Critical {
		damage *= 2
	}
	if damage < 1 {
		damage = 1
	}
	res.Damage = target.TakeDamage(damage)
	res.Slain = !target.IsAlive()

	e.logger.Debug("attack hit",
		zap.String("attacker", res.Attacker),
		zap.String("target", res.Target),
		zap.Int("roll", res.Roll),
		zap.Bool("critical", res.Critical),
		zap.Int("damage", res.Damage),
		zap.Bool("slain", res.Slain))
	return res
}

// SaveResult reports one saving throw.
type SaveResult struct {
	Who      string
	Category rules.SaveCategory
	Roll     int
	Target   int
	Success  bool
}

// RollSave rolls a saving throw: d20 at or under the adjusted target
// succeeds, so situational modifiers add to the target. A natural 1 always
// succeeds and a natural 20 always fails.
func (e *Engine) RollSave(c entity.Combatant, cat rules.SaveCategory, mods ...int) SaveResult {
	target := c.SaveTarget(cat)
	for _, mod := range mods {
		target += mod
	}
	roll := e.roller.Roll(dice.Expression{Raw: "1d20", Count: 1, Sides: dice.D20Faces}).Natural()
	success := roll <= target
	if roll == dice.CriticalMiss {
		success = true
	}
	if roll == dice.CriticalHit {
		success = false
	}
	e.logger.Debug("saving throw",
		zap.String("who", c.DisplayName()),
		zap.String("category", string(cat)),
		zap.Int("roll", roll),
		zap.Int("target", target),
		zap.Bool("success", success))
	return SaveResult{Who: c.DisplayName(), Category: cat, Roll: roll, Target: target, Success: success}
}

// SaveForHalf rolls damage and a save: success halves it, rounded down.
func (e *Engine) SaveForHalf(c entity.Combatant, cat rules.SaveCategory, damage dice.Expression) (SaveResult, int) {
	return e.SaveForHalfAmount(c, cat, e.roller.Roll(damage).Total())
}

// SaveForHalfAmount applies an already-computed damage total with a save for
// half. Damage always lands through TakeDamage so death is uniform.
func (e *Engine) SaveForHalfAmount(c entity.Combatant, cat rules.SaveCategory, total int) (SaveResult, int) {
	save := e.RollSave(c, cat)
	if save.Success {
		total /= 2
	}
	return save, c.TakeDamage(total)
}

// SegmentRoutines splits a combatant's attacks for one round across its two
// six-second segments. Whole attacks divide evenly, front-loaded; a
// fractional rate (3/2) grants the extra attack in the second segment on a
// coin flip.
func (e *Engine) SegmentRoutines(c entity.Combatant, targetSize string) (seg1, seg2 []entity.Attack) {
	routine := c.AttackRoutine(targetSize)
	if len(routine) == 0 {
		return nil, nil
	}
	num, den := c.AttackRate()
	if den < 1 {
		den = 1
	}
	guaranteed := num / den
	if guaranteed < 1 {
		guaranteed = 1
	}
	attacks := make([]entity.Attack, guaranteed)
	for i := range attacks {
		attacks[i] = routine[i%len(routine)]
	}
	split := (guaranteed + 1) / 2
	seg1 = attacks[:split]
	seg2 = attacks[split:]
	if num%den != 0 {
		flip := e.roller.Roll(dice.Expression{Raw: "1d2", Count: 1, Sides: 2}).Total()
		if flip == 1 {
			seg2 = append(seg2, routine[guaranteed%len(routine)])
		}
	}
	return seg1, seg2
}

// SaveOrDie rolls a save against instant death. On failure the target drops
// to 0 hit points.
func (e *Engine) SaveOrDie(c entity.Combatant, cat rules.SaveCategory) SaveResult {
	save := e.RollSave(c, cat)
	if !save.Success {
		c.TakeDamage(c.CurrentHP())
	}
	return save
}
