// Package magic resolves spell casting: slot consumption, cleric spell
// failure, magic resistance, and the per-spell effect handlers.
package magic

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/spell"
)

// Engine casts spells using the shared combat resolver and dice stream.
type Engine struct {
	rules  *rules.Ctx
	combat *combat.Engine
	logger *zap.Logger
}

// NewEngine creates a magic engine sharing the combat engine's dice stream.
func NewEngine(ctx *rules.Ctx, cbt *combat.Engine, logger *zap.Logger) *Engine {
	return &Engine{rules: ctx, combat: cbt, logger: logger}
}

// CastContext carries the battlefield state a spell may act on. Target and
// Ally are optional explicit targets; handlers fall back to sensible
// defaults when they are nil.
type CastContext struct {
	Caster  *entity.PlayerCharacter
	Party   *entity.Party
	Enemies []*entity.MonsterInstance
	Target  *entity.MonsterInstance
	Ally    *entity.PlayerCharacter
	// Floor is the room loot, for divination effects.
	Floor *item.Inventory
}

// CastResult reports what a cast did.
type CastResult struct {
	Caster  string
	Spell   string
	Fizzled bool
	// Resisted is set when magic resistance negated the spell.
	Resisted bool
	Damage   int
	Healed   int
	// Affected names creatures the spell touched.
	Affected []string
	// Messages narrates the outcome.
	Messages []string
}

type handler func(e *Engine, sp *spell.Spell, cctx *CastContext, res *CastResult)

var handlers = map[string]handler{
	"sleep":                castSleep,
	"magic_missile":        castMagicMissile,
	"burning_hands":        castBurningHands,
	"charm_person":         castCharmPerson,
	"detect_magic":         castDetectMagic,
	"cure_light_wounds":    castCureLightWounds,
	"protection_from_evil": castProtectionFromEvil,
}

// Cast consumes a memorized slot and resolves the spell. The slot is spent
// even when the spell fizzles or is resisted. An effect with no handler
// fizzles rather than erroring; the magic simply sputters out.
func (e *Engine) Cast(name string, cctx *CastContext) (*CastResult, error) {
	caster := cctx.Caster
	sp, err := caster.Book.UseSlot(name)
	if err != nil {
		return nil, err
	}

	res := &CastResult{Caster: caster.Name, Spell: sp.Name}

	h, ok := handlers[sp.Effect]
	if !ok {
		res.Fizzled = true
		res.Messages = append(res.Messages, fmt.Sprintf("%s's casting sputters and dies; nothing happens.", caster.Name))
		e.logger.Debug("spell effect unhandled", zap.String("caster", caster.Name), zap.String("effect", sp.Effect))
		return res, nil
	}

	// Cleric-type casters with low wisdom risk losing the spell outright.
	if caster.Class().SpellType == "cleric" {
		failure := e.rules.Abilities.WisdomFor(caster.Scores.Wisdom).SpellFailure
		if failure > 0 && e.roll100() <= failure {
			res.Fizzled = true
			res.Messages = append(res.Messages, fmt.Sprintf("%s's prayer goes unanswered.", caster.Name))
			e.logger.Debug("spell fizzled", zap.String("caster", caster.Name), zap.String("spell", sp.Name))
			return res, nil
		}
	}

	h(e, sp, cctx, res)
	e.logger.Debug("spell cast",
		zap.String("caster", caster.Name),
		zap.String("spell", sp.Name),
		zap.Int("damage", res.Damage),
		zap.Int("healed", res.Healed),
		zap.Strings("affected", res.Affected))
	return res, nil
}

// CastStored resolves a spell effect stored in an item (scroll, wand, or
// staff) without touching the caster's memorized slots. display names the
// item for the result.
func (e *Engine) CastStored(effect, display string, cctx *CastContext) (*CastResult, error) {
	res := &CastResult{Caster: cctx.Caster.Name, Spell: display}
	h, ok := handlers[effect]
	if !ok {
		res.Fizzled = true
		res.Messages = append(res.Messages, fmt.Sprintf("The %s flickers and goes dark; nothing happens.", display))
		e.logger.Debug("stored effect unhandled", zap.String("item", display), zap.String("effect", effect))
		return res, nil
	}
	h(e, &spell.Spell{Name: display, Effect: effect}, cctx, res)
	e.logger.Debug("stored spell cast",
		zap.String("caster", res.Caster),
		zap.String("item", display),
		zap.String("effect", effect),
		zap.Int("damage", res.Damage),
		zap.Int("healed", res.Healed))
	return res, nil
}

func (e *Engine) roll100() int {
	return e.combat.Roller().Roll(dice.Expression{Raw: "1d100", Count: 1, Sides: 100}).Total()
}

func (e *Engine) roll(expr dice.Expression) int {
	return e.combat.Roller().Roll(expr).Total()
}

// resisted rolls the target's magic resistance, if any.
func (e *Engine) resisted(m *entity.MonsterInstance) bool {
	mr := m.Def().MagicResistance()
	return mr > 0 && e.roll100() <= mr
}

// defaultEnemy picks the explicit target or the first living enemy.
func defaultEnemy(cctx *CastContext) *entity.MonsterInstance {
	if cctx.Target != nil && cctx.Target.IsAlive() {
		return cctx.Target
	}
	for _, m := range cctx.Enemies {
		if m.IsAlive() {
			return m
		}
	}
	return nil
}

// castSleep puts up to 2d4 hit dice of creatures under, weakest first.
// Sleep-immune creatures are unaffected. There is no saving throw.
func castSleep(e *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	budget := e.roll(dice.Expression{Raw: "2d4", Count: 2, Sides: 4})

	candidates := make([]*entity.MonsterInstance, 0, len(cctx.Enemies))
	for _, m := range cctx.Enemies {
		if !m.IsAlive() || m.Def().ImmuneTo("sleep") {
			continue
		}
		candidates = append(candidates, m)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Def().EffectiveHD() < candidates[j].Def().EffectiveHD()
	})

	for _, m := range candidates {
		hd := int(m.Def().EffectiveHD())
		if hd < 1 {
			hd = 1
		}
		if hd > budget {
			break
		}
		if e.resisted(m) {
			res.Resisted = true
			continue
		}
		budget -= hd
		m.Conditions().Apply(entity.ConditionAsleep, entity.PermanentDuration)
		res.Affected = append(res.Affected, m.Name)
		res.Messages = append(res.Messages, fmt.Sprintf("%s slumps to the ground, fast asleep.", m.Name))
	}
	if len(res.Affected) == 0 {
		res.Messages = append(res.Messages, "The spell washes over the enemy without effect.")
	}
}

// castMagicMissile strikes unerringly: one missile at level 1, plus one per
// two levels beyond, five at most, each for 1d4+1.
func castMagicMissile(e *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	target := defaultEnemy(cctx)
	if target == nil {
		res.Messages = append(res.Messages, "There is nothing to strike.")
		return
	}
	if e.resisted(target) {
		res.Resisted = true
		res.Messages = append(res.Messages, fmt.Sprintf("The missiles splash harmlessly against %s.", target.Name))
		return
	}

	missiles := 1 + (cctx.Caster.Level-1)/2
	if missiles > 5 {
		missiles = 5
	}
	total := 0
	for i := 0; i < missiles; i++ {
		total += e.roll(dice.Expression{Raw: "1d4+1", Count: 1, Sides: 4, Modifier: 1})
	}
	res.Damage = target.TakeDamage(total)
	res.Affected = append(res.Affected, target.Name)
	verb := "staggers"
	if !target.IsAlive() {
		verb = "falls"
	}
	res.Messages = append(res.Messages,
		fmt.Sprintf("%d glowing dart(s) slam into %s for %d damage; it %s.", missiles, target.Name, res.Damage, verb))
}

// castBurningHands fans flame over up to three enemies for caster level
// plus 1d3 each, a save against spell halving it. Fire-immune creatures
// shrug it off.
func castBurningHands(e *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	damage := cctx.Caster.Level + e.roll(dice.Expression{Raw: "1d3", Count: 1, Sides: 3})
	burned := 0
	for _, m := range cctx.Enemies {
		if burned == 3 {
			break
		}
		if !m.IsAlive() || m.Def().ImmuneTo("fire") {
			continue
		}
		if e.resisted(m) {
			res.Resisted = true
			continue
		}
		_, dealt := e.combat.SaveForHalfAmount(m, rules.SaveSpell, damage)
		res.Damage += dealt
		res.Affected = append(res.Affected, m.Name)
		burned++
	}
	if len(res.Affected) == 0 {
		res.Messages = append(res.Messages, "The flames find nothing to burn.")
		return
	}
	res.Messages = append(res.Messages,
		fmt.Sprintf("Flame fans across %d foe(s) for %d total damage.", len(res.Affected), res.Damage))
}

// castCharmPerson befriends one man-sized or smaller humanoid unless it
// saves against spell. Anything else is beyond the spell's reach.
func castCharmPerson(e *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	target := defaultEnemy(cctx)
	if target == nil {
		res.Messages = append(res.Messages, "There is no one to charm.")
		return
	}
	def := target.Def()
	if def.Type != "humanoid" || (def.Size != "S" && def.Size != "M") || def.ImmuneTo("charm") {
		res.Messages = append(res.Messages, fmt.Sprintf("%s is beyond the reach of the charm.", target.Name))
		return
	}
	if e.resisted(target) {
		res.Resisted = true
		res.Messages = append(res.Messages, fmt.Sprintf("%s shrugs off the charm.", target.Name))
		return
	}
	save := e.combat.RollSave(target, rules.SaveSpell)
	if save.Success {
		res.Messages = append(res.Messages, fmt.Sprintf("%s resists the charm.", target.Name))
		return
	}
	target.Conditions().Apply(entity.ConditionCharmed, entity.PermanentDuration)
	res.Affected = append(res.Affected, target.Name)
	res.Messages = append(res.Messages, fmt.Sprintf("%s lowers its weapon, eyes glazed with friendship.", target.Name))
}

// castDetectMagic names the enchanted items lying in the room and carried
// by the party.
func castDetectMagic(_ *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	var glowing []string
	if cctx.Floor != nil {
		for _, it := range cctx.Floor.Items() {
			if item.IsMagical(it) {
				glowing = append(glowing, it.ItemName())
			}
		}
	}
	for _, pc := range cctx.Party.Members {
		for _, it := range pc.Inventory.Items() {
			if item.IsMagical(it) {
				glowing = append(glowing, fmt.Sprintf("%s (carried by %s)", it.ItemName(), pc.Name))
			}
		}
	}
	if len(glowing) == 0 {
		res.Messages = append(res.Messages, "Nothing nearby radiates magic.")
		return
	}
	res.Affected = glowing
	for _, name := range glowing {
		res.Messages = append(res.Messages, fmt.Sprintf("%s glows with a faint aura.", name))
	}
}

// castCureLightWounds heals 1d8 on the chosen ally, the caster by default.
func castCureLightWounds(e *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	target := cctx.Ally
	if target == nil {
		target = cctx.Caster
	}
	healed := target.Heal(e.roll(dice.Expression{Raw: "1d8", Count: 1, Sides: 8}))
	res.Healed = healed
	res.Affected = append(res.Affected, target.Name)
	res.Messages = append(res.Messages, fmt.Sprintf("%s's wounds close; %d hit points restored.", target.Name, healed))
}

// castProtectionFromEvil wards the chosen ally for two rounds per caster
// level.
func castProtectionFromEvil(_ *Engine, _ *spell.Spell, cctx *CastContext, res *CastResult) {
	target := cctx.Ally
	if target == nil {
		target = cctx.Caster
	}
	rounds := 2 * cctx.Caster.Level
	target.Conditions().Apply(entity.ConditionProtected, rounds)
	res.Affected = append(res.Affected, target.Name)
	res.Messages = append(res.Messages, fmt.Sprintf("A shimmering ward settles around %s.", target.Name))
}
