package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tgibson/underdark/internal/game/ability"
	"github.com/tgibson/underdark/internal/game/command"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/magic"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/spell"
)

func (e *Engine) handleAttack(s *GameState, parsed command.ParseResult) Result {
	if !s.InCombat() {
		return Result{Message: "There is nothing here to fight."}
	}
	enc := s.Encounter

	act := &action{kind: "attack", actor: firstAlive(s.Party)}
	if parsed.RawArgs != "" {
		target, ok := enc.Find(parsed.RawArgs)
		if !ok {
			return Result{Message: fmt.Sprintf("No foe called %q stands here.", parsed.RawArgs)}
		}
		act.target = target
	}
	return e.runRound(s, act)
}

func (e *Engine) handleSimpleAction(s *GameState, kind string) Result {
	return e.runRound(s, &action{kind: kind, actor: firstAlive(s.Party)})
}

func (e *Engine) handleFlee(s *GameState) Result {
	if s.PrevRoom == "" {
		return Result{Message: "There is nowhere to run."}
	}
	return e.runRound(s, &action{kind: "flee"})
}

func (e *Engine) handleTurn(s *GameState) Result {
	var cleric *entity.PlayerCharacter
	for _, pc := range s.Party.Alive() {
		if pc.Class().TurnsUndead {
			cleric = pc
			break
		}
	}
	if cleric == nil {
		return Result{Message: "No one here channels the power to turn the dead."}
	}
	undead := false
	for _, m := range s.Encounter.Living() {
		if m.Def().UndeadType != "" {
			undead = true
			break
		}
	}
	if !undead {
		return Result{Message: "There are no undead to turn."}
	}
	return e.runRound(s, &action{kind: "turn", actor: cleric})
}

func (e *Engine) handleHide(s *GameState) Result {
	var thief *entity.PlayerCharacter
	for _, pc := range s.Party.Alive() {
		if pc.Class().HasThiefSkills {
			thief = pc
			break
		}
	}
	if thief == nil {
		return Result{Message: "No one here knows how to melt into the shadows."}
	}
	return e.runRound(s, &action{kind: "hide", actor: thief})
}

// offensiveEffects are the spell effects that need a foe to land on.
var offensiveEffects = map[string]bool{
	"sleep":         true,
	"magic_missile": true,
	"burning_hands": true,
	"charm_person":  true,
}

// handleCast resolves "cast <spell> [at <enemy> | on <ally>]" in and out of
// battle. The caster is whoever has the spell memorized. Helpful magic only
// lands on the party; hostile magic needs enemies on the field.
func (e *Engine) handleCast(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Cast what? Try: cast cure light wounds on Aldric"}
	}
	spellName, targetName := splitTarget(parsed.RawArgs)

	var caster *entity.PlayerCharacter
	for _, pc := range s.Party.Alive() {
		for _, name := range pc.Book.MemorizedNames() {
			if strings.EqualFold(name, spellName) {
				caster = pc
				spellName = name
				break
			}
		}
		if caster != nil {
			break
		}
	}
	if caster == nil {
		return Result{Message: fmt.Sprintf("No one has %s memorized.", spellName)}
	}

	beneficial := spell.IsBeneficial(spellName)
	offensive := false
	if sp, ok := caster.Book.Knows(spellName); ok {
		offensive = offensiveEffects[sp.Effect]
	}

	if s.InCombat() {
		act := &action{kind: "cast", actor: caster, spell: spellName}
		if beneficial {
			// Helpful magic lands on the party, the caster by default.
			if targetName != "" {
				pc, ok := s.Party.Find(targetName)
				if !ok {
					return Result{Message: fmt.Sprintf("%s can only be laid on a party member.", spellName)}
				}
				act.ally = pc
			}
		} else if targetName != "" {
			m, ok := s.Encounter.Find(targetName)
			if !ok {
				return Result{Message: fmt.Sprintf("No foe called %q stands here.", targetName)}
			}
			act.target = m
		}
		return e.runRound(s, act)
	}

	if offensive {
		return Result{Message: "There are no enemies here to unleash that upon."}
	}

	cctx := &magic.CastContext{
		Caster: caster,
		Party:  s.Party,
		Floor:  &s.Room().Floor,
	}
	if targetName != "" {
		if pc, ok := s.Party.Find(targetName); ok {
			cctx.Ally = pc
		} else {
			return Result{Message: fmt.Sprintf("Nobody here answers to %q.", targetName)}
		}
	}
	res, err := e.magic.Cast(spellName, cctx)
	if err != nil {
		if errors.Is(err, spell.ErrNotMemorized) {
			return Result{Message: fmt.Sprintf("%s no longer holds %s in mind.", caster.Name, spellName)}
		}
		return Result{Message: fmt.Sprintf("The casting fails: %v", err)}
	}
	lines := res.Messages
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// castInCombat resolves the caster's chosen spell as their round action.
func (e *Engine) castInCombat(s *GameState, caster *entity.PlayerCharacter, act *action) []string {
	enc := s.Encounter
	cctx := &magic.CastContext{
		Caster:  caster,
		Party:   s.Party,
		Enemies: enc.Living(),
		Target:  act.target,
		Ally:    act.ally,
		Floor:   &s.Room().Floor,
	}
	res, err := e.magic.Cast(act.spell, cctx)
	if err != nil {
		return []string{fmt.Sprintf("%s's casting falters: %v", caster.Name, err)}
	}
	lines := []string{fmt.Sprintf("%s casts %s.", caster.Name, res.Spell)}
	return append(lines, res.Messages...)
}

func (e *Engine) turnInCombat(s *GameState, cleric *entity.PlayerCharacter) []string {
	res, err := e.specials.TurnUndead(cleric, s.Encounter.Living())
	if err != nil {
		if errors.Is(err, ability.ErrCannotTurn) {
			return []string{fmt.Sprintf("%s's appeal goes unheard.", cleric.Name)}
		}
		return []string{fmt.Sprintf("The turning fails: %v", err)}
	}
	lines := []string{fmt.Sprintf("%s raises a holy symbol high.", cleric.Name)}
	if len(res.Messages) == 0 {
		return append(lines, "The dead advance unmoved.")
	}
	return append(lines, res.Messages...)
}

func (e *Engine) hideInShadows(s *GameState, thief *entity.PlayerCharacter) []string {
	check, err := e.skills.Check(thief, rules.SkillHideInShadows)
	if err != nil {
		return []string{fmt.Sprintf("%s cannot find cover: %v", thief.Name, err)}
	}
	if !check.Success {
		return []string{fmt.Sprintf("%s ducks for the shadows but is spotted.", thief.Name)}
	}
	s.Encounter.hidden[thief.ID] = true
	return []string{fmt.Sprintf("%s melts into the shadows.", thief.Name)}
}
