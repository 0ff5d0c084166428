package combat

import (
	"github.com/tgibson/underdark/internal/game/entity"
)

// Reachable returns the party members a monster can strike in melee: the
// living front row, or everyone once the front has fallen.
func Reachable(party *entity.Party) []*entity.PlayerCharacter {
	alive := party.Alive()
	var front []*entity.PlayerCharacter
	for _, pc := range alive {
		if pc.FormationRow() == entity.RowFront {
			front = append(front, pc)
		}
	}
	if len(front) > 0 {
		return front
	}
	return alive
}

// ChooseTarget picks a monster's victim. Dull creatures maul whoever in the
// front line looks worst; brighter ones roll d100 for their approach: most
// often the wounded front-liner, sometimes a lunge at the back line (clever
// monsters going for the spellcaster), and now and then an opportunistic
// strike at the best opening.
func (e *Engine) ChooseTarget(m *entity.MonsterInstance, party *entity.Party) *entity.PlayerCharacter {
	alive := party.Alive()
	if len(alive) == 0 {
		return nil
	}
	var front, back []*entity.PlayerCharacter
	for _, pc := range alive {
		if pc.FormationRow() == entity.RowFront {
			front = append(front, pc)
		} else {
			back = append(back, pc)
		}
	}

	intel := m.Def().IntelligenceScore()
	if intel <= 4 {
		return e.frontTarget(front, back)
	}

	roll := e.roller.Roll(percentile()).Total()
	switch {
	case roll <= 70:
		return e.frontTarget(front, back)
	case roll <= 90:
		if intel >= 12 {
			if caster := firstCaster(back); caster != nil {
				return caster
			}
			if len(back) > 0 {
				return back[e.roller.Source().Intn(len(back))]
			}
			return e.frontTarget(front, back)
		}
		if len(front) == 0 && len(back) > 0 {
			return back[e.roller.Source().Intn(len(back))]
		}
		return e.frontTarget(front, back)
	default:
		if intel >= 12 {
			return lowestAC(alive)
		}
		return mostWounded(alive)
	}
}

// frontTarget picks the most wounded front-liner, or a random back-liner
// when nobody holds the front.
func (e *Engine) frontTarget(front, back []*entity.PlayerCharacter) *entity.PlayerCharacter {
	if len(front) > 0 {
		return mostWounded(front)
	}
	if len(back) == 0 {
		return nil
	}
	return back[e.roller.Source().Intn(len(back))]
}

// mostWounded picks the candidate at the lowest fraction of full hit
// points, breaking ties on the lowest absolute total.
func mostWounded(candidates []*entity.PlayerCharacter) *entity.PlayerCharacter {
	best := candidates[0]
	for _, pc := range candidates[1:] {
		lhs := pc.CurrentHP() * best.MaxHP()
		rhs := best.CurrentHP() * pc.MaxHP()
		if lhs < rhs || (lhs == rhs && pc.CurrentHP() < best.CurrentHP()) {
			best = pc
		}
	}
	return best
}

func lowestAC(candidates []*entity.PlayerCharacter) *entity.PlayerCharacter {
	best := candidates[0]
	for _, pc := range candidates[1:] {
		if pc.ArmorClass() < best.ArmorClass() {
			best = pc
		}
	}
	return best
}

func firstCaster(candidates []*entity.PlayerCharacter) *entity.PlayerCharacter {
	for _, pc := range candidates {
		if pc.IsCaster() {
			return pc
		}
	}
	return nil
}
