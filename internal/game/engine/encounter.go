package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/skill"
	"github.com/tgibson/underdark/internal/game/world"
)

// Encounter is one battle in progress.
type Encounter struct {
	Monsters []*entity.MonsterInstance
	Round    int

	// specs are the room groups that spawned this encounter. Wandering
	// encounters carry none.
	specs []*world.EncounterSpec
	// initial is the spawned headcount, the baseline for group morale.
	initial int
	// checked records monsters that already made their one morale roll.
	checked map[string]bool
	// hidden records party members lurking in shadows for a backstab.
	hidden map[string]bool
	// awarded records monsters whose kill has already paid experience.
	awarded map[string]bool
}

func newEncounter(monsters []*entity.MonsterInstance, specs []*world.EncounterSpec) *Encounter {
	return &Encounter{
		Monsters: monsters,
		specs:    specs,
		initial:  len(monsters),
		checked:  make(map[string]bool),
		hidden:   make(map[string]bool),
		awarded:  make(map[string]bool),
	}
}

// Living returns the monsters still standing and willing to fight.
func (enc *Encounter) Living() []*entity.MonsterInstance {
	var out []*entity.MonsterInstance
	for _, m := range enc.Monsters {
		if m.IsAlive() && !m.Fleeing {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the living monster matching name, exact first then prefix,
// both case-insensitive.
func (enc *Encounter) Find(name string) (*entity.MonsterInstance, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	living := enc.Living()
	for _, m := range living {
		if strings.ToLower(m.Name) == want {
			return m, true
		}
	}
	for _, m := range living {
		if strings.HasPrefix(strings.ToLower(m.Name), want) {
			return m, true
		}
	}
	return nil, false
}

// action is the player's chosen move for one combat round. Members without an
// explicit action attack on their own.
type action struct {
	kind   string
	actor  *entity.PlayerCharacter
	target *entity.MonsterInstance
	ally   *entity.PlayerCharacter
	spell  string
	item   item.Item
	done   bool
}

// spawnGroup rolls up count instances of a catalog monster.
func (e *Engine) spawnGroup(defID string, count int) []*entity.MonsterInstance {
	out := make([]*entity.MonsterInstance, 0, count)
	for i := 0; i < count; i++ {
		ordinal := i + 1
		if count == 1 {
			ordinal = 0
		}
		m, err := entity.SpawnMonster(e.rules, e.roller, defID, ordinal)
		if err != nil {
			e.logger.Warn("spawn failed", zap.String("monster", defID), zap.Error(err))
			continue
		}
		out = append(out, m)
	}
	return out
}

// startRoomEncounter spawns the room's pending monster groups and opens the
// battle. Each spec is spent the moment it triggers; the group never
// respawns whether the party wins or runs.
func (e *Engine) startRoomEncounter(s *GameState, specs []*world.EncounterSpec) string {
	var monsters []*entity.MonsterInstance
	for _, spec := range specs {
		spec.Spent = true
		monsters = append(monsters, e.spawnGroup(spec.MonsterID, e.rollCount(spec.Count))...)
	}
	if len(monsters) == 0 {
		return ""
	}
	s.Encounter = newEncounter(monsters, specs)
	e.logger.Info("encounter begins",
		zap.String("room", s.RoomID),
		zap.Int("monsters", len(monsters)))
	return fmt.Sprintf("%s bar the way!", foeSummary(monsters))
}

// foeSummary lists monsters as "orc 1, orc 2, and a kobold" style prose.
func foeSummary(monsters []*entity.MonsterInstance) string {
	names := make([]string, len(monsters))
	for i, m := range monsters {
		names[i] = m.Name
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// runRound plays one full combat round with the player's chosen action. A
// round is two six-second segments: everyone acts once in initiative order,
// then combatants fast enough for extra attacks spend them in the same
// order. Experience pays out kill by kill, as each monster drops.
func (e *Engine) runRound(s *GameState, act *action) Result {
	enc := s.Encounter
	if act.kind == "flee" {
		return e.runFlee(s)
	}
	enc.Round++
	var lines []string

	for _, pc := range s.Party.Members {
		pc.Defending = false
	}
	for _, m := range enc.Monsters {
		if res := e.specials.StartOfRound(m); res != nil {
			lines = append(lines, res.Messages...)
		}
	}
	lines = append(lines, e.moralePhase(enc)...)

	combatants := make([]entity.Combatant, 0, len(s.Party.Members)+len(enc.Monsters))
	for _, pc := range s.Party.Alive() {
		combatants = append(combatants, pc)
	}
	for _, m := range enc.Living() {
		combatants = append(combatants, m)
	}
	order := e.combat.RollInitiative(combatants)

	// second holds the attacks each combatant carries into the round's
	// second segment.
	second := make(map[string][]entity.Attack)

	for _, entry := range order {
		if s.Party.Wiped() || len(enc.Living()) == 0 {
			break
		}
		c := entry.Combatant
		if !c.IsAlive() || c.Conditions().Incapacitated() {
			continue
		}
		switch actor := c.(type) {
		case *entity.PlayerCharacter:
			lines = append(lines, e.playerTurn(s, actor, act, second)...)
		case *entity.MonsterInstance:
			if actor.Fleeing || actor.Conditions().Has(entity.ConditionCharmed) {
				continue
			}
			lines = append(lines, e.monsterTurn(s, actor, second)...)
		}
		lines = append(lines, e.awardKills(s)...)
	}

	for _, entry := range order {
		if s.Party.Wiped() || len(enc.Living()) == 0 {
			break
		}
		c := entry.Combatant
		attacks := second[c.InstanceID()]
		if len(attacks) == 0 || !c.IsAlive() || c.Conditions().Incapacitated() {
			continue
		}
		switch actor := c.(type) {
		case *entity.PlayerCharacter:
			lines = append(lines, e.attackSequence(s, actor, nil, attacks)...)
		case *entity.MonsterInstance:
			if actor.Fleeing || actor.Conditions().Has(entity.ConditionCharmed) {
				continue
			}
			lines = append(lines, e.monsterAttacks(s, actor, attacks)...)
		}
		lines = append(lines, e.awardKills(s)...)
	}

	for _, pc := range s.Party.Members {
		for _, expired := range pc.Status.Tick() {
			lines = append(lines, fmt.Sprintf("%s is no longer %s.", pc.Name, expired))
		}
	}
	for _, m := range enc.Monsters {
		m.Status.Tick()
	}
	s.Clock++

	if s.Party.Wiped() {
		return e.wipe(s, lines)
	}
	if len(enc.Living()) == 0 {
		lines = append(lines, e.endEncounter(s)...)
	}
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// playerTurn resolves one member's first-segment action: the chosen one for
// the acting character, a plain attack for everyone else. Extra attacks
// from a high melee rate are banked for the second segment.
func (e *Engine) playerTurn(s *GameState, pc *entity.PlayerCharacter, act *action, second map[string][]entity.Attack) []string {
	if act.actor == pc && !act.done {
		act.done = true
		switch act.kind {
		case "defend":
			pc.Defending = true
			return []string{fmt.Sprintf("%s falls back behind a raised guard.", pc.Name)}
		case "wait":
			return []string{fmt.Sprintf("%s holds, watching for an opening.", pc.Name)}
		case "cast":
			return e.castInCombat(s, pc, act)
		case "turn":
			return e.turnInCombat(s, pc)
		case "hide":
			return e.hideInShadows(s, pc)
		case "use":
			return e.useItem(s, pc, act.item, act.ally)
		default:
			return e.memberMelee(s, pc, act.target, second)
		}
	}
	return e.memberMelee(s, pc, nil, second)
}

// memberMelee splits a member's round of attacks across the two segments
// and runs the first.
func (e *Engine) memberMelee(s *GameState, pc *entity.PlayerCharacter, preferred *entity.MonsterInstance, second map[string][]entity.Attack) []string {
	size := "M"
	if preferred != nil {
		size = preferred.Def().Size
	}
	seg1, seg2 := e.combat.SegmentRoutines(pc, size)
	if len(seg2) > 0 {
		second[pc.ID] = seg2
	}
	return e.attackSequence(s, pc, preferred, seg1)
}

// attackSequence runs a sequence of a member's attacks, retargeting as foes
// fall. A member striking from shadows backstabs with the first blow.
func (e *Engine) attackSequence(s *GameState, pc *entity.PlayerCharacter, preferred *entity.MonsterInstance, attacks []entity.Attack) []string {
	enc := s.Encounter
	target := preferred
	if target == nil || !target.IsAlive() || target.Fleeing {
		living := enc.Living()
		if len(living) == 0 {
			return nil
		}
		target = living[0]
	}

	backstab := enc.hidden[pc.ID]
	delete(enc.hidden, pc.ID)

	var lines []string
	for i, atk := range attacks {
		if !target.IsAlive() {
			living := enc.Living()
			if len(living) == 0 {
				break
			}
			target = living[0]
		}
		if backstab && i == 0 {
			atk.Multiplier = skill.BackstabMultiplier(pc.Level)
			atk.HitBonus += 4
			lines = append(lines, fmt.Sprintf("%s strikes from the shadows!", pc.Name))
		}
		res := e.combat.ResolveAttack(pc, target, atk)
		lines = append(lines, attackLine(res))
	}
	return lines
}

// hasActionSpecial reports whether the monster carries an available special
// it could use instead of attacking.
func hasActionSpecial(m *entity.MonsterInstance) bool {
	for i, sp := range m.Def().Specials {
		switch sp.Type {
		case "breath_weapon", "gaze":
			if m.SpecialAvailable(i) {
				return true
			}
		}
	}
	return false
}

// monsterTurn runs one monster's first-segment attacks, with a configured
// chance to use an action special instead. A monster with a victim in its
// coils spends the turn squeezing.
func (e *Engine) monsterTurn(s *GameState, m *entity.MonsterInstance, second map[string][]entity.Attack) []string {
	if res := e.specials.Squeeze(m, s.Party); res != nil {
		return res.Messages
	}
	if chance := int(e.cfg.SpecialAbilityChance * 100); chance > 0 && hasActionSpecial(m) && e.roll100() <= chance {
		if res, fired := e.specials.TakeAction(m, s.Party); fired {
			return res.Messages
		}
	}

	seg1, seg2 := e.combat.SegmentRoutines(m, "M")
	if len(seg2) > 0 {
		second[m.ID] = seg2
	}
	return e.monsterAttacks(s, m, seg1)
}

// monsterAttacks resolves a sequence of a monster's attacks, picking a
// victim for each.
func (e *Engine) monsterAttacks(s *GameState, m *entity.MonsterInstance, attacks []entity.Attack) []string {
	var lines []string
	for _, atk := range attacks {
		target := e.combat.ChooseTarget(m, s.Party)
		if target == nil {
			break
		}
		res := e.combat.ResolveAttack(m, target, atk)
		lines = append(lines, attackLine(res))
		if res.Hit && target.IsAlive() {
			for _, use := range e.specials.OnHit(m, target) {
				lines = append(lines, use.Messages...)
			}
		}
	}
	return lines
}

// moralePhase gives each monster its single morale check once its resolve
// comes into question.
func (e *Engine) moralePhase(enc *Encounter) []string {
	var lines []string
	halved := len(enc.Living())*2 <= enc.initial
	for _, m := range enc.Living() {
		if enc.checked[m.ID] {
			continue
		}
		if !combat.ShouldCheckMorale(m, halved) {
			continue
		}
		enc.checked[m.ID] = true
		if res := e.combat.CheckMorale(m); !res.Holds {
			lines = append(lines, fmt.Sprintf("%s loses heart and bolts into the dark!", m.Name))
		}
	}
	return lines
}

// runFlee retreats the party: every able monster gets one parting blow, then
// the party falls back the way it came.
func (e *Engine) runFlee(s *GameState) Result {
	enc := s.Encounter
	lines := []string{"The party turns and runs!"}

	for _, m := range enc.Living() {
		if m.Conditions().Incapacitated() || m.Conditions().Has(entity.ConditionCharmed) {
			continue
		}
		target := e.combat.ChooseTarget(m, s.Party)
		if target == nil {
			break
		}
		routine := m.AttackRoutine("M")
		if len(routine) == 0 {
			continue
		}
		res := e.combat.ResolveAttack(m, target, routine[0])
		lines = append(lines, attackLine(res))
		if res.Hit && target.IsAlive() {
			for _, use := range e.specials.OnHit(m, target) {
				lines = append(lines, use.Messages...)
			}
		}
	}

	if s.Party.Wiped() {
		return e.wipe(s, lines)
	}
	s.Encounter = nil
	s.RoomID = s.PrevRoom
	lines = append(lines, e.describeRoom(s))
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// awardKills pays out experience for monsters slain since the last check.
// Each kill divides among the living members on the spot; the integer
// remainder is lost to the dark.
func (e *Engine) awardKills(s *GameState) []string {
	enc := s.Encounter
	if enc == nil || s.Party.Wiped() {
		return nil
	}
	var lines []string
	for _, m := range enc.Monsters {
		if m.IsAlive() || enc.awarded[m.ID] {
			continue
		}
		enc.awarded[m.ID] = true
		if m.XP <= 0 {
			continue
		}
		ups, err := s.Party.SplitXP(e.roller, m.XP)
		if err != nil {
			e.logger.Warn("xp split failed", zap.Error(err))
			continue
		}
		lines = append(lines, fmt.Sprintf("The party earns %d experience for %s.", m.XP, m.Name))
		for _, pc := range s.Party.Members {
			for _, up := range ups[pc.Name] {
				lines = append(lines, fmt.Sprintf("%s reaches level %d! (+%d hp)", pc.Name, up.NewLevel, up.HPGained))
			}
		}
	}
	return lines
}

// endEncounter closes out a won battle: any experience not yet paid, boss
// gold, and whatever the dead were carrying.
func (e *Engine) endEncounter(s *GameState) []string {
	enc := s.Encounter
	var lines []string

	var best *entity.MonsterInstance
	for _, m := range enc.Monsters {
		if m.IsAlive() {
			continue
		}
		if best == nil || m.XP > best.XP {
			best = m
		}
	}
	if best == nil {
		lines = append(lines, "The enemies scatter into the dark.")
	} else {
		lines = append(lines, "The battle is won!")
	}
	lines = append(lines, e.awardKills(s)...)

	for _, spec := range enc.specs {
		if spec.Boss && spec.Gold > 0 {
			s.Party.AwardGold(spec.Gold)
			lines = append(lines, fmt.Sprintf("The hoard yields %d gold pieces.", spec.Gold))
		}
	}

	if best != nil && best.Def().TreasureType != "" {
		lines = append(lines, e.rollPocketTreasure(s, best.Def().TreasureType)...)
	}

	s.Encounter = nil
	return lines
}

// rollPocketTreasure rolls the individual carry of a defeated monster's
// treasure type. Hoard-scale coin rows (thousands multiplier) and the magic
// column are represented by authored room loot instead.
func (e *Engine) rollPocketTreasure(s *GameState, letter string) []string {
	tt, ok := e.rules.Treasure[letter]
	if !ok {
		return nil
	}
	var lines []string

	coins := []struct {
		entry *rules.CoinEntry
		// valueNum/valueDen convert the denomination to gold pieces.
		valueNum, valueDen int
		name               string
	}{
		{tt.Copper, 1, 200, "copper"},
		{tt.Silver, 1, 10, "silver"},
		{tt.Electrum, 1, 2, "electrum"},
		{tt.Gold, 1, 1, "gold"},
		{tt.Platinum, 5, 1, "platinum"},
	}
	for _, c := range coins {
		if c.entry == nil || c.entry.Multiplier > 1 {
			continue
		}
		if c.entry.Chance < 100 && e.roll100() > c.entry.Chance {
			continue
		}
		amount := e.rollCount(c.entry.Amount)
		gp := amount * c.valueNum / c.valueDen
		if gp < 1 {
			gp = 1
		}
		s.Party.AwardGold(gp)
		lines = append(lines, fmt.Sprintf("Among the dead: %d %s pieces (%d gold).", amount, c.name, gp))
	}

	lines = append(lines, e.rollValuables(s, tt.Gems, e.rules.Gems, "gem")...)
	lines = append(lines, e.rollValuables(s, tt.Jewelry, e.rules.Jewelry, "piece of jewelry")...)
	return lines
}

// rollValuables rolls a gems or jewelry column and drops the pieces on the
// room floor for the party to take.
func (e *Engine) rollValuables(s *GameState, entry *rules.CountEntry, rows []rules.ValueRow, what string) []string {
	if entry == nil {
		return nil
	}
	if entry.Chance < 100 && e.roll100() > entry.Chance {
		return nil
	}
	var lines []string
	count := e.rollCount(entry.Count)
	for i := 0; i < count; i++ {
		row := rules.ValueFor(rows, e.roll100())
		name := what
		if len(row.Names) > 0 {
			name = row.Names[e.roller.Source().Intn(len(row.Names))]
		}
		s.Room().Floor.Add(&item.Gear{
			Base:  item.Base{Name: name, Weight: 1},
			Type:  item.GearTreasure,
			Value: row.Value,
		})
		lines = append(lines, fmt.Sprintf("A %s worth %d gold lies among the remains.", name, row.Value))
	}
	return lines
}

// wipe ends the session: nobody is left standing.
func (e *Engine) wipe(s *GameState, lines []string) Result {
	s.Encounter = nil
	s.Active = false
	lines = append(lines, "The last of the party falls. The caves keep their dead.")
	e.logger.Info("party wiped", zap.String("room", s.RoomID), zap.Int("clock", s.Clock))
	return Result{Message: strings.Join(lines, "\n"), Terminal: true}
}

// attackLine narrates one resolved attack.
func attackLine(res combat.AttackResult) string {
	switch {
	case res.Fumble:
		return fmt.Sprintf("%s fumbles the attack on %s!", res.Attacker, res.Target)
	case !res.Hit:
		return fmt.Sprintf("%s misses %s (rolled %d, needed %d).", res.Attacker, res.Target, res.Roll, res.Needed)
	}
	line := fmt.Sprintf("%s hits %s for %d damage.", res.Attacker, res.Target, res.Damage)
	if res.Critical {
		line = fmt.Sprintf("%s strikes true! %s takes %d damage.", res.Attacker, res.Target, res.Damage)
	}
	if res.Slain {
		line += fmt.Sprintf(" %s falls!", res.Target)
	}
	return line
}
