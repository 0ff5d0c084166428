package engine

import (
	"fmt"
	"strings"

	"github.com/tgibson/underdark/internal/game/command"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/magic"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/trap"
	"github.com/tgibson/underdark/internal/game/world"
)

func (e *Engine) handleMove(s *GameState, name string) Result {
	dir, ok := world.ParseDirection(name)
	if !ok {
		return Result{Message: fmt.Sprintf("%q is not a direction.", name)}
	}
	exit, err := s.Room().Exit(dir)
	if err != nil {
		return Result{Message: fmt.Sprintf("There is no way %s.", dir)}
	}
	if exit.Locked {
		return Result{Message: fmt.Sprintf("The way %s is locked fast.", dir)}
	}

	s.PrevRoom = s.RoomID
	s.RoomID = exit.To
	s.Dungeon.EnterRoom(exit.To)
	room := s.Room()
	// A room only counts as explored once the party can actually see it.
	if room.Lit() || e.partyHasLight(s) {
		room.Visited = true
	}

	lines := []string{e.describeRoom(s)}
	lines = append(lines, e.tick(s)...)

	if room.Trap != nil && room.Trap.Armed() && !room.Trap.Found {
		victim := firstAlive(s.Party)
		trigger, err := e.traps.Trigger(room.Trap, victim)
		if err == nil {
			lines = append(lines, trapLines(trigger)...)
			if s.Party.Wiped() {
				return e.wipe(s, lines)
			}
		}
	}

	if specs := room.PendingEncounters(); len(specs) > 0 {
		if msg := e.startRoomEncounter(s, specs); msg != "" {
			lines = append(lines, msg)
		}
	}
	if !s.InCombat() {
		lines = append(lines, e.wanderingCheck(s)...)
	}
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func trapLines(res trap.TriggerResult) []string {
	lines := []string{res.Message}
	if res.Save.Success && res.Damage == 0 {
		lines = append(lines, fmt.Sprintf("%s twists aside unharmed.", res.Victim))
		return lines
	}
	if res.Damage > 0 {
		lines = append(lines, fmt.Sprintf("%s takes %d damage.", res.Victim, res.Damage))
	}
	if res.Applied != "" {
		lines = append(lines, fmt.Sprintf("%s is %s.", res.Victim, res.Applied))
	}
	if res.Slain {
		lines = append(lines, fmt.Sprintf("%s falls dead.", res.Victim))
	}
	return lines
}

func (e *Engine) handleSearch(s *GameState) Result {
	room := s.Room()
	if !room.Lit() && !e.partyHasLight(s) {
		return Result{Message: "It is far too dark to search anything."}
	}
	room.Searched = true
	var lines []string

	secretChance := 1
	if e.partyDetects(s, "secret_doors") {
		secretChance = 2
	}
	for _, dir := range world.Directions {
		exit, ok := room.Exits[dir]
		if !ok || !exit.Hidden || exit.Found {
			continue
		}
		if e.roll1d6() <= secretChance {
			exit.Found = true
			lines = append(lines, fmt.Sprintf("A hidden passage is uncovered to the %s!", dir))
		}
	}

	if room.Trap != nil && room.Trap.Armed() && !room.Trap.Found {
		searcher := bestSearcher(s.Party)
		if found, err := e.traps.Search(searcher, room.Trap); err == nil && found.Found {
			lines = append(lines, fmt.Sprintf("%s spots a %s before anyone blunders into it.",
				searcher.Name, strings.ToLower(found.Trap)))
		}
	}

	if len(lines) == 0 {
		lines = append(lines, "The search turns up nothing of note.")
	}
	lines = append(lines, e.tick(s)...)
	lines = append(lines, e.wanderingCheck(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// bestSearcher prefers a thief's trained eye over the leader's.
func bestSearcher(p *entity.Party) *entity.PlayerCharacter {
	for _, pc := range p.Alive() {
		if pc.Class().HasThiefSkills {
			return pc
		}
	}
	return firstAlive(p)
}

func (e *Engine) handleDisarm(s *GameState) Result {
	room := s.Room()
	if room.Trap == nil || !room.Trap.Armed() {
		return Result{Message: "There is no trap here to disarm."}
	}
	if !room.Trap.Found {
		return Result{Message: "No trap has been found here. Search first."}
	}
	// A thief's trained hands go first; anyone can try on raw wits.
	worker := firstAlive(s.Party)
	for _, pc := range s.Party.Alive() {
		if pc.Class().HasThiefSkills {
			worker = pc
			break
		}
	}
	if worker == nil {
		return Result{Message: "Nobody is left standing to touch the mechanism."}
	}

	res, err := e.traps.Disarm(worker, room.Trap)
	if err != nil {
		return Result{Message: fmt.Sprintf("The attempt fails: %v", err)}
	}
	var lines []string
	switch {
	case res.Mastered:
		lines = append(lines, fmt.Sprintf("%s picks the %s apart without a wasted motion, and learns something doing it.",
			worker.Name, strings.ToLower(res.Trap)))
	case res.Disarmed:
		lines = append(lines, fmt.Sprintf("%s picks the %s apart. It is harmless now.", worker.Name, strings.ToLower(res.Trap)))
	case res.Triggered:
		lines = append(lines, fmt.Sprintf("%s's hand slips!", worker.Name))
		trigger, terr := e.traps.Trigger(room.Trap, worker)
		if terr == nil {
			lines = append(lines, trapLines(trigger)...)
			if s.Party.Wiped() {
				return e.wipe(s, lines)
			}
		}
	default:
		lines = append(lines, fmt.Sprintf("%s cannot quite work the mechanism loose.", worker.Name))
	}
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleListen(s *GameState) Result {
	listener := bestSearcher(s.Party)
	check, err := e.skills.Check(listener, rules.SkillHearNoise)
	if err != nil {
		return Result{Message: fmt.Sprintf("Listening fails: %v", err)}
	}

	var lines []string
	if check.Success {
		heard := false
		for _, dir := range s.Room().KnownExits() {
			exit := s.Room().Exits[dir]
			beyond, ok := s.Dungeon.Room(exit.To)
			if !ok {
				continue
			}
			if len(beyond.PendingEncounters()) > 0 {
				lines = append(lines, fmt.Sprintf("Something stirs beyond the %s passage.", dir))
				heard = true
			}
		}
		if !heard {
			if sounds := e.rules.Dressing["sounds"]; len(sounds) > 0 {
				lines = append(lines, fmt.Sprintf("%s hears only %s.", listener.Name,
					sounds[e.roller.Source().Intn(len(sounds))]))
			} else {
				lines = append(lines, fmt.Sprintf("%s hears nothing beyond the party's own breathing.", listener.Name))
			}
		}
	} else {
		lines = append(lines, fmt.Sprintf("%s presses an ear to the stone and hears nothing.", listener.Name))
	}
	lines = append(lines, e.tick(s)...)
	lines = append(lines, e.wanderingCheck(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleOpen(s *GameState, parsed command.ParseResult) Result {
	dir, ok := world.ParseDirection(parsed.RawArgs)
	if !ok {
		return Result{Message: "Open which way? Try: open north"}
	}
	exit, err := s.Room().Exit(dir)
	if err != nil {
		return Result{Message: fmt.Sprintf("There is no way %s.", dir)}
	}
	if !exit.Locked {
		return Result{Message: fmt.Sprintf("The way %s already stands open.", dir)}
	}

	var lines []string
	if exit.Key != "" {
		for _, pc := range s.Party.Alive() {
			if key, found := pc.Inventory.Find(exit.Key); found {
				exit.Locked = false
				lines = append(lines, fmt.Sprintf("%s turns the %s and the lock gives.", pc.Name, key.ItemName()))
				break
			}
		}
	}
	if exit.Locked {
		var thief *entity.PlayerCharacter
		for _, pc := range s.Party.Alive() {
			if pc.Class().HasThiefSkills {
				thief = pc
				break
			}
		}
		if thief == nil {
			return Result{Message: "The lock defeats every hand in the party."}
		}
		check, cerr := e.skills.Check(thief, rules.SkillOpenLocks)
		if cerr != nil {
			return Result{Message: fmt.Sprintf("The attempt fails: %v", cerr)}
		}
		if check.Success {
			exit.Locked = false
			lines = append(lines, fmt.Sprintf("%s teases the lock open.", thief.Name))
		} else {
			lines = append(lines, fmt.Sprintf("%s works the picks in vain. The lock holds.", thief.Name))
		}
	}
	lines = append(lines, e.tick(s)...)
	lines = append(lines, e.wanderingCheck(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleTake(s *GameState, parsed command.ParseResult) Result {
	room := s.Room()
	if !room.Lit() && !e.partyHasLight(s) {
		return Result{Message: "Groping blind in the dark finds nothing."}
	}
	carrier := firstAlive(s.Party)
	var lines []string

	if strings.EqualFold(parsed.RawArgs, "all") {
		for _, it := range room.Floor.Items() {
			if carrier.CarriedWeight()+it.ItemWeight() > carrier.CarryCapacity() {
				lines = append(lines, fmt.Sprintf("The %s is too heavy for %s to carry.", it.ItemName(), carrier.Name))
				continue
			}
			room.Floor.RemoveItem(it)
			carrier.Inventory.Add(it)
			lines = append(lines, fmt.Sprintf("%s takes the %s.", carrier.Name, it.ItemName()))
		}
		if len(lines) == 0 {
			return Result{Message: "There is nothing here worth taking."}
		}
	} else {
		if parsed.RawArgs == "" {
			return Result{Message: "Take what?"}
		}
		it, found := room.Floor.Find(parsed.RawArgs)
		if !found {
			return Result{Message: fmt.Sprintf("There is no %s here.", parsed.RawArgs)}
		}
		if carrier.CarriedWeight()+it.ItemWeight() > carrier.CarryCapacity() {
			return Result{Message: fmt.Sprintf("The %s is too heavy for %s to carry.", it.ItemName(), carrier.Name)}
		}
		room.Floor.RemoveItem(it)
		carrier.Inventory.Add(it)
		lines = append(lines, fmt.Sprintf("%s takes the %s.", carrier.Name, it.ItemName()))
	}
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleDrop(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Drop what?"}
	}
	owner, itemName := parseOwned(s, parsed.RawArgs)
	var dropped item.Item
	candidates := s.Party.Alive()
	if owner != nil {
		candidates = []*entity.PlayerCharacter{owner}
	}
	for _, pc := range candidates {
		it, err := pc.Inventory.Remove(itemName)
		if err != nil {
			continue
		}
		clearEquipped(pc, it)
		dropped = it
		owner = pc
		break
	}
	if dropped == nil {
		return Result{Message: fmt.Sprintf("Nobody carries a %s.", itemName)}
	}
	s.Room().Floor.Add(dropped)
	lines := []string{fmt.Sprintf("%s sets the %s down.", owner.Name, dropped.ItemName())}
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// clearEquipped empties any equipment slot referencing the item.
func clearEquipped(pc *entity.PlayerCharacter, it item.Item) {
	switch v := it.(type) {
	case *item.Weapon:
		if pc.Equipped.Weapon == v {
			pc.Equipped.Weapon = nil
		}
	case *item.Armor:
		if pc.Equipped.Armor == v {
			pc.Equipped.Armor = nil
		}
	case *item.Shield:
		if pc.Equipped.Shield == v {
			pc.Equipped.Shield = nil
		}
	case *item.LightSource:
		if pc.Equipped.Light == v {
			pc.Equipped.Light = nil
		}
	}
}

// handleUse resolves "use [member] <item> [on <ally>]" in both contexts. In
// battle, using an item is the member's action for the round.
func (e *Engine) handleUse(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Use what? Try: use torch"}
	}
	raw, targetName := splitTarget(parsed.RawArgs)
	owner, itemName := parseOwned(s, raw)
	if owner == nil {
		for _, pc := range s.Party.Alive() {
			if _, found := pc.Inventory.Find(itemName); found {
				owner = pc
				break
			}
		}
	}
	if owner == nil {
		return Result{Message: fmt.Sprintf("Nobody carries a %s.", itemName)}
	}
	it, found := owner.Inventory.Find(itemName)
	if !found {
		return Result{Message: fmt.Sprintf("%s carries no %s.", owner.Name, itemName)}
	}

	var ally *entity.PlayerCharacter
	if targetName != "" {
		pc, ok := s.Party.Find(targetName)
		if !ok {
			return Result{Message: fmt.Sprintf("Nobody here answers to %q.", targetName)}
		}
		ally = pc
	}

	if s.InCombat() {
		return e.runRound(s, &action{kind: "use", actor: owner, item: it, ally: ally})
	}
	lines := e.useItem(s, owner, it, ally)
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

// useItem applies an item's effect for its owner.
func (e *Engine) useItem(s *GameState, owner *entity.PlayerCharacter, it item.Item, ally *entity.PlayerCharacter) []string {
	switch v := it.(type) {
	case *item.LightSource:
		if !v.IsLit() {
			return []string{fmt.Sprintf("The %s is burnt down to nothing.", v.Name)}
		}
		owner.Equipped.Light = v
		return []string{fmt.Sprintf("%s raises a burning %s. Shadows scatter.", owner.Name, v.Name)}

	case *item.Potion:
		target := ally
		if target == nil {
			target = owner
		}
		switch v.Effect {
		case "healing":
			healed := target.Heal(e.rollCount(v.Power))
			owner.Inventory.RemoveItem(v)
			return []string{fmt.Sprintf("%s drinks the %s and %d hit points return.", target.Name, v.Name, healed)}
		default:
			owner.Inventory.RemoveItem(v)
			return []string{fmt.Sprintf("%s drains the %s. Nothing obvious happens.", target.Name, v.Name)}
		}

	case *item.Scroll:
		if v.Type != item.ScrollSpell {
			return []string{fmt.Sprintf("The %s wards against harm simply by being carried.", v.Name)}
		}
		res, err := e.castStoredFor(s, owner, v.Payload, v.Name, ally)
		if err != nil {
			return []string{fmt.Sprintf("The script defies %s: %v", owner.Name, err)}
		}
		owner.Inventory.RemoveItem(v)
		lines := []string{fmt.Sprintf("%s reads the %s aloud; the letters burn away.", owner.Name, v.Name)}
		return append(lines, res.Messages...)

	case *item.Wand:
		if v.Charges <= 0 {
			return []string{fmt.Sprintf("The %s is spent.", v.Name)}
		}
		res, err := e.castStoredFor(s, owner, v.Effect, v.Name, ally)
		if err != nil {
			return []string{fmt.Sprintf("The %s sputters: %v", v.Name, err)}
		}
		v.Charges--
		lines := []string{fmt.Sprintf("%s levels the %s.", owner.Name, v.Name)}
		return append(lines, res.Messages...)

	case *item.Staff:
		if v.Charges <= 0 {
			return []string{fmt.Sprintf("The %s is spent.", v.Name)}
		}
		res, err := e.castStoredFor(s, owner, v.Effect, v.Name, ally)
		if err != nil {
			return []string{fmt.Sprintf("The %s sputters: %v", v.Name, err)}
		}
		v.Charges--
		lines := []string{fmt.Sprintf("%s strikes the %s against the stone.", owner.Name, v.Name)}
		return append(lines, res.Messages...)

	case *item.Gear:
		if v.Type == item.GearConsumable {
			owner.Inventory.RemoveItem(v)
			return []string{fmt.Sprintf("%s makes use of the %s.", owner.Name, v.Name)}
		}
		return []string{fmt.Sprintf("The %s has no obvious use here.", v.Name)}

	default:
		return []string{"Nothing happens."}
	}
}

// castStoredFor resolves an item-stored spell effect against the current
// battlefield, or the room when no fight is underway.
func (e *Engine) castStoredFor(s *GameState, owner *entity.PlayerCharacter, effect, display string, ally *entity.PlayerCharacter) (*magic.CastResult, error) {
	cctx := &magic.CastContext{
		Caster: owner,
		Party:  s.Party,
		Ally:   ally,
		Floor:  &s.Room().Floor,
	}
	if s.InCombat() {
		cctx.Enemies = s.Encounter.Living()
	}
	return e.magic.CastStored(effect, display, cctx)
}
