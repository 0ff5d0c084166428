package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tgibson/underdark/internal/game/command"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/spell"
	"github.com/tgibson/underdark/internal/storage"
)

func (e *Engine) handleEquip(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Equip what? Try: equip Aldric long sword"}
	}
	owner, itemName := parseOwned(s, parsed.RawArgs)
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

	class := owner.Class()
	var line string
	switch v := it.(type) {
	case *item.Weapon:
		if !class.AllowsWeapon(v.Name) {
			return Result{Message: fmt.Sprintf("A %s may not wield a %s.", class.Name, v.Name)}
		}
		owner.Equipped.Weapon = v
		line = fmt.Sprintf("%s readies the %s.", owner.Name, v.Name)
	case *item.Armor:
		if !class.AllowsArmor(v.Name) && !class.AllowsArmor(string(v.WeightClass)) {
			return Result{Message: fmt.Sprintf("A %s may not wear %s.", class.Name, v.Name)}
		}
		owner.Equipped.Armor = v
		line = fmt.Sprintf("%s straps on the %s (AC %d).", owner.Name, v.Name, owner.ArmorClass())
	case *item.Shield:
		if !class.AllowsArmor("shield") {
			return Result{Message: fmt.Sprintf("A %s may not bear a shield.", class.Name)}
		}
		owner.Equipped.Shield = v
		line = fmt.Sprintf("%s takes up the %s.", owner.Name, v.Name)
	case *item.LightSource:
		if !v.IsLit() {
			return Result{Message: fmt.Sprintf("The %s is burnt down to nothing.", v.Name)}
		}
		owner.Equipped.Light = v
		line = fmt.Sprintf("%s holds the %s aloft.", owner.Name, v.Name)
	default:
		return Result{Message: fmt.Sprintf("The %s cannot be readied.", it.ItemName())}
	}

	lines := append([]string{line}, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleUnequip(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Unequip what?"}
	}
	owner, itemName := parseOwned(s, parsed.RawArgs)
	candidates := s.Party.Alive()
	if owner != nil {
		candidates = []*entity.PlayerCharacter{owner}
	}
	for _, pc := range candidates {
		it, found := pc.Inventory.Find(itemName)
		if !found {
			continue
		}
		eq := &pc.Equipped
		switch {
		case eq.Weapon != nil && item.Item(eq.Weapon) == it:
			eq.Weapon = nil
		case eq.Armor != nil && item.Item(eq.Armor) == it:
			eq.Armor = nil
		case eq.Shield != nil && item.Item(eq.Shield) == it:
			eq.Shield = nil
		case eq.Light != nil && item.Item(eq.Light) == it:
			eq.Light = nil
		default:
			continue
		}
		return Result{Success: true, Message: fmt.Sprintf("%s stows the %s.", pc.Name, it.ItemName())}
	}
	return Result{Message: fmt.Sprintf("Nobody has a %s readied.", itemName)}
}

func (e *Engine) handleInventory(s *GameState) Result {
	var b strings.Builder
	for i, pc := range s.Party.Members {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d/%d weight, %d gold)", pc.Name, pc.CarriedWeight(), pc.CarryCapacity(), pc.Gold)
		for _, it := range pc.Inventory.Items() {
			note := ""
			if isEquipped(pc, it) {
				note = " (equipped)"
			}
			fmt.Fprintf(&b, "\n  %s%s", it.ItemName(), note)
		}
	}
	return Result{Success: true, Message: b.String()}
}

func isEquipped(pc *entity.PlayerCharacter, it item.Item) bool {
	eq := pc.Equipped
	return (eq.Weapon != nil && item.Item(eq.Weapon) == it) ||
		(eq.Armor != nil && item.Item(eq.Armor) == it) ||
		(eq.Shield != nil && item.Item(eq.Shield) == it) ||
		(eq.Light != nil && item.Item(eq.Light) == it)
}

func (e *Engine) handleStatus(s *GameState) Result {
	var b strings.Builder
	for i, pc := range s.Party.Members {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s, %s %s %d: %d/%d hp (%s), AC %d, %s row",
			pc.Name, pc.Race().Name, pc.Class().Name, pc.Level,
			pc.HP, pc.HPMax, pc.HealthBand(), pc.ArmorClass(), pc.Row)
		if names := pc.Status.Names(); len(names) > 0 {
			conds := make([]string, len(names))
			for j, c := range names {
				conds[j] = string(c)
			}
			fmt.Fprintf(&b, " [%s]", strings.Join(conds, ", "))
		}
	}
	if s.InCombat() {
		for _, m := range s.Encounter.Living() {
			fmt.Fprintf(&b, "\n%s looks %s.", m.Name, m.HealthBand())
		}
	}
	return Result{Success: true, Message: b.String()}
}

func (e *Engine) handleSpells(s *GameState) Result {
	var lines []string
	for _, pc := range s.Party.Members {
		if !pc.IsCaster() {
			continue
		}
		names := pc.Book.MemorizedNames()
		if len(names) == 0 {
			lines = append(lines, fmt.Sprintf("%s holds no spells in mind.", pc.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s has memorized: %s.", pc.Name, strings.Join(names, ", ")))
	}
	if len(lines) == 0 {
		return Result{Message: "No one in the party works magic."}
	}
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleMemorize(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		return Result{Message: "Memorize what? Try: memorize cure light wounds"}
	}
	owner, spellName := parseOwned(s, parsed.RawArgs)
	candidates := s.Party.Alive()
	if owner != nil {
		candidates = []*entity.PlayerCharacter{owner}
	}
	var caster *entity.PlayerCharacter
	for _, pc := range candidates {
		if _, known := pc.Book.Knows(spellName); known {
			caster = pc
			break
		}
	}
	if caster == nil {
		return Result{Message: fmt.Sprintf("No one knows a spell called %s.", spellName)}
	}

	sp, err := caster.Book.Memorize(spellName)
	if err != nil {
		if errors.Is(err, spell.ErrNoSlots) {
			return Result{Message: fmt.Sprintf("%s has no open slot for %s.", caster.Name, spellName)}
		}
		return Result{Message: fmt.Sprintf("Memorization fails: %v", err)}
	}
	lines := []string{fmt.Sprintf("%s commits %s to memory.", caster.Name, sp.Name)}
	lines = append(lines, e.tick(s)...)
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleFormation(s *GameState, parsed command.ParseResult) Result {
	if parsed.RawArgs == "" {
		var lines []string
		for _, pc := range s.Party.Members {
			lines = append(lines, fmt.Sprintf("%s marches in the %s row.", pc.Name, pc.Row))
		}
		return Result{Success: true, Message: strings.Join(lines, "\n")}
	}
	fields := strings.Fields(parsed.RawArgs)
	if len(fields) < 2 {
		return Result{Message: "Set formation how? Try: formation Whisper back"}
	}
	pc, ok := s.Party.Find(fields[0])
	if !ok {
		return Result{Message: fmt.Sprintf("Nobody here answers to %q.", fields[0])}
	}
	switch strings.ToLower(fields[1]) {
	case "front":
		pc.Row = entity.RowFront
	case "back":
		pc.Row = entity.RowBack
	default:
		return Result{Message: "A member stands in the front row or the back row."}
	}
	s.Party.RepairFormation()
	return Result{Success: true, Message: fmt.Sprintf("%s moves to the %s row.", pc.Name, pc.Row)}
}

func (e *Engine) handleMap(s *GameState) Result {
	var b strings.Builder
	first := true
	for _, lvl := range s.Dungeon.Levels {
		var names []string
		for _, room := range lvl.Rooms {
			if room.Visited {
				names = append(names, room.Name)
			}
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		if !first {
			b.WriteString("\n")
		}
		first = false
		fmt.Fprintf(&b, "Level %d: %s", lvl.Number, strings.Join(names, ", "))
	}
	if b.Len() == 0 {
		return Result{Success: true, Message: "The party has mapped nothing yet."}
	}
	return Result{Success: true, Message: b.String()}
}

func (e *Engine) handleDirections(s *GameState) Result {
	room := s.Room()
	exits := room.KnownExits()
	if len(exits) == 0 {
		return Result{Success: true, Message: "No way out presents itself."}
	}
	var lines []string
	for _, dir := range exits {
		line := string(dir)
		if room.Exits[dir].Locked {
			line += " (locked)"
		}
		lines = append(lines, line)
	}
	return Result{Success: true, Message: "Ways out: " + strings.Join(lines, ", ") + "."}
}

// restTurns is a full night in world turns.
const restTurns = 48

func (e *Engine) handleRest(s *GameState) Result {
	room := s.Room()
	if !room.SafeRest {
		return Result{Message: "This is no place to sleep. The party needs safer ground."}
	}
	if len(room.PendingEncounters()) > 0 {
		return Result{Message: "Monsters lair here. Nobody could sleep a wink."}
	}
	s.Clock += restTurns

	lines := []string{"The party makes camp and sleeps out the night."}
	for _, pc := range s.Party.Alive() {
		if healed := pc.Heal(1); healed > 0 {
			lines = append(lines, fmt.Sprintf("%s recovers %d hit point.", pc.Name, healed))
		}
		pc.Book.RestoreAll()
		for i := 0; i < restTurns; i++ {
			for _, expired := range pc.Status.Tick() {
				lines = append(lines, fmt.Sprintf("%s is no longer %s.", pc.Name, expired))
			}
		}
	}

	if notes := e.wanderingCheck(s); len(notes) > 0 {
		lines = append(lines, "The rest is cut short!")
		lines = append(lines, notes...)
	}
	return Result{Success: true, Message: strings.Join(lines, "\n")}
}

func (e *Engine) handleSave(s *GameState, parsed command.ParseResult) Result {
	name := parsed.RawArgs
	if name == "" {
		name = "quicksave"
	}
	save := &storage.SaveGame{
		DungeonName: s.DungeonName,
		Party:       s.Party,
		Dungeon:     s.Dungeon,
		CurrentRoom: s.RoomID,
		Clock:       s.Clock,
	}
	if err := e.store.Save(name, save); err != nil {
		return Result{Message: fmt.Sprintf("The save fails: %v", err)}
	}
	return Result{Success: true, Message: fmt.Sprintf("Game saved as %q.", name)}
}

func (e *Engine) handleLoad(s *GameState, parsed command.ParseResult) Result {
	name := parsed.RawArgs
	if name == "" {
		name = "quicksave"
	}
	loaded, err := e.LoadGame(name)
	if err != nil {
		if errors.Is(err, storage.ErrNoSave) {
			return Result{Message: fmt.Sprintf("There is no save called %q.", name)}
		}
		return Result{Message: fmt.Sprintf("The load fails: %v", err)}
	}
	*s = *loaded
	return Result{Success: true, Message: fmt.Sprintf("Game %q restored.\n%s", name, e.describeRoom(s))}
}

// helpOrder fixes the category listing order for the help screen.
var helpOrder = []string{
	command.CategoryMovement,
	command.CategoryWorld,
	command.CategoryCombat,
	command.CategoryMagic,
	command.CategoryParty,
	command.CategorySystem,
}

func (e *Engine) handleHelp() Result {
	cats := e.registry.CommandsByCategory()
	var b strings.Builder
	for i, cat := range helpOrder {
		cmds := cats[cat]
		if len(cmds) == 0 {
			continue
		}
		sort.Slice(cmds, func(x, y int) bool { return cmds[x].Name < cmds[y].Name })
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(cat[:1])+cat[1:])
		for _, cmd := range cmds {
			name := cmd.Name
			if len(cmd.Aliases) > 0 {
				name = fmt.Sprintf("%s (%s)", cmd.Name, strings.Join(cmd.Aliases, ", "))
			}
			fmt.Fprintf(&b, "  %-24s %s\n", name, cmd.Help)
		}
	}
	return Result{Success: true, Message: strings.TrimRight(b.String(), "\n")}
}
