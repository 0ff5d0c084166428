// Package engine drives the game loop. It parses player commands, routes
// them to handlers, advances the world clock, burns light sources, and runs
// encounters through the combat, magic, skill, trap, and ability resolvers.
//
// Every command returns a Result envelope. The engine never prints; the
// caller owns presentation.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/config"
	"github.com/tgibson/underdark/internal/game/ability"
	"github.com/tgibson/underdark/internal/game/combat"
	"github.com/tgibson/underdark/internal/game/command"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/magic"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/skill"
	"github.com/tgibson/underdark/internal/game/trap"
	"github.com/tgibson/underdark/internal/game/world"
	"github.com/tgibson/underdark/internal/storage"
)

// Result is the outcome of one executed command.
type Result struct {
	// Success is false when the command was refused or impossible; refused
	// commands cost no game time.
	Success bool
	Message string
	// Terminal marks the end of the session: quit, party wipe, or an
	// unplayable state.
	Terminal bool
}

// GameState is one running game: the party, the mutating dungeon, the clock,
// and the encounter in progress, if any.
type GameState struct {
	Party       *entity.Party
	Dungeon     *world.Dungeon
	DungeonName string
	RoomID      string
	// PrevRoom is where the party last stood, the direction a flee retreats.
	PrevRoom string
	// Clock counts elapsed world turns.
	Clock  int
	Active bool

	Encounter *Encounter
}

// Room returns the party's current room.
func (s *GameState) Room() *world.Room {
	r, _ := s.Dungeon.Room(s.RoomID)
	return r
}

// InCombat reports whether an encounter is underway.
func (s *GameState) InCombat() bool { return s.Encounter != nil }

// Engine executes commands against a GameState. All randomness flows through
// one shared roller so a seeded session replays identically.
type Engine struct {
	rules    *rules.Ctx
	cfg      config.GameConfig
	roller   *dice.Roller
	registry *command.Registry
	combat   *combat.Engine
	magic    *magic.Engine
	skills   *skill.Engine
	specials *ability.Engine
	traps    *trap.Engine
	store    storage.Store
	logger   *zap.Logger
}

// New creates an engine wiring every resolver to the shared dice stream.
//
// Precondition: all arguments must be non-nil.
func New(ctx *rules.Ctx, cfg config.GameConfig, roller *dice.Roller, store storage.Store, logger *zap.Logger) *Engine {
	cbt := combat.NewEngine(ctx, roller, logger)
	skills := skill.NewEngine(ctx, roller, logger)
	return &Engine{
		rules:    ctx,
		cfg:      cfg,
		roller:   roller,
		registry: command.DefaultRegistry(),
		combat:   cbt,
		magic:    magic.NewEngine(ctx, cbt, logger),
		skills:   skills,
		specials: ability.NewEngine(ctx, cbt, logger),
		traps:    trap.NewEngine(ctx, cbt, skills, logger),
		store:    store,
		logger:   logger,
	}
}

// NewGame starts a fresh game in the named dungeon with the party at the
// entrance.
func (e *Engine) NewGame(party *entity.Party, dungeonName string) (*GameState, error) {
	dungeon, err := world.LoadDungeon(dungeonName, e.rules)
	if err != nil {
		return nil, err
	}
	if entry := dungeon.Entry(); entry.Lit() {
		entry.Visited = true
	}
	s := &GameState{
		Party:       party,
		Dungeon:     dungeon,
		DungeonName: dungeonName,
		RoomID:      dungeon.EntryRoom,
		Active:      true,
	}
	e.logger.Info("new game",
		zap.String("dungeon", dungeon.Name),
		zap.Int("party_size", len(party.Members)))
	return s, nil
}

// LoadGame restores a saved game from the store and rebinds it.
func (e *Engine) LoadGame(name string) (*GameState, error) {
	save, err := e.store.Load(name)
	if err != nil {
		return nil, err
	}
	if err := save.Bind(e.rules); err != nil {
		return nil, fmt.Errorf("binding save %q: %w", name, err)
	}
	return &GameState{
		Party:       save.Party,
		Dungeon:     save.Dungeon,
		DungeonName: save.DungeonName,
		RoomID:      save.CurrentRoom,
		Clock:       save.Clock,
		Active:      true,
	}, nil
}

// Execute runs one command line against the state.
//
// Postcondition: Terminal results deactivate the state; further commands are
// refused.
func (e *Engine) Execute(s *GameState, line string) Result {
	if !s.Active {
		return Result{Message: "The adventure is over.", Terminal: true}
	}
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return Result{Message: "Speak up. Type help for commands."}
	}
	cmd, ok := e.registry.Resolve(parsed.Command)
	if !ok {
		return Result{Message: fmt.Sprintf("Nobody understands %q. Type help for commands.", parsed.Command)}
	}
	if s.InCombat() && !cmd.InCombat {
		return Result{Message: "There is no time for that with enemies upon you!"}
	}
	if !s.InCombat() && !cmd.OutOfCombat {
		return Result{Message: "There is no battle underway."}
	}

	e.logger.Debug("command",
		zap.String("command", cmd.Name),
		zap.Strings("args", parsed.Args),
		zap.Int("clock", s.Clock),
		zap.Bool("in_combat", s.InCombat()))

	res := e.dispatch(s, cmd, parsed)
	if res.Terminal {
		s.Active = false
	}
	return res
}

func (e *Engine) dispatch(s *GameState, cmd *command.Command, parsed command.ParseResult) Result {
	switch cmd.Handler {
	case command.HandlerMove:
		return e.handleMove(s, cmd.Name)
	case command.HandlerLook:
		return Result{Success: true, Message: e.describeRoom(s)}
	case command.HandlerSearch:
		return e.handleSearch(s)
	case command.HandlerDisarm:
		return e.handleDisarm(s)
	case command.HandlerListen:
		return e.handleListen(s)
	case command.HandlerOpen:
		return e.handleOpen(s, parsed)
	case command.HandlerTake:
		return e.handleTake(s, parsed)
	case command.HandlerDrop:
		return e.handleDrop(s, parsed)
	case command.HandlerUse:
		return e.handleUse(s, parsed)
	case command.HandlerEquip:
		return e.handleEquip(s, parsed)
	case command.HandlerUnequip:
		return e.handleUnequip(s, parsed)
	case command.HandlerRest:
		return e.handleRest(s)
	case command.HandlerAttack:
		return e.handleAttack(s, parsed)
	case command.HandlerDefend:
		return e.handleSimpleAction(s, "defend")
	case command.HandlerWait:
		return e.handleSimpleAction(s, "wait")
	case command.HandlerFlee:
		return e.handleFlee(s)
	case command.HandlerTurn:
		return e.handleTurn(s)
	case command.HandlerHide:
		return e.handleHide(s)
	case command.HandlerCast:
		return e.handleCast(s, parsed)
	case command.HandlerSpells:
		return e.handleSpells(s)
	case command.HandlerMemorize:
		return e.handleMemorize(s, parsed)
	case command.HandlerInventory:
		return e.handleInventory(s)
	case command.HandlerStatus:
		return e.handleStatus(s)
	case command.HandlerFormation:
		return e.handleFormation(s, parsed)
	case command.HandlerMap:
		return e.handleMap(s)
	case command.HandlerDirections:
		return e.handleDirections(s)
	case command.HandlerSave:
		return e.handleSave(s, parsed)
	case command.HandlerLoad:
		return e.handleLoad(s, parsed)
	case command.HandlerHelp:
		return e.handleHelp()
	case command.HandlerQuit:
		return Result{Success: true, Message: "The party withdraws to the surface. Farewell.", Terminal: true}
	default:
		return Result{Message: fmt.Sprintf("Command %q is not wired to a handler.", cmd.Name)}
	}
}

// tick advances the clock one turn and burns equipped light sources.
func (e *Engine) tick(s *GameState) []string {
	s.Clock++
	var notes []string
	for _, pc := range s.Party.Alive() {
		light := pc.Equipped.Light
		if light == nil || !light.IsLit() {
			continue
		}
		light.BurnTurns--
		if light.BurnTurns == 0 {
			notes = append(notes, fmt.Sprintf("%s's %s gutters out.", pc.Name, light.Name))
		}
	}
	return notes
}

// wanderingCheck rolls the per-turn wandering monster die and spawns an
// encounter from the level's table on a hit.
func (e *Engine) wanderingCheck(s *GameState) []string {
	if s.InCombat() || s.Dungeon.WanderingChance < 1 {
		return nil
	}
	if e.roll1d6() > s.Dungeon.WanderingChance {
		return nil
	}
	entry, ok := s.Dungeon.PickWandering(s.Dungeon.CurrentLevel().Number, e.roll100())
	if !ok {
		return nil
	}
	monsters := e.spawnGroup(entry.MonsterID, e.rollCount(entry.Count))
	if len(monsters) == 0 {
		return nil
	}
	s.Encounter = newEncounter(monsters, nil)
	e.logger.Info("wandering encounter",
		zap.String("monster", entry.MonsterID),
		zap.Int("count", len(monsters)))
	return []string{fmt.Sprintf("Out of the dark: %s!", foeSummary(monsters))}
}

// partyHasLight reports whether any living member holds a burning light.
func (e *Engine) partyHasLight(s *GameState) bool {
	for _, pc := range s.Party.Alive() {
		if pc.Equipped.Light != nil && pc.Equipped.Light.IsLit() {
			return true
		}
	}
	return false
}

func (e *Engine) partyDetects(s *GameState, tag string) bool {
	for _, pc := range s.Party.Alive() {
		for _, d := range pc.Race().DetectionAbilities {
			if d == tag {
				return true
			}
		}
	}
	return false
}

// describeRoom narrates the current room, or the darkness hiding it.
func (e *Engine) describeRoom(s *GameState) string {
	room := s.Room()
	if !room.Lit() && !e.partyHasLight(s) {
		return "Darkness presses in on every side. Without light the party sees nothing."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s", room.Name, room.Description)
	if room.Trap != nil && room.Trap.Found && room.Trap.Armed() {
		if def, ok := e.rules.Trap(room.Trap.DefID); ok {
			fmt.Fprintf(&b, "\nA %s has been spotted here, marked and avoided.", strings.ToLower(def.Name))
		}
	}
	if items := room.Floor.Items(); len(items) > 0 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.ItemName()
		}
		fmt.Fprintf(&b, "\nLying here: %s.", strings.Join(names, ", "))
	}
	if exits := room.KnownExits(); len(exits) > 0 {
		names := make([]string, len(exits))
		for i, d := range exits {
			names[i] = string(d)
		}
		fmt.Fprintf(&b, "\nExits: %s.", strings.Join(names, ", "))
	}
	if s.InCombat() {
		fmt.Fprintf(&b, "\nFacing you: %s.", foeSummary(s.Encounter.Living()))
	}
	return b.String()
}

func (e *Engine) roll1d6() int {
	return e.roller.Roll(dice.Expression{Raw: "1d6", Count: 1, Sides: 6}).Total()
}

func (e *Engine) roll100() int {
	return e.roller.Roll(dice.Expression{Raw: "1d100", Count: 1, Sides: 100}).Total()
}

// rollCount rolls a dice expression used as a quantity, flooring at 1.
func (e *Engine) rollCount(expr string) int {
	res, err := e.roller.RollExpr(expr)
	if err != nil {
		return 1
	}
	if n := res.Total(); n > 1 {
		return n
	}
	return 1
}

// firstAlive returns the leading living member.
func firstAlive(p *entity.Party) *entity.PlayerCharacter {
	alive := p.Alive()
	if len(alive) == 0 {
		return nil
	}
	return alive[0]
}

// parseOwned splits "member item" argument forms: when the first word names a
// party member, the rest is the item; otherwise the whole string is the item
// and the owner is resolved by searching packs.
func parseOwned(s *GameState, raw string) (*entity.PlayerCharacter, string) {
	fields := strings.Fields(raw)
	if len(fields) > 1 {
		if pc, ok := s.Party.Find(fields[0]); ok {
			return pc, strings.Join(fields[1:], " ")
		}
	}
	return nil, raw
}

// splitTarget splits "spell at target" and "item on target" argument forms.
func splitTarget(raw string) (subject, target string) {
	lower := strings.ToLower(raw)
	for _, sep := range []string{" at ", " on "} {
		if idx := strings.Index(lower, sep); idx >= 0 {
			return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+len(sep):])
		}
	}
	return strings.TrimSpace(raw), ""
}
