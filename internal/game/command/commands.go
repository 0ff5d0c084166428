// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategoryCombat   = "combat"
	CategoryMagic    = "magic"
	CategoryParty    = "party"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to engine handlers.
const (
	HandlerMove       = "move"
	HandlerLook       = "look"
	HandlerSearch     = "search"
	HandlerDisarm     = "disarm"
	HandlerListen     = "listen"
	HandlerOpen       = "open"
	HandlerTake       = "take"
	HandlerDrop       = "drop"
	HandlerUse        = "use"
	HandlerEquip      = "equip"
	HandlerUnequip    = "unequip"
	HandlerAttack     = "attack"
	HandlerDefend     = "defend"
	HandlerWait       = "wait"
	HandlerCast       = "cast"
	HandlerTurn       = "turn"
	HandlerHide       = "hide"
	HandlerFlee       = "flee"
	HandlerRest       = "rest"
	HandlerInventory  = "inventory"
	HandlerStatus     = "status"
	HandlerSpells     = "spells"
	HandlerMemorize   = "memorize"
	HandlerMap        = "map"
	HandlerDirections = "directions"
	HandlerFormation  = "formation"
	HandlerSave       = "save"
	HandlerLoad       = "load"
	HandlerHelp       = "help"
	HandlerQuit       = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for the help listing.
	Category string
	// Handler maps to the engine handler that resolves the command.
	Handler string
	// InCombat permits the command while a fight is underway.
	InCombat bool
	// OutOfCombat permits the command while exploring.
	OutOfCombat bool
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},
		{Name: "up", Aliases: []string{"u"}, Help: "Climb stairs or slopes up", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},
		{Name: "down", Aliases: []string{"d"}, Help: "Climb stairs or slopes down", Category: CategoryMovement, Handler: HandlerMove, OutOfCombat: true},

		// World
		{Name: "look", Aliases: []string{"l"}, Help: "Describe the current room", Category: CategoryWorld, Handler: HandlerLook, InCombat: true, OutOfCombat: true},
		{Name: "search", Aliases: nil, Help: "Search the room for hidden doors and traps", Category: CategoryWorld, Handler: HandlerSearch, OutOfCombat: true},
		{Name: "disarm", Aliases: nil, Help: "Disarm a trap the party has found", Category: CategoryWorld, Handler: HandlerDisarm, OutOfCombat: true},
		{Name: "listen", Aliases: nil, Help: "Listen at the nearest door", Category: CategoryWorld, Handler: HandlerListen, OutOfCombat: true},
		{Name: "open", Aliases: nil, Help: "Open a locked exit (open <direction>)", Category: CategoryWorld, Handler: HandlerOpen, OutOfCombat: true},
		{Name: "take", Aliases: []string{"get"}, Help: "Pick up an item, or everything (take all)", Category: CategoryWorld, Handler: HandlerTake, OutOfCombat: true},
		{Name: "drop", Aliases: nil, Help: "Drop an item (drop <member> <item>)", Category: CategoryWorld, Handler: HandlerDrop, OutOfCombat: true},
		{Name: "use", Aliases: nil, Help: "Use an item (use <member> <item>)", Category: CategoryWorld, Handler: HandlerUse, InCombat: true, OutOfCombat: true},
		{Name: "equip", Aliases: []string{"wield", "wear"}, Help: "Ready a weapon, armor, shield, or light (equip <member> <item>)", Category: CategoryWorld, Handler: HandlerEquip, OutOfCombat: true},
		{Name: "unequip", Aliases: []string{"remove"}, Help: "Stow an equipped item (unequip <member> <item>)", Category: CategoryWorld, Handler: HandlerUnequip, OutOfCombat: true},
		{Name: "rest", Aliases: []string{"camp"}, Help: "Rest a full night: heal and re-memorize spells", Category: CategoryWorld, Handler: HandlerRest, OutOfCombat: true},

		// Combat
		{Name: "attack", Aliases: []string{"att", "kill"}, Help: "Fight a round (attack [target])", Category: CategoryCombat, Handler: HandlerAttack, InCombat: true, OutOfCombat: true},
		{Name: "defend", Aliases: nil, Help: "Fight defensively for a round (-2 AC)", Category: CategoryCombat, Handler: HandlerDefend, InCombat: true},
		{Name: "wait", Aliases: nil, Help: "Hold your action for a round", Category: CategoryCombat, Handler: HandlerWait, InCombat: true},
		{Name: "flee", Aliases: []string{"run"}, Help: "Retreat the way you came", Category: CategoryCombat, Handler: HandlerFlee, InCombat: true},
		{Name: "turn", Aliases: nil, Help: "Present a holy symbol against the undead", Category: CategoryCombat, Handler: HandlerTurn, InCombat: true},
		{Name: "hide", Aliases: nil, Help: "Slip into the shadows for a backstab", Category: CategoryCombat, Handler: HandlerHide, InCombat: true},

		// Magic
		{Name: "cast", Aliases: nil, Help: "Cast a memorized spell (cast <spell> [target])", Category: CategoryMagic, Handler: HandlerCast, InCombat: true, OutOfCombat: true},
		{Name: "spells", Aliases: nil, Help: "List memorized spells", Category: CategoryMagic, Handler: HandlerSpells, InCombat: true, OutOfCombat: true},
		{Name: "memorize", Aliases: []string{"mem"}, Help: "Memorize a known spell into an open slot", Category: CategoryMagic, Handler: HandlerMemorize, OutOfCombat: true},

		// Party
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show what the party carries", Category: CategoryParty, Handler: HandlerInventory, InCombat: true, OutOfCombat: true},
		{Name: "status", Aliases: []string{"stats"}, Help: "Show the party's condition", Category: CategoryParty, Handler: HandlerStatus, InCombat: true, OutOfCombat: true},
		{Name: "formation", Aliases: []string{"form"}, Help: "Show or set marching order (formation <member> front|back)", Category: CategoryParty, Handler: HandlerFormation, OutOfCombat: true},

		// System
		{Name: "map", Aliases: nil, Help: "List the rooms explored so far", Category: CategorySystem, Handler: HandlerMap, InCombat: true, OutOfCombat: true},
		{Name: "directions", Aliases: []string{"exits"}, Help: "List the visible exits", Category: CategorySystem, Handler: HandlerDirections, InCombat: true, OutOfCombat: true},
		{Name: "save", Aliases: nil, Help: "Save the game (save [name])", Category: CategorySystem, Handler: HandlerSave, OutOfCombat: true},
		{Name: "load", Aliases: nil, Help: "Load a saved game (load [name])", Category: CategorySystem, Handler: HandlerLoad, OutOfCombat: true},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp, InCombat: true, OutOfCombat: true},
		{Name: "quit", Aliases: []string{"exit"}, Help: "End the session", Category: CategorySystem, Handler: HandlerQuit, InCombat: true, OutOfCombat: true},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west", "up", "down":
		return true
	default:
		return false
	}
}
