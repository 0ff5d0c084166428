package world

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/tgibson/underdark/internal/game/rules"
)

//go:embed data/*.json
var dataFS embed.FS

// WanderingEntry is one weighted row of a level's wandering monster table.
type WanderingEntry struct {
	MonsterID string `json:"monster"`
	// Count is a dice expression for group size.
	Count  string `json:"count"`
	Weight int    `json:"weight"`
}

// Level is one floor of the dungeon: its rooms and its wandering table.
type Level struct {
	// Number is the depth, 1 at the entrance; deeper is more dangerous.
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
	Rooms  map[string]*Room `json:"rooms"`
	// Wandering is the level's wandering monster table.
	Wandering []WanderingEntry `json:"wandering,omitempty"`
}

// Dungeon is the full map: ordered levels plus a pointer to the level the
// party currently occupies. Room IDs are unique across levels; stairs are
// ordinary up/down exits, and moving through one moves the pointer.
type Dungeon struct {
	Name      string   `json:"name"`
	EntryRoom string   `json:"entry_room"`
	Levels    []*Level `json:"levels"`
	// Current indexes Levels at the party's position.
	Current int `json:"current"`
	// WanderingChance is the d6 ceiling checked each turn of exploration.
	WanderingChance int `json:"wandering_chance"`
}

// LoadDungeon reads the named embedded dungeon and validates it against the
// rules tables.
func LoadDungeon(name string, ctx *rules.Ctx) (*Dungeon, error) {
	content, err := dataFS.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading dungeon %s: %w", name, err)
	}
	var d Dungeon
	if err := json.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("parsing dungeon %s: %w", name, err)
	}
	for _, lvl := range d.Levels {
		for id, room := range lvl.Rooms {
			room.ID = id
		}
	}
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}

// Room returns the room with the given ID, searching every level.
func (d *Dungeon) Room(id string) (*Room, bool) {
	for _, lvl := range d.Levels {
		if r, ok := lvl.Rooms[id]; ok {
			return r, true
		}
	}
	return nil, false
}

// CurrentLevel returns the level the party occupies.
func (d *Dungeon) CurrentLevel() *Level {
	if d.Current < 0 || d.Current >= len(d.Levels) {
		return d.Levels[0]
	}
	return d.Levels[d.Current]
}

// EnterRoom moves the current-level pointer to the level holding the room.
func (d *Dungeon) EnterRoom(id string) {
	for i, lvl := range d.Levels {
		if _, ok := lvl.Rooms[id]; ok {
			d.Current = i
			return
		}
	}
}

// Entry returns the entrance room.
func (d *Dungeon) Entry() *Room {
	r, _ := d.Room(d.EntryRoom)
	return r
}

// Validate checks the map for authoring errors: dangling exits (cross-level
// exits are fine), a missing entry room, bad light values, and references to
// monsters or traps the rules tables do not define.
func (d *Dungeon) Validate(ctx *rules.Ctx) error {
	var violations []string
	if len(d.Levels) == 0 {
		return fmt.Errorf("dungeon %q: no levels", d.Name)
	}
	if _, ok := d.Room(d.EntryRoom); !ok {
		violations = append(violations, fmt.Sprintf("entry room %q does not exist", d.EntryRoom))
	}
	for _, lvl := range d.Levels {
		if lvl.Number < 1 {
			violations = append(violations, fmt.Sprintf("level %q has invalid number %d", lvl.Name, lvl.Number))
		}
		for id, room := range lvl.Rooms {
			for dir, exit := range room.Exits {
				if _, ok := d.Room(exit.To); !ok {
					violations = append(violations, fmt.Sprintf("room %q exit %s leads to missing room %q", id, dir, exit.To))
				}
			}
			for _, spec := range room.Encounters {
				if _, ok := ctx.Monster(spec.MonsterID); !ok {
					violations = append(violations, fmt.Sprintf("room %q references unknown monster %q", id, spec.MonsterID))
				}
			}
			if room.Trap != nil {
				if _, ok := ctx.Traps[room.Trap.DefID]; !ok {
					violations = append(violations, fmt.Sprintf("room %q references unknown trap %q", id, room.Trap.DefID))
				}
			}
			switch room.Light {
			case "", LightBright, LightDim, LightDark:
			default:
				violations = append(violations, fmt.Sprintf("room %q has unknown light %q", id, room.Light))
			}
		}
		for _, e := range lvl.Wandering {
			if _, ok := ctx.Monster(e.MonsterID); !ok {
				violations = append(violations, fmt.Sprintf("wandering table %d references unknown monster %q", lvl.Number, e.MonsterID))
			}
			if e.Weight < 1 {
				violations = append(violations, fmt.Sprintf("wandering table %d entry %q has weight %d", lvl.Number, e.MonsterID, e.Weight))
			}
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("dungeon %q: %v", d.Name, violations)
	}
	return nil
}

// WanderingFor returns the wandering table for a dungeon depth.
func (d *Dungeon) WanderingFor(number int) []WanderingEntry {
	for _, lvl := range d.Levels {
		if lvl.Number == number {
			return lvl.Wandering
		}
	}
	return nil
}

// PickWandering selects an entry from a level's wandering table by weight,
// using roll in [0, total weight). Returns false for levels with no table.
func (d *Dungeon) PickWandering(number, roll int) (WanderingEntry, bool) {
	entries := d.WanderingFor(number)
	if len(entries) == 0 {
		return WanderingEntry{}, false
	}
	total := 0
	for _, e := range entries {
		total += e.Weight
	}
	roll = roll % total
	for _, e := range entries {
		roll -= e.Weight
		if roll < 0 {
			return e, true
		}
	}
	return entries[len(entries)-1], true
}
