// Package world models the dungeon: rooms connected by exits across levels,
// floor loot, traps, and the encounter groups seeded into rooms. The dungeon
// is authored as JSON and mutates in place as the party explores it, so the
// whole structure serializes into the save file.
package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tgibson/underdark/internal/game/item"
)

// ErrNoExit is returned when a room has no exit in the requested direction.
var ErrNoExit = errors.New("no exit that way")

// Direction is a cardinal or vertical movement direction.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists all directions in display order.
var Directions = []Direction{North, South, East, West, Up, Down}

// ParseDirection resolves a direction name or single-letter abbreviation.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "s", "south":
		return South, true
	case "e", "east":
		return East, true
	case "w", "west":
		return West, true
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	}
	return "", false
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	default:
		return Up
	}
}

// Exit connects a room to another room.
type Exit struct {
	To string `json:"to"`
	// Locked exits need the named key or a successful pick-locks check.
	Locked bool   `json:"locked,omitempty"`
	Key    string `json:"key,omitempty"`
	// Hidden exits must be found by searching before they can be used.
	Hidden bool `json:"hidden,omitempty"`
	Found  bool `json:"found,omitempty"`
}

// Usable reports whether the exit can currently be taken.
func (e *Exit) Usable() bool {
	return !e.Locked && (!e.Hidden || e.Found)
}

// TrapState is a placed trap and its discovery state.
type TrapState struct {
	// DefID keys the trap definition in the rules tables.
	DefID     string `json:"def"`
	Found     bool   `json:"found,omitempty"`
	Disarmed  bool   `json:"disarmed,omitempty"`
	Triggered bool   `json:"triggered,omitempty"`
}

// Armed reports whether the trap can still fire.
func (t *TrapState) Armed() bool {
	return !t.Disarmed && !t.Triggered
}

// EncounterSpec seeds a monster group into a room. Count is a dice
// expression rolled when the party first enters.
type EncounterSpec struct {
	MonsterID string `json:"monster"`
	Count     string `json:"count"`
	// Boss groups guard a gold reward paid to the party leader on victory.
	Boss bool `json:"boss,omitempty"`
	Gold int  `json:"gold,omitempty"`
	// Spent is set the moment the group is triggered so it never respawns,
	// win or run.
	Spent bool `json:"spent,omitempty"`
}

// LightLevel is the ambient illumination of a room.
type LightLevel string

const (
	LightBright LightLevel = "bright"
	LightDim    LightLevel = "dim"
	LightDark   LightLevel = "dark"
)

// Room is one location in the dungeon.
type Room struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Exits       map[Direction]*Exit `json:"exits"`
	// Floor holds loot lying in the open.
	Floor item.Inventory `json:"floor"`
	// Encounters spawn when the party enters; cleared groups stay cleared.
	Encounters []*EncounterSpec `json:"encounters,omitempty"`
	Trap       *TrapState       `json:"trap,omitempty"`
	// Light is the ambient illumination; empty means bright. Dark rooms
	// need a carried light source to see anything.
	Light LightLevel `json:"light,omitempty"`
	// SafeRest marks rooms sheltered enough for a full night's rest.
	SafeRest bool `json:"safe_rest,omitempty"`
	Visited  bool `json:"visited,omitempty"`
	Searched bool `json:"searched,omitempty"`
}

// Lit reports whether the room has any ambient light of its own.
func (r *Room) Lit() bool {
	return r.Light != LightDark
}

// Exit returns the exit in the given direction, hidden-and-unfound exits
// excluded.
func (r *Room) Exit(dir Direction) (*Exit, error) {
	e, ok := r.Exits[dir]
	if !ok || (e.Hidden && !e.Found) {
		return nil, fmt.Errorf("%w: %s", ErrNoExit, dir)
	}
	return e, nil
}

// KnownExits lists the directions the party can currently see, in display
// order.
func (r *Room) KnownExits() []Direction {
	var out []Direction
	for _, d := range Directions {
		if e, ok := r.Exits[d]; ok && (!e.Hidden || e.Found) {
			out = append(out, d)
		}
	}
	return out
}

// PendingEncounters returns the unspent monster groups in the room.
func (r *Room) PendingEncounters() []*EncounterSpec {
	var out []*EncounterSpec
	for _, spec := range r.Encounters {
		if !spec.Spent {
			out = append(out, spec)
		}
	}
	return out
}
