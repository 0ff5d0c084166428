// Package storage persists game state as JSON documents. The engine reads
// and writes whole snapshots; there is no partial update surface.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/world"
)

// ErrNoSave is returned when the named save does not exist.
var ErrNoSave = errors.New("no such saved game")

// SaveGame is one complete snapshot: the party, the mutated dungeon, and the
// clock. Saves are written between commands, never mid-combat.
type SaveGame struct {
	Version     int            `json:"version"`
	SavedAt     time.Time      `json:"saved_at"`
	DungeonName string         `json:"dungeon_name"`
	Party       *entity.Party  `json:"party"`
	Dungeon     *world.Dungeon `json:"dungeon"`
	CurrentRoom string         `json:"current_room"`
	// Clock counts elapsed world turns.
	Clock int `json:"clock"`
}

// CurrentVersion is the save schema version written by this build.
const CurrentVersion = 1

// Bind reattaches everything a snapshot cannot carry: rules tables on each
// member, equipment slot references into inventories, and room IDs.
//
// Postcondition: every equipped slot references an item actually carried.
func (s *SaveGame) Bind(ctx *rules.Ctx) error {
	if s.Party == nil || s.Dungeon == nil {
		return fmt.Errorf("save is incomplete")
	}
	for _, pc := range s.Party.Members {
		pc.Bind(ctx)
		pc.Equipped.RebindTo(&pc.Inventory)
	}
	for _, lvl := range s.Dungeon.Levels {
		for id, room := range lvl.Rooms {
			room.ID = id
		}
	}
	if _, ok := s.Dungeon.Room(s.CurrentRoom); !ok {
		return fmt.Errorf("save references missing room %q", s.CurrentRoom)
	}
	return s.Dungeon.Validate(ctx)
}

// Store persists and recalls saved games by name.
type Store interface {
	// Save writes a snapshot under name, replacing any previous save.
	Save(name string, save *SaveGame) error
	// Load reads the named snapshot. The caller must Bind it before use.
	Load(name string) (*SaveGame, error)
	// List returns the available save names in sorted order.
	List() ([]string, error)
}
