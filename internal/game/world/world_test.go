package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/game/world"
)

var testRules = rules.MustLoad()

func loadCaves(t *testing.T) *world.Dungeon {
	t.Helper()
	d, err := world.LoadDungeon("caves_of_shadow", testRules)
	require.NoError(t, err)
	return d
}

// TestLoadDungeon parses and validates the embedded map.
func TestLoadDungeon(t *testing.T) {
	d := loadCaves(t)

	assert.Equal(t, "Caves of Shadow", d.Name)
	require.Len(t, d.Levels, 2)
	assert.Equal(t, 1, d.CurrentLevel().Number)

	entry := d.Entry()
	require.NotNil(t, entry)
	assert.Equal(t, "entrance", entry.ID)
	assert.Equal(t, 2, entry.Floor.Len())
	assert.Equal(t, world.LightDim, entry.Light)
	assert.True(t, entry.Lit())
	assert.True(t, entry.SafeRest)

	hall, ok := d.Room("hall")
	require.True(t, ok)
	assert.False(t, hall.Lit())
	assert.False(t, hall.SafeRest)

	_, err := world.LoadDungeon("atlantis", testRules)
	assert.Error(t, err)
}

// TestDungeon_EnterRoom moves the level pointer with the party, even across
// floors.
func TestDungeon_EnterRoom(t *testing.T) {
	d := loadCaves(t)

	d.EnterRoom("cistern")
	assert.Equal(t, 2, d.CurrentLevel().Number)
	d.EnterRoom("hall")
	assert.Equal(t, 1, d.CurrentLevel().Number)

	// Unknown rooms leave the pointer alone.
	d.EnterRoom("atlantis")
	assert.Equal(t, 1, d.CurrentLevel().Number)
}

// TestDungeon_Validate catches dangling exits, unknown monsters, and bad
// light values.
func TestDungeon_Validate(t *testing.T) {
	d := &world.Dungeon{
		Name:      "broken",
		EntryRoom: "nowhere",
		Levels: []*world.Level{
			{
				Number: 1,
				Rooms: map[string]*world.Room{
					"a": {
						ID:    "a",
						Exits: map[world.Direction]*world.Exit{world.North: {To: "void"}},
						Encounters: []*world.EncounterSpec{
							{MonsterID: "dragon", Count: "1"},
						},
						Light: "gloomy",
					},
				},
			},
		},
	}
	err := d.Validate(testRules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry room")
	assert.Contains(t, err.Error(), "missing room")
	assert.Contains(t, err.Error(), "unknown monster")
	assert.Contains(t, err.Error(), "unknown light")
}

func TestParseDirection(t *testing.T) {
	for input, want := range map[string]world.Direction{
		"n": world.North, "North": world.North, " s ": world.South,
		"u": world.Up, "down": world.Down, "e": world.East,
	} {
		got, ok := world.ParseDirection(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got)
	}
	_, ok := world.ParseDirection("northeast")
	assert.False(t, ok)

	assert.Equal(t, world.South, world.North.Opposite())
	assert.Equal(t, world.Down, world.Up.Opposite())
}

// TestRoom_HiddenExit stays invisible until found.
func TestRoom_HiddenExit(t *testing.T) {
	d := loadCaves(t)
	shrine, ok := d.Room("shrine")
	require.True(t, ok)

	_, err := shrine.Exit(world.East)
	assert.ErrorIs(t, err, world.ErrNoExit)
	assert.Equal(t, []world.Direction{world.South}, shrine.KnownExits())

	shrine.Exits[world.East].Found = true
	e, err := shrine.Exit(world.East)
	require.NoError(t, err)
	assert.Equal(t, "well", e.To)
	assert.Equal(t, []world.Direction{world.South, world.East}, shrine.KnownExits())
}

func TestTrapState(t *testing.T) {
	ts := &world.TrapState{DefID: "pit"}
	assert.True(t, ts.Armed())
	ts.Disarmed = true
	assert.False(t, ts.Armed())
}

func TestRoom_PendingEncounters(t *testing.T) {
	d := loadCaves(t)
	treasury, ok := d.Room("treasury")
	require.True(t, ok)

	pending := treasury.PendingEncounters()
	require.Len(t, pending, 1)
	assert.True(t, pending[0].Boss)
	assert.Equal(t, 400, pending[0].Gold)

	pending[0].Spent = true
	assert.Empty(t, treasury.PendingEncounters())
}

// TestDungeon_WanderingFor keys the wandering table by depth.
func TestDungeon_WanderingFor(t *testing.T) {
	d := loadCaves(t)

	deep := d.WanderingFor(2)
	require.NotEmpty(t, deep)
	ids := make([]string, 0, len(deep))
	for _, e := range deep {
		ids = append(ids, e.MonsterID)
	}
	assert.Contains(t, ids, "giant_snake")
	assert.Nil(t, d.WanderingFor(3))
}

// TestDungeon_PickWandering walks the weighted table deterministically.
func TestDungeon_PickWandering(t *testing.T) {
	d := loadCaves(t)

	// Level 1 weights: rat 3, kobold 2, goblin 2, centipede 1 (total 8).
	entry, ok := d.PickWandering(1, 0)
	require.True(t, ok)
	assert.Equal(t, "giant_rat", entry.MonsterID)
	entry, _ = d.PickWandering(1, 3)
	assert.Equal(t, "kobold", entry.MonsterID)
	entry, _ = d.PickWandering(1, 7)
	assert.Equal(t, "giant_centipede", entry.MonsterID)
	// Rolls beyond the total wrap around.
	entry, _ = d.PickWandering(1, 8)
	assert.Equal(t, "giant_rat", entry.MonsterID)

	_, ok = d.PickWandering(9, 0)
	assert.False(t, ok)
}
