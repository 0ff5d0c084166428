// Package rules provides the read-only AD&D rules tables: class and race
// progressions, ability-score modifier rows, thief skills, the turning-undead
// matrix, XP and treasure tables, and the monster/spell/weapon catalogs.
// Everything is loaded once from embedded JSON into an immutable Ctx.
//
// Lookup misses degrade to neutral zero-value rows rather than failing; an
// unknown race simply confers no bonuses.
package rules

import (
	"fmt"
	"strings"

	"github.com/tgibson/underdark/internal/game/item"
	"github.com/tgibson/underdark/internal/game/spell"
)

// Ctx aggregates every authored table. It is built once at startup and never
// mutated afterwards.
type Ctx struct {
	Classes        map[string]*ClassDef
	Races          map[string]*RaceDef
	Abilities      *AbilityTables
	Thief          *ThiefTables
	Turning        *TurningTable
	XP             []XPRow
	Treasure       map[string]*TreasureType
	Gems           []ValueRow
	Jewelry        []ValueRow
	Traps          map[string]*TrapDef
	Monsters       map[string]*MonsterDef
	Spells         map[string]*spell.Spell
	Weapons        map[string]*item.Weapon
	Armors         map[string]*item.Armor
	WeaponGroups   map[string]string
	ClassAbilities map[string][]string
	Dressing       map[string][]string
}

// Load builds a Ctx from the embedded data files.
//
// Postcondition: Returns a fully populated Ctx or the first load error.
func Load() (*Ctx, error) {
	ctx := &Ctx{}

	classes, err := load[map[string]*ClassDef]("classes.json")
	if err != nil {
		return nil, err
	}
	ctx.Classes = classes
	for id, c := range ctx.Classes {
		c.ID = id
	}

	races, err := load[map[string]*RaceDef]("races.json")
	if err != nil {
		return nil, err
	}
	ctx.Races = races
	for id, r := range ctx.Races {
		r.ID = id
	}

	if ctx.Abilities, err = load[*AbilityTables]("ability_score_tables.json"); err != nil {
		return nil, err
	}
	if ctx.Thief, err = load[*ThiefTables]("thief_skills_tables.json"); err != nil {
		return nil, err
	}
	if ctx.Turning, err = load[*TurningTable]("turning_undead.json"); err != nil {
		return nil, err
	}
	if ctx.XP, err = load[[]XPRow]("xp_values.json"); err != nil {
		return nil, err
	}
	if ctx.Treasure, err = load[map[string]*TreasureType]("treasure_tables.json"); err != nil {
		return nil, err
	}

	values, err := load[map[string][]ValueRow]("gem_jewelry_values.json")
	if err != nil {
		return nil, err
	}
	ctx.Gems = values["gems"]
	ctx.Jewelry = values["jewelry"]

	traps, err := load[map[string]*TrapDef]("dmg/traps.json")
	if err != nil {
		return nil, err
	}
	ctx.Traps = traps
	for id, t := range ctx.Traps {
		t.ID = id
	}

	monsters, err := load[map[string]*MonsterDef]("monsters.json")
	if err != nil {
		return nil, err
	}
	ctx.Monsters = monsters
	for id, m := range ctx.Monsters {
		m.ID = id
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("monsters.json: %w", err)
		}
	}

	spells, err := load[[]*spell.Spell]("spells.json")
	if err != nil {
		return nil, err
	}
	ctx.Spells = make(map[string]*spell.Spell, len(spells))
	for _, sp := range spells {
		ctx.Spells[strings.ToLower(sp.Name)] = sp
	}

	weapons, err := load[[]*item.Weapon]("weapons.json")
	if err != nil {
		return nil, err
	}
	ctx.Weapons = make(map[string]*item.Weapon, len(weapons))
	for _, w := range weapons {
		ctx.Weapons[strings.ToLower(w.Name)] = w
	}

	armors, err := load[[]*item.Armor]("armor.json")
	if err != nil {
		return nil, err
	}
	ctx.Armors = make(map[string]*item.Armor, len(armors))
	for _, a := range armors {
		ctx.Armors[strings.ToLower(a.Name)] = a
	}

	if ctx.WeaponGroups, err = load[map[string]string]("weapon_proficiencies.json"); err != nil {
		return nil, err
	}
	if ctx.ClassAbilities, err = load[map[string][]string]("class_abilities.json"); err != nil {
		return nil, err
	}
	if ctx.Dressing, err = load[map[string][]string]("dmg/appendix_a_dungeon.json"); err != nil {
		return nil, err
	}

	return ctx, nil
}

// MustLoad loads the Ctx and panics on error. Authored data shipping with the
// binary must parse.
func MustLoad() *Ctx {
	ctx, err := Load()
	if err != nil {
		panic(err)
	}
	return ctx
}

// Class returns the class definition for id (case-insensitive).
func (c *Ctx) Class(id string) (*ClassDef, bool) {
	cd, ok := c.Classes[strings.ToLower(id)]
	return cd, ok
}

// Race returns the race definition for id (case-insensitive). Unknown races
// return a neutral definition conferring no bonuses.
func (c *Ctx) Race(id string) *RaceDef {
	if rd, ok := c.Races[strings.ToLower(id)]; ok {
		return rd
	}
	return &neutralRace
}

// Monster returns the monster definition for id.
func (c *Ctx) Monster(id string) (*MonsterDef, bool) {
	m, ok := c.Monsters[strings.ToLower(id)]
	return m, ok
}

// Trap returns the trap definition for id.
func (c *Ctx) Trap(id string) (*TrapDef, bool) {
	t, ok := c.Traps[strings.ToLower(id)]
	return t, ok
}

// Spell returns the spell definition for name (case-insensitive).
func (c *Ctx) Spell(name string) (*spell.Spell, bool) {
	sp, ok := c.Spells[strings.ToLower(strings.TrimSpace(name))]
	return sp, ok
}

// NewWeapon returns a fresh copy of the catalog weapon, or false if unknown.
// Copies keep catalog prototypes immutable.
func (c *Ctx) NewWeapon(name string) (*item.Weapon, bool) {
	proto, ok := c.Weapons[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	cp := *proto
	return &cp, true
}

// NewArmor returns a fresh copy of the catalog armor, or false if unknown.
func (c *Ctx) NewArmor(name string) (*item.Armor, bool) {
	proto, ok := c.Armors[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	cp := *proto
	return &cp, true
}

// WeaponGroup returns the proficiency group for a weapon name, or "" when
// the weapon is ungrouped.
func (c *Ctx) WeaponGroup(weaponName string) string {
	return c.WeaponGroups[strings.ToLower(weaponName)]
}
