// Package main provides the underdark binary: a single-player dungeon crawl
// played on stdin and stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tgibson/underdark/internal/config"
	"github.com/tgibson/underdark/internal/game/dice"
	"github.com/tgibson/underdark/internal/game/engine"
	"github.com/tgibson/underdark/internal/game/entity"
	"github.com/tgibson/underdark/internal/game/rules"
	"github.com/tgibson/underdark/internal/observability"
	"github.com/tgibson/underdark/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment")
	dungeonName := flag.String("dungeon", "caves_of_shadow", "embedded dungeon to play")
	loadName := flag.String("load", "", "saved game to resume instead of starting fresh")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), logger)
	logger.Info("dice seeded", zap.Int64("seed", seed))

	store, err := storage.NewFileStore(cfg.Game.SaveDir, logger)
	if err != nil {
		logger.Fatal("opening save directory", zap.Error(err))
	}

	tables := rules.MustLoad()
	eng := engine.New(tables, cfg.Game, roller, store, logger)

	var state *engine.GameState
	if *loadName != "" {
		state, err = eng.LoadGame(*loadName)
		if err != nil {
			logger.Fatal("loading saved game", zap.String("name", *loadName), zap.Error(err))
		}
	} else {
		party, perr := defaultParty(tables, roller)
		if perr != nil {
			logger.Fatal("creating party", zap.Error(perr))
		}
		state, err = eng.NewGame(party, *dungeonName)
		if err != nil {
			logger.Fatal("starting game", zap.String("dungeon", *dungeonName), zap.Error(err))
		}
		fmt.Println("Three figures stand at the cave mouth. Type help for commands.")
	}
	fmt.Println(eng.Execute(state, "look").Message)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		res := eng.Execute(state, scanner.Text())
		fmt.Println(res.Message)
		if res.Terminal {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading input", zap.Error(err))
	}
}

// defaultParty assembles the pregenerated trio: fighter, cleric, thief.
func defaultParty(tables *rules.Ctx, roller *dice.Roller) (*entity.Party, error) {
	party := &entity.Party{}

	fighter, err := entity.NewPlayerCharacter(tables, roller, "Aldric", "fighter", "human",
		entity.Abilities{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 10, Wisdom: 10, Charisma: 12})
	if err != nil {
		return nil, err
	}
	if err := outfit(tables, fighter, "long sword", "chain mail"); err != nil {
		return nil, err
	}
	if err := party.Add(fighter); err != nil {
		return nil, err
	}

	cleric, err := entity.NewPlayerCharacter(tables, roller, "Bronn", "cleric", "human",
		entity.Abilities{Strength: 12, Dexterity: 10, Constitution: 13, Intelligence: 9, Wisdom: 15, Charisma: 11})
	if err != nil {
		return nil, err
	}
	if err := outfit(tables, cleric, "mace", "chain mail"); err != nil {
		return nil, err
	}
	cure, ok := tables.Spell("cure light wounds")
	if !ok {
		return nil, fmt.Errorf("spell catalog is missing cure light wounds")
	}
	cleric.Book.Learn(cure)
	if _, err := cleric.Book.Memorize(cure.Name); err != nil {
		return nil, err
	}
	if err := party.Add(cleric); err != nil {
		return nil, err
	}

	thief, err := entity.NewPlayerCharacter(tables, roller, "Whisper", "thief", "human",
		entity.Abilities{Strength: 10, Dexterity: 16, Constitution: 11, Intelligence: 12, Wisdom: 9, Charisma: 13})
	if err != nil {
		return nil, err
	}
	if err := outfit(tables, thief, "dagger", "leather armor"); err != nil {
		return nil, err
	}
	if err := party.Add(thief); err != nil {
		return nil, err
	}

	party.RepairFormation()
	return party, nil
}

// outfit equips a character with a catalog weapon and armor and marks the
// weapon proficient.
func outfit(tables *rules.Ctx, pc *entity.PlayerCharacter, weaponName, armorName string) error {
	weapon, ok := tables.NewWeapon(weaponName)
	if !ok {
		return fmt.Errorf("weapon catalog is missing %s", weaponName)
	}
	armor, ok := tables.NewArmor(armorName)
	if !ok {
		return fmt.Errorf("armor catalog is missing %s", armorName)
	}
	pc.Inventory.Add(weapon)
	pc.Inventory.Add(armor)
	pc.Equipped.Weapon = weapon
	pc.Equipped.Armor = armor
	pc.Proficiencies = append(pc.Proficiencies, weaponName)
	return nil
}
