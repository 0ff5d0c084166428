// Package config provides Viper-based configuration loading for the engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds rules-engine tunables.
type GameConfig struct {
	// Seed is the RNG seed. 0 means derive one from the current time at startup.
	Seed int64 `mapstructure:"seed"`
	// SpecialAbilityChance is the per-turn probability that a monster uses a
	// random special ability instead of a normal attack. Engine constant, not
	// a tabletop rule.
	SpecialAbilityChance float64 `mapstructure:"special_ability_chance"`
	// SaveDir is the directory used by the file store for saved games.
	SaveDir string `mapstructure:"save_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Game.SpecialAbilityChance < 0 || c.Game.SpecialAbilityChance > 1 {
		errs = append(errs, fmt.Sprintf("game.special_ability_chance %v must be in [0, 1]", c.Game.SpecialAbilityChance))
	}
	if c.Game.SaveDir == "" {
		errs = append(errs, "game.save_dir must not be empty")
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// setDefaults registers default values for all configuration keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.special_ability_chance", 0.30)
	v.SetDefault("game.save_dir", "saves")
}

// Load reads configuration from the given file path (optional) plus
// environment variables with the UNDERDARK_ prefix.
//
// Precondition: path may be empty, in which case only defaults and env apply.
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNDERDARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
