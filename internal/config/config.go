package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultMassCloneCount is how many clones "mass" makes when no count is given.
	DefaultMassCloneCount = 10

	// DefaultMaxMassClone caps a single mass-clone request.
	DefaultMaxMassClone = 1000
)

// Config holds all configuration for prototype-lab.
type Config struct {
	Player  PlayerConfig  `mapstructure:"player"`
	Actions ActionsConfig `mapstructure:"actions"`
	Clone   CloneConfig   `mapstructure:"clone"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlayerConfig holds the starting stats of the original player.
type PlayerConfig struct {
	Name       string `mapstructure:"name"`
	Health     int    `mapstructure:"health"`
	Experience int    `mapstructure:"experience"`
	Level      int    `mapstructure:"level"`
}

// ActionsConfig holds the amounts applied by per-player actions.
// Amounts are not range-checked; negative values are applied as given.
type ActionsConfig struct {
	Damage     int `mapstructure:"damage"`
	Heal       int `mapstructure:"heal"`
	Experience int `mapstructure:"experience"`
}

// CloneConfig holds mass-clone settings.
type CloneConfig struct {
	MassCount int `mapstructure:"mass_count"`
	MaxMass   int `mapstructure:"max_mass"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("player.name", "Hero")
	v.SetDefault("player.health", 100)
	v.SetDefault("player.experience", 0)
	v.SetDefault("player.level", 1)

	v.SetDefault("actions.damage", 10)
	v.SetDefault("actions.heal", 10)
	v.SetDefault("actions.experience", 60)

	v.SetDefault("clone.mass_count", DefaultMassCloneCount)
	v.SetDefault("clone.max_mass", DefaultMaxMassClone)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".prototype-lab"))
	v.AddConfigPath(".")

	// Environment variables, e.g. PROTOTYPE_LAB_PLAYER_NAME
	v.SetEnvPrefix("PROTOTYPE_LAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Player.Name) == "" {
		return fmt.Errorf("player.name must not be empty")
	}
	if c.Clone.MaxMass <= 0 {
		return fmt.Errorf("clone.max_mass must be greater than 0")
	}
	if c.Clone.MassCount <= 0 {
		return fmt.Errorf("clone.mass_count must be greater than 0")
	}
	if c.Clone.MassCount > c.Clone.MaxMass {
		return fmt.Errorf("clone.mass_count (%d) must not exceed clone.max_mass (%d)", c.Clone.MassCount, c.Clone.MaxMass)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
