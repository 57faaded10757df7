// Package config provides Viper-based configuration loading for the hub.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr" or a file path. The console owns stdout.
	Output string `mapstructure:"output"`
}

// ContentConfig locates the YAML content tables.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
}

// ScriptingConfig holds Lua narrative settings.
type ScriptingConfig struct {
	// ScriptRoot is the directory of narrative *.lua files. Empty disables
	// scripting and the offline provider is used alone.
	ScriptRoot string `mapstructure:"script_root"`
	// InstructionLimit bounds every script call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// GameConfig holds pacing and pricing rules.
type GameConfig struct {
	// EnemyTurnDelay is the pause before the enemy acts.
	EnemyTurnDelay time.Duration `mapstructure:"enemy_turn_delay"`
	// ConflictSettleDelay is the pause before a resolved conflict closes.
	ConflictSettleDelay time.Duration `mapstructure:"conflict_settle_delay"`
	// MissionPollInterval is how often finished missions are announced.
	MissionPollInterval time.Duration `mapstructure:"mission_poll_interval"`
	BrewCost            int           `mapstructure:"brew_cost"`
	CheckpointCost      int           `mapstructure:"checkpoint_cost"`
	// OracleCost is the soul shard price of one dossier.
	OracleCost int `mapstructure:"oracle_cost"`
	// Seed makes every roll reproducible when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Addr is the listen address for /metrics. Empty keeps metrics in-process.
	Addr string `mapstructure:"addr"`
}

// PlayerConfig preselects the character so the console can skip creation.
type PlayerConfig struct {
	Name      string `mapstructure:"name"`
	Archetype string `mapstructure:"archetype"`
	Origin    string `mapstructure:"origin"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Game      GameConfig      `mapstructure:"game"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Player    PlayerConfig    `mapstructure:"player"`
}

var validArchetypes = map[string]bool{
	"":          true,
	"Vampire":   true,
	"Werewolf":  true,
	"Warlock":   true,
	"Syndicate": true,
	"Hunter":    true,
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.Scripting.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 1, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Metrics.Addr != "" && !c.Metrics.Enabled {
		errs = append(errs, "metrics.addr requires metrics.enabled")
	}
	if !validArchetypes[c.Player.Archetype] {
		errs = append(errs, fmt.Sprintf("player.archetype must be one of [Vampire, Werewolf, Warlock, Syndicate, Hunter], got %q", c.Player.Archetype))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.EnemyTurnDelay < 0 {
		errs = append(errs, "game.enemy_turn_delay must not be negative")
	}
	if g.ConflictSettleDelay < 0 {
		errs = append(errs, "game.conflict_settle_delay must not be negative")
	}
	if g.MissionPollInterval <= 0 {
		errs = append(errs, "game.mission_poll_interval must be positive")
	}
	if g.BrewCost < 0 {
		errs = append(errs, fmt.Sprintf("game.brew_cost must be >= 0, got %d", g.BrewCost))
	}
	if g.CheckpointCost < 0 {
		errs = append(errs, fmt.Sprintf("game.checkpoint_cost must be >= 0, got %d", g.CheckpointCost))
	}
	if g.OracleCost < 0 {
		errs = append(errs, fmt.Sprintf("game.oracle_cost must be >= 0, got %d", g.OracleCost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "stdout" {
		return errors.New("logging.output must not be stdout; the console writes there")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment alone.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with NIGHTCOURT_ prefix
	v.SetEnvPrefix("NIGHTCOURT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults installs the default value of every key on v.
func SetDefaults(v *viper.Viper) { setDefaults(v) }

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.dir", "content")

	v.SetDefault("scripting.script_root", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("game.enemy_turn_delay", "1s")
	v.SetDefault("game.conflict_settle_delay", "2s")
	v.SetDefault("game.mission_poll_interval", "1s")
	v.SetDefault("game.brew_cost", 1)
	v.SetDefault("game.checkpoint_cost", 1)
	v.SetDefault("game.oracle_cost", 2)
	v.SetDefault("game.seed", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", "")

	v.SetDefault("player.name", "")
	v.SetDefault("player.archetype", "")
	v.SetDefault("player.origin", "")
}
