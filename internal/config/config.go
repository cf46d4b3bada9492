// Package config provides Viper-based configuration loading for the battle engine.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// BOTBATTLE_BATTLE_GENERATE_TURNS.
const EnvPrefix = "BOTBATTLE"

// BattleConfig holds the battle tuning constants.
type BattleConfig struct {
	// GenerateTurns is the queue depth refilled when one turn or fewer remains.
	GenerateTurns int `mapstructure:"generate_turns"`
	// CooldownPercentage is the share of energy capacity removed by cooldown recovery.
	CooldownPercentage float64 `mapstructure:"cooldown_percentage"`
	// CoolingPercentage is the share of energy capacity removed after every move.
	CoolingPercentage float64 `mapstructure:"cooling_percentage"`
	// Seed fixes the random stream. Zero lets the caller pick one.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig locates the authored data.
type ContentConfig struct {
	UnitsDir   string `mapstructure:"units_dir"`
	EffectsDir string `mapstructure:"effects_dir"`
	AIDir      string `mapstructure:"ai_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit bounds each hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Battle    BattleConfig    `mapstructure:"battle"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateBattle(c.Battle),
		validateContent(c.Content),
		validateScripting(c.Scripting),
		validateLogging(c.Logging),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.GenerateTurns < 2 {
		errs = append(errs, fmt.Sprintf("battle.generate_turns must be >= 2, got %d", b.GenerateTurns))
	}
	if b.CooldownPercentage < 0 || b.CooldownPercentage > 1 {
		errs = append(errs, fmt.Sprintf("battle.cooldown_percentage must be in [0,1], got %v", b.CooldownPercentage))
	}
	if b.CoolingPercentage < 0 || b.CoolingPercentage > 1 {
		errs = append(errs, fmt.Sprintf("battle.cooling_percentage must be in [0,1], got %v", b.CoolingPercentage))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for key, val := range map[string]string{
		"content.units_dir":   c.UnitsDir,
		"content.effects_dir": c.EffectsDir,
		"content.ai_dir":      c.AIDir,
		"content.scripts_dir": c.ScriptsDir,
	} {
		if val == "" {
			errs = append(errs, key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
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
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// New returns a Viper instance with defaults and BOTBATTLE_ environment overrides set.
//
// Postcondition: Returns a non-nil Viper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("battle.generate_turns", 5)
	v.SetDefault("battle.cooldown_percentage", 0.4)
	v.SetDefault("battle.cooling_percentage", 0.1)
	v.SetDefault("battle.seed", 0)

	v.SetDefault("content.units_dir", "content/units")
	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.scripts_dir", "content/scripts/ai")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
