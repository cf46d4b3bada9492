package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Battle: BattleConfig{
			GenerateTurns:      5,
			CooldownPercentage: 0.4,
			CoolingPercentage:  0.1,
		},
		Content: ContentConfig{
			UnitsDir:   "content/units",
			EffectsDir: "content/effects",
			AIDir:      "content/ai",
			ScriptsDir: "content/scripts/ai",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
battle:
  generate_turns: 8
  cooling_percentage: 0.2
  seed: 1234
content:
  units_dir: data/units
scripting:
  instruction_limit: 5000
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Battle.GenerateTurns)
	assert.InDelta(t, 0.2, cfg.Battle.CoolingPercentage, 1e-9)
	assert.InDelta(t, 0.4, cfg.Battle.CooldownPercentage, 1e-9, "unset keys keep defaults")
	assert.Equal(t, uint64(1234), cfg.Battle.Seed)
	assert.Equal(t, "data/units", cfg.Content.UnitsDir)
	assert.Equal(t, "content/effects", cfg.Content.EffectsDir)
	assert.Equal(t, 5000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Battle.GenerateTurns)
	assert.Equal(t, "content/units", cfg.Content.UnitsDir)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BOTBATTLE_BATTLE_GENERATE_TURNS", "9")
	t.Setenv("BOTBATTLE_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Battle.GenerateTurns)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("battle:\n  generate_turns: 1\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "battle.generate_turns")
}

func TestLoadDevConfig(t *testing.T) {
	cfg, err := Load("../../configs/dev.yaml")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateBattle(t *testing.T) {
	cases := map[string]func(c *Config){
		"generate turns":   func(c *Config) { c.Battle.GenerateTurns = 1 },
		"cooldown high":    func(c *Config) { c.Battle.CooldownPercentage = 1.5 },
		"cooldown low":     func(c *Config) { c.Battle.CooldownPercentage = -0.1 },
		"cooling negative": func(c *Config) { c.Battle.CoolingPercentage = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateContent_ReportsEveryEmptyDir(t *testing.T) {
	cfg := validConfig()
	cfg.Content = ContentConfig{}
	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"content.units_dir", "content.effects_dir", "content.ai_dir", "content.scripts_dir"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidateScriptingLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidate_AggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Battle.GenerateTurns = 0
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "battle.generate_turns")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestPropertyPercentagesInUnitRangeAreValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Battle.CooldownPercentage = rapid.Float64Range(0, 1).Draw(t, "cooldown")
		cfg.Battle.CoolingPercentage = rapid.Float64Range(0, 1).Draw(t, "cooling")
		cfg.Battle.GenerateTurns = rapid.IntRange(2, 100).Draw(t, "turns")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected valid, got %v", err)
		}
	})
}

func TestPropertyGenerateTurnsBelowTwoInvalid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Battle.GenerateTurns = rapid.IntRange(-100, 1).Draw(t, "turns")
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for generate_turns=%d", cfg.Battle.GenerateTurns)
		}
	})
}
