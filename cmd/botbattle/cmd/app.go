package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/config"
	"github.com/cory-johannsen/botbattle/internal/game/combat"
	"github.com/cory-johannsen/botbattle/internal/game/effect"
	"github.com/cory-johannsen/botbattle/internal/game/unit"
	"github.com/cory-johannsen/botbattle/internal/observability"
)

// app is the state shared by every subcommand: configuration, the logger and
// the loaded unit catalog.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog unit.Catalog
}

// loadApp reads the configuration at configPath, builds the logger and loads
// the effect and unit definitions.
//
// Postcondition: on success the caller must call a.close.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	effects, err := effect.LoadDirectory(cfg.Content.EffectsDir)
	if err != nil {
		return nil, fmt.Errorf("loading effects: %w", err)
	}
	units, err := unit.LoadDirectory(cfg.Content.UnitsDir, effects)
	if err != nil {
		return nil, fmt.Errorf("loading units: %w", err)
	}
	logger.Debug("content loaded",
		zap.Int("effects", len(effects.All())),
		zap.Int("units", len(units.All())),
	)
	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: unit.Catalog{Units: units, Effects: effects},
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// battleConfig converts the configured battle constants.
func (a *app) battleConfig() combat.Config {
	return combat.Config{
		GenerateTurns:   a.cfg.Battle.GenerateTurns,
		CooldownPercent: a.cfg.Battle.CooldownPercentage,
		CoolingPercent:  a.cfg.Battle.CoolingPercentage,
	}
}

// roster resolves unit IDs into battle members at level.
func (a *app) roster(ids []string, level int) ([]combat.Member, error) {
	members := make([]combat.Member, 0, len(ids))
	for _, id := range ids {
		def, ok := a.catalog.Unit(id)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", id)
		}
		members = append(members, combat.Member{Unit: def, Level: level})
	}
	return members, nil
}
