// Package observability provides logger construction and battle event logging.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/botbattle/internal/config"
	"github.com/cory-johannsen/botbattle/internal/game/combat"
)

// NewLogger creates a structured logger from the given logging configuration.
// Logs go to stderr so that command output on stdout stays clean.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// EventLogger returns a battle event handler that records every event on
// logger at debug level. Deaths and the battle result are logged at info.
//
// Precondition: logger must be non-nil.
func EventLogger(logger *zap.Logger) func(combat.Event) {
	return func(ev combat.Event) {
		fields := []zap.Field{
			zap.String("kind", string(ev.Kind)),
			zap.Int("turn", ev.Turn),
		}
		if ev.Actor != combat.NoUnit {
			fields = append(fields, zap.Int("actor", ev.Actor))
		}
		if ev.Target != combat.NoUnit {
			fields = append(fields, zap.Int("target", ev.Target))
		}
		if ev.Move != "" {
			fields = append(fields, zap.String("move", ev.Move))
		}
		if ev.Effect != "" {
			fields = append(fields, zap.String("effect", ev.Effect))
		}
		if ev.Armor != 0 || ev.Health != 0 {
			fields = append(fields, zap.Int("armor", ev.Armor), zap.Int("health", ev.Health))
		}
		if ev.Energy != 0 {
			fields = append(fields, zap.Int("energy", ev.Energy))
		}

		switch ev.Kind {
		case combat.EventUnitDied, combat.EventBattleOver:
			logger.Info("battle event", append(fields, zap.Stringer("side", ev.Side))...)
		default:
			logger.Debug("battle event", fields...)
		}
	}
}
