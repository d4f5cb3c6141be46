// Package logging configures the miner's structured logger, following the
// wrapped-zap-sugar pattern used throughout the pool/network ambient
// stack this miner borrows its conventions from.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger. In development mode it uses a
// human-readable console encoder; in production it emits JSON suitable
// for log aggregation.
func New(development bool, level string) *zap.SugaredLogger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

// NewNop returns a logger that discards everything, for use in tests.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
