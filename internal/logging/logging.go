// Package logging builds the structured loggers used across datapipe.
//
// Components accept a logr.Logger and log through verbosity levels; the
// concrete sink is zap, bridged with zapr.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(...).
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// NewLogger returns a zap-backed logger that emits messages up to the given
// verbosity. Development mode switches to human-readable console output.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))

	zapLog, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zapLog), nil
}
