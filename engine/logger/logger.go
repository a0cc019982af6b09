package logger

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidLevel is returned when the configured level is not a zap level name.
var ErrInvalidLevel = errors.New("invalid log level")

// New builds the process logger. Development loggers write colourless console lines with caller and
// stack traces on warnings; production loggers write JSON. An empty level means info.
//
// Parameters:
//   - level: one of debug, info, warn, error, dpanic, panic, fatal
//   - development: true for the development encoder and settings
//
// Returns:
//   - *zap.Logger: the logger
//   - error: ErrInvalidLevel, or a build error
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}
