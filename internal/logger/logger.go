package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger creates the default zap logger for pipeline runs.
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// Fall back to a no-op logger rather than failing startup
		return zap.NewNop()
	}
	return logger
}

// NewDevelopmentLogger creates a zap logger with human-readable console output.
func NewDevelopmentLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build development logger: %w", err)
	}
	return logger, nil
}

// WithRun returns a logger that attaches the run identifier to every event,
// so interleaved watch-mode runs can be separated in the output.
func WithRun(base *zap.Logger, runID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return base.With(zap.String("run_id", runID))
}
