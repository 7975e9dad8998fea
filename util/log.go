package util

import (
	"context"
	"log/slog"
	"math"
)

// LevelTrace sits between Info and Warn so that simulation traces can be
// switched on without enabling debug output.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a simulation event at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
