// Package solverlog wraps zap for the ambient logging every command-line
// entry point uses, and adapts it onto instrument.Sink so a run's search
// events can be logged without the search package ever importing zap.
package solverlog

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mealplansolver/internal/instrument"
)

// Logger wraps zap.Logger with the field names this module logs under.
type Logger struct {
	*zap.Logger
}

// New builds a Logger at the given level ("debug", "info", "warn", "error"),
// writing JSON to stdout in production style.
func New(level string) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		parseLevel(level),
	)
	return &Logger{zap.New(core)}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sink adapts a Logger onto instrument.Sink, logging attempts and backtracks
// at debug level and day completion and the final stats at info level;
// enabling it never changes solver behavior, only verbosity.
type Sink struct {
	log *Logger
}

// NewSink wraps log as an instrument.Sink.
func NewSink(log *Logger) *Sink {
	return &Sink{log: log}
}

var _ instrument.Sink = (*Sink)(nil)

func (s *Sink) RecordAttempt(dayIndex, slotIndex int) {
	s.log.Debug("generating candidates", zap.Int("day", dayIndex), zap.Int("slot", slotIndex))
}

func (s *Sink) RecordBacktrack(depth int) {
	s.log.Debug("backtracking", zap.Int("depth", depth))
}

func (s *Sink) RecordDayComplete(dayIndex int, elapsed time.Duration) {
	s.log.Info("day complete", zap.Int("day", dayIndex), zap.Duration("elapsed", elapsed))
}

func (s *Sink) Finish(stats instrument.Stats) {
	s.log.Info("search finished",
		zap.Int("attempts", stats.TotalAttempts),
		zap.Int("backtracks", stats.Backtracks),
		zap.Int("max_depth", stats.MaxDepth),
		zap.Float64("avg_backtrack_depth", stats.AverageBacktrackDepth),
		zap.Duration("total_runtime", stats.TotalRuntime),
	)
}
