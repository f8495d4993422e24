// Package logging provides config-driven categorized logging for draftsmith.
// Every category logs through one shared zap logger; before Initialize runs,
// all loggers are no-ops.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"draftsmith/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and wiring
	CategoryAPI        Category = "api"        // Model backend calls
	CategoryEngine     Category = "engine"     // Decoding engines and tokenizers
	CategoryGeneration Category = "generation" // Orchestration: prompt, decode, normalize
	CategoryServer     Category = "server"     // HTTP front end
	CategoryMCP        Category = "mcp"        // MCP tool server
)

// Logger is a category-scoped logger with printf-style methods.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	base    = zap.NewNop()
	enabled = func(string) bool { return true }
	mu      sync.RWMutex
)

// Initialize builds the shared zap logger from config.
func Initialize(cfg config.LoggingConfig) error {
	level, err := zapcore.ParseLevel(cfg.EffectiveLevel())
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	switch cfg.Format {
	case "", "json":
		zc.Encoding = "json"
	case "console", "text":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return fmt.Errorf("invalid log format %q (valid: json, console)", cfg.Format)
	}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
	}

	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(l, cfg)

	Get(CategoryBoot).Info("logging initialized: level=%s format=%s", level, zc.Encoding)
	return nil
}

// Use installs an already-built zap logger, e.g. the CLI's process logger or
// an observer in tests.
func Use(l *zap.Logger, cfg config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	enabled = cfg.IsCategoryEnabled
}

// Reset restores the no-op logger.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	base = zap.NewNop()
	enabled = func(string) bool { return true }
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// Get returns a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled(string(category)) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}
	return &Logger{
		category: category,
		sugar:    base.Named(string(category)).Sugar(),
	}
}

// With returns a child logger carrying structured key-value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// WithRequestID creates a request-scoped logger for correlating one call.
func WithRequestID(category Category, requestID string) *Logger {
	return Get(category).With("req", requestID)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
