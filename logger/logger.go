// Package logger holds the process-wide zap logger used by every gitstats component.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.Logger
)

// Initialize sets up the global logger. "debug" selects the development
// (console) encoder, every other level the production (JSON) encoder.
func Initialize(level string) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var config zap.Config
	if zapLevel == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	l, err := config.Build()
	if err != nil {
		return err
	}

	Set(l)
	return nil
}

// Set replaces the global logger. Tests use it to install zaptest/observer loggers.
func Set(l *zap.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
}

// Get returns the global logger, or a no-op logger when Initialize was never called
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Named returns a child logger tagged with the component name
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Get().Sync()
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { Get().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { Get().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
