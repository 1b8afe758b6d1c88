package logger

import (
	"context"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"
)

var (
	globalLogger *ZapLogger
	mu           sync.RWMutex
)

// SetGlobalLogger sets the global logger instance.
// This should be called once during application startup
func SetGlobalLogger(logger *ZapLogger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance, creating a
// production logger on first use if none was set
func GetGlobalLogger() *ZapLogger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		defaultLogger, err := zap.NewProduction(zap.AddCallerSkip(1))
		if err != nil {
			defaultLogger = zap.NewNop()
		}
		globalLogger = NewFromZap(defaultLogger)
	}
	return globalLogger
}

func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Debug(msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Error(msg string, fields ...Field) {
	GetGlobalLogger().Error(msg, fields...)
}

func Fatal(msg string, fields ...Field) {
	GetGlobalLogger().Fatal(msg, fields...)
}

// ErrorCtx logs an error with trace correlation when ctx carries a New Relic transaction
func ErrorCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().WithNewRelicContext(newrelic.FromContext(ctx)).Error(msg, fields...)
}

// WarnCtx logs a warning with trace correlation when ctx carries a New Relic transaction
func WarnCtx(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().WithNewRelicContext(newrelic.FromContext(ctx)).Warn(msg, fields...)
}
