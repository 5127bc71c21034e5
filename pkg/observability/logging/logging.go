// Package logging provides structured logging for answer-guard components.
//
// The package exposes printf-style helpers (Infof, Debugf, ...) backed by a
// zap SugaredLogger so call sites stay terse. The level is read from the
// ANSWERGUARD_LOG_LEVEL environment variable (debug, info, warn, error);
// it defaults to info.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const levelEnvVar = "ANSWERGUARD_LOG_LEVEL"

var (
	mu    sync.RWMutex
	sugar = newLogger(levelFromEnv()).Sugar()
)

func levelFromEnv() zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(levelEnvVar))) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newLogger(level zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// InitFromEnv rebuilds the package logger from the environment. The returned
// *zap.Logger can be used directly by callers that want structured fields.
func InitFromEnv() (*zap.Logger, error) {
	logger := newLogger(levelFromEnv())
	mu.Lock()
	sugar = logger.Sugar()
	mu.Unlock()
	return logger, nil
}

// SetLevel replaces the package logger with one at the given level.
// Intended for tests and CLI --verbose handling.
func SetLevel(level zapcore.Level) {
	mu.Lock()
	sugar = newLogger(level).Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatalf logs a formatted message and exits.
func Fatalf(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}
