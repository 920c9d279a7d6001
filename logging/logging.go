// Package logging wraps go.uber.org/zap behind a small package-level
// entry point: SetOutput and SetLogger default to a no-op logger until
// a caller opts in.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// SetLogger replaces the package logger outright. Passing nil restores
// the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// SetOutput builds a JSON-encoded logger writing to ws at the given
// level and installs it as the package logger.
func SetOutput(ws zapcore.WriteSyncer, level zapcore.Level) {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), ws, level)
	logger = zap.New(core)
}

// L returns the current package logger.
func L() *zap.Logger {
	return logger
}

// Sync flushes any buffered log entries. Callers should defer this from
// main after calling SetOutput.
func Sync() error {
	return logger.Sync()
}
