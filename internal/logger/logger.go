// Package logger builds the zap loggers used by bmeconv.
//
// One logger is constructed per process and passed explicitly to every
// component; there is no package-level logger. Console and file output use
// the same "time - LEVEL - message" layout. Per-document log files are
// attached with Tee.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is "debug", "info", "warn" or "error". Defaults to info.
	Level string

	// Console receives log output. Defaults to os.Stderr.
	Console io.Writer
}

// New creates the process logger.
func New(opts Options) *zap.Logger {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(EncoderConfig()),
		zapcore.Lock(zapcore.AddSync(console)),
		ParseLevel(opts.Level),
	)
	return zap.New(core)
}

// Tee returns a logger writing to base and, in append mode, to the file at
// path. Fields are added to the file output only; base keeps its own.
// The returned function closes the file.
func Tee(
	base *zap.Logger, path string, level zapcore.LevelEnabler, fields ...zap.Field,
) (*zap.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(EncoderConfig()), zapcore.AddSync(f), level).
		With(fields)
	log := zap.New(zapcore.NewTee(base.Core(), fileCore))

	closeFn := func() error {
		_ = log.Sync()
		return f.Close()
	}
	return log, closeFn, nil
}

// EncoderConfig is the shared console layout.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05,000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " - "
	return cfg
}

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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
