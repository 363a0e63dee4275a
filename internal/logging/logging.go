// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the application file logger.
//
// The TUI owns the terminal, so nothing may be written to stdout or stderr
// while the program runs. All diagnostics go to a rotated JSON log file under
// the application directory instead.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// GLOBAL LOGGER
// =============================================================================

var (
	globalLogger *zap.Logger = zap.NewNop()
	loggerOnce   sync.Once
)

// Init configures the global logger to write JSON entries to the given file,
// rotated by size. Repeated calls are a no-op. If the log directory cannot be
// created the logger stays a nop; a chat session must not die because its
// log file is unwritable.
func Init(path string, level zapcore.Level) {
	loggerOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return
		}

		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		})

		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			writer,
			zap.NewAtomicLevelAt(level),
		)

		globalLogger = zap.New(core, zap.AddCaller())
	})
}

// L returns the global logger. Safe to call before Init (returns a nop).
func L() *zap.Logger {
	return globalLogger
}

// Named returns a named child of the global logger.
func Named(name string) *zap.Logger {
	return globalLogger.Named(name)
}

// Sync flushes buffered log entries. Called once on shutdown.
func Sync() {
	_ = globalLogger.Sync()
}
