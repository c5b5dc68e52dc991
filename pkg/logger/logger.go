// Package logger wraps zap with a process-wide logger that writes
// to both stdout and a log file. Init must be called once at startup;
// every other package obtains the shared instance via Get.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	// Config controls how the process logger is built.
	Config struct {
		LogFile   string // path of the log file, empty disables the file sink
		LogLevel  string // debug, info, warn or error
		AppName   string // added to every entry as the "app" field
		AddCaller bool   // annotate entries with file:line of the call site
	}

	// Logger is a thin wrapper around zap.Logger so callers depend on
	// this package instead of zap directly.
	Logger struct {
		*zap.Logger
	}
)

var (
	global *Logger
	once   sync.Once
)

// Init builds the global logger from cfg. Calling Init more than once
// has no effect; the first configuration wins.
func Init(cfg Config) error {
	var initErr error

	once.Do(func() {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = zapcore.InfoLevel
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encCfg),
				zapcore.Lock(os.Stdout),
				level,
			),
		}

		if cfg.LogFile != "" {
			file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				initErr = fmt.Errorf("error open log file: %w", err)
				return
			}

			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encCfg),
				zapcore.Lock(file),
				level,
			))
		}

		opts := []zap.Option{
			zap.Fields(zap.String("app", cfg.AppName)),
		}
		if cfg.AddCaller {
			opts = append(opts, zap.AddCaller())
		}

		global = &Logger{zap.New(zapcore.NewTee(cores...), opts...)}
	})

	return initErr
}

// Get returns the global logger. If Init was never called it falls
// back to a no-op logger so library code can always log safely.
func Get() *Logger {
	if global == nil {
		return &Logger{zap.NewNop()}
	}
	return global
}

// Sync flushes buffered log entries. Meant to be deferred from main.
func Sync() {
	if global != nil {
		_ = global.Logger.Sync()
	}
}
