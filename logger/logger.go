// Package logger holds the process-wide zap logger. It is a no-op until
// Initialize runs, so library packages can log unconditionally.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. Packages take a named child through
	// ComponentLogger rather than writing to it directly.
	Logger = zap.NewNop().Sugar()

	// JSONOutput records whether Initialize chose JSON lines.
	JSONOutput bool
)

// Initialize replaces the global logger. Entries go to stderr, leaving stdout
// to command output and the MCP stdio transport.
func Initialize(jsonOutput bool, verbosity int) error {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(verbosity))

	var opts []zap.Option
	if withCaller(verbosity) {
		opts = append(opts, zap.AddCaller())
	}

	var core zapcore.Core
	if jsonOutput {
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		core = zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stderr), level)
	} else {
		core = zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), level)
	}

	Logger = zap.New(core, opts...).Sugar()
	JSONOutput = jsonOutput
	return nil
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// ComponentLogger returns a child of the global logger named after a package,
// e.g. "parser" or "server". Call it at construction time: a logger taken
// before Initialize stays a no-op.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes buffered entries. Sync errors on a terminal are expected
// and ignored.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs on the global logger.
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Warnw logs on the global logger.
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Errorw logs on the global logger.
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Debugw logs on the global logger.
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
