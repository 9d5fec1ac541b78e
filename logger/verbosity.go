package logger

import "go.uber.org/zap/zapcore"

// -v counts understood by Initialize.
const (
	VerbosityQuiet = 0 // results, warnings and errors
	VerbosityInfo  = 1 // requests, config reloads
	VerbosityDebug = 2 // every token the parser accepts or rejects
	VerbosityTrace = 3 // debug plus the call site of each entry
)

var levelNames = [...]string{"quiet", "info (-v)", "debug (-vv)", "trace (-vvv)"}

// VerbosityToLevel maps a -v count to a zap level. Counts above debug stay at
// debug; trace only adds caller information.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func withCaller(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName describes a -v count for banners and help text.
func LevelName(verbosity int) string {
	switch {
	case verbosity < 0:
		return "unknown"
	case verbosity >= len(levelNames):
		return levelNames[len(levelNames)-1]
	default:
		return levelNames[verbosity]
	}
}
