package timed

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the host logging collaborator the log sink forwards into.
// It receives only a level and a preformatted message.
type Logger interface {
	Log(level Level, msg string)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(level Level, msg string)

func (f LoggerFunc) Log(level Level, msg string) { f(level, msg) }

// FormatMessage builds the log sink line: "<function> took <ms> ms".
func FormatMessage(s Sample) string {
	return fmt.Sprintf("%s took %s ms", s.Function, FormatMillis(s))
}

// Observer receives reporter self-metrics. Implementations must be safe
// for concurrent use. It never sees durations.
type Observer interface {
	ReportDispatched(kind OutputKind, err error)
	OutputChanged(o Output, err error)
}

type nopObserver struct{}

func (nopObserver) ReportDispatched(OutputKind, error) {}
func (nopObserver) OutputChanged(Output, error)        {}

// ZapLevel maps l onto zap's levels. zap has no trace level, so trace
// is written at debug.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapLogger is the default collaborator: the global zap logger,
// resolved on every call so zap.ReplaceGlobals takes effect.
type zapLogger struct{}

func (zapLogger) Log(level Level, msg string) {
	zap.L().Log(level.ZapLevel(), msg)
}
