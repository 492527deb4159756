package logadapter

import (
	"github.com/rs/zerolog"

	"github.com/nikkolasg/timed/pkg/timed"
)

type zerologLogger struct {
	log zerolog.Logger
}

// Zerolog forwards log-sink lines to l at the matching zerolog level.
func Zerolog(l zerolog.Logger) timed.Logger {
	return &zerologLogger{log: l}
}

func (z *zerologLogger) Log(level timed.Level, msg string) {
	z.log.WithLevel(zerologLevel(level)).Msg(msg)
}

func zerologLevel(level timed.Level) zerolog.Level {
	switch level {
	case timed.LevelTrace:
		return zerolog.TraceLevel
	case timed.LevelDebug:
		return zerolog.DebugLevel
	case timed.LevelWarn:
		return zerolog.WarnLevel
	case timed.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
