// Package logadapter plugs common logging backends into timed's log sink.
package logadapter

import (
	"go.uber.org/zap"

	"github.com/nikkolasg/timed/pkg/timed"
)

type zapLogger struct {
	log *zap.Logger
}

// Zap forwards log-sink lines to l. zap has no trace level, so trace
// samples are written at debug.
func Zap(l *zap.Logger) timed.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{log: l.WithOptions(zap.AddCallerSkip(1))}
}

func (z *zapLogger) Log(level timed.Level, msg string) {
	z.log.Log(level.ZapLevel(), msg)
}
