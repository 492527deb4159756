package timed

import (
	"context"
	"sync"
	"time"
)

var (
	defaultMu       sync.Mutex
	defaultReporter *Reporter
)

// Default returns the process-wide reporter, creating it on first use.
// Its store reads TIMED_OUTPUT lazily, on the first report or Get.
func Default() *Reporter {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultReporter == nil {
		defaultReporter = NewReporter(NewStore())
	}
	return defaultReporter
}

// SetDefault replaces the process-wide reporter. It is meant for hosts
// that want their own logger or metrics on the package-level API.
func SetDefault(r *Reporter) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultReporter = r
}

// SetLogger points the default reporter's log sink at l. Reporters
// already handed out by Default keep their logger.
func SetLogger(l Logger) {
	r := Default()
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if l == nil || defaultReporter != r {
		return
	}
	next := *r
	next.logger = l
	defaultReporter = &next
}

// SetOutput sets the output of the default store.
func SetOutput(o Output) error { return Default().Store().Set(o) }

// GetOutput returns the output of the default store.
func GetOutput() Output { return Default().Store().Get() }

// RefreshFromEnv re-reads TIMED_OUTPUT into the default store.
func RefreshFromEnv() error { return Default().Store().RefreshFromEnv() }

// Start captures the start instant of one call.
func Start() Timer { return StartTimer() }

// Finish reports the time since t through the default reporter.
func Finish(t Timer, function string, level Level) error {
	return Default().Finish(t, function, level)
}

// Record reports a measured duration through the default reporter.
func Record(function string, level Level, elapsed time.Duration) error {
	return Default().Record(function, level, elapsed)
}

// Do instruments fn with the default reporter.
func Do(ctx context.Context, function string, level Level, fn func(context.Context) error) error {
	return Default().Do(ctx, function, level, fn)
}

// Wrap instruments fn with the default reporter.
func Wrap(function string, level Level, fn func()) func() {
	return Default().Wrap(function, level, fn)
}
