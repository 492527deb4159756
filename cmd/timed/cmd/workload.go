package cmd

import (
	"context"
	"time"

	"github.com/nikkolasg/timed/pkg/timed"
)

// Sample workloads timed by `timed run`. Their names are what shows up in
// the log lines and CSV rows.
const (
	defaultLevelFunc = "sample_default_level"
	debugLevelFunc   = "sample_debug_level"
)

func sampleDefaultLevel(ctx context.Context, r *timed.Reporter, d time.Duration) error {
	return r.Do(ctx, defaultLevelFunc, timed.LevelInfo, func(ctx context.Context) error {
		return sleep(ctx, d)
	})
}

func sampleDebugLevel(ctx context.Context, r *timed.Reporter, d time.Duration) error {
	return r.Do(ctx, debugLevelFunc, timed.LevelDebug, func(ctx context.Context) error {
		return sleep(ctx, d/2)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
