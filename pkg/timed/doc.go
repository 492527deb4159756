// Package timed measures how long instrumented functions take and reports
// each call to one process-wide sink: nothing, a log line, or a CSV row.
//
// The sink is chosen with SetOutput or the TIMED_OUTPUT environment
// variable ("off", "tracing"/"log", or a CSV file path):
//
//	timed.SetOutput(timed.CSV("timing_results.csv"))
//
//	func load(ctx context.Context) error {
//		return timed.Do(ctx, "load", timed.LevelDebug, func(ctx context.Context) error {
//			...
//		})
//	}
//
// Hand-written wrappers can call Start and Finish directly:
//
//	t := timed.Start()
//	defer func() { _ = timed.Finish(t, "load", timed.LevelInfo) }()
package timed
