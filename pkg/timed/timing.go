package timed

import "time"

// Timer marks the start of one timed call.
// time.Now carries a monotonic reading, so Elapsed is unaffected by
// wall-clock adjustments made while the call runs.
type Timer struct {
	start time.Time
}

// StartTimer captures the current monotonic instant.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// StartedAt returns the instant the timer was started.
func (t Timer) StartedAt() time.Time {
	return t.start
}

// Elapsed returns the time since the timer started. A zero Timer reports 0.
func (t Timer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	d := time.Since(t.start)
	if d < 0 {
		return 0
	}
	return d
}

// Sample is one timing fact. It is created per call, handed to the
// active sink and never kept.
type Sample struct {
	Function string
	Elapsed  time.Duration
	Level    Level
}

// Millis returns the elapsed time in fractional milliseconds.
func (s Sample) Millis() float64 {
	return float64(s.Elapsed) / float64(time.Millisecond)
}
