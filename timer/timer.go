// Package timer measures wall-clock time between a start and a stop mark.
package timer

import "time"

// Timer tracks the span between the last calls to Start and Stop.
// A Timer is meant for a single timing pass.
type Timer struct {
	clock Clock
	start time.Time
	end   time.Time

	started bool
	stopped bool
}

// New creates a Timer reading from clock. A nil clock uses the system
// clock.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}

	return &Timer{clock: clock}
}

// Start records the start mark, replacing any earlier one.
func (t *Timer) Start() {
	t.start = t.clock.Now()
	t.started = true
}

// Stop records the end mark. It may be called without Start.
func (t *Timer) Stop() {
	t.end = t.clock.Now()
	t.stopped = true
}

// Elapsed returns the span between the start and end marks. It is zero
// until both marks have been recorded.
func (t *Timer) Elapsed() time.Duration {
	if !t.started || !t.stopped {
		return 0
	}

	return t.end.Sub(t.start)
}

// Milliseconds returns Elapsed truncated to whole milliseconds.
func (t *Timer) Milliseconds() int64 {
	return t.Elapsed().Milliseconds()
}

// Measure times a single call to fn.
func (t *Timer) Measure(fn func()) {
	t.Start()
	defer t.Stop()
	fn()
}
