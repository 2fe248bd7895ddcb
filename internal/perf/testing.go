package perf

import "time"

// StatSnapshot captures duration stats for one named timing.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// CounterSnapshot captures a named counter.
type CounterSnapshot struct {
	Name  string
	Value int64
}

// EnableForTest forces collection on with periodic logging disabled.
// It returns a restore function that also discards collected data.
func EnableForTest() func() {
	prevEnabled := enabled.Load()
	prevInterval := logInterval.Load()
	enabled.Store(true)
	logInterval.Store(0)
	lastLog.Store(0)
	Snapshot()
	return func() {
		Snapshot()
		enabled.Store(prevEnabled)
		logInterval.Store(prevInterval)
	}
}
