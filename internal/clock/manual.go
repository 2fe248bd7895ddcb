package clock

import (
	"sync"
	"time"

	"github.com/andyrewlee/marquee/internal/marquee"
)

// Manual is a marquee.Clock that only ticks when told to. The harness and
// tests use it to step animations deterministically.
type Manual struct {
	mu       sync.Mutex
	fn       func(marquee.Tick)
	now      time.Time
	interval time.Duration
	fired    uint64
}

// NewManual returns a detached manual clock whose timestamps start at start
// and advance by interval per Step.
func NewManual(start time.Time, interval time.Duration) *Manual {
	if interval <= 0 {
		interval = marquee.DefaultFrameInterval
	}
	return &Manual{now: start, interval: interval}
}

func (m *Manual) OnTick(fn func(marquee.Tick)) {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
}

func (m *Manual) Detach() {
	m.mu.Lock()
	m.fn = nil
	m.mu.Unlock()
}

// Attached reports whether a callback is registered.
func (m *Manual) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Fired returns the number of ticks delivered so far.
func (m *Manual) Fired() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired
}

// Fire delivers t to the attached callback, if any. The callback runs without
// the clock lock held so it may Detach.
func (m *Manual) Fire(t marquee.Tick) bool {
	m.mu.Lock()
	fn := m.fn
	if fn != nil {
		m.fired++
	}
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(t)
	return true
}

// Step fires n fixed ticks of step 1, stopping early once detached.
// It returns how many were delivered.
func (m *Manual) Step(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if !m.Fire(marquee.Tick{Step: 1}) {
			break
		}
		delivered++
	}
	return delivered
}

// StepTime advances the manual time by one interval and fires a timestamp tick.
func (m *Manual) StepTime() bool {
	m.mu.Lock()
	m.now = m.now.Add(m.interval)
	at := m.now
	m.mu.Unlock()
	return m.Fire(marquee.Tick{At: at})
}
