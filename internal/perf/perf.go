package perf

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/marquee/internal/logging"
)

const (
	sampleWindow      = 256
	defaultIntervalMs = 5000
)

// series is a rolling window of duration samples plus running totals.
type series struct {
	count   int64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	samples [sampleWindow]time.Duration
	next    int
	full    bool
}

func (s *series) add(d time.Duration) {
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.samples[s.next] = d
	s.next++
	if s.next == sampleWindow {
		s.next = 0
		s.full = true
	}
}

func (s *series) window() []time.Duration {
	if s.full {
		return s.samples[:]
	}
	return s.samples[:s.next]
}

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	timings  = map[string]*series{}
	counters = map[string]int64{}
)

func init() {
	enabled.Store(isEnabled())
	logInterval.Store(int64(defaultLogInterval()))
}

// Enabled reports whether profiling is enabled.
func Enabled() bool {
	return enabled.Load()
}

// Time returns a function that records elapsed time when invoked.
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Record(name, time.Since(start))
	}
}

// Record captures a duration sample for the given name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	s, ok := timings[name]
	if !ok {
		s = &series{}
		timings[name] = s
	}
	s.add(d)
	mu.Unlock()

	maybeLog()
}

// Count increments a named counter by delta.
func Count(name string, delta int64) {
	if !enabled.Load() || delta == 0 {
		return
	}
	mu.Lock()
	counters[name] += delta
	mu.Unlock()

	maybeLog()
}

func maybeLog() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < interval {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	emit("PERF")
}

// Flush logs a summary of current stats/counters immediately.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	prefix := "PERF SUMMARY"
	if reason = strings.TrimSpace(reason); reason != "" {
		prefix += " " + reason
	}
	emit(prefix)
}

func emit(prefix string) {
	stats, counts := Snapshot()
	for _, s := range stats {
		logging.Info("%s %s count=%d avg=%s p95=%s min=%s max=%s",
			prefix, s.Name, s.Count, s.Avg, s.P95, s.Min, s.Max)
	}
	for _, c := range counts {
		logging.Info("%s %s count=%d", prefix, c.Name, c.Value)
	}
}

// Snapshot returns current stats/counters sorted by name and resets them.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	mu.Lock()
	stats := make([]StatSnapshot, 0, len(timings))
	for name, s := range timings {
		if s.count == 0 {
			continue
		}
		stats = append(stats, StatSnapshot{
			Name:  name,
			Count: s.count,
			Avg:   s.total / time.Duration(s.count),
			Min:   s.min,
			Max:   s.max,
			P95:   computeP95(s.window()),
		})
	}
	counts := make([]CounterSnapshot, 0, len(counters))
	for name, v := range counters {
		if v != 0 {
			counts = append(counts, CounterSnapshot{Name: name, Value: v})
		}
	}
	timings = map[string]*series{}
	counters = map[string]int64{}
	mu.Unlock()

	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	sort.Slice(counts, func(i, j int) bool { return counts[i].Name < counts[j].Name })
	return stats, counts
}

func computeP95(samples []time.Duration) time.Duration {
	n := len(samples)
	if n == 0 {
		return 0
	}
	window := make([]time.Duration, n)
	copy(window, samples)
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	pos := int(math.Ceil(0.95*float64(n))) - 1
	pos = max(0, min(pos, n-1))
	return window[pos]
}

func isEnabled() bool {
	raw := strings.TrimSpace(os.Getenv("MARQUEE_PROFILE"))
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func defaultLogInterval() time.Duration {
	interval := defaultIntervalMs
	if raw := strings.TrimSpace(os.Getenv("MARQUEE_PROFILE_INTERVAL_MS")); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			interval = val
		}
	}
	return time.Duration(interval) * time.Millisecond
}
