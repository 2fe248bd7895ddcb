package clock

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/safego"
)

// Mode selects what a Ticker reports per tick.
type Mode int

const (
	// ModeFixed reports a constant step of 1 per tick.
	ModeFixed Mode = iota
	// ModeTimestamp reports the wall-clock time of each tick.
	ModeTimestamp
)

// ParseMode maps "fixed"/"timestamp" to a Mode; anything else is fixed.
func ParseMode(s string) Mode {
	if s == "timestamp" {
		return ModeTimestamp
	}
	return ModeFixed
}

func (m Mode) String() string {
	if m == ModeTimestamp {
		return "timestamp"
	}
	return "fixed"
}

// Ticker is a marquee.Clock backed by time.Ticker. Ticks are delivered one at
// a time from a single goroutine per attachment.
type Ticker struct {
	interval time.Duration
	mode     Mode

	mu  sync.Mutex
	fn  func(marquee.Tick)
	att *attachment
}

// attachment is one OnTick registration and the goroutine serving it.
type attachment struct {
	stop chan struct{}
	done <-chan struct{}
	gid  atomic.Uint64
}

// NewTicker returns a detached ticker.
func NewTicker(interval time.Duration, mode Mode) *Ticker {
	if interval <= 0 {
		interval = marquee.DefaultFrameInterval
	}
	return &Ticker{interval: interval, mode: mode}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration { return t.interval }

// OnTick attaches fn, replacing any previous attachment.
func (t *Ticker) OnTick(fn func(marquee.Tick)) {
	t.Detach()
	if fn == nil {
		return
	}

	att := &attachment{stop: make(chan struct{})}
	t.mu.Lock()
	t.fn = fn
	t.att = att
	att.done = safego.Go("clock-ticker", func() { t.run(att) })
	t.mu.Unlock()
}

// Detach stops delivery. Called from any goroutine but the tick goroutine it
// waits until that goroutine has exited, so no callback is running or can
// start once it returns. Called from inside a callback it only prevents
// further ticks.
func (t *Ticker) Detach() {
	t.mu.Lock()
	att := t.att
	t.fn = nil
	t.att = nil
	t.mu.Unlock()

	if att == nil {
		return
	}
	close(att.stop)
	if att.gid.Load() != goroutineID() {
		<-att.done
	}
}

// Attached reports whether a callback is registered.
func (t *Ticker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

func (t *Ticker) run(att *attachment) {
	att.gid.Store(goroutineID())
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-att.stop:
			return
		case now := <-tk.C:
			if !t.deliver(att, now) {
				return
			}
		}
	}
}

// deliver invokes the callback unless att has been detached.
func (t *Ticker) deliver(att *attachment, now time.Time) bool {
	t.mu.Lock()
	if t.att != att || t.fn == nil {
		t.mu.Unlock()
		return false
	}
	fn := t.fn
	t.mu.Unlock()

	tick := marquee.Tick{Step: 1}
	if t.mode == ModeTimestamp {
		tick = marquee.Tick{At: now}
	}
	if safego.Run("clock-tick", func() { fn(tick) }) {
		logging.Warn("clock: tick callback panicked at %s", now.Format(time.RFC3339Nano))
	}
	return true
}

// goroutineID parses the calling goroutine's id from its stack header
// ("goroutine 42 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
