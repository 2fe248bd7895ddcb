package marquee

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/validation"
)

// DefaultFrameInterval is the nominal tick length used to turn timestamp
// deltas into steps.
const DefaultFrameInterval = time.Second / 60

// State is the lifecycle state of a Scroller.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Tick is one clock event. A zero At means Step is a fixed step; otherwise At
// is an absolute timestamp and the step is derived from the previous one.
type Tick struct {
	Step float64
	At   time.Time
}

// Clock is a periodic tick source. OnTick replaces any previous callback.
// After Detach returns no further callbacks may be delivered.
type Clock interface {
	OnTick(fn func(Tick))
	Detach()
}

// Frame is the state emitted after a processed tick.
type Frame struct {
	Seq      uint64
	Offsets  []float64
	Layout   Layout
	Wraps    int
	Desynced bool
}

// UpdateHandler receives every frame synchronously, on the goroutine that
// delivered the tick. It may call Stop or Start.
type UpdateHandler func(Frame)

type options struct {
	speed         float64
	direction     Direction
	clock         Clock
	frameInterval time.Duration
	onUpdate      UpdateHandler
}

// Option configures a Scroller.
type Option func(*options)

// WithSpeed sets the distance travelled per unit step.
func WithSpeed(speed float64) Option {
	return func(o *options) { o.speed = speed }
}

// WithDirection sets the scroll direction.
func WithDirection(d Direction) Option {
	return func(o *options) { o.direction = d }
}

// WithClock attaches a tick source on Start and detaches it on Stop.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithFrameInterval sets the duration that counts as one step for timestamp ticks.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) { o.frameInterval = d }
}

// WithUpdateHandler registers the frame consumer.
func WithUpdateHandler(fn UpdateHandler) Option {
	return func(o *options) { o.onUpdate = fn }
}

// Scroller owns the offsets of one looping strip and advances them per tick.
type Scroller struct {
	item          Item
	itemCount     int
	speed         float64
	direction     Direction
	frameInterval time.Duration
	clock         Clock
	onUpdate      UpdateHandler

	mu           sync.Mutex
	state        State
	gen          uint64
	layout       Layout
	offsets      []float64
	lastTick     time.Time
	seq          uint64
	desyncLogged bool
}

// New validates the configuration and returns a stopped Scroller.
func New(itemCount int, item Item, opts ...Option) (*Scroller, error) {
	o := options{
		speed:         1,
		direction:     Forward,
		frameInterval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if itemCount < 1 {
		return nil, fmt.Errorf("%w: item count %d", ErrNoItems, itemCount)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("speed", o.speed); err != nil {
		return nil, err
	}
	if o.direction != Forward && o.direction != Backward {
		return nil, validation.Invalid("direction", "unknown direction %d", int(o.direction))
	}
	if o.frameInterval <= 0 {
		return nil, validation.Invalid("frame_interval", "must be positive (got %s)", o.frameInterval)
	}

	return &Scroller{
		item:          item,
		itemCount:     itemCount,
		speed:         o.speed,
		direction:     o.direction,
		frameInterval: o.frameInterval,
		clock:         o.clock,
		onUpdate:      o.onUpdate,
	}, nil
}

// Start stops any running animation, re-tiles for viewportWidth, resets every
// offset and attaches the clock. The initial frame is emitted before Start
// returns. A tiling error leaves the scroller stopped with no layout, so Resume
// returns ErrNotStarted until the next successful Start.
func (s *Scroller) Start(viewportWidth float64) error {
	if math.IsNaN(viewportWidth) || math.IsInf(viewportWidth, 0) || viewportWidth <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidViewport, viewportWidth)
	}
	s.Stop()

	layout, err := ComputeLayout(s.itemCount, s.item, viewportWidth)
	if err != nil {
		s.mu.Lock()
		s.layout = Layout{}
		s.offsets = nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.layout = layout
	s.offsets = InitialOffsets(layout.Total(), s.direction, s.item.Width(), s.item.Spacing(), viewportWidth)
	s.lastTick = time.Time{}
	s.seq = 0
	s.desyncLogged = false
	s.state = Running
	frame := s.frameLocked(0, false)
	s.mu.Unlock()

	logging.Debug("marquee start: viewport=%g items=%d reps=%d max=%g dir=%s",
		viewportWidth, layout.ItemCount, layout.RepetitionCount, layout.MaxOffset, s.direction)

	if s.clock != nil {
		s.clock.OnTick(func(t Tick) { s.deliver(gen, t) })
	}
	s.emit(frame)
	return nil
}

// Resize re-tiles for a new viewport width. It is Stop followed by Start.
func (s *Scroller) Resize(viewportWidth float64) error {
	return s.Start(viewportWidth)
}

// Stop detaches the clock and freezes the offsets. Calling it again, or from
// inside the update handler, is safe.
func (s *Scroller) Stop() {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = Stopped
	s.gen++
	s.lastTick = time.Time{}
	s.mu.Unlock()

	if s.clock != nil {
		s.clock.Detach()
	}
}

// Resume re-attaches the clock after Stop without resetting the offsets.
// The first timestamp tick after Resume advances by zero. Resuming a running
// scroller is a no-op; one that was never started returns ErrNotStarted.
func (s *Scroller) Resume() error {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return nil
	}
	if s.layout.Total() == 0 {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.gen++
	gen := s.gen
	s.lastTick = time.Time{}
	s.state = Running
	s.mu.Unlock()

	if s.clock != nil {
		s.clock.OnTick(func(t Tick) { s.deliver(gen, t) })
	}
	return nil
}

// Advance applies one fixed step. It is a no-op while stopped.
func (s *Scroller) Advance(step float64) (Frame, bool) {
	return s.process(Tick{Step: step})
}

// AdvanceAt applies a timestamp tick; the step is the time since the previous
// timestamp divided by the frame interval.
func (s *Scroller) AdvanceAt(at time.Time) (Frame, bool) {
	return s.process(Tick{At: at})
}

func (s *Scroller) process(t Tick) (Frame, bool) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.deliver(gen, t)
}

// deliver handles a tick for attachment gen; ticks from an older attachment
// are dropped.
func (s *Scroller) deliver(gen uint64, t Tick) (Frame, bool) {
	s.mu.Lock()
	if s.gen != gen || s.state != Running {
		s.mu.Unlock()
		return Frame{}, false
	}
	frame := s.advanceLocked(s.stepLocked(t))
	s.mu.Unlock()

	if frame.Desynced {
		return frame, false
	}
	s.emit(frame)
	return frame, true
}

func (s *Scroller) stepLocked(t Tick) float64 {
	step := t.Step
	if !t.At.IsZero() {
		step = 0
		if !s.lastTick.IsZero() {
			if delta := t.At.Sub(s.lastTick); delta > 0 {
				step = float64(delta) / float64(s.frameInterval)
			}
		}
		s.lastTick = t.At
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step < 0 {
		logging.Debug("marquee: ignoring invalid step %g", step)
		return 0
	}
	return step
}

func (s *Scroller) advanceLocked(step float64) Frame {
	if len(s.offsets) != s.layout.Total() {
		if !s.desyncLogged {
			logging.Warn("marquee: offsets out of sync (have %d, want %d); skipping ticks until restart",
				len(s.offsets), s.layout.Total())
			s.desyncLogged = true
		}
		return s.frameLocked(0, true)
	}

	delta := s.direction.Sign() * s.speed * step
	target := WrapTarget(s.direction, s.layout, s.item)
	wraps := 0
	for i, v := range s.offsets {
		v += delta
		if math.IsNaN(v) || math.IsInf(v, 0) || exited(s.direction, v, s.layout, s.item) {
			v = target
			wraps++
		}
		s.offsets[i] = v
	}
	s.seq++
	return s.frameLocked(wraps, false)
}

func (s *Scroller) frameLocked(wraps int, desynced bool) Frame {
	offsets := make([]float64, len(s.offsets))
	copy(offsets, s.offsets)
	return Frame{
		Seq:      s.seq,
		Offsets:  offsets,
		Layout:   s.layout,
		Wraps:    wraps,
		Desynced: desynced,
	}
}

func (s *Scroller) emit(f Frame) {
	if s.onUpdate != nil {
		s.onUpdate(f)
	}
}

// State returns the lifecycle state.
func (s *Scroller) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Offsets returns a copy of the current offsets.
func (s *Scroller) Offsets() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.offsets))
	copy(out, s.offsets)
	return out
}

// Layout returns the tiling from the last Start.
func (s *Scroller) Layout() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

func (s *Scroller) Item() Item           { return s.item }
func (s *Scroller) ItemCount() int       { return s.itemCount }
func (s *Scroller) Direction() Direction { return s.direction }
func (s *Scroller) Speed() float64       { return s.speed }
