package marquee

import (
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/andyrewlee/marquee/internal/validation"
)

// fakeClock records attachments and fires ticks on demand.
type fakeClock struct {
	mu       sync.Mutex
	fn       func(Tick)
	attaches int
	detaches int
}

func (c *fakeClock) OnTick(fn func(Tick)) {
	c.mu.Lock()
	c.fn = fn
	c.attaches++
	c.mu.Unlock()
}

func (c *fakeClock) Detach() {
	c.mu.Lock()
	c.fn = nil
	c.detaches++
	c.mu.Unlock()
}

func (c *fakeClock) current() func(Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fn
}

func (c *fakeClock) fire(step float64) bool {
	fn := c.current()
	if fn == nil {
		return false
	}
	fn(Tick{Step: step})
	return true
}

func newTestScroller(t *testing.T, itemCount int, opts ...Option) *Scroller {
	t.Helper()
	s, err := New(itemCount, DefaultItem(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewValidatesConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		itemCount int
		item      Item
		opts      []Option
		want      error
	}{
		{"no items", 0, DefaultItem(), nil, ErrNoItems},
		{"zero item", 3, Item{}, nil, validation.ErrInvalid},
		{"zero speed", 3, DefaultItem(), []Option{WithSpeed(0)}, validation.ErrInvalid},
		{"negative speed", 3, DefaultItem(), []Option{WithSpeed(-1)}, validation.ErrInvalid},
		{"nan speed", 3, DefaultItem(), []Option{WithSpeed(math.NaN())}, validation.ErrInvalid},
		{"bad direction", 3, DefaultItem(), []Option{WithDirection(Direction(7))}, validation.ErrInvalid},
		{"bad interval", 3, DefaultItem(), []Option{WithFrameInterval(0)}, validation.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.itemCount, tt.item, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStartRejectsDegenerateViewport(t *testing.T) {
	s := newTestScroller(t, 3)
	for _, vw := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if err := s.Start(vw); !errors.Is(err, ErrInvalidViewport) {
			t.Fatalf("Start(%g) = %v, want ErrInvalidViewport", vw, err)
		}
		if s.State() != Stopped {
			t.Fatalf("state after failed Start = %s", s.State())
		}
	}
}

func TestStartLaysOutAndEmitsInitialFrame(t *testing.T) {
	var frames []Frame
	clock := &fakeClock{}
	s := newTestScroller(t, 3, WithClock(clock), WithUpdateHandler(func(f Frame) { frames = append(frames, f) }))

	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != Running {
		t.Fatalf("state = %s, want running", s.State())
	}
	if len(frames) != 1 || frames[0].Seq != 0 {
		t.Fatalf("expected one initial frame, got %+v", frames)
	}
	layout := s.Layout()
	if layout.RepetitionCount != 2 || layout.MaxOffset != 660 {
		t.Fatalf("unexpected layout %+v", layout)
	}
	if got := len(s.Offsets()); got != 6 {
		t.Fatalf("offset count = %d, want 6", got)
	}
	if clock.attaches != 1 {
		t.Fatalf("clock attaches = %d, want 1", clock.attaches)
	}
}

func TestForwardTickDecrementsEveryOffset(t *testing.T) {
	s := newTestScroller(t, 3, WithSpeed(1))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	before := s.Offsets()

	frame, ok := s.Advance(1)
	if !ok {
		t.Fatalf("Advance reported no-op")
	}
	for i, v := range frame.Offsets {
		if v != before[i]-1 {
			t.Fatalf("offset[%d] = %g, want %g", i, v, before[i]-1)
		}
	}
	if frame.Seq != 1 || frame.Wraps != 0 {
		t.Fatalf("unexpected frame metadata: %+v", frame)
	}
}

func TestBackwardTickIncrementsEveryOffset(t *testing.T) {
	s := newTestScroller(t, 3, WithSpeed(2), WithDirection(Backward))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := s.Offsets()[0]; got != 180 {
		t.Fatalf("first backward offset = %g, want 180", got)
	}
	before := s.Offsets()
	frame, _ := s.Advance(0.5)
	for i, v := range frame.Offsets {
		if v != before[i]+1 {
			t.Fatalf("offset[%d] = %g, want %g", i, v, before[i]+1)
		}
	}
}

func TestForwardWrapLandsExactlyOnMaxOffset(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	stride := s.Item().Stride()
	const epsilon = 0.25

	s.mu.Lock()
	s.offsets[0] = -stride + epsilon
	s.mu.Unlock()

	frame, ok := s.Advance(2 * epsilon)
	if !ok {
		t.Fatalf("Advance reported no-op")
	}
	if frame.Offsets[0] != s.Layout().MaxOffset {
		t.Fatalf("wrapped offset = %g, want exactly %g", frame.Offsets[0], s.Layout().MaxOffset)
	}
	if frame.Wraps != 1 {
		t.Fatalf("wraps = %d, want 1", frame.Wraps)
	}
}

func TestBackwardWrapTarget(t *testing.T) {
	s := newTestScroller(t, 3, WithDirection(Backward))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.mu.Lock()
	s.offsets[0] = 299.5
	s.mu.Unlock()

	frame, _ := s.Advance(1)
	want := -660.0 + (300 - 120) - 12
	if frame.Offsets[0] != want {
		t.Fatalf("backward wrap = %g, want %g", frame.Offsets[0], want)
	}
}

// gapless checks that the sorted offsets form an unbroken chain spaced by stride.
func gapless(t *testing.T, offsets []float64, stride float64, tick int) {
	t.Helper()
	sorted := append([]float64(nil), offsets...)
	sort.Float64s(sorted)
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; math.Abs(d-stride) > 1e-9 {
			t.Fatalf("tick %d: gap %g between %g and %g, want %g", tick, d, sorted[i-1], sorted[i], stride)
		}
	}
}

func TestLongRunStaysGaplessForward(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	stride := s.Item().Stride()
	maxOffset := s.Layout().MaxOffset
	totalWraps := 0

	for tick := 1; tick <= 5000; tick++ {
		frame, ok := s.Advance(1)
		if !ok {
			t.Fatalf("tick %d dropped", tick)
		}
		for i, v := range frame.Offsets {
			if v <= -stride || v > maxOffset {
				t.Fatalf("tick %d: offset[%d]=%g outside (%g, %g]", tick, i, v, -stride, maxOffset)
			}
		}
		gapless(t, frame.Offsets, stride, tick)
		totalWraps += frame.Wraps
	}
	// Each item crosses the leading edge once per full cycle of total×stride.
	wantWraps := 5000 * 6 / int(6*stride)
	if totalWraps < wantWraps-6 || totalWraps > wantWraps+6 {
		t.Fatalf("wraps = %d, expected about %d", totalWraps, wantWraps)
	}
}

func TestLongRunStaysGaplessBackward(t *testing.T) {
	s := newTestScroller(t, 4, WithDirection(Backward))
	if err := s.Start(500); err != nil {
		t.Fatalf("Start: %v", err)
	}
	stride := s.Item().Stride()
	for tick := 1; tick <= 5000; tick++ {
		frame, _ := s.Advance(1)
		for i, v := range frame.Offsets {
			if v >= 500 {
				t.Fatalf("tick %d: offset[%d]=%g not wrapped", tick, i, v)
			}
		}
		gapless(t, frame.Offsets, stride, tick)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	clock := &fakeClock{}
	s := newTestScroller(t, 2, WithClock(clock))
	if err := s.Start(400); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Advance(3)
	s.Stop()
	offsets := s.Offsets()
	s.Stop()

	if s.State() != Stopped {
		t.Fatalf("state = %s", s.State())
	}
	if clock.detaches != 1 {
		t.Fatalf("detaches = %d, want 1", clock.detaches)
	}
	if got := s.Offsets(); !equalOffsets(got, offsets) {
		t.Fatalf("second Stop changed offsets: %v vs %v", got, offsets)
	}
	if _, ok := s.Advance(1); ok {
		t.Fatalf("Advance while stopped should be a no-op")
	}
}

func TestStopInsideHandlerEndsDelivery(t *testing.T) {
	clock := &fakeClock{}
	var s *Scroller
	calls := 0
	s = newTestScroller(t, 3, WithClock(clock), WithUpdateHandler(func(f Frame) {
		if f.Seq == 0 {
			return
		}
		calls++
		s.Stop()
	}))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}

	inFlight := clock.current()
	if !clock.fire(1) {
		t.Fatalf("expected clock to be attached")
	}
	if clock.fire(1) {
		t.Fatalf("clock still attached after Stop")
	}
	// A tick captured before Stop must be dropped as well.
	inFlight(Tick{Step: 1})

	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestStartWhileRunningRestarts(t *testing.T) {
	clock := &fakeClock{}
	frames := 0
	s := newTestScroller(t, 3, WithClock(clock), WithUpdateHandler(func(Frame) { frames++ }))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	stale := clock.current()
	s.Advance(10)

	if err := s.Start(300); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if clock.attaches != 2 || clock.detaches != 1 {
		t.Fatalf("attaches=%d detaches=%d, want 2/1", clock.attaches, clock.detaches)
	}
	if got := s.Offsets()[0]; got != 0 {
		t.Fatalf("restart did not reset offsets: %g", got)
	}

	before := frames
	stale(Tick{Step: 1})
	if frames != before {
		t.Fatalf("tick from the previous attachment was delivered")
	}
	clock.fire(1)
	if frames != before+1 {
		t.Fatalf("tick from the live attachment was not delivered")
	}
}

func TestResizeRecomputesLayout(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Advance(5)
	if err := s.Resize(1000); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	layout := s.Layout()
	// (3×3−1)×132 = 1056 >= 1000, (3×2−1)×132 = 660 < 1000.
	if layout.RepetitionCount != 3 || layout.MaxOffset != 1056 || layout.ViewportWidth != 1000 {
		t.Fatalf("stale layout after resize: %+v", layout)
	}
	if len(s.Offsets()) != 9 {
		t.Fatalf("offsets not re-tiled: %d", len(s.Offsets()))
	}
	if s.State() != Running {
		t.Fatalf("state after resize = %s", s.State())
	}
}

func TestDesyncedTickIsNoOp(t *testing.T) {
	frames := 0
	s := newTestScroller(t, 3, WithUpdateHandler(func(Frame) { frames++ }))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.mu.Lock()
	s.offsets = s.offsets[:4]
	s.mu.Unlock()
	before := s.Offsets()
	emitted := frames

	for i := 0; i < 3; i++ {
		frame, ok := s.Advance(1)
		if ok || !frame.Desynced {
			t.Fatalf("expected desynced no-op, got ok=%v frame=%+v", ok, frame)
		}
	}
	if !equalOffsets(s.Offsets(), before) {
		t.Fatalf("desynced tick mutated offsets")
	}
	if frames != emitted {
		t.Fatalf("desynced tick emitted a frame")
	}

	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := s.Advance(1); !ok {
		t.Fatalf("restart should resynchronize")
	}
}

func TestMalformedOffsetIsReseeded(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.mu.Lock()
	s.offsets[2] = math.NaN()
	s.mu.Unlock()

	frame, ok := s.Advance(1)
	if !ok {
		t.Fatalf("Advance reported no-op")
	}
	if frame.Offsets[2] != s.Layout().MaxOffset {
		t.Fatalf("NaN offset became %g, want wrap target", frame.Offsets[2])
	}
	if frame.Offsets[1] != 131 {
		t.Fatalf("neighbouring offset disturbed: %g", frame.Offsets[1])
	}
}

func TestInvalidStepIsIgnored(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, step := range []float64{-1, math.NaN(), math.Inf(1)} {
		frame, ok := s.Advance(step)
		if !ok || frame.Offsets[0] != 0 {
			t.Fatalf("step %g: ok=%v offset=%g, want unchanged processed tick", step, ok, frame.Offsets[0])
		}
	}
}

func TestTimestampTicksUseElapsedTime(t *testing.T) {
	s := newTestScroller(t, 3, WithSpeed(2), WithFrameInterval(10*time.Millisecond))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t0 := time.Unix(1000, 0)

	frame, _ := s.AdvanceAt(t0)
	if frame.Offsets[0] != 0 {
		t.Fatalf("first timestamp should be a zero step, got %g", frame.Offsets[0])
	}
	frame, _ = s.AdvanceAt(t0.Add(25 * time.Millisecond))
	if frame.Offsets[0] != -5 {
		t.Fatalf("offset after 2.5 frames at speed 2 = %g, want -5", frame.Offsets[0])
	}
	frame, _ = s.AdvanceAt(t0.Add(20 * time.Millisecond))
	if frame.Offsets[0] != -5 {
		t.Fatalf("clock going backwards should not move items, got %g", frame.Offsets[0])
	}

	s.Stop()
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	frame, _ = s.AdvanceAt(t0.Add(time.Hour))
	if frame.Offsets[0] != 0 {
		t.Fatalf("Stop must clear the last timestamp, got %g", frame.Offsets[0])
	}
}

func TestConcurrentTicksAreSerialized(t *testing.T) {
	s := newTestScroller(t, 3)
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Advance(1)
			}
		}()
	}
	wg.Wait()

	frame, _ := s.Advance(0)
	if frame.Seq != 401 {
		t.Fatalf("seq = %d, want 401", frame.Seq)
	}
	gapless(t, frame.Offsets, s.Item().Stride(), int(frame.Seq))
}

func equalOffsets(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResumeKeepsOffsets(t *testing.T) {
	clock := &fakeClock{}
	s := newTestScroller(t, 3, WithClock(clock))
	if err := s.Resume(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Resume before Start = %v, want ErrNotStarted", err)
	}
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	stale := clock.current()
	clock.fire(4)
	s.Stop()
	frozen := s.Offsets()

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.State() != Running || clock.attaches != 2 {
		t.Fatalf("state=%s attaches=%d", s.State(), clock.attaches)
	}
	if got := s.Offsets(); !equalOffsets(got, frozen) {
		t.Fatalf("Resume changed offsets: %v vs %v", got, frozen)
	}
	if err := s.Resume(); err != nil || clock.attaches != 2 {
		t.Fatalf("second Resume should be a no-op: err=%v attaches=%d", err, clock.attaches)
	}

	stale(Tick{Step: 1})
	if got := s.Offsets()[0]; got != frozen[0] {
		t.Fatalf("tick from before Stop was delivered after Resume")
	}
	clock.fire(1)
	if got := s.Offsets()[0]; got != frozen[0]-1 {
		t.Fatalf("offset after resume tick = %g, want %g", got, frozen[0]-1)
	}
}

func TestFailedStartDropsPreviousLayout(t *testing.T) {
	clock := &fakeClock{}
	s := newTestScroller(t, 3, WithClock(clock))
	if err := s.Start(300); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.fire(2)

	huge := DefaultItem().Stride() * MaxRenderedItems * 2
	if err := s.Start(huge); !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("Start(%g) = %v, want ErrTooManyItems", huge, err)
	}
	if s.State() != Stopped {
		t.Fatalf("state after failed Start = %s", s.State())
	}
	if got := s.Layout().Total(); got != 0 || len(s.Offsets()) != 0 {
		t.Fatalf("failed Start kept the old tiling: total=%d offsets=%v", got, s.Offsets())
	}
	if err := s.Resume(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Resume after failed Start = %v, want ErrNotStarted", err)
	}
	if s.State() != Stopped || clock.fire(1) {
		t.Fatal("Resume after failed Start re-attached the clock")
	}

	if err := s.Start(300); err != nil {
		t.Fatalf("Start after failure: %v", err)
	}
	if s.Layout().Total() == 0 || s.State() != Running {
		t.Fatalf("recovery Start did not lay out: %+v", s.Layout())
	}
}
