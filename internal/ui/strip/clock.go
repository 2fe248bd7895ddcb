package strip

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/marquee/internal/clock"
	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/ui/common"
)

// TickMsg is one animation tick for the TeaClock with the matching ID.
// Gen identifies the attachment that armed it.
type TickMsg struct {
	ID  int
	Gen uint64
	At  time.Time
}

// TeaClock is a marquee.Clock driven by tea.Tick commands instead of a
// goroutine, so ticks are processed on the bubbletea update loop. At most one
// tick is in flight per attachment; ticks from an older attachment are
// dropped and never re-armed.
type TeaClock struct {
	id       int
	interval time.Duration
	mode     clock.Mode

	mu    sync.Mutex
	fn    func(marquee.Tick)
	gen   uint64
	armed bool
}

// NewTeaClock returns a detached clock. id must be unique per program.
func NewTeaClock(id int, interval time.Duration, mode clock.Mode) *TeaClock {
	if interval <= 0 {
		interval = marquee.DefaultFrameInterval
	}
	return &TeaClock{id: id, interval: interval, mode: mode}
}

func (c *TeaClock) OnTick(fn func(marquee.Tick)) {
	c.mu.Lock()
	c.gen++
	c.fn = fn
	c.armed = false
	c.mu.Unlock()
}

func (c *TeaClock) Detach() {
	c.mu.Lock()
	c.gen++
	c.fn = nil
	c.armed = false
	c.mu.Unlock()
}

// Attached reports whether a callback is registered.
func (c *TeaClock) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fn != nil
}

// Arm returns the command for the next tick, or nil when detached or when a
// tick for the current attachment is already in flight.
func (c *TeaClock) Arm() tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fn == nil || c.armed {
		return nil
	}
	c.armed = true
	id, gen := c.id, c.gen
	return common.SafeTick(c.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen, At: t}
	})
}

// Handle delivers msg to the attached callback and re-arms. Messages for
// another clock or an older attachment return nil.
func (c *TeaClock) Handle(msg TickMsg) tea.Cmd {
	c.mu.Lock()
	if msg.ID != c.id || msg.Gen != c.gen || c.fn == nil {
		c.mu.Unlock()
		return nil
	}
	c.armed = false
	fn := c.fn
	c.mu.Unlock()

	tick := marquee.Tick{Step: 1}
	if c.mode == clock.ModeTimestamp {
		tick = marquee.Tick{At: msg.At}
	}
	fn(tick)
	return c.Arm()
}
