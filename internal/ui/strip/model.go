// Package strip renders one looping marquee strip inside a bubbletea program.
package strip

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/marquee/internal/clock"
	"github.com/andyrewlee/marquee/internal/config"
	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/perf"
	"github.com/andyrewlee/marquee/internal/tiles"
	"github.com/andyrewlee/marquee/internal/ui/common"
	"github.com/andyrewlee/marquee/internal/ui/compositor"
)

// Model is one strip: a Scroller, the clock driving it and its tiles.
type Model struct {
	id       int
	name     string
	scroller *marquee.Scroller
	clock    *TeaClock
	tiles    []*compositor.Canvas
	canvas   *compositor.Canvas
	cache    compositor.RenderCache
	styles   common.Styles

	frame      marquee.Frame
	width      int
	tileHeight int
	paused     bool
	wraps      uint64
	err        error
}

// New builds a stopped strip. Call SetWidth to lay it out and start it.
func New(id int, cfg config.StripConfig, items []config.ItemConfig, interval time.Duration, mode clock.Mode) (*Model, error) {
	item, err := cfg.Item()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ScrollDirection()
	if err != nil {
		return nil, err
	}
	built, err := tiles.Build(items, item)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("strip %d", id+1)
	}
	m := &Model{
		id:     id,
		name:   name,
		clock:  NewTeaClock(id, interval, mode),
		tiles:  built,
		styles: common.DefaultStyles(),
	}
	_, m.tileHeight = tiles.CellSize(item)

	m.scroller, err = marquee.New(len(items), item,
		marquee.WithSpeed(cfg.Speed),
		marquee.WithDirection(dir),
		marquee.WithClock(m.clock),
		marquee.WithFrameInterval(interval),
		marquee.WithUpdateHandler(m.onFrame),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) onFrame(f marquee.Frame) {
	m.frame = f
	if f.Wraps > 0 {
		m.wraps += uint64(f.Wraps)
		perf.Count("strip_wraps", int64(f.Wraps))
	}
}

// SetWidth re-tiles the strip for a new viewport width. A running strip keeps
// running; a paused one shows its reset layout and stays paused. An unchanged
// width is a no-op, so a paused strip keeps its frozen offsets.
func (m *Model) SetWidth(width int) tea.Cmd {
	if width == m.width && m.err == nil && m.canvas != nil &&
		(m.paused || m.scroller.State() == marquee.Running) {
		return nil
	}
	m.width = width
	return m.Restart()
}

// Restart resets every offset for the current width.
func (m *Model) Restart() tea.Cmd {
	m.cache.Invalidate()
	if m.width <= 0 {
		m.scroller.Stop()
		return nil
	}
	if m.canvas == nil {
		m.canvas = compositor.NewCanvas(m.width, m.tileHeight)
	} else {
		m.canvas.Resize(m.width, m.tileHeight)
	}

	if err := m.scroller.Start(float64(m.width)); err != nil {
		m.err = err
		return common.ReportError("strip "+m.name, err)
	}
	m.err = nil
	if m.paused {
		m.scroller.Stop()
		return nil
	}
	return m.clock.Arm()
}

// Toggle pauses or resumes the strip.
func (m *Model) Toggle() tea.Cmd {
	if m.paused {
		return m.Resume()
	}
	m.Pause()
	return nil
}

// Pause freezes the strip in place.
func (m *Model) Pause() {
	m.paused = true
	m.scroller.Stop()
}

// Resume continues from the frozen offsets.
func (m *Model) Resume() tea.Cmd {
	m.paused = false
	if m.err != nil || m.width <= 0 {
		return nil
	}
	if err := m.scroller.Resume(); err != nil {
		return m.Restart()
	}
	return m.clock.Arm()
}

// Close stops the strip for good.
func (m *Model) Close() {
	m.scroller.Stop()
}

// Update handles tick messages addressed to this strip.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		done := perf.Time("strip_tick")
		cmd := m.clock.Handle(msg)
		done()
		return m, cmd
	}
	return m, nil
}

// Height is the number of terminal rows View renders.
func (m *Model) Height() int {
	return m.tileHeight + 1
}

// View renders the header line and the strip body.
func (m *Model) View() string {
	header := m.header()
	if m.err != nil {
		return header + "\n" + m.styles.Error.Render(m.err.Error())
	}
	if m.canvas == nil {
		return header
	}

	if body, ok := m.cache.Get(m.frame.Seq, m.width, m.paused); ok {
		return header + "\n" + body
	}

	done := perf.Time("strip_render")
	m.canvas.Fill(compositor.Style{})
	compositor.ComposeStrip(m.canvas, m.tiles, m.frame.Offsets, 0)
	body := m.canvas.Render()
	done()

	m.cache.Set(m.frame.Seq, m.width, m.paused, body)
	return header + "\n" + body
}

func (m *Model) header() string {
	state := m.styles.StatusRunning.Render("▶")
	if m.paused {
		state = m.styles.StatusPaused.Render("⏸")
	}
	layout := m.frame.Layout
	meta := fmt.Sprintf("%s ×%g  %d×%d  wraps %d",
		m.scroller.Direction(), m.scroller.Speed(), layout.ItemCount, layout.RepetitionCount, m.wraps)
	return strings.Join([]string{state, m.styles.StripTitle.Render(m.name), m.styles.StripMeta.Render(meta)}, " ")
}

// ID identifies the strip's tick messages.
func (m *Model) ID() int { return m.id }

// Name returns the strip's display name.
func (m *Model) Name() string { return m.name }

// Paused reports whether the strip is paused.
func (m *Model) Paused() bool { return m.paused }

// Frame returns the most recent frame.
func (m *Model) Frame() marquee.Frame { return m.frame }

// Wraps returns the total number of wraps since the strip was built.
func (m *Model) Wraps() uint64 { return m.wraps }

// Err returns the last layout error, if any.
func (m *Model) Err() error { return m.err }

// Scroller exposes the underlying engine.
func (m *Model) Scroller() *marquee.Scroller { return m.scroller }

// PlainLines returns the current body without styling.
func (m *Model) PlainLines() []string {
	if m.canvas == nil {
		return nil
	}
	m.canvas.Fill(compositor.Style{})
	compositor.ComposeStrip(m.canvas, m.tiles, m.frame.Offsets, 0)
	m.cache.Invalidate()
	return m.canvas.PlainLines()
}
