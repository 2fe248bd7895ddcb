package app

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/marquee/internal/clock"
	"github.com/andyrewlee/marquee/internal/config"
	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/perf"
	"github.com/andyrewlee/marquee/internal/tiles"
	"github.com/andyrewlee/marquee/internal/ui/common"
	"github.com/andyrewlee/marquee/internal/ui/compositor"
)

// HarnessOptions configures the headless harness.
type HarnessOptions struct {
	Width      int
	ConfigPath string // empty uses the built-in defaults
	Clock      string // overrides the configured clock when set
}

// Harness steps every configured strip with manual clocks and renders the
// result without a terminal, for profiling and golden dumps.
type Harness struct {
	width  int
	mode   clock.Mode
	strips []*harnessStrip
	styles common.Styles
}

type harnessStrip struct {
	name     string
	scroller *marquee.Scroller
	clock    *clock.Manual
	tiles    []*compositor.Canvas
	canvas   *compositor.Canvas
	frame    marquee.Frame
	wraps    int
}

// NewHarness builds and starts every strip at the requested width.
func NewHarness(opts HarnessOptions) (*Harness, error) {
	if opts.Width <= 0 {
		opts.Width = 120
	}

	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	if opts.Clock != "" {
		cfg.Clock = opts.Clock
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	h := &Harness{
		width:  opts.Width,
		mode:   clock.ParseMode(cfg.Clock),
		styles: common.DefaultStyles(),
	}
	start := time.Unix(0, 0)
	for i, sc := range cfg.Strips {
		hs, err := newHarnessStrip(i, sc, cfg, start)
		if err != nil {
			return nil, fmt.Errorf("strips[%d]: %w", i, err)
		}
		if err := hs.scroller.Start(float64(h.width)); err != nil {
			return nil, fmt.Errorf("strips[%d]: %w", i, err)
		}
		h.strips = append(h.strips, hs)
	}
	return h, nil
}

func newHarnessStrip(i int, sc config.StripConfig, cfg *config.Config, start time.Time) (*harnessStrip, error) {
	item, err := sc.Item()
	if err != nil {
		return nil, err
	}
	dir, err := sc.ScrollDirection()
	if err != nil {
		return nil, err
	}
	items := cfg.ItemsFor(sc)
	built, err := tiles.Build(items, item)
	if err != nil {
		return nil, err
	}
	_, hgt := tiles.CellSize(item)

	name := sc.Name
	if name == "" {
		name = fmt.Sprintf("strip %d", i+1)
	}
	hs := &harnessStrip{
		name:  name,
		clock: clock.NewManual(start, cfg.TickInterval()),
		tiles: built,
	}
	hs.scroller, err = marquee.New(len(items), item,
		marquee.WithSpeed(sc.Speed),
		marquee.WithDirection(dir),
		marquee.WithClock(hs.clock),
		marquee.WithFrameInterval(cfg.TickInterval()),
		marquee.WithUpdateHandler(func(f marquee.Frame) {
			hs.frame = f
			hs.wraps += f.Wraps
		}),
	)
	if err != nil {
		return nil, err
	}
	hs.canvas = compositor.NewCanvas(0, hgt)
	return hs, nil
}

// Step advances every strip by one tick.
func (h *Harness) Step() {
	for _, s := range h.strips {
		if h.mode == clock.ModeTimestamp {
			s.clock.StepTime()
			continue
		}
		s.clock.Step(1)
	}
}

// Resize re-tiles every strip for a new width.
func (h *Harness) Resize(width int) error {
	h.width = width
	for _, s := range h.strips {
		if err := s.scroller.Resize(float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the composed view of every strip, clamped to the width.
func (h *Harness) Render() tea.View {
	defer perf.Time("harness_render")()

	var lines []string
	for i, s := range h.strips {
		for g := 0; i > 0 && g < stripGap; g++ {
			lines = append(lines, "")
		}
		header := h.styles.StripTitle.Render(s.name) + " " +
			h.styles.StripMeta.Render(fmt.Sprintf("wraps %d", s.wraps))
		lines = append(lines, header)
		lines = append(lines, strings.Split(s.compose(h.width).Render(), "\n")...)
	}
	var view tea.View
	view.SetContent(strings.Join(clampLines(lines, h.width, -1), "\n"))
	return view
}

// Plain returns the current render with all styling removed.
func (h *Harness) Plain() string {
	return ansi.Strip(h.Render().Content)
}

// Frames returns the latest frame of each strip.
func (h *Harness) Frames() []marquee.Frame {
	out := make([]marquee.Frame, len(h.strips))
	for i, s := range h.strips {
		out[i] = s.frame
	}
	return out
}

// Close stops every strip.
func (h *Harness) Close() {
	for _, s := range h.strips {
		s.scroller.Stop()
	}
}

func (s *harnessStrip) compose(width int) *compositor.Canvas {
	s.canvas.Resize(width, s.canvas.Height)
	s.canvas.Fill(compositor.Style{})
	compositor.ComposeStrip(s.canvas, s.tiles, s.frame.Offsets, 0)
	return s.canvas
}
