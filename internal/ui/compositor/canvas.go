package compositor

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Style is the visual attribute set of a cell. Nil colors mean terminal default.
type Style struct {
	Fg   color.Color
	Bg   color.Color
	Bold bool
}

// Equal compares two styles by resolved color values.
func (s Style) Equal(o Style) bool {
	return s.Bold == o.Bold && colorEqual(s.Fg, o.Fg) && colorEqual(s.Bg, o.Bg)
}

func (s Style) lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != nil {
		st = st.Foreground(s.Fg)
	}
	if s.Bg != nil {
		st = st.Background(s.Bg)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	return st
}

func colorEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// Cell is one terminal column. Width 0 marks the trailing half of a wide rune.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

func blankCell(style Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: style}
}

// Canvas is a fixed-size buffer of styled cells.
type Canvas struct {
	Width  int
	Height int
	Cells  [][]Cell

	// renderBuffers keep two frames alive so the previous output stays valid
	// while the next one is built.
	renderBuffers    [2]strings.Builder
	renderBufferNext int
}

// NewCanvas creates a new canvas filled with blank cells.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.alloc(width, height)
	return c
}

func (c *Canvas) alloc(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	rows := make([][]Cell, height)
	for y := range rows {
		row := make([]Cell, width)
		for x := range row {
			row[x] = blankCell(Style{})
		}
		rows[y] = row
	}
	c.Width = width
	c.Height = height
	c.Cells = rows
}

// Resize resets the canvas dimensions when the size changes.
func (c *Canvas) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == c.Width && height == c.Height {
		return
	}
	c.alloc(width, height)
}

// Fill sets the entire canvas to blank cells of the given style.
func (c *Canvas) Fill(style Style) {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.Cells[y][x] = blankCell(style)
		}
	}
}

// SetCell sets a cell if within bounds.
func (c *Canvas) SetCell(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Cells[y][x] = cell
}

// DrawText draws a string starting at the given position. Wide runes that do
// not fit are dropped.
func (c *Canvas) DrawText(x, y int, text string, style Style) {
	if y < 0 || y >= c.Height {
		return
	}

	col := x
	for _, r := range text {
		if col >= c.Width {
			break
		}
		width := runewidth.RuneWidth(r)
		if width <= 0 {
			continue
		}
		if col+width > c.Width {
			break
		}
		c.SetCell(col, y, Cell{Rune: r, Width: width, Style: style})
		if width == 2 {
			c.SetCell(col+1, y, Cell{Width: 0, Style: style})
		}
		col += width
	}
}

// DrawBorder draws a rounded single-line border.
func (c *Canvas) DrawBorder(x, y, w, h int, style Style) {
	if w < 2 || h < 2 {
		return
	}

	const (
		tl, tr, bl, br = '╭', '╮', '╰', '╯'
		hline, vline   = '─', '│'
	)

	// Corners
	c.SetCell(x, y, Cell{Rune: tl, Width: 1, Style: style})
	c.SetCell(x+w-1, y, Cell{Rune: tr, Width: 1, Style: style})
	c.SetCell(x, y+h-1, Cell{Rune: bl, Width: 1, Style: style})
	c.SetCell(x+w-1, y+h-1, Cell{Rune: br, Width: 1, Style: style})

	// Horizontal lines
	for cx := x + 1; cx < x+w-1; cx++ {
		c.SetCell(cx, y, Cell{Rune: hline, Width: 1, Style: style})
		c.SetCell(cx, y+h-1, Cell{Rune: hline, Width: 1, Style: style})
	}

	// Vertical lines
	for cy := y + 1; cy < y+h-1; cy++ {
		c.SetCell(x, cy, Cell{Rune: vline, Width: 1, Style: style})
		c.SetCell(x+w-1, cy, Cell{Rune: vline, Width: 1, Style: style})
	}
}

// Blit copies src onto c with its top-left corner at (x, y), clipping to c.
// A wide rune cut by either edge is replaced with a blank of the same style.
func (c *Canvas) Blit(src *Canvas, x, y int) {
	if src == nil {
		return
	}
	for row := 0; row < src.Height; row++ {
		ty := y + row
		if ty < 0 || ty >= c.Height {
			continue
		}
		line := src.Cells[row]
		for col := 0; col < src.Width; col++ {
			tx := x + col
			if tx < 0 || tx >= c.Width {
				continue
			}
			cell := line[col]
			switch {
			case cell.Width == 2 && tx+1 >= c.Width:
				cell = blankCell(cell.Style)
			case cell.Width == 0 && (tx == 0 || col == 0):
				cell = blankCell(cell.Style)
			}
			c.Cells[ty][tx] = cell
		}
	}
}

// PlainLines returns the canvas text without styling, one string per row.
func (c *Canvas) PlainLines() []string {
	lines := make([]string, c.Height)
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		b.Reset()
		for _, cell := range c.Cells[y] {
			if cell.Width == 0 {
				continue
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		lines[y] = b.String()
	}
	return lines
}

// Render converts the canvas to an ANSI string, emitting one styled segment
// per run of equal styles.
func (c *Canvas) Render() string {
	b := &c.renderBuffers[c.renderBufferNext]
	c.renderBufferNext = (c.renderBufferNext + 1) % len(c.renderBuffers)
	b.Reset()
	b.Grow(c.Width * c.Height * 2)

	var run strings.Builder
	for y := 0; y < c.Height; y++ {
		run.Reset()
		var runStyle Style
		for x := 0; x < c.Width; x++ {
			cell := c.Cells[y][x]
			if cell.Width == 0 {
				continue
			}
			if run.Len() > 0 && !cell.Style.Equal(runStyle) {
				b.WriteString(runStyle.lipgloss().Render(run.String()))
				run.Reset()
			}
			if run.Len() == 0 {
				runStyle = cell.Style
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			run.WriteRune(r)
		}
		if run.Len() > 0 {
			b.WriteString(runStyle.lipgloss().Render(run.String()))
		}
		if y < c.Height-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
