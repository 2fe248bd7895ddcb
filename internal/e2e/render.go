// Package e2e renders program views the way a terminal would, for end-to-end
// assertions on what the user actually sees.
package e2e

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// RenderViewToBuffer renders a tea.View into a UV buffer for inspection.
func RenderViewToBuffer(view tea.View, width, height int) *uv.Buffer {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	content := normalizeSnapshotContent(view.Content)
	buf := uv.NewBuffer(width, height)
	styled := uv.NewStyledString(content)
	screen := bufferScreen{Buffer: buf}
	styled.Draw(screen, uv.Rect(0, 0, width, height))
	return screen.Buffer
}

// BufferToASCII converts a UV buffer to ASCII text. Trailing spaces are trimmed.
func BufferToASCII(buf *uv.Buffer) string {
	if buf == nil {
		return ""
	}
	lines := make([]string, 0, len(buf.Lines))
	for _, line := range buf.Lines {
		var b strings.Builder
		for _, cell := range line {
			if cell.Width == 0 {
				continue
			}
			content := cell.Content
			if content == "" {
				content = " "
			}
			if !isASCII(content) {
				b.WriteByte('?')
				continue
			}
			b.WriteString(content)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// StyledCells counts cells in buf that carry a foreground or background color.
func StyledCells(buf *uv.Buffer) int {
	if buf == nil {
		return 0
	}
	n := 0
	for _, line := range buf.Lines {
		for _, cell := range line {
			if cell.Style.Fg != nil || cell.Style.Bg != nil {
				n++
			}
		}
	}
	return n
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

func normalizeSnapshotContent(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r > 0x7f {
			return '?'
		}
		return r
	}, s)
}

type bufferScreen struct {
	*uv.Buffer
}

func (b bufferScreen) WidthMethod() uv.WidthMethod {
	return ansi.GraphemeWidth
}
