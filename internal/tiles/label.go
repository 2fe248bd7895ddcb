package tiles

import (
	"image/color"

	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/marquee/internal/ui/compositor"
	"github.com/andyrewlee/marquee/internal/validation"
)

// Label renders text centred on a w×h block of bg. Tiles at least 3 cells in
// both directions get a border; text wider than the interior is truncated
// with an ellipsis.
func Label(text string, bg color.Color, w, h int) *compositor.Canvas {
	tile := compositor.NewCanvas(w, h)
	w, h = tile.Width, tile.Height

	fill := compositor.Style{Bg: bg}
	tile.Fill(fill)

	innerX, innerY, innerW, innerH := 0, 0, w, h
	if w >= 3 && h >= 3 {
		tile.DrawBorder(0, 0, w, h, compositor.Style{Fg: BorderColor(bg), Bg: bg})
		innerX, innerY, innerW, innerH = 1, 1, w-2, h-2
	}

	text = validation.SanitizeLabel(text)
	if text == "" {
		return tile
	}
	text = ansi.Truncate(text, innerW, "…")
	textW := ansi.StringWidth(text)
	x := innerX + (innerW-textW)/2
	y := innerY + (innerH-1)/2
	tile.DrawText(x, y, text, compositor.Style{Fg: Contrast(bg), Bg: bg, Bold: true})
	return tile
}
