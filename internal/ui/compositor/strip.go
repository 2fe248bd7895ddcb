package compositor

import "math"

// ComposeStrip draws tiles onto dst at row y. Rendered item i shows tile
// i mod len(tiles) with its leading edge at column floor(offsets[i]).
// Items wholly outside the canvas are skipped.
func ComposeStrip(dst *Canvas, tiles []*Canvas, offsets []float64, y int) int {
	if dst == nil || len(tiles) == 0 {
		return 0
	}
	drawn := 0
	for i, off := range offsets {
		if math.IsNaN(off) || math.IsInf(off, 0) {
			continue
		}
		tile := tiles[i%len(tiles)]
		if tile == nil {
			continue
		}
		x := int(math.Floor(off))
		if x >= dst.Width || x+tile.Width <= 0 {
			continue
		}
		dst.Blit(tile, x, y)
		drawn++
	}
	return drawn
}

// Lerp interpolates each offset from prev toward next by alpha in [0, 1].
// Pairs further apart than jump are treated as a wrap and snap to next, as
// does any length mismatch.
func Lerp(prev, next []float64, alpha, jump float64) []float64 {
	out := make([]float64, len(next))
	copy(out, next)
	if len(prev) != len(next) {
		return out
	}
	alpha = math.Max(0, math.Min(1, alpha))
	for i := range next {
		if math.Abs(next[i]-prev[i]) > jump {
			continue
		}
		out[i] = prev[i] + (next[i]-prev[i])*alpha
	}
	return out
}
