package marquee

// InitialOffsets lays out total items for dir. Forward items start at 0 and
// run rightwards; Backward items start flush with the right edge and run
// leftwards.
func InitialOffsets(total int, dir Direction, itemWidth, spacing, viewportWidth float64) []float64 {
	if total <= 0 {
		return nil
	}
	stride := itemWidth + spacing
	offsets := make([]float64, total)
	for i := range offsets {
		switch dir {
		case Backward:
			offsets[i] = -float64(i)*stride + (viewportWidth - itemWidth)
		default:
			offsets[i] = float64(i) * stride
		}
	}
	return offsets
}

// WrapTarget is the offset an item is re-seeded to once it leaves the viewport.
func WrapTarget(dir Direction, layout Layout, item Item) float64 {
	if dir == Backward {
		return -layout.MaxOffset + (layout.ViewportWidth - item.Width()) - item.Spacing()
	}
	return layout.MaxOffset
}

// exited reports whether offset has scrolled fully out of view for dir.
func exited(dir Direction, offset float64, layout Layout, item Item) bool {
	if dir == Backward {
		return offset >= layout.ViewportWidth
	}
	return offset <= -item.Stride()
}

// Labels materializes total rendered identities from source, repeating it:
// result[i] = source[i mod len(source)].
func Labels[T any](source []T, total int) []T {
	if len(source) == 0 || total <= 0 {
		return nil
	}
	out := make([]T, total)
	for i := range out {
		out[i] = source[i%len(source)]
	}
	return out
}
