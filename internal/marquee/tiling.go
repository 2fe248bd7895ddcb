package marquee

import (
	"errors"
	"fmt"
	"math"

	"github.com/andyrewlee/marquee/internal/validation"
)

// MaxRenderedItems bounds itemCount×repetitionCount so a tiny stride against a
// huge viewport fails instead of allocating without limit.
const MaxRenderedItems = 1 << 16

var (
	// ErrNoItems is returned when a strip has no source items to tile.
	ErrNoItems = errors.New("marquee: no items")
	// ErrInvalidViewport is returned for negative, zero (on Start) or non-finite widths.
	ErrInvalidViewport = errors.New("marquee: invalid viewport width")
	// ErrTooManyItems is returned when tiling would exceed MaxRenderedItems.
	ErrTooManyItems = errors.New("marquee: too many rendered items")
	// ErrNotStarted is returned by Resume before the first Start.
	ErrNotStarted = errors.New("marquee: not started")
)

// Layout is the tiling result for one viewport width.
type Layout struct {
	ViewportWidth   float64
	ItemCount       int
	RepetitionCount int
	MaxOffset       float64
}

// Total is the number of rendered items.
func (l Layout) Total() int { return l.ItemCount * l.RepetitionCount }

func covers(itemCount, count int, stride, viewportWidth float64) bool {
	return float64(itemCount*count-1)*stride >= viewportWidth
}

// RepetitionCount returns the smallest count >= 1 such that
// (itemCount×count−1)×(itemWidth+spacing) >= viewportWidth.
func RepetitionCount(itemCount int, itemWidth, spacing, viewportWidth float64) (int, error) {
	if itemCount < 1 {
		return 0, fmt.Errorf("%w: item count %d", ErrNoItems, itemCount)
	}
	if math.IsNaN(viewportWidth) || math.IsInf(viewportWidth, 0) || viewportWidth < 0 {
		return 0, fmt.Errorf("%w: %g", ErrInvalidViewport, viewportWidth)
	}
	stride := itemWidth + spacing
	if err := validation.ValidatePositive("stride", stride); err != nil {
		return 0, err
	}

	// Closed-form estimate, then settle on the exact minimum with the
	// coverage predicate so float rounding cannot shift the answer.
	estimate := math.Ceil((viewportWidth/stride + 1) / float64(itemCount))
	if estimate > MaxRenderedItems {
		return 0, fmt.Errorf("%w: viewport %g needs more than %d items", ErrTooManyItems, viewportWidth, MaxRenderedItems)
	}
	count := max(1, int(estimate))
	for count > 1 && covers(itemCount, count-1, stride, viewportWidth) {
		count--
	}
	for !covers(itemCount, count, stride, viewportWidth) {
		count++
	}
	if itemCount*count > MaxRenderedItems {
		return 0, fmt.Errorf("%w: %d×%d", ErrTooManyItems, itemCount, count)
	}
	return count, nil
}

// MaxOffset is the Forward offset of the last rendered item,
// (itemCount×repetitionCount−1)×(itemWidth+spacing).
func MaxOffset(itemCount, repetitionCount int, itemWidth, spacing float64) float64 {
	return float64(itemCount*repetitionCount-1) * (itemWidth + spacing)
}

// ComputeLayout tiles itemCount items of the given geometry across viewportWidth.
func ComputeLayout(itemCount int, item Item, viewportWidth float64) (Layout, error) {
	reps, err := RepetitionCount(itemCount, item.Width(), item.Spacing(), viewportWidth)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		ViewportWidth:   viewportWidth,
		ItemCount:       itemCount,
		RepetitionCount: reps,
		MaxOffset:       MaxOffset(itemCount, reps, item.Width(), item.Spacing()),
	}, nil
}
