package marquee

import (
	"fmt"

	"github.com/andyrewlee/marquee/internal/validation"
)

type sizeKind uint8

const (
	sizeFixed sizeKind = iota
	sizeFixedSize
)

// Size is the dimension variant of an item: one dimension applied to both
// axes, or independent width and height.
type Size struct {
	kind   sizeKind
	width  float64
	height float64
}

// Fixed returns a square size.
func Fixed(dimension float64) Size {
	return Size{kind: sizeFixed, width: dimension, height: dimension}
}

// FixedSize returns a size with independent width and height.
func FixedSize(width, height float64) Size {
	return Size{kind: sizeFixedSize, width: width, height: height}
}

// Width returns the horizontal extent.
func (s Size) Width() float64 { return s.width }

// Height returns the vertical extent.
func (s Size) Height() float64 { return s.height }

// IsFixed reports whether the size was built with Fixed.
func (s Size) IsFixed() bool { return s.kind == sizeFixed }

// Validate rejects non-positive or non-finite dimensions. A Fixed size
// reports its single dimension as size.fixed.
func (s Size) Validate() error {
	if s.kind == sizeFixed {
		return validation.ValidatePositive("size.fixed", s.width)
	}
	if err := validation.ValidatePositive("size.width", s.width); err != nil {
		return err
	}
	return validation.ValidatePositive("size.height", s.height)
}

func (s Size) String() string {
	if s.kind == sizeFixed {
		return fmt.Sprintf("fixed(%g)", s.width)
	}
	return fmt.Sprintf("fixedSize(%gx%g)", s.width, s.height)
}

// Item describes the geometry shared by every rendered item of a strip.
// The zero value is not valid; use NewItem or DefaultItem.
type Item struct {
	size    Size
	spacing float64
}

// NewItem validates size and spacing.
func NewItem(size Size, spacing float64) (Item, error) {
	if err := size.Validate(); err != nil {
		return Item{}, err
	}
	if err := validation.ValidateNonNegative("spacing", spacing); err != nil {
		return Item{}, err
	}
	return Item{size: size, spacing: spacing}, nil
}

// DefaultItem is a 120 square item with 12 spacing.
func DefaultItem() Item {
	return Item{size: Fixed(120), spacing: 12}
}

// Size returns the item's dimension variant.
func (it Item) Size() Size { return it.size }

func (it Item) Width() float64   { return it.size.width }
func (it Item) Height() float64  { return it.size.height }
func (it Item) Spacing() float64 { return it.spacing }

// Stride is the distance between the leading edges of adjacent items.
func (it Item) Stride() float64 { return it.size.width + it.spacing }

// Validate reports whether the item would have been accepted by NewItem.
func (it Item) Validate() error {
	_, err := NewItem(it.size, it.spacing)
	return err
}
