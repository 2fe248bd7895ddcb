package marquee

import (
	"errors"
	"math"
	"testing"

	"github.com/andyrewlee/marquee/internal/validation"
)

func TestSizeVariants(t *testing.T) {
	fixed := Fixed(120)
	if fixed.Width() != 120 || fixed.Height() != 120 || !fixed.IsFixed() {
		t.Fatalf("Fixed(120) = %v", fixed)
	}
	sized := FixedSize(20, 5)
	if sized.Width() != 20 || sized.Height() != 5 || sized.IsFixed() {
		t.Fatalf("FixedSize(20, 5) = %v", sized)
	}
	if sized.String() != "fixedSize(20x5)" || fixed.String() != "fixed(120)" {
		t.Fatalf("unexpected String(): %s / %s", fixed, sized)
	}
}

func TestNewItemRejectsDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		spacing float64
		field   string
	}{
		{"zero fixed", Fixed(0), 12, "size.fixed"},
		{"negative fixed", Fixed(-5), 12, "size.fixed"},
		{"negative width", FixedSize(-1, 10), 0, "size.width"},
		{"zero height", FixedSize(10, 0), 0, "size.height"},
		{"nan width", FixedSize(math.NaN(), 10), 0, "size.width"},
		{"negative spacing", Fixed(10), -2, "spacing"},
		{"inf spacing", Fixed(10), math.Inf(1), "spacing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.size, tt.spacing)
			var ve *validation.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestNewItemAcceptsZeroSpacing(t *testing.T) {
	item, err := NewItem(FixedSize(24, 6), 0)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if item.Stride() != 24 || item.Height() != 6 || item.Spacing() != 0 {
		t.Fatalf("unexpected item geometry: %+v", item)
	}
}

func TestDefaultItem(t *testing.T) {
	item := DefaultItem()
	if item.Width() != 120 || item.Height() != 120 || item.Spacing() != 12 {
		t.Fatalf("DefaultItem = %+v", item)
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("DefaultItem should validate: %v", err)
	}
	if err := (Item{}).Validate(); err == nil {
		t.Fatalf("zero Item should not validate")
	}
}

func TestDirection(t *testing.T) {
	if Forward.Sign() != -1 || Backward.Sign() != 1 {
		t.Fatalf("unexpected signs: %v %v", Forward.Sign(), Backward.Sign())
	}

	tests := map[string]Direction{
		"":         Forward,
		"left":     Forward,
		"Forward":  Forward,
		"right":    Backward,
		" RIGHT ":  Backward,
		"backward": Backward,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseDirection("up"); !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected invalid direction error, got %v", err)
	}
}
