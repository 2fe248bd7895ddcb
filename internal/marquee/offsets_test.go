package marquee

import (
	"reflect"
	"testing"
)

func TestInitialOffsetsForward(t *testing.T) {
	got := InitialOffsets(4, Forward, 120, 12, 300)
	want := []float64{0, 132, 264, 396}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("forward offsets = %v, want %v", got, want)
	}
}

func TestInitialOffsetsBackward(t *testing.T) {
	got := InitialOffsets(3, Backward, 120, 12, 300)
	want := []float64{180, 48, -84}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("backward offsets = %v, want %v", got, want)
	}
	if got[0] != 300-120 {
		t.Fatalf("first backward offset = %g, want flush with the right edge", got[0])
	}
}

func TestInitialOffsetsEmpty(t *testing.T) {
	if got := InitialOffsets(0, Forward, 10, 1, 100); got != nil {
		t.Fatalf("expected nil for zero items, got %v", got)
	}
}

func TestWrapTarget(t *testing.T) {
	item := DefaultItem()
	layout := Layout{ViewportWidth: 300, ItemCount: 3, RepetitionCount: 2, MaxOffset: 660}
	if got := WrapTarget(Forward, layout, item); got != 660 {
		t.Fatalf("forward target = %g, want 660", got)
	}
	if got := WrapTarget(Backward, layout, item); got != -660+180-12 {
		t.Fatalf("backward target = %g, want %g", got, -660.0+180-12)
	}
}

func TestLabels(t *testing.T) {
	got := Labels([]string{"a", "b", "c"}, 7)
	want := []string{"a", "b", "c", "a", "b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Labels = %v, want %v", got, want)
	}
	if Labels([]string{}, 3) != nil || Labels([]int{1}, 0) != nil {
		t.Fatalf("expected nil for empty source or total")
	}
}
