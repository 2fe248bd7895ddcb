package marquee

import (
	"strings"

	"github.com/andyrewlee/marquee/internal/validation"
)

// Direction is the scroll direction of a strip.
type Direction int

const (
	// Forward scrolls items toward the leading (left) edge.
	Forward Direction = iota
	// Backward scrolls items toward the trailing (right) edge.
	Backward
)

// Sign is the per-tick offset increment sign.
func (d Direction) Sign() float64 {
	if d == Backward {
		return 1
	}
	return -1
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// ParseDirection accepts forward/backward and the left/right aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward", "left":
		return Forward, nil
	case "backward", "right":
		return Backward, nil
	default:
		return Forward, validation.Invalid("direction", "unknown direction %q (want forward, backward, left or right)", s)
	}
}
