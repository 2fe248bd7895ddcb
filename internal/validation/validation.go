package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid is matched by every ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers test for ErrInvalid without knowing the field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidatePositive requires a finite value > 0.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be greater than zero (got %g)", v)}
	}
	return nil
}

// ValidateNonNegative requires a finite value >= 0.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("cannot be negative (got %g)", v)}
	}
	return nil
}

// ValidateCount requires an integer count >= min.
func ValidateCount(field string, n, min int) error {
	if n < min {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d (got %d)", min, n)}
	}
	return nil
}

// SanitizeLabel removes control characters and surrounding whitespace from a label.
func SanitizeLabel(input string) string {
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 0x7f {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(input)
}
