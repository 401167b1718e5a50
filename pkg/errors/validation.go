package errors

import (
	"math"
	"regexp"
)

// ValidateDepth checks a requested maximum recursion depth against the
// inclusive bounds [lo, hi].
//
// Out-of-range depths are rejected rather than clamped so that callers
// never act on a value the user did not ask for.
func ValidateDepth(depth, lo, hi int) error {
	if lo < 0 {
		lo = 0
	}
	if depth < 0 {
		return New(ErrCodeInvalidDepth, "max depth cannot be negative (got %d)", depth)
	}
	if depth < lo || depth > hi {
		return New(ErrCodeInvalidDepth, "max depth %d out of range [%d, %d]", depth, lo, hi)
	}
	return nil
}

// ValidateLevel checks that a selected level lies within [0, maxDepth].
func ValidateLevel(level, maxDepth int) error {
	if level < 0 || level > maxDepth {
		return New(ErrCodeInvalidLevel, "level %d out of range [0, %d]", level, maxDepth)
	}
	return nil
}

// ValidateDimension checks that a named size is a finite positive number.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive (got %g)", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a named value is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colours.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex colour string.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidPalette, "colour cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidPalette, "invalid colour %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidatePalette validates every colour of a palette.
func ValidatePalette(colors []string) error {
	if len(colors) == 0 {
		return New(ErrCodeInvalidPalette, "palette must contain at least one colour")
	}
	for i, c := range colors {
		if err := ValidateColor(c); err != nil {
			return Wrap(ErrCodeInvalidPalette, err, "palette[%d]", i)
		}
	}
	return nil
}
