package grading

import "math"

// maxGrade is the top of the 0-5 grading scale.
const maxGrade = 5.0

// roundingMargin is how close the fractional part must be to the next whole
// number before the grade is rounded up.
const roundingMargin = 0.98

// ApplyRoundingMargin rounds a computed grade up to the next integer when its
// fractional part is at least 0.98, capping the result at 5.0. Values at or
// below zero pass through unchanged so an empty grade is never rounded up.
func ApplyRoundingMargin(value float64) float64 {
	if value <= 0 {
		return value
	}
	decimal := value - math.Floor(value)
	if decimal >= roundingMargin {
		return math.Min(math.Ceil(value), maxGrade)
	}
	return math.Min(value, maxGrade)
}
