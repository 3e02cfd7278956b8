package grading

import (
	"github.com/edusoft-co/gradebook-api/internal/models"
)

// Final-grade combination weights, the corte caps over 100.
const (
	corte1Weight = 0.30
	corte2Weight = 0.35
	corte3Weight = 0.35
)

// CorteGrade computes the raw weighted sub-grade of one corte from the
// course's activities and the student's recorded scores keyed by activity ID.
//
// The denominator is the total weight of every activity defined in the corte,
// scored or not: an activity the student has no score for contributes nothing
// and is deliberately not renormalized away, so a missing score lowers the
// sub-grade by that activity's share of the corte. Rounding is the caller's
// job; a corte with no defined weight yields 0.
func CorteGrade(corte int, activities []models.Activity, scores map[string]float64) float64 {
	totalWeight := AllocatedWeight(corte, activities)
	if totalWeight <= 0 {
		return 0
	}
	grade := 0.0
	for _, activity := range activities {
		if activity.Corte != corte {
			continue
		}
		score, ok := scores[activity.ID]
		if !ok {
			continue
		}
		grade += score * (activity.Percentage / totalWeight)
	}
	return grade
}

// FinalGrade combines the three already-rounded corte sub-grades (0 for an
// absent corte) into the final grade and applies the rounding margin.
func FinalGrade(corte1, corte2, corte3 float64) float64 {
	return ApplyRoundingMargin(corte1*corte1Weight + corte2*corte2Weight + corte3*corte3Weight)
}
