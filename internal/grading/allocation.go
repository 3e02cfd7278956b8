// Package grading holds the pure grade computation rules: corte weight
// allocation, the rounding margin, weighted corte aggregation and the final
// grade combination. Nothing in this package performs I/O; the service layer
// feeds it repository data and persists its results.
package grading

import (
	"github.com/edusoft-co/gradebook-api/internal/models"
)

// Cap returns the percentage budget of a corte: 30 for corte 1, 35 for
// cortes 2 and 3. Unknown cortes have no budget.
func Cap(corte int) float64 {
	switch corte {
	case 1:
		return models.Corte1Cap
	case 2:
		return models.Corte2Cap
	case 3:
		return models.Corte3Cap
	default:
		return 0
	}
}

// CanAllocate reports whether a proposed activity weight still fits within
// the corte's budget given the weight already allocated there.
func CanAllocate(corte int, used, proposed float64) bool {
	if proposed <= 0 {
		return false
	}
	return used+proposed <= Cap(corte)
}

// AllocatedWeight sums the weights of every activity defined in the corte.
func AllocatedWeight(corte int, activities []models.Activity) float64 {
	total := 0.0
	for _, activity := range activities {
		if activity.Corte == corte {
			total += activity.Percentage
		}
	}
	return total
}

// Allocations summarises used weight against the cap for all three cortes.
func Allocations(activities []models.Activity) []models.CorteAllocation {
	result := make([]models.CorteAllocation, 0, models.CorteCount)
	for corte := 1; corte <= models.CorteCount; corte++ {
		result = append(result, models.CorteAllocation{
			Corte: corte,
			Used:  AllocatedWeight(corte, activities),
			Cap:   Cap(corte),
		})
	}
	return result
}
