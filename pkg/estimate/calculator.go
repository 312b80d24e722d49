package estimate

import (
	"math"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

const (
	// interactionsToTarget is the number of meaningful interactions after
	// which the range reaches the target band.
	interactionsToTarget = 5.0
	// maxClarityDiscount is the extra discount applied at full clarity.
	maxClarityDiscount = 0.1
)

// CalculatePrice maps a conversation context to the price range shown to the
// visitor. The result is never below models.TargetPriceRange.
func CalculatePrice(ctx models.ConversationContext) models.PriceRange {
	minBound, maxBound := progressiveBounds(ctx.MeaningfulInteractions)

	discount := 1 - ctx.ProjectClarity*maxClarityDiscount

	return models.PriceRange{
		Min: max(int(math.Round(minBound*discount)), models.TargetPriceRange.Min),
		Max: max(int(math.Round(maxBound*discount)), models.TargetPriceRange.Max),
	}
}

// progressiveBounds returns the pre-discount range: a linear ramp from the
// initial band to the target band over interactionsToTarget interactions.
func progressiveBounds(meaningfulInteractions int) (float64, float64) {
	progress := math.Min(float64(meaningfulInteractions)/interactionsToTarget, 1)

	initial, target := models.InitialPriceRange, models.TargetPriceRange
	return reduceBound(initial.Min, target.Min, progress), reduceBound(initial.Max, target.Max, progress)
}

func reduceBound(initial, target int, progress float64) float64 {
	reduction := float64(initial-target) * progress
	return math.Max(float64(initial)-reduction, float64(target))
}
