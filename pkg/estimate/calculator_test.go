package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

func contextWith(interactions int, clarity float64) models.ConversationContext {
	ctx := models.DefaultConversationContext()
	ctx.MeaningfulInteractions = interactions
	ctx.ProjectClarity = clarity
	return ctx
}

func TestCalculatePrice_InitialRangeWithHalfClarity(t *testing.T) {
	got := CalculatePrice(contextWith(0, 0.5))
	assert.Equal(t, models.PriceRange{Min: 9500, Max: 14250}, got)
}

func TestCalculatePrice_FullProgressFullClarityClampsToTarget(t *testing.T) {
	got := CalculatePrice(contextWith(5, 1.0))
	assert.Equal(t, models.TargetPriceRange, got)
}

func TestCalculatePrice_PartialProgress(t *testing.T) {
	tests := []struct {
		name         string
		interactions int
		clarity      float64
		want         models.PriceRange
	}{
		{"one interaction, no clarity", 1, 0, models.PriceRange{Min: 9000, Max: 13060}},
		{"three interactions, half clarity", 3, 0.5, models.PriceRange{Min: 6650, Max: 8721}},
		{"no interactions, no clarity", 0, 0, models.InitialPriceRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePrice(contextWith(tt.interactions, tt.clarity)))
		})
	}
}

func TestProgressiveBounds_SaturatesAtTarget(t *testing.T) {
	for interactions := 5; interactions <= 20; interactions++ {
		minBound, maxBound := progressiveBounds(interactions)
		assert.Equal(t, float64(models.TargetPriceRange.Min), minBound, "interactions=%d", interactions)
		assert.Equal(t, float64(models.TargetPriceRange.Max), maxBound, "interactions=%d", interactions)
	}
}

func TestCalculatePrice_NeverBelowTarget(t *testing.T) {
	for interactions := 0; interactions <= 10; interactions++ {
		for step := 0; step <= 10; step++ {
			clarity := float64(step) / 10
			got := CalculatePrice(contextWith(interactions, clarity))

			assert.GreaterOrEqual(t, got.Min, models.TargetPriceRange.Min, "interactions=%d clarity=%.1f", interactions, clarity)
			assert.GreaterOrEqual(t, got.Max, models.TargetPriceRange.Max, "interactions=%d clarity=%.1f", interactions, clarity)
			assert.LessOrEqual(t, got.Min, got.Max)
		}
	}
}

func TestCalculatePrice_NonIncreasingWithInteractions(t *testing.T) {
	prev := CalculatePrice(contextWith(0, 0.5))
	for interactions := 1; interactions <= 8; interactions++ {
		got := CalculatePrice(contextWith(interactions, 0.5))
		assert.LessOrEqual(t, got.Min, prev.Min)
		assert.LessOrEqual(t, got.Max, prev.Max)
		prev = got
	}
}

func TestCalculatePrice_Idempotent(t *testing.T) {
	ctx := contextWith(2, 0.73)
	assert.Equal(t, CalculatePrice(ctx), CalculatePrice(ctx))
}
