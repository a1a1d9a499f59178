package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbandonmentRisk(t *testing.T) {
	t.Run("zero when goal achieved regardless of state", func(t *testing.T) {
		assert.Equal(t, 0.0, AbandonmentRisk(0, 100, 100, true))
	})

	t.Run("weighted sum", func(t *testing.T) {
		// 0.4*(100-50) + 0.3*30 + 0.3*20 = 20 + 9 + 6
		assert.InDelta(t, 35.0, AbandonmentRisk(50, 30, 20, false), 0.001)
	})

	t.Run("capped at 100", func(t *testing.T) {
		assert.Equal(t, 100.0, AbandonmentRisk(-50, 150, 150, false))
	})

	t.Run("fresh state scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, AbandonmentRisk(100, 0, 0, false))
	})
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := 0
	for score := 0.0; score <= 100; score++ {
		tier := TierFor(score)
		assert.GreaterOrEqual(t, tier.Level, prev, "tier must never decrease as risk grows")
		assert.GreaterOrEqual(t, tier.Level, 1)
		assert.LessOrEqual(t, tier.Level, 10)
		assert.NotEmpty(t, tier.Label)
		prev = tier.Level
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		level int
	}{
		{0, 1},
		{9.9, 1},
		{10, 1},
		{10.1, 2},
		{30, 3},
		{31, 4},
		{95, 10},
		{100, 10},
		{-5, 1},
		{120, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, TierFor(tt.score).Level, "score %v", tt.score)
	}
}
