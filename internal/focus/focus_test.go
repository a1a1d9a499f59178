package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/page"
)

func TestForTaskType(t *testing.T) {
	t.Run("transactional favors cta and forms", func(t *testing.T) {
		h := ForTaskType(goal.TaskTransactional)
		assert.Greater(t, h.AreaPriorities[page.AreaCTA], h.AreaPriorities[page.AreaFooter])
		assert.Greater(t, h.AreaPriorities[page.AreaForms], h.AreaPriorities[page.AreaContent])
	})

	t.Run("informational favors navigation and content", func(t *testing.T) {
		h := ForTaskType(goal.TaskInformational)
		assert.Greater(t, h.AreaPriorities[page.AreaNavigation], h.AreaPriorities[page.AreaCTA])
	})

	t.Run("unknown falls back to exploratory", func(t *testing.T) {
		h := ForTaskType(goal.TaskType("bogus"))
		assert.Equal(t, goal.TaskExploratory, h.TaskType)
	})

	t.Run("capacity is bounded", func(t *testing.T) {
		for _, tt := range []goal.TaskType{goal.TaskTransactional, goal.TaskInformational, goal.TaskExploratory} {
			h := ForTaskType(tt)
			assert.Greater(t, h.AttentionCapacity, 0)
			assert.LessOrEqual(t, h.AttentionCapacity, 10)
		}
	})
}

func TestPriority(t *testing.T) {
	h := ForTaskType(goal.TaskInformational)

	base := h.Priority(page.ActionCandidate{Area: page.AreaNavigation})
	boosted := h.Priority(page.ActionCandidate{Area: page.AreaNavigation, Relevance: 0.6})

	assert.InDelta(t, base*1.5, boosted, 0.001, "goal-relevant candidates get a boost")

	unknown := h.Priority(page.ActionCandidate{Area: page.Area("mystery")})
	assert.Equal(t, 0.5, unknown)
}

func TestDistractionRate(t *testing.T) {
	h := ForTaskType(goal.TaskInformational)

	tests := []struct {
		label string
		min   float64
	}{
		{"Subscribe to our newsletter popup", 0.9},
		{"Accept cookie settings", 0.8},
		{"Read the docs", 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			rate := h.DistractionRate(page.ActionCandidate{Label: tt.label})
			if tt.min == 0 {
				assert.Equal(t, 0.0, rate)
			} else {
				assert.GreaterOrEqual(t, rate, tt.min)
			}
		})
	}
}
