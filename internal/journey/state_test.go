package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 100.0, s.Patience)
	assert.Equal(t, 0.0, s.Frustration)
	assert.Equal(t, 0.0, s.Confusion)
	assert.Equal(t, 0, s.Steps)
	assert.Empty(t, s.FrictionPoints)
}

func TestRecordFriction(t *testing.T) {
	s := NewState()

	added := s.RecordFriction([]string{"CAPTCHA blocking progress", "Error message displayed"})
	assert.Equal(t, 2, added)
	assert.Equal(t, 90.0, s.Patience)
	assert.Equal(t, 6.0, s.Frustration)

	// Repeats are deduplicated and cost nothing
	added = s.RecordFriction([]string{"CAPTCHA blocking progress"})
	assert.Equal(t, 0, added)
	assert.Equal(t, 90.0, s.Patience)
	assert.Len(t, s.FrictionPoints, 2)
}

func TestNoActionFound(t *testing.T) {
	t.Run("scroll and retry while tolerable", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, "", s.NoActionFound())
		assert.Equal(t, 10.0, s.Confusion)
		assert.Equal(t, 95.0, s.Patience)
	})

	t.Run("abandons at confusion threshold", func(t *testing.T) {
		s := NewState()
		reason := ""
		for i := 0; i < 10 && reason == ""; i++ {
			reason = s.NoActionFound()
		}
		assert.Equal(t, ReasonConfusedAndLost, reason)
		assert.GreaterOrEqual(t, s.Confusion, 70.0)
	})

	t.Run("abandons at low patience", func(t *testing.T) {
		s := NewState()
		s.Patience = 25
		assert.Equal(t, ReasonConfusedAndLost, s.NoActionFound())
	})
}

func TestActionFailed(t *testing.T) {
	s := NewState()

	assert.Equal(t, "", s.ActionFailed("Failed to interact with Submit"))
	assert.Equal(t, 90.0, s.Patience)
	assert.Equal(t, 5.0, s.Frustration)
	assert.Contains(t, s.FrictionPoints, "Failed to interact with Submit")

	s.Patience = 15
	assert.Equal(t, ReasonTooManyFailures, s.ActionFailed("Failed to interact with Submit"))
	assert.Len(t, s.FrictionPoints, 1, "repeated failure point stays deduplicated")
}

func TestActionSucceeded(t *testing.T) {
	s := NewState()
	s.Patience = 50
	s.ActionSucceeded()
	assert.Equal(t, 52.0, s.Patience)

	s.Patience = 99
	s.ActionSucceeded()
	assert.Equal(t, 100.0, s.Patience, "recovery never exceeds 100")
}

func TestStateClamping(t *testing.T) {
	s := NewState()
	s.Patience = 3
	s.Frustration = 98
	s.Confusion = 97

	// Hammer the state well past every bound
	for i := 0; i < 20; i++ {
		s.RecordFriction([]string{string(rune('a' + i))})
		s.NoActionFound()
		s.ActionFailed(string(rune('A' + i)))
	}

	assert.GreaterOrEqual(t, s.Patience, 0.0)
	assert.LessOrEqual(t, s.Patience, 100.0)
	assert.GreaterOrEqual(t, s.Frustration, 0.0)
	assert.LessOrEqual(t, s.Frustration, 100.0)
	assert.GreaterOrEqual(t, s.Confusion, 0.0)
	assert.LessOrEqual(t, s.Confusion, 100.0)
	assert.True(t, s.Exhausted())
}
