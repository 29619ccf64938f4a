package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ai-coursegen-be/internal/constant"
)

func TestSessionLifecycleTransitions(t *testing.T) {
	s := &GenerationSession{Status: constant.SessionStatusPending}

	s.MarkAsProcessing()
	assert.Equal(t, constant.SessionStatusProcessing, s.Status)
	assert.NotNil(t, s.StartedAt)
	assert.True(t, s.IsActive())

	// Backdate the start so the duration is measurable
	started := time.Now().Add(-3 * time.Second)
	s.StartedAt = &started

	s.MarkAsCompleted()
	assert.Equal(t, constant.SessionStatusReviewPending, s.Status)
	assert.NotNil(t, s.CompletedAt)
	assert.GreaterOrEqual(t, s.ProcessingTimeSeconds, 3)

	failed := &GenerationSession{Status: constant.SessionStatusProcessing}
	failed.MarkAsFailed("model unavailable")
	assert.Equal(t, constant.SessionStatusFailed, failed.Status)
	assert.Equal(t, "model unavailable", failed.ErrorMessage)
	assert.False(t, failed.IsActive())
}

func TestSessionInputSettings(t *testing.T) {
	s := &GenerationSession{
		InputSettings: map[string]interface{}{
			"year_group": "Year 4",
			"category":   "Mathematics",
			// JSON decoding produces float64 for numbers
			"item_count":     float64(5),
			"difficulty_min": float64(3),
			"difficulty_max": float64(7),
			"course_id":      "d2b8f7ad-3c3e-4b39-9a41-2f1f4a1f0001",
		},
	}

	assert.Equal(t, "Year 4", s.YearGroup())
	assert.Equal(t, "Mathematics", s.Category())
	assert.Equal(t, 5, s.ItemCount())

	min, max := s.DifficultyRange()
	assert.Equal(t, 3, min)
	assert.Equal(t, 7, max)

	assert.Equal(t, "d2b8f7ad-3c3e-4b39-9a41-2f1f4a1f0001", s.SettingString("course_id"))
	assert.Equal(t, 4, s.SettingInt("lessons_per_module", 4))
}

func TestSessionSettingDefaults(t *testing.T) {
	s := &GenerationSession{}

	assert.Equal(t, "", s.YearGroup())
	assert.Equal(t, 10, s.ItemCount())

	min, max := s.DifficultyRange()
	assert.Equal(t, 1, min)
	assert.Equal(t, 10, max)
}

func TestIterationBudget(t *testing.T) {
	s := &GenerationSession{MaxIterations: 2}

	assert.False(t, s.IterationBudgetExhausted())
	s.IncrementIteration()
	assert.Equal(t, 1, s.CurrentIteration)
	assert.False(t, s.IterationBudgetExhausted())
	s.IncrementIteration()
	assert.True(t, s.IterationBudgetExhausted())

	// Zero means unlimited
	unlimited := &GenerationSession{}
	unlimited.IncrementIteration()
	assert.False(t, unlimited.IterationBudgetExhausted())
}
