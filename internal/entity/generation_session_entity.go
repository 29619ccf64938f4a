package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-coursegen-be/internal/constant"
)

// GenerationSession tracks one run of the content generation pipeline,
// from the initial request through review and upload.
type GenerationSession struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	OrganizationId        *uuid.UUID
	ContentType           string
	Status                string
	UserPrompt            string
	SourceType            string
	SourceData            map[string]interface{}
	InputSettings         map[string]interface{}
	QualityThreshold      float64
	MaxIterations         int
	CurrentIteration      int
	ItemsGenerated        int
	ItemsApproved         int
	ItemsRejected         int
	CurrentQualityScore   float64
	ErrorMessage          string
	StartedAt             *time.Time
	CompletedAt           *time.Time
	ProcessingTimeSeconds int
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// MarkAsProcessing transitions the session into the processing state and
// stamps the start time.
func (s *GenerationSession) MarkAsProcessing() {
	now := time.Now()
	s.Status = constant.SessionStatusProcessing
	s.StartedAt = &now
}

// IncrementIteration counts one model call against the session budget.
func (s *GenerationSession) IncrementIteration() {
	s.CurrentIteration++
}

// IterationBudgetExhausted reports whether the session has used up its
// allowed model calls. A zero MaxIterations means no limit.
func (s *GenerationSession) IterationBudgetExhausted() bool {
	return s.MaxIterations > 0 && s.CurrentIteration >= s.MaxIterations
}

// MarkAsCompleted moves the session to review, recording the completion
// time and how long processing took.
func (s *GenerationSession) MarkAsCompleted() {
	now := time.Now()
	s.Status = constant.SessionStatusReviewPending
	s.CompletedAt = &now
	if s.StartedAt != nil {
		s.ProcessingTimeSeconds = int(now.Sub(*s.StartedAt).Seconds())
	}
}

func (s *GenerationSession) MarkAsFailed(errMessage string) {
	now := time.Now()
	s.Status = constant.SessionStatusFailed
	s.ErrorMessage = errMessage
	s.CompletedAt = &now
}

func (s *GenerationSession) IsActive() bool {
	for _, status := range constant.ActiveSessionStatuses {
		if s.Status == status {
			return true
		}
	}
	return false
}

func (s *GenerationSession) settingString(key string) (string, bool) {
	if s.InputSettings == nil {
		return "", false
	}
	v, ok := s.InputSettings[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *GenerationSession) settingInt(key string) (int, bool) {
	if s.InputSettings == nil {
		return 0, false
	}
	switch v := s.InputSettings[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// YearGroup returns the requested year group, or empty when unset.
func (s *GenerationSession) YearGroup() string {
	v, _ := s.settingString("year_group")
	return v
}

func (s *GenerationSession) Category() string {
	v, _ := s.settingString("category")
	return v
}

// DifficultyRange returns the requested difficulty bounds on the 1-10
// scale, defaulting to the full range.
func (s *GenerationSession) DifficultyRange() (min, max int) {
	min, max = 1, 10
	if v, ok := s.settingInt("difficulty_min"); ok {
		min = v
	}
	if v, ok := s.settingInt("difficulty_max"); ok {
		max = v
	}
	return min, max
}

// ItemCount returns how many top-level items to generate, defaulting to 10.
func (s *GenerationSession) ItemCount() int {
	if v, ok := s.settingInt("item_count"); ok {
		return v
	}
	return 10
}

func (s *GenerationSession) SettingInt(key string, fallback int) int {
	if v, ok := s.settingInt(key); ok {
		return v
	}
	return fallback
}

func (s *GenerationSession) SettingString(key string) string {
	v, _ := s.settingString(key)
	return v
}
