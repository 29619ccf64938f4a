package mapper

import (
	"time"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/model"
)

type GenerationSessionMapper struct{}

func NewGenerationSessionMapper() *GenerationSessionMapper {
	return &GenerationSessionMapper{}
}

func (m *GenerationSessionMapper) ToEntity(s *model.GenerationSession) *entity.GenerationSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.GenerationSession{
		Id:                    s.Id,
		UserId:                s.UserId,
		OrganizationId:        s.OrganizationId,
		ContentType:           s.ContentType,
		Status:                s.Status,
		UserPrompt:            s.UserPrompt,
		SourceType:            s.SourceType,
		SourceData:            jsonToMap(s.SourceData),
		InputSettings:         jsonToMap(s.InputSettings),
		QualityThreshold:      s.QualityThreshold,
		MaxIterations:         s.MaxIterations,
		CurrentIteration:      s.CurrentIteration,
		ItemsGenerated:        s.ItemsGenerated,
		ItemsApproved:         s.ItemsApproved,
		ItemsRejected:         s.ItemsRejected,
		CurrentQualityScore:   s.CurrentQualityScore,
		ErrorMessage:          s.ErrorMessage,
		StartedAt:             s.StartedAt,
		CompletedAt:           s.CompletedAt,
		ProcessingTimeSeconds: s.ProcessingTimeSeconds,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *GenerationSessionMapper) ToModel(s *entity.GenerationSession) *model.GenerationSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.GenerationSession{
		Id:                    s.Id,
		UserId:                s.UserId,
		OrganizationId:        s.OrganizationId,
		ContentType:           s.ContentType,
		Status:                s.Status,
		UserPrompt:            s.UserPrompt,
		SourceType:            s.SourceType,
		SourceData:            mapToJSON(s.SourceData),
		InputSettings:         mapToJSON(s.InputSettings),
		QualityThreshold:      s.QualityThreshold,
		MaxIterations:         s.MaxIterations,
		CurrentIteration:      s.CurrentIteration,
		ItemsGenerated:        s.ItemsGenerated,
		ItemsApproved:         s.ItemsApproved,
		ItemsRejected:         s.ItemsRejected,
		CurrentQualityScore:   s.CurrentQualityScore,
		ErrorMessage:          s.ErrorMessage,
		StartedAt:             s.StartedAt,
		CompletedAt:           s.CompletedAt,
		ProcessingTimeSeconds: s.ProcessingTimeSeconds,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *GenerationSessionMapper) ToEntities(sessions []*model.GenerationSession) []*entity.GenerationSession {
	entities := make([]*entity.GenerationSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
