package mapper

import (
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/model"
)

type GenerationLogMapper struct{}

func NewGenerationLogMapper() *GenerationLogMapper {
	return &GenerationLogMapper{}
}

func (m *GenerationLogMapper) ToEntity(l *model.GenerationLog) *entity.GenerationLog {
	if l == nil {
		return nil
	}

	return &entity.GenerationLog{
		Id:           l.Id,
		SessionId:    l.SessionId,
		Level:        l.Level,
		Action:       l.Action,
		Message:      l.Message,
		Context:      jsonToMap(l.Context),
		ModelUsed:    l.ModelUsed,
		TokensInput:  l.TokensInput,
		TokensOutput: l.TokensOutput,
		CostUsd:      l.CostUsd,
		DurationMs:   l.DurationMs,
		CreatedAt:    l.CreatedAt,
	}
}

func (m *GenerationLogMapper) ToModel(l *entity.GenerationLog) *model.GenerationLog {
	if l == nil {
		return nil
	}

	return &model.GenerationLog{
		Id:           l.Id,
		SessionId:    l.SessionId,
		Level:        l.Level,
		Action:       l.Action,
		Message:      l.Message,
		Context:      mapToJSON(l.Context),
		ModelUsed:    l.ModelUsed,
		TokensInput:  l.TokensInput,
		TokensOutput: l.TokensOutput,
		CostUsd:      l.CostUsd,
		DurationMs:   l.DurationMs,
		CreatedAt:    l.CreatedAt,
	}
}

func (m *GenerationLogMapper) ToEntities(logs []*model.GenerationLog) []*entity.GenerationLog {
	entities := make([]*entity.GenerationLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
