package mapper

import (
	"time"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/model"
)

type ContentProposalMapper struct{}

func NewContentProposalMapper() *ContentProposalMapper {
	return &ContentProposalMapper{}
}

func (m *ContentProposalMapper) ToEntity(p *model.ContentProposal) *entity.ContentProposal {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.ContentProposal{
		Id:                p.Id,
		SessionId:         p.SessionId,
		ContentType:       p.ContentType,
		ParentProposalId:  p.ParentProposalId,
		ParentType:        p.ParentType,
		OrderPosition:     p.OrderPosition,
		Status:            p.Status,
		ProposedData:      jsonToMap(p.ProposedData),
		OriginalData:      jsonToMap(p.OriginalData),
		UserModifications: jsonToMap(p.UserModifications),
		ModifiedBy:        p.ModifiedBy,
		ModifiedAt:        p.ModifiedAt,
		IsValid:           p.IsValid,
		ValidationErrors:  jsonToStrings(p.ValidationErrors),
		CreatedModelType:  p.CreatedModelType,
		CreatedModelId:    p.CreatedModelId,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ContentProposalMapper) ToModel(p *entity.ContentProposal) *model.ContentProposal {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.ContentProposal{
		Id:                p.Id,
		SessionId:         p.SessionId,
		ContentType:       p.ContentType,
		ParentProposalId:  p.ParentProposalId,
		ParentType:        p.ParentType,
		OrderPosition:     p.OrderPosition,
		Status:            p.Status,
		ProposedData:      mapToJSON(p.ProposedData),
		OriginalData:      mapToJSON(p.OriginalData),
		UserModifications: mapToJSON(p.UserModifications),
		ModifiedBy:        p.ModifiedBy,
		ModifiedAt:        p.ModifiedAt,
		IsValid:           p.IsValid,
		ValidationErrors:  stringsToJSON(p.ValidationErrors),
		CreatedModelType:  p.CreatedModelType,
		CreatedModelId:    p.CreatedModelId,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ContentProposalMapper) ToEntities(proposals []*model.ContentProposal) []*entity.ContentProposal {
	entities := make([]*entity.ContentProposal, len(proposals))
	for i, p := range proposals {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ContentProposalMapper) ToModels(proposals []*entity.ContentProposal) []*model.ContentProposal {
	models := make([]*model.ContentProposal, len(proposals))
	for i, p := range proposals {
		models[i] = m.ToModel(p)
	}
	return models
}
