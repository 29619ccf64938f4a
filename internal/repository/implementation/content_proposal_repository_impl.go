package implementation

import (
	"context"
	"errors"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/mapper"
	"ai-coursegen-be/internal/model"
	"ai-coursegen-be/internal/repository/contract"
	"ai-coursegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentProposalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentProposalMapper
}

func NewContentProposalRepository(db *gorm.DB) contract.ContentProposalRepository {
	return &ContentProposalRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentProposalMapper(),
	}
}

func (r *ContentProposalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContentProposalRepositoryImpl) Create(ctx context.Context, proposal *entity.ContentProposal) error {
	m := r.mapper.ToModel(proposal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*proposal = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentProposalRepositoryImpl) Update(ctx context.Context, proposal *entity.ContentProposal) error {
	m := r.mapper.ToModel(proposal)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*proposal = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentProposalRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ContentProposal{}, id).Error
}

func (r *ContentProposalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentProposal, error) {
	var m model.ContentProposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentProposalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentProposal, error) {
	var models []*model.ContentProposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContentProposalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ContentProposal{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ContentProposalRepositoryImpl) UpdateStatusByIds(ctx context.Context, sessionId uuid.UUID, ids []uuid.UUID, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ContentProposal{}).
		Where("session_id = ?", sessionId).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}
