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

type GenerationSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationSessionMapper
}

func NewGenerationSessionRepository(db *gorm.DB) contract.GenerationSessionRepository {
	return &GenerationSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationSessionMapper(),
	}
}

func (r *GenerationSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationSessionRepositoryImpl) Create(ctx context.Context, session *entity.GenerationSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *GenerationSessionRepositoryImpl) Update(ctx context.Context, session *entity.GenerationSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *GenerationSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.GenerationSession{}, id).Error
}

func (r *GenerationSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationSession, error) {
	var m model.GenerationSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *GenerationSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationSession, error) {
	var models []*model.GenerationSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GenerationSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GenerationSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
