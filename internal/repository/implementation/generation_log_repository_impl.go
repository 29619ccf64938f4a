package implementation

import (
	"context"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/mapper"
	"ai-coursegen-be/internal/model"
	"ai-coursegen-be/internal/repository/contract"
	"ai-coursegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenerationLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationLogMapper
}

func NewGenerationLogRepository(db *gorm.DB) contract.GenerationLogRepository {
	return &GenerationLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationLogMapper(),
	}
}

func (r *GenerationLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationLogRepositoryImpl) Create(ctx context.Context, log *entity.GenerationLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *GenerationLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationLog, error) {
	var models []*model.GenerationLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GenerationLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GenerationLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GenerationLogRepositoryImpl) SumTokenUsage(ctx context.Context, sessionId uuid.UUID) (*entity.TokenUsage, error) {
	var usage entity.TokenUsage
	err := r.db.WithContext(ctx).
		Model(&model.GenerationLog{}).
		Select(
			"COALESCE(SUM(tokens_input), 0) AS total_tokens_input",
			"COALESCE(SUM(tokens_output), 0) AS total_tokens_output",
			"COALESCE(SUM(cost_usd), 0) AS total_cost_usd",
		).
		Where("session_id = ?", sessionId).
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}
