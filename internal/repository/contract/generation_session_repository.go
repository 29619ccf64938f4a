package contract

import (
	"context"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationSessionRepository interface {
	Create(ctx context.Context, session *entity.GenerationSession) error
	Update(ctx context.Context, session *entity.GenerationSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
