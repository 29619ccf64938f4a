package contract

import (
	"context"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationLogRepository interface {
	Create(ctx context.Context, log *entity.GenerationLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SumTokenUsage totals the token counts and estimated cost recorded
	// for a session's model calls.
	SumTokenUsage(ctx context.Context, sessionId uuid.UUID) (*entity.TokenUsage, error)
}
