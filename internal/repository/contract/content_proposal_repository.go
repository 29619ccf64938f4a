package contract

import (
	"context"

	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ContentProposalRepository interface {
	Create(ctx context.Context, proposal *entity.ContentProposal) error
	Update(ctx context.Context, proposal *entity.ContentProposal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentProposal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentProposal, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateStatusByIds sets the status of the given proposals, scoped to
	// one session, and returns how many rows changed.
	UpdateStatusByIds(ctx context.Context, sessionId uuid.UUID, ids []uuid.UUID, status string) (int64, error)
}
