package unitofwork

import (
	"context"

	"ai-coursegen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GenerationSessionRepository() contract.GenerationSessionRepository
	ContentProposalRepository() contract.ContentProposalRepository
	GenerationLogRepository() contract.GenerationLogRepository
	ContentWriterRepository() contract.ContentWriterRepository
}
