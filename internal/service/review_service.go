package service

import (
	"context"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/repository/specification"
	"ai-coursegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReviewService interface {
	UpdateProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error)
	RefineProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, feedback string) (*dto.ProposalResponse, error)
	ApproveProposals(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, proposalIds []uuid.UUID) (int64, error)
	RejectProposals(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, proposalIds []uuid.UUID) (int64, error)
}

type reviewService struct {
	uowFactory        unitofwork.RepositoryFactory
	generationService IGenerationService
}

func NewReviewService(
	uowFactory unitofwork.RepositoryFactory,
	generationService IGenerationService,
) IReviewService {
	return &reviewService{
		uowFactory:        uowFactory,
		generationService: generationService,
	}
}

// findOwnedProposal loads a proposal and enforces ownership through its
// session.
func findOwnedProposal(ctx context.Context, uow unitofwork.UnitOfWork, userId, proposalId uuid.UUID) (*entity.ContentProposal, error) {
	proposal, err := uow.ContentProposalRepository().FindOne(ctx, specification.ByID{ID: proposalId})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	if _, err := findOwnedSession(ctx, uow, userId, proposal.SessionId); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *reviewService) UpdateProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	proposal, err := findOwnedProposal(ctx, uow, userId, proposalId)
	if err != nil {
		return nil, err
	}

	proposal.UpdateProposedData(req.ProposedData, userId)
	proposal.Validate()

	if req.Status != "" {
		proposal.Status = req.Status
	}

	if err := uow.ContentProposalRepository().Update(ctx, proposal); err != nil {
		return nil, err
	}
	return toProposalResponse(proposal), nil
}

func (s *reviewService) RefineProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, feedback string) (*dto.ProposalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := findOwnedProposal(ctx, uow, userId, proposalId); err != nil {
		return nil, err
	}

	refined, err := s.generationService.RefineProposal(ctx, proposalId, feedback)
	if err != nil {
		return nil, err
	}
	return toProposalResponse(refined), nil
}

func (s *reviewService) ApproveProposals(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, proposalIds []uuid.UUID) (int64, error) {
	return s.updateStatuses(ctx, userId, sessionId, proposalIds, constant.ProposalStatusApproved)
}

func (s *reviewService) RejectProposals(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, proposalIds []uuid.UUID) (int64, error) {
	return s.updateStatuses(ctx, userId, sessionId, proposalIds, constant.ProposalStatusRejected)
}

func (s *reviewService) updateStatuses(ctx context.Context, userId, sessionId uuid.UUID, proposalIds []uuid.UUID, status string) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return 0, err
	}

	changed, err := uow.ContentProposalRepository().UpdateStatusByIds(ctx, sessionId, proposalIds, status)
	if err != nil {
		return 0, err
	}

	// Recount from storage so repeated calls stay accurate.
	count, err := uow.ContentProposalRepository().Count(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByStatusIn{Statuses: []string{status}},
	)
	if err != nil {
		return 0, err
	}

	switch status {
	case constant.ProposalStatusApproved:
		session.ItemsApproved = int(count)
	case constant.ProposalStatusRejected:
		session.ItemsRejected = int(count)
	}
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		return 0, err
	}

	return changed, nil
}
