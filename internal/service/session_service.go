package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/pkg/logger"
	"ai-coursegen-be/internal/repository/specification"
	"ai-coursegen-be/internal/repository/unitofwork"
	"ai-coursegen-be/pkg/events"
	pktNats "ai-coursegen-be/pkg/nats"
	"ai-coursegen-be/pkg/normalize"

	"github.com/google/uuid"
)

type ISessionService interface {
	Index(ctx context.Context, userId uuid.UUID, organizationId *uuid.UUID) (*dto.SessionListResponse, error)
	Create(ctx context.Context, userId uuid.UUID, organizationId *uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionDetailResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	Logs(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) ([]*dto.LogResponse, error)
	Catalogs() *dto.CatalogResponse
}

type sessionService struct {
	uowFactory        unitofwork.RepositoryFactory
	generationService IGenerationService
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	generationService IGenerationService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:        uowFactory,
		generationService: generationService,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

// findOwnedSession loads a session and enforces ownership.
func findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.GenerationSession, error) {
	session, err := uow.GenerationSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserId != userId {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *sessionService) Index(ctx context.Context, userId uuid.UUID, organizationId *uuid.UUID) (*dto.SessionListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.GenerationSessionRepository()

	active, err := repo.FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByStatusIn{Statuses: constant.ActiveSessionStatuses},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	recent, err := repo.FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByStatusIn{Statuses: constant.FinishedSessionStatuses},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 10},
	)
	if err != nil {
		return nil, err
	}

	courses, err := uow.ContentWriterRepository().ListCourses(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	return &dto.SessionListResponse{
		ActiveSessions: toSessionResponses(active),
		RecentSessions: toSessionResponses(recent),
		Courses:        courses,
		ContentTypes:   constant.ContentTypes,
	}, nil
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, organizationId *uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = constant.SourcePrompt
	}
	qualityThreshold := 0.85
	if req.QualityThreshold != nil {
		qualityThreshold = *req.QualityThreshold
	}
	maxIterations := 10
	if req.MaxIterations != nil {
		maxIterations = *req.MaxIterations
	}

	session := &entity.GenerationSession{
		Id:               uuid.New(),
		UserId:           userId,
		OrganizationId:   organizationId,
		ContentType:      req.ContentType,
		Status:           constant.SessionStatusPending,
		UserPrompt:       req.UserPrompt,
		SourceType:       sourceType,
		SourceData:       req.SourceData,
		InputSettings:    req.InputSettings,
		QualityThreshold: qualityThreshold,
		MaxIterations:    maxIterations,
		CreatedAt:        time.Now(),
	}

	if err := uow.GenerationSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	processNow := true
	if req.ProcessNow != nil {
		processNow = *req.ProcessNow
	}

	if processNow {
		stats, err := s.generationService.Process(ctx, session.Id)
		if err != nil {
			// The session carries the failure state; surface it instead
			// of a bare error so the caller sees the partial result.
			failed, findErr := uow.GenerationSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
			if findErr == nil && failed != nil {
				session = failed
			}
			return &dto.CreateSessionResponse{
				Session: toSessionResponse(session),
				Error:   err.Error(),
			}, nil
		}

		processed, err := uow.GenerationSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		if err == nil && processed != nil {
			session = processed
		}
		return &dto.CreateSessionResponse{
			Session: toSessionResponse(session),
			Stats:   stats,
		}, nil
	}

	payload, err := json.Marshal(dto.ProcessSessionMessage{SessionId: session.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSessionQueuedEvent(session.Id, session.ContentType)); err != nil {
			s.logger.Warn("SessionService", "Failed to publish queued event", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	return &dto.CreateSessionResponse{
		Message: "Session queued for processing.",
		Session: toSessionResponse(session),
	}, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	proposals, err := uow.ContentProposalRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ReviewOrder{},
	)
	if err != nil {
		return nil, err
	}

	usage, err := uow.GenerationLogRepository().SumTokenUsage(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetailResponse{
		Session:      toSessionResponse(session),
		ProposalTree: buildProposalTree(proposals),
		TokenUsage:   usage,
	}, nil
}

func (s *sessionService) Cancel(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	session.Status = constant.SessionStatusCancelled
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	return uow.GenerationSessionRepository().Delete(ctx, session.Id)
}

func (s *sessionService) Logs(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) ([]*dto.LogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	logs, err := uow.GenerationLogRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.LogResponse, len(logs))
	for i, log := range logs {
		responses[i] = &dto.LogResponse{
			Id:           log.Id,
			Level:        log.Level,
			Action:       log.Action,
			Message:      log.Message,
			Context:      log.Context,
			ModelUsed:    log.ModelUsed,
			TokensInput:  log.TokensInput,
			TokensOutput: log.TokensOutput,
			CostUsd:      log.CostUsd,
			DurationMs:   log.DurationMs,
			CreatedAt:    log.CreatedAt,
		}
	}
	return responses, nil
}

func (s *sessionService) Catalogs() *dto.CatalogResponse {
	definitions := normalize.QuestionTypeDefinitions()

	types := make([]dto.QuestionTypeInfo, 0, len(definitions))
	for _, questionType := range normalize.QuestionTypes() {
		def := definitions[questionType]
		types = append(types, dto.QuestionTypeInfo{
			Type:          questionType,
			Name:          def.Name,
			Description:   def.Description,
			Category:      def.Category,
			SupportsImage: def.SupportsImages,
			Grading:       def.Grading,
		})
	}

	return &dto.CatalogResponse{
		ContentTypes:  constant.ContentTypes,
		QuestionTypes: types,
	}
}

func toSessionResponse(session *entity.GenerationSession) *dto.SessionResponse {
	if session == nil {
		return nil
	}
	return &dto.SessionResponse{
		Id:                    session.Id,
		ContentType:           session.ContentType,
		Status:                session.Status,
		UserPrompt:            session.UserPrompt,
		SourceType:            session.SourceType,
		InputSettings:         session.InputSettings,
		QualityThreshold:      session.QualityThreshold,
		MaxIterations:         session.MaxIterations,
		ItemsGenerated:        session.ItemsGenerated,
		ItemsApproved:         session.ItemsApproved,
		ItemsRejected:         session.ItemsRejected,
		CurrentQualityScore:   session.CurrentQualityScore,
		ErrorMessage:          session.ErrorMessage,
		StartedAt:             session.StartedAt,
		CompletedAt:           session.CompletedAt,
		ProcessingTimeSeconds: session.ProcessingTimeSeconds,
		CreatedAt:             session.CreatedAt,
	}
}

func toSessionResponses(sessions []*entity.GenerationSession) []*dto.SessionResponse {
	responses := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = toSessionResponse(session)
	}
	return responses
}

func toProposalResponse(proposal *entity.ContentProposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		Id:               proposal.Id,
		SessionId:        proposal.SessionId,
		ContentType:      proposal.ContentType,
		ParentProposalId: proposal.ParentProposalId,
		ParentType:       proposal.ParentType,
		OrderPosition:    proposal.OrderPosition,
		Status:           proposal.Status,
		DisplayTitle:     proposal.DisplayTitle(),
		ProposedData:     proposal.ProposedData,
		IsValid:          proposal.IsValid,
		ValidationErrors: proposal.ValidationErrors,
		CreatedModelType: proposal.CreatedModelType,
		CreatedModelId:   proposal.CreatedModelId,
	}
}

// buildProposalTree nests child proposals under their parents, keeping
// sibling order.
func buildProposalTree(proposals []*entity.ContentProposal) []*dto.ProposalResponse {
	nodes := make(map[uuid.UUID]*dto.ProposalResponse, len(proposals))
	var roots []*dto.ProposalResponse

	for _, proposal := range proposals {
		nodes[proposal.Id] = toProposalResponse(proposal)
	}
	for _, proposal := range proposals {
		node := nodes[proposal.Id]
		if proposal.ParentProposalId == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*proposal.ParentProposalId]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortProposals(roots)
	for _, node := range nodes {
		sortProposals(node.Children)
	}
	return roots
}

func sortProposals(nodes []*dto.ProposalResponse) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].OrderPosition < nodes[j].OrderPosition
	})
}
