package service

import (
	"context"
	"fmt"
	"time"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/lock"
	"ai-coursegen-be/internal/pkg/logger"
	"ai-coursegen-be/internal/repository/specification"
	"ai-coursegen-be/internal/repository/unitofwork"
	"ai-coursegen-be/pkg/events"
	pktNats "ai-coursegen-be/pkg/nats"

	"github.com/google/uuid"
)

type IUploadService interface {
	// Upload materializes every valid approved proposal of the session
	// into the catalog tables in one transaction.
	Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.UploadResultResponse, error)
}

type uploadService struct {
	uowFactory     unitofwork.RepositoryFactory
	uploadLock     *lock.UploadLock
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewUploadService(
	uowFactory unitofwork.RepositoryFactory,
	uploadLock *lock.UploadLock,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		uowFactory:     uowFactory,
		uploadLock:     uploadLock,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// attachedQuestion remembers a bank question created in the first pass
// so it can be linked to its assessment in the second.
type attachedQuestion struct {
	questionId    uuid.UUID
	orderPosition int
	marks         int
}

func (s *uploadService) Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.UploadResultResponse, error) {
	acquired, err := s.uploadLock.Acquire(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrUploadInFlight
	}
	defer func() {
		if err := s.uploadLock.Release(context.WithoutCancel(ctx), sessionId); err != nil {
			s.logger.Warn("UploadService", "Failed to release upload lock", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	proposals, err := uow.ContentProposalRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByStatusIn{Statuses: constant.UploadableProposalStatuses},
		specification.OnlyValid{},
		specification.ReviewOrder{},
	)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, ErrNothingToUpload
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	created, err := s.materialize(ctx, uow, session, proposals)
	if err != nil {
		s.auditUpload(ctx, session.Id, constant.LogLevelError, "Upload failed: "+err.Error(), map[string]interface{}{
			"created_count": created,
		})
		return nil, err
	}

	session.Status = constant.SessionStatusApproved
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.auditUpload(ctx, session.Id, constant.LogLevelInfo, "Upload complete", map[string]interface{}{
		"created_count": created,
		"error_count":   0,
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewContentUploadedEvent(session.Id, session.ContentType, created, 0)); err != nil {
			s.logger.Warn("UploadService", "Failed to publish uploaded event", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	return &dto.UploadResultResponse{CreatedCount: created}, nil
}

func (s *uploadService) materialize(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, proposals []*entity.ContentProposal) (int, error) {
	writer := uow.ContentWriterRepository()
	proposalRepo := uow.ContentProposalRepository()
	created := 0

	// First pass: bank questions that belong to an assessment, so the
	// assessment can attach them once it exists.
	pending := make(map[uuid.UUID][]attachedQuestion)
	for _, proposal := range proposals {
		if proposal.ContentType != constant.ContentTypeQuestion || proposal.ParentType != constant.ContentTypeAssessment {
			continue
		}
		data := s.prepare(session, proposal, nil)
		modelType, modelId, err := writer.Create(ctx, proposal.ContentType, data)
		if err != nil {
			return created, fmt.Errorf("create question %q: %w", proposal.DisplayTitle(), err)
		}
		proposal.MarkAsUploaded(modelType, modelId)
		if err := proposalRepo.Update(ctx, proposal); err != nil {
			return created, err
		}
		created++

		if proposal.ParentProposalId != nil {
			pending[*proposal.ParentProposalId] = append(pending[*proposal.ParentProposalId], attachedQuestion{
				questionId:    modelId,
				orderPosition: proposal.OrderPosition,
				marks:         marksOf(proposal.ProposedData),
			})
		}
	}

	// Second pass: everything else. The review ordering keeps siblings
	// sorted but says nothing about tree depth, so each round takes only
	// the proposals whose parent row already exists and loops until the
	// batch drains.
	createdIds := make(map[uuid.UUID]uuid.UUID)
	inBatch := make(map[uuid.UUID]bool, len(proposals))
	var remaining []*entity.ContentProposal
	for _, proposal := range proposals {
		if proposal.ContentType == constant.ContentTypeQuestion && proposal.ParentType == constant.ContentTypeAssessment {
			continue
		}
		inBatch[proposal.Id] = true
		remaining = append(remaining, proposal)
	}

	for len(remaining) > 0 {
		var deferred []*entity.ContentProposal
		for _, proposal := range remaining {
			if proposal.ParentProposalId != nil && inBatch[*proposal.ParentProposalId] {
				if _, done := createdIds[*proposal.ParentProposalId]; !done {
					deferred = append(deferred, proposal)
					continue
				}
			}
			if err := s.materializeOne(ctx, uow, session, proposal, createdIds, pending); err != nil {
				return created, err
			}
			created++
		}
		if len(deferred) == len(remaining) {
			return created, fmt.Errorf("%s %q references a parent that was never materialized", deferred[0].ContentType, deferred[0].DisplayTitle())
		}
		remaining = deferred
	}

	return created, nil
}

func (s *uploadService) materializeOne(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, proposal *entity.ContentProposal, createdIds map[uuid.UUID]uuid.UUID, pending map[uuid.UUID][]attachedQuestion) error {
	writer := uow.ContentWriterRepository()
	data := s.prepare(session, proposal, createdIds)

	if proposal.ContentType == constant.ContentTypeModule {
		if _, ok := data["course_id"]; !ok {
			courseId := session.SettingString("course_id")
			if courseId == "" {
				return fmt.Errorf("module %q has no target course", proposal.DisplayTitle())
			}
			data["course_id"] = courseId
		}
	}

	if proposal.ContentType == constant.ContentTypeAssessment {
		if _, ok := data["availability_date"]; !ok {
			data["availability_date"] = time.Now()
		}
		if _, ok := data["deadline"]; !ok {
			data["deadline"] = time.Now().AddDate(0, 0, 7)
		}
	}

	modelType, modelId, err := writer.Create(ctx, proposal.ContentType, data)
	if err != nil {
		return fmt.Errorf("create %s %q: %w", proposal.ContentType, proposal.DisplayTitle(), err)
	}
	createdIds[proposal.Id] = modelId

	if proposal.ContentType == constant.ContentTypeAssessment {
		for _, attach := range pending[proposal.Id] {
			if err := writer.AttachAssessmentQuestion(ctx, modelId, attach.questionId, attach.orderPosition, attach.marks); err != nil {
				return err
			}
		}
	}

	if proposal.ContentType == constant.ContentTypeLesson && proposal.ParentType == constant.ContentTypeModule && proposal.ParentProposalId != nil {
		if moduleId, ok := createdIds[*proposal.ParentProposalId]; ok {
			if err := writer.AttachModuleLesson(ctx, moduleId, modelId, proposal.OrderPosition); err != nil {
				return err
			}
		}
	}

	proposal.MarkAsUploaded(modelType, modelId)
	return uow.ContentProposalRepository().Update(ctx, proposal)
}

// prepare copies the proposal payload, injects ownership and parent ids,
// and strips the nested child collections that became proposals of their
// own.
func (s *uploadService) prepare(session *entity.GenerationSession, proposal *entity.ContentProposal, createdIds map[uuid.UUID]uuid.UUID) map[string]interface{} {
	data := make(map[string]interface{}, len(proposal.ProposedData))
	for k, v := range proposal.ProposedData {
		data[k] = v
	}

	if session.OrganizationId != nil {
		data["organization_id"] = session.OrganizationId.String()
	}

	if proposal.ParentProposalId != nil && createdIds != nil {
		if parentId, ok := createdIds[*proposal.ParentProposalId]; ok {
			switch proposal.ParentType {
			case constant.ContentTypeCourse:
				data["course_id"] = parentId.String()
			case constant.ContentTypeLesson:
				data["lesson_id"] = parentId.String()
			}
		}
	}

	delete(data, "modules")
	delete(data, "lessons")
	delete(data, "slides")
	delete(data, "questions")

	return data
}

func marksOf(data map[string]interface{}) int {
	switch v := data["marks"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 1
}

func (s *uploadService) auditUpload(ctx context.Context, sessionId uuid.UUID, level, message string, context map[string]interface{}) {
	// The audit row goes through its own unit of work so it survives the
	// transaction rollback.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	log := &entity.GenerationLog{
		Id:        uuid.New(),
		SessionId: sessionId,
		Level:     level,
		Action:    constant.ActionUpload,
		Message:   message,
		Context:   context,
		CreatedAt: time.Now(),
	}
	if err := uow.GenerationLogRepository().Create(ctx, log); err != nil {
		s.logger.Warn("UploadService", "Failed to write upload audit log", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
