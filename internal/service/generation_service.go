package service

import (
	"context"
	"fmt"
	"time"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/dto"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/pkg/logger"
	"ai-coursegen-be/internal/repository/memory"
	"ai-coursegen-be/internal/repository/specification"
	"ai-coursegen-be/internal/repository/unitofwork"
	"ai-coursegen-be/pkg/aijson"
	"ai-coursegen-be/pkg/events"
	"ai-coursegen-be/pkg/llm"
	pktNats "ai-coursegen-be/pkg/nats"
	"ai-coursegen-be/pkg/normalize"

	"github.com/google/uuid"
)

type IGenerationService interface {
	// Process runs the full generation pipeline for a pending session.
	Process(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStats, error)

	// RefineProposal sends a proposal back to the model with reviewer
	// feedback and replaces its payload with the result.
	RefineProposal(ctx context.Context, proposalId uuid.UUID, feedback string) (*entity.ContentProposal, error)
}

type generationService struct {
	uowFactory     unitofwork.RepositoryFactory
	provider       llm.LLMProvider
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	guard          *memory.RunGuard
	maxTokens      int
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	guard *memory.RunGuard,
	maxTokens int,
) IGenerationService {
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	return &generationService{
		uowFactory:     uowFactory,
		provider:       provider,
		eventPublisher: eventPublisher,
		logger:         log,
		guard:          guard,
		maxTokens:      maxTokens,
	}
}

func (s *generationService) Process(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStats, error) {
	if !s.guard.TryAcquire(sessionId) {
		return nil, fmt.Errorf("session %s is already being processed", sessionId)
	}
	defer s.guard.Release(sessionId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.GenerationSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found: %s", sessionId)
	}

	session.MarkAsProcessing()
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.audit(ctx, uow, session.Id, constant.LogLevelInfo, constant.ActionSessionStart, "Generation started", map[string]interface{}{
		"content_type": session.ContentType,
		"source_type":  session.SourceType,
	})

	stats, err := s.run(ctx, uow, session)
	if err != nil {
		session.MarkAsFailed(err.Error())
		if updateErr := uow.GenerationSessionRepository().Update(ctx, session); updateErr != nil {
			s.logger.Error("GenerationService", "Failed to persist failure state", map[string]interface{}{
				"session_id": session.Id,
				"error":      updateErr.Error(),
			})
		}
		s.audit(ctx, uow, session.Id, constant.LogLevelError, constant.ActionError, err.Error(), nil)
		s.publishEvent(ctx, events.NewSessionFailedEvent(session.Id, session.ContentType, err.Error()))
		return nil, err
	}

	s.publishEvent(ctx, events.NewSessionCompletedEvent(session.Id, session.ContentType, stats.ItemsGenerated, stats.QualityScore))
	return stats, nil
}

func (s *generationService) run(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) (*dto.SessionStats, error) {
	var proposals []*entity.ContentProposal
	var err error

	switch session.ContentType {
	case constant.ContentTypeQuestion:
		proposals, err = s.generateFlat(ctx, uow, session, constant.ContentTypeQuestion)
	case constant.ContentTypeAssessment:
		proposals, err = s.generateAssessments(ctx, uow, session)
	case constant.ContentTypeCourse:
		proposals, err = s.generateCourses(ctx, uow, session)
	case constant.ContentTypeModule:
		proposals, err = s.generateModules(ctx, uow, session)
	case constant.ContentTypeLesson:
		proposals, err = s.generateLessons(ctx, uow, session)
	case constant.ContentTypeSlide:
		proposals, err = s.generateFlat(ctx, uow, session, constant.ContentTypeSlide)
	case constant.ContentTypeArticle:
		proposals, err = s.generateFlat(ctx, uow, session, constant.ContentTypeArticle)
	default:
		err = fmt.Errorf("unsupported content type: %s", session.ContentType)
	}
	if err != nil {
		return nil, err
	}

	validCount := 0
	for _, proposal := range proposals {
		proposal.Validate()
		if proposal.IsValid {
			validCount++
		}
		if err := uow.ContentProposalRepository().Update(ctx, proposal); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, uow, session.Id, constant.LogLevelInfo, constant.ActionValidate, "Validation finished", map[string]interface{}{
		"total": len(proposals),
		"valid": validCount,
	})

	score := 0.0
	if len(proposals) > 0 {
		score = float64(validCount) / float64(len(proposals))
	}

	session.ItemsGenerated = len(proposals)
	session.CurrentQualityScore = score
	session.MarkAsCompleted()
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.audit(ctx, uow, session.Id, constant.LogLevelInfo, constant.ActionComplete, "Generation complete", map[string]interface{}{
		"items_generated": len(proposals),
		"quality_score":   score,
	})

	return &dto.SessionStats{
		ItemsGenerated: len(proposals),
		ValidItems:     validCount,
		QualityScore:   score,
	}, nil
}

// generateFlat handles content types without nested children.
func (s *generationService) generateFlat(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, contentType string) ([]*entity.ContentProposal, error) {
	records, err := s.generateRecords(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	proposals := make([]*entity.ContentProposal, 0, len(records))
	for i, record := range records {
		proposal, err := s.createProposal(ctx, uow, session, contentType, record, i, nil, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (s *generationService) generateAssessments(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) ([]*entity.ContentProposal, error) {
	records, err := s.generateRecords(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	var proposals []*entity.ContentProposal
	for i, record := range records {
		assessment, err := s.createProposal(ctx, uow, session, constant.ContentTypeAssessment, record, i, nil, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, assessment)

		children, err := s.createChildren(ctx, uow, session, record, "questions", constant.ContentTypeQuestion, assessment.Id, constant.ContentTypeAssessment)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, children...)
	}
	return proposals, nil
}

func (s *generationService) generateCourses(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) ([]*entity.ContentProposal, error) {
	records, err := s.generateRecords(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	var proposals []*entity.ContentProposal
	for i, record := range records {
		course, err := s.createProposal(ctx, uow, session, constant.ContentTypeCourse, record, i, nil, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, course)

		tree, err := s.createModuleTree(ctx, uow, session, record, course.Id, constant.ContentTypeCourse)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, tree...)
	}
	return proposals, nil
}

func (s *generationService) generateModules(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) ([]*entity.ContentProposal, error) {
	records, err := s.generateRecords(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	var proposals []*entity.ContentProposal
	for i, record := range records {
		module, err := s.createProposal(ctx, uow, session, constant.ContentTypeModule, record, i, nil, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, module)

		tree, err := s.createLessonTree(ctx, uow, session, record, module.Id, constant.ContentTypeModule)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, tree...)
	}
	return proposals, nil
}

func (s *generationService) generateLessons(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) ([]*entity.ContentProposal, error) {
	records, err := s.generateRecords(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	var proposals []*entity.ContentProposal
	for i, record := range records {
		lesson, err := s.createProposal(ctx, uow, session, constant.ContentTypeLesson, record, i, nil, "")
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, lesson)

		slides, err := s.createChildren(ctx, uow, session, record, "slides", constant.ContentTypeSlide, lesson.Id, constant.ContentTypeLesson)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, slides...)
	}
	return proposals, nil
}

// createModuleTree walks the nested modules of a course record.
func (s *generationService) createModuleTree(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, record map[string]interface{}, parentId uuid.UUID, parentType string) ([]*entity.ContentProposal, error) {
	var proposals []*entity.ContentProposal
	modules, _ := record["modules"].([]interface{})
	for i, raw := range modules {
		moduleData, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		module, err := s.createProposal(ctx, uow, session, constant.ContentTypeModule, moduleData, i, &parentId, parentType)
		if err != nil {
			return nil, err
		}
		if module == nil {
			continue
		}
		proposals = append(proposals, module)

		tree, err := s.createLessonTree(ctx, uow, session, moduleData, module.Id, constant.ContentTypeModule)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, tree...)
	}
	return proposals, nil
}

func (s *generationService) createLessonTree(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, record map[string]interface{}, parentId uuid.UUID, parentType string) ([]*entity.ContentProposal, error) {
	var proposals []*entity.ContentProposal
	lessons, _ := record["lessons"].([]interface{})
	for i, raw := range lessons {
		lessonData, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		lesson, err := s.createProposal(ctx, uow, session, constant.ContentTypeLesson, lessonData, i, &parentId, parentType)
		if err != nil {
			return nil, err
		}
		if lesson == nil {
			continue
		}
		proposals = append(proposals, lesson)

		slides, err := s.createChildren(ctx, uow, session, lessonData, "slides", constant.ContentTypeSlide, lesson.Id, constant.ContentTypeLesson)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, slides...)
	}
	return proposals, nil
}

func (s *generationService) createChildren(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, record map[string]interface{}, key, contentType string, parentId uuid.UUID, parentType string) ([]*entity.ContentProposal, error) {
	var proposals []*entity.ContentProposal
	children, _ := record[key].([]interface{})
	for i, raw := range children {
		childData, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		child, err := s.createProposal(ctx, uow, session, contentType, childData, i, &parentId, parentType)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		proposals = append(proposals, child)
	}
	return proposals, nil
}

// generateRecords performs the model round trip for the session and
// decodes the response into item records.
func (s *generationService) generateRecords(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession) ([]map[string]interface{}, error) {
	prompt := buildGenerationPrompt(session)

	completion, err := s.callModel(ctx, uow, session, session.ContentType, prompt, constant.ActionGenerate)
	if err != nil {
		return nil, err
	}

	records, err := aijson.Decode(completion.Text, constant.WrapperKeys()...)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, uow, session.Id, constant.LogLevelInfo, constant.ActionGenerate, "Model response decoded", map[string]interface{}{
		"record_count": len(records),
	})

	return records, nil
}

func (s *generationService) callModel(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, contentType, prompt, action string) (*llm.Completion, error) {
	if session.IterationBudgetExhausted() {
		return nil, fmt.Errorf("session %s exhausted its iteration budget of %d model calls", session.Id, session.MaxIterations)
	}
	session.IncrementIteration()
	if err := uow.GenerationSessionRepository().Update(ctx, session); err != nil {
		s.logger.Warn("GenerationService", "Failed to persist iteration count", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}

	history := []llm.Message{
		{Role: "system", Content: systemPrompt(contentType)},
		{Role: "user", Content: prompt},
	}

	start := time.Now()
	completion, err := s.provider.Chat(ctx, history,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(s.maxTokens),
	)
	durationMs := int(time.Since(start).Milliseconds())

	if err != nil {
		s.audit(ctx, uow, session.Id, constant.LogLevelError, constant.ActionError, "Model call failed: "+err.Error(), map[string]interface{}{
			"action":      action,
			"duration_ms": durationMs,
		})
		return nil, err
	}

	log := &entity.GenerationLog{
		Id:           uuid.New(),
		SessionId:    session.Id,
		Level:        constant.LogLevelInfo,
		Action:       action,
		Message:      "Model call finished",
		ModelUsed:    completion.Model,
		TokensInput:  completion.InputTokens,
		TokensOutput: completion.OutputTokens,
		CostUsd:      entity.EstimateCost(completion.Model, completion.InputTokens, completion.OutputTokens),
		DurationMs:   durationMs,
		CreatedAt:    time.Now(),
	}
	if err := uow.GenerationLogRepository().Create(ctx, log); err != nil {
		s.logger.Warn("GenerationService", "Failed to record model call", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}

	return completion, nil
}

func (s *generationService) createProposal(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.GenerationSession, contentType string, data map[string]interface{}, orderPosition int, parentId *uuid.UUID, parentType string) (*entity.ContentProposal, error) {
	// An illegal parent pairing is a generation defect. The item is
	// dropped and logged rather than surfaced for review.
	if parentId != nil && !entity.CanContain(parentType, contentType) {
		s.audit(ctx, uow, session.Id, constant.LogLevelWarning, constant.ActionValidate,
			fmt.Sprintf("Dropped %s proposal: a %s is not a legal container", contentType, parentType),
			map[string]interface{}{"parent_proposal_id": parentId.String()})
		return nil, nil
	}

	data = normalize.YearGroup(data)

	switch contentType {
	case constant.ContentTypeQuestion:
		data = normalize.Question(data)
	case constant.ContentTypeAssessment:
		data = normalize.Assessment(data)
	case constant.ContentTypeCourse:
		data = normalize.Course(data)
	case constant.ContentTypeModule:
		data = normalize.Module(data)
	case constant.ContentTypeLesson:
		data = normalize.Lesson(data)
	case constant.ContentTypeSlide:
		data = normalize.Slide(data)
	case constant.ContentTypeArticle:
		data = normalize.Article(data)
		if _, ok := data["organization_id"]; !ok && session.OrganizationId != nil {
			data["organization_id"] = session.OrganizationId.String()
		}
	}

	// Keep a detached copy so reviewer edits never touch the original.
	original := make(map[string]interface{}, len(data))
	for k, v := range data {
		original[k] = v
	}

	proposal := &entity.ContentProposal{
		Id:               uuid.New(),
		SessionId:        session.Id,
		ContentType:      contentType,
		ParentProposalId: parentId,
		ParentType:       parentType,
		OrderPosition:    orderPosition,
		Status:           constant.ProposalStatusPending,
		ProposedData:     data,
		OriginalData:     original,
		CreatedAt:        time.Now(),
	}

	if err := uow.ContentProposalRepository().Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *generationService) RefineProposal(ctx context.Context, proposalId uuid.UUID, feedback string) (*entity.ContentProposal, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	proposal, err := uow.ContentProposalRepository().FindOne(ctx, specification.ByID{ID: proposalId})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("proposal not found: %s", proposalId)
	}

	session, err := uow.GenerationSessionRepository().FindOne(ctx, specification.ByID{ID: proposal.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found: %s", proposal.SessionId)
	}

	prompt := buildRefinePrompt(proposal.ContentType, proposal.ProposedData, feedback)
	completion, err := s.callModel(ctx, uow, session, proposal.ContentType, prompt, constant.ActionRefine)
	if err != nil {
		return nil, err
	}

	records, err := aijson.Decode(completion.Text, constant.WrapperKeys()...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("model returned no content for proposal %s", proposalId)
	}

	proposal.ReplaceProposedData(records[0])
	proposal.Validate()
	if err := uow.ContentProposalRepository().Update(ctx, proposal); err != nil {
		return nil, err
	}

	s.audit(ctx, uow, proposal.SessionId, constant.LogLevelInfo, constant.ActionRefine, "Proposal refined", map[string]interface{}{
		"proposal_id": proposal.Id,
		"is_valid":    proposal.IsValid,
	})

	return proposal, nil
}

// audit writes a session log row; failures degrade to the process log.
func (s *generationService) audit(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, level, action, message string, context map[string]interface{}) {
	log := &entity.GenerationLog{
		Id:        uuid.New(),
		SessionId: sessionId,
		Level:     level,
		Action:    action,
		Message:   message,
		Context:   context,
		CreatedAt: time.Now(),
	}
	if err := uow.GenerationLogRepository().Create(ctx, log); err != nil {
		s.logger.Warn("GenerationService", "Failed to write audit log", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (s *generationService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("GenerationService", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
