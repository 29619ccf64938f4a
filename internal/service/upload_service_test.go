package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/lock"
	"ai-coursegen-be/internal/repository/contract"
	"ai-coursegen-be/internal/repository/specification"
	"ai-coursegen-be/internal/repository/unitofwork"
)

// --- In-memory fakes ---

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeSessionRepo struct {
	session *entity.GenerationSession
	updated bool
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.GenerationSession) error { return nil }
func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.GenerationSession) error {
	r.session = s
	r.updated = true
	return nil
}
func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationSession, error) {
	return r.session, nil
}
func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationSession, error) {
	return nil, nil
}
func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeProposalRepo struct {
	proposals []*entity.ContentProposal
	updates   int
}

func (r *fakeProposalRepo) Create(ctx context.Context, p *entity.ContentProposal) error {
	r.proposals = append(r.proposals, p)
	return nil
}
func (r *fakeProposalRepo) Update(ctx context.Context, p *entity.ContentProposal) error {
	r.updates++
	return nil
}
func (r *fakeProposalRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeProposalRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentProposal, error) {
	return nil, nil
}
func (r *fakeProposalRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentProposal, error) {
	return r.proposals, nil
}
func (r *fakeProposalRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeProposalRepo) UpdateStatusByIds(ctx context.Context, sessionId uuid.UUID, ids []uuid.UUID, status string) (int64, error) {
	return 0, nil
}

type fakeLogRepo struct {
	logs []*entity.GenerationLog
}

func (r *fakeLogRepo) Create(ctx context.Context, log *entity.GenerationLog) error {
	r.logs = append(r.logs, log)
	return nil
}
func (r *fakeLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationLog, error) {
	return r.logs, nil
}
func (r *fakeLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.logs)), nil
}
func (r *fakeLogRepo) SumTokenUsage(ctx context.Context, sessionId uuid.UUID) (*entity.TokenUsage, error) {
	return &entity.TokenUsage{}, nil
}

type writerCall struct {
	contentType string
	data        map[string]interface{}
	id          uuid.UUID
}

type attachment struct {
	assessmentId  uuid.UUID
	questionId    uuid.UUID
	orderPosition int
	customPoints  int
}

type moduleLink struct {
	moduleId      uuid.UUID
	lessonId      uuid.UUID
	orderPosition int
}

type fakeWriter struct {
	calls       []writerCall
	attachments []attachment
	moduleLinks []moduleLink
	failOnCall  int // 1-based, 0 disables
}

func (w *fakeWriter) Create(ctx context.Context, contentType string, data map[string]interface{}) (string, uuid.UUID, error) {
	id := uuid.New()
	w.calls = append(w.calls, writerCall{contentType: contentType, data: data, id: id})
	if w.failOnCall > 0 && len(w.calls) == w.failOnCall {
		return "", uuid.Nil, errors.New("insert failed")
	}
	return contentType, id, nil
}
func (w *fakeWriter) AttachAssessmentQuestion(ctx context.Context, assessmentId, questionId uuid.UUID, orderPosition, customPoints int) error {
	w.attachments = append(w.attachments, attachment{assessmentId, questionId, orderPosition, customPoints})
	return nil
}
func (w *fakeWriter) AttachModuleLesson(ctx context.Context, moduleId, lessonId uuid.UUID, orderPosition int) error {
	w.moduleLinks = append(w.moduleLinks, moduleLink{moduleId, lessonId, orderPosition})
	return nil
}
func (w *fakeWriter) ListCourses(ctx context.Context, organizationId *uuid.UUID) ([]*entity.CourseRef, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	sessions   *fakeSessionRepo
	proposals  *fakeProposalRepo
	logs       *fakeLogRepo
	writer     *fakeWriter
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}
func (u *fakeUnitOfWork) GenerationSessionRepository() contract.GenerationSessionRepository {
	return u.sessions
}
func (u *fakeUnitOfWork) ContentProposalRepository() contract.ContentProposalRepository {
	return u.proposals
}
func (u *fakeUnitOfWork) GenerationLogRepository() contract.GenerationLogRepository { return u.logs }
func (u *fakeUnitOfWork) ContentWriterRepository() contract.ContentWriterRepository {
	return u.writer
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

var _ unitofwork.RepositoryFactory = &fakeFactory{}

// --- Fixtures ---

func approvedProposal(sessionId uuid.UUID, contentType string, position int, data map[string]interface{}) *entity.ContentProposal {
	return &entity.ContentProposal{
		Id:            uuid.New(),
		SessionId:     sessionId,
		ContentType:   contentType,
		OrderPosition: position,
		Status:        constant.ProposalStatusApproved,
		IsValid:       true,
		ProposedData:  data,
	}
}

func newUploadFixture(session *entity.GenerationSession, proposals []*entity.ContentProposal) (*fakeUnitOfWork, IUploadService) {
	uow := &fakeUnitOfWork{
		sessions:  &fakeSessionRepo{session: session},
		proposals: &fakeProposalRepo{proposals: proposals},
		logs:      &fakeLogRepo{},
		writer:    &fakeWriter{},
	}
	svc := NewUploadService(&fakeFactory{uow: uow}, lock.NewUploadLock(nil), nil, noopLogger{})
	return uow, svc
}

// --- Tests ---

func TestUploadAssessmentWithQuestions(t *testing.T) {
	userId := uuid.New()
	orgId := uuid.New()
	session := &entity.GenerationSession{
		Id:             uuid.New(),
		UserId:         userId,
		OrganizationId: &orgId,
		ContentType:    constant.ContentTypeAssessment,
		Status:         constant.SessionStatusReviewPending,
	}

	assessment := approvedProposal(session.Id, constant.ContentTypeAssessment, 0, map[string]interface{}{
		"title": "Fractions Test",
	})
	q1 := approvedProposal(session.Id, constant.ContentTypeQuestion, 0, map[string]interface{}{
		"title":         "Q1",
		"question_type": "mcq",
		"marks":         float64(3),
	})
	q1.ParentProposalId = &assessment.Id
	q1.ParentType = constant.ContentTypeAssessment
	q2 := approvedProposal(session.Id, constant.ContentTypeQuestion, 1, map[string]interface{}{
		"title":         "Q2",
		"question_type": "short_answer",
	})
	q2.ParentProposalId = &assessment.Id
	q2.ParentType = constant.ContentTypeAssessment

	uow, svc := newUploadFixture(session, []*entity.ContentProposal{assessment, q1, q2})

	result, err := svc.Upload(context.Background(), userId, session.Id)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.CreatedCount)

	// Bank questions go in before the assessment that references them
	assert.Equal(t, constant.ContentTypeQuestion, uow.writer.calls[0].contentType)
	assert.Equal(t, constant.ContentTypeQuestion, uow.writer.calls[1].contentType)
	assert.Equal(t, constant.ContentTypeAssessment, uow.writer.calls[2].contentType)

	// Assessment defaults and ownership are injected
	assessmentData := uow.writer.calls[2].data
	assert.Contains(t, assessmentData, "availability_date")
	assert.Contains(t, assessmentData, "deadline")
	assert.Equal(t, orgId.String(), assessmentData["organization_id"])
	// The nested questions array never reaches the assessment row
	assert.NotContains(t, assessmentData, "questions")

	// Questions are linked with their marks and positions
	assert.Len(t, uow.writer.attachments, 2)
	assert.Equal(t, 3, uow.writer.attachments[0].customPoints)
	assert.Equal(t, 1, uow.writer.attachments[1].customPoints, "missing marks default to 1")
	assert.Equal(t, 1, uow.writer.attachments[1].orderPosition)

	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
	assert.Equal(t, constant.SessionStatusApproved, session.Status)
	assert.Equal(t, constant.ProposalStatusUploaded, assessment.Status)
	assert.NotNil(t, assessment.CreatedModelId)
	assert.Len(t, uow.logs.logs, 1)
	assert.Equal(t, constant.LogLevelInfo, uow.logs.logs[0].Level)
}

func TestUploadRollsBackWhenACreateFails(t *testing.T) {
	userId := uuid.New()
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      userId,
		ContentType: constant.ContentTypeQuestion,
		Status:      constant.SessionStatusReviewPending,
	}

	p1 := approvedProposal(session.Id, constant.ContentTypeQuestion, 0, map[string]interface{}{"title": "Q1"})
	p2 := approvedProposal(session.Id, constant.ContentTypeQuestion, 1, map[string]interface{}{"title": "Q2"})

	uow, svc := newUploadFixture(session, []*entity.ContentProposal{p1, p2})
	uow.writer.failOnCall = 2

	result, err := svc.Upload(context.Background(), userId, session.Id)
	assert.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
	assert.Equal(t, constant.SessionStatusReviewPending, session.Status)

	// The failure is still audited outside the transaction
	assert.Len(t, uow.logs.logs, 1)
	assert.Equal(t, constant.LogLevelError, uow.logs.logs[0].Level)
}

func TestUploadModuleNeedsTargetCourse(t *testing.T) {
	userId := uuid.New()
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      userId,
		ContentType: constant.ContentTypeModule,
		Status:      constant.SessionStatusReviewPending,
	}

	module := approvedProposal(session.Id, constant.ContentTypeModule, 0, map[string]interface{}{"title": "Algebra"})

	uow, svc := newUploadFixture(session, []*entity.ContentProposal{module})

	_, err := svc.Upload(context.Background(), userId, session.Id)
	assert.Error(t, err)
	assert.True(t, uow.rolledBack)

	// With a course_id setting the module resolves its parent
	session.Status = constant.SessionStatusReviewPending
	session.InputSettings = map[string]interface{}{"course_id": uuid.New().String()}
	module.Status = constant.ProposalStatusApproved

	uow2, svc2 := newUploadFixture(session, []*entity.ContentProposal{module})
	result, err := svc2.Upload(context.Background(), userId, session.Id)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, session.InputSettings["course_id"], uow2.writer.calls[0].data["course_id"])
}

func TestUploadCourseTreeRegardlessOfRowOrder(t *testing.T) {
	userId := uuid.New()
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      userId,
		ContentType: constant.ContentTypeCourse,
		Status:      constant.SessionStatusReviewPending,
	}

	course := approvedProposal(session.Id, constant.ContentTypeCourse, 0, map[string]interface{}{"title": "Fractions"})
	module := approvedProposal(session.Id, constant.ContentTypeModule, 0, map[string]interface{}{"title": "Basics"})
	module.ParentProposalId = &course.Id
	module.ParentType = constant.ContentTypeCourse
	lesson := approvedProposal(session.Id, constant.ContentTypeLesson, 0, map[string]interface{}{"title": "Halves"})
	lesson.ParentProposalId = &module.Id
	lesson.ParentType = constant.ContentTypeModule
	slide := approvedProposal(session.Id, constant.ContentTypeSlide, 0, map[string]interface{}{"title": "Intro"})
	slide.ParentProposalId = &lesson.Id
	slide.ParentType = constant.ContentTypeLesson

	// Random ids give the store no reason to hand rows back depth-first.
	rows := []*entity.ContentProposal{course, slide, lesson, module}

	uow, svc := newUploadFixture(session, rows)

	result, err := svc.Upload(context.Background(), userId, session.Id)
	assert.NoError(t, err)
	assert.Equal(t, 4, result.CreatedCount)

	createdOrder := make(map[string]int, len(uow.writer.calls))
	createdId := make(map[string]uuid.UUID, len(uow.writer.calls))
	for i, call := range uow.writer.calls {
		createdOrder[call.contentType] = i
		createdId[call.contentType] = call.id
	}
	assert.Less(t, createdOrder[constant.ContentTypeCourse], createdOrder[constant.ContentTypeModule])
	assert.Less(t, createdOrder[constant.ContentTypeModule], createdOrder[constant.ContentTypeLesson])
	assert.Less(t, createdOrder[constant.ContentTypeLesson], createdOrder[constant.ContentTypeSlide])

	// The lesson lands on the module's ordered lesson list
	assert.Len(t, uow.writer.moduleLinks, 1)
	assert.Equal(t, createdId[constant.ContentTypeModule], uow.writer.moduleLinks[0].moduleId)
	assert.Equal(t, createdId[constant.ContentTypeLesson], uow.writer.moduleLinks[0].lessonId)

	// The slide resolved its lesson even though its row came back first
	var slideData map[string]interface{}
	for _, call := range uow.writer.calls {
		if call.contentType == constant.ContentTypeSlide {
			slideData = call.data
		}
	}
	assert.Equal(t, createdId[constant.ContentTypeLesson].String(), slideData["lesson_id"])

	assert.True(t, uow.committed)
	assert.Equal(t, constant.ProposalStatusUploaded, slide.Status)
}

func TestUploadNothingToUpload(t *testing.T) {
	userId := uuid.New()
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      userId,
		ContentType: constant.ContentTypeQuestion,
		Status:      constant.SessionStatusReviewPending,
	}

	_, svc := newUploadFixture(session, nil)

	_, err := svc.Upload(context.Background(), userId, session.Id)
	assert.ErrorIs(t, err, ErrNothingToUpload)
}

func TestUploadRejectsForeignSession(t *testing.T) {
	owner := uuid.New()
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      owner,
		ContentType: constant.ContentTypeQuestion,
	}

	_, svc := newUploadFixture(session, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrForbidden)
}
