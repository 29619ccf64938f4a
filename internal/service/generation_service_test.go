package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/repository/memory"
	"ai-coursegen-be/pkg/llm"
)

// scriptedProvider replays canned completions in call order.
type scriptedProvider struct {
	responses []string
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	text := p.responses[p.calls%len(p.responses)]
	p.calls++
	return &llm.Completion{
		Text:         text,
		Model:        "gemma:2b",
		InputTokens:  120,
		OutputTokens: 480,
	}, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func newGenerationFixture(session *entity.GenerationSession, responses ...string) (*fakeUnitOfWork, IGenerationService) {
	uow := &fakeUnitOfWork{
		sessions:  &fakeSessionRepo{session: session},
		proposals: &fakeProposalRepo{},
		logs:      &fakeLogRepo{},
		writer:    &fakeWriter{},
	}
	provider := &scriptedProvider{responses: responses}
	svc := NewGenerationService(&fakeFactory{uow: uow}, provider, nil, noopLogger{}, memory.NewRunGuard(), 0)
	return uow, svc
}

func TestProcessQuestionSessionFromFencedResponse(t *testing.T) {
	session := &entity.GenerationSession{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		ContentType:   constant.ContentTypeQuestion,
		Status:        constant.SessionStatusPending,
		InputSettings: map[string]interface{}{"item_count": float64(3)},
	}

	response := "Here are your questions:\n```json\n{\"questions\": [" +
		`{"title": "Add", "question_type": "mcq", "question_data": {"question_text": "2+2=?", "options": ["3", "4", "5"], "correct_answer": "B"}},` +
		`{"title": "Subtract", "question_type": "mcq", "question_data": {"question_text": "5-2=?", "options": ["2", "3", "4"], "correct_answer": "B"}},` +
		`{"title": "Multiply", "question_type": "mcq", "question_data": {"question_text": "2*3=?", "options": ["5", "6", "7"], "correct_answer": "B"}}` +
		"]}\n```"

	uow, svc := newGenerationFixture(session, response)

	stats, err := svc.Process(context.Background(), session.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ItemsGenerated)
	assert.Equal(t, 3, stats.ValidItems)
	assert.InDelta(t, 1.0, stats.QualityScore, 1e-9)

	proposals := uow.proposals.proposals
	require.Len(t, proposals, 3)
	for _, p := range proposals {
		assert.True(t, p.IsValid, p.DisplayTitle())
		assert.Equal(t, constant.ProposalStatusPending, p.Status)
		assert.Equal(t, session.Id, p.SessionId)
	}

	questionData, ok := proposals[0].ProposedData["question_data"].(map[string]interface{})
	require.True(t, ok)
	options, ok := questionData["options"].([]interface{})
	require.True(t, ok)
	require.Len(t, options, 3)

	second, ok := options[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b", second["id"])
	assert.Equal(t, "4", second["text"])
	assert.Equal(t, true, second["is_correct"])
	for i, raw := range options {
		opt := raw.(map[string]interface{})
		assert.Equal(t, i == 1, opt["is_correct"], "only option b is correct")
	}

	assert.Equal(t, constant.SessionStatusReviewPending, session.Status)
	assert.Equal(t, 1, session.CurrentIteration, "one model call, one iteration")
}

func TestProcessCourseSessionBuildsNestedProposals(t *testing.T) {
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      uuid.New(),
		ContentType: constant.ContentTypeCourse,
		Status:      constant.SessionStatusPending,
	}

	slides := `[{"title": "S1", "blocks": [{"type": "text"}]}, {"title": "S2", "blocks": [{"type": "text"}]}, {"title": "S3", "blocks": [{"type": "text"}]}]`
	response := `{"courses": [{"title": "Fractions 101", "description": "Intro course", "modules": [` +
		`{"title": "Basics", "lessons": [` +
		`{"title": "Halves", "slides": ` + slides + `},` +
		`{"title": "Quarters", "slides": ` + slides + `}` +
		`]}]}]}`

	uow, svc := newGenerationFixture(session, response)

	stats, err := svc.Process(context.Background(), session.Id)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.ItemsGenerated, "1 course + 1 module + 2 lessons + 6 slides")

	proposals := uow.proposals.proposals
	require.Len(t, proposals, 10)

	roots := buildProposalTree(proposals)
	require.Len(t, roots, 1)
	assert.Equal(t, constant.ContentTypeCourse, roots[0].ContentType)
	require.Len(t, roots[0].Children, 1)

	module := roots[0].Children[0]
	assert.Equal(t, constant.ContentTypeModule, module.ContentType)
	assert.Equal(t, constant.ContentTypeCourse, module.ParentType)
	require.Len(t, module.Children, 2)
	for _, lesson := range module.Children {
		assert.Equal(t, constant.ContentTypeLesson, lesson.ContentType)
		assert.Len(t, lesson.Children, 3)
	}
}

func TestProcessStopsAtIterationBudget(t *testing.T) {
	session := &entity.GenerationSession{
		Id:               uuid.New(),
		UserId:           uuid.New(),
		ContentType:      constant.ContentTypeQuestion,
		Status:           constant.SessionStatusPending,
		MaxIterations:    2,
		CurrentIteration: 2,
	}

	_, svc := newGenerationFixture(session, `{"questions": []}`)

	_, err := svc.Process(context.Background(), session.Id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iteration budget")
	assert.Equal(t, constant.SessionStatusFailed, session.Status)
}

func TestCreateProposalDropsIllegalContainment(t *testing.T) {
	session := &entity.GenerationSession{
		Id:          uuid.New(),
		UserId:      uuid.New(),
		ContentType: constant.ContentTypeCourse,
	}

	uow := &fakeUnitOfWork{
		sessions:  &fakeSessionRepo{session: session},
		proposals: &fakeProposalRepo{},
		logs:      &fakeLogRepo{},
		writer:    &fakeWriter{},
	}
	svc := &generationService{
		uowFactory: &fakeFactory{uow: uow},
		logger:     noopLogger{},
		guard:      memory.NewRunGuard(),
	}

	parentId := uuid.New()
	proposal, err := svc.createProposal(context.Background(), uow, session,
		constant.ContentTypeCourse, map[string]interface{}{"title": "Upside down"},
		0, &parentId, constant.ContentTypeSlide)

	require.NoError(t, err)
	assert.Nil(t, proposal, "illegal pairing is dropped, not stored")
	assert.Empty(t, uow.proposals.proposals)
	require.Len(t, uow.logs.logs, 1)
	assert.Equal(t, constant.LogLevelWarning, uow.logs.logs[0].Level)
}
