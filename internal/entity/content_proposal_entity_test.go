package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-coursegen-be/internal/constant"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		proposal ContentProposal
		want     string
	}{
		{
			name: "title preferred",
			proposal: ContentProposal{
				ContentType:  constant.ContentTypeQuestion,
				ProposedData: map[string]interface{}{"title": "Fractions Quiz", "name": "other"},
			},
			want: "Fractions Quiz",
		},
		{
			name: "falls back to name",
			proposal: ContentProposal{
				ContentType:  constant.ContentTypeArticle,
				ProposedData: map[string]interface{}{"name": "Weekly Digest"},
			},
			want: "Weekly Digest",
		},
		{
			name:     "untitled fallback",
			proposal: ContentProposal{ContentType: constant.ContentTypeLesson},
			want:     "Untitled lesson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.proposal.DisplayTitle())
		})
	}
}

func TestUpdateProposedData(t *testing.T) {
	userId := uuid.New()
	p := &ContentProposal{
		Status: constant.ProposalStatusPending,
		ProposedData: map[string]interface{}{
			"title": "Old Title",
			"marks": float64(2),
		},
	}

	p.UpdateProposedData(map[string]interface{}{"title": "New Title"}, userId)

	assert.Equal(t, "New Title", p.ProposedData["title"])
	assert.Equal(t, float64(2), p.ProposedData["marks"], "untouched keys survive the merge")
	assert.Equal(t, constant.ProposalStatusModified, p.Status)
	assert.Equal(t, &userId, p.ModifiedBy)
	assert.NotNil(t, p.ModifiedAt)
	assert.Equal(t, map[string]interface{}{"title": "New Title"}, p.UserModifications)
}

func TestIsUploadable(t *testing.T) {
	p := &ContentProposal{Status: constant.ProposalStatusApproved, IsValid: true}
	assert.True(t, p.IsUploadable())

	p.Status = constant.ProposalStatusModified
	assert.True(t, p.IsUploadable())

	p.Status = constant.ProposalStatusPending
	assert.False(t, p.IsUploadable())

	p.Status = constant.ProposalStatusApproved
	p.IsValid = false
	assert.False(t, p.IsUploadable())
}

func TestMarkAsUploaded(t *testing.T) {
	modelId := uuid.New()
	p := &ContentProposal{Status: constant.ProposalStatusApproved}

	p.MarkAsUploaded("Question", modelId)

	assert.Equal(t, constant.ProposalStatusUploaded, p.Status)
	assert.Equal(t, "Question", p.CreatedModelType)
	assert.Equal(t, &modelId, p.CreatedModelId)
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]interface{}
		wantValid bool
	}{
		{
			name: "valid short answer",
			data: map[string]interface{}{
				"title":         "Add fractions",
				"question_type": "short_answer",
				"marks":         float64(2),
				"question_data": map[string]interface{}{
					"question_text": "What is 1/2 + 1/4?",
				},
			},
			wantValid: true,
		},
		{
			name: "missing question text",
			data: map[string]interface{}{
				"title":         "Add fractions",
				"question_type": "short_answer",
				"question_data": map[string]interface{}{},
			},
			wantValid: false,
		},
		{
			name: "negative marks",
			data: map[string]interface{}{
				"title":         "Add fractions",
				"question_type": "short_answer",
				"marks":         float64(-1),
				"question_data": map[string]interface{}{
					"question_text": "What is 1/2 + 1/4?",
				},
			},
			wantValid: false,
		},
		{
			name: "mcq needs two options",
			data: map[string]interface{}{
				"title":         "Pick one",
				"question_type": "mcq",
				"question_data": map[string]interface{}{
					"question_text": "Which is larger?",
					"options":       []interface{}{map[string]interface{}{"text": "1/2"}},
				},
			},
			wantValid: false,
		},
		{
			name: "mcq with options",
			data: map[string]interface{}{
				"title":         "Pick one",
				"question_type": "mcq",
				"question_data": map[string]interface{}{
					"question_text": "Which is larger?",
					"options": []interface{}{
						map[string]interface{}{"text": "1/2"},
						map[string]interface{}{"text": "1/4"},
					},
				},
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ContentProposal{ContentType: constant.ContentTypeQuestion, ProposedData: tt.data}
			assert.Equal(t, tt.wantValid, p.Validate())
			if !tt.wantValid {
				assert.NotEmpty(t, p.ValidationErrors)
			}
		})
	}
}

func TestValidateSlide(t *testing.T) {
	p := &ContentProposal{
		ContentType: constant.ContentTypeSlide,
		ProposedData: map[string]interface{}{
			"title":  "Intro",
			"blocks": []interface{}{map[string]interface{}{"type": "text"}},
		},
	}
	assert.True(t, p.Validate())

	p.ProposedData["blocks"] = []interface{}{}
	assert.False(t, p.Validate())
}

func TestValidateUnknownType(t *testing.T) {
	p := &ContentProposal{ContentType: "poem", ProposedData: map[string]interface{}{"title": "x"}}
	assert.False(t, p.Validate())
}

func TestCanContain(t *testing.T) {
	tests := []struct {
		parent string
		child  string
		legal  bool
	}{
		{constant.ContentTypeCourse, constant.ContentTypeModule, true},
		{constant.ContentTypeCourse, constant.ContentTypeLesson, true},
		{constant.ContentTypeCourse, constant.ContentTypeSlide, true},
		{constant.ContentTypeCourse, constant.ContentTypeQuestion, true},
		{constant.ContentTypeModule, constant.ContentTypeLesson, true},
		{constant.ContentTypeModule, constant.ContentTypeSlide, true},
		{constant.ContentTypeLesson, constant.ContentTypeSlide, true},
		{constant.ContentTypeLesson, constant.ContentTypeQuestion, true},
		{constant.ContentTypeAssessment, constant.ContentTypeQuestion, true},
		{constant.ContentTypeModule, constant.ContentTypeCourse, false},
		{constant.ContentTypeLesson, constant.ContentTypeModule, false},
		{constant.ContentTypeSlide, constant.ContentTypeLesson, false},
		{constant.ContentTypeQuestion, constant.ContentTypeAssessment, false},
		{constant.ContentTypeAssessment, constant.ContentTypeSlide, false},
		{constant.ContentTypeCourse, constant.ContentTypeCourse, false},
		{constant.ContentTypeCourse, constant.ContentTypeArticle, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.legal, CanContain(tt.parent, tt.child), "%s > %s", tt.parent, tt.child)
	}
}

func TestValidateFlagsIllegalContainment(t *testing.T) {
	parentId := uuid.New()
	p := &ContentProposal{
		ContentType:      constant.ContentTypeModule,
		ParentProposalId: &parentId,
		ParentType:       constant.ContentTypeLesson,
		ProposedData:     map[string]interface{}{"title": "Backwards"},
	}
	assert.False(t, p.Validate())
	assert.Contains(t, p.ValidationErrors[0], "cannot be nested")

	// The same payload under a legal parent passes
	p.ParentType = constant.ContentTypeCourse
	assert.True(t, p.Validate())

	// Roots never trip the containment check
	p.ParentProposalId = nil
	p.ParentType = ""
	assert.True(t, p.Validate())
}
