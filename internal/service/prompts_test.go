package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/entity"
)

func TestSystemPromptDispatch(t *testing.T) {
	for _, contentType := range constant.ContentTypes {
		prompt := systemPrompt(contentType)
		assert.Contains(t, prompt, "expert educational content creator", contentType)
		assert.Contains(t, prompt, "JSON", contentType)
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	session := &entity.GenerationSession{
		ContentType: constant.ContentTypeQuestion,
		UserPrompt:  "Focus on word problems",
		InputSettings: map[string]interface{}{
			"year_group":     "Year 4",
			"category":       "Mathematics",
			"item_count":     float64(3),
			"question_types": []interface{}{"mcq", "short_answer"},
		},
		SourceData: map[string]interface{}{"text": "Fractions recap"},
	}

	prompt := buildGenerationPrompt(session)

	assert.Contains(t, prompt, "Generate 3 high-quality educational questions.")
	assert.Contains(t, prompt, "Category: Mathematics")
	assert.Contains(t, prompt, "Year Group: Year 4")
	assert.Contains(t, prompt, "mcq, short_answer")
	assert.Contains(t, prompt, "Focus on word problems")
	assert.Contains(t, prompt, "Fractions recap")
}

func TestBuildQuestionPromptDefaults(t *testing.T) {
	session := &entity.GenerationSession{ContentType: constant.ContentTypeQuestion}

	prompt := buildGenerationPrompt(session)

	assert.Contains(t, prompt, "Generate 10 high-quality educational questions.")
	assert.Contains(t, prompt, "Category: General")
	assert.Contains(t, prompt, "Year Group: Grade 8")
	assert.Contains(t, prompt, "Difficulty range: 1 to 10")
	assert.Contains(t, prompt, "Question types: mcq")
	assert.NotContains(t, prompt, "Additional instructions")
}

func TestBuildCoursePrompt(t *testing.T) {
	session := &entity.GenerationSession{
		ContentType: constant.ContentTypeCourse,
		InputSettings: map[string]interface{}{
			"year_group":        "Year 7",
			"category":          "Science",
			"modules_count":     float64(3),
			"lessons_per_module": float64(2),
		},
	}

	prompt := buildGenerationPrompt(session)

	assert.Contains(t, prompt, "Year 7")
	assert.Contains(t, prompt, "Science")
	assert.Contains(t, prompt, "3")
}

func TestBuildRefinePrompt(t *testing.T) {
	prompt := buildRefinePrompt(constant.ContentTypeQuestion, map[string]interface{}{
		"title": "Add fractions",
	}, "Make the wording simpler")

	assert.True(t, strings.HasPrefix(prompt, "Improve this question based on the feedback."))
	assert.Contains(t, prompt, `"title": "Add fractions"`)
	assert.Contains(t, prompt, "Feedback/Improvements needed:\nMake the wording simpler")
	assert.Contains(t, prompt, "Return the improved content in the same JSON structure.")
}

func TestBuildGenerationPromptUnknownTypeFallsBack(t *testing.T) {
	session := &entity.GenerationSession{ContentType: "poem", UserPrompt: "write something"}
	assert.Equal(t, "write something", buildGenerationPrompt(session))
}
