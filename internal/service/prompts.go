package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/entity"
)

const basePrompt = "You are an expert educational content creator. Generate high-quality, pedagogically sound content. Always respond with valid JSON only. No extra text, no markdown, no code fences."

const questionSystemPrompt = `Generate questions for an educational question bank.

Each question MUST have this exact structure:
{
  "title": "Brief descriptive title for the question",
  "category": "Subject area (e.g., Mathematics, English, Science)",
  "subcategory": "Specific topic (e.g., Algebra, Grammar, Biology)",
  "grade": "Year group (e.g., Pre-K, Kindergarten, Grade 7)",
  "question_type": "mcq|short_answer|long_answer|matching|cloze|ordering|comprehension|image_grid_mcq|true_false",
  "question_data": {
    "question_text": "The actual question text",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correct_answer": "The correct answer or index",
    "explanation": "Why this is the correct answer"
  },
  "answer_schema": {
    "correct_answer": "A|B|C|D or the answer text",
    "keywords": ["keyword1", "keyword2"],
    "case_sensitive": false
  },
  "difficulty_level": 5,
  "estimated_time_minutes": 2,
  "marks": 1,
  "hints": ["Hint 1", "Hint 2"],
  "solutions": ["Step 1: ...", "Step 2: ..."],
  "tags": ["algebra", "equations"]
}

Respond with: {"questions": [...]}`

const assessmentSystemPrompt = `Generate assessments with embedded questions.

Each assessment MUST have this structure:
{
  "title": "Assessment title",
  "year_group": "Grade 8",
  "description": "Assessment description",
  "type": "mcq|short_answer|essay|mixed",
  "status": "active|inactive|archived",
  "time_limit": 30,
  "retake_allowed": true,
  "questions": [
    // Array of question objects (same structure as question bank)
  ]
}

Each question MUST include:
- "title"
- "question_type": one of "mcq|short_answer|matching|cloze|ordering|comprehension|long_answer"
- "question_data" with the same fields as the Question Bank creator uses.

Respond with: {"assessments": [...]}`

const courseSystemPrompt = `Generate complete course structures with modules, lessons, and slides.

Each course MUST have this structure:
{
  "title": "Course title",
  "year_group": "Grade 8",
  "description": "Course description",
  "status": "draft",
  "metadata": {
    "category": "Mathematics",
    "difficulty_level": "beginner",
    "learning_objectives": "...",
    "estimated_duration_minutes": 600
  },
  "modules": [
    {
      "title": "Module title",
      "description": "Module description",
      "order_position": 0,
      "metadata": {
        "estimated_duration_minutes": 120
      },
      "lessons": [
        {
          "title": "Lesson title",
          "description": "Lesson description",
          "lesson_type": "interactive|video|reading|practice|assessment",
          "delivery_mode": "self_paced|live_interactive|hybrid",
          "estimated_minutes": 20,
          "enable_ai_help": true,
          "enable_tts": true,
          "slides": [
            {
              "title": "Slide title",
              "order_position": 0,
              "estimated_seconds": 60,
              "blocks": [
                {"type": "text", "content": {"text": "Slide Title", "fontSize": "h1"}},
                {"type": "text", "content": {"text": "Slide content..."}}
              ]
            }
          ]
        }
      ]
    }
  ]
}

Use ONLY these block types:
text, image, video, callout, embed, timer, reflection, whiteboard, code, table, divider, question, upload

Respond with: {"courses": [...]}`

const moduleSystemPrompt = `Generate modules with lessons and slides.

Each module MUST have this structure:
{
  "title": "Module title",
  "description": "Module description",
  "order_position": 0,
  "status": "draft",
  "metadata": {
    "estimated_duration_minutes": 120
  },
  "lessons": [
    {
      "title": "Lesson title",
      "description": "Lesson description",
      "lesson_type": "interactive|video|reading|practice|assessment",
      "delivery_mode": "self_paced|live_interactive|hybrid",
      "estimated_minutes": 20,
      "enable_ai_help": true,
      "enable_tts": true,
      "slides": [...]
    }
  ]
}

Respond with: {"modules": [...]}`

const lessonSystemPrompt = `Generate lessons with slides.

Each lesson MUST have this structure:
{
  "title": "Lesson title",
  "description": "Lesson description",
  "year_group": "Grade 8",
  "lesson_type": "interactive|video|reading|practice|assessment",
  "delivery_mode": "self_paced|live_interactive|hybrid",
  "status": "draft",
  "estimated_minutes": 20,
  "enable_ai_help": true,
  "enable_tts": true,
  "slides": [
    {
      "title": "Slide title",
      "order_position": 0,
      "estimated_seconds": 60,
      "blocks": [
        {"type": "text", "content": {"text": "Title", "fontSize": "h1"}},
        {"type": "text", "content": {"text": "Content"}},
        {"type": "image", "content": {"alt": "Description"}},
        {"type": "question", "content": {"question_text": "...", "question_type": "mcq", "options": [...]}}
      ]
    }
  ]
}

Available block types: text, image, video, callout, embed, timer, reflection, whiteboard, code, table, divider, question, upload

Respond with: {"lessons": [...]}`

const slideSystemPrompt = `Generate individual slides with blocks.

Each slide MUST have this structure:
{
  "title": "Slide title",
  "order_position": 0,
  "estimated_seconds": 60,
  "auto_advance": false,
  "min_time_seconds": 30,
  "blocks": [
    {"type": "text", "content": {"text": "Slide Title", "fontSize": "h1"}},
    {"type": "text", "content": {"text": "Paragraph content..."}},
    {"type": "image", "content": {"alt": "Image description"}},
    {"type": "question", "content": {
      "question_text": "What is...?",
      "question_type": "mcq",
      "options": ["A", "B", "C", "D"]
    }}
  ],
  "teacher_notes": "Notes for the teacher..."
}

Available block types:
- text: {text, fontSize?}
- image: {url?, alt?, caption?}
- video: {url?, caption?}
- callout: {type?, text, title?}
- embed: {url}
- timer: {duration_seconds}
- reflection: {prompt, placeholder?}
- whiteboard: {instructions}
- code: {code, language?}
- table: {headers, rows}
- divider: {style?}
- question: {question_text, question_type, options?}
- upload: {instructions, allowed_types?, max_size_mb?}

Respond with: {"slides": [...]}`

const articleSystemPrompt = `Generate educational articles.

Each article MUST have this structure:
{
  "title": "Article title",
  "name": "article-slug",
  "category": "Category name",
  "tag": "tag1,tag2,tag3",
  "description": "Brief description/excerpt",
  "body_type": "pdf|template",
  "article_template": "Template body if body_type is template",
  "author": "Author Name",
  "sections": [
    {
      "header": "Section title",
      "body": "Section content..."
    }
  ],
  "key_attributes": ["attribute1", "attribute2"],
  "scheduled_publish_date": "2025-01-31"
}

Respond with: {"articles": [...]}`

func systemPrompt(contentType string) string {
	switch contentType {
	case constant.ContentTypeQuestion:
		return basePrompt + "\n\n" + questionSystemPrompt
	case constant.ContentTypeAssessment:
		return basePrompt + "\n\n" + assessmentSystemPrompt
	case constant.ContentTypeCourse:
		return basePrompt + "\n\n" + courseSystemPrompt
	case constant.ContentTypeModule:
		return basePrompt + "\n\n" + moduleSystemPrompt
	case constant.ContentTypeLesson:
		return basePrompt + "\n\n" + lessonSystemPrompt
	case constant.ContentTypeSlide:
		return basePrompt + "\n\n" + slideSystemPrompt
	case constant.ContentTypeArticle:
		return basePrompt + "\n\n" + articleSystemPrompt
	}
	return basePrompt
}

func buildGenerationPrompt(session *entity.GenerationSession) string {
	switch session.ContentType {
	case constant.ContentTypeQuestion:
		return buildQuestionPrompt(session)
	case constant.ContentTypeAssessment:
		return buildAssessmentPrompt(session)
	case constant.ContentTypeCourse:
		return buildCoursePrompt(session)
	case constant.ContentTypeModule:
		return buildModulePrompt(session)
	case constant.ContentTypeLesson:
		return buildLessonPrompt(session)
	case constant.ContentTypeSlide:
		return buildSlidePrompt(session)
	case constant.ContentTypeArticle:
		return buildArticlePrompt(session)
	}
	return session.UserPrompt
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func buildQuestionPrompt(session *entity.GenerationSession) string {
	count := session.ItemCount()
	category := orDefault(session.Category(), "General")
	yearGroup := orDefault(session.YearGroup(), "Grade 8")
	min, max := session.DifficultyRange()

	questionTypes := []string{"mcq"}
	if raw, ok := session.InputSettings["question_types"].([]interface{}); ok && len(raw) > 0 {
		questionTypes = questionTypes[:0]
		for _, v := range raw {
			if s, ok := v.(string); ok {
				questionTypes = append(questionTypes, s)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d high-quality educational questions.\n\n", count)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Category: %s\n", category)
	fmt.Fprintf(&b, "- Year Group: %s\n", yearGroup)
	fmt.Fprintf(&b, "- Difficulty range: %d to %d (on 1-10 scale)\n", min, max)
	fmt.Fprintf(&b, "- Question types: %s\n", strings.Join(questionTypes, ", "))

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", session.UserPrompt)
	}
	if len(session.SourceData) > 0 {
		raw, _ := json.Marshal(session.SourceData)
		fmt.Fprintf(&b, "\nSource content to base questions on:\n%s\n", raw)
	}

	return b.String()
}

func buildAssessmentPrompt(session *entity.GenerationSession) string {
	count := session.ItemCount()
	yearGroup := orDefault(session.YearGroup(), "Grade 8")
	questionsPerAssessment := session.SettingInt("questions_per_assessment", 10)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d educational assessment(s).\n\n", count)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Year Group: %s\n", yearGroup)
	fmt.Fprintf(&b, "- Questions per assessment: %d\n", questionsPerAssessment)

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildCoursePrompt(session *entity.GenerationSession) string {
	yearGroup := orDefault(session.YearGroup(), "Grade 8")
	category := orDefault(session.Category(), "General")
	modulesCount := session.SettingInt("modules_count", 5)
	lessonsPerModule := session.SettingInt("lessons_per_module", 4)
	slidesPerLesson := session.SettingInt("slides_per_lesson", 6)

	var b strings.Builder
	b.WriteString("Generate a complete course structure.\n\n")
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Year Group: %s\n", yearGroup)
	fmt.Fprintf(&b, "- Category: %s\n", category)
	fmt.Fprintf(&b, "- Number of modules: %d\n", modulesCount)
	fmt.Fprintf(&b, "- Lessons per module: %d\n", lessonsPerModule)
	fmt.Fprintf(&b, "- Slides per lesson: %d\n", slidesPerLesson)

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nCourse topic and requirements:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildModulePrompt(session *entity.GenerationSession) string {
	count := session.ItemCount()
	lessonsPerModule := session.SettingInt("lessons_per_module", 4)
	slidesPerLesson := session.SettingInt("slides_per_lesson", 6)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d module(s) with lessons and slides.\n\n", count)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Lessons per module: %d\n", lessonsPerModule)
	fmt.Fprintf(&b, "- Slides per lesson: %d\n", slidesPerLesson)

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nModule topic and requirements:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildLessonPrompt(session *entity.GenerationSession) string {
	count := session.ItemCount()
	yearGroup := orDefault(session.YearGroup(), "Grade 8")
	slidesPerLesson := session.SettingInt("slides_per_lesson", 6)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d lesson(s) with slides.\n\n", count)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Year Group: %s\n", yearGroup)
	fmt.Fprintf(&b, "- Slides per lesson: %d\n", slidesPerLesson)

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nLesson topic and requirements:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildSlidePrompt(session *entity.GenerationSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d educational slide(s).\n\n", session.ItemCount())

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "Slide content requirements:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildArticlePrompt(session *entity.GenerationSession) string {
	count := session.ItemCount()
	category := session.SettingString("article_category")
	if category == "" {
		category = orDefault(session.Category(), "General")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d educational article(s).\n\n", count)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Category: %s\n", category)
	if v := session.SettingString("title_style"); v != "" {
		fmt.Fprintf(&b, "- Title style: %s\n", v)
	}
	if v := session.SettingString("audience_level"); v != "" {
		fmt.Fprintf(&b, "- Audience level: %s\n", v)
	}
	if v := session.SettingString("tone"); v != "" {
		fmt.Fprintf(&b, "- Tone: %s\n", v)
	}
	if v, ok := session.InputSettings["section_count"]; ok {
		if n, isNum := v.(float64); isNum && n > 0 {
			fmt.Fprintf(&b, "- Section count: %d\n", int(n))
		}
	}

	if session.UserPrompt != "" {
		fmt.Fprintf(&b, "\nArticle topic and requirements:\n%s\n", session.UserPrompt)
	}

	return b.String()
}

func buildRefinePrompt(contentType string, proposedData map[string]interface{}, feedback string) string {
	pretty, _ := json.MarshalIndent(proposedData, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "Improve this %s based on the feedback.\n\n", contentType)
	fmt.Fprintf(&b, "Current content:\n%s\n\n", pretty)
	fmt.Fprintf(&b, "Feedback/Improvements needed:\n%s\n\n", feedback)
	b.WriteString("Return the improved content in the same JSON structure.")

	return b.String()
}
