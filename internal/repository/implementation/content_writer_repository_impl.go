package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-coursegen-be/internal/constant"
	"ai-coursegen-be/internal/entity"
	"ai-coursegen-be/internal/model"
	"ai-coursegen-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentWriterRepositoryImpl struct {
	db *gorm.DB
}

func NewContentWriterRepository(db *gorm.DB) contract.ContentWriterRepository {
	return &ContentWriterRepositoryImpl{db: db}
}

func (r *ContentWriterRepositoryImpl) Create(ctx context.Context, contentType string, data map[string]interface{}) (string, uuid.UUID, error) {
	switch contentType {
	case constant.ContentTypeQuestion:
		m := &model.Question{
			OrganizationId:  uuidValue(data["organization_id"]),
			Title:           strValue(data["title"]),
			Category:        strValue(data["category"]),
			Subcategory:     strValue(data["subcategory"]),
			Grade:           strValue(data["grade"]),
			QuestionType:    strValue(data["question_type"]),
			QuestionData:    jsonValue(data["question_data"]),
			AnswerSchema:    jsonValue(data["answer_schema"]),
			DifficultyLevel: intValue(data["difficulty_level"], 5),
			Marks:           intValue(data["marks"], 1),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Question", m.Id, nil

	case constant.ContentTypeAssessment:
		m := &model.Assessment{
			OrganizationId:   uuidValue(data["organization_id"]),
			Title:            strValue(data["title"]),
			Description:      strValue(data["description"]),
			YearGroup:        strValue(data["year_group"]),
			Type:             strValue(data["type"]),
			Status:           strValue(data["status"]),
			TimeLimit:        intValue(data["time_limit"], 0),
			RetakeAllowed:    boolValue(data["retake_allowed"], false),
			AvailabilityDate: timeValue(data["availability_date"]),
			Deadline:         timeValue(data["deadline"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Assessment", m.Id, nil

	case constant.ContentTypeCourse:
		m := &model.Course{
			OrganizationId: uuidValue(data["organization_id"]),
			Title:          strValue(data["title"]),
			Description:    strValue(data["description"]),
			YearGroup:      strValue(data["year_group"]),
			Status:         strValueOr(data["status"], "draft"),
			Metadata:       jsonValue(data["metadata"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Course", m.Id, nil

	case constant.ContentTypeModule:
		courseId := uuidValue(data["course_id"])
		if courseId == nil {
			return "", uuid.Nil, fmt.Errorf("module payload is missing course_id")
		}
		m := &model.Module{
			CourseId:       *courseId,
			OrganizationId: uuidValue(data["organization_id"]),
			Title:          strValue(data["title"]),
			Description:    strValue(data["description"]),
			OrderPosition:  intValue(data["order_position"], 0),
			Status:         strValueOr(data["status"], "draft"),
			Metadata:       jsonValue(data["metadata"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Module", m.Id, nil

	case constant.ContentTypeLesson:
		m := &model.Lesson{
			CourseId:         uuidValue(data["course_id"]),
			OrganizationId:   uuidValue(data["organization_id"]),
			Title:            strValue(data["title"]),
			Description:      strValue(data["description"]),
			YearGroup:        strValue(data["year_group"]),
			LessonType:       strValue(data["lesson_type"]),
			DeliveryMode:     strValue(data["delivery_mode"]),
			Status:           strValueOr(data["status"], "draft"),
			EstimatedMinutes: intValue(data["estimated_minutes"], 0),
			EnableAiHelp:     boolValue(data["enable_ai_help"], true),
			EnableTts:        boolValue(data["enable_tts"], true),
			Metadata:         jsonValue(data["metadata"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Lesson", m.Id, nil

	case constant.ContentTypeSlide:
		lessonId := uuidValue(data["lesson_id"])
		if lessonId == nil {
			return "", uuid.Nil, fmt.Errorf("slide payload is missing lesson_id")
		}
		m := &model.Slide{
			LessonId:         *lessonId,
			Title:            strValue(data["title"]),
			OrderPosition:    intValue(data["order_position"], 0),
			EstimatedSeconds: intValue(data["estimated_seconds"], 60),
			AutoAdvance:      boolValue(data["auto_advance"], false),
			Blocks:           jsonValue(data["blocks"]),
			TeacherNotes:     strValue(data["teacher_notes"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Slide", m.Id, nil

	case constant.ContentTypeArticle:
		m := &model.Article{
			OrganizationId:       uuidValue(data["organization_id"]),
			Name:                 strValue(data["name"]),
			Title:                strValue(data["title"]),
			Category:             strValue(data["category"]),
			Tag:                  strValue(data["tag"]),
			Description:          strValue(data["description"]),
			BodyType:             strValue(data["body_type"]),
			ArticleTemplate:      strValue(data["article_template"]),
			Author:               strValue(data["author"]),
			ScheduledPublishDate: strValue(data["scheduled_publish_date"]),
			KeyAttributes:        jsonValue(data["key_attributes"]),
			Sections:             jsonValue(data["sections"]),
		}
		if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
			return "", uuid.Nil, err
		}
		return "Article", m.Id, nil
	}

	return "", uuid.Nil, fmt.Errorf("unsupported content type: %s", contentType)
}

func (r *ContentWriterRepositoryImpl) AttachAssessmentQuestion(ctx context.Context, assessmentId, questionId uuid.UUID, orderPosition, customPoints int) error {
	return r.db.WithContext(ctx).Create(&model.AssessmentQuestion{
		AssessmentId:  assessmentId,
		QuestionId:    questionId,
		OrderPosition: orderPosition,
		CustomPoints:  customPoints,
	}).Error
}

func (r *ContentWriterRepositoryImpl) AttachModuleLesson(ctx context.Context, moduleId, lessonId uuid.UUID, orderPosition int) error {
	return r.db.WithContext(ctx).Create(&model.ModuleLesson{
		ModuleId:      moduleId,
		LessonId:      lessonId,
		OrderPosition: orderPosition,
	}).Error
}

func (r *ContentWriterRepositoryImpl) ListCourses(ctx context.Context, organizationId *uuid.UUID) ([]*entity.CourseRef, error) {
	query := r.db.WithContext(ctx).Model(&model.Course{}).Order("title ASC")
	if organizationId != nil {
		query = query.Where("organization_id = ? OR organization_id IS NULL", organizationId)
	}

	var models []*model.Course
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	refs := make([]*entity.CourseRef, len(models))
	for i, m := range models {
		refs[i] = &entity.CourseRef{
			Id:        m.Id,
			Title:     m.Title,
			YearGroup: m.YearGroup,
		}
	}
	return refs, nil
}

// Payload values arrive as generic JSON, so every field read goes
// through one of the converters below.

func strValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func strValueOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intValue(v interface{}, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func boolValue(v interface{}, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func uuidValue(v interface{}) *uuid.UUID {
	switch value := v.(type) {
	case uuid.UUID:
		if value == uuid.Nil {
			return nil
		}
		return &value
	case string:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil
		}
		return &id
	}
	return nil
}

func timeValue(v interface{}) *time.Time {
	switch value := v.(type) {
	case time.Time:
		return &value
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return &t
			}
		}
	}
	return nil
}

func jsonValue(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
