package contract

import (
	"context"

	"ai-coursegen-be/internal/entity"

	"github.com/google/uuid"
)

// ContentWriterRepository materializes approved proposal payloads into
// the catalog tables.
type ContentWriterRepository interface {
	// Create inserts a payload into the table for the given content type
	// and returns the created model's type name and id.
	Create(ctx context.Context, contentType string, data map[string]interface{}) (string, uuid.UUID, error)

	AttachAssessmentQuestion(ctx context.Context, assessmentId, questionId uuid.UUID, orderPosition, customPoints int) error
	AttachModuleLesson(ctx context.Context, moduleId, lessonId uuid.UUID, orderPosition int) error

	ListCourses(ctx context.Context, organizationId *uuid.UUID) ([]*entity.CourseRef, error)
}
