package events

import (
	"github.com/google/uuid"
)

const (
	EventSessionQueued    = "generation.session.queued"
	EventSessionCompleted = "generation.session.completed"
	EventSessionFailed    = "generation.session.failed"
	EventContentUploaded  = "generation.content.uploaded"
)

func NewSessionQueuedEvent(sessionId uuid.UUID, contentType string) Event {
	return newBaseEvent(EventSessionQueued, map[string]interface{}{
		"session_id":   sessionId.String(),
		"content_type": contentType,
	})
}

func NewSessionCompletedEvent(sessionId uuid.UUID, contentType string, itemsGenerated int, qualityScore float64) Event {
	return newBaseEvent(EventSessionCompleted, map[string]interface{}{
		"session_id":      sessionId.String(),
		"content_type":    contentType,
		"items_generated": itemsGenerated,
		"quality_score":   qualityScore,
	})
}

func NewSessionFailedEvent(sessionId uuid.UUID, contentType, reason string) Event {
	return newBaseEvent(EventSessionFailed, map[string]interface{}{
		"session_id":   sessionId.String(),
		"content_type": contentType,
		"reason":       reason,
	})
}

func NewContentUploadedEvent(sessionId uuid.UUID, contentType string, created int, failed int) Event {
	return newBaseEvent(EventContentUploaded, map[string]interface{}{
		"session_id":    sessionId.String(),
		"content_type":  contentType,
		"created_count": created,
		"error_count":   failed,
	})
}
