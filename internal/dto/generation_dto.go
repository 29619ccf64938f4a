package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-coursegen-be/internal/entity"
)

type CreateSessionRequest struct {
	ContentType      string                 `json:"content_type" validate:"required,oneof=question assessment course module lesson slide article"`
	UserPrompt       string                 `json:"user_prompt" validate:"max=5000"`
	SourceType       string                 `json:"source_type" validate:"omitempty,oneof=prompt text file url"`
	SourceData       map[string]interface{} `json:"source_data"`
	InputSettings    map[string]interface{} `json:"input_settings"`
	QualityThreshold *float64               `json:"quality_threshold" validate:"omitempty,min=0.5,max=1"`
	MaxIterations    *int                   `json:"max_iterations" validate:"omitempty,min=1,max=20"`
	ProcessNow       *bool                  `json:"process_now"`
}

type SessionResponse struct {
	Id                    uuid.UUID              `json:"id"`
	ContentType           string                 `json:"content_type"`
	Status                string                 `json:"status"`
	UserPrompt            string                 `json:"user_prompt,omitempty"`
	SourceType            string                 `json:"source_type"`
	InputSettings         map[string]interface{} `json:"input_settings,omitempty"`
	QualityThreshold      float64                `json:"quality_threshold"`
	MaxIterations         int                    `json:"max_iterations"`
	ItemsGenerated        int                    `json:"items_generated"`
	ItemsApproved         int                    `json:"items_approved"`
	ItemsRejected         int                    `json:"items_rejected"`
	CurrentQualityScore   float64                `json:"current_quality_score"`
	ErrorMessage          string                 `json:"error_message,omitempty"`
	StartedAt             *time.Time             `json:"started_at,omitempty"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	ProcessingTimeSeconds int                    `json:"processing_time_seconds"`
	CreatedAt             time.Time              `json:"created_at"`
}

type ProposalResponse struct {
	Id               uuid.UUID              `json:"id"`
	SessionId        uuid.UUID              `json:"session_id"`
	ContentType      string                 `json:"content_type"`
	ParentProposalId *uuid.UUID             `json:"parent_proposal_id,omitempty"`
	ParentType       string                 `json:"parent_type,omitempty"`
	OrderPosition    int                    `json:"order_position"`
	Status           string                 `json:"status"`
	DisplayTitle     string                 `json:"display_title"`
	ProposedData     map[string]interface{} `json:"proposed_data"`
	IsValid          bool                   `json:"is_valid"`
	ValidationErrors []string               `json:"validation_errors,omitempty"`
	CreatedModelType string                 `json:"created_model_type,omitempty"`
	CreatedModelId   *uuid.UUID             `json:"created_model_id,omitempty"`
	Children         []*ProposalResponse    `json:"children,omitempty"`
}

type LogResponse struct {
	Id           uuid.UUID              `json:"id"`
	Level        string                 `json:"level"`
	Action       string                 `json:"action"`
	Message      string                 `json:"message"`
	Context      map[string]interface{} `json:"context,omitempty"`
	ModelUsed    string                 `json:"model_used,omitempty"`
	TokensInput  int                    `json:"tokens_input"`
	TokensOutput int                    `json:"tokens_output"`
	CostUsd      float64                `json:"cost_usd"`
	DurationMs   int                    `json:"duration_ms"`
	CreatedAt    time.Time              `json:"created_at"`
}

type CreateSessionResponse struct {
	Message string           `json:"message,omitempty"`
	Session *SessionResponse `json:"session"`
	Stats   *SessionStats    `json:"stats,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type SessionStats struct {
	ItemsGenerated int     `json:"items_generated"`
	ValidItems     int     `json:"valid_items"`
	QualityScore   float64 `json:"quality_score"`
}

type SessionListResponse struct {
	ActiveSessions []*SessionResponse  `json:"active_sessions"`
	RecentSessions []*SessionResponse  `json:"recent_sessions"`
	Courses        []*entity.CourseRef `json:"courses"`
	ContentTypes   []string            `json:"content_types"`
}

type SessionDetailResponse struct {
	Session      *SessionResponse    `json:"session"`
	ProposalTree []*ProposalResponse `json:"proposal_tree"`
	TokenUsage   *entity.TokenUsage  `json:"token_usage"`
}

type UpdateProposalRequest struct {
	ProposedData map[string]interface{} `json:"proposed_data" validate:"required"`
	Status       string                 `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type RefineProposalRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

type ProposalIdsRequest struct {
	ProposalIds []uuid.UUID `json:"proposal_ids" validate:"required,min=1"`
}

type ReviewCountResponse struct {
	ApprovedCount int64 `json:"approved_count,omitempty"`
	RejectedCount int64 `json:"rejected_count,omitempty"`
}

type UploadResultResponse struct {
	CreatedCount int      `json:"created_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors,omitempty"`
}

type QuestionTypeInfo struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	SupportsImage bool   `json:"supports_images"`
	Grading       string `json:"grading"`
}

// ProcessSessionMessage is the queue payload for deferred processing.
type ProcessSessionMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}

type CatalogResponse struct {
	ContentTypes  []string           `json:"content_types"`
	QuestionTypes []QuestionTypeInfo `json:"question_types"`
}
