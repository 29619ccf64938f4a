package constant

// Content types a generation session can produce.
const (
	ContentTypeQuestion   = "question"
	ContentTypeAssessment = "assessment"
	ContentTypeCourse     = "course"
	ContentTypeModule     = "module"
	ContentTypeLesson     = "lesson"
	ContentTypeSlide      = "slide"
	ContentTypeArticle    = "article"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []string{
	ContentTypeQuestion,
	ContentTypeAssessment,
	ContentTypeCourse,
	ContentTypeModule,
	ContentTypeLesson,
	ContentTypeSlide,
	ContentTypeArticle,
}

func IsValidContentType(contentType string) bool {
	for _, ct := range ContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

// Session lifecycle statuses.
const (
	SessionStatusPending       = "pending"
	SessionStatusProcessing    = "processing"
	SessionStatusCompleted     = "completed"
	SessionStatusFailed        = "failed"
	SessionStatusCancelled     = "cancelled"
	SessionStatusReviewPending = "review_pending"
	SessionStatusApproved      = "approved"
	SessionStatusRejected      = "rejected"
)

// ActiveSessionStatuses are the statuses of sessions still in flight or
// awaiting review.
var ActiveSessionStatuses = []string{
	SessionStatusPending,
	SessionStatusProcessing,
	SessionStatusReviewPending,
}

// FinishedSessionStatuses are shown in the recent-history listing.
var FinishedSessionStatuses = []string{
	SessionStatusCompleted,
	SessionStatusReviewPending,
	SessionStatusApproved,
	SessionStatusFailed,
}

// Session source types.
const (
	SourcePrompt = "prompt"
	SourceText   = "text"
	SourceFile   = "file"
	SourceURL    = "url"
)

// Proposal review statuses.
const (
	ProposalStatusPending  = "pending"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
	ProposalStatusModified = "modified"
	ProposalStatusUploaded = "uploaded"
)

// UploadableProposalStatuses are the statuses eligible for materialization.
var UploadableProposalStatuses = []string{
	ProposalStatusApproved,
	ProposalStatusModified,
}

// Log levels.
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log actions.
const (
	ActionSessionStart = "session_start"
	ActionGenerate     = "generate"
	ActionValidate     = "validate"
	ActionRefine       = "refine"
	ActionUpload       = "upload"
	ActionError        = "error"
	ActionComplete     = "complete"
)

// wrapperKeys are the envelope keys model responses commonly wrap their
// payload in, checked in order.
var wrapperKeys = []string{
	"items",
	"questions",
	"assessments",
	"courses",
	"modules",
	"lessons",
	"slides",
	"articles",
}

// WrapperKeys returns the envelope keys to probe when decoding a model
// response for the given content type.
func WrapperKeys() []string {
	keys := make([]string, len(wrapperKeys))
	copy(keys, wrapperKeys)
	return keys
}
