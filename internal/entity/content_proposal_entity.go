package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-coursegen-be/internal/constant"
)

// ContentProposal is a single generated content item awaiting review.
// ProposedData holds the current (possibly edited) payload while
// OriginalData preserves what the model produced.
type ContentProposal struct {
	Id                uuid.UUID
	SessionId         uuid.UUID
	ContentType       string
	ParentProposalId  *uuid.UUID
	ParentType        string
	OrderPosition     int
	Status            string
	ProposedData      map[string]interface{}
	OriginalData      map[string]interface{}
	UserModifications map[string]interface{}
	ModifiedBy        *uuid.UUID
	ModifiedAt        *time.Time
	IsValid           bool
	ValidationErrors  []string
	CreatedModelType  string
	CreatedModelId    *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (p *ContentProposal) proposedString(key string) string {
	if p.ProposedData == nil {
		return ""
	}
	v, _ := p.ProposedData[key].(string)
	return v
}

// DisplayTitle returns a human readable label for review listings.
func (p *ContentProposal) DisplayTitle() string {
	if title := p.proposedString("title"); title != "" {
		return title
	}
	if name := p.proposedString("name"); name != "" {
		return name
	}
	return "Untitled " + p.ContentType
}

// UpdateProposedData merges reviewer edits into the proposed payload,
// records who changed what, and flips the proposal to modified.
func (p *ContentProposal) UpdateProposedData(modifications map[string]interface{}, userId uuid.UUID) {
	if p.ProposedData == nil {
		p.ProposedData = map[string]interface{}{}
	}
	for key, value := range modifications {
		p.ProposedData[key] = value
	}
	p.UserModifications = modifications
	p.ModifiedBy = &userId
	now := time.Now()
	p.ModifiedAt = &now
	p.Status = constant.ProposalStatusModified
}

// ReplaceProposedData swaps the whole payload, used after a refinement
// round trip through the model.
func (p *ContentProposal) ReplaceProposedData(data map[string]interface{}) {
	p.ProposedData = data
	p.Status = constant.ProposalStatusModified
}

func (p *ContentProposal) MarkAsUploaded(modelType string, modelId uuid.UUID) {
	p.Status = constant.ProposalStatusUploaded
	p.CreatedModelType = modelType
	p.CreatedModelId = &modelId
}

func (p *ContentProposal) IsUploadable() bool {
	if !p.IsValid {
		return false
	}
	for _, status := range constant.UploadableProposalStatuses {
		if p.Status == status {
			return true
		}
	}
	return false
}

// legalParents maps each content type to the container types allowed to
// hold it. Courses, modules and lessons may also embed their deeper
// sub-levels directly; assessments hold bank questions.
var legalParents = map[string]map[string]bool{
	constant.ContentTypeModule: {
		constant.ContentTypeCourse: true,
	},
	constant.ContentTypeLesson: {
		constant.ContentTypeCourse: true,
		constant.ContentTypeModule: true,
	},
	constant.ContentTypeSlide: {
		constant.ContentTypeCourse: true,
		constant.ContentTypeModule: true,
		constant.ContentTypeLesson: true,
	},
	constant.ContentTypeQuestion: {
		constant.ContentTypeCourse:     true,
		constant.ContentTypeModule:     true,
		constant.ContentTypeLesson:     true,
		constant.ContentTypeAssessment: true,
	},
}

// CanContain reports whether parentType is a legal container for
// childType.
func CanContain(parentType, childType string) bool {
	return legalParents[childType][parentType]
}

// Validate checks the proposed payload against the per-type required
// fields and records the result on the proposal.
func (p *ContentProposal) Validate() bool {
	var errs []string
	data := p.ProposedData
	if data == nil {
		data = map[string]interface{}{}
	}

	switch p.ContentType {
	case constant.ContentTypeQuestion:
		errs = validateQuestion(data)
	case constant.ContentTypeAssessment, constant.ContentTypeCourse,
		constant.ContentTypeModule, constant.ContentTypeLesson:
		errs = requireFields(data, "title")
	case constant.ContentTypeSlide:
		errs = validateSlide(data)
	case constant.ContentTypeArticle:
		errs = requireFields(data,
			"organization_id", "category", "tag", "name", "title",
			"description", "body_type", "author", "scheduled_publish_date",
			"sections")
	default:
		errs = []string{fmt.Sprintf("unknown content type: %s", p.ContentType)}
	}

	if p.ParentProposalId != nil && !CanContain(p.ParentType, p.ContentType) {
		errs = append(errs, fmt.Sprintf("A %s cannot be nested under a %s", p.ContentType, p.ParentType))
	}

	p.IsValid = len(errs) == 0
	p.ValidationErrors = errs
	return p.IsValid
}

func requireFields(data map[string]interface{}, fields ...string) []string {
	var errs []string
	for _, field := range fields {
		v, ok := data[field]
		if !ok || v == nil {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}
	return errs
}

func validateQuestion(data map[string]interface{}) []string {
	errs := requireFields(data, "title", "question_type")

	questionData, _ := data["question_data"].(map[string]interface{})
	if questionData == nil {
		errs = append(errs, "Missing question_data")
		return errs
	}

	if text, _ := questionData["question_text"].(string); text == "" {
		errs = append(errs, "Missing question text")
	}

	if marks, ok := data["marks"]; ok {
		if f, isNum := marks.(float64); isNum && f < 0 {
			errs = append(errs, "Marks must be zero or greater")
		}
		if n, isInt := marks.(int); isInt && n < 0 {
			errs = append(errs, "Marks must be zero or greater")
		}
	}

	if qt, _ := data["question_type"].(string); qt == "mcq" {
		options, _ := questionData["options"].([]interface{})
		if len(options) < 2 {
			errs = append(errs, "MCQ questions need at least 2 options")
		}
	}

	return errs
}

func validateSlide(data map[string]interface{}) []string {
	errs := requireFields(data, "title")
	blocks, ok := data["blocks"].([]interface{})
	if !ok || len(blocks) == 0 {
		errs = append(errs, "Slide needs at least one block")
	}
	return errs
}
