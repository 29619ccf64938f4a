package normalize

// TypeDefinition describes a supported question type for catalog responses.
type TypeDefinition struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	SupportsImages bool   `json:"supports_images"`
	Grading        string `json:"grading"`
	Example        string `json:"example"`
}

var questionTypeDefinitions = map[string]TypeDefinition{
	"mcq": {
		Name:           "Multiple Choice Question",
		Description:    "Traditional multiple choice with single or multiple correct answers",
		Category:       "basic",
		SupportsImages: true,
		Grading:        "automatic",
		Example:        "What is the capital of France? A) London B) Paris C) Berlin",
	},
	"cloze": {
		Name:           "Cloze/Gap Fill",
		Description:    "Fill in the blanks in a passage of text",
		Category:       "basic",
		SupportsImages: false,
		Grading:        "automatic",
		Example:        "The capital of France is {blank} and it has a population of {blank}.",
	},
	"short_answer": {
		Name:           "Short Answer",
		Description:    "Open-ended short text response requiring manual or assisted grading",
		Category:       "open",
		SupportsImages: true,
		Grading:        "ai_assisted",
		Example:        "Explain the process of photosynthesis in 2-3 sentences.",
	},
	"long_answer": {
		Name:           "Long Answer/Essay",
		Description:    "Extended essay responses with rich text formatting",
		Category:       "open",
		SupportsImages: true,
		Grading:        "manual",
		Example:        "Analyze the causes and effects of climate change in essay format.",
	},
	"ordering": {
		Name:           "Ordering/Sequencing",
		Description:    "Arrange items in the correct order",
		Category:       "interactive",
		SupportsImages: true,
		Grading:        "automatic",
		Example:        "Arrange the steps of the water cycle in order.",
	},
	"matching": {
		Name:           "Matching",
		Description:    "Match terms with their definitions or pairs",
		Category:       "interactive",
		SupportsImages: true,
		Grading:        "automatic",
		Example:        "Match each country with its capital city.",
	},
	"image_grid_mcq": {
		Name:           "Image Grid MCQ",
		Description:    "Multiple choice using images instead of text options",
		Category:       "visual",
		SupportsImages: true,
		Grading:        "automatic",
		Example:        "Select all images that show mammals.",
	},
	"comprehension": {
		Name:           "Reading Comprehension",
		Description:    "Passage-based questions with multiple sub-questions",
		Category:       "complex",
		SupportsImages: true,
		Grading:        "automatic",
		Example:        "Read the passage about ancient civilizations and answer the questions.",
	},
}

// QuestionTypes lists the canonical question types in a stable order.
func QuestionTypes() []string {
	return []string{"mcq", "cloze", "short_answer", "long_answer", "ordering", "matching", "image_grid_mcq", "comprehension"}
}

// QuestionTypeDefinitions returns the catalog of type definitions keyed by type.
func QuestionTypeDefinitions() map[string]TypeDefinition {
	out := make(map[string]TypeDefinition, len(questionTypeDefinitions))
	for k, v := range questionTypeDefinitions {
		out[k] = v
	}
	return out
}

// IsValidQuestionType reports whether t is a canonical question type.
func IsValidQuestionType(t string) bool {
	_, ok := questionTypeDefinitions[t]
	return ok
}

// DefaultAnswerSchema returns the grading schema applied when a proposal
// arrives without one.
func DefaultAnswerSchema(questionType string) Record {
	switch questionType {
	case "mcq":
		return Record{
			"scoring_method":      "all_or_nothing",
			"negative_marking":    false,
			"negative_mark_value": 0.25,
			"explanation":         "",
			"hints":               []interface{}{},
		}
	case "cloze":
		return Record{
			"partial_credit_enabled":   true,
			"partial_credit_threshold": 50,
			"case_sensitive_default":   false,
			"allow_synonyms":           false,
			"synonym_list":             []interface{}{},
		}
	case "short_answer":
		return Record{
			"model_answer":           "",
			"key_points":             []interface{}{},
			"max_marks":              1,
			"case_sensitive":         false,
			"exact_match":            false,
			"requires_manual_review": true,
			"grading_rubric":         shortAnswerRubric(),
		}
	case "long_answer":
		return Record{
			"type":             "long_text",
			"grading_type":     "manual",
			"max_marks":        10,
			"rubric_based":     true,
			"allows_rich_text": true,
		}
	case "ordering":
		return Record{
			"partial_credit": false,
			"strict_order":   true,
		}
	case "matching":
		return Record{
			"partial_credit": true,
			"all_or_nothing": false,
		}
	case "image_grid_mcq":
		return Record{
			"partial_credit":      true,
			"negative_marking":    true,
			"negative_mark_value": 0.5,
		}
	case "comprehension":
		return Record{
			"type":                 "comprehension",
			"grading_type":         "automatic",
			"sub_question_schemas": []interface{}{},
		}
	}
	return Record{}
}

func shortAnswerRubric() Record {
	return Record{
		"excellent": Record{"min_points": 3, "marks": 1.0},
		"good":      Record{"min_points": 2, "marks": 0.7},
		"fair":      Record{"min_points": 1, "marks": 0.4},
		"poor":      Record{"min_points": 0, "marks": 0.0},
	}
}
