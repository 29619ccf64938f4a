package normalize

import "strings"

var assessmentTypeAliases = map[string]string{
	"quiz":     "mcq",
	"test":     "mcq",
	"exam":     "mcq",
	"practice": "mcq",
}

var validAssessmentTypes = map[string]bool{
	"mcq":          true,
	"short_answer": true,
	"essay":        true,
	"mixed":        true,
}

// Assessment canonicalizes the type and status of an assessment record.
// Unknown or missing types are inferred from the embedded questions; unknown
// statuses fall back to inactive.
func Assessment(data Record) Record {
	rawType := strings.ToLower(strings.TrimSpace(stringify(data["type"])))
	normalizedType := rawType
	if alias, ok := assessmentTypeAliases[rawType]; ok {
		normalizedType = alias
	}

	if normalizedType == "" || !validAssessmentTypes[normalizedType] {
		questions, _ := getSlice(data, "questions")
		normalizedType = inferAssessmentType(questions)
	}
	data["type"] = normalizedType

	rawStatus := strings.ToLower(strings.TrimSpace(stringify(data["status"])))
	switch rawStatus {
	case "draft":
		rawStatus = "inactive"
	case "published":
		rawStatus = "active"
	}
	switch rawStatus {
	case "active", "inactive", "archived":
	default:
		rawStatus = "inactive"
	}
	data["status"] = rawStatus

	return data
}

// inferAssessmentType looks at the question types present: a homogeneous set
// of mcq, short_answer or essay keeps that type, anything else is mixed.
// Empty input defaults to mcq.
func inferAssessmentType(questions []interface{}) string {
	if len(questions) == 0 {
		return "mcq"
	}

	seen := make(map[string]bool)
	var types []string
	for _, raw := range questions {
		q, ok := raw.(Record)
		if !ok {
			continue
		}
		qType, _ := getString(q, "question_type")
		if qType == "" {
			qType, _ = getString(q, "type")
		}
		if qType == "" {
			if _, hasOptions := q["options"]; hasOptions {
				qType = "mcq"
			}
		}
		if qType == "" {
			continue
		}
		qType = strings.ToLower(qType)
		if !seen[qType] {
			seen[qType] = true
			types = append(types, qType)
		}
	}

	if len(types) == 0 {
		return "mcq"
	}
	if len(types) == 1 {
		switch types[0] {
		case "mcq", "short_answer", "essay":
			return types[0]
		}
	}
	return "mixed"
}
