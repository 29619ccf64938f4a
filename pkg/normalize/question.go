// Package normalize canonicalizes decoded model output into the strict
// catalog shapes the write models expect. Models are inconsistent about
// aliases, flat-vs-nested fields, and answer encodings; everything here is
// tolerant on input and strict on output.
package normalize

import (
	"strconv"
	"strings"
)

var questionTypeAliases = map[string]string{
	"essay":      "long_answer",
	"fill_blank": "cloze",
	"true_false": "mcq",
}

// Question canonicalizes one question record in place and returns it.
// Aliased types are rewritten, flat fields are lifted into question_data,
// the per-type payload is normalized and a default answer_schema attached.
// An MCQ with fewer than two options degrades to short_answer.
func Question(data Record) Record {
	originalType, _ := getString(data, "question_type")
	if alias, ok := questionTypeAliases[originalType]; ok {
		data["question_type"] = alias
	}

	questionData, ok := getMap(data, "question_data")
	if !ok {
		questionData = Record{}
	}

	liftFlatField(data, questionData, "question_text")
	liftFlatField(data, questionData, "options")
	liftFlatField(data, questionData, "correct_answer")
	liftFlatField(data, questionData, "explanation")

	if _, ok := data["question_type"]; !ok {
		if _, hasOptions := questionData["options"]; hasOptions {
			data["question_type"] = "mcq"
		}
	}
	if qType, _ := getString(data, "question_type"); qType == "" {
		data["question_type"] = "short_answer"
	}

	if _, ok := data["marks"]; !ok || data["marks"] == nil {
		data["marks"] = 1
	}

	if isBlank(data, "title") {
		if text, ok := questionData["question_text"]; ok {
			data["title"] = text
		}
	}
	if isBlank(questionData, "question_text") {
		if title, ok := getString(data, "title"); ok && title != "" {
			questionData["question_text"] = title
		} else {
			questionData["question_text"] = "Untitled question"
			data["title"] = "Untitled question"
		}
	}

	data["question_data"] = questionData

	switch qType, _ := getString(data, "question_type"); qType {
	case "matching":
		normalizeMatching(data)
	case "cloze":
		normalizeCloze(data)
	case "ordering":
		normalizeOrdering(data)
	case "comprehension":
		normalizeComprehension(data)
	case "image_grid_mcq":
		normalizeImageGrid(data)
	case "short_answer":
		normalizeShortAnswer(data)
	case "long_answer":
		normalizeLongAnswer(data)
	}

	if originalType == "true_false" {
		normalizeTrueFalse(data)
	}

	if schema, ok := getMap(data, "answer_schema"); !ok || len(schema) == 0 {
		qType, _ := getString(data, "question_type")
		data["answer_schema"] = DefaultAnswerSchema(qType)
	}

	questionData, _ = getMap(data, "question_data")

	if qType, _ := getString(data, "question_type"); qType == "mcq" {
		options, _ := getSlice(questionData, "options")
		if len(options) < 2 {
			data["question_type"] = "short_answer"
		}
	}

	if qType, _ := getString(data, "question_type"); qType != "mcq" {
		return data
	}

	normalizeMcqOptions(data, questionData)
	return data
}

func liftFlatField(data, questionData Record, key string) {
	v, ok := data[key]
	if !ok || v == nil {
		return
	}
	if key == "options" {
		if _, isList := v.([]interface{}); !isList {
			return
		}
	}
	if _, exists := questionData[key]; !exists {
		questionData[key] = v
	}
}

// normalizeMcqOptions converts options into the object form with stable ids
// and an is_correct flag resolved from whatever encoding the answer arrived
// in: a letter, a 1-based or 0-based index, or the option text itself.
func normalizeMcqOptions(data, questionData Record) {
	options, _ := getSlice(questionData, "options")
	if len(options) == 0 {
		return
	}

	if first, ok := options[0].(Record); ok {
		if _, hasText := first["text"]; hasText {
			return
		}
	}

	correctRaw := questionData["correct_answer"]
	if correctRaw == nil {
		if schema, ok := getMap(data, "answer_schema"); ok {
			correctRaw = schema["correct_answer"]
		}
	}
	correctIndex := resolveCorrectIndex(correctRaw, options)

	normalized := make([]interface{}, 0, len(options))
	for i, opt := range options {
		var text string
		var image interface{}
		if obj, ok := opt.(Record); ok {
			text = stringify(obj["text"])
			image = obj["image"]
		} else {
			text = stringify(opt)
		}
		normalized = append(normalized, Record{
			"id":         optionID(i),
			"text":       text,
			"image":      image,
			"is_correct": correctIndex == i,
		})
	}

	questionData["options"] = normalized
	if _, ok := questionData["allow_multiple"]; !ok {
		questionData["allow_multiple"] = false
	}
	if _, ok := questionData["shuffle_options"]; !ok {
		questionData["shuffle_options"] = false
	}
	data["question_data"] = questionData
}

// resolveCorrectIndex maps a raw correct_answer value to a zero-based option
// index, or -1 when it cannot be resolved. Integer answers in [1, len] are
// treated as 1-based; integers in [0, len-1] as 0-based (1-based wins on
// overlap). Single letters map A=0, and anything else is matched against the
// option text case-insensitively.
func resolveCorrectIndex(raw interface{}, options []interface{}) int {
	if n, ok := asInt(raw); ok {
		if n >= 1 && n <= len(options) {
			return n - 1
		}
		if n >= 0 && n < len(options) {
			return n
		}
		return -1
	}

	s, ok := raw.(string)
	if !ok {
		return -1
	}
	trimmed := strings.TrimSpace(s)
	if idx, ok := letterIndex(trimmed); ok {
		return idx
	}
	for i, opt := range options {
		if strings.EqualFold(stringify(opt), trimmed) {
			return i
		}
	}
	return -1
}

func letterIndex(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	ch := s[0]
	switch {
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A'), true
	case ch >= 'a' && ch <= 'z':
		return int(ch - 'a'), true
	}
	return 0, false
}

func optionID(index int) string {
	return string(rune('a' + index))
}

func normalizeTrueFalse(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		questionData = Record{}
	}

	if _, ok := questionData["options"]; !ok {
		questionData["options"] = []interface{}{"True", "False"}
	}

	if _, ok := questionData["correct_answer"]; !ok {
		if schema, ok := getMap(data, "answer_schema"); ok {
			if v, ok := schema["correct_answer"]; ok {
				questionData["correct_answer"] = v
			}
		}
	}

	switch correct := questionData["correct_answer"].(type) {
	case bool:
		if correct {
			questionData["correct_answer"] = "True"
		} else {
			questionData["correct_answer"] = "False"
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(correct)) {
		case "true", "t", "yes":
			questionData["correct_answer"] = "True"
		case "false", "f", "no":
			questionData["correct_answer"] = "False"
		}
	}

	data["question_type"] = "mcq"
	data["question_data"] = questionData
}

func normalizeMatching(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	if pairs, ok := getSlice(questionData, "matching_pairs"); ok && len(pairs) > 0 {
		return
	}

	var pairs []interface{}

	if correct, ok := getMap(questionData, "correct_answer"); ok {
		for left, rightData := range correct {
			right := matchingRight(rightData)
			if left != "" && right != "" {
				pairs = append(pairs, Record{"left": left, "right": right})
			}
		}
	} else if options, ok := getSlice(questionData, "options"); ok {
		for _, opt := range options {
			obj, ok := opt.(Record)
			if !ok {
				continue
			}
			left := stringify(obj["percentage"])
			right := matchingRight(obj)
			if left != "" && right != "" {
				pairs = append(pairs, Record{"left": left, "right": right})
			}
		}
	}

	if len(pairs) == 0 {
		return
	}

	questionData["matching_pairs"] = pairs
	if _, ok := questionData["shuffle_right"]; !ok {
		questionData["shuffle_right"] = true
	}
	if _, ok := questionData["instructions"]; !ok {
		questionData["instructions"] = "Match each item on the left with the correct item on the right."
	}
	data["question_data"] = questionData

	if schema, ok := getMap(data, "answer_schema"); !ok || len(schema) == 0 {
		data["answer_schema"] = Record{
			"partial_credit": true,
			"all_or_nothing": false,
		}
	}
}

// matchingRight extracts the right-hand side of a pair, joining fraction and
// decimal forms when both are present.
func matchingRight(v interface{}) string {
	obj, ok := v.(Record)
	if !ok {
		return stringify(v)
	}
	fraction := stringify(obj["fraction"])
	decimal := stringify(obj["decimal"])
	switch {
	case fraction != "" && decimal != "":
		return fraction + " (" + decimal + ")"
	case fraction != "":
		return fraction
	default:
		return decimal
	}
}

func normalizeOrdering(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	items := firstSlice(questionData, "items", "order_items", "correct_order", "options")
	if len(items) > 0 {
		normalized := make([]interface{}, 0, len(items))
		for _, item := range items {
			var text string
			if obj, ok := item.(Record); ok {
				text = stringify(obj["text"])
				if text == "" {
					text = stringify(obj["label"])
				}
			} else {
				text = stringify(item)
			}
			if strings.TrimSpace(text) != "" {
				normalized = append(normalized, text)
			}
		}

		var fallback []interface{}
		if correctOrder, ok := getSlice(questionData, "correct_order"); ok {
			for _, item := range correctOrder {
				if strings.TrimSpace(stringify(item)) != "" {
					fallback = append(fallback, item)
				}
			}
		}

		final := normalized
		if len(final) == 0 {
			final = fallback
		}
		if len(final) > 0 {
			questionData["items"] = final
			if _, ok := questionData["order_items"]; !ok {
				questionData["order_items"] = final
			}
			if _, ok := questionData["correct_order"]; !ok {
				questionData["correct_order"] = final
			}
		}
		if _, ok := questionData["shuffle"]; !ok {
			questionData["shuffle"] = true
		}
		if _, ok := questionData["instructions"]; !ok {
			questionData["instructions"] = "Arrange the items in the correct order."
		}
	}

	data["question_data"] = questionData

	if schema, ok := getMap(data, "answer_schema"); !ok || len(schema) == 0 {
		data["answer_schema"] = Record{
			"partial_credit": false,
			"strict_order":   true,
		}
	}
}

func firstSlice(m Record, keys ...string) []interface{} {
	for _, key := range keys {
		if list, ok := getSlice(m, key); ok && len(list) > 0 {
			return list
		}
	}
	return nil
}

func normalizeComprehension(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	switch passage := questionData["passage"].(type) {
	case string:
		questionData["passage"] = Record{"title": "", "content": passage, "source": ""}
	case Record:
		content := stringify(passage["content"])
		if content == "" {
			content = stringify(passage["text"])
		}
		questionData["passage"] = Record{
			"title":   stringify(passage["title"]),
			"content": content,
			"source":  stringify(passage["source"]),
		}
	}

	subQuestions := firstSlice(questionData, "sub_questions", "questions")
	if len(subQuestions) > 0 {
		normalized := make([]interface{}, 0, len(subQuestions))
		for _, raw := range subQuestions {
			sub, ok := raw.(Record)
			if !ok {
				continue
			}
			normalized = append(normalized, normalizeSubQuestion(sub))
		}
		if len(normalized) > 0 {
			questionData["sub_questions"] = normalized
		}
	}

	// A flat single question becomes the sole sub-question, so downstream
	// grading always sees the same shape.
	if subs, _ := getSlice(questionData, "sub_questions"); len(subs) == 0 {
		if text, ok := getString(questionData, "question_text"); ok {
			subType := "short_answer"
			if options, ok := getSlice(questionData, "options"); ok && len(options) > 0 {
				subType = "mcq"
			}
			marks := data["marks"]
			if marks == nil {
				marks = 1
			}
			sub := Record{
				"type":          subType,
				"question_text": text,
				"marks":         marks,
			}
			if subType == "mcq" {
				options, _ := getSlice(questionData, "options")
				sub["options"] = normalizeSubOptions(options, questionData["correct_answer"])
			} else {
				keyPoints := firstSlice(questionData, "keywords", "key_points")
				if keyPoints == nil {
					keyPoints = []interface{}{}
				}
				caseSensitive := false
				if cs, ok := questionData["case_sensitive"].(bool); ok {
					caseSensitive = cs
				}
				sub["answer_schema"] = Record{
					"model_answer":           stringify(questionData["correct_answer"]),
					"key_points":             keyPoints,
					"max_marks":              marks,
					"case_sensitive":         caseSensitive,
					"exact_match":            false,
					"requires_manual_review": true,
				}
			}
			questionData["sub_questions"] = []interface{}{sub}
		}
	}

	passage, _ := getMap(questionData, "passage")
	if stringify(passage["content"]) == "" {
		if text, ok := getString(questionData, "question_text"); ok {
			questionData["passage"] = Record{"title": "", "content": text, "source": ""}
		}
	}

	if _, ok := questionData["instructions"]; !ok {
		questionData["instructions"] = "Read the passage carefully and answer the questions that follow."
	}

	data["question_data"] = questionData
}

func normalizeSubQuestion(sub Record) Record {
	subType, _ := getString(sub, "type")
	if subType == "" {
		subType, _ = getString(sub, "question_type")
	}
	if subType == "" {
		subType = "short_answer"
	}
	switch subType {
	case "essay":
		subType = "long_answer"
	case "true_false":
		subType = "mcq"
	}

	text, _ := getString(sub, "question_text")
	if text == "" {
		text, _ = getString(sub, "text")
	}

	marks := sub["marks"]
	if marks == nil {
		marks = 1
	}

	normalized := Record{
		"type":          subType,
		"question_text": text,
		"marks":         marks,
	}

	if subType == "mcq" {
		options, _ := getSlice(sub, "options")
		normalized["options"] = normalizeSubOptions(options, sub["correct_answer"])
	}

	return normalized
}

func normalizeSubOptions(options []interface{}, correctRaw interface{}) []interface{} {
	normalized := make([]interface{}, 0, len(options))
	if len(options) == 0 {
		return normalized
	}

	correctIndex := -1
	if s, ok := correctRaw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if idx, ok := letterIndex(trimmed); ok {
			correctIndex = idx
		} else {
			for i, opt := range options {
				if strings.EqualFold(stringify(opt), trimmed) {
					correctIndex = i
					break
				}
			}
		}
	} else if n, ok := asInt(correctRaw); ok {
		correctIndex = n
	}

	for i, opt := range options {
		var text string
		if obj, ok := opt.(Record); ok {
			text = stringify(obj["text"])
		} else {
			text = stringify(opt)
		}
		normalized = append(normalized, Record{
			"id":         optionID(i),
			"text":       text,
			"is_correct": correctIndex == i,
		})
	}
	return normalized
}

func normalizeImageGrid(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	if images, ok := getSlice(questionData, "images"); ok && len(images) > 0 {
		return
	}

	options := firstSlice(questionData, "image_options", "options")
	if len(options) == 0 {
		return
	}

	correctRaw := questionData["correct_answer"]
	if correctRaw == nil {
		if schema, ok := getMap(data, "answer_schema"); ok {
			correctRaw = schema["correct_answer"]
		}
	}

	correctIndex := -1
	if s, ok := correctRaw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if idx, ok := letterIndex(trimmed); ok {
			correctIndex = idx
		} else {
			for i, opt := range options {
				if strings.EqualFold(imageLabel(opt), trimmed) {
					correctIndex = i
					break
				}
			}
		}
	} else if n, ok := asInt(correctRaw); ok {
		correctIndex = n
	}

	images := make([]interface{}, 0, len(options))
	for i, opt := range options {
		label := imageLabel(opt)
		n := strconv.Itoa(i + 1)
		images = append(images, Record{
			"id":             "img_" + n,
			"url":            "pending_upload_" + n,
			"pending_upload": true,
			"is_correct":     correctIndex == i,
			"alt":            label,
			"description":    label,
		})
	}

	questionData["images"] = images
	if _, ok := questionData["allow_multiple"]; !ok {
		questionData["allow_multiple"] = false
	}
	if _, ok := questionData["shuffle_images"]; !ok {
		questionData["shuffle_images"] = false
	}
	if _, ok := questionData["grid_columns"]; !ok {
		questionData["grid_columns"] = 3
	}
	if _, ok := questionData["instructions"]; !ok {
		questionData["instructions"] = "Select the correct image(s)."
	}
	delete(questionData, "image_options")

	data["question_data"] = questionData
}

func imageLabel(v interface{}) string {
	if obj, ok := v.(Record); ok {
		label := stringify(obj["label"])
		if label == "" {
			label = stringify(obj["text"])
		}
		return label
	}
	return stringify(v)
}

func normalizeShortAnswer(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	if isBlank(questionData, "question_text") {
		if text, ok := data["question_text"]; ok {
			questionData["question_text"] = text
		}
	}

	modelAnswer := stringify(questionData["correct_answer"])
	if modelAnswer == "" {
		if schema, ok := getMap(data, "answer_schema"); ok {
			modelAnswer = stringify(schema["correct_answer"])
		}
	}
	if modelAnswer == "" {
		modelAnswer = stringify(questionData["expected_answer"])
	}
	if isBlank(questionData, "expected_answer") && modelAnswer != "" {
		questionData["expected_answer"] = modelAnswer
	}

	data["question_data"] = questionData

	keyPoints := firstSlice(questionData, "keywords", "key_points")
	if keyPoints == nil {
		keyPoints = []interface{}{}
	}

	maxMarks := data["marks"]
	if maxMarks == nil {
		maxMarks = 1
	}
	caseSensitive := false
	if cs, ok := questionData["case_sensitive"].(bool); ok {
		caseSensitive = cs
	}

	data["answer_schema"] = Record{
		"model_answer":           modelAnswer,
		"key_points":             keyPoints,
		"max_marks":              maxMarks,
		"case_sensitive":         caseSensitive,
		"exact_match":            false,
		"requires_manual_review": true,
		"grading_rubric":         shortAnswerRubric(),
	}
}

func normalizeLongAnswer(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	if isBlank(questionData, "question_text") {
		if text, ok := data["question_text"]; ok {
			questionData["question_text"] = text
		}
	}

	if isBlank(questionData, "sample_answer") {
		if correct, ok := questionData["correct_answer"]; ok {
			questionData["sample_answer"] = correct
		}
	}

	if _, ok := questionData["rubric_criteria"]; !ok {
		questionData["rubric_criteria"] = []interface{}{
			Record{"criterion": "Content Knowledge", "points": 40, "description": "Demonstrates understanding of key concepts"},
			Record{"criterion": "Organization", "points": 20, "description": "Clear structure and logical flow"},
			Record{"criterion": "Evidence/Examples", "points": 20, "description": "Uses relevant examples and evidence"},
			Record{"criterion": "Writing Quality", "points": 20, "description": "Grammar, vocabulary, and clarity"},
		}
	}
	if _, ok := questionData["expected_structure"]; !ok {
		questionData["expected_structure"] = []interface{}{"Introduction", "Body Paragraphs", "Conclusion"}
	}
	if _, ok := questionData["instructions"]; !ok {
		questionData["instructions"] = "Provide a detailed response in essay format."
	}

	data["question_data"] = questionData

	if schema, ok := getMap(data, "answer_schema"); !ok || len(schema) == 0 {
		maxMarks := data["marks"]
		if maxMarks == nil {
			maxMarks = 10
		}
		data["answer_schema"] = Record{
			"type":             "long_text",
			"grading_type":     "manual",
			"max_marks":        maxMarks,
			"rubric_based":     true,
			"allows_rich_text": true,
		}
	}
}

func normalizeCloze(data Record) {
	questionData, ok := getMap(data, "question_data")
	if !ok {
		return
	}

	data["question_type"] = "cloze"

	if blanks, ok := getSlice(questionData, "blanks"); ok && len(blanks) > 0 {
		if _, ok := questionData["instructions"]; !ok {
			questionData["instructions"] = "Fill in the blanks with appropriate words."
		}
		if _, ok := questionData["passage"]; !ok {
			if text, ok := questionData["question_text"]; ok {
				questionData["passage"] = text
			}
		}
		data["question_data"] = questionData
		return
	}

	passage := questionData["passage"]
	if passage == nil {
		passage = questionData["question_text"]
	}
	correctAnswer := questionData["correct_answer"]

	if passage == nil || correctAnswer == nil {
		return
	}

	var correctAnswers []interface{}
	if list, ok := correctAnswer.([]interface{}); ok {
		correctAnswers = list
	} else {
		correctAnswers = []interface{}{stringify(correctAnswer)}
	}

	questionData["passage"] = passage
	questionData["blanks"] = []interface{}{Record{
		"id":              "blank1",
		"correct_answers": correctAnswers,
		"case_sensitive":  false,
		"accept_partial":  false,
		"placeholder":     "",
		"max_length":      50,
	}}
	if _, ok := questionData["instructions"]; !ok {
		questionData["instructions"] = "Fill in the blanks with appropriate words."
	}
	data["question_data"] = questionData

	if schema, ok := getMap(data, "answer_schema"); !ok || len(schema) == 0 {
		data["answer_schema"] = Record{
			"partial_credit_enabled":   true,
			"partial_credit_threshold": 50,
			"case_sensitive_default":   false,
			"allow_synonyms":           false,
			"synonym_list":             []interface{}{},
		}
	}
}
