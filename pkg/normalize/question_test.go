package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqOptions(t *testing.T, data Record) []Record {
	t.Helper()
	questionData, ok := getMap(data, "question_data")
	require.True(t, ok)
	raw, ok := getSlice(questionData, "options")
	require.True(t, ok)
	options := make([]Record, 0, len(raw))
	for _, o := range raw {
		obj, ok := o.(Record)
		require.True(t, ok)
		options = append(options, obj)
	}
	return options
}

func correctIndexOf(t *testing.T, options []Record) int {
	t.Helper()
	idx := -1
	for i, opt := range options {
		if opt["is_correct"] == true {
			require.Equal(t, -1, idx, "multiple options marked correct")
			idx = i
		}
	}
	return idx
}

func TestQuestionMcqCorrectAnswerEncodings(t *testing.T) {
	tests := []struct {
		name          string
		correctAnswer interface{}
		expectedIndex int
	}{
		{name: "uppercase letter", correctAnswer: "C", expectedIndex: 2},
		{name: "lowercase letter", correctAnswer: "c", expectedIndex: 2},
		{name: "one-based index", correctAnswer: float64(3), expectedIndex: 2},
		{name: "zero-based index zero", correctAnswer: float64(0), expectedIndex: 0},
		{name: "option text", correctAnswer: "Paris", expectedIndex: 2},
		{name: "option text case-insensitive", correctAnswer: "  paris ", expectedIndex: 2},
		{name: "unresolvable leaves nothing correct", correctAnswer: "Madrid", expectedIndex: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Record{
				"question_type": "mcq",
				"question_text": "What is the capital of France?",
				"options":       []interface{}{"London", "Berlin", "Paris", "Rome"},
				"correct_answer": tt.correctAnswer,
			}
			result := Question(data)

			assert.Equal(t, "mcq", result["question_type"])
			options := mcqOptions(t, result)
			require.Len(t, options, 4)
			assert.Equal(t, tt.expectedIndex, correctIndexOf(t, options))
			assert.Equal(t, "a", options[0]["id"])
			assert.Equal(t, "d", options[3]["id"])
			assert.Equal(t, "Paris", options[2]["text"])
		})
	}
}

func TestQuestionMcqOneBasedWinsOverZeroBased(t *testing.T) {
	// 1 is ambiguous between index 0 (zero-based) and index 0+1 (one-based);
	// the one-based reading wins.
	data := Record{
		"question_type":  "mcq",
		"question_text":  "Pick one",
		"options":        []interface{}{"first", "second", "third"},
		"correct_answer": float64(1),
	}
	options := mcqOptions(t, Question(data))
	assert.Equal(t, 0, correctIndexOf(t, options))
}

func TestQuestionMcqAlreadyNormalizedOptionsUntouched(t *testing.T) {
	original := []interface{}{
		Record{"id": "a", "text": "Yes", "is_correct": true},
		Record{"id": "b", "text": "No", "is_correct": false},
	}
	data := Record{
		"question_type": "mcq",
		"question_data": Record{
			"question_text": "Already normalized?",
			"options":       original,
		},
	}
	result := Question(data)
	questionData, _ := getMap(result, "question_data")
	assert.Equal(t, original, questionData["options"])
}

func TestQuestionMcqDegradesToShortAnswer(t *testing.T) {
	tests := []struct {
		name    string
		options interface{}
	}{
		{name: "no options", options: nil},
		{name: "single option", options: []interface{}{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Record{
				"question_type": "mcq",
				"question_text": "Degenerate",
			}
			if tt.options != nil {
				data["options"] = tt.options
			}
			result := Question(data)
			assert.Equal(t, "short_answer", result["question_type"])
		})
	}
}

func TestQuestionTrueFalseBecomesMcq(t *testing.T) {
	tests := []struct {
		name     string
		answer   interface{}
		expected string
	}{
		{name: "bool true", answer: true, expected: "True"},
		{name: "bool false", answer: false, expected: "False"},
		{name: "string true", answer: "true", expected: "True"},
		{name: "short t", answer: "T", expected: "True"},
		{name: "yes", answer: "yes", expected: "True"},
		{name: "no", answer: "no", expected: "False"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Record{
				"question_type":  "true_false",
				"question_text":  "The sky is blue.",
				"correct_answer": tt.answer,
			}
			result := Question(data)

			assert.Equal(t, "mcq", result["question_type"])
			options := mcqOptions(t, result)
			require.Len(t, options, 2)
			assert.Equal(t, "True", options[0]["text"])
			assert.Equal(t, "False", options[1]["text"])

			correct := correctIndexOf(t, options)
			if tt.expected == "True" {
				assert.Equal(t, 0, correct)
			} else {
				assert.Equal(t, 1, correct)
			}
		})
	}
}

func TestQuestionTypeAliases(t *testing.T) {
	essay := Question(Record{"question_type": "essay", "question_text": "Discuss."})
	assert.Equal(t, "long_answer", essay["question_type"])

	cloze := Question(Record{
		"question_type":  "fill_blank",
		"question_text":  "The capital of France is ___.",
		"correct_answer": "Paris",
	})
	assert.Equal(t, "cloze", cloze["question_type"])
	questionData, _ := getMap(cloze, "question_data")
	blanks, ok := getSlice(questionData, "blanks")
	require.True(t, ok)
	require.Len(t, blanks, 1)
	blank := blanks[0].(Record)
	assert.Equal(t, "blank1", blank["id"])
	assert.Equal(t, []interface{}{"Paris"}, blank["correct_answers"])
}

func TestQuestionDefaults(t *testing.T) {
	result := Question(Record{"question_text": "No type given"})
	assert.Equal(t, "short_answer", result["question_type"])
	assert.Equal(t, 1, result["marks"])
	assert.Equal(t, "No type given", result["title"])

	schema, ok := getMap(result, "answer_schema")
	require.True(t, ok)
	assert.Equal(t, true, schema["requires_manual_review"])
}

func TestQuestionUntitledFallback(t *testing.T) {
	result := Question(Record{})
	questionData, _ := getMap(result, "question_data")
	assert.Equal(t, "Untitled question", questionData["question_text"])
	assert.Equal(t, "Untitled question", result["title"])
}

func TestQuestionOptionsImplyMcq(t *testing.T) {
	data := Record{
		"question_text":  "Implied type",
		"options":        []interface{}{"a", "b", "c"},
		"correct_answer": "B",
	}
	result := Question(data)
	assert.Equal(t, "mcq", result["question_type"])
	options := mcqOptions(t, result)
	assert.Equal(t, 1, correctIndexOf(t, options))
}

func TestQuestionOrdering(t *testing.T) {
	data := Record{
		"question_type": "ordering",
		"question_data": Record{
			"question_text": "Order the steps",
			"options":       []interface{}{"Evaporation", "Condensation", "", "Precipitation"},
		},
	}
	result := Question(data)
	questionData, _ := getMap(result, "question_data")

	expected := []interface{}{"Evaporation", "Condensation", "Precipitation"}
	assert.Equal(t, expected, questionData["items"])
	assert.Equal(t, expected, questionData["order_items"])
	assert.Equal(t, expected, questionData["correct_order"])
	assert.Equal(t, true, questionData["shuffle"])

	schema, _ := getMap(result, "answer_schema")
	assert.Equal(t, true, schema["strict_order"])
}

func TestQuestionMatchingFromCorrectAnswerMap(t *testing.T) {
	data := Record{
		"question_type": "matching",
		"question_data": Record{
			"question_text": "Match fractions",
			"correct_answer": Record{
				"50%": Record{"fraction": "1/2", "decimal": "0.5"},
				"25%": "1/4",
			},
		},
	}
	result := Question(data)
	questionData, _ := getMap(result, "question_data")
	pairs, ok := getSlice(questionData, "matching_pairs")
	require.True(t, ok)
	require.Len(t, pairs, 2)

	byLeft := map[string]string{}
	for _, raw := range pairs {
		pair := raw.(Record)
		byLeft[pair["left"].(string)] = pair["right"].(string)
	}
	assert.Equal(t, "1/2 (0.5)", byLeft["50%"])
	assert.Equal(t, "1/4", byLeft["25%"])
	assert.Equal(t, true, questionData["shuffle_right"])
}

func TestQuestionComprehension(t *testing.T) {
	t.Run("string passage wrapped", func(t *testing.T) {
		data := Record{
			"question_type": "comprehension",
			"question_data": Record{
				"question_text": "Read this",
				"passage":       "Once upon a time...",
				"sub_questions": []interface{}{
					Record{"type": "true_false", "question_text": "It was sunny."},
					Record{
						"type":           "mcq",
						"question_text":  "Who is the hero?",
						"options":        []interface{}{"Knight", "Dragon"},
						"correct_answer": "A",
					},
				},
			},
		}
		result := Question(data)
		questionData, _ := getMap(result, "question_data")

		passage, ok := getMap(questionData, "passage")
		require.True(t, ok)
		assert.Equal(t, "Once upon a time...", passage["content"])

		subs, _ := getSlice(questionData, "sub_questions")
		require.Len(t, subs, 2)
		first := subs[0].(Record)
		assert.Equal(t, "mcq", first["type"])

		second := subs[1].(Record)
		options := second["options"].([]interface{})
		require.Len(t, options, 2)
		assert.Equal(t, true, options[0].(Record)["is_correct"])
	})

	t.Run("flat question becomes sole sub-question", func(t *testing.T) {
		data := Record{
			"question_type": "comprehension",
			"question_data": Record{
				"question_text":  "What color is the sky?",
				"correct_answer": "Blue",
			},
		}
		result := Question(data)
		questionData, _ := getMap(result, "question_data")

		subs, _ := getSlice(questionData, "sub_questions")
		require.Len(t, subs, 1)
		sub := subs[0].(Record)
		assert.Equal(t, "short_answer", sub["type"])
		schema := sub["answer_schema"].(Record)
		assert.Equal(t, "Blue", schema["model_answer"])

		passage, _ := getMap(questionData, "passage")
		assert.Equal(t, "What color is the sky?", passage["content"])
	})
}

func TestQuestionImageGrid(t *testing.T) {
	data := Record{
		"question_type": "image_grid_mcq",
		"question_data": Record{
			"question_text":  "Select the mammal",
			"image_options":  []interface{}{"Dog", "Trout", "Sparrow"},
			"correct_answer": "A",
		},
	}
	result := Question(data)
	questionData, _ := getMap(result, "question_data")

	images, ok := getSlice(questionData, "images")
	require.True(t, ok)
	require.Len(t, images, 3)

	first := images[0].(Record)
	assert.Equal(t, "img_1", first["id"])
	assert.Equal(t, true, first["pending_upload"])
	assert.Equal(t, true, first["is_correct"])
	assert.Equal(t, "Dog", first["alt"])

	assert.Equal(t, 3, questionData["grid_columns"])
	_, hasImageOptions := questionData["image_options"]
	assert.False(t, hasImageOptions)
}

func TestQuestionShortAnswerSchema(t *testing.T) {
	data := Record{
		"question_type": "short_answer",
		"question_data": Record{
			"question_text":  "Define photosynthesis",
			"correct_answer": "Plants convert light to energy",
			"keywords":       []interface{}{"light", "energy", "chlorophyll"},
		},
		"marks": float64(2),
	}
	result := Question(data)

	schema, _ := getMap(result, "answer_schema")
	assert.Equal(t, "Plants convert light to energy", schema["model_answer"])
	assert.Equal(t, []interface{}{"light", "energy", "chlorophyll"}, schema["key_points"])
	assert.Equal(t, float64(2), schema["max_marks"])
	assert.Equal(t, true, schema["requires_manual_review"])

	questionData, _ := getMap(result, "question_data")
	assert.Equal(t, "Plants convert light to energy", questionData["expected_answer"])
}

func TestQuestionLongAnswerDefaults(t *testing.T) {
	data := Record{
		"question_type": "essay",
		"question_data": Record{
			"question_text":  "Discuss climate change",
			"correct_answer": "Model essay...",
		},
	}
	result := Question(data)
	assert.Equal(t, "long_answer", result["question_type"])

	questionData, _ := getMap(result, "question_data")
	assert.Equal(t, "Model essay...", questionData["sample_answer"])
	rubric, _ := getSlice(questionData, "rubric_criteria")
	assert.Len(t, rubric, 4)

	schema, _ := getMap(result, "answer_schema")
	assert.Equal(t, "manual", schema["grading_type"])
}
