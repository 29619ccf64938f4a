package aijson

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object",
			input:    `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n[1,2]\n```",
			expected: `[1,2]`,
		},
		{
			name:     "leading prose",
			input:    "Here is your result:\n{\"a\":1}",
			expected: `{"a":1}`,
		},
		{
			name:     "trailing commentary dropped",
			input:    `{"a":1} I hope this helps!`,
			expected: `{"a":1}`,
		},
		{
			name:     "braces inside strings do not close the scan",
			input:    `{"text":"use {curly} braces"} extra`,
			expected: `{"text":"use {curly} braces"}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `{"text":"she said \"}\" loudly"} trailing`,
			expected: `{"text":"she said \"}\" loudly"}`,
		},
		{
			name:     "nested structures",
			input:    `[{"a":{"b":[1,2]}},{"c":3}] done`,
			expected: `[{"a":{"b":[1,2]}},{"c":3}]`,
		},
		{
			name:     "truncated output returned as-is",
			input:    `{"a":[1,2`,
			expected: `{"a":[1,2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input))
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\":1}\n```",
		`Sure! {"questions":[{"q":"x"}]} Let me know.`,
		`[{"a":1},{"b":2}]`,
	}
	for _, in := range inputs {
		once := Extract(in)
		assert.Equal(t, once, Extract(once))
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ab", Sanitize("a\x00\x07b"))
	assert.Equal(t, "a\tb\nc", Sanitize("a\tb\nc"))
	assert.Equal(t, "ab", Sanitize("a  b"))
	assert.Equal(t, "ab", Sanitize("a\xffb"))
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing comma in object",
			input:    `{"a":1,}`,
			expected: `{"a":1}`,
		},
		{
			name:     "trailing comma in array with whitespace",
			input:    "[1,2, \n ]",
			expected: "[1,2 \n ]",
		},
		{
			name:     "comma inside string untouched",
			input:    `{"a":"x,}"}`,
			expected: `{"a":"x,}"}`,
		},
		{
			name:     "crlf normalized",
			input:    "{\"a\":1\r\n}",
			expected: "{\"a\":1\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Repair(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("bare object becomes single record", func(t *testing.T) {
		records, err := Decode(`{"title":"Intro"}`)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Intro", records[0]["title"])
	})

	t.Run("array of objects", func(t *testing.T) {
		records, err := Decode(`[{"a":1},{"a":2}]`)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("wrapper key unwrapped", func(t *testing.T) {
		records, err := Decode(`{"questions":[{"question_text":"2+2?"},{"question_text":"3+3?"}]}`, "questions")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2+2?", records[0]["question_text"])
	})

	t.Run("first matching wrapper key wins", func(t *testing.T) {
		records, err := Decode(`{"courses":[{"title":"A"}]}`, "questions", "courses")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "A", records[0]["title"])
	})

	t.Run("wrapper key absent keeps object", func(t *testing.T) {
		records, err := Decode(`{"question_text":"solo"}`, "questions")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "solo", records[0]["question_text"])
	})

	t.Run("raw newline inside string repaired", func(t *testing.T) {
		records, err := Decode("{\"text\":\"line one\nline two\"}")
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", records[0]["text"])
	})

	t.Run("trailing comma repaired", func(t *testing.T) {
		records, err := Decode(`{"a":1,}`)
		require.NoError(t, err)
		assert.Equal(t, float64(1), records[0]["a"])
	})

	t.Run("hopeless input yields malformed error with snippet", func(t *testing.T) {
		garbage := "no json here at all " + strings.Repeat("x", 1500)
		_, err := Decode(garbage)
		require.Error(t, err)

		var malformed *MalformedOutputError
		require.True(t, errors.As(err, &malformed))
		assert.LessOrEqual(t, len([]rune(malformed.Snippet)), 1000)
	})

	t.Run("fenced answer with commentary", func(t *testing.T) {
		raw := "Sure, here you go:\n```json\n{\"questions\":[{\"question_text\":\"Capital of France?\"}]}\n```\nLet me know if you need more."
		records, err := Decode(raw, "questions")
		require.NoError(t, err)
		require.Len(t, records, 1)
	})
}
