// Package aijson recovers structured JSON values from raw language-model
// output. Model responses routinely arrive wrapped in markdown fences, with
// trailing commentary after the closing brace, raw control characters inside
// string literals, or trailing commas. The decoder extracts the first
// balanced JSON value, sanitizes it, and applies at most one repair pass
// before giving up.
package aijson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const snippetLimit = 1000

// MalformedOutputError is returned when no valid JSON value could be
// recovered from the model output, even after the repair pass.
type MalformedOutputError struct {
	Snippet string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON: %v | snippet: %s", e.Err, e.Snippet)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// Decode extracts a JSON value from raw model text and returns it as a list
// of records. wrapperKeys lists the top-level wrapper keys to unwrap (e.g.
// "questions", "courses"); the first one present wins. A bare object is
// wrapped into a single-element slice, a bare array is returned as-is.
func Decode(raw string, wrapperKeys ...string) ([]map[string]interface{}, error) {
	clean := Extract(raw)
	clean = Sanitize(clean)
	clean = escapeControlCharsInStrings(clean)

	var decoded interface{}
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		repaired := escapeControlCharsInStrings(Repair(clean))
		if err2 := json.Unmarshal([]byte(repaired), &decoded); err2 != nil {
			return nil, &MalformedOutputError{Snippet: snippet(clean), Err: err2}
		}
	}

	return unwrap(decoded, wrapperKeys), nil
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return string(runes)
}

// Extract strips markdown code fences and returns the first balanced JSON
// value in the text. The scan tracks string literals and escapes so braces
// inside strings never affect depth, and stops the moment the bracket stack
// empties, discarding any commentary the model appended after the JSON.
func Extract(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = stripFences(trimmed)

	start := -1
	for i, ch := range trimmed {
		if ch == '{' || ch == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return trimmed
	}

	candidate := trimmed[start:]
	depth := 0
	inString := false
	escape := false

	for i := 0; i < len(candidate); i++ {
		ch := candidate[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			switch ch {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth <= 0 {
				return candidate[:i+1]
			}
		}
	}

	// Unbalanced (truncated output); return what we have and let the decode
	// attempt produce the error.
	return candidate
}

func stripFences(s string) string {
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if rest, ok := strings.CutPrefix(s, "json"); ok {
			s = rest
		} else if rest, ok := strings.CutPrefix(s, "JSON"); ok {
			s = rest
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Sanitize drops ASCII control bytes (except tab/newline/CR), Unicode
// line/paragraph separators, and coerces the text to valid UTF-8, dropping
// invalid sequences rather than failing.
func Sanitize(s string) string {
	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			i += size
			continue
		}
		if r == '\u2028' || r == '\u2029' {
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// Repair applies the single permitted repair pass: trailing commas before a
// closing brace/bracket are removed and stray carriage returns normalized.
// Nothing more aggressive: recovery must never fabricate structure.
func Repair(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			b.WriteByte(ch)
			if escape {
				escape = false
			} else if ch == '\\' {
				escape = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			b.WriteByte(ch)
		case ',':
			if next := nextNonSpace(s, i+1); next == '}' || next == ']' {
				continue
			}
			b.WriteByte(ch)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			b.WriteByte('\n')
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func nextNonSpace(s string, from int) byte {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

// escapeControlCharsInStrings rewrites raw newlines, carriage returns and
// tabs found inside string literals into their JSON escape sequences. Models
// regularly emit multi-line strings verbatim, which strict JSON rejects.
func escapeControlCharsInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			if escape {
				escape = false
				b.WriteByte(ch)
				continue
			}
			switch ch {
			case '\\':
				escape = true
				b.WriteByte(ch)
			case '"':
				inString = false
				b.WriteByte(ch)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(ch)
			}
			continue
		}

		if ch == '"' {
			inString = true
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func unwrap(decoded interface{}, wrapperKeys []string) []map[string]interface{} {
	switch v := decoded.(type) {
	case map[string]interface{}:
		for _, key := range wrapperKeys {
			if inner, ok := v[key]; ok {
				if list, ok := inner.([]interface{}); ok {
					return toRecords(list)
				}
			}
		}
		return []map[string]interface{}{v}
	case []interface{}:
		return toRecords(v)
	default:
		return nil
	}
}

func toRecords(list []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]interface{}); ok {
			records = append(records, rec)
		}
	}
	return records
}
