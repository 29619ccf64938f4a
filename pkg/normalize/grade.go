package normalize

import (
	"regexp"
	"strings"
)

var (
	preKPattern  = regexp.MustCompile(`(?i)^pre[-\s]?k$`)
	kinderPatten = regexp.MustCompile(`(?i)^(k|kg|kindergarten)$`)
	yearPattern  = regexp.MustCompile(`(?i)^year\s*(\d{1,2})$`)
	gradePattern = regexp.MustCompile(`(?i)^grade\s*(\d{1,2})$`)
)

// YearGroup rewrites the year_group and grade fields into the canonical
// "Grade N" / "Kindergarten" / "Pre-K" labels the catalog uses. Values that
// match no known pattern pass through unchanged.
func YearGroup(data Record) Record {
	for _, field := range []string{"year_group", "grade"} {
		raw, ok := getString(data, field)
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		data[field] = CanonicalGrade(value)
	}
	return data
}

// CanonicalGrade maps a single grade label to its canonical form.
func CanonicalGrade(value string) string {
	switch {
	case preKPattern.MatchString(value):
		return "Pre-K"
	case kinderPatten.MatchString(value):
		return "Kindergarten"
	}
	if m := yearPattern.FindStringSubmatch(value); m != nil {
		return "Grade " + m[1]
	}
	if m := gradePattern.FindStringSubmatch(value); m != nil {
		return "Grade " + m[1]
	}
	return value
}
