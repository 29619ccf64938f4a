package normalize

import (
	"regexp"
	"strings"
	"time"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Article fills in the defaults an article record needs before review: a
// slug derived from the title, a valid body_type, a publish date a week out,
// and at least one section.
func Article(data Record) Record {
	title := stringify(data["title"])
	if isBlank(data, "name") && title != "" {
		data["name"] = Slug(title)
	}

	bodyType := stringify(data["body_type"])
	if bodyType != "pdf" && bodyType != "template" {
		data["body_type"] = "template"
	}

	if isBlank(data, "scheduled_publish_date") {
		data["scheduled_publish_date"] = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}

	if attrs, ok := data["key_attributes"]; ok {
		if _, isList := attrs.([]interface{}); !isList {
			parts := strings.Split(stringify(attrs), ",")
			filtered := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					filtered = append(filtered, trimmed)
				}
			}
			data["key_attributes"] = filtered
		}
	}

	sections, _ := getSlice(data, "sections")
	if len(sections) == 0 {
		body := stringify(data["description"])
		if body == "" {
			body = "Article content pending."
		}
		data["sections"] = []interface{}{Record{"header": "Overview", "body": body}}
	} else {
		normalized := make([]interface{}, 0, len(sections))
		for _, raw := range sections {
			section, ok := raw.(Record)
			if !ok {
				continue
			}
			header := stringify(section["header"])
			if header == "" {
				header = stringify(section["title"])
			}
			normalized = append(normalized, Record{
				"header": header,
				"body":   stringify(section["body"]),
			})
		}
		data["sections"] = normalized
	}

	return data
}

// Slug lowercases and hyphenates a title.
func Slug(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
