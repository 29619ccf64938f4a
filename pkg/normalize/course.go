package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course canonicalizes a course record and recursively normalizes its
// nested modules. Presentation-only fields are folded into metadata.
func Course(data Record) Record {
	delete(data, "level")

	if category, ok := data["category"]; ok {
		metadata(data)["category"] = category
		delete(data, "category")
	}
	if duration, ok := data["estimated_duration_minutes"]; ok {
		metadata(data)["estimated_duration_minutes"] = duration
		delete(data, "estimated_duration_minutes")
	}

	if modules, ok := getSlice(data, "modules"); ok {
		for i, raw := range modules {
			if m, ok := raw.(Record); ok {
				modules[i] = Module(m)
			}
		}
		data["modules"] = modules
	}

	return data
}

// Module folds duration into metadata and normalizes nested lessons.
func Module(data Record) Record {
	if duration, ok := data["estimated_duration_minutes"]; ok {
		metadata(data)["estimated_duration_minutes"] = duration
		delete(data, "estimated_duration_minutes")
	}

	if lessons, ok := getSlice(data, "lessons"); ok {
		for i, raw := range lessons {
			if l, ok := raw.(Record); ok {
				lessons[i] = Lesson(l)
			}
		}
		data["lessons"] = lessons
	}

	return data
}

// Lesson maps legacy lesson_type/delivery_mode values, defaults the helper
// toggles on, and normalizes nested slides.
func Lesson(data Record) Record {
	if lessonType, ok := getString(data, "lesson_type"); ok && lessonType != "" {
		lessonType = strings.ToLower(lessonType)
		if lessonType == "content" {
			lessonType = "interactive"
		}
		data["lesson_type"] = lessonType
	}

	if mode, ok := getString(data, "delivery_mode"); ok && mode != "" {
		mode = strings.ToLower(mode)
		if mode == "live" {
			mode = "live_interactive"
		}
		data["delivery_mode"] = mode
	}

	if _, ok := data["enable_ai_help"]; !ok {
		data["enable_ai_help"] = true
	}
	if _, ok := data["enable_tts"]; !ok {
		data["enable_tts"] = true
	}

	if slides, ok := getSlice(data, "slides"); ok {
		for i, raw := range slides {
			if s, ok := raw.(Record); ok {
				slides[i] = Slide(s)
			}
		}
		data["slides"] = slides
	}

	return data
}

// Slide normalizes the block list: legacy block types are mapped to their
// canonical equivalents, every block gets an id, order, settings and
// metadata, and an empty slide gets a single text block built from its title.
func Slide(data Record) Record {
	blocks, _ := getSlice(data, "blocks")

	if len(blocks) == 0 {
		text := stringify(data["title"])
		if text == "" {
			text = "Slide content"
		}
		blocks = []interface{}{Record{
			"id":       uuid.NewString(),
			"type":     "text",
			"order":    0,
			"content":  Record{"text": text},
			"settings": Record{"visible": true, "locked": false},
		}}
	}

	normalized := make([]interface{}, 0, len(blocks))
	for i, raw := range blocks {
		block, ok := raw.(Record)
		if !ok {
			continue
		}
		normalized = append(normalized, normalizeBlock(block, i))
	}

	data["blocks"] = normalized
	if _, ok := data["order_position"]; !ok {
		data["order_position"] = 0
	}
	if _, ok := data["estimated_seconds"]; !ok {
		data["estimated_seconds"] = 60
	}
	if _, ok := data["auto_advance"]; !ok {
		data["auto_advance"] = false
	}

	return data
}

func normalizeBlock(block Record, index int) Record {
	blockType := strings.ToLower(stringify(block["type"]))
	if blockType == "" {
		blockType = "text"
	}

	content, ok := getMap(block, "content")
	if !ok {
		content = Record{}
	}

	switch blockType {
	case "title":
		blockType = "text"
		text := stringify(content["text"])
		if text == "" {
			text = stringify(block["text"])
		}
		fontSize := content["fontSize"]
		if fontSize == nil {
			fontSize = "h1"
		}
		content = Record{"text": text, "fontSize": fontSize}
	case "task":
		blockType = "callout"
		text := stringify(content["instruction"])
		if text == "" {
			text = stringify(content["text"])
		}
		if text == "" {
			text = stringify(block["instruction"])
		}
		if text == "" {
			text = "Task"
		}
		content = Record{"type": "info", "text": text}
	case "question":
		if t, ok := content["type"]; ok {
			if _, has := content["question_type"]; !has {
				content["question_type"] = t
				delete(content, "type")
			}
		}
	case "timer":
		if seconds, ok := content["seconds"]; ok {
			if _, has := content["duration_seconds"]; !has {
				content["duration_seconds"] = seconds
				delete(content, "seconds")
			}
		}
	case "upload":
		if instruction, ok := content["instruction"]; ok {
			if _, has := content["instructions"]; !has {
				content["instructions"] = instruction
				delete(content, "instruction")
			}
		}
	}

	id := block["id"]
	if id == nil {
		id = uuid.NewString()
	}
	order := block["order"]
	if order == nil {
		order = index
	}
	settings := block["settings"]
	if settings == nil {
		settings = Record{"visible": true, "locked": false}
	}
	meta := block["metadata"]
	if meta == nil {
		meta = Record{
			"created_at":   time.Now().UTC().Format(time.RFC3339),
			"ai_generated": true,
			"version":      1,
		}
	}

	return Record{
		"id":       id,
		"type":     blockType,
		"order":    order,
		"content":  content,
		"settings": settings,
		"metadata": meta,
	}
}

func metadata(data Record) Record {
	meta, ok := getMap(data, "metadata")
	if !ok {
		meta = Record{}
		data["metadata"] = meta
	}
	return meta
}
