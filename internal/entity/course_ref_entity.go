package entity

import "github.com/google/uuid"

// CourseRef is a lightweight course listing used when picking an upload
// target for generated modules.
type CourseRef struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	YearGroup string    `json:"year_group"`
}
