package models

import "time"

// Faculty is an academic department.
type Faculty struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyPreviewSize is how many teachers the public faculty listing embeds.
const FacultyPreviewSize = 5

// FacultySummary is a faculty with its teacher count and a short roster.
type FacultySummary struct {
	Faculty
	TeacherCount int       `db:"teacher_count" json:"teacher_count"`
	Teachers     []Teacher `db:"-" json:"teachers"`
}
