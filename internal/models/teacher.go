package models

import "time"

// Teacher is a staff member listed in the public directory.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Position  *string   `db:"position" json:"position,omitempty"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	PhotoURL  *string   `db:"photo_url" json:"photo_url,omitempty"`
	FacultyID *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherWithFaculty joins the teacher row with its faculty name, if any.
type TeacherWithFaculty struct {
	Teacher
	FacultyName *string `db:"faculty_name" json:"faculty_name,omitempty"`
}
