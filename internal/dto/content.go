package dto

// NewsUpsertRequest is the news editor form. An empty ID creates a new article.
type NewsUpsertRequest struct {
	ID        string   `json:"id" form:"id"`
	Title     string   `json:"title" form:"title" validate:"required,min=3"`
	Slug      string   `json:"slug" form:"slug" validate:"omitempty,min=3"`
	Excerpt   string   `json:"excerpt" form:"excerpt"`
	Content   string   `json:"content" form:"content" validate:"required"`
	CoverURL  string   `json:"cover_url" form:"cover_url" validate:"omitempty,url_or_path"`
	Published Checkbox `json:"published" form:"published"`
}

// FacultyUpsertRequest is the faculty editor form.
type FacultyUpsertRequest struct {
	ID          string `json:"id" form:"id"`
	Name        string `json:"name" form:"name" validate:"required,min=2"`
	Slug        string `json:"slug" form:"slug" validate:"omitempty,min=2"`
	Description string `json:"description" form:"description"`
}

// TeacherUpsertRequest is the teacher editor form.
type TeacherUpsertRequest struct {
	ID        string `json:"id" form:"id"`
	FullName  string `json:"full_name" form:"full_name" validate:"required,min=2"`
	Position  string `json:"position" form:"position"`
	Bio       string `json:"bio" form:"bio"`
	PhotoURL  string `json:"photo_url" form:"photo_url" validate:"omitempty,url_or_path"`
	FacultyID string `json:"faculty_id" form:"faculty_id" validate:"omitempty,uuid"`
}

// UploadResponse is returned by the image upload endpoint.
type UploadResponse struct {
	URL string `json:"url"`
}
