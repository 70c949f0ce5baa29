package models

import "time"

// News is an article. PublishedAt is set exactly when Published is true.
type News struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Excerpt     *string    `db:"excerpt" json:"excerpt,omitempty"`
	Content     string     `db:"content" json:"content"`
	CoverURL    *string    `db:"cover_url" json:"cover_url,omitempty"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewsSummary is the list projection of a published article.
type NewsSummary struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Excerpt     *string    `db:"excerpt" json:"excerpt,omitempty"`
	CoverURL    *string    `db:"cover_url" json:"cover_url,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
}

// NewsDetail is a published article with its rendered body.
type NewsDetail struct {
	News
	ContentHTML string `json:"content_html"`
}
