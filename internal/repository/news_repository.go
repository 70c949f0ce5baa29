package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-site-api/internal/models"
)

const newsColumns = "id, title, slug, excerpt, content, cover_url, published, published_at, created_at, updated_at"

// NewsRepository manages persistence for news articles.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs a NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns articles for the admin table along with the total count.
func (r *NewsRepository) List(ctx context.Context, filter models.ListFilter) ([]models.News, int, error) {
	q := buildListQuery(filter, []string{"title", "slug"}, map[string]string{
		"title":        "title",
		"published_at": "published_at",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	}, "created_at")

	query := fmt.Sprintf("SELECT %s FROM news %s ORDER BY %s LIMIT %d OFFSET %d", newsColumns, q.where, q.order, q.limit, q.offset)
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query, q.args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM news "+q.where, q.args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}
	return items, total, nil
}

// ListPublished returns published articles, newest first.
func (r *NewsRepository) ListPublished(ctx context.Context) ([]models.NewsSummary, error) {
	const query = `SELECT id, title, slug, excerpt, cover_url, published_at FROM news WHERE published = TRUE ORDER BY published_at DESC`
	var items []models.NewsSummary
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list published news: %w", err)
	}
	return items, nil
}

// FindByID fetches an article by ID.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	query := "SELECT " + newsColumns + " FROM news WHERE id = $1"
	var item models.News
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindPublishedBySlug fetches a published article by slug.
func (r *NewsRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.News, error) {
	query := "SELECT " + newsColumns + " FROM news WHERE slug = $1 AND published = TRUE"
	var item models.News
	if err := r.db.GetContext(ctx, &item, query, slug); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsBySlug checks whether another article already uses slug.
func (r *NewsRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := "SELECT 1 FROM news WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check news slug: %w", err)
	}
	return true, nil
}

// Create inserts a new article.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO news (id, title, slug, excerpt, content, cover_url, published, published_at, created_at, updated_at)
		VALUES (:id, :title, :slug, :excerpt, :content, :cover_url, :published, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Update rewrites every editable field of an article. It returns
// sql.ErrNoRows when the article no longer exists.
func (r *NewsRepository) Update(ctx context.Context, item *models.News) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, slug = :slug, excerpt = :excerpt, content = :content, cover_url = :cover_url,
		published = :published, published_at = :published_at, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return requireRow(res, "update news")
}

// Delete removes an article permanently.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return requireRow(res, "delete news")
}
