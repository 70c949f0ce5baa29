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

const facultyColumns = "id, name, slug, description, created_at, updated_at"

// FacultyRepository manages persistence for faculties.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculties for the admin table along with the total count.
func (r *FacultyRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Faculty, int, error) {
	q := buildListQuery(filter, []string{"name", "slug"}, map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}, "created_at")

	query := fmt.Sprintf("SELECT %s FROM faculties %s ORDER BY %s LIMIT %d OFFSET %d", facultyColumns, q.where, q.order, q.limit, q.offset)
	var items []models.Faculty
	if err := r.db.SelectContext(ctx, &items, query, q.args...); err != nil {
		return nil, 0, fmt.Errorf("list faculties: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM faculties "+q.where, q.args...); err != nil {
		return nil, 0, fmt.Errorf("count faculties: %w", err)
	}
	return items, total, nil
}

// ListWithTeachers returns every faculty by name with its teacher count and
// the first few teachers by name.
func (r *FacultyRepository) ListWithTeachers(ctx context.Context, preview int) ([]models.FacultySummary, error) {
	const query = `SELECT f.id, f.name, f.slug, f.description, f.created_at, f.updated_at, COUNT(t.id) AS teacher_count
		FROM faculties f LEFT JOIN teachers t ON t.faculty_id = f.id
		GROUP BY f.id ORDER BY f.name ASC`
	var faculties []models.FacultySummary
	if err := r.db.SelectContext(ctx, &faculties, query); err != nil {
		return nil, fmt.Errorf("list faculties with counts: %w", err)
	}
	if len(faculties) == 0 || preview <= 0 {
		return faculties, nil
	}

	const rosterQuery = `SELECT id, full_name, position, bio, photo_url, faculty_id, created_at, updated_at FROM (
			SELECT id, full_name, position, bio, photo_url, faculty_id, created_at, updated_at,
				ROW_NUMBER() OVER (PARTITION BY faculty_id ORDER BY full_name ASC) AS rn
			FROM teachers WHERE faculty_id IS NOT NULL
		) ranked WHERE rn <= $1 ORDER BY faculty_id, full_name ASC`
	var roster []models.Teacher
	if err := r.db.SelectContext(ctx, &roster, rosterQuery, preview); err != nil {
		return nil, fmt.Errorf("list faculty rosters: %w", err)
	}

	byFaculty := make(map[string][]models.Teacher, len(faculties))
	for _, t := range roster {
		if t.FacultyID != nil {
			byFaculty[*t.FacultyID] = append(byFaculty[*t.FacultyID], t)
		}
	}
	for i := range faculties {
		faculties[i].Teachers = byFaculty[faculties[i].ID]
		if faculties[i].Teachers == nil {
			faculties[i].Teachers = []models.Teacher{}
		}
	}
	return faculties, nil
}

// FindByID fetches a faculty by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	query := "SELECT " + facultyColumns + " FROM faculties WHERE id = $1"
	var item models.Faculty
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsBySlug checks whether another faculty already uses slug.
func (r *FacultyRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := "SELECT 1 FROM faculties WHERE slug = $1"
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
		return false, fmt.Errorf("check faculty slug: %w", err)
	}
	return true, nil
}

// Create inserts a new faculty.
func (r *FacultyRepository) Create(ctx context.Context, item *models.Faculty) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO faculties (id, name, slug, description, created_at, updated_at)
		VALUES (:id, :name, :slug, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update rewrites every editable field of a faculty.
func (r *FacultyRepository) Update(ctx context.Context, item *models.Faculty) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculties SET name = :name, slug = :slug, description = :description, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return requireRow(res, "update faculty")
}

// Delete detaches the faculty's teachers and removes the faculty in one
// transaction. It returns how many teachers were detached.
func (r *FacultyRepository) Delete(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete faculty: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE teachers SET faculty_id = NULL, updated_at = $2 WHERE faculty_id = $1`, id, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("detach faculty teachers: %w", err)
	}
	detached, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("detach faculty teachers: rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM faculties WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete faculty: %w", err)
	}
	if err := requireRow(res, "delete faculty"); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete faculty: %w", err)
	}
	return detached, nil
}
