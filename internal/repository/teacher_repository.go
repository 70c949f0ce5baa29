package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-site-api/internal/models"
)

const teacherJoinColumns = `t.id, t.full_name, t.position, t.bio, t.photo_url, t.faculty_id, t.created_at, t.updated_at, f.name AS faculty_name`

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherWithFaculty, int, error) {
	q := buildListQuery(filter, []string{"t.full_name", "t.position", "f.name"}, map[string]string{
		"full_name":  "t.full_name",
		"position":   "t.position",
		"faculty":    "f.name",
		"created_at": "t.created_at",
		"updated_at": "t.updated_at",
	}, "created_at")

	from := "FROM teachers t LEFT JOIN faculties f ON f.id = t.faculty_id " + q.where
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", teacherJoinColumns, from, q.order, q.limit, q.offset)
	var teachers []models.TeacherWithFaculty
	if err := r.db.SelectContext(ctx, &teachers, query, q.args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+from, q.args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// ListDirectory returns every teacher by name with the faculty name.
func (r *TeacherRepository) ListDirectory(ctx context.Context) ([]models.TeacherWithFaculty, error) {
	query := "SELECT " + teacherJoinColumns + " FROM teachers t LEFT JOIN faculties f ON f.id = t.faculty_id ORDER BY t.full_name ASC"
	var teachers []models.TeacherWithFaculty
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teacher directory: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherWithFaculty, error) {
	query := "SELECT " + teacherJoinColumns + " FROM teachers t LEFT JOIN faculties f ON f.id = t.faculty_id WHERE t.id = $1"
	var teacher models.TeacherWithFaculty
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, full_name, position, bio, photo_url, faculty_id, created_at, updated_at)
		VALUES (:id, :full_name, :position, :bio, :photo_url, :faculty_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update rewrites every editable field of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET full_name = :full_name, position = :position, bio = :bio, photo_url = :photo_url,
		faculty_id = :faculty_id, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return requireRow(res, "update teacher")
}

// Delete removes a teacher permanently.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return requireRow(res, "delete teacher")
}
