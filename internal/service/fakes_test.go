package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

var testActor = &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, Email: "admin@college.am"}

// memNewsRepo is an in-memory newsRepository that counts every call.
type memNewsRepo struct {
	mu        sync.Mutex
	items     map[string]models.News
	calls     int
	createErr error
}

func newMemNewsRepo() *memNewsRepo {
	return &memNewsRepo{items: map[string]models.News{}}
}

func (r *memNewsRepo) touch() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *memNewsRepo) List(ctx context.Context, filter models.ListFilter) ([]models.News, int, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.News, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, len(out), nil
}

func (r *memNewsRepo) ListPublished(ctx context.Context) ([]models.NewsSummary, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NewsSummary
	for _, item := range r.items {
		if item.Published {
			out = append(out, models.NewsSummary{ID: item.ID, Title: item.Title, Slug: item.Slug, PublishedAt: item.PublishedAt})
		}
	}
	return out, nil
}

func (r *memNewsRepo) FindByID(ctx context.Context, id string) (*models.News, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (r *memNewsRepo) FindPublishedBySlug(ctx context.Context, slug string) (*models.News, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Slug == slug && item.Published {
			found := item
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memNewsRepo) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memNewsRepo) Create(ctx context.Context, item *models.News) error {
	r.touch()
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

func (r *memNewsRepo) Update(ctx context.Context, item *models.News) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return sql.ErrNoRows
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = *item
	return nil
}

func (r *memNewsRepo) Delete(ctx context.Context, id string) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

// memDirectory holds faculties and teachers together so a faculty delete can
// detach its teachers the way the database does.
type memDirectory struct {
	mu        sync.Mutex
	faculties map[string]models.Faculty
	teachers  map[string]models.Teacher
	calls     int
}

func newMemDirectory() *memDirectory {
	return &memDirectory{faculties: map[string]models.Faculty{}, teachers: map[string]models.Teacher{}}
}

func (d *memDirectory) Faculties() *memFacultyRepo { return &memFacultyRepo{d} }
func (d *memDirectory) Teachers() *memTeacherRepo  { return &memTeacherRepo{d} }

func (d *memDirectory) touch() {
	d.calls++
}

func (d *memDirectory) withFaculty(t models.Teacher) models.TeacherWithFaculty {
	out := models.TeacherWithFaculty{Teacher: t}
	if t.FacultyID != nil {
		if f, ok := d.faculties[*t.FacultyID]; ok {
			name := f.Name
			out.FacultyName = &name
		}
	}
	return out
}

type memFacultyRepo struct{ d *memDirectory }

func (r *memFacultyRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Faculty, int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	out := make([]models.Faculty, 0, len(r.d.faculties))
	for _, f := range r.d.faculties {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (r *memFacultyRepo) ListWithTeachers(ctx context.Context, preview int) ([]models.FacultySummary, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	var out []models.FacultySummary
	for _, f := range r.d.faculties {
		summary := models.FacultySummary{Faculty: f}
		for _, t := range r.d.teachers {
			if t.FacultyID != nil && *t.FacultyID == f.ID {
				summary.TeacherCount++
				if len(summary.Teachers) < preview {
					summary.Teachers = append(summary.Teachers, t)
				}
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFacultyRepo) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	f, ok := r.d.faculties[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (r *memFacultyRepo) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	for id, f := range r.d.faculties {
		if f.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFacultyRepo) Create(ctx context.Context, item *models.Faculty) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	r.d.faculties[item.ID] = *item
	return nil
}

func (r *memFacultyRepo) Update(ctx context.Context, item *models.Faculty) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	if _, ok := r.d.faculties[item.ID]; !ok {
		return sql.ErrNoRows
	}
	r.d.faculties[item.ID] = *item
	return nil
}

func (r *memFacultyRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	if _, ok := r.d.faculties[id]; !ok {
		return 0, sql.ErrNoRows
	}
	var detached int64
	for tid, t := range r.d.teachers {
		if t.FacultyID != nil && *t.FacultyID == id {
			t.FacultyID = nil
			r.d.teachers[tid] = t
			detached++
		}
	}
	delete(r.d.faculties, id)
	return detached, nil
}

type memTeacherRepo struct{ d *memDirectory }

func (r *memTeacherRepo) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherWithFaculty, int, error) {
	out, err := r.ListDirectory(ctx)
	return out, len(out), err
}

func (r *memTeacherRepo) ListDirectory(ctx context.Context) ([]models.TeacherWithFaculty, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	var out []models.TeacherWithFaculty
	for _, t := range r.d.teachers {
		out = append(out, r.d.withFaculty(t))
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName) })
	return out, nil
}

func (r *memTeacherRepo) FindByID(ctx context.Context, id string) (*models.TeacherWithFaculty, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	t, ok := r.d.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := r.d.withFaculty(t)
	return &out, nil
}

func (r *memTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	teacher.ID = uuid.NewString()
	teacher.CreatedAt = time.Now().UTC()
	r.d.teachers[teacher.ID] = *teacher
	return nil
}

func (r *memTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	if _, ok := r.d.teachers[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	r.d.teachers[teacher.ID] = *teacher
	return nil
}

func (r *memTeacherRepo) Delete(ctx context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.touch()
	if _, ok := r.d.teachers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.d.teachers, id)
	return nil
}

// recordingInvalidator captures invalidation signals synchronously.
type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

func (r *recordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type recordingAudit struct {
	logs []*models.AuditLog
	err  error
}

func (r *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return r.err
}

// memCacheRepo is an in-memory CacheRepository keyed exactly.
type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: map[string]interface{}{}}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw.([]byte), dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
			m.deleted = append(m.deleted, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memCacheRepo) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}
