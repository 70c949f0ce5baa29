package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.TeacherWithFaculty, int, error)
	ListDirectory(ctx context.Context) ([]models.TeacherWithFaculty, error)
	FindByID(ctx context.Context, id string) (*models.TeacherWithFaculty, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

type facultyLookup interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	faculties facultyLookup
	validator *validator.Validate
	cache     *CacheService
	writer    contentWriter
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, faculties facultyLookup, deps ContentDeps) *TeacherService {
	deps.withDefaults()
	return &TeacherService{
		repo:      repo,
		faculties: faculties,
		validator: deps.Validator,
		cache:     deps.Cache,
		writer:    contentWriter{audit: deps.Audit, invalidator: deps.Invalidator, metrics: deps.Metrics, logger: deps.Logger},
		logger:    deps.Logger,
	}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherWithFaculty, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, persistenceError(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.TeacherWithFaculty{}
	}
	return teachers, listPagination(filter, total), nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherWithFaculty, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityTeacher)
	}
	return teacher, nil
}

// Directory returns every teacher by name for the public page.
func (s *TeacherService) Directory(ctx context.Context) ([]models.TeacherWithFaculty, error) {
	const path = "/teachers"
	var teachers []models.TeacherWithFaculty
	if s.cache.GetPage(ctx, path, &teachers) {
		return teachers, nil
	}
	teachers, err := s.repo.ListDirectory(ctx)
	if err != nil {
		return nil, persistenceError(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.TeacherWithFaculty{}
	}
	s.cache.SetPage(ctx, path, teachers)
	return teachers, nil
}

// Upsert creates a teacher when req.ID is empty and otherwise rewrites it.
func (s *TeacherService) Upsert(ctx context.Context, actor *models.JWTClaims, req dto.TeacherUpsertRequest) (*models.WriteResult[models.Teacher], error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	req.ID = strings.TrimSpace(req.ID)
	req.FullName = strings.TrimSpace(req.FullName)
	req.PhotoURL = strings.TrimSpace(req.PhotoURL)
	req.FacultyID = strings.TrimSpace(req.FacultyID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	var existing *models.TeacherWithFaculty
	if req.ID != "" {
		found, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, lookupError(err, entityTeacher)
		}
		existing = found
	}

	facultyID := normalizeOptional(req.FacultyID)
	if facultyID != nil && s.faculties != nil {
		if _, err := s.faculties.FindByID(ctx, *facultyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Validation("faculty_id must reference an existing faculty")
			}
			return nil, persistenceError(err, "failed to load faculty")
		}
	}

	teacher := &models.Teacher{
		ID:        req.ID,
		FullName:  req.FullName,
		Position:  normalizeOptional(req.Position),
		Bio:       normalizeOptional(req.Bio),
		PhotoURL:  normalizeOptional(req.PhotoURL),
		FacultyID: facultyID,
	}
	var err error
	if existing != nil {
		teacher.CreatedAt = existing.CreatedAt
		err = s.repo.Update(ctx, teacher)
	} else {
		err = s.repo.Create(ctx, teacher)
	}
	if err != nil {
		return nil, writeError(err, entityTeacher, "")
	}

	created := existing == nil
	s.logger.Info("teacher saved", zap.String("id", teacher.ID), zap.Bool("created", created))
	s.writer.done(ctx, actor, entityTeacher, operationFor(created), teacher.ID, teacher, TeacherPaths())

	return &models.WriteResult[models.Teacher]{
		Item:     *teacher,
		Created:  created,
		Redirect: models.Redirect{Location: "/admin/teachers"},
	}, nil
}

// Delete removes a teacher permanently.
func (s *TeacherService) Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, deleteError(err, entityTeacher)
	}

	s.logger.Info("teacher deleted", zap.String("id", id))
	s.writer.done(ctx, actor, entityTeacher, operationDelete, id, nil, TeacherPaths())
	return &models.Redirect{Location: "/admin/teachers"}, nil
}
