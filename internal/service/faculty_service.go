package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/slug"
)

const facultySlugMin = 2

type facultyRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Faculty, int, error)
	ListWithTeachers(ctx context.Context, preview int) ([]models.FacultySummary, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.Faculty) error
	Update(ctx context.Context, item *models.Faculty) error
	Delete(ctx context.Context, id string) (int64, error)
}

// FacultyService manages faculties.
type FacultyService struct {
	repo      facultyRepository
	slugs     *SlugResolver
	validator *validator.Validate
	cache     *CacheService
	writer    contentWriter
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, deps ContentDeps) *FacultyService {
	deps.withDefaults()
	return &FacultyService{
		repo:      repo,
		slugs:     NewSlugResolver(entityFaculty, repo, deps.Metrics),
		validator: deps.Validator,
		cache:     deps.Cache,
		writer:    contentWriter{audit: deps.Audit, invalidator: deps.Invalidator, metrics: deps.Metrics, logger: deps.Logger},
		logger:    deps.Logger,
	}
}

// List returns faculties for the admin table.
func (s *FacultyService) List(ctx context.Context, filter models.ListFilter) ([]models.Faculty, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, persistenceError(err, "failed to list faculties")
	}
	if items == nil {
		items = []models.Faculty{}
	}
	return items, listPagination(filter, total), nil
}

// Get returns a faculty by id.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityFaculty)
	}
	return item, nil
}

// ListPublic returns every faculty by name with a short teacher roster.
func (s *FacultyService) ListPublic(ctx context.Context) ([]models.FacultySummary, error) {
	const path = "/faculties"
	var items []models.FacultySummary
	if s.cache.GetPage(ctx, path, &items) {
		return items, nil
	}
	items, err := s.repo.ListWithTeachers(ctx, models.FacultyPreviewSize)
	if err != nil {
		return nil, persistenceError(err, "failed to list faculties")
	}
	if items == nil {
		items = []models.FacultySummary{}
	}
	s.cache.SetPage(ctx, path, items)
	return items, nil
}

// Upsert creates a faculty when req.ID is empty and otherwise rewrites it.
func (s *FacultyService) Upsert(ctx context.Context, actor *models.JWTClaims, req dto.FacultyUpsertRequest) (*models.WriteResult[models.Faculty], error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	candidate := req.Slug
	if candidate == "" {
		candidate = req.Name
	}
	candidate = slug.Generate(candidate)
	if len(candidate) < facultySlugMin {
		return nil, appErrors.Validation("slug must be at least 2 characters")
	}

	var existing *models.Faculty
	if req.ID != "" {
		found, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, lookupError(err, entityFaculty)
		}
		existing = found
	}

	finalSlug, err := s.slugs.Resolve(ctx, candidate, req.ID)
	if err != nil {
		return nil, err
	}

	item := &models.Faculty{
		ID:          req.ID,
		Name:        req.Name,
		Slug:        finalSlug,
		Description: normalizeOptional(req.Description),
	}
	if existing != nil {
		item.CreatedAt = existing.CreatedAt
		err = s.repo.Update(ctx, item)
	} else {
		err = s.repo.Create(ctx, item)
	}
	if err != nil {
		return nil, writeError(err, entityFaculty, finalSlug)
	}

	created := existing == nil
	s.logger.Info("faculty saved", zap.String("id", item.ID), zap.String("slug", item.Slug), zap.Bool("created", created))
	s.writer.done(ctx, actor, entityFaculty, operationFor(created), item.ID, item, FacultyPaths())

	return &models.WriteResult[models.Faculty]{
		Item:     *item,
		Created:  created,
		Redirect: models.Redirect{Location: "/admin/faculties"},
	}, nil
}

// Delete removes a faculty. Its teachers stay in the directory without a faculty.
func (s *FacultyService) Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	detached, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, deleteError(err, entityFaculty)
	}

	s.logger.Info("faculty deleted", zap.String("id", id), zap.Int64("teachers_detached", detached))
	s.writer.done(ctx, actor, entityFaculty, operationDelete, id, map[string]int64{"teachers_detached": detached}, FacultyPaths())
	return &models.Redirect{Location: "/admin/faculties"}, nil
}
