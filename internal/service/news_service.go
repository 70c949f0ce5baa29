package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/slug"
)

const newsSlugMin = 3

type newsRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.News, int, error)
	ListPublished(ctx context.Context) ([]models.NewsSummary, error)
	FindByID(ctx context.Context, id string) (*models.News, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.News, error)
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.News) error
	Update(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id string) error
}

type markdownRenderer interface {
	Render(source string) (string, error)
}

// ContentDeps carries collaborators shared by the content services. Nil
// fields fall back to no-op behaviour.
type ContentDeps struct {
	Validator   *validator.Validate
	Audit       auditLogger
	Invalidator pageInvalidator
	Cache       *CacheService
	Metrics     *MetricsService
	Logger      *zap.Logger
}

func (d *ContentDeps) withDefaults() {
	if d.Validator == nil {
		d.Validator = NewValidator()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
}

// NewsService manages news articles.
type NewsService struct {
	repo      newsRepository
	slugs     *SlugResolver
	renderer  markdownRenderer
	validator *validator.Validate
	cache     *CacheService
	writer    contentWriter
	logger    *zap.Logger
	now       func() time.Time
}

// NewNewsService constructs a NewsService.
func NewNewsService(repo newsRepository, renderer markdownRenderer, deps ContentDeps) *NewsService {
	deps.withDefaults()
	return &NewsService{
		repo:      repo,
		slugs:     NewSlugResolver(entityNews, repo, deps.Metrics),
		renderer:  renderer,
		validator: deps.Validator,
		cache:     deps.Cache,
		writer:    contentWriter{audit: deps.Audit, invalidator: deps.Invalidator, metrics: deps.Metrics, logger: deps.Logger},
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// List returns articles for the admin table.
func (s *NewsService) List(ctx context.Context, filter models.ListFilter) ([]models.News, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, persistenceError(err, "failed to list news")
	}
	if items == nil {
		items = []models.News{}
	}
	return items, listPagination(filter, total), nil
}

// Get returns any article by id for the editor.
func (s *NewsService) Get(ctx context.Context, id string) (*models.News, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityNews)
	}
	return item, nil
}

// ListPublished returns the public news feed, newest first.
func (s *NewsService) ListPublished(ctx context.Context) ([]models.NewsSummary, error) {
	const path = "/news"
	var items []models.NewsSummary
	if s.cache.GetPage(ctx, path, &items) {
		return items, nil
	}
	items, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, persistenceError(err, "failed to list news")
	}
	if items == nil {
		items = []models.NewsSummary{}
	}
	s.cache.SetPage(ctx, path, items)
	return items, nil
}

// GetPublished returns a published article with its body rendered to HTML.
// Unpublished articles are reported as not found.
func (s *NewsService) GetPublished(ctx context.Context, slugValue string) (*models.NewsDetail, error) {
	path := "/news/" + slugValue
	var detail models.NewsDetail
	if s.cache.GetPage(ctx, path, &detail) {
		return &detail, nil
	}
	item, err := s.repo.FindPublishedBySlug(ctx, slugValue)
	if err != nil {
		return nil, lookupError(err, entityNews)
	}
	detail = models.NewsDetail{News: *item}
	if s.renderer != nil {
		html, err := s.renderer.Render(item.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render news")
		}
		detail.ContentHTML = html
	}
	s.cache.SetPage(ctx, path, detail)
	return &detail, nil
}

// Upsert creates an article when req.ID is empty and otherwise rewrites the
// article with that id.
func (s *NewsService) Upsert(ctx context.Context, actor *models.JWTClaims, req dto.NewsUpsertRequest) (*models.WriteResult[models.News], error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Content = strings.TrimSpace(req.Content)
	req.CoverURL = strings.TrimSpace(req.CoverURL)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	candidate := req.Slug
	if candidate == "" {
		candidate = req.Title
	}
	candidate = slug.Generate(candidate)
	if len(candidate) < newsSlugMin {
		return nil, appErrors.Validation("slug must be at least 3 characters")
	}

	var existing *models.News
	if req.ID != "" {
		found, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, lookupError(err, entityNews)
		}
		existing = found
	}

	finalSlug, err := s.slugs.Resolve(ctx, candidate, req.ID)
	if err != nil {
		return nil, err
	}

	var prior *time.Time
	if existing != nil {
		prior = existing.PublishedAt
	}
	published := req.Published.Bool()
	directive := ReconcilePublication(published, prior)

	item := &models.News{
		ID:          req.ID,
		Title:       req.Title,
		Slug:        finalSlug,
		Excerpt:     normalizeOptional(req.Excerpt),
		Content:     req.Content,
		CoverURL:    normalizeOptional(req.CoverURL),
		Published:   published,
		PublishedAt: directive.Apply(prior, s.now()),
	}

	previousSlug := ""
	if existing != nil {
		item.CreatedAt = existing.CreatedAt
		previousSlug = existing.Slug
		err = s.repo.Update(ctx, item)
	} else {
		err = s.repo.Create(ctx, item)
	}
	if err != nil {
		return nil, writeError(err, entityNews, finalSlug)
	}

	created := existing == nil
	s.logger.Info("news saved",
		zap.String("id", item.ID),
		zap.String("slug", item.Slug),
		zap.Bool("created", created),
		zap.Stringer("publish", directive),
	)
	s.writer.done(ctx, actor, entityNews, operationFor(created), item.ID, item, NewsPaths(item.Slug, previousSlug))

	return &models.WriteResult[models.News]{
		Item:     *item,
		Created:  created,
		Redirect: models.Redirect{Location: "/admin/news"},
	}, nil
}

// Delete removes an article permanently.
func (s *NewsService) Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityNews)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, deleteError(err, entityNews)
	}

	s.logger.Info("news deleted", zap.String("id", id), zap.String("slug", existing.Slug))
	s.writer.done(ctx, actor, entityNews, operationDelete, id, nil, NewsPaths(existing.Slug, ""))
	return &models.Redirect{Location: "/admin/news"}, nil
}
