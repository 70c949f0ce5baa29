package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/pkg/jobs"
)

var errRetryPending = errors.New("page cache unavailable")

type pageCache interface {
	Invalidate(ctx context.Context, path string) error
}

// PageInvalidatorConfig sizes the worker pool.
type PageInvalidatorConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// PageInvalidator drops cached renderings of logical pages. Drops that fail
// are retried in the background and never fail the write that raised them.
type PageInvalidator struct {
	cache   pageCache
	queue   *jobs.Queue[[]string]
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPageInvalidator wires the retry queue. Call Start before use.
func NewPageInvalidator(cache pageCache, metrics *MetricsService, logger *zap.Logger, cfg PageInvalidatorConfig) *PageInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &PageInvalidator{cache: cache, metrics: metrics, logger: logger}
	p.queue = jobs.NewQueue("page-invalidation", p.handle, jobs.QueueConfig[[]string]{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnGiveUp: func(job jobs.Job[[]string], err error) {
			p.metrics.RecordInvalidation("abandoned")
			logger.Warn("page invalidation abandoned", zap.Strings("paths", job.Payload), zap.Error(err))
		},
	})
	return p
}

// Start launches the workers.
func (p *PageInvalidator) Start(ctx context.Context) {
	p.queue.Start(ctx)
}

// Stop waits for the workers to exit. Pending signals are discarded.
func (p *PageInvalidator) Stop() {
	p.queue.Stop()
}

// Invalidate drops the cached pages before returning so the next read sees
// the write. Paths that could not be dropped are handed to the workers for
// retry. Failures are logged and never returned.
func (p *PageInvalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	failed := p.drop(ctx, paths)
	if len(failed) == 0 {
		p.metrics.RecordInvalidation("done")
		return
	}

	job := jobs.Job[[]string]{ID: uuid.NewString(), Payload: failed}
	if err := p.queue.Enqueue(job); err != nil {
		p.metrics.RecordInvalidation("dropped")
		level := p.logger.Warn
		if !errors.Is(err, jobs.ErrQueueFull) {
			level = p.logger.Error
		}
		level("page invalidation dropped", zap.Strings("paths", failed), zap.Error(err))
		return
	}
	p.metrics.RecordInvalidation("queued")
}

// drop removes each path and returns the ones that failed.
func (p *PageInvalidator) drop(ctx context.Context, paths []string) []string {
	var failed []string
	for _, path := range paths {
		if err := p.cache.Invalidate(ctx, path); err != nil {
			p.logger.Warn("page invalidation failed", zap.String("path", path), zap.Error(err))
			failed = append(failed, path)
		}
	}
	return failed
}

func (p *PageInvalidator) handle(ctx context.Context, job jobs.Job[[]string]) error {
	if failed := p.drop(ctx, job.Payload); len(failed) > 0 {
		p.metrics.RecordInvalidation("failed")
		return fmt.Errorf("invalidate %s: %w", strings.Join(failed, ", "), errRetryPending)
	}
	p.metrics.RecordInvalidation("done")
	return nil
}

// NewsPaths lists the pages that render a news article.
func NewsPaths(slug, previousSlug string) []string {
	paths := []string{"/", "/news", "/news/" + slug, "/admin/news"}
	if previousSlug != "" && previousSlug != slug {
		paths = append(paths, "/news/"+previousSlug)
	}
	return paths
}

// FacultyPaths lists the pages that render faculties.
func FacultyPaths() []string {
	return []string{"/faculties", "/teachers", "/admin/faculties"}
}

// TeacherPaths lists the pages that render teachers.
func TeacherPaths() []string {
	return []string{"/teachers", "/faculties", "/admin/teachers"}
}
