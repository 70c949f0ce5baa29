package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/pkg/cache"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// CacheService stores public page payloads keyed by logical path.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// GetPage loads the cached payload for path into dest and reports a hit.
// Backend failures count as misses.
func (s *CacheService) GetPage(ctx context.Context, path string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, cache.PageKey(path), dest)
	s.metrics.RecordCacheLookup(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("path", path), zap.Error(err))
	}
	return err == nil
}

// SetPage stores value for path. Failures are logged and otherwise ignored.
func (s *CacheService) SetPage(ctx context.Context, path string, value interface{}) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Set(ctx, cache.PageKey(path), value, s.defaultTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("path", path), zap.Error(err))
	}
}

// Invalidate removes the cached payloads for path and its query variants.
func (s *CacheService) Invalidate(ctx context.Context, path string) error {
	if !s.Enabled() {
		return nil
	}
	var errs []error
	for _, pattern := range cache.PagePatterns(path) {
		removed, err := s.repo.DeleteByPattern(ctx, pattern)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if removed > 0 {
			s.logger.Debug("page cache invalidated", zap.String("pattern", pattern), zap.Int("keys", removed))
		}
	}
	return errors.Join(errs...)
}
