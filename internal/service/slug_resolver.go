package service

import (
	"context"
	"fmt"
	"time"
)

type slugStore interface {
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
}

// SlugResolver makes a candidate slug unique within one entity type. The
// check is advisory; the schema's unique constraint is authoritative.
type SlugResolver struct {
	entity  string
	store   slugStore
	metrics *MetricsService
	now     func() time.Time
}

// NewSlugResolver builds a resolver for entity backed by store.
func NewSlugResolver(entity string, store slugStore, metrics *MetricsService) *SlugResolver {
	return &SlugResolver{entity: entity, store: store, metrics: metrics, now: time.Now}
}

// Resolve returns candidate, or candidate suffixed with the current epoch
// milliseconds when another record (other than excludeID) already holds it.
// It does not re-check the suffixed value.
func (r *SlugResolver) Resolve(ctx context.Context, candidate, excludeID string) (string, error) {
	taken, err := r.store.ExistsBySlug(ctx, candidate, excludeID)
	if err != nil {
		return "", persistenceError(err, fmt.Sprintf("failed to check %s slug", r.entity))
	}
	if !taken {
		return candidate, nil
	}
	r.metrics.RecordSlugCollision(r.entity)
	return fmt.Sprintf("%s-%d", candidate, r.now().UnixMilli()), nil
}
