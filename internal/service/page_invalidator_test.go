package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/dto"
)

type callerCtxKey struct{}

// scriptedPageCache fails the first `fail` calls. Calls made from a worker
// (no caller marker on ctx) wait for release when it is set.
type scriptedPageCache struct {
	mu      sync.Mutex
	paths   []string
	release chan struct{}
	fail    int
	calls   int
}

func (c *scriptedPageCache) Invalidate(ctx context.Context, path string) error {
	if c.release != nil && ctx.Value(callerCtxKey{}) == nil {
		<-c.release
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.fail != 0 {
		if c.fail > 0 {
			c.fail--
		}
		return errors.New("redis unavailable")
	}
	c.paths = append(c.paths, path)
	return nil
}

func (c *scriptedPageCache) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func callerCtx() context.Context {
	return context.WithValue(context.Background(), callerCtxKey{}, true)
}

func TestPageInvalidatorDropsInline(t *testing.T) {
	cache := &scriptedPageCache{}
	metrics := NewMetricsService()
	inv := NewPageInvalidator(cache, metrics, zap.NewNop(), PageInvalidatorConfig{Workers: 1, BufferSize: 4})
	inv.Start(context.Background())
	defer inv.Stop()

	inv.Invalidate(callerCtx(), FacultyPaths()...)

	assert.ElementsMatch(t, FacultyPaths(), cache.seen())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.invalidations.WithLabelValues("done")))
}

func TestPageInvalidatorRetriesFailures(t *testing.T) {
	cache := &scriptedPageCache{fail: 1}
	metrics := NewMetricsService()
	inv := NewPageInvalidator(cache, metrics, zap.NewNop(), PageInvalidatorConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	inv.Start(context.Background())
	defer inv.Stop()

	inv.Invalidate(callerCtx(), "/news", "/news/a")

	assert.Contains(t, cache.seen(), "/news/a")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.invalidations.WithLabelValues("queued")))
	require.Eventually(t, func() bool { return len(cache.seen()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"/news", "/news/a"}, cache.seen())
}

func TestPageInvalidatorDropsWhenFull(t *testing.T) {
	cache := &scriptedPageCache{release: make(chan struct{}), fail: -1}
	metrics := NewMetricsService()
	inv := NewPageInvalidator(cache, metrics, zap.NewNop(), PageInvalidatorConfig{Workers: 1, BufferSize: 1, RetryDelay: time.Minute})
	inv.Start(context.Background())
	defer func() {
		close(cache.release)
		inv.Stop()
	}()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			inv.Invalidate(callerCtx(), "/teachers")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Invalidate blocked the caller")
	}
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.invalidations.WithLabelValues("dropped")), float64(1))
}

func TestPageInvalidatorBeforeStartStillDrops(t *testing.T) {
	cache := &scriptedPageCache{}
	inv := NewPageInvalidator(cache, nil, nil, PageInvalidatorConfig{})
	inv.Invalidate(context.Background(), "/news")
	inv.Invalidate(context.Background())
	assert.Equal(t, []string{"/news"}, cache.seen())

	failing := NewPageInvalidator(&scriptedPageCache{fail: -1}, nil, nil, PageInvalidatorConfig{})
	assert.NotPanics(t, func() { failing.Invalidate(context.Background(), "/news") })
}

func TestFacultyListingFreshAfterDelete(t *testing.T) {
	ctx := context.Background()
	dir := newMemDirectory()
	cache := NewCacheService(newMemCacheRepo(), nil, time.Minute, nil, true)
	inv := NewPageInvalidator(cache, nil, zap.NewNop(), PageInvalidatorConfig{Workers: 1})
	inv.Start(ctx)
	defer inv.Stop()

	faculties := NewFacultyService(dir.Faculties(), ContentDeps{Invalidator: inv, Cache: cache})

	res, err := faculties.Upsert(ctx, testActor, dto.FacultyUpsertRequest{Name: "Engineering"})
	require.NoError(t, err)

	listed, err := faculties.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = faculties.Delete(ctx, testActor, res.Item.ID)
	require.NoError(t, err)

	listed, err = faculties.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestNewsPaths(t *testing.T) {
	assert.Equal(t, []string{"/", "/news", "/news/a", "/admin/news"}, NewsPaths("a", "a"))
	assert.Contains(t, NewsPaths("b", "a"), "/news/a")
}
