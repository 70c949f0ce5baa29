package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/college-site-api/pkg/config"
)

// NewRedis returns a configured Redis client. It fails when the server does
// not answer a ping within five seconds.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// PageKey is the cache key for a public page path.
func PageKey(path string) string {
	return "page:" + path
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// PagePatterns returns the SCAN patterns covering a path and its query variants.
func PagePatterns(path string) []string {
	key := globEscaper.Replace(PageKey(path))
	return []string{key, key + `\?*`}
}
