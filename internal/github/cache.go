// internal/github/cache.go
package github

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/metrics"
	"portfolio-backend/internal/model"
)

type fetcher interface {
	ListOwnerRepositories(ctx context.Context, owner string) ([]model.RemoteRepository, error)
	GetRepository(ctx context.Context, owner, name string) (*model.RemoteRepository, error)
}

// CachedFetcher keeps an owner's repository list in Redis for a bounded time.
// Repository metadata changes slowly, so a stale list for up to ttl is acceptable.
// Cache failures never fail the fetch.
type CachedFetcher struct {
	next   fetcher
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedFetcher(next fetcher, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

type bypassKey struct{}

// WithoutCache marks ctx so a CachedFetcher skips the cached list and reads
// GitHub directly. The fresh list still replaces the cache entry.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// CacheBypassed reports whether ctx was marked by WithoutCache.
func CacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

func cacheKey(owner string) string {
	return "github:repos:" + owner
}

func (f *CachedFetcher) ListOwnerRepositories(ctx context.Context, owner string) ([]model.RemoteRepository, error) {
	key := cacheKey(owner)
	if CacheBypassed(ctx) {
		metrics.RepoCacheLookups.WithLabelValues("bypass").Inc()
		f.logger.Debug("Repository cache bypassed", "owner", owner)
		return f.fetchAndStore(ctx, key, owner)
	}

	raw, err := f.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var repos []model.RemoteRepository
		if jsonErr := json.Unmarshal(raw, &repos); jsonErr == nil {
			metrics.RepoCacheLookups.WithLabelValues("hit").Inc()
			f.logger.Debug("Repository list served from cache", "owner", owner, "count", len(repos))
			return repos, nil
		}
		f.logger.Warn("Discarding undecodable repository cache entry", "owner", owner)
	case errors.Is(err, redis.Nil):
	default:
		f.logger.Warn("Repository cache read failed", "owner", owner, "error", err)
	}
	metrics.RepoCacheLookups.WithLabelValues("miss").Inc()
	return f.fetchAndStore(ctx, key, owner)
}

func (f *CachedFetcher) fetchAndStore(ctx context.Context, key, owner string) ([]model.RemoteRepository, error) {
	repos, err := f.next.ListOwnerRepositories(ctx, owner)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(repos); err == nil {
		if err := f.rdb.Set(ctx, key, payload, f.ttl).Err(); err != nil {
			f.logger.Warn("Repository cache write failed", "owner", owner, "error", err)
		}
	}
	return repos, nil
}

// GetRepository is not cached; it backs single-repository imports only.
func (f *CachedFetcher) GetRepository(ctx context.Context, owner, name string) (*model.RemoteRepository, error) {
	return f.next.GetRepository(ctx, owner, name)
}
