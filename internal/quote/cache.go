package quote

import (
	"context"
	"strings"

	"github.com/pickarena/backend/pkg/redis"
)

// CachedResolver wraps a Resolver with a short-TTL Redis cache so the
// interactive search path does not hit the provider for every keystroke.
// Only successful resolutions are cached; failures always go upstream
// again.
type CachedResolver struct {
	resolver Resolver
	cache    *redis.Cache
}

// NewCachedResolver creates a caching wrapper around a resolver.
func NewCachedResolver(resolver Resolver, cache *redis.Cache) *CachedResolver {
	return &CachedResolver{resolver: resolver, cache: cache}
}

// Resolve returns a cached quote when one is fresh, otherwise resolves
// upstream and caches the result.
func (r *CachedResolver) Resolve(ctx context.Context, ticker string) (*Quote, error) {
	key := "quote:" + strings.ToUpper(strings.TrimSpace(ticker))

	var cached Quote
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	q, err := r.resolver.Resolve(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// Cache failures are not resolution failures
	_ = r.cache.Set(ctx, key, q, redis.TTLShort)

	return q, nil
}
