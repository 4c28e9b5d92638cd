package acs

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

// CachedFetcher wraps an AreaStatsFetcher with an in-memory TTL cache.
// ACS5 estimates change once a year, so even a short TTL removes nearly all
// repeat lookups for popular ZIPs.
type CachedFetcher struct {
	inner   domain.AreaStatsFetcher
	cache   *gocache.Cache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedFetcher creates a cache decorator around a stats fetcher.
func NewCachedFetcher(inner domain.AreaStatsFetcher, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAreaStats serves from cache when possible. Only successful non-empty
// lookups are cached so transient failures can be retried.
func (c *CachedFetcher) FetchAreaStats(ctx context.Context, zcta string) (*domain.AreaStats, error) {
	if v, ok := c.cache.Get(zcta); ok {
		c.metrics.CensusCache.WithLabelValues("hit").Inc()
		stats := v.(domain.AreaStats)
		return &stats, nil
	}
	c.metrics.CensusCache.WithLabelValues("miss").Inc()

	stats, err := c.inner.FetchAreaStats(ctx, zcta)
	if err != nil || stats == nil {
		return stats, err
	}

	c.cache.SetDefault(zcta, *stats)
	return stats, nil
}
