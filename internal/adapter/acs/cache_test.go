package acs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	stats *domain.AreaStats
	err   error
	calls int
}

func (s *stubFetcher) FetchAreaStats(_ context.Context, _ string) (*domain.AreaStats, error) {
	s.calls++
	return s.stats, s.err
}

func newCached(inner domain.AreaStatsFetcher) *CachedFetcher {
	return NewCachedFetcher(inner, time.Minute, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCachedFetcher_SecondLookupHitsCache(t *testing.T) {
	inner := &stubFetcher{stats: &domain.AreaStats{ZCTA: "92618", Name: "ZCTA5 92618"}}
	cached := newCached(inner)

	first, err := cached.FetchAreaStats(context.Background(), "92618")
	require.NoError(t, err)
	second, err := cached.FetchAreaStats(context.Background(), "92618")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Name, second.Name)
}

func TestCachedFetcher_ReturnsCopy(t *testing.T) {
	inner := &stubFetcher{stats: &domain.AreaStats{ZCTA: "92618", Population: domain.IntPtr(100)}}
	cached := newCached(inner)

	first, _ := cached.FetchAreaStats(context.Background(), "92618")
	first.ZCTA = "mutated"

	second, _ := cached.FetchAreaStats(context.Background(), "92618")
	assert.Equal(t, "92618", second.ZCTA)
}

func TestCachedFetcher_EmptyResultNotCached(t *testing.T) {
	inner := &stubFetcher{} // nil stats, nil error
	cached := newCached(inner)

	_, _ = cached.FetchAreaStats(context.Background(), "00000")
	_, _ = cached.FetchAreaStats(context.Background(), "00000")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedFetcher_ErrorNotCached(t *testing.T) {
	inner := &stubFetcher{err: errors.New("down")}
	cached := newCached(inner)

	_, err := cached.FetchAreaStats(context.Background(), "92618")
	require.Error(t, err)
	_, err = cached.FetchAreaStats(context.Background(), "92618")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
