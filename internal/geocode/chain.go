// Package geocode composes geocoding providers into an ordered fallback
// chain. Providers are tried in sequence until one returns a match; provider
// errors are logged and swallowed so a flaky upstream degrades to "no result"
// instead of failing the request.
package geocode

import (
	"context"
	"log/slog"
	"strings"

	"github.com/firstmover/alert-api/internal/domain"
)

// Chain is an ordered list of geocoding providers sharing the
// domain.Geocoder interface. New providers can be appended without touching
// call sites.
type Chain struct {
	providers []domain.Geocoder
	names     []string
	logger    *slog.Logger
}

// NewChain builds a fallback chain. Order matters: the first provider that
// yields a result wins.
func NewChain(logger *slog.Logger) *Chain {
	return &Chain{logger: logger}
}

// Append adds a named provider to the end of the chain.
func (c *Chain) Append(name string, provider domain.Geocoder) *Chain {
	c.providers = append(c.providers, provider)
	c.names = append(c.names, name)
	return c
}

// Resolve tries each provider in order. Empty or whitespace-only queries
// return nil without any network call. The returned error is always nil;
// the Chain satisfies domain.Geocoder so it can itself be wrapped.
func (c *Chain) Resolve(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	for i, provider := range c.providers {
		result, err := provider.Resolve(ctx, query)
		if err != nil {
			c.logger.Warn("geocoding provider failed",
				"provider", c.names[i],
				"query", query,
				"error", err,
			)
			continue
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, nil
}
