// Package risk is the scoring core: it resolves a free-text address or ZIP
// to a canonical location, selects a scoring strategy by data availability,
// and produces a deterministic risk profile. ComputeRisk never fails —
// provider outages and missing data degrade through a fallback chain that
// always ends in a usable profile.
package risk

import (
	"context"
	"log/slog"
	"strings"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

// cityToZip is a small built-in lookup for common Orange County queries so
// that bare city names score without a geocoding round-trip.
var cityToZip = map[string]string{
	"irvine":        "92618",
	"costa mesa":    "92626",
	"santa ana":     "92701",
	"anaheim":       "92801",
	"newport beach": "92660",
}

// Engine orchestrates ZIP resolution and profile selection.
type Engine struct {
	rules    *RulesStore
	geocoder domain.Geocoder
	census   domain.AreaStatsFetcher
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewEngine creates a scoring engine. The geocoder is typically a provider
// chain; census is typically the cached ACS5 fetcher.
func NewEngine(rules *RulesStore, geocoder domain.Geocoder, census domain.AreaStatsFetcher, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		rules:    rules,
		geocoder: geocoder,
		census:   census,
		metrics:  metrics,
		logger:   logger,
	}
}

// resolution is the outcome of ZIP resolution. geo carries the geocode
// result when the chain ran, so branch dispatch can reuse it instead of
// geocoding the same address twice.
type resolution struct {
	zip string
	geo *domain.GeocodeResult
}

// ResolveZip resolves an address and/or ZIP to a five-digit ZIP string, or
// "" when nothing resolves. Resolution order: explicit ZIP verbatim, regex
// extraction from the address, the built-in city table, then geocoding.
func (e *Engine) ResolveZip(ctx context.Context, address, zip string) string {
	return e.resolve(ctx, address, zip).zip
}

func (e *Engine) resolve(ctx context.Context, address, zip string) resolution {
	if zip != "" {
		return resolution{zip: zip}
	}

	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return resolution{}
	}

	if extracted := domain.ExtractZip(strings.ToLower(trimmed)); extracted != "" {
		return resolution{zip: extracted}
	}

	lower := strings.ToLower(trimmed)
	for city, cityZip := range cityToZip {
		if strings.Contains(lower, city) {
			return resolution{zip: cityZip}
		}
	}

	geo, err := e.geocoder.Resolve(ctx, trimmed)
	if err != nil {
		e.logger.Warn("geocoding failed during zip resolution", "address", trimmed, "error", err)
		return resolution{}
	}
	if geo == nil {
		return resolution{}
	}
	if geo.ZipCode != nil {
		return resolution{zip: *geo.ZipCode, geo: geo}
	}
	return resolution{geo: geo}
}

// ComputeRisk resolves the location and picks a profile source, in order:
// static rule, census-derived formula, unknown-ZIP formula, geocoded-area
// formula, rules-table default. The result always carries resolved_zip
// (possibly nil) regardless of which branch ran.
func (e *Engine) ComputeRisk(ctx context.Context, address, zip string) domain.RiskProfile {
	rules := e.rules.Table()
	res := e.resolve(ctx, address, zip)

	var (
		profile domain.RiskProfile
		branch  string
	)

	switch {
	case res.zip != "" && hasRule(rules, res.zip):
		profile = profileFromRule(rules[res.zip])
		branch = "rule"

	case res.zip != "":
		stats := e.fetchStats(ctx, res.zip)
		if stats != nil {
			profile = profileFromCensus(stats)
			branch = "census"
		} else {
			profile = profileForUnknownZip(res.zip)
			branch = "zip_hash"
		}

	case res.geo != nil:
		profile = profileForGeocodedArea(res.geo.Latitude, res.geo.Longitude)
		branch = "geo_hash"

	default:
		if rule, ok := rules["default"]; ok {
			profile = profileFromRule(rule)
		} else {
			profile = profileForUnknownZip("00000")
		}
		branch = "default"
	}

	if res.zip != "" {
		profile.ResolvedZip = domain.StrPtr(res.zip)
	}

	e.metrics.RiskRequests.WithLabelValues(branch).Inc()
	e.logger.Debug("risk computed",
		"branch", branch,
		"resolved_zip", res.zip,
		"score", profile.Score,
	)
	return profile
}

// fetchStats swallows lookup errors: a census outage scores through the
// unknown-ZIP formula instead of surfacing a failure.
func (e *Engine) fetchStats(ctx context.Context, zcta string) *domain.AreaStats {
	stats, err := e.census.FetchAreaStats(ctx, zcta)
	if err != nil {
		e.logger.Warn("census lookup failed", "zcta", zcta, "error", err)
		return nil
	}
	return stats
}

func hasRule(rules RulesTable, zip string) bool {
	_, ok := rules[zip]
	return ok
}
