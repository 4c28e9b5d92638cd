// Package listings serves demo and ingested property listings, each
// annotated with a risk profile at read time.
package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
	"github.com/firstmover/alert-api/internal/risk"
)

// ListingStore persists and enumerates ingested listings.
type ListingStore interface {
	SaveListing(ctx context.Context, l domain.Listing) error
	Listings(ctx context.Context) ([]domain.Listing, error)
}

// Service combines a seed file of demo listings with listings ingested
// through the API.
type Service struct {
	store       ListingStore
	engine      *risk.Engine
	geocoder    domain.Geocoder
	seedPath    string
	markerCount int
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewService(store ListingStore, engine *risk.Engine, geocoder domain.Geocoder, seedPath string, markerCount int, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		engine:      engine,
		geocoder:    geocoder,
		seedPath:    seedPath,
		markerCount: markerCount,
		metrics:     metrics,
		logger:      logger,
	}
}

type seedFile struct {
	Listings []domain.Listing `json:"listings"`
}

// List returns ingested listings (newest first) followed by the demo seed
// listings, each annotated with its risk profile. A missing or unreadable
// seed file contributes nothing.
func (s *Service) List(ctx context.Context) []domain.AnnotatedListing {
	stored, err := s.store.Listings(ctx)
	if err != nil {
		s.logger.Warn("listing enumeration failed", "error", err)
	}

	all := append(stored, s.seedListings()...)
	out := make([]domain.AnnotatedListing, 0, len(all))
	for _, l := range all {
		out = append(out, domain.AnnotatedListing{
			Listing: l,
			Risk:    s.engine.ComputeRisk(ctx, l.Address, ""),
		})
	}
	return out
}

func (s *Service) seedListings() []domain.Listing {
	raw, err := os.ReadFile(s.seedPath)
	if err != nil {
		return nil
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		s.logger.Warn("demo listings file unreadable", "path", s.seedPath, "error", err)
		return nil
	}
	return seed.Listings
}

// Ingest stores a new listing and returns it with its assigned ID and
// ingestion timestamp.
func (s *Service) Ingest(ctx context.Context, address string, price *int, source string) (domain.Listing, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Listing{}, fmt.Errorf("address is required")
	}

	l := domain.Listing{
		ID:         uuid.NewString(),
		Address:    address,
		Price:      price,
		Source:     strings.TrimSpace(source),
		IngestedAt: domain.Clock().Now(),
	}
	if err := s.store.SaveListing(ctx, l); err != nil {
		return domain.Listing{}, fmt.Errorf("ingest listing: %w", err)
	}
	s.metrics.ListingsIngested.Inc()
	s.logger.Info("listing ingested", "id", l.ID, "address", l.Address)
	return l, nil
}

// Marker is one synthetic map point near a geocoded center.
type Marker struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Label     string  `json:"label"`
}

// MapView is a geocoded center with synthetic nearby markers for the demo
// map overlay.
type MapView struct {
	Query          string   `json:"query"`
	MatchedAddress string   `json:"matched_address,omitempty"`
	Latitude       float64  `json:"lat"`
	Longitude      float64  `json:"lng"`
	ZipCode        *string  `json:"zip_code,omitempty"`
	Markers        []Marker `json:"markers"`
}

// MapView geocodes query and surrounds the hit with deterministic jittered
// markers. It returns nil when the query cannot be geocoded.
func (s *Service) MapView(ctx context.Context, query string) *MapView {
	geo, err := s.geocoder.Resolve(ctx, query)
	if err != nil {
		s.logger.Warn("map geocode failed", "query", query, "error", err)
		return nil
	}
	if geo == nil {
		return nil
	}

	return &MapView{
		Query:          geo.Query,
		MatchedAddress: geo.MatchedAddress,
		Latitude:       geo.Latitude,
		Longitude:      geo.Longitude,
		ZipCode:        geo.ZipCode,
		Markers:        syntheticMarkers(geo.Latitude, geo.Longitude, s.markerCount),
	}
}

// syntheticMarkers spreads n points around the center. The jitter is seeded
// from the center coordinates so the same query always renders the same map.
func syntheticMarkers(lat, lng float64, n int) []Marker {
	seed := uint64(math.Abs(lat)*1000+math.Abs(lng)*1000) + 1
	markers := make([]Marker, 0, n)
	for i := 0; i < n; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		dLat := (float64(seed>>33%2000)/1000 - 1) * 0.01
		seed = seed*6364136223846793005 + 1442695040888963407
		dLng := (float64(seed>>33%2000)/1000 - 1) * 0.01
		markers = append(markers, Marker{
			Latitude:  lat + dLat,
			Longitude: lng + dLng,
			Label:     fmt.Sprintf("Recent corporate purchase #%d", i+1),
		})
	}
	return markers
}
