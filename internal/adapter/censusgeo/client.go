// Package censusgeo implements domain.Geocoder against the U.S. Census
// Bureau geocoding service (onelineaddress). It is the primary provider in
// the resolution chain: free, keyless, and authoritative for US addresses,
// but it only matches street-level addresses, so broader queries fall
// through to the Nominatim fallback.
package censusgeo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

const providerName = "census"

// Client implements domain.Geocoder using the Census Bureau geocoder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Census geocoding client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress",
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve converts a one-line address to coordinates and a ZIP. A nil result
// means the service answered but found no usable match.
func (c *Client) Resolve(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	params := url.Values{
		"address":   {query},
		"benchmark": {"Public_AR_Current"},
		"format":    {"json"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), query)
	c.metrics.GeocodeDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
	case result == nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL, query string) (*domain.GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("census geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("census geocoder error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Result.AddressMatches) == 0 {
		return nil, nil
	}

	m := payload.Result.AddressMatches[0]
	// Both coordinates must be present; the service reports unmatched
	// addresses with zeroed coordinate objects.
	if m.Coordinates.X == 0 && m.Coordinates.Y == 0 {
		return nil, nil
	}

	result := &domain.GeocodeResult{
		Query:          query,
		MatchedAddress: m.MatchedAddress,
		Latitude:       m.Coordinates.Y,
		Longitude:      m.Coordinates.X,
	}

	if zip := strings.TrimSpace(m.AddressComponents.Zip); zip != "" {
		result.ZipCode = domain.StrPtr(zip)
	} else if zip := domain.ExtractZip(m.MatchedAddress); zip != "" {
		result.ZipCode = domain.StrPtr(zip)
	}

	return result, nil
}

// Census geocoder API response types.

type response struct {
	Result struct {
		AddressMatches []addressMatch `json:"addressMatches"`
	} `json:"result"`
}

type addressMatch struct {
	MatchedAddress string `json:"matchedAddress"`
	Coordinates    struct {
		X float64 `json:"x"` // longitude
		Y float64 `json:"y"` // latitude
	} `json:"coordinates"`
	AddressComponents struct {
		Zip string `json:"zip"`
	} `json:"addressComponents"`
}
