// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API. It is the fallback provider in the resolution chain:
// it matches city names, neighborhoods, and partial queries that the Census
// geocoder rejects. Queries are constrained to the US.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

const providerName = "nominatim"

// Client implements domain.Geocoder using Nominatim.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Nominatim's usage policy
// requires an identifying User-Agent.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   "https://nominatim.openstreetmap.org/search",
		userAgent: "first-mover-alert/1.0",
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve converts a free-text query to coordinates and a ZIP. A nil result
// means the service answered but found no usable match.
func (c *Client) Resolve(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	params := url.Values{
		"q":              {query},
		"format":         {"jsonv2"},
		"limit":          {"1"},
		"addressdetails": {"1"},
		"countrycodes":   {"us"},
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
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("nominatim error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		return nil, nil
	}

	p := places[0]
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lon, errLon := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, nil
	}

	result := &domain.GeocodeResult{
		Query:          query,
		MatchedAddress: p.DisplayName,
		Latitude:       lat,
		Longitude:      lon,
	}

	if zip := strings.TrimSpace(p.Address.Postcode); zip != "" {
		// Postcodes occasionally arrive as ZIP+4; keep the five-digit prefix.
		zip, _, _ = strings.Cut(zip, "-")
		result.ZipCode = domain.StrPtr(zip)
	} else if zip := domain.ExtractZip(p.DisplayName); zip != "" {
		result.ZipCode = domain.StrPtr(zip)
	}

	return result, nil
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}
