// Package acs implements domain.AreaStatsFetcher against the Census Bureau
// ACS5 API. Responses are a header row plus one data row of strings; each
// numeric field parses independently so a single bad column degrades to nil
// instead of discarding the record.
package acs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

// ACS5 variable codes, requested in this order.
const acsVars = "NAME,B01003_001E,B25077_001E,B25003_002E,B25003_003E"

// Client implements domain.AreaStatsFetcher using the ACS5 dataset.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an ACS5 client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.census.gov/data/2022/acs/acs5",
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAreaStats looks up the five scoring variables for a ZCTA. A nil
// result means the dataset does not cover it.
func (c *Client) FetchAreaStats(ctx context.Context, zcta string) (*domain.AreaStats, error) {
	params := url.Values{
		"get": {acsVars},
		"for": {"zip code tabulation area:" + zcta},
	}

	result, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), zcta)
	switch {
	case err != nil:
		c.metrics.CensusLookups.WithLabelValues("error").Inc()
	case result == nil:
		c.metrics.CensusLookups.WithLabelValues("empty").Inc()
	default:
		c.metrics.CensusLookups.WithLabelValues("success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL, zcta string) (*domain.AreaStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("acs5 request: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 204 for ZCTAs it has no rows for.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("acs5 error: status %d: %s", resp.StatusCode, body)
	}

	var rows [][]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// Header row plus exactly one data row; anything shorter is no data.
	if len(rows) < 2 {
		return nil, nil
	}

	fields := make(map[string]string, len(rows[0]))
	for i, header := range rows[0] {
		if i < len(rows[1]) {
			fields[header] = rows[1][i]
		}
	}

	return &domain.AreaStats{
		ZCTA:                zcta,
		Name:                fields["NAME"],
		Population:          parseIntField(fields["B01003_001E"]),
		MedianHomeValue:     parseIntField(fields["B25077_001E"]),
		OwnerOccupiedUnits:  parseIntField(fields["B25003_002E"]),
		RenterOccupiedUnits: parseIntField(fields["B25003_003E"]),
	}, nil
}

// parseIntField parses one ACS value, returning nil on empty or unparseable
// input. A bad column never aborts the record.
func parseIntField(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
