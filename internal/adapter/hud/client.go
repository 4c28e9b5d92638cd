// Package hud queries the HUD housing counselor search endpoint.
package hud

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
)

// Client fetches HUD-approved housing counseling agencies. The upstream
// payload shape has drifted over time, so the decoder accepts a bare list
// as well as objects keyed by "results" or "agencies" and tolerates both
// PascalCase and camelCase field names.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://data.hud.gov",
		logger:  logger,
	}
}

// Counselors searches by city and state. The limit is capped at 100.
// Upstream failures degrade to an empty slice.
func (c *Client) Counselors(ctx context.Context, city, state string, limit int) []domain.Counselor {
	if limit > 100 {
		limit = 100
	}
	params := url.Values{}
	params.Set("RowLimit", strconv.Itoa(limit))
	if city != "" {
		params.Set("City", strings.TrimSpace(city))
	}
	if state != "" {
		s := strings.TrimSpace(state)
		if len(s) > 2 {
			s = s[:2]
		}
		params.Set("State", strings.ToUpper(s))
	}

	endpoint := c.baseURL + "/Housing_Counselor/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("hud request build failed", "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("hud lookup failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("hud lookup failed", "error", fmt.Sprintf("status %d", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("hud response read failed", "error", err)
		return nil
	}
	return decodeCounselors(body)
}

func decodeCounselors(body []byte) []domain.Counselor {
	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil
		}
		inner, ok := wrapper["results"]
		if !ok {
			inner, ok = wrapper["agencies"]
		}
		if !ok {
			return nil
		}
		if err := json.Unmarshal(inner, &raw); err != nil {
			return nil
		}
	}

	out := make([]domain.Counselor, 0, len(raw))
	for _, item := range raw {
		name := firstString(item, "AgencyName", "agencyName", "name")
		if name == "" {
			continue
		}
		out = append(out, domain.Counselor{
			Name:     name,
			City:     firstString(item, "City", "city"),
			State:    firstString(item, "State", "state"),
			Phone:    firstString(item, "Phone", "phone", "PhoneNumber"),
			Address:  firstString(item, "Address", "address"),
			URL:      firstString(item, "WebURL", "url", "website"),
			Services: firstString(item, "Services", "services"),
		})
	}
	return out
}

func firstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
