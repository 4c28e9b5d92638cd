// Package freetxt sends SMS confirmations through the FreeTxtAPI free SMS
// gateway. The gateway answers 200 with a status word rather than using HTTP
// status codes, and the free tier is slow and rate-limited, so failures are
// expected and callers treat them as soft.
package freetxt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Soft failure modes surfaced to the subscription flow.
var (
	ErrOptInRequired  = errors.New("recipient must opt in first (FreeTxtAPI)")
	ErrRateLimited    = errors.New("SMS rate limit reached (FreeTxtAPI)")
	ErrDeliveryFailed = errors.New("SMS delivery failed")
)

// Client posts to the FreeTxtAPI form endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates an SMS client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    "https://freetxtapi.com",
		retryDelay: time.Second,
		logger:     logger,
	}
}

// Send delivers one SMS to a normalized 10-digit US number. Transport errors
// are retried once; gateway rejections are not.
func (c *Client) Send(ctx context.Context, phone, body string) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := c.post(ctx, phone, body)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
		if attempt == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, phone, body string) error {
	form := url.Values{
		"phone":   {phone},
		"message": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transientError{fmt.Errorf("sms request: %w", err)}
	}
	defer resp.Body.Close()

	var payload struct {
		Status string `json:"status"`
	}
	// An unparseable body counts as an unknown status, not a transport error.
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch strings.ToUpper(payload.Status) {
	case "DELIVERED":
		return nil
	case "WAITING OPT-IN":
		return ErrOptInRequired
	case "LIMIT REACHED":
		return ErrRateLimited
	default:
		c.logger.Warn("sms gateway returned unexpected status",
			"status", payload.Status,
			"http_status", resp.StatusCode,
		)
		return fmt.Errorf("%w: status %q (HTTP %d)", ErrDeliveryFailed, payload.Status, resp.StatusCode)
	}
}

type transientError struct{ err error }

func (t *transientError) Error() string { return t.err.Error() }
func (t *transientError) Unwrap() error { return t.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
