package censusgeo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/firstmover/alert-api/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123 Main St, Santa Ana, CA", r.URL.Query().Get("address"))
		assert.Equal(t, "Public_AR_Current", r.URL.Query().Get("benchmark"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"result": {
				"addressMatches": [{
					"matchedAddress": "123 MAIN ST, SANTA ANA, CA, 92701",
					"coordinates": {"x": -117.8677, "y": 33.7455},
					"addressComponents": {"zip": "92701"}
				}]
			}
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Resolve(context.Background(), "123 Main St, Santa Ana, CA")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 33.7455, result.Latitude)
	assert.Equal(t, -117.8677, result.Longitude)
	assert.Equal(t, "123 MAIN ST, SANTA ANA, CA, 92701", result.MatchedAddress)
	require.NotNil(t, result.ZipCode)
	assert.Equal(t, "92701", *result.ZipCode)
}

func TestClient_Resolve_ZipFromMatchedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": {
				"addressMatches": [{
					"matchedAddress": "456 OAK AVE, IRVINE, CA, 92618-1234",
					"coordinates": {"x": -117.7384, "y": 33.6695},
					"addressComponents": {}
				}]
			}
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Resolve(context.Background(), "456 Oak Ave, Irvine, CA")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.ZipCode)
	assert.Equal(t, "92618", *result.ZipCode) // +4 suffix dropped
}

func TestClient_Resolve_NoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": {"addressMatches": []}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Resolve(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_Resolve_MissingCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": {
				"addressMatches": [{"matchedAddress": "SOMEWHERE, CA", "coordinates": {}}]
			}
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_Resolve_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Resolve(context.Background(), "123 Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Resolve_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Resolve(context.Background(), "123 Main St")
	require.Error(t, err)
}

func TestClient_Resolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Resolve(context.Background(), "123 Main St")
	require.Error(t, err)
}
