package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstmover/alert-api/internal/alerts"
	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/listings"
	"github.com/firstmover/alert-api/internal/observability"
	"github.com/firstmover/alert-api/internal/risk"
)

type stubGeocoder struct {
	result *domain.GeocodeResult
}

func (g *stubGeocoder) Resolve(_ context.Context, _ string) (*domain.GeocodeResult, error) {
	return g.result, nil
}

type nilCensus struct{}

func (nilCensus) FetchAreaStats(_ context.Context, _ string) (*domain.AreaStats, error) {
	return nil, nil
}

type memListingStore struct {
	rows []domain.Listing
}

func (m *memListingStore) SaveListing(_ context.Context, l domain.Listing) error {
	m.rows = append(m.rows, l)
	return nil
}

func (m *memListingStore) Listings(_ context.Context) ([]domain.Listing, error) {
	return m.rows, nil
}

type memSubscriberStore struct {
	saved []domain.Subscriber
}

func (m *memSubscriberStore) SaveSubscriber(_ context.Context, sub domain.Subscriber) (domain.Subscriber, error) {
	sub.ID = uint(len(m.saved) + 1)
	m.saved = append(m.saved, sub)
	return sub, nil
}

type okSender struct{}

func (okSender) Send(_ context.Context, _, _ string) error { return nil }

type okEmailSender struct{}

func (okEmailSender) Send(_ context.Context, _, _, _ string) error { return nil }

type passthroughExplainer struct{}

func (passthroughExplainer) Rewrite(_ context.Context, _ []string, _ int, _, fallback, _ string) string {
	return fallback
}

type stubCounselors struct {
	result []domain.Counselor
}

func (s *stubCounselors) Counselors(_ context.Context, _, _ string, _ int) []domain.Counselor {
	return s.result
}

type stubStats struct {
	subscribers int64
	ingested    int64
}

func (s *stubStats) CountSubscribers(_ context.Context) (int64, error) { return s.subscribers, nil }
func (s *stubStats) CountListings(_ context.Context) (int64, error)    { return s.ingested, nil }

type serverFixture struct {
	server *Server
	engine *risk.Engine
}

func newFixture(t *testing.T, geo *stubGeocoder) *serverFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	rules := risk.NewRulesStore(filepath.Join(t.TempDir(), "risk_rules.json"), logger)
	engine := risk.NewEngine(rules, geo, nilCensus{}, metrics, logger)

	alertSvc := alerts.NewService(&memSubscriberStore{}, okSender{}, okEmailSender{}, metrics, logger)
	listingSvc := listings.NewService(&memListingStore{}, engine, geo,
		filepath.Join(t.TempDir(), "mock_listings.json"), 4, metrics, logger)

	server := NewServer(":0", engine, rules, passthroughExplainer{}, alertSvc, listingSvc,
		&stubCounselors{result: []domain.Counselor{{Name: "OC Housing Help", City: "Santa Ana", State: "CA"}}},
		&stubStats{subscribers: 3, ingested: 1}, logger)

	return &serverFixture{server: server, engine: engine}
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoot(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "First-Mover Alert API")
}

func TestRiskScore(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/risk/score", `{"zip_code": "92618"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.RiskProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	want := f.engine.ComputeRisk(context.Background(), "", "92618")
	assert.Equal(t, want, got)
	require.NotNil(t, got.ResolvedZip)
	assert.Equal(t, "92618", *got.ResolvedZip)
}

func TestRiskScoreRequiresInput(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/risk/score", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskMap(t *testing.T) {
	zip := "92618"
	f := newFixture(t, &stubGeocoder{result: &domain.GeocodeResult{
		Query:     "Irvine, CA",
		Latitude:  33.6846,
		Longitude: -117.8265,
		ZipCode:   &zip,
	}})

	rec := doJSON(t, f.server, http.MethodGet, "/risk/map?q=Irvine%2C+CA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view listings.MapView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 33.6846, view.Latitude)
	assert.Len(t, view.Markers, 4)
}

func TestRiskMapNotFound(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/risk/map?q=nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestThenList(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/listings/ingest",
		`{"address": "3 Oak Ave, Anaheim, CA 92801", "price": 725000, "source": "mls"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var ingest struct {
		OK      bool           `json:"ok"`
		Listing domain.Listing `json:"listing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingest))
	assert.True(t, ingest.OK)
	assert.NotEmpty(t, ingest.Listing.ID)

	rec = doJSON(t, f.server, http.MethodGet, "/listings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Listings []domain.AnnotatedListing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Listings, 1)
	assert.Equal(t, ingest.Listing.ID, list.Listings[0].ID)
	assert.NotEmpty(t, list.Listings[0].Risk.Label)
}

func TestIngestRejectsMissingAddress(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/listings/ingest", `{"price": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/alerts/subscribe",
		`{"email": "user@example.com", "phone": "(714) 555-0100", "zip_code": "92618"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true, "message": "Subscription confirmed via SMS + email."}`, rec.Body.String())
}

func TestSubscribeRejectsEmptyContact(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodPost, "/alerts/subscribe", `{"zip_code": "92618"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistance(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/assistance?city=Santa+Ana&state=CA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Programs []domain.Counselor `json:"programs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Programs, 1)
	assert.Equal(t, "OC Housing Help", resp.Programs[0].Name)
}

func TestStats(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alert_subscribers": 3, "zctas_covered": 0, "ingested_listings": 1}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, &stubGeocoder{})

	rec := doJSON(t, f.server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
