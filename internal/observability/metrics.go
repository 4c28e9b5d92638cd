package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the scoring core
// and its provider adapters.
type Metrics struct {
	RiskRequests *prometheus.CounterVec // labels: branch={rule,census,zip_hash,geo_hash,default}

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec   // labels: provider={census,nominatim}, outcome={success,empty,error}
	GeocodeDuration *prometheus.HistogramVec // labels: provider={census,nominatim}

	// ACS5 census lookup metrics.
	CensusLookups *prometheus.CounterVec // labels: outcome={success,empty,error}
	CensusCache   *prometheus.CounterVec // labels: result={hit,miss}

	// Alert subscription metrics.
	Subscriptions *prometheus.CounterVec // labels: outcome={saved,rejected}
	AlertSends    *prometheus.CounterVec // labels: channel={sms,email}, outcome={sent,failed}

	ListingsIngested prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RiskRequests,
		m.GeocodeRequests,
		m.GeocodeDuration,
		m.CensusLookups,
		m.CensusCache,
		m.Subscriptions,
		m.AlertSends,
		m.ListingsIngested,
	)

	return m
}

// NewMetricsForTesting creates Metrics with no registration to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RiskRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "risk_requests_total",
			Help:      "Risk score computations by scoring branch.",
		}, []string{"branch"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "first_mover",
			Name:      "geocode_request_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		CensusLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "census_lookups_total",
			Help:      "ACS5 lookups by outcome.",
		}, []string{"outcome"}),
		CensusCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "census_cache_total",
			Help:      "ACS5 cache lookups by result.",
		}, []string{"result"}),
		Subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "alert_subscriptions_total",
			Help:      "Alert subscription attempts by outcome.",
		}, []string{"outcome"}),
		AlertSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "alert_sends_total",
			Help:      "Confirmation deliveries by channel and outcome.",
		}, []string{"channel", "outcome"}),
		ListingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "first_mover",
			Name:      "listings_ingested_total",
			Help:      "Listings accepted through the ingest endpoint.",
		}),
	}
}
