package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shazow/wifisnap/wifi"
)

var (
	// Extractions counts credential extractions by source (qr, text, image)
	// and outcome (ok, or the failure kind).
	Extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifisnap",
			Name:      "extractions_total",
			Help:      "Total number of credential extractions",
		},
		[]string{"source", "outcome"},
	)

	// MatchCandidates observes how many networks cleared the match threshold.
	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wifisnap",
			Name:      "match_candidates",
			Help:      "Number of candidate networks per match",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	// ScanFailures counts scans that failed, leaving the SSID unverified.
	ScanFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifisnap",
			Name:      "scan_failures_total",
			Help:      "Total number of failed network scans",
		},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifisnap",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP API requests",
		},
		[]string{"route", "code"},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// It is safe to call more than once.
func InitMetrics() {
	once.Do(func() {
		// Errors mean the collector is already registered.
		prometheus.DefaultRegisterer.Register(Extractions)
		prometheus.DefaultRegisterer.Register(MatchCandidates)
		prometheus.DefaultRegisterer.Register(ScanFailures)
		prometheus.DefaultRegisterer.Register(HTTPRequests)
	})
}

// Outcome is the outcome label for err.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := wifi.Kind(err); kind != "" {
		return kind
	}
	return "error"
}
