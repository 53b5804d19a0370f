package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the converter's Prometheus metrics. Reconciliation
// fallbacks never fail a parse, so the counter here is the only place
// silent mis-signing becomes visible; scrape it.
type Metrics struct {
	// Registry owns these metrics. Exposed so the /metrics endpoint can
	// serve it.
	Registry *prometheus.Registry

	parsesTotal       *prometheus.CounterVec
	transactionsTotal prometheus.Counter
	reconFailures     prometheus.Counter
	parseDuration     prometheus.Histogram
}

// NewMetrics creates a dedicated registry and registers all converter
// metrics in it. A private registry avoids "duplicate collector" panics
// when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		parsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "converter_parses_total",
				Help: "Total statement parses by status.",
			},
			[]string{"status"},
		),
		transactionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "converter_transactions_total",
				Help: "Total transactions extracted.",
			},
		),
		reconFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "converter_reconciliation_failures_total",
				Help: "Single-amount records whose balance delta reconciled under neither sign.",
			},
		),
		parseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "converter_parse_duration_seconds",
				Help:    "Duration of extract+parse per document.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// IncrParse increments the parse counter with a status label.
func (m *Metrics) IncrParse(status string) {
	m.parsesTotal.WithLabelValues(status).Inc()
}

// AddTransactions records how many transactions a parse produced.
func (m *Metrics) AddTransactions(n int) {
	m.transactionsTotal.Add(float64(n))
}

// AddReconciliationFailures records withdrawal-default fallbacks.
func (m *Metrics) AddReconciliationFailures(n int) {
	m.reconFailures.Add(float64(n))
}

// ObserveParseDuration records the duration of one document conversion.
func (m *Metrics) ObserveParseDuration(d time.Duration) {
	m.parseDuration.Observe(d.Seconds())
}
