package match

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricRankTotal           = "match_rank_total"
	MetricRankErrors          = "match_rank_errors_total"
	MetricRankGatedCandidates = "match_rank_gated_candidates_total"
	MetricRankDuration        = "match_rank_duration_seconds"
	MetricRankPoolSize        = "match_rank_pool_size"
)

// Metrics contains Prometheus metrics for the ranking engine.
// All operations are thread-safe.
type Metrics struct {
	rankTotal       prometheus.Counter
	rankErrors      prometheus.Counter
	gatedCandidates prometheus.Counter
	rankDuration    prometheus.Histogram
	poolSize        prometheus.Gauge
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		rankTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankTotal,
			Help: "Total number of ranking operations",
		}),
		rankErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankErrors,
			Help: "Total number of ranking operations that failed",
		}),
		gatedCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankGatedCandidates,
			Help: "Total number of candidates excluded by the trust gate",
		}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of ranking operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRankPoolSize,
			Help: "Candidate pool size of the most recent ranking operation",
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank records one completed ranking pass.
func (m *Metrics) ObserveRank(poolSize, gatedOut int, seconds float64) {
	m.rankTotal.Inc()
	m.gatedCandidates.Add(float64(gatedOut))
	m.rankDuration.Observe(seconds)
	m.poolSize.Set(float64(poolSize))
}

// IncRankErrors increments the rank errors counter.
func (m *Metrics) IncRankErrors() {
	m.rankErrors.Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rankTotal,
		m.rankErrors,
		m.gatedCandidates,
		m.rankDuration,
		m.poolSize,
	}
}
