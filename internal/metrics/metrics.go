package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cachedTabsDesc = prometheus.NewDesc(
		"toxshield_cached_tabs",
		"Number of tabs with a cached analysis result",
		nil,
		nil,
	)

	analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxshield_analyses_total",
		Help: "Total analyses by outcome",
	}, []string{"outcome"})

	attemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxshield_classifier_attempts_total",
		Help: "Total classifier attempts by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "toxshield_analysis_duration_seconds",
		Help:    "Analysis duration including fallback attempts",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	})

	messagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxshield_messages_total",
		Help: "Total routed messages by type and outcome",
	}, []string{"type", "outcome"})
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Sizer reports how many tabs currently hold a cached result.
type Sizer interface {
	Len() int
}

// CacheCollector is a custom Prometheus collector that reads the cache size
// on each scrape.
type CacheCollector struct {
	cache Sizer
}

// Describe sends the metric descriptor to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cachedTabsDesc
}

// Collect emits the current cache size as a gauge.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		cachedTabsDesc,
		prometheus.GaugeValue,
		float64(c.cache.Len()),
	)
}

var initOnce sync.Once

// Init registers the instruments and the cache collector with the default
// registry. Must be called once at startup; later calls are no-ops.
func Init(cache Sizer) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			analysesTotal,
			attemptsTotal,
			analysisDuration,
			messagesTotal,
			&CacheCollector{cache: cache},
		)
	})
}

// RecordAnalysis records the outcome and duration of one analysis.
func RecordAnalysis(success bool, elapsed time.Duration) {
	analysesTotal.WithLabelValues(outcome(success)).Inc()
	analysisDuration.Observe(elapsed.Seconds())
}

// RecordAttempt records one classifier attempt against endpoint.
func RecordAttempt(endpoint string, success bool) {
	attemptsTotal.WithLabelValues(endpoint, outcome(success)).Inc()
}

// RecordMessage records one routed message.
func RecordMessage(msgType string, success bool) {
	messagesTotal.WithLabelValues(msgType, outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
