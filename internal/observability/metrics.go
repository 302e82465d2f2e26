// Package observability exposes Prometheus collectors for the tracker.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calories",
		Subsystem: "tracker",
		Name:      "transitions_total",
		Help:      "State transitions applied, by kind.",
	}, []string{"kind"})
	activitiesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "calories",
		Subsystem: "tracker",
		Name:      "activities",
		Help:      "Number of activities currently recorded.",
	})
	netCaloriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "calories",
		Subsystem: "tracker",
		Name:      "net_kcal",
		Help:      "Calories consumed minus calories burned.",
	})
	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "calories",
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Failed writes of the activity list to the key/value store.",
	})
	hydrateFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "calories",
		Subsystem: "persistence",
		Name:      "hydrate_fallbacks_total",
		Help:      "Startups that discarded unreadable or malformed persisted data.",
	})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "calories",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of API requests by method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

func init() {
	prometheus.MustRegister(transitionsTotal, activitiesGauge, netCaloriesGauge, persistFailures, hydrateFallbacks, httpDuration)
}

// RecordTransition counts an applied transition.
func RecordTransition(kind string) {
	transitionsTotal.WithLabelValues(kind).Inc()
}

// RecordState publishes the size and net balance of the current snapshot.
func RecordState(count int, net float64) {
	activitiesGauge.Set(float64(count))
	netCaloriesGauge.Set(net)
}

// RecordPersistFailure counts a failed write to durable storage.
func RecordPersistFailure() {
	persistFailures.Inc()
}

// RecordHydrateFallback counts a startup that fell back to an empty list.
func RecordHydrateFallback() {
	hydrateFallbacks.Inc()
}

// ObserveRequest records the latency of a served request.
func ObserveRequest(method string, code int, d time.Duration) {
	httpDuration.WithLabelValues(method, strconv.Itoa(code)).Observe(d.Seconds())
}
