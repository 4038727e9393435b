// Package metrics holds the prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutine",
		Name:      "record_mutations_total",
		Help:      "Cut record store mutations by operation.",
	}, []string{"op"})

	SlotWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutine",
		Name:      "slot_write_failures_total",
		Help:      "Storage slot writes that failed and were left to the next mutation.",
	}, []string{"key"})

	SlotRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutine",
		Name:      "slot_refreshes_total",
		Help:      "External slot changes applied to in-memory state.",
	}, []string{"key"})

	Reminders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cutine",
		Name:      "reminders_total",
		Help:      "Reminder attempts by status.",
	}, []string{"status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cutine",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
