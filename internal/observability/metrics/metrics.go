// Package metrics exposes the Prometheus instruments for the billing
// service: HTTP traffic, billing runs, feed ingestion and snapshot health.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	billingRuns    prometheus.Counter
	invoicesIssued prometheus.Counter
	feedRecords    prometheus.Counter
	flushFailures  prometheus.Counter
}

// New registers the instruments on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the instruments on the given registerer.
// Tests pass a private registry to avoid duplicate registration panics.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturacloud_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facturacloud_http_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	billingRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facturacloud_billing_runs_total",
		Help: "Completed billing runs.",
	})

	invoicesIssued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facturacloud_invoices_issued_total",
		Help: "Invoices generated by billing runs.",
	})

	feedRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facturacloud_consumption_records_total",
		Help: "Consumption records accepted from usage feeds.",
	})

	flushFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facturacloud_snapshot_flush_failures_total",
		Help: "Snapshot writes that failed after an in-memory commit.",
	})

	registerer.MustRegister(
		httpRequests,
		httpDuration,
		billingRuns,
		invoicesIssued,
		feedRecords,
		flushFailures,
	)

	return &Metrics{
		httpRequests:   httpRequests,
		httpDuration:   httpDuration,
		billingRuns:    billingRuns,
		invoicesIssued: invoicesIssued,
		feedRecords:    feedRecords,
		flushFailures:  flushFailures,
	}
}

// ObserveHTTP records one handled request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RunCompleted implements the billing engine's run observer.
func (m *Metrics) RunCompleted(invoices int) {
	if m == nil {
		return
	}
	m.billingRuns.Inc()
	m.invoicesIssued.Add(float64(invoices))
}

// RecordsIngested counts accepted usage feed records.
func (m *Metrics) RecordsIngested(n int) {
	if m == nil {
		return
	}
	m.feedRecords.Add(float64(n))
}

// FlushFailed implements the store's flush observer.
func (m *Metrics) FlushFailed() {
	if m == nil {
		return
	}
	m.flushFailures.Inc()
}
