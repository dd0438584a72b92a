// Package metrics provides Prometheus metrics for report runs and provider
// fetches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusRejected = "rejected"
	StatusCanceled = "canceled"
)

var (
	// Registry holds every fxreport metric.
	Registry = prometheus.NewRegistry()

	// ProviderFetchTotal counts provider fetches by outcome.
	ProviderFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxreport_provider_fetch_total",
			Help: "Total number of rate fetches per provider and outcome",
		},
		[]string{"provider", "status"},
	)

	// ProviderFetchDuration is a histogram of provider fetch latency.
	ProviderFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fxreport_provider_fetch_duration_seconds",
			Help:    "Duration of rate fetches per provider",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// ReportRowsTotal counts rows written to report targets.
	ReportRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxreport_report_rows_total",
			Help: "Total number of report rows written",
		},
	)

	// RunsTotal counts report runs by final status.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxreport_runs_total",
			Help: "Total number of report runs by final status",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		ProviderFetchTotal,
		ProviderFetchDuration,
		ReportRowsTotal,
		RunsTotal,
	)
}

// Handler serves the fxreport registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// NewServer returns a server exposing /metrics on addr. The caller starts
// and shuts it down.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// RecordFetch records one provider fetch.
func RecordFetch(provider string, ok bool, duration time.Duration) {
	status := StatusOK
	if !ok {
		status = StatusFailed
	}
	ProviderFetchTotal.WithLabelValues(provider, status).Inc()
	ProviderFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRow records a written report row.
func RecordRow() {
	ReportRowsTotal.Inc()
}

// RecordRun records the outcome of a run; status is one of the Status
// constants.
func RecordRun(status string) {
	RunsTotal.WithLabelValues(status).Inc()
}
