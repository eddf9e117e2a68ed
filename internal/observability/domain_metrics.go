package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_translation_requests_total",
			Help: "Total number of assistant translation requests by outcome.",
		},
		[]string{"outcome"},
	)
	translationLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finboard_translation_latency_ms",
			Help:    "Completion service round-trip latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
	)
	storeFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_store_fetches_total",
			Help: "Total number of row store fetches by table and outcome.",
		},
		[]string{"table", "outcome"},
	)
	storeRowsFetched = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finboard_store_rows_fetched",
			Help:    "Rows returned per store fetch.",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2000},
		},
	)
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_exports_total",
			Help: "Total number of CSV exports by table.",
		},
		[]string{"table"},
	)
	exportArchivesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_export_archives_total",
			Help: "Total number of export snapshots archived to object storage by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		translationRequestsTotal,
		translationLatencyMs,
		storeFetchesTotal,
		storeRowsFetched,
		exportsTotal,
		exportArchivesTotal,
	)
}

func ObserveTranslation(outcome string, elapsed time.Duration) {
	translationRequestsTotal.WithLabelValues(outcome).Inc()
	translationLatencyMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveStoreFetch(table string, ok bool, rows int) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	storeFetchesTotal.WithLabelValues(table, outcome).Inc()
	storeRowsFetched.Observe(float64(rows))
}

func ObserveExport(table string) {
	exportsTotal.WithLabelValues(table).Inc()
}

func ObserveExportArchive(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	exportArchivesTotal.WithLabelValues(outcome).Inc()
}
