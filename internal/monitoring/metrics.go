package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CatalogQueriesTotal counts catalog queries by operation and status.
	CatalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeaudio_catalog_queries_total",
			Help: "Total number of catalog queries",
		},
		[]string{"op", "status"},
	)

	// InstanceProbesTotal counts backend instance probes by status.
	InstanceProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeaudio_instance_probes_total",
			Help: "Total number of catalog instance probes",
		},
		[]string{"status"},
	)

	// DownloadsTotal counts finished download jobs by outcome.
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeaudio_downloads_total",
			Help: "Total number of finished download jobs",
		},
		[]string{"outcome"},
	)

	// DownloadDuration tracks the time spent in the external tool.
	DownloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tubeaudio_download_duration_seconds",
			Help:    "Download duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17min
		},
	)

	// ActiveDownloads tracks jobs currently running.
	ActiveDownloads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubeaudio_active_downloads",
			Help: "Number of active download jobs",
		},
	)

	// PostProcessFailuresTotal counts swallowed post-processing failures by stage.
	PostProcessFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeaudio_postprocess_failures_total",
			Help: "Total number of best-effort post-processing failures",
		},
		[]string{"stage"},
	)
)

// RecordCatalogQuery records a catalog query outcome.
func RecordCatalogQuery(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CatalogQueriesTotal.WithLabelValues(op, status).Inc()
}

// RecordInstanceProbe records a backend instance probe outcome.
func RecordInstanceProbe(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	InstanceProbesTotal.WithLabelValues(status).Inc()
}

// RecordDownloadStart marks a job as running.
func RecordDownloadStart() {
	ActiveDownloads.Inc()
}

// RecordDownloadFinished records the outcome and tool duration of a job.
func RecordDownloadFinished(outcome string, duration time.Duration) {
	ActiveDownloads.Dec()
	DownloadsTotal.WithLabelValues(outcome).Inc()
	DownloadDuration.Observe(duration.Seconds())
}

// RecordPostProcessFailure records a swallowed tagging, lyrics, playlist or
// history failure.
func RecordPostProcessFailure(stage string) {
	PostProcessFailuresTotal.WithLabelValues(stage).Inc()
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
