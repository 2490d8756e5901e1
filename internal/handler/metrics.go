package handler

import (
	"fmt"
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "pulsetrack_content_created_total %d\n", snap.ContentCreated)
	writeMetric(w, "pulsetrack_content_updated_total %d\n", snap.ContentUpdated)
	writeMetric(w, "pulsetrack_content_deleted_total %d\n", snap.ContentDeleted)
	writeMetric(w, "pulsetrack_duplicate_urls_detected_total %d\n", snap.DuplicateURLsDetected)

	writeMetric(w, "pulsetrack_engagement_fetches_total{source=\"real\"} %d\n", snap.RealFetches)
	writeMetric(w, "pulsetrack_engagement_fetches_total{source=\"simulated\"} %d\n", snap.SimulatedFetches)
	writeMetric(w, "pulsetrack_refresh_duration_seconds_count %d\n", snap.RefreshDurationCount)
	writeMetric(w, "pulsetrack_refresh_duration_seconds_sum %.6f\n", float64(snap.RefreshDurationTotalNs)/1e9)

	writeMetric(w, "pulsetrack_exports_total %d\n", snap.Exports)
	for _, mode := range []string{"replace", "merge"} {
		writeMetric(w, "pulsetrack_imports_total{mode=%q} %d\n", mode, snap.ImportsByMode[mode])
	}
	for _, op := range []string{"save", "load"} {
		writeMetric(w, "pulsetrack_storage_fallbacks_total{op=%q} %d\n", op, snap.StorageFallbacks[op])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
