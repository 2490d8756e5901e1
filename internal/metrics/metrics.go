// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Fetch source labels.
const (
	FetchSourceReal      = "real"
	FetchSourceSimulated = "simulated"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Content management metrics
	IncContentCreated()
	IncContentUpdated()
	IncContentDeleted()
	IncDuplicateURLDetected()

	// Engagement fetch metrics
	IncEngagementFetch(source string) // source: "real" or "simulated"
	ObserveRefreshDuration(duration time.Duration)

	// Import/export metrics
	IncExport()
	IncImport(mode string) // mode: "replace" or "merge"

	// Storage metrics
	IncStorageFallback(op string) // op: "save" or "load"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
