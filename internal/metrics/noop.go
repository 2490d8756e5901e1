package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncContentCreated is a no-op.
func (n *NoopRecorder) IncContentCreated() {}

// IncContentUpdated is a no-op.
func (n *NoopRecorder) IncContentUpdated() {}

// IncContentDeleted is a no-op.
func (n *NoopRecorder) IncContentDeleted() {}

// IncDuplicateURLDetected is a no-op.
func (n *NoopRecorder) IncDuplicateURLDetected() {}

// IncEngagementFetch is a no-op.
func (n *NoopRecorder) IncEngagementFetch(source string) {}

// ObserveRefreshDuration is a no-op.
func (n *NoopRecorder) ObserveRefreshDuration(duration time.Duration) {}

// IncExport is a no-op.
func (n *NoopRecorder) IncExport() {}

// IncImport is a no-op.
func (n *NoopRecorder) IncImport(mode string) {}

// IncStorageFallback is a no-op.
func (n *NoopRecorder) IncStorageFallback(op string) {}
