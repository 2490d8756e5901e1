package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ContentCreated         uint64
	ContentUpdated         uint64
	ContentDeleted         uint64
	DuplicateURLsDetected  uint64
	RealFetches            uint64
	SimulatedFetches       uint64
	RefreshDurationCount   uint64
	RefreshDurationTotalNs int64
	Exports                uint64
	ImportsByMode          map[string]uint64
	StorageFallbacks       map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	contentCreated         uint64
	contentUpdated         uint64
	contentDeleted         uint64
	duplicateURLsDetected  uint64
	realFetches            uint64
	simulatedFetches       uint64
	refreshDurationCount   uint64
	refreshDurationTotalNs int64
	exports                uint64

	mu               sync.Mutex
	importsByMode    map[string]uint64
	storageFallbacks map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		importsByMode:    make(map[string]uint64),
		storageFallbacks: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	imports := make(map[string]uint64, len(m.importsByMode))
	for k, v := range m.importsByMode {
		imports[k] = v
	}
	fallbacks := make(map[string]uint64, len(m.storageFallbacks))
	for k, v := range m.storageFallbacks {
		fallbacks[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		ContentCreated:         atomic.LoadUint64(&m.contentCreated),
		ContentUpdated:         atomic.LoadUint64(&m.contentUpdated),
		ContentDeleted:         atomic.LoadUint64(&m.contentDeleted),
		DuplicateURLsDetected:  atomic.LoadUint64(&m.duplicateURLsDetected),
		RealFetches:            atomic.LoadUint64(&m.realFetches),
		SimulatedFetches:       atomic.LoadUint64(&m.simulatedFetches),
		RefreshDurationCount:   atomic.LoadUint64(&m.refreshDurationCount),
		RefreshDurationTotalNs: atomic.LoadInt64(&m.refreshDurationTotalNs),
		Exports:                atomic.LoadUint64(&m.exports),
		ImportsByMode:          imports,
		StorageFallbacks:       fallbacks,
	}
}

// IncContentCreated increments the content created counter.
func (m *InMemoryRecorder) IncContentCreated() {
	atomic.AddUint64(&m.contentCreated, 1)
}

// IncContentUpdated increments the content updated counter.
func (m *InMemoryRecorder) IncContentUpdated() {
	atomic.AddUint64(&m.contentUpdated, 1)
}

// IncContentDeleted increments the content deleted counter.
func (m *InMemoryRecorder) IncContentDeleted() {
	atomic.AddUint64(&m.contentDeleted, 1)
}

// IncDuplicateURLDetected increments the duplicate URL counter.
func (m *InMemoryRecorder) IncDuplicateURLDetected() {
	atomic.AddUint64(&m.duplicateURLsDetected, 1)
}

// IncEngagementFetch increments the fetch counter for a source.
func (m *InMemoryRecorder) IncEngagementFetch(source string) {
	if source == FetchSourceReal {
		atomic.AddUint64(&m.realFetches, 1)
		return
	}
	atomic.AddUint64(&m.simulatedFetches, 1)
}

// ObserveRefreshDuration records a refresh duration.
func (m *InMemoryRecorder) ObserveRefreshDuration(duration time.Duration) {
	atomic.AddUint64(&m.refreshDurationCount, 1)
	atomic.AddInt64(&m.refreshDurationTotalNs, duration.Nanoseconds())
}

// IncExport increments the export counter.
func (m *InMemoryRecorder) IncExport() {
	atomic.AddUint64(&m.exports, 1)
}

// IncImport increments the import counter for a mode.
func (m *InMemoryRecorder) IncImport(mode string) {
	m.mu.Lock()
	m.importsByMode[mode]++
	m.mu.Unlock()
}

// IncStorageFallback increments the storage fallback counter for an op.
func (m *InMemoryRecorder) IncStorageFallback(op string) {
	m.mu.Lock()
	m.storageFallbacks[op]++
	m.mu.Unlock()
}
