package snapshot

import (
	"sync"
	"time"
)

// Record is one tracked skill: its last-indexed fingerprint and timestamp.
type Record struct {
	Fingerprint string    `json:"fingerprint"`
	IndexedAt   time.Time `json:"indexed_at"`
}

// Tracker stores the fingerprint each skill had when it was last indexed.
type Tracker interface {
	// HasChanged reports whether the skill needs reindexing: true when the
	// ID is untracked or the fingerprint differs from the stored one.
	HasChanged(skillID, fingerprint string) bool

	// Record stores the fingerprint and indexing timestamp for skillID.
	Record(skillID, fingerprint string, indexedAt time.Time) error

	// Get returns the stored record for skillID, if any.
	Get(skillID string) (Record, bool)

	// Remove drops the record for skillID. Absent IDs are a no-op.
	Remove(skillID string) error

	// StaleIDs returns tracked IDs that are absent from currentIDs. These
	// are deletion candidates for the vector index and graph.
	StaleIDs(currentIDs map[string]struct{}) []string

	// Len returns the number of tracked skills.
	Len() int

	// LastIndexedAt returns the most recent indexing timestamp across all
	// records, or the zero time when nothing is tracked.
	LastIndexedAt() time.Time

	// Close releases any underlying resources.
	Close() error
}

// MemoryTracker is the default Tracker, backed by a map. It is safe for
// concurrent use.
type MemoryTracker struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{records: make(map[string]Record)}
}

func (t *MemoryTracker) HasChanged(skillID, fingerprint string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[skillID]
	return !ok || rec.Fingerprint != fingerprint
}

func (t *MemoryTracker) Record(skillID, fingerprint string, indexedAt time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[skillID] = Record{Fingerprint: fingerprint, IndexedAt: indexedAt}
	return nil
}

func (t *MemoryTracker) Get(skillID string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[skillID]
	return rec, ok
}

func (t *MemoryTracker) Remove(skillID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, skillID)
	return nil
}

func (t *MemoryTracker) StaleIDs(currentIDs map[string]struct{}) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var stale []string
	for id := range t.records {
		if _, ok := currentIDs[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

func (t *MemoryTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

func (t *MemoryTracker) LastIndexedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var latest time.Time
	for _, rec := range t.records {
		if rec.IndexedAt.After(latest) {
			latest = rec.IndexedAt
		}
	}
	return latest
}

func (t *MemoryTracker) Close() error { return nil }
