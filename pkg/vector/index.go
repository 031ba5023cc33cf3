// Package vector provides the in-memory vector index used for semantic
// retrieval. Entries are keyed by skill ID and queried by cosine similarity
// with a deterministic tie-break so result ordering is reproducible.
package vector

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDimensionMismatch is returned when an embedding's length does not match
// the index dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Hit is one nearest-neighbor result.
type Hit struct {
	ID         string
	Similarity float64
}

// Index stores one embedding per skill ID. Reads may run concurrently;
// writes take the exclusive lock.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries map[string][]float32
}

// NewIndex creates an index for embeddings of the given dimension.
func NewIndex(dim int) *Index {
	return &Index{
		dim:     dim,
		entries: make(map[string][]float32),
	}
}

// Dimension returns the fixed embedding dimension of the index.
func (idx *Index) Dimension() int {
	return idx.dim
}

// Upsert replaces any existing entry for skillID. The embedding is copied so
// callers may reuse their slice.
func (idx *Index) Upsert(skillID string, embedding []float32) error {
	if len(embedding) != idx.dim {
		return fmt.Errorf("%w: got %d, index dimension %d", ErrDimensionMismatch, len(embedding), idx.dim)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[skillID] = vec
	return nil
}

// Remove deletes the entry for skillID. Removing an absent ID is a no-op.
func (idx *Index) Remove(skillID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, skillID)
}

// Has reports whether skillID has an entry.
func (idx *Index) Has(skillID string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.entries[skillID]
	return ok
}

// Size returns the current entry count.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Query returns up to k entries ranked by cosine similarity to the query
// embedding, descending. Equal similarities are ordered by ascending skill ID.
func (idx *Index) Query(embedding []float32, k int) []Hit {
	if k <= 0 {
		return nil
	}

	idx.mu.RLock()
	hits := make([]Hit, 0, len(idx.entries))
	for id, vec := range idx.entries {
		hits = append(hits, Hit{ID: id, Similarity: CosineSimilarity(embedding, vec)})
	}
	idx.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity == hits[j].Similarity {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
