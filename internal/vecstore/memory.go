package vecstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryIndex is an in-process Index backed by a slice.
//
// It serves tests and single-process development runs. Insertion order is
// the slice order, which makes the tie-break rule trivial to honor.
type MemoryIndex struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Insert appends a record.
func (m *MemoryIndex) Insert(ctx context.Context, rec Record) error {
	if !rec.Scope.Valid() {
		return fmt.Errorf("%w: userID and courseID are required", ErrInvalidScope)
	}
	if len(rec.Vector) == 0 {
		return fmt.Errorf("record vector is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

// Query scans all records in scope and returns the top k by similarity.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, scope Scope, k int) ([]Result, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: userID and courseID are required", ErrInvalidScope)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var inScope []Record
	for _, rec := range m.records {
		if rec.Scope == scope {
			inScope = append(inScope, rec)
		}
	}

	return topK(vector, inScope, k)
}

// Len returns the total number of stored records across all scopes.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// topK ranks records by descending cosine similarity to vector and returns
// at most k results. records must already be in insertion order; the stable
// sort preserves that order among equal similarities.
func topK(vector []float32, records []Record, k int) ([]Result, error) {
	if k <= 0 || len(records) == 0 {
		return nil, nil
	}

	type scored struct {
		rec Record
		sim float64
	}

	ranked := make([]scored, 0, len(records))
	for _, rec := range records {
		sim, err := CosineSimilarity(vector, rec.Vector)
		if err != nil {
			return nil, fmt.Errorf("scoring record %s: %w", rec.ID, err)
		}
		ranked = append(ranked, scored{rec: rec, sim: sim})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sim > ranked[j].sim
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	results := make([]Result, k)
	for i := range results {
		results[i] = Result{
			Text:        ranked[i].rec.Text,
			Similarity:  ranked[i].sim,
			SourceLabel: ranked[i].rec.SourceLabel,
		}
	}
	return results, nil
}
