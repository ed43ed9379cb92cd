// Package vecstore stores embedded study-material chunks and answers
// similarity queries over them.
//
// Every record carries a (userID, courseID) scope. A query sees only records
// whose scope equals the requested scope, never anything else. The search is
// a deliberate brute-force scan: all records in scope are compared against
// the query vector and the top k kept. At the data volumes a single
// student's course materials reach, correctness and simplicity beat an
// approximate index.
package vecstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDimensionMismatch indicates vectors of different widths were
	// compared. Comparing them would silently produce garbage similarity
	// scores, so the operation fails instead.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidScope indicates a record or query without a complete
	// (userID, courseID) scope. Unscoped access could leak another user's
	// materials, so it is rejected outright.
	ErrInvalidScope = errors.New("invalid scope")
)

// Scope identifies whose records a query may see.
// Both fields are mandatory on every insert and every query.
type Scope struct {
	UserID   string
	CourseID string
}

// Valid reports whether both scope components are set.
func (s Scope) Valid() bool {
	return s.UserID != "" && s.CourseID != ""
}

// Record is one embedded chunk of study material.
// Records are append-only: created once by the indexing pipeline and never
// mutated afterwards.
type Record struct {
	ID          string
	Vector      []float32
	Text        string
	SourceLabel string
	Scope       Scope
	CreatedAt   time.Time
}

// Result is one retrieval hit.
type Result struct {
	Text        string
	Similarity  float64
	SourceLabel string
}

// Index is the storage contract consumed by the indexing and retrieval
// pipelines. Implementations must be safe for concurrent use.
type Index interface {
	// Insert appends a record. Duplicate text content is allowed; the
	// index enforces no uniqueness. Idempotence of re-indexing is the
	// caller's concern.
	Insert(ctx context.Context, rec Record) error

	// Query returns the top k records in scope by descending cosine
	// similarity to vector, ties broken by insertion order (earlier
	// wins). An empty scope set yields an empty result, not an error.
	Query(ctx context.Context, vector []float32, scope Scope, k int) ([]Result, error)
}

// CosineSimilarity computes the cosine similarity of two unit vectors as
// their dot product. The embedding layer guarantees unit norm, so no
// magnitude division is needed here. Mismatched widths are an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot, nil
}
