package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mentorai/mentor/internal/vecstore"
)

// DefaultTopK is the number of chunks retrieved per question.
// Three chunks of up to 500 words comfortably fit the grounded-answer
// prompt while keeping the model focused on the most relevant material.
const DefaultTopK = 3

// Retriever finds the stored chunks most similar to a question.
type Retriever struct {
	embedder Embedder
	index    vecstore.Index
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a Retriever. topK <= 0 falls back to DefaultTopK.
func NewRetriever(embedder Embedder, index vecstore.Index, topK int, logger *slog.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embedder: embedder, index: index, topK: topK, logger: logger}, nil
}

// Retrieve embeds the query and returns the top chunks in scope, highest
// similarity first. An empty result means no materials exist for the scope
// (or none at all); callers treat that as a normal case, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, scope vecstore.Scope) ([]vecstore.Result, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.index.Query(ctx, vector, scope, r.topK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	r.logger.Debug("retrieved chunks",
		"user_id", scope.UserID,
		"course_id", scope.CourseID,
		"results", len(results))

	return results, nil
}
