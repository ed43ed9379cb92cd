// Package embed wraps a Genkit embedder with unit normalization.
//
// Retrieval computes cosine similarity as a plain dot product, which is only
// valid when every stored and query vector has length 1. The Gemini embedding
// models do not guarantee unit norm at truncated output widths, so this
// package normalizes every vector before returning it.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"
)

// Dimension is the vector width requested from the embedding model.
// gemini-embedding-001 natively outputs 3072 dimensions but supports
// truncation via OutputDimensionality; 768 keeps storage and scan cost low
// with negligible retrieval quality loss. The pgvector schema must match.
const Dimension int32 = 768

// ErrEmbeddingUnavailable indicates the embedding model could not produce a
// usable vector. Callers must treat this as a hard failure and commit no
// partial state, never substitute a zero vector.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")

// Service converts text into fixed-width unit vectors.
type Service struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates an embedding Service.
func New(embedder ai.Embedder, logger *slog.Logger) (*Service, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{embedder: embedder, logger: logger}, nil
}

// Embed converts a single text into a unit vector of Dimension width.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts texts into unit vectors, preserving input order:
// vectors[i] corresponds to texts[i].
//
// The whole batch fails together. A partial result would let an indexing
// caller commit some chunks of a document and drop others silently.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	docs := make([]*ai.Document, len(texts))
	for i, text := range texts {
		docs[i] = ai.DocumentFromText(text, nil)
	}

	dim := Dimension
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   docs,
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			ErrEmbeddingUnavailable, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		v, err := Normalize(emb.Embedding)
		if err != nil {
			return nil, fmt.Errorf("normalizing embedding %d: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Normalize scales v to unit length, returning a new slice.
// A zero or empty vector cannot be normalized and reports
// ErrEmbeddingUnavailable: it carries no direction, so any similarity
// computed against it would be meaningless.
func Normalize(v []float32) ([]float32, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrEmbeddingUnavailable)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("%w: zero-magnitude vector", ErrEmbeddingUnavailable)
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}
