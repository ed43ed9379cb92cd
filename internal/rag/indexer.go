package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorai/mentor/internal/vecstore"
)

// Chunker splits document text into retrieval-sized pieces.
// Satisfied by *chunk.Chunker.
type Chunker interface {
	Split(text string) []string
}

// Embedder converts text into unit vectors.
// Satisfied by *embed.Service. Defined here, by the consumer, so the
// pipeline can be tested without a real embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is the raw input to indexing. It is ephemeral: once chunked and
// stored, the original document is not retained.
type Document struct {
	Text        string
	UserID      string
	CourseID    string
	SourceLabel string
}

// Indexer turns uploaded documents into vector records.
type Indexer struct {
	chunker  Chunker
	embedder Embedder
	index    vecstore.Index
	logger   *slog.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(chunker Chunker, embedder Embedder, index vecstore.Index, logger *slog.Logger) (*Indexer, error) {
	if chunker == nil {
		return nil, fmt.Errorf("chunker is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{chunker: chunker, embedder: embedder, index: index, logger: logger}, nil
}

// Index chunks, embeds, and stores a document, returning the inserted
// records in chunk order.
//
// A document whose text yields no chunks (empty or whitespace-only) indexes
// successfully with zero records: nothing to index is a legitimate terminal
// state, not a failure. Embedding is all-or-nothing per document: if the
// batch fails, no records are committed.
func (ix *Indexer) Index(ctx context.Context, doc Document) ([]vecstore.Record, error) {
	scope := vecstore.Scope{UserID: doc.UserID, CourseID: doc.CourseID}
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: userID and courseID are required", vecstore.ErrInvalidScope)
	}

	chunks := ix.chunker.Split(doc.Text)
	if len(chunks) == 0 {
		ix.logger.Info("document produced no chunks, nothing to index",
			"user_id", doc.UserID,
			"course_id", doc.CourseID,
			"source", doc.SourceLabel)
		return nil, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	now := time.Now()
	records := make([]vecstore.Record, len(chunks))
	for i, text := range chunks {
		records[i] = vecstore.Record{
			ID:          uuid.NewString(),
			Vector:      vectors[i],
			Text:        text,
			SourceLabel: doc.SourceLabel,
			Scope:       scope,
			CreatedAt:   now,
		}
	}

	for i, rec := range records {
		if err := ix.index.Insert(ctx, rec); err != nil {
			return nil, fmt.Errorf("inserting chunk %d of %d: %w", i+1, len(records), err)
		}
	}

	ix.logger.Info("indexed document",
		"user_id", doc.UserID,
		"course_id", doc.CourseID,
		"source", doc.SourceLabel,
		"chunks", len(records))

	return records, nil
}
