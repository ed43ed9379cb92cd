package vecstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const insertChunkSQL = `INSERT INTO study_chunks (id, user_id, course_id, source_label, content, embedding, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// selectScopeSQL fetches every chunk in scope in insertion order. The
// position column is a BIGSERIAL, so the order is exact even when rows
// share a created_at tick. Similarity is computed in-process rather than
// in SQL so that ranking and tie-break behavior is identical between this
// index and MemoryIndex.
const selectScopeSQL = `SELECT id, content, source_label, embedding
	FROM study_chunks
	WHERE user_id = $1 AND course_id = $2
	ORDER BY position`

// PostgresIndex is an Index backed by PostgreSQL + pgvector.
//
// PostgresIndex is safe for concurrent use by multiple goroutines.
type PostgresIndex struct {
	q      querier
	logger *slog.Logger
}

// NewPostgresIndex creates a PostgresIndex on the given pool.
func NewPostgresIndex(pool *pgxpool.Pool, logger *slog.Logger) (*PostgresIndex, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresIndex{q: pool, logger: logger}, nil
}

// newPostgresIndexWithQuerier allows tests to substitute a mock querier.
func newPostgresIndexWithQuerier(q querier, logger *slog.Logger) *PostgresIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresIndex{q: q, logger: logger}
}

// Insert appends a record. A missing ID is filled with a fresh UUID.
func (p *PostgresIndex) Insert(ctx context.Context, rec Record) error {
	if !rec.Scope.Valid() {
		return fmt.Errorf("%w: userID and courseID are required", ErrInvalidScope)
	}
	if len(rec.Vector) == 0 {
		return fmt.Errorf("record vector is empty")
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := p.q.Exec(ctx, insertChunkSQL,
		id,
		rec.Scope.UserID,
		rec.Scope.CourseID,
		rec.SourceLabel,
		rec.Text,
		pgvector.NewVector(rec.Vector),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// Query loads all chunks in scope and ranks them in-process.
func (p *PostgresIndex) Query(ctx context.Context, vector []float32, scope Scope, k int) ([]Result, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: userID and courseID are required", ErrInvalidScope)
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := p.q.Query(ctx, selectScopeSQL, scope.UserID, scope.CourseID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec Record
			vec pgvector.Vector
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.SourceLabel, &vec); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		rec.Vector = vec.Slice()
		rec.Scope = scope
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	p.logger.Debug("scanned scope for similarity search",
		"user_id", scope.UserID,
		"course_id", scope.CourseID,
		"records", len(records))

	return topK(vector, records, k)
}
