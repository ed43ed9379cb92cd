// Package chunk splits course material text into overlapping word windows
// for embedding and retrieval.
//
// Splitting is whitespace-based: any run of spaces, tabs, or newlines is a
// single separator, so the original formatting of a document is not
// preserved inside chunks. Consecutive chunks share a configurable number
// of words so that sentences falling on a window boundary remain retrievable.
package chunk

import (
	"fmt"
	"strings"
)

// Defaults used by the indexing pipeline.
const (
	DefaultSize    = 500
	DefaultOverlap = 50
)

// Chunker splits text into overlapping word windows.
//
// The zero value is not usable; construct with New so the size/overlap
// relation is checked once instead of on every call.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker.
// size is the maximum number of words per chunk, overlap the number of
// trailing words repeated at the start of the next chunk.
// overlap must be strictly smaller than size, otherwise the window could
// never advance.
func New(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap cannot be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split breaks text into overlapping chunks of whitespace-separated words.
//
// Each chunk holds at most c.size words joined by single spaces. The window
// advances by size-overlap words per step until it passes the last word, so
// consecutive chunks share the last c.overlap words. Text that is empty or
// whitespace-only yields no chunks. Splitting is deterministic: identical
// input and parameters always produce the identical chunk sequence.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for i := 0; i < len(words); i += step {
		end := min(i+c.size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Size returns the configured chunk size in words.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }
