// Package store persists chunk records and their vectors. SQLite holds the
// chunk metadata and text; an HNSW graph holds the vectors for approximate
// nearest-neighbor search. The two are kept consistent by the Store wrapper.
package store

import (
	"fmt"
	"time"
)

// ChunkRecord is a stored chunk with its retrieval metadata.
type ChunkRecord struct {
	// ID is the store key, "<documentID>_<chunkNum>".
	ID string

	// DocumentID identifies the source document (sha256 of source, truncated).
	DocumentID string

	// Source is the original file path or name.
	Source string

	// Page is the 1-based page number, or 0 when the source has no pages.
	Page int

	// ChunkNum is the 0-based position of the chunk within its document.
	ChunkNum int

	// Model is the embedding model that produced the chunk's vector.
	Model string

	// CreatedAt is the indexing timestamp.
	CreatedAt time.Time

	// Text is the normalized chunk text.
	Text string
}

// RecordID builds the store key for a chunk of a document.
func RecordID(documentID string, chunkNum int) string {
	return fmt.Sprintf("%s_%d", documentID, chunkNum)
}

// QueryResult pairs a chunk record with its cosine distance from a query.
type QueryResult struct {
	Record   ChunkRecord
	Distance float32
}

// VectorConfig configures the HNSW vector index.
type VectorConfig struct {
	// Dimensions is the vector dimension. Zero means adopt the dimension of
	// the first vector added.
	Dimensions int

	// M is the maximum number of graph connections per node.
	M int

	// EfSearch is the search beam width.
	EfSearch int
}

// ErrDimensionMismatch is returned when a vector's dimension does not match
// the index.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
