package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// File names inside the store directory.
const (
	dbFileName     = "eixoai.db"
	vectorFileName = "vectors.hnsw"
	lockFileName   = ".lock"
)

// Store is the combined chunk store: SQLite for records, HNSW for vectors.
// A file lock on the store directory prevents concurrent writers from
// different processes.
type Store struct {
	dir     string
	records *RecordStore
	vectors *VectorIndex
	lock    *flock.Flock
	logger  *slog.Logger
}

// Open opens the store in dir, creating it if needed. The vector index is
// loaded from disk when a previous Save left one.
func Open(dir string, cfg VectorConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eixoerrors.StoreError("failed to create store directory", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, eixoerrors.StoreError("failed to acquire store lock", err)
	}
	if !locked {
		return nil, eixoerrors.StoreError("store is locked by another process", nil).
			WithSuggestion("close the other eixoai process or use a different store path")
	}

	records, err := OpenRecordStore(filepath.Join(dir, dbFileName))
	if err != nil {
		lock.Unlock()
		return nil, eixoerrors.StoreError("failed to open chunk database", err)
	}

	vectors := NewVectorIndex(cfg)
	vectorPath := filepath.Join(dir, vectorFileName)
	if _, statErr := os.Stat(vectorPath); statErr == nil {
		if err := vectors.Load(vectorPath); err != nil {
			records.Close()
			lock.Unlock()
			return nil, eixoerrors.StoreError("failed to load vector index", err).
				WithSuggestion("delete the store directory and re-index if the index is corrupt")
		}
	}

	return &Store{
		dir:     dir,
		records: records,
		vectors: vectors,
		lock:    lock,
		logger:  logger.With("component", "store"),
	}, nil
}

// Upsert writes records and their vectors. Records and vectors must align
// by index.
func (s *Store) Upsert(ctx context.Context, records []ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return eixoerrors.StoreError("records and vectors length mismatch", nil)
	}
	if len(records) == 0 {
		return nil
	}

	if err := s.records.Upsert(ctx, records); err != nil {
		return eixoerrors.StoreError("failed to write chunk records", err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := s.vectors.Add(ctx, ids, vectors); err != nil {
		return eixoerrors.StoreError("failed to index vectors", err)
	}

	return nil
}

// Query returns up to k chunk records nearest to the query vector, ordered
// by ascending cosine distance.
func (s *Store) Query(ctx context.Context, query []float32, k int) ([]QueryResult, error) {
	hits, err := s.vectors.Search(ctx, query, k)
	if err != nil {
		return nil, eixoerrors.StoreError("vector search failed", err)
	}

	results := make([]QueryResult, 0, len(hits))
	for _, hit := range hits {
		record, err := s.records.Get(ctx, hit.ID)
		if errors.Is(err, ErrRecordNotFound) {
			// Vector without a record: skip rather than fail the query.
			s.logger.Warn("vector has no chunk record", "id", hit.ID)
			continue
		}
		if err != nil {
			return nil, eixoerrors.StoreError("failed to load chunk record", err)
		}
		results = append(results, QueryResult{Record: record, Distance: hit.Distance})
	}

	return results, nil
}

// Get returns a single chunk record by document ID and chunk number.
func (s *Store) Get(ctx context.Context, documentID string, chunkNum int) (ChunkRecord, error) {
	return s.records.Get(ctx, RecordID(documentID, chunkNum))
}

// GetByDocument returns a document's records ordered by chunk number.
func (s *Store) GetByDocument(ctx context.Context, documentID string) ([]ChunkRecord, error) {
	return s.records.GetByDocument(ctx, documentID)
}

// DeleteDocument removes a document's chunks from both stores, returning
// how many records were removed. Deleting an absent document removes zero.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	ids, err := s.records.IDsByDocument(ctx, documentID)
	if err != nil {
		return 0, eixoerrors.StoreError("failed to list document chunks", err)
	}

	count, err := s.records.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, eixoerrors.StoreError("failed to delete chunk records", err)
	}

	if err := s.vectors.Delete(ctx, ids); err != nil {
		return count, eixoerrors.StoreError("failed to delete vectors", err)
	}

	return count, nil
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.records.Count(ctx)
	if err != nil {
		return 0, eixoerrors.StoreError("failed to count chunks", err)
	}
	return count, nil
}

// Clear removes every chunk and resets the vector index.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.records.Clear(ctx); err != nil {
		return eixoerrors.StoreError("failed to clear chunk records", err)
	}
	s.vectors.Reset()

	// Remove the persisted index so a crash before the next Save cannot
	// resurrect stale vectors.
	vectorPath := filepath.Join(s.dir, vectorFileName)
	_ = os.Remove(vectorPath)
	_ = os.Remove(vectorPath + ".meta")

	return nil
}

// Save persists the vector index to disk.
func (s *Store) Save() error {
	if s.vectors.Count() == 0 {
		return nil
	}
	if err := s.vectors.Save(filepath.Join(s.dir, vectorFileName)); err != nil {
		return eixoerrors.StoreError("failed to save vector index", err)
	}
	return nil
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.dir
}

// Close saves the vector index, closes both stores, and releases the lock.
func (s *Store) Close() error {
	var firstErr error

	if err := s.Save(); err != nil {
		firstErr = err
	}
	if err := s.vectors.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.records.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.lock.Unlock(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
