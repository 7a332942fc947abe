package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO
)

// ErrRecordNotFound is returned when a chunk record does not exist.
var ErrRecordNotFound = errors.New("chunk record not found")

const chunkSchema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	source      TEXT NOT NULL,
	page        INTEGER NOT NULL DEFAULT 0,
	chunk_num   INTEGER NOT NULL,
	model       TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	text        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id, chunk_num);
`

// RecordStore persists chunk records in SQLite.
type RecordStore struct {
	db   *sql.DB
	path string
}

// OpenRecordStore opens (or creates) the chunk database at path.
func OpenRecordStore(path string) (*RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL must be set via PRAGMA with modernc.org/sqlite.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	var integrity string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&integrity); err != nil || integrity != "ok" {
		db.Close()
		return nil, fmt.Errorf("database integrity check failed: %v (%s)", err, integrity)
	}

	if _, err := db.Exec(chunkSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &RecordStore{db: db, path: path}, nil
}

// Upsert writes records in a single transaction.
func (s *RecordStore) Upsert(ctx context.Context, records []ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, source, page, chunk_num, model, created_at, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			source      = excluded.source,
			page        = excluded.page,
			chunk_num   = excluded.chunk_num,
			model       = excluded.model,
			created_at  = excluded.created_at,
			text        = excluded.text`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.DocumentID, r.Source, r.Page,
			r.ChunkNum, r.Model, r.CreatedAt.Unix(), r.Text); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Get returns the record with the given ID.
func (s *RecordStore) Get(ctx context.Context, id string) (ChunkRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, source, page, chunk_num, model, created_at, text
		FROM chunks WHERE id = ?`, id)
	return scanRecord(row)
}

// GetByDocument returns a document's records ordered by chunk number.
func (s *RecordStore) GetByDocument(ctx context.Context, documentID string) ([]ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, source, page, chunk_num, model, created_at, text
		FROM chunks WHERE document_id = ? ORDER BY chunk_num`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query document chunks: %w", err)
	}
	defer rows.Close()

	var records []ChunkRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// IDsByDocument returns the record IDs of a document.
func (s *RecordStore) IDsByDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return nil, fmt.Errorf("query document ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByDocument removes a document's records, returning how many were removed.
func (s *RecordStore) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return 0, fmt.Errorf("delete document chunks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Count returns the total number of stored chunks.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

// Clear drops and recreates the chunk table.
func (s *RecordStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS chunks"); err != nil {
		return fmt.Errorf("drop chunks table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, chunkSchema); err != nil {
		return fmt.Errorf("recreate chunks table: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database.
func (s *RecordStore) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (ChunkRecord, error) {
	var r ChunkRecord
	var createdAt int64
	err := s.Scan(&r.ID, &r.DocumentID, &r.Source, &r.Page, &r.ChunkNum,
		&r.Model, &createdAt, &r.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return ChunkRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return ChunkRecord{}, fmt.Errorf("scan chunk record: %w", err)
	}
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	return r, nil
}
