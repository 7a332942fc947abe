package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordStore(t *testing.T) *RecordStore {
	t.Helper()
	s, err := OpenRecordStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(documentID string, chunkNum int) ChunkRecord {
	return ChunkRecord{
		ID:         RecordID(documentID, chunkNum),
		DocumentID: documentID,
		Source:     "notes.txt",
		Page:       0,
		ChunkNum:   chunkNum,
		Model:      "static-hash",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Text:       "chunk text",
	}
}

func TestRecordStore_UpsertAndGet(t *testing.T) {
	s := newTestRecordStore(t)
	ctx := context.Background()

	rec := testRecord("doc1", 0)
	require.NoError(t, s.Upsert(ctx, []ChunkRecord{rec}))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRecordStore_GetMissing(t *testing.T) {
	s := newTestRecordStore(t)

	_, err := s.Get(context.Background(), "absent_0")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordStore_UpsertReplaces(t *testing.T) {
	s := newTestRecordStore(t)
	ctx := context.Background()

	rec := testRecord("doc1", 0)
	require.NoError(t, s.Upsert(ctx, []ChunkRecord{rec}))

	rec.Text = "updated text"
	require.NoError(t, s.Upsert(ctx, []ChunkRecord{rec}))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated text", got.Text)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordStore_GetByDocumentOrdered(t *testing.T) {
	s := newTestRecordStore(t)
	ctx := context.Background()

	// Insert out of order; retrieval is ordered by chunk number.
	require.NoError(t, s.Upsert(ctx, []ChunkRecord{
		testRecord("doc1", 2),
		testRecord("doc1", 0),
		testRecord("doc2", 0),
		testRecord("doc1", 1),
	}))

	records, err := s.GetByDocument(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.ChunkNum)
		assert.Equal(t, "doc1", r.DocumentID)
	}
}

func TestRecordStore_DeleteByDocument(t *testing.T) {
	s := newTestRecordStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []ChunkRecord{
		testRecord("doc1", 0),
		testRecord("doc1", 1),
		testRecord("doc2", 0),
	}))

	count, err := s.DeleteByDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Idempotent: the second delete removes nothing.
	count, err = s.DeleteByDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRecordStore_Clear(t *testing.T) {
	s := newTestRecordStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []ChunkRecord{testRecord("doc1", 0)}))
	require.NoError(t, s.Clear(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Store stays usable after a clear.
	require.NoError(t, s.Upsert(ctx, []ChunkRecord{testRecord("doc1", 0)}))
}
