package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaio-w-b/EixoAi/internal/embed"
	"github.com/kaio-w-b/EixoAi/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), store.VectorConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewManager(st, embed.NewStaticEmbedder(), nil), st
}

func seedDocument(t *testing.T, st *store.Store, documentID string, chunks int) {
	t.Helper()
	ctx := context.Background()
	embedder := embed.NewStaticEmbedder()

	records := make([]store.ChunkRecord, chunks)
	texts := make([]string, chunks)
	for i := range records {
		texts[i] = documentID + " chunk content number " + string(rune('a'+i))
		records[i] = store.ChunkRecord{
			ID:         store.RecordID(documentID, i),
			DocumentID: documentID,
			Source:     documentID + ".txt",
			ChunkNum:   i,
			Model:      embedder.ModelName(),
			CreatedAt:  time.Now().UTC(),
			Text:       texts[i],
		}
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.NoError(t, st.Upsert(ctx, records, vectors))
}

func TestDeleteDocument(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	seedDocument(t, st, "doc1", 3)
	seedDocument(t, st, "doc2", 2)

	assert.Equal(t, 3, m.DeleteDocument(ctx, "doc1"))

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteDocument_UnknownIsZero(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Equal(t, 0, m.DeleteDocument(context.Background(), "ghost"))
}

func TestDeleteDocument_Idempotent(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	seedDocument(t, st, "doc1", 2)

	assert.Equal(t, 2, m.DeleteDocument(ctx, "doc1"))
	assert.Equal(t, 0, m.DeleteDocument(ctx, "doc1"))
}

func TestClearAll(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	seedDocument(t, st, "doc1", 3)

	assert.True(t, m.ClearAll(ctx))

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Store stays writable after a clear.
	seedDocument(t, st, "doc2", 1)
	count, err = st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectStats(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	seedDocument(t, st, "doc1", 4)

	stats := m.CollectStats(ctx)
	assert.Equal(t, 4, stats.TotalChunks)
	assert.Equal(t, "static-hash", stats.Model)
	assert.Equal(t, st.Path(), stats.StorePath)
	assert.False(t, stats.Timestamp.IsZero())
}

func TestCollectStats_EmptyStore(t *testing.T) {
	m, _ := newTestManager(t)

	stats := m.CollectStats(context.Background())
	assert.Equal(t, 0, stats.TotalChunks)
}
