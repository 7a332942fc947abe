package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaio-w-b/EixoAi/internal/embed"
	"github.com/kaio-w-b/EixoAi/internal/store"
)

// seedStore indexes texts under one document using the static embedder.
func seedStore(t *testing.T, texts ...string) (*store.Store, embed.Embedder) {
	t.Helper()
	st, err := store.Open(t.TempDir(), store.VectorConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	embedder := embed.NewStaticEmbedder()
	now := time.Now().UTC()

	records := make([]store.ChunkRecord, len(texts))
	for i, text := range texts {
		records[i] = store.ChunkRecord{
			ID:         store.RecordID("doc1", i),
			DocumentID: "doc1",
			Source:     "manual.pdf",
			Page:       i + 1,
			ChunkNum:   i,
			Model:      embedder.ModelName(),
			CreatedAt:  now,
			Text:       text,
		}
	}

	vectors, err := embedder.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.NoError(t, st.Upsert(context.Background(), records, vectors))

	return st, embedder
}

func TestSearch_RanksByRelevance(t *testing.T) {
	st, embedder := seedStore(t,
		"install the printer driver before connecting the printer cable",
		"bake the cake at two hundred degrees for forty minutes",
		"the printer driver requires a restart after installation",
	)
	engine := NewEngine(st, embedder, 5, nil)

	results := engine.Search(context.Background(), "printer driver installation", Options{TopK: 3})
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Relevance, results[i].Relevance)
	}
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		assert.InDelta(t, 1.0-float64(r.Distance), r.Relevance, 1e-9)
	}
	assert.Contains(t, results[0].Text, "printer")
}

func TestSearch_EmptyStore(t *testing.T) {
	st, err := store.Open(t.TempDir(), store.VectorConfig{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	engine := NewEngine(st, embed.NewStaticEmbedder(), 5, nil)
	results := engine.Search(context.Background(), "anything", Options{})
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	st, embedder := seedStore(t, "some content")
	engine := NewEngine(st, embedder, 5, nil)

	assert.Empty(t, engine.Search(context.Background(), "", Options{}))
	assert.Empty(t, engine.Search(context.Background(), "   \n\t ", Options{}))
}

func TestSearch_DeduplicatesIdenticalChunks(t *testing.T) {
	duplicate := "exactly the same chunk text stored twice under different ids"
	st, embedder := seedStore(t, duplicate, duplicate, "something entirely different about gardening")
	engine := NewEngine(st, embedder, 5, nil)

	results := engine.Search(context.Background(), "same chunk text", Options{TopK: 5})

	texts := make(map[string]int)
	for _, r := range results {
		texts[r.Text]++
	}
	assert.Equal(t, 1, texts[duplicate])
}

func TestSearch_RankSurvivesDedup(t *testing.T) {
	duplicate := "maintenance schedule for the hydraulic press, revision two"
	st, embedder := seedStore(t, duplicate, duplicate, "unrelated note about cafeteria opening hours")
	engine := NewEngine(st, embedder, 5, nil)

	results := engine.Search(context.Background(), "hydraulic press maintenance schedule", Options{TopK: 5})
	require.Len(t, results, 2)

	// Rank reflects the raw candidate position, so dropping the duplicate
	// at position 2 leaves a gap rather than renumbering.
	assert.Equal(t, duplicate, results[0].Text)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 3, results[1].Rank)
}

func TestSearch_TopKTruncates(t *testing.T) {
	st, embedder := seedStore(t,
		"alpha topic one", "alpha topic two", "alpha topic three",
		"alpha topic four", "alpha topic five",
	)
	engine := NewEngine(st, embedder, 5, nil)

	results := engine.Search(context.Background(), "alpha topic", Options{TopK: 2})
	assert.LessOrEqual(t, len(results), 2)
}

func TestSearch_NoRerankKeepsDistanceOrder(t *testing.T) {
	st, embedder := seedStore(t, "first text", "second text", "third text")
	engine := NewEngine(st, embedder, 5, nil)

	results := engine.Search(context.Background(), "first text", Options{TopK: 3, NoRerank: true})
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	st, embedder := seedStore(t, "a", "b", "c")
	engine := NewEngine(st, embedder, 0, nil)
	assert.Equal(t, DefaultTopK, engine.topK)
}

func TestDedupKey_PrefixControlled(t *testing.T) {
	long := ""
	for i := 0; i < 120; i++ {
		long += "x"
	}

	// Same first 100 runes, divergent tails: treated as duplicates.
	assert.Equal(t, dedupKey(long+"AAA"), dedupKey(long+"BBB"))
	assert.NotEqual(t, dedupKey("short one"), dedupKey("short two"))

	// The text feeds the key verbatim, whitespace included.
	assert.NotEqual(t, dedupKey("  padded"), dedupKey("padded"))
}
