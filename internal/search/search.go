// Package search implements the read path: vector search with optional
// rerank, and context assembly for prompt building.
//
// Read-path failures degrade to empty results. A conversation losing one
// retrieval is recoverable; crashing it is not.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"

	"github.com/kaio-w-b/EixoAi/internal/chunk"
	"github.com/kaio-w-b/EixoAi/internal/embed"
	"github.com/kaio-w-b/EixoAi/internal/store"
)

// DefaultTopK is the default number of results.
const DefaultTopK = 5

// dedupPrefixRunes is how much of a chunk's text feeds its duplicate key.
const dedupPrefixRunes = 100

// Result is a scored search hit.
type Result struct {
	// ID is the chunk's store key.
	ID string `json:"id"`

	// DocumentID identifies the chunk's document.
	DocumentID string `json:"document_id"`

	// Text is the chunk text.
	Text string `json:"text"`

	// Source is the originating file.
	Source string `json:"source"`

	// Page is the 1-based page, 0 for unpaged sources.
	Page int `json:"page"`

	// ChunkNum is the chunk's position within its document.
	ChunkNum int `json:"chunk_num"`

	// Distance is the cosine distance from the query.
	Distance float32 `json:"distance"`

	// Relevance is 1 - Distance. Negative when the match points away from
	// the query; minRelevance filtering drops those.
	Relevance float64 `json:"relevance"`

	// Rank is the 1-based position in the raw candidate list, before any
	// dedup or re-sort. Gaps after rerank mean duplicates were dropped.
	Rank int `json:"rank"`
}

// Options tunes a single search call. Zero values take engine defaults.
type Options struct {
	// TopK is the number of results to return.
	TopK int

	// NoRerank disables over-fetch, dedup, and relevance re-sort.
	NoRerank bool
}

// Engine runs queries against the store.
type Engine struct {
	store    *store.Store
	embedder embed.Embedder
	topK     int
	logger   *slog.Logger
}

// NewEngine creates an Engine with the given default topK.
func NewEngine(st *store.Store, embedder embed.Embedder, topK int, logger *slog.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    st,
		embedder: embedder,
		topK:     topK,
		logger:   logger.With("component", "search"),
	}
}

// Search returns the chunks most relevant to the query. Failures anywhere
// on the read path are logged and produce an empty result set.
func (e *Engine) Search(ctx context.Context, query string, opts Options) []Result {
	normalized := chunk.Normalize(query)
	if normalized == "" {
		e.logger.Warn("empty query")
		return nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = e.topK
	}

	// Over-fetch so dedup still has topK distinct chunks to keep.
	fetchK := topK
	if !opts.NoRerank {
		fetchK = topK * 2
	}

	vector, err := e.embedder.Embed(ctx, normalized)
	if err != nil {
		e.logger.Warn("query embedding failed", "error", err)
		return nil
	}

	hits, err := e.store.Query(ctx, vector, fetchK)
	if err != nil {
		e.logger.Warn("vector query failed", "error", err)
		return nil
	}

	results := make([]Result, 0, len(hits))
	for i, hit := range hits {
		results = append(results, Result{
			ID:         hit.Record.ID,
			DocumentID: hit.Record.DocumentID,
			Text:       hit.Record.Text,
			Source:     hit.Record.Source,
			Page:       hit.Record.Page,
			ChunkNum:   hit.Record.ChunkNum,
			Distance:   hit.Distance,
			Relevance:  1.0 - float64(hit.Distance),
			Rank:       i + 1,
		})
	}

	if !opts.NoRerank {
		results = rerank(results, topK)
	} else if len(results) > topK {
		results = results[:topK]
	}

	e.logger.Debug("search complete", "query_len", len(normalized), "results", len(results))
	return results
}

// rerank deduplicates near-identical chunks and re-orders by relevance.
// The first occurrence in store order wins; the relevance sort is stable,
// so equal scores keep that order.
func rerank(results []Result, topK int) []Result {
	seen := make(map[string]struct{}, len(results))
	deduped := results[:0]
	for _, r := range results {
		key := dedupKey(r.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Relevance > deduped[j].Relevance
	})

	if len(deduped) > topK {
		deduped = deduped[:topK]
	}
	return deduped
}

// dedupKey hashes the first 100 runes of the text. Chunks that share a
// prefix that long are duplicates for retrieval purposes.
func dedupKey(text string) string {
	runes := []rune(text)
	if len(runes) > dedupPrefixRunes {
		runes = runes[:dedupPrefixRunes]
	}
	sum := sha256.Sum256([]byte(string(runes)))
	return hex.EncodeToString(sum[:])
}
