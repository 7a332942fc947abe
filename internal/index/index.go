// Package index implements the document write path: extract, normalize,
// chunk, embed, store.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/kaio-w-b/EixoAi/internal/chunk"
	"github.com/kaio-w-b/EixoAi/internal/embed"
	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
	"github.com/kaio-w-b/EixoAi/internal/extract"
	"github.com/kaio-w-b/EixoAi/internal/store"
)

// documentIDLength is the hex length of a document ID.
const documentIDLength = 16

// DocumentID derives the stable ID for a source. The same source always
// maps to the same document, so re-adding replaces instead of duplicating.
func DocumentID(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:documentIDLength]
}

// AddResult reports what indexing a document produced.
type AddResult struct {
	DocumentID string
	Source     string
	Chunks     int
	ChunkIDs   []string
}

// Indexer runs the write path for one store. Chunking parameters are fixed
// at construction and apply to every document.
type Indexer struct {
	splitter *chunk.Splitter
	embedder embed.Embedder
	store    *store.Store
	logger   *slog.Logger
}

// New creates an Indexer.
func New(splitter *chunk.Splitter, embedder embed.Embedder, st *store.Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		splitter: splitter,
		embedder: embedder,
		store:    st,
		logger:   logger.With("component", "index"),
	}
}

// AddFile extracts a file and indexes it under its path as source.
func (ix *Indexer) AddFile(ctx context.Context, path string) (*AddResult, error) {
	pages, err := extract.ExtractPages(path)
	if err != nil {
		return nil, err
	}
	return ix.AddDocument(ctx, path, pages)
}

// AddDocument chunks, embeds, and stores a document's pages. All chunks of
// all pages go through one batched embed call and one store write, so a
// failure leaves either the whole document indexed or a loud error.
func (ix *Indexer) AddDocument(ctx context.Context, source string, pages []extract.Page) (*AddResult, error) {
	documentID := DocumentID(source)

	var records []store.ChunkRecord
	var texts []string
	chunkNum := 0
	now := time.Now().UTC()

	for _, page := range pages {
		normalized := chunk.Normalize(page.Text)
		for _, c := range ix.splitter.Split(normalized) {
			records = append(records, store.ChunkRecord{
				ID:         store.RecordID(documentID, chunkNum),
				DocumentID: documentID,
				Source:     source,
				Page:       page.Number,
				ChunkNum:   chunkNum,
				Model:      ix.embedder.ModelName(),
				CreatedAt:  now,
				Text:       c.Text,
			})
			texts = append(texts, c.Text)
			chunkNum++
		}
	}

	if len(records) == 0 {
		ix.logger.Warn("document produced no chunks", "source", source)
		return &AddResult{DocumentID: documentID, Source: source}, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, eixoerrors.IndexingError("failed to embed document chunks", err).
			WithDetail("source", source)
	}

	// Replacing an existing document: drop its old chunks first so a
	// shrunk document leaves no stale tail behind.
	if _, err := ix.store.DeleteDocument(ctx, documentID); err != nil {
		return nil, eixoerrors.IndexingError("failed to replace existing document", err).
			WithDetail("source", source)
	}

	if err := ix.store.Upsert(ctx, records, vectors); err != nil {
		return nil, eixoerrors.IndexingError("failed to store document chunks", err).
			WithDetail("source", source)
	}

	ix.logger.Info("document indexed",
		"source", source,
		"document_id", documentID,
		"chunks", len(records))

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	return &AddResult{
		DocumentID: documentID,
		Source:     source,
		Chunks:     len(records),
		ChunkIDs:   ids,
	}, nil
}
