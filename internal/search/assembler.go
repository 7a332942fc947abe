package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaio-w-b/EixoAi/internal/store"
)

// contextHeader opens every assembled context block.
const contextHeader = "=== CONTEXTO RELEVANTE ===\n"

// Assembler turns search results into prompt-ready context text.
type Assembler struct {
	engine *Engine
	store  *store.Store
	logger *slog.Logger
}

// NewAssembler creates an Assembler on top of an Engine.
func NewAssembler(engine *Engine, st *store.Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		engine: engine,
		store:  st,
		logger: logger.With("component", "search.assembler"),
	}
}

// Context returns formatted context for the query, dropping results below
// minRelevance. Returns "" when nothing qualifies.
func (a *Assembler) Context(ctx context.Context, query string, topK int, minRelevance float64) string {
	results := a.engine.Search(ctx, query, Options{TopK: topK})

	var relevant []Result
	for _, r := range results {
		if r.Relevance >= minRelevance {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return ""
	}

	var parts []string
	parts = append(parts, contextHeader)
	for i, r := range relevant {
		parts = append(parts, fmt.Sprintf("[%d] %s (pág. %d, relevância: %s)",
			i+1, r.Source, r.Page, formatPercent(r.Relevance)))
		parts = append(parts, r.Text+"\n")
	}

	a.logger.Info("context assembled", "chunks", len(relevant))
	return strings.Join(parts, "\n")
}

// ExpandedContext returns context where each result is preceded by the
// chunk just before it in its document, when one exists. Neighbors carry
// no relevance score and do not count toward topK.
func (a *Assembler) ExpandedContext(ctx context.Context, query string, topK int, includeNeighbors bool) string {
	results := a.engine.Search(ctx, query, Options{TopK: topK})
	if len(results) == 0 {
		return ""
	}

	var parts []string
	parts = append(parts, contextHeader)

	for i, r := range results {
		if includeNeighbors && r.ChunkNum > 0 {
			neighbor, err := a.store.Get(ctx, r.DocumentID, r.ChunkNum-1)
			switch {
			case err == nil:
				parts = append(parts, fmt.Sprintf("  [Chunk vizinho anterior] %s (pág. %d)",
					neighbor.Source, neighbor.Page))
				parts = append(parts, neighbor.Text+"\n")
			case errors.Is(err, store.ErrRecordNotFound):
				// First chunk of its page run; nothing to prepend.
			default:
				a.logger.Warn("neighbor lookup failed", "id", r.ID, "error", err)
			}
		}

		parts = append(parts, fmt.Sprintf("  [%d] %s (pág. %d) (relevância: %s)",
			i+1, r.Source, r.Page, formatPercent(r.Relevance)))
		parts = append(parts, r.Text+"\n")
	}

	a.logger.Info("expanded context assembled", "chunks", len(results))
	return strings.Join(parts, "\n")
}

// formatPercent renders a 0-1 relevance as a percentage with two decimals.
func formatPercent(relevance float64) string {
	return fmt.Sprintf("%.2f%%", relevance*100)
}
