// Package lifecycle covers document removal and store-wide maintenance.
// Operations here are best-effort: they log what went wrong and report
// zero-value outcomes rather than failing the caller.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/kaio-w-b/EixoAi/internal/embed"
	"github.com/kaio-w-b/EixoAi/internal/store"
)

// Stats summarizes the store's contents.
type Stats struct {
	TotalChunks int       `json:"total_chunks"`
	Model       string    `json:"model"`
	StorePath   string    `json:"store_path"`
	Timestamp   time.Time `json:"timestamp"`
}

// Manager performs lifecycle operations on a store.
type Manager struct {
	store    *store.Store
	embedder embed.Embedder
	logger   *slog.Logger
}

// NewManager creates a Manager.
func NewManager(st *store.Store, embedder embed.Embedder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    st,
		embedder: embedder,
		logger:   logger.With("component", "lifecycle"),
	}
}

// DeleteDocument removes a document's chunks and returns how many were
// removed. Deleting an unknown document removes zero; failures log a
// warning and report zero.
func (m *Manager) DeleteDocument(ctx context.Context, documentID string) int {
	count, err := m.store.DeleteDocument(ctx, documentID)
	if err != nil {
		m.logger.Warn("document deletion failed", "document_id", documentID, "error", err)
		return 0
	}

	if count == 0 {
		m.logger.Info("no chunks found for document", "document_id", documentID)
	} else {
		m.logger.Info("document deleted", "document_id", documentID, "chunks", count)
	}
	return count
}

// ClearAll removes every indexed chunk. Returns false when the clear failed.
func (m *Manager) ClearAll(ctx context.Context) bool {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("store clear failed", "error", err)
		return false
	}
	m.logger.Info("store cleared")
	return true
}

// CollectStats reports store statistics. On failure it logs a warning and
// returns zero counts rather than an error.
func (m *Manager) CollectStats(ctx context.Context) Stats {
	stats := Stats{
		Model:     m.embedder.ModelName(),
		StorePath: m.store.Path(),
		Timestamp: time.Now().UTC(),
	}

	count, err := m.store.Count(ctx)
	if err != nil {
		m.logger.Warn("stats collection failed", "error", err)
		return stats
	}
	stats.TotalChunks = count
	return stats
}
