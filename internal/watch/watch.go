// Package watch re-indexes documents as they change on disk.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
	"github.com/kaio-w-b/EixoAi/internal/extract"
	"github.com/kaio-w-b/EixoAi/internal/index"
	"github.com/kaio-w-b/EixoAi/internal/lifecycle"
)

// DefaultDebounce is how long a file must stay quiet before re-indexing.
// Editors fire several events per save; only the last one matters.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-indexes files in a directory when they change.
type Watcher struct {
	dir      string
	indexer  *index.Indexer
	manager  *lifecycle.Manager
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher for dir.
func New(dir string, indexer *index.Indexer, manager *lifecycle.Manager, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      dir,
		indexer:  indexer,
		manager:  manager,
		debounce: DefaultDebounce,
		logger:   logger.With("component", "watch"),
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is canceled. Indexing
// failures are logged and do not stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return eixoerrors.New(eixoerrors.ErrCodeInternal, "failed to create file watcher", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return eixoerrors.New(eixoerrors.ErrCodeInternal, "failed to watch directory", err).
			WithDetail("dir", w.dir)
	}

	w.logger.Info("watching for document changes", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !extract.Supported(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.scheduleReindex(ctx, event.Name)

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancelFor(event.Name)
		removed := w.manager.DeleteDocument(ctx, index.DocumentID(event.Name))
		if removed > 0 {
			w.logger.Info("removed document after file deletion",
				"path", event.Name, "chunks", removed)
		}
	}
}

// scheduleReindex (re)arms the per-file debounce timer.
func (w *Watcher) scheduleReindex(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if result, err := w.indexer.AddFile(ctx, path); err != nil {
			w.logger.Warn("re-index failed", "path", path, "error", err)
		} else {
			w.logger.Info("re-indexed changed file", "path", path, "chunks", result.Chunks)
		}
	})
}

func (w *Watcher) cancelFor(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, exists := w.pending[path]; exists {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
