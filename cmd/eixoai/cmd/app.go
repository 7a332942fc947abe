package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kaio-w-b/EixoAi/internal/chunk"
	"github.com/kaio-w-b/EixoAi/internal/config"
	"github.com/kaio-w-b/EixoAi/internal/embed"
	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
	"github.com/kaio-w-b/EixoAi/internal/index"
	"github.com/kaio-w-b/EixoAi/internal/lifecycle"
	"github.com/kaio-w-b/EixoAi/internal/logging"
	"github.com/kaio-w-b/EixoAi/internal/search"
	"github.com/kaio-w-b/EixoAi/internal/store"
	"github.com/kaio-w-b/EixoAi/internal/ui"
)

// app bundles the wired-up components a command needs.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	embedder  embed.Embedder
	indexer   *index.Indexer
	engine    *search.Engine
	assembler *search.Assembler
	manager   *lifecycle.Manager

	cleanups []func()
}

// newApp loads config and wires the full component stack. Callers must
// call close when done.
func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagStore != "" {
		cfg.Store.Path = flagStore
	}
	if flagOffline {
		cfg.Embeddings.Provider = "static"
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	// Default the log file into the store directory so plain runs keep
	// stderr clean for command output.
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = filepath.Join(cfg.Store.Path, "logs", "eixoai.log")
	}

	logger, logCleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      logFile,
		WriteToStderr: flagDebug,
	})
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.cleanups = append(a.cleanups, logCleanup)
	slog.SetDefault(logger)

	st, err := store.Open(cfg.Store.Path, store.VectorConfig{
		Dimensions: cfg.Embeddings.Dimensions,
	}, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = st
	a.cleanups = append(a.cleanups, func() { _ = st.Close() })

	embedder, err := embed.NewFromConfig(ctx, cfg.Embeddings, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.embedder = embedder
	a.cleanups = append(a.cleanups, func() { _ = embedder.Close() })

	splitter := chunk.NewSplitter(chunk.Strategy(cfg.Chunking.Strategy),
		cfg.Chunking.Size, cfg.Chunking.Overlap)

	a.indexer = index.New(splitter, embedder, st, logger)
	a.engine = search.NewEngine(st, embedder, cfg.Retrieval.TopK, logger)
	a.assembler = search.NewAssembler(a.engine, st, logger)
	a.manager = lifecycle.NewManager(st, embedder, logger)

	return a, nil
}

// close releases components in reverse wiring order.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

// printer builds the stdout printer for command output.
func printer() *ui.Printer {
	return ui.NewPrinter(os.Stdout)
}

// printError writes a structured error to stderr with its suggestion.
func printError(err error) {
	p := ui.NewPrinter(os.Stderr)

	var e *eixoerrors.Error
	if errors.As(err, &e) {
		p.Errorf("%s", e.Message)
		if e.Suggestion != "" {
			p.Dimf("  hint: %s", e.Suggestion)
		}
		return
	}
	p.Errorf("%s", err)
}

// fmtCount pluralizes a chunk count for human output.
func fmtCount(n int) string {
	if n == 1 {
		return "1 chunk"
	}
	return fmt.Sprintf("%d chunks", n)
}
