package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kaio-w-b/EixoAi/internal/extract"
	"github.com/kaio-w-b/EixoAi/internal/index"
)

// addConcurrency bounds how many files are extracted and indexed at once.
const addConcurrency = 4

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Index documents into the store",
		Long: `Index one or more documents. Paths may be files (pdf, txt, md) or
directories, which are walked recursively for supported files.

Re-adding a path replaces its previous chunks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args)
		},
	}
}

func runAdd(ctx context.Context, paths []string) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printer().Warnf("no supported documents found")
		return nil
	}

	p := printer()
	var mu sync.Mutex
	var indexed, failed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(addConcurrency)
	for _, file := range files {
		file := file // per-iteration copy; required while go.mod targets go < 1.22
		g.Go(func() error {
			result, err := a.indexer.AddFile(gctx, file)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				p.Errorf("%s: %v", file, err)
				return nil // keep indexing the rest
			}
			indexed++
			p.Successf("%s: %s (document %s)", file, fmtCount(result.Chunks), result.DocumentID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.Infof("indexed %d of %d documents", indexed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

// collectFiles expands directories into their supported files.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := extract.FindDocuments(path)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// documentIDFor is a small helper for delete-by-path.
func documentIDFor(source string) string {
	return index.DocumentID(source)
}
