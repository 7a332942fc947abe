package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaio-w-b/EixoAi/internal/search"
)

func newSearchCmd() *cobra.Command {
	var topK int
	var jsonOutput bool
	var noRerank bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed documents",
		Long: `Search the store for chunks relevant to the query. Results are ranked
by relevance (1 - cosine distance) and deduplicated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), args[0], topK, jsonOutput, noRerank)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of results (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noRerank, "no-rerank", false, "Skip dedup and relevance re-sort")

	return cmd
}

func runSearch(ctx context.Context, query string, topK int, jsonOutput, noRerank bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	results := a.engine.Search(ctx, query, search.Options{TopK: topK, NoRerank: noRerank})

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	p := printer()
	if len(results) == 0 {
		p.Warnf("no results")
		return nil
	}

	for _, r := range results {
		p.Infof("[%d] %s (pág. %d, chunk %d, relevância: %.2f%%)",
			r.Rank, r.Source, r.Page, r.ChunkNum, r.Relevance*100)
		p.Dimf("%s", r.Text)
		p.Infof("")
	}
	return nil
}
