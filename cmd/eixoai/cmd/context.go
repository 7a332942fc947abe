package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	var topK int
	var minRelevance float64
	var expanded bool
	var noNeighbors bool

	cmd := &cobra.Command{
		Use:   "context <query>",
		Short: "Assemble prompt-ready context for a query",
		Long: `Search the store and print the results formatted as a context block
ready to paste into an LLM prompt.

With --expanded, each result is preceded by the chunk just before it in
its document, for better continuity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(cmd.Context(), args[0], topK, minRelevance, expanded, !noNeighbors)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of chunks (default from config)")
	cmd.Flags().Float64Var(&minRelevance, "min-relevance", -1, "Minimum relevance 0-1 (default from config)")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "Include preceding neighbor chunks")
	cmd.Flags().BoolVar(&noNeighbors, "no-neighbors", false, "With --expanded, skip neighbor chunks")

	return cmd
}

func runContext(ctx context.Context, query string, topK int, minRelevance float64, expanded, neighbors bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if topK <= 0 {
		topK = a.cfg.Retrieval.TopK
	}
	if minRelevance < 0 {
		minRelevance = a.cfg.Retrieval.MinRelevance
	}

	var out string
	if expanded {
		out = a.assembler.ExpandedContext(ctx, query, topK, neighbors && a.cfg.Retrieval.IncludeNeighbors)
	} else {
		out = a.assembler.Context(ctx, query, topK, minRelevance)
	}

	if out == "" {
		printer().Warnf("no relevant context found")
		return nil
	}

	fmt.Println(out)
	return nil
}
