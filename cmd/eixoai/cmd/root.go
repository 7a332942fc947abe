// Package cmd provides the CLI commands for EixoAi.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Global flags shared by every command.
var (
	flagConfig  string
	flagStore   string
	flagOffline bool
	flagDebug   bool
)

// NewRootCmd creates the root command for the eixoai CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eixoai",
		Short: "Local RAG document retrieval",
		Long: `EixoAi indexes documents (PDF, text, markdown) into a local vector
store and retrieves the chunks most relevant to a query, formatted as
context ready to paste into an LLM prompt.

Everything runs locally: Ollama generates embeddings, SQLite and an HNSW
index hold the data.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("eixoai version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Use static embeddings (no Ollama)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newContextCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command with signal-aware context cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(err)
		return err
	}
	return nil
}
