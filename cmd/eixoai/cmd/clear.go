package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every indexed document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func runClear(ctx context.Context, force bool) error {
	if !force {
		fmt.Print("This removes every indexed document. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if answer = strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			printer().Infof("aborted")
			return nil
		}
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.manager.ClearAll(ctx) {
		return fmt.Errorf("clear failed, see logs")
	}
	printer().Successf("store cleared")
	return nil
}
