package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var byID bool

	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Remove a document from the store",
		Long: `Remove every chunk of a document. The argument is the source path the
document was added under; with --id it is taken as a raw document ID.

Deleting a document that is not indexed removes nothing and succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), args[0], byID)
		},
	}

	cmd.Flags().BoolVar(&byID, "id", false, "Treat the argument as a document ID")
	return cmd
}

func runDelete(ctx context.Context, arg string, byID bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	documentID := arg
	if !byID {
		documentID = documentIDFor(arg)
	}

	removed := a.manager.DeleteDocument(ctx, documentID)

	p := printer()
	if removed == 0 {
		p.Warnf("no chunks found for %s", arg)
		return nil
	}
	p.Successf("removed %s of %s", fmtCount(removed), arg)
	return nil
}
