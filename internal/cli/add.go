package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/store"
)

// AddResult reports how many elements were stored.
type AddResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <elements.yaml>",
		Short: "Store elements",
		Long: `Store the elements of a YAML document in a database.

Elements are written as they are, into the group they name. Elements with
the same group and identity are kept as separate rows and aggregated when
read.

Examples:
  schemamig add --db graph.db --spec graph.cue elements.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SpecPath, "spec", "", "path to CUE graph spec (required)")

	return cmd
}

func runAdd(ctx context.Context, opts *StoreOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	s, err := openSession(opts, formatter, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	elements, err := store.LoadElements(path, s.spec.Schema)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidArg, "failed to load elements", err)
	}

	if _, err := s.graph.Collect(ctx, graph.AddElements{Elements: elements}); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "failed to store elements", err)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "failed to count elements", err)
	}

	result := AddResult{Added: len(elements), Total: total}
	return formatter.Lines([]string{fmt.Sprintf("Added %d element(s), %d stored", result.Added, result.Total)}, result)
}
