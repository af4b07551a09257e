package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
	"github.com/roach88/schemamig/internal/view"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	StoreOptions
	Output   outputFlag
	ViewPath string
	Seeds    []string
}

// QueryResult holds the elements a query returned.
type QueryResult struct {
	Count    int          `json:"count"`
	Elements []ir.Element `json:"elements"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{StoreOptions: StoreOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query elements under a schema version",
		Long: `Query stored elements through the migration hook.

Groups named in the view are read together with their migration partners
and every result is normalized to the output version. Without --output the
spec's default version is used. Without --view every declared group is
read. Seeds restrict the query to elements touching the given vertices.

Examples:
  schemamig query --db graph.db --spec graph.cue
  schemamig query --db graph.db --spec graph.cue --output OLD --view view.yaml
  schemamig query --db graph.db --spec graph.cue --seed V1 --seed V2 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SpecPath, "spec", "", "path to CUE graph spec (required)")
	cmd.Flags().Var(&opts.Output, "output", "schema version of the results (OLD|NEW)")
	cmd.Flags().StringVar(&opts.ViewPath, "view", "", "path to a YAML view")
	cmd.Flags().StringArrayVar(&opts.Seeds, "seed", nil, "seed vertex (repeatable)")

	return cmd
}

func runQuery(ctx context.Context, opts *QueryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	s, err := openSession(&opts.StoreOptions, formatter, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Output.set {
		if err := s.hook.SetOutputType(opts.Output.Direction); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidArg, "invalid --output", err)
		}
	}

	v := view.ForSchema(s.spec.Schema)
	if opts.ViewPath != "" {
		v, err = view.LoadFile(opts.ViewPath)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidArg, "failed to load view", err)
		}
		for _, warning := range view.Validate(v, s.spec.Schema).Warnings {
			formatter.VerboseLog("view warning: %s", warning)
		}
	}

	var op graph.Operation = graph.GetAllElements{View: v}
	if len(opts.Seeds) > 0 {
		op = graph.GetElements{Seeds: opts.Seeds, View: v}
	}

	elements, err := s.graph.Collect(ctx, op)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeQuery, "query failed", err)
	}

	lines := make([]string, 0, len(elements)+1)
	for _, e := range elements {
		lines = append(lines, e.String())
	}
	lines = append(lines, fmt.Sprintf("%d element(s), output %s", len(elements), s.hook.OutputType()))

	return formatter.Lines(lines, QueryResult{Count: len(elements), Elements: elements})
}

// outputFlag is a Direction flag that remembers whether it was given, so an
// absent --output leaves the spec's default in place.
type outputFlag struct {
	migrate.Direction
	set bool
}

func (f *outputFlag) String() string {
	if !f.set {
		return ""
	}
	return f.Direction.String()
}

func (f *outputFlag) Set(s string) error {
	if err := f.Direction.Set(s); err != nil {
		return err
	}
	f.set = true
	return nil
}

func (f *outputFlag) Type() string {
	return f.Direction.Type()
}
