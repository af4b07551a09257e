package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/schemamig/internal/compiler"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
)

// ValidationIssue is one problem found in a spec.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Types      int               `json:"types,omitempty"`
	Entities   int               `json:"entities,omitempty"`
	Edges      int               `json:"edges,omitempty"`
	Migrations int               `json:"migrations,omitempty"`
	Output     string            `json:"output,omitempty"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate a graph spec",
		Long: `Compile a CUE graph spec and check it for consistency.

The spec path may be a single .cue file or a directory holding one CUE
package. Types, groups and migrations are checked together and every
problem found is reported.

Exit codes:
  0 - Spec is valid
  1 - Spec has errors
  2 - Command error (spec not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	formatter.VerboseLog("Loading spec %s", path)
	spec, err := compiler.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("spec not found: %s", path), nil)
		}
		return outputValidationIssues(formatter, issuesFromError(err))
	}

	result := summarize(spec)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w, "\u2713 Spec valid")
	fmt.Fprintf(w, "  types: %d, entities: %d, edges: %d\n", result.Types, result.Entities, result.Edges)
	fmt.Fprintf(w, "  migrations: %d, output: %s\n", result.Migrations, result.Output)
	return nil
}

// summarize counts what a valid spec declares.
func summarize(spec *compiler.GraphSpec) ValidationResult {
	return ValidationResult{
		Valid:      true,
		Types:      len(spec.Schema.Types),
		Entities:   len(spec.Schema.Groups(ir.KindEntity)),
		Edges:      len(spec.Schema.Groups(ir.KindEdge)),
		Migrations: len(spec.Entities) + len(spec.Edges),
		Output:     spec.Output.String(),
	}
}

// issuesFromError converts a compile failure into validation issues.
func issuesFromError(err error) []ValidationIssue {
	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]ValidationIssue, len(verrs))
		for i, e := range verrs {
			issues[i] = ValidationIssue{Field: e.Field, Message: e.Message, Code: e.Code}
		}
		return issues
	}

	var cerr *compiler.CompileError
	if errors.As(err, &cerr) {
		issue := ValidationIssue{Field: cerr.Field, Message: cerr.Message, Code: ErrCodeCompile}
		if cerr.Pos.IsValid() {
			issue.Line = cerr.Pos.Line()
		}
		return []ValidationIssue{issue}
	}

	var conf *migrate.ConfigurationError
	if errors.As(err, &conf) {
		field := "migrations"
		if conf.Group != "" {
			field = fmt.Sprintf("migrations.%s.%s", conf.Kind, conf.Group)
		}
		return []ValidationIssue{{Field: field, Message: conf.Message, Code: string(conf.Code)}}
	}

	return []ValidationIssue{{Field: "spec", Message: err.Error(), Code: ErrCodeGeneric}}
}

// outputValidationIssues outputs every issue and returns an ExitFailure error.
func outputValidationIssues(formatter *OutputFormatter, issues []ValidationIssue) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	fmt.Fprintln(w, "\u2717 Validation failed")
	fmt.Fprintln(w)
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(w, "line %d\n", issue.Line)
		}
		fmt.Fprintf(w, "  %s: %s: %s\n\n", issue.Code, issue.Field, issue.Message)
	}
	return failure
}
