package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/schemamig/internal/compiler"
	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/migrate"
	"github.com/roach88/schemamig/internal/store"
	"github.com/roach88/schemamig/internal/testutil"
)

// Harness is the scenario execution engine: one store and one migration
// hook, shared by every case of a scenario.
type Harness struct {
	graph  *graph.Graph
	schema *ir.Schema
	logger *slog.Logger
}

// Option configures a scenario run.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the graph and the migration hook.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh SQLite database for isolation.
//
// Execution flow:
// 1. Compile the scenario's CUE spec
// 2. Create a fresh database and store the scenario elements
// 3. Wire the migration hook configured by the spec into a graph
// 4. Run every case and evaluate its expectations
//
// An error is returned only when the scenario cannot be set up. Failed
// expectations are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	spec, err := compiler.LoadFile(scenario.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to compile spec: %w", err)
	}

	elements, err := store.BuildElements(scenario.Elements, spec.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to build elements: %w", err)
	}

	dir, err := os.MkdirTemp("", "schemamig-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "scenario.db"), spec.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.AddElements(ctx, elements); err != nil {
		return nil, fmt.Errorf("failed to store elements: %w", err)
	}

	hook, err := spec.Hook(migrate.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to configure migrations: %w", err)
	}

	h := &Harness{
		graph: graph.New(st,
			graph.WithHooks(hook),
			graph.WithLogger(cfg.logger),
			graph.WithQueryIDGenerator(testutil.NewFixedQueryIDGenerator(scenario.Name)),
		),
		schema: spec.Schema,
		logger: cfg.logger,
	}

	result := NewResult(scenario.Name)
	for _, c := range scenario.Cases {
		result.AddCase(h.runCase(ctx, c))
	}
	return result, nil
}

// runCase executes one query and evaluates its expectations.
func (h *Harness) runCase(ctx context.Context, c Case) CaseResult {
	res := CaseResult{Name: c.Name, Direction: c.Direction, Seeds: c.Seeds, Pass: true, Elements: []ir.Element{}}

	want, err := store.BuildElements(c.Expect, h.schema)
	if err != nil {
		res.AddError(fmt.Sprintf("expect: %v", err))
		return res
	}
	contains, err := store.BuildElements(c.ExpectContains, h.schema)
	if err != nil {
		res.AddError(fmt.Sprintf("expect_contains: %v", err))
		return res
	}

	op, err := h.operation(c)
	if err != nil {
		res.AddError(err.Error())
		return res
	}

	got, queryErr := h.graph.Collect(ctx, op)
	if got != nil {
		res.Elements = got
	}
	res.ErrorCategory = classifyError(queryErr)
	h.logger.DebugContext(ctx, "case finished", "case", c.Name, "elements", len(res.Elements), "error", queryErr)

	for _, failure := range evaluateCase(c, want, contains, res.Elements, queryErr) {
		res.AddError(failure.Error())
	}
	return res
}

// operation builds the graph operation of a case.
func (h *Harness) operation(c Case) (graph.Operation, error) {
	var options map[string]string
	if c.Direction != "" {
		options = map[string]string{migrate.OptionOutputType: c.Direction}
	}

	op := graph.GetAllElements{Options: options}
	if c.View != nil {
		v, err := c.View.Build()
		if err != nil {
			return nil, fmt.Errorf("view: %w", err)
		}
		op.View = v
	}

	if len(c.Seeds) > 0 {
		return graph.GetElements{Seeds: c.Seeds, View: op.View, Options: options}, nil
	}
	return op, nil
}
