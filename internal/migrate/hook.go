package migrate

import (
	"context"
	"log/slog"

	"github.com/roach88/schemamig/internal/graph"
	"github.com/roach88/schemamig/internal/ir"
	"github.com/roach88/schemamig/internal/stream"
)

// OptionOutputType is the operation option that overrides the hook's
// Direction for a single query. Its value is "OLD" or "NEW".
const OptionOutputType = "schema-migration.output-type"

// Hook applies schema migrations around query execution. It implements
// graph.Hook.
//
// PreExecute expands the view of every view-bearing operation; PostExecute
// normalizes its result. Operations without a view pass through. With no
// migrations configured both are no-ops.
//
// A Hook holds no per-query state, and queries may run concurrently once it
// is configured. ConfigureMigrations and SetOutputType are not synchronized:
// calling them while another goroutine builds a query is a data race the
// caller must prevent. A result already wrapped keeps the Direction it was
// wrapped with.
type Hook struct {
	registry *Registry
	schema   *ir.Schema
	output   Direction
	logger   *slog.Logger
}

// HookOption configures a Hook.
type HookOption func(*Hook)

// WithLogger sets the logger used for debug output.
// Default: slog.Default().
func WithLogger(l *slog.Logger) HookOption {
	return func(h *Hook) {
		h.logger = l
	}
}

// WithSchema makes ConfigureMigrations reject entries naming groups s does
// not declare. Without it the caller must ensure every migrated group is in
// the store schema.
func WithSchema(s *ir.Schema) HookOption {
	return func(h *Hook) {
		h.schema = s
	}
}

// WithOutputType sets the initial Direction. Default: New. An invalid
// Direction makes every view-bearing query fail in PreExecute.
func WithOutputType(d Direction) HookOption {
	return func(h *Hook) {
		h.output = d
	}
}

// NewHook creates a hook with no migrations configured.
func NewHook(opts ...HookOption) *Hook {
	h := &Hook{
		registry: &Registry{},
		output:   New,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ConfigureMigrations replaces the hook's registry. On error the previous
// registry is kept.
//
// Every migrated group must be declared in the store schema: expanded views
// name partner groups and the store rejects undeclared ones. The check runs
// here when the hook was built WithSchema.
func (h *Hook) ConfigureMigrations(entities, edges []Entry) error {
	r, err := NewRegistry(entities, edges)
	if err != nil {
		return err
	}
	if h.schema != nil {
		if err := r.CheckSchema(h.schema); err != nil {
			return err
		}
	}
	h.registry = r
	return nil
}

// SetOutputType sets the Direction used by queries wrapped after this call.
// A Direction that is neither Old nor New is rejected with a
// *ConfigurationError and the previous Direction is kept.
func (h *Hook) SetOutputType(d Direction) error {
	if err := d.check(); err != nil {
		return err
	}
	h.output = d
	return nil
}

// OutputType returns the configured Direction.
func (h *Hook) OutputType() Direction {
	return h.output
}

// Registry returns the configured registry.
func (h *Hook) Registry() *Registry {
	return h.registry
}

// PreExecute replaces the view of a view-bearing operation with its
// expansion. An invalid OptionOutputType fails here, before the store runs.
func (h *Hook) PreExecute(ctx context.Context, op graph.Operation) (graph.Operation, error) {
	vop, ok := op.(graph.ViewOperation)
	if !ok || h.registry.IsEmpty() {
		return op, nil
	}
	if _, err := h.direction(vop); err != nil {
		return nil, err
	}
	v := vop.OperationView()
	if v == nil {
		return op, nil
	}

	expanded, added := expandView(v, h.registry)
	if len(added) > 0 {
		h.logger.DebugContext(ctx, "expanded view for migrations",
			"operation", op.OperationName(),
			"added_entities", added[ir.KindEntity],
			"added_edges", added[ir.KindEdge],
		)
	}
	return vop.WithView(expanded), nil
}

// PostExecute wraps the result of a view-bearing operation with a
// normalizer. The Direction is resolved now, not when elements are pulled.
func (h *Hook) PostExecute(ctx context.Context, op graph.Operation, result stream.Iterator) (stream.Iterator, error) {
	vop, ok := op.(graph.ViewOperation)
	if !ok || h.registry.IsEmpty() {
		return result, nil
	}
	d, err := h.direction(vop)
	if err != nil {
		return nil, err
	}
	h.logger.DebugContext(ctx, "normalizing result",
		"operation", op.OperationName(),
		"output_type", d.String(),
	)
	return Normalize(result, h.registry, d), nil
}

// direction resolves the Direction for one operation.
func (h *Hook) direction(op graph.ViewOperation) (Direction, error) {
	if raw, ok := op.OperationOptions()[OptionOutputType]; ok {
		return ParseDirection(raw)
	}
	return h.output, h.output.check()
}
